package activity

import "sort"

const (
	criticalWeight  = 2.0
	bloodMagnitude  = 10.0
	mucusMagnitude  = 7.0
	secondaryWeight = 0.15
	sleepWeight     = 0.06

	trendWindow    = 7
	trendThreshold = 1.0
)

// trend multipliers applied to the averaged daily score
var trendMultiplier = map[Trend]float64{
	TrendWorsening: 1.2,
	TrendImproving: 0.8,
	TrendStable:    1.0,
}

// ScoreResult is the scorer's output. AdjustedScore is what the classifier sees.
type ScoreResult struct {
	AverageDailyScore float64
	Trend             Trend
	TrendMultiplier   float64
	AdjustedScore     float64
	RecentMean        float64
	PriorMean         float64
}

// DailyScore is the weighted symptom burden of a single day. It is never negative.
func DailyScore(r SymptomRecord) float64 {
	score := 0.0
	if isTrue(r.BloodPresent) {
		score += criticalWeight * bloodMagnitude
	}
	if isTrue(r.MucusPresent) {
		score += criticalWeight * mucusMagnitude
	}
	if r.PainSeverity != nil {
		p := clampScale(*r.PainSeverity)
		score += painWeight(p) * float64(p)
	}
	if r.UrgencyLevel != nil {
		u := clampScale(*r.UrgencyLevel)
		score += urgencyWeight(u) * float64(u)
	}
	if r.BowelFrequency != nil {
		score += bowelScore(*r.BowelFrequency)
	}
	if r.StressLevel != nil {
		score += secondaryWeight * float64(clampScale(*r.StressLevel))
	}
	if r.FatigueLevel != nil {
		score += secondaryWeight * float64(clampScale(*r.FatigueLevel))
	}
	if r.SleepQuality != nil {
		score += sleepWeight * float64(10-clampScale(*r.SleepQuality))
	}
	return score
}

// The bucket weight grows with the severity it multiplies, so the curve is
// super-linear: a 9/10 pain day counts far more than three 3/10 days.
func painWeight(p int) float64 {
	switch {
	case p <= 2:
		return 0.25
	case p <= 5:
		return 1.0
	case p <= 8:
		return 2.25
	default:
		return 4.0
	}
}

func urgencyWeight(u int) float64 {
	switch {
	case u <= 2:
		return 0.15
	case u <= 5:
		return 0.8
	case u <= 8:
		return 1.8
	default:
		return 3.6
	}
}

func bowelScore(freq int) float64 {
	if freq < 0 {
		freq = 0
	}
	f := float64(freq)
	switch {
	case freq >= 1 && freq <= 3:
		return 0.1 * f
	case abs(freq-2) <= 2:
		return 0.5 * f
	default:
		return 1.0 * f
	}
}

// Score averages the daily scores over every supplied record and applies the
// week-over-week trend multiplier. Records may arrive in any order.
func Score(records []SymptomRecord) ScoreResult {
	res := ScoreResult{Trend: TrendStable, TrendMultiplier: trendMultiplier[TrendStable]}
	if len(records) == 0 {
		return res
	}
	ordered := newestFirst(records)
	daily := make([]float64, len(ordered))
	for i, r := range ordered {
		daily[i] = DailyScore(r)
	}
	res.AverageDailyScore = mean(daily)

	if len(daily) >= trendWindow {
		res.RecentMean = mean(daily[:trendWindow])
		prior := daily[trendWindow:]
		if len(prior) > trendWindow {
			prior = prior[:trendWindow]
		}
		if len(prior) > 0 {
			res.PriorMean = mean(prior)
			res.Trend = classifyTrend(res.RecentMean - res.PriorMean)
		}
	}
	res.TrendMultiplier = trendMultiplier[res.Trend]
	res.AdjustedScore = res.AverageDailyScore * res.TrendMultiplier
	return res
}

func classifyTrend(diff float64) Trend {
	switch {
	case diff > trendThreshold:
		return TrendWorsening
	case diff < -trendThreshold:
		return TrendImproving
	default:
		return TrendStable
	}
}

func newestFirst(records []SymptomRecord) []SymptomRecord {
	out := make([]SymptomRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func isTrue(b *bool) bool { return b != nil && *b }

func clampScale(v int) int {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
