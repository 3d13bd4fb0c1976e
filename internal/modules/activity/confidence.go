package activity

import (
	"math"
	"time"
)

const minRecordsForConsistency = 3

// Quality holds the sub-scores behind confidence and data quality.
type Quality struct {
	Completeness float64
	Recency      float64
	Consistency  float64
	Confidence   float64
	DataQuality  float64
}

// Estimate scores how much the journal can be trusted. Confidence and
// DataQuality are currently the same mean of the three sub-scores; they are
// kept as separate fields because clients read them independently.
func Estimate(records []SymptomRecord, now time.Time) Quality {
	q := Quality{
		Completeness: completeness(records),
		Recency:      recency(records, now),
		Consistency:  consistency(records),
	}
	m := clamp01((q.Completeness + q.Recency + q.Consistency) / 3)
	q.Confidence = m
	q.DataQuality = m
	return q
}

// fraction of days with at least one core measurement
func completeness(records []SymptomRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	n := 0
	for _, r := range records {
		if r.PainSeverity != nil || r.UrgencyLevel != nil || r.BowelFrequency != nil {
			n++
		}
	}
	return float64(n) / float64(len(records))
}

func recency(records []SymptomRecord, now time.Time) float64 {
	if len(records) == 0 {
		return 0
	}
	latest := records[0].Date
	for _, r := range records[1:] {
		if r.Date.After(latest) {
			latest = r.Date
		}
	}
	days := DaysBetween(latest, now)
	switch {
	case days <= 1:
		return 1.0
	case days <= 3:
		return 0.8
	case days <= 7:
		return 0.6
	case days <= 14:
		return 0.4
	default:
		return 0.2
	}
}

func consistency(records []SymptomRecord) float64 {
	if len(records) < minRecordsForConsistency {
		return 0.5
	}
	scores := make([]float64, len(records))
	for i, r := range records {
		s := 0.0
		if isTrue(r.BloodPresent) {
			s += bloodMagnitude
		}
		if isTrue(r.MucusPresent) {
			s += mucusMagnitude
		}
		if r.PainSeverity != nil {
			s += float64(clampScale(*r.PainSeverity))
		}
		if r.UrgencyLevel != nil {
			s += float64(clampScale(*r.UrgencyLevel))
		}
		scores[i] = s
	}
	return math.Max(0, 1-popStddev(scores)/10)
}

func popStddev(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := mean(xs)
	sq := 0.0
	for _, x := range xs {
		sq += (x - m) * (x - m)
	}
	return math.Sqrt(sq / float64(len(xs)))
}

// DaysBetween counts whole calendar days (UTC) from a to b. Never negative.
func DaysBetween(a, b time.Time) int {
	ad := truncateDay(a)
	bd := truncateDay(b)
	d := int(bd.Sub(ad).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}

func truncateDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
