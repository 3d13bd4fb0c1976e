package activity

import "time"

const (
	// LookbackDays is how much journal history an assessment considers.
	LookbackDays = 30
	// StaleAfter is how old a persisted assessment may get before it is recomputed.
	StaleAfter = 7 * 24 * time.Hour
)

// Assess picks the fallback branch when records is empty and otherwise scores
// the journal. Only the newest LookbackDays records are used.
func Assess(records []SymptomRecord, diagnosisSeverity *string, now time.Time) Assessment {
	if len(records) == 0 {
		return Fallback(diagnosisSeverity, now)
	}
	records = newestFirst(records)
	if len(records) > LookbackDays {
		records = records[:LookbackDays]
	}

	sr := Score(records)
	q := Estimate(records, now)
	return Assessment{
		Level:          Classify(sr.AdjustedScore),
		Confidence:     q.Confidence,
		DataQuality:    q.DataQuality,
		DaysOfData:     len(records),
		AssessmentDate: now,
		Source:         SourceAIAssessment,
		Details: &Details{
			AverageDailyScore: sr.AverageDailyScore,
			AdjustedScore:     sr.AdjustedScore,
			Trend:             sr.Trend,
			TrendMultiplier:   sr.TrendMultiplier,
			RecentMean:        sr.RecentMean,
			PriorMean:         sr.PriorMean,
			Completeness:      q.Completeness,
			Recency:           q.Recency,
			Consistency:       q.Consistency,
		},
	}
}

// IsStale reports whether a must be recomputed. A nil assessment is always stale.
func IsStale(a *Assessment, now time.Time, force bool) bool {
	if force || a == nil {
		return true
	}
	return now.Sub(a.AssessmentDate) > StaleAfter
}
