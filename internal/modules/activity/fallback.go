package activity

import "time"

// Fallback confidence/quality pairs used when there is no journal to score.
const (
	diagnosisConfidence  = 0.3
	diagnosisDataQuality = 0.2
	defaultConfidence    = 0.1
	defaultDataQuality   = 0.1
)

// ParseSeverity reads a clinician-reported severity. Only mild, moderate and
// severe are meaningful; anything else (including remission) is treated as
// absent.
func ParseSeverity(raw *string) (Level, bool) {
	if raw == nil {
		return "", false
	}
	l, ok := ParseLevel(*raw)
	if !ok || l == LevelRemission {
		return "", false
	}
	return l, true
}

// Fallback builds an assessment without symptom data.
func Fallback(severity *string, now time.Time) Assessment {
	if l, ok := ParseSeverity(severity); ok {
		return Assessment{
			Level:          l,
			Confidence:     diagnosisConfidence,
			DataQuality:    diagnosisDataQuality,
			DaysOfData:     0,
			AssessmentDate: now,
			Source:         SourceDiagnosisFallback,
		}
	}
	return Assessment{
		Level:          LevelRemission,
		Confidence:     defaultConfidence,
		DataQuality:    defaultDataQuality,
		DaysOfData:     0,
		AssessmentDate: now,
		Source:         SourceHealthyDefault,
	}
}
