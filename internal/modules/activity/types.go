// Package activity derives a categorical disease-activity level from a patient's
// daily symptom journal. Everything here is a pure function of its inputs; the
// orchestration and persistence live in internal/services.
package activity

import (
	"strings"
	"time"
)

type Level string

const (
	LevelRemission Level = "remission"
	LevelMild      Level = "mild"
	LevelModerate  Level = "moderate"
	LevelSevere    Level = "severe"
)

// Rank orders levels from remission (0) to severe (3). Unknown levels rank -1.
func (l Level) Rank() int {
	switch l {
	case LevelRemission:
		return 0
	case LevelMild:
		return 1
	case LevelModerate:
		return 2
	case LevelSevere:
		return 3
	default:
		return -1
	}
}

func (l Level) Valid() bool { return l.Rank() >= 0 }

// ParseLevel accepts any casing/whitespace. ok is false for unknown values.
func ParseLevel(s string) (Level, bool) {
	l := Level(strings.ToLower(strings.TrimSpace(s)))
	return l, l.Valid()
}

type Source string

const (
	SourceAIAssessment      Source = "ai_assessment"
	SourceDiagnosisFallback Source = "diagnosis_fallback"
	SourceHealthyDefault    Source = "healthy_default"
)

type Trend string

const (
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
	TrendWorsening Trend = "worsening"
)

// SymptomRecord is one calendar day of self-reported symptoms. Nil fields were
// not recorded and contribute nothing to any score.
type SymptomRecord struct {
	Date           time.Time
	BloodPresent   *bool
	MucusPresent   *bool
	PainSeverity   *int
	UrgencyLevel   *int
	StressLevel    *int
	FatigueLevel   *int
	SleepQuality   *int
	BowelFrequency *int
}

// Assessment is the outcome of one assessment run.
type Assessment struct {
	Level          Level     `json:"level"`
	Confidence     float64   `json:"confidence"`
	DataQuality    float64   `json:"dataQuality"`
	DaysOfData     int       `json:"daysOfData"`
	AssessmentDate time.Time `json:"assessmentDate"`
	Source         Source    `json:"source"`

	// Details is nil for fallback assessments.
	Details *Details `json:"details,omitempty"`
}

// Details records how an ai_assessment was reached. It is stored alongside the
// history row for audit and never read back into a computation.
type Details struct {
	AverageDailyScore float64 `json:"averageDailyScore"`
	AdjustedScore     float64 `json:"adjustedScore"`
	Trend             Trend   `json:"trend"`
	TrendMultiplier   float64 `json:"trendMultiplier"`
	RecentMean        float64 `json:"recentMean,omitempty"`
	PriorMean         float64 `json:"priorMean,omitempty"`
	Completeness      float64 `json:"completeness"`
	Recency           float64 `json:"recency"`
	Consistency       float64 `json:"consistency"`
}
