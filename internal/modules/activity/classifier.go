package activity

const (
	remissionCeiling = 2.0
	mildCeiling      = 5.0
	moderateCeiling  = 8.0
)

// Classify maps a trend-adjusted score onto an activity level.
func Classify(adjustedScore float64) Level {
	switch {
	case adjustedScore < remissionCeiling:
		return LevelRemission
	case adjustedScore < mildCeiling:
		return LevelMild
	case adjustedScore < moderateCeiling:
		return LevelModerate
	default:
		return LevelSevere
	}
}
