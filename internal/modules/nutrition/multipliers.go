package nutrition

import (
	"strings"

	"github.com/yungbote/ibdtrack-backend/internal/modules/activity"
)

// Disease-type categories reported in calculation details.
const (
	DiseaseCrohns            = "crohns"
	DiseaseUlcerativeColitis = "ulcerative_colitis"
	DiseaseIBS               = "ibs"
	DiseaseIBDUnspecified    = "ibd_unspecified"
	DiseaseUnknown           = "unknown"
)

// AgeMultiplier uses closed-open bands: [0,18) 1.2, [18,51) 1.0, [51,71) 1.1,
// [71,∞) 1.2. So 50 is still 1.0 and 70 is still 1.1.
func AgeMultiplier(age int) float64 {
	switch {
	case age < 18:
		return 1.2
	case age < 51:
		return 1.0
	case age < 71:
		return 1.1
	default:
		return 1.2
	}
}

// ActivityMultiplier scales needs with inflammatory burden. Unknown levels get 1.0.
func ActivityMultiplier(level activity.Level) float64 {
	switch level {
	case activity.LevelMild:
		return 1.1
	case activity.LevelModerate:
		return 1.2
	case activity.LevelSevere:
		return 1.4
	default:
		return 1.0
	}
}

var diseaseTypeFactor = map[string]float64{
	DiseaseCrohns:            1.2,
	DiseaseUlcerativeColitis: 1.1,
	DiseaseIBS:               1.05,
	DiseaseIBDUnspecified:    1.15,
	DiseaseUnknown:           1.0,
}

// DiseaseTypeMultiplier returns the factor for a free-form disease type and the
// category it was matched to.
func DiseaseTypeMultiplier(diseaseType string) (float64, string) {
	cat := CategorizeDiseaseType(diseaseType)
	return diseaseTypeFactor[cat], cat
}

// CategorizeDiseaseType folds the spellings found in patient profiles onto a
// category. Empty or unrecognised values are DiseaseUnknown.
func CategorizeDiseaseType(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.NewReplacer("'", "", "’", "", "-", "_", " ", "_").Replace(s)
	switch {
	case s == "":
		return DiseaseUnknown
	case strings.Contains(s, "crohn"):
		return DiseaseCrohns
	case s == "uc" || strings.Contains(s, "ulcerative"):
		return DiseaseUlcerativeColitis
	case s == "ibs" || strings.Contains(s, "irritable"):
		return DiseaseIBS
	case s == "ibd" || s == "unspecified" || s == "ibd_unspecified" ||
		strings.Contains(s, "indeterminate") || strings.Contains(s, "inflammatory_bowel"):
		return DiseaseIBDUnspecified
	default:
		return DiseaseUnknown
	}
}
