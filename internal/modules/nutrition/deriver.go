// Package nutrition turns a user profile and a disease-activity assessment into
// daily macro- and micronutrient targets. Targets are computed on demand and
// never stored.
package nutrition

import (
	"math"
	"strings"

	"github.com/yungbote/ibdtrack-backend/internal/modules/activity"
)

const (
	genderMale   = "male"
	genderFemale = "female"
	genderOther  = "other"

	fatCalorieShare = 0.30
	kcalPerGramFat  = 9.0
	kcalPerGramProt = 4.0
	kcalPerGramCarb = 4.0
)

// Defaults substituted when a user has no profile row.
const (
	DefaultAge      = 30
	DefaultWeightKg = 70.0
	DefaultHeightCm = 170.0
)

// Profile is the subset of a user profile the deriver reads.
type Profile struct {
	Age         int
	WeightKg    float64
	HeightCm    *float64
	Gender      string
	DiseaseType string
}

func DefaultProfile() Profile {
	h := DefaultHeightCm
	return Profile{Age: DefaultAge, WeightKg: DefaultWeightKg, HeightCm: &h, Gender: genderOther}
}

type Targets struct {
	Macronutrients     map[string]float64 `json:"macronutrients"`
	Micronutrients     map[string]float64 `json:"micronutrients"`
	CalculationDetails CalculationDetails `json:"calculationDetails"`
}

// CalculationDetails explains a Targets value. It exists for audit and display.
type CalculationDetails struct {
	Gender              string             `json:"gender"`
	BaselineTable       string             `json:"baselineTable"`
	Age                 int                `json:"age"`
	WeightKg            float64            `json:"weightKg"`
	ActivityLevel       activity.Level     `json:"activityLevel"`
	DiseaseType         string             `json:"diseaseType"`
	DiseaseCategory     string             `json:"diseaseCategory"`
	AgeMultiplier       float64            `json:"ageMultiplier"`
	ActivityMultiplier  float64            `json:"diseaseActivityMultiplier"`
	DiseaseTypeFactor   float64            `json:"diseaseTypeMultiplier"`
	TotalMultiplier     float64            `json:"totalMultiplier"`
	AgeCorrections      map[string]float64 `json:"ageCorrections,omitempty"`
	BaselineMacros      map[string]float64 `json:"baselineMacros"`
	BaselineMicros      map[string]float64 `json:"baselineMicros"`
	IBDAdjustments      map[string]float64 `json:"ibdAdjustments"`
	CompoundedNutrients []string           `json:"activityCompoundedNutrients"`
	FatCalorieShare     float64            `json:"fatCalorieShare"`
	Units               map[string]string  `json:"units"`
}

type Deriver struct {
	ref *Reference
}

func NewDeriver(ref *Reference) *Deriver {
	return &Deriver{ref: ref}
}

// Derive computes targets for p at the given disease activity. It is
// deterministic and total: bad inputs are defaulted rather than rejected.
func (d *Deriver) Derive(p Profile, a activity.Assessment) Targets {
	gender := normalizeGender(p.Gender)
	table := gender
	if table == genderOther {
		table = genderFemale
	}
	age := p.Age
	if age <= 0 {
		age = DefaultAge
	}
	weight := p.WeightKg
	if !finite(weight) || weight < 0 {
		weight = 0
	}

	base := d.ref.Baselines[table]
	macros := copyMap(base.Macros)
	micros := copyMap(base.Micros)
	corrections := ageCorrections(age)
	for name, f := range corrections {
		if _, ok := macros[name]; ok {
			macros[name] *= f
		}
		if _, ok := micros[name]; ok {
			micros[name] *= f
		}
	}

	ageM := AgeMultiplier(age)
	actM := ActivityMultiplier(a.Level)
	typeM, category := DiseaseTypeMultiplier(p.DiseaseType)
	total := ageM * actM * typeM

	calories := macros["calories"] * total
	protein := macros["protein"] * total
	fat := fatCalorieShare * calories / kcalPerGramFat
	carbs := (calories - protein*kcalPerGramProt - fat*kcalPerGramFat) / kcalPerGramCarb
	perKg := 0.0
	if weight > 0 {
		perKg = protein / weight
	}

	outMacros := map[string]float64{
		"calories":     roundTarget(calories),
		"protein":      roundTarget(protein),
		"fiber":        roundTarget(macros["fiber"] * total),
		"hydration":    roundTarget(macros["hydration"] * total),
		"fat":          roundTarget(fat),
		"carbs":        roundTarget(carbs),
		"proteinPerKg": roundTarget(perKg),
	}

	compounded := make(map[string]bool, len(d.ref.ActivityCompounded))
	for _, n := range d.ref.ActivityCompounded {
		compounded[n] = true
	}
	adjustments := make(map[string]float64, len(d.ref.Micronutrients))
	outMicros := make(map[string]float64, len(d.ref.Micronutrients))
	for _, name := range d.ref.Micronutrients {
		adj := d.ref.adjustment(table, name)
		adjustments[name] = adj
		v := micros[name] * total * adj
		// totalMultiplier already carries the activity factor; these get it again
		if compounded[name] {
			v *= actM
		}
		outMicros[name] = roundTarget(v)
	}

	return Targets{
		Macronutrients: outMacros,
		Micronutrients: outMicros,
		CalculationDetails: CalculationDetails{
			Gender:              gender,
			BaselineTable:       table,
			Age:                 age,
			WeightKg:            weight,
			ActivityLevel:       a.Level,
			DiseaseType:         p.DiseaseType,
			DiseaseCategory:     category,
			AgeMultiplier:       ageM,
			ActivityMultiplier:  actM,
			DiseaseTypeFactor:   typeM,
			TotalMultiplier:     total,
			AgeCorrections:      corrections,
			BaselineMacros:      macros,
			BaselineMicros:      micros,
			IBDAdjustments:      adjustments,
			CompoundedNutrients: append([]string(nil), d.ref.ActivityCompounded...),
			FatCalorieShare:     fatCalorieShare,
			Units:               d.ref.Units,
		},
	}
}

// ageCorrections adjusts the reference baseline itself, before any multiplier.
func ageCorrections(age int) map[string]float64 {
	switch {
	case age < 18:
		return map[string]float64{"calories": 0.8, "protein": 0.7, "hydration": 0.7}
	case age > 50:
		return map[string]float64{"calories": 0.9, "protein": 1.1, "vitaminD": 1.2, "calcium": 1.2}
	default:
		return nil
	}
}

func normalizeGender(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "male", "m", "man":
		return genderMale
	case "female", "f", "woman":
		return genderFemale
	default:
		return genderOther
	}
}

func roundTarget(v float64) float64 {
	if !finite(v) || v < 0 {
		return 0
	}
	return math.Round(v)
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func copyMap(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
