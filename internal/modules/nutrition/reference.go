package nutrition

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/ibdtrack-backend/internal/platform/logger"
)

// ReferenceOverrideEnv points at a YAML file replacing the embedded tables.
const ReferenceOverrideEnv = "NUTRITION_REFERENCE_YAML"

//go:embed reference.yaml
var embeddedReference []byte

// Macro quantities taken from the baseline table. Fat, carbs and protein per kg
// are derived.
var baselineMacros = []string{"calories", "protein", "fiber", "hydration"}

type yamlReference struct {
	Version                int                           `yaml:"version"`
	Units                  map[string]string             `yaml:"units"`
	Baselines              map[string]yamlBaseline       `yaml:"baselines"`
	IBDAdjustments         map[string]float64            `yaml:"ibd_adjustments"`
	IBDAdjustmentsByGender map[string]map[string]float64 `yaml:"ibd_adjustments_by_gender"`
	ActivityCompounded     []string                      `yaml:"activity_compounded"`
}

type yamlBaseline struct {
	Macros map[string]float64 `yaml:"macros"`
	Micros map[string]float64 `yaml:"micros"`
}

// Reference is the validated set of baseline and adjustment tables.
type Reference struct {
	Units              map[string]string
	Baselines          map[string]Baseline
	IBDAdjustments     map[string]float64
	AdjustmentsBySex   map[string]map[string]float64
	ActivityCompounded []string
	// Micronutrients is the sorted list of nutrient names every table covers.
	Micronutrients []string
}

type Baseline struct {
	Macros map[string]float64
	Micros map[string]float64
}

// ParseReference decodes and validates a reference document.
func ParseReference(raw []byte) (*Reference, error) {
	var doc yamlReference
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode nutrition reference: %w", err)
	}
	ref := &Reference{
		Units:              doc.Units,
		Baselines:          map[string]Baseline{},
		IBDAdjustments:     doc.IBDAdjustments,
		AdjustmentsBySex:   doc.IBDAdjustmentsByGender,
		ActivityCompounded: doc.ActivityCompounded,
	}
	for _, g := range []string{genderMale, genderFemale} {
		b, ok := doc.Baselines[g]
		if !ok {
			return nil, fmt.Errorf("nutrition reference: missing %s baseline", g)
		}
		ref.Baselines[g] = Baseline{Macros: b.Macros, Micros: b.Micros}
	}
	if err := ref.validate(); err != nil {
		return nil, err
	}
	return ref, nil
}

func (r *Reference) validate() error {
	var errs []error
	female := r.Baselines[genderFemale]
	names := make([]string, 0, len(female.Micros))
	for name := range female.Micros {
		names = append(names, name)
	}
	sort.Strings(names)
	r.Micronutrients = names
	if len(names) == 0 {
		errs = append(errs, errors.New("no micronutrients defined"))
	}

	for g, b := range r.Baselines {
		for _, m := range baselineMacros {
			if v, ok := b.Macros[m]; !ok || !validFactor(v) {
				errs = append(errs, fmt.Errorf("%s baseline: bad or missing macro %q", g, m))
			}
		}
		if len(b.Micros) != len(names) {
			errs = append(errs, fmt.Errorf("%s baseline: %d micronutrients, want %d", g, len(b.Micros), len(names)))
		}
		for _, n := range names {
			if v, ok := b.Micros[n]; !ok || !validFactor(v) {
				errs = append(errs, fmt.Errorf("%s baseline: bad or missing micronutrient %q", g, n))
			}
		}
	}
	for _, n := range names {
		if v, ok := r.IBDAdjustments[n]; !ok || !validFactor(v) {
			errs = append(errs, fmt.Errorf("ibd adjustment: bad or missing %q", n))
		}
	}
	for g, overrides := range r.AdjustmentsBySex {
		for n, v := range overrides {
			if _, ok := female.Micros[n]; !ok || !validFactor(v) {
				errs = append(errs, fmt.Errorf("%s adjustment override: bad %q", g, n))
			}
		}
	}
	for _, n := range r.ActivityCompounded {
		if _, ok := female.Micros[n]; !ok {
			errs = append(errs, fmt.Errorf("activity compounded nutrient %q is not a micronutrient", n))
		}
	}
	return errors.Join(errs...)
}

func validFactor(v float64) bool {
	return v >= 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}

// adjustment returns the IBD factor for nutrient under the given baseline table.
func (r *Reference) adjustment(table, nutrient string) float64 {
	if byTable, ok := r.AdjustmentsBySex[table]; ok {
		if v, ok := byTable[nutrient]; ok {
			return v
		}
	}
	if v, ok := r.IBDAdjustments[nutrient]; ok {
		return v
	}
	return 1.0
}

var (
	refOnce   sync.Once
	refCached *Reference
)

// DefaultReference returns the embedded tables, or the file named by
// NUTRITION_REFERENCE_YAML when it parses and validates. The embedded tables are
// validated by tests, so a failure there is a build defect and panics.
func DefaultReference(log *logger.Logger) *Reference {
	refOnce.Do(func() {
		if path := strings.TrimSpace(os.Getenv(ReferenceOverrideEnv)); path != "" {
			ref, err := loadReferenceFile(path)
			if err == nil {
				refCached = ref
				if log != nil {
					log.Info("nutrition reference loaded from file", "path", path)
				}
				return
			}
			if log != nil {
				log.Warn("nutrition reference override rejected; using embedded tables", "path", path, "error", err)
			}
		}
		ref, err := ParseReference(embeddedReference)
		if err != nil {
			panic(fmt.Sprintf("embedded nutrition reference invalid: %v", err))
		}
		refCached = ref
	})
	return refCached
}

func loadReferenceFile(path string) (*Reference, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read nutrition reference: %w", err)
	}
	return ParseReference(raw)
}
