package projection

import (
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// Preset is a named parameter patch.
type Preset struct {
	Name        string                 `json:"name" yaml:"name"`
	Description string                 `json:"description" yaml:"description"`
	Patch       map[string]interface{} `json:"patch" yaml:"patch"`
}

var presets = map[string]Preset{
	"base": {
		Name:        "base",
		Description: "Business plan as written",
		Patch:       map[string]interface{}{},
	},
	"conservative": {
		Name:        "conservative",
		Description: "Slower enrolment, higher churn, leased campus",
		Patch: map[string]interface{}{
			"flagshipStudents":    1200,
			"franchiseCount":      20,
			"franchiseGrowthRate": 3,
			"adoptionStudents":    35000,
			"churnRate":           0.08,
			"capexScenario":       "lease",
		},
	},
	"aggressive": {
		Name:        "aggressive",
		Description: "Fast franchise roll-out and owned campus",
		Patch: map[string]interface{}{
			"flagshipStudents":    1800,
			"franchiseCount":      45,
			"franchiseGrowthRate": 8,
			"adoptionStudents":    90000,
			"churnRate":           0.04,
			"capexScenario":       "build",
		},
	},
	"kits": {
		Name:        "kits",
		Description: "Base plan with annual learning-kit sales to every student",
		Patch: map[string]interface{}{
			"kitCostAnnual": 1200,
		},
	},
}

// LookupPreset returns the named preset.
func LookupPreset(name string) (Preset, error) {
	preset, ok := presets[name]
	if !ok {
		return Preset{}, fmt.Errorf("unknown preset %q (expected one of %v)", name, PresetNames())
	}
	return preset, nil
}

// PresetNames lists presets in alphabetical order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Presets returns every preset in alphabetical order.
func Presets() []Preset {
	names := PresetNames()
	list := make([]Preset, 0, len(names))
	for _, name := range names {
		list = append(list, presets[name])
	}
	return list
}

// ApplyPreset merges the named preset onto a copy of base.
func ApplyPreset(base Parameters, name string) (Parameters, error) {
	preset, err := LookupPreset(name)
	if err != nil {
		return base, err
	}
	return base.Merge(preset.Patch)
}

// ScenarioComparison is the summary of one preset applied to a base.
type ScenarioComparison struct {
	Name       string     `json:"name"`
	Parameters Parameters `json:"parameters"`
	Summary    Summary    `json:"summary"`
}

// CompareScenarios summarizes base under each named preset.
func CompareScenarios(logger *zap.Logger, base Parameters, names []string) ([]ScenarioComparison, error) {
	comparisons := make([]ScenarioComparison, 0, len(names))
	for _, name := range names {
		params, err := ApplyPreset(base, name)
		if err != nil {
			return nil, err
		}
		engine, err := NewEngine(logger, params)
		if err != nil {
			return nil, fmt.Errorf("preset %s: %w", name, err)
		}
		summary, err := engine.GetFinancialSummary()
		if err != nil {
			return nil, fmt.Errorf("preset %s: %w", name, err)
		}
		comparisons = append(comparisons, ScenarioComparison{Name: name, Parameters: params, Summary: summary})
	}
	return comparisons, nil
}
