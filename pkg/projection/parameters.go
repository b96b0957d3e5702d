// Package projection implements the ten-year financial projection engine for
// the business plan: per-year student, revenue, cost and cash-flow records,
// the whole-horizon series, and the derived summary metrics (IRR, NPV,
// payback and flagship break-even).
package projection

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/iwvelando/plan-forecast/pkg/constants"
	"github.com/mitchellh/mapstructure"
)

// Parameters is the full input of a projection. It is treated as an immutable
// value: Merge and WithOverride return modified copies.
type Parameters struct {
	// Market and enrollment targets
	FlagshipStudents          int     `json:"flagshipStudents" yaml:"flagshipStudents" mapstructure:"flagshipStudents"`
	FranchiseCount            int     `json:"franchiseCount" yaml:"franchiseCount" mapstructure:"franchiseCount"`
	FranchiseGrowthRate       int     `json:"franchiseGrowthRate" yaml:"franchiseGrowthRate" mapstructure:"franchiseGrowthRate"`
	StudentsPerFranchise      int     `json:"studentsPerFranchise" yaml:"studentsPerFranchise" mapstructure:"studentsPerFranchise"`
	FranchiseStartingStudents int     `json:"franchiseStartingStudents" yaml:"franchiseStartingStudents" mapstructure:"franchiseStartingStudents"`
	AdoptionStudents          int     `json:"adoptionStudents" yaml:"adoptionStudents" mapstructure:"adoptionStudents"`
	AdoptionPilotStudents     int     `json:"adoptionPilotStudents" yaml:"adoptionPilotStudents" mapstructure:"adoptionPilotStudents"`
	ChurnRate                 float64 `json:"churnRate" yaml:"churnRate" mapstructure:"churnRate"`

	// Pricing
	TuitionMonthly     float64 `json:"tuitionMonthly" yaml:"tuitionMonthly" mapstructure:"tuitionMonthly"`
	AdoptionFeeMonthly float64 `json:"adoptionFeeMonthly" yaml:"adoptionFeeMonthly" mapstructure:"adoptionFeeMonthly"`
	RoyaltyRate        float64 `json:"royaltyRate" yaml:"royaltyRate" mapstructure:"royaltyRate"`
	MarketingFeeRate   float64 `json:"marketingFeeRate" yaml:"marketingFeeRate" mapstructure:"marketingFeeRate"`
	FranchiseFee       float64 `json:"franchiseFee" yaml:"franchiseFee" mapstructure:"franchiseFee"`
	KitCostAnnual      float64 `json:"kitCostAnnual" yaml:"kitCostAnnual" mapstructure:"kitCostAnnual"`
	EscalationRate     float64 `json:"escalationRate" yaml:"escalationRate" mapstructure:"escalationRate"`

	// Cost rates, as a fraction of total revenue
	TechnologyOpexRate float64 `json:"technologyOpexRate" yaml:"technologyOpexRate" mapstructure:"technologyOpexRate"`
	MarketingRate      float64 `json:"marketingRate" yaml:"marketingRate" mapstructure:"marketingRate"`

	CapexScenario string  `json:"capexScenario" yaml:"capexScenario" mapstructure:"capexScenario"`
	DiscountRate  float64 `json:"discountRate" yaml:"discountRate" mapstructure:"discountRate"`

	YearlyOverrides map[int]YearOverride `json:"yearlyOverrides,omitempty" yaml:"yearlyOverrides,omitempty" mapstructure:"-"`
}

// YearOverride supersedes formula-derived values for a single year. Nil
// fields fall back to the formula.
type YearOverride struct {
	FlagshipStudents     *int     `json:"flagshipStudents,omitempty" yaml:"flagshipStudents,omitempty"`
	FranchiseStudents    *int     `json:"franchiseStudents,omitempty" yaml:"franchiseStudents,omitempty"`
	AdoptionStudents     *int     `json:"adoptionStudents,omitempty" yaml:"adoptionStudents,omitempty"`
	FranchiseCount       *int     `json:"franchiseCount,omitempty" yaml:"franchiseCount,omitempty"`
	StudentsPerFranchise *int     `json:"studentsPerFranchise,omitempty" yaml:"studentsPerFranchise,omitempty"`
	TuitionMonthly       *float64 `json:"tuitionMonthly,omitempty" yaml:"tuitionMonthly,omitempty"`
	AdoptionFeeMonthly   *float64 `json:"adoptionFeeMonthly,omitempty" yaml:"adoptionFeeMonthly,omitempty"`
	KitCostAnnual        *float64 `json:"kitCostAnnual,omitempty" yaml:"kitCostAnnual,omitempty"`
	Capex                *float64 `json:"capex,omitempty" yaml:"capex,omitempty"`
}

// Empty reports whether no field is set.
func (o YearOverride) Empty() bool {
	return o.FlagshipStudents == nil && o.FranchiseStudents == nil && o.AdoptionStudents == nil &&
		o.FranchiseCount == nil && o.StudentsPerFranchise == nil && o.TuitionMonthly == nil &&
		o.AdoptionFeeMonthly == nil && o.KitCostAnnual == nil && o.Capex == nil
}

func (o YearOverride) clone() YearOverride {
	return YearOverride{
		FlagshipStudents:     cloneInt(o.FlagshipStudents),
		FranchiseStudents:    cloneInt(o.FranchiseStudents),
		AdoptionStudents:     cloneInt(o.AdoptionStudents),
		FranchiseCount:       cloneInt(o.FranchiseCount),
		StudentsPerFranchise: cloneInt(o.StudentsPerFranchise),
		TuitionMonthly:       cloneFloat(o.TuitionMonthly),
		AdoptionFeeMonthly:   cloneFloat(o.AdoptionFeeMonthly),
		KitCostAnnual:        cloneFloat(o.KitCostAnnual),
		Capex:                cloneFloat(o.Capex),
	}
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// IntPtr returns a pointer to v, for building overrides.
func IntPtr(v int) *int { return &v }

// FloatPtr returns a pointer to v, for building overrides.
func FloatPtr(v float64) *float64 { return &v }

// DefaultParameters returns the base-case business plan.
func DefaultParameters() Parameters {
	return Parameters{
		FlagshipStudents:          1500,
		FranchiseCount:            30,
		FranchiseGrowthRate:       5,
		StudentsPerFranchise:      400,
		FranchiseStartingStudents: 120,
		AdoptionStudents:          60000,
		AdoptionPilotStudents:     2000,
		ChurnRate:                 0.05,

		TuitionMonthly:     2300,
		AdoptionFeeMonthly: 120,
		RoyaltyRate:        0.08,
		MarketingFeeRate:   0.02,
		FranchiseFee:       350000,
		KitCostAnnual:      0,
		EscalationRate:     0.04,

		TechnologyOpexRate: 0.06,
		MarketingRate:      0.05,

		CapexScenario: DefaultCapexScenario,
		DiscountRate:  constants.DefaultDiscountRate,

		YearlyOverrides: map[int]YearOverride{},
	}
}

// Clone returns a deep copy of the parameters.
func (p Parameters) Clone() Parameters {
	c := p
	c.YearlyOverrides = make(map[int]YearOverride, len(p.YearlyOverrides))
	for year, o := range p.YearlyOverrides {
		c.YearlyOverrides[year] = o.clone()
	}
	return c
}

// WithOverride returns a copy whose override for year is replaced by o. An
// empty override removes the year.
func (p Parameters) WithOverride(year int, o YearOverride) Parameters {
	c := p.Clone()
	if o.Empty() {
		delete(c.YearlyOverrides, year)
		return c
	}
	c.YearlyOverrides[year] = o.clone()
	return c
}

// Override returns the override registered for year, if any.
func (p Parameters) Override(year int) (YearOverride, bool) {
	o, ok := p.YearlyOverrides[year]
	return o, ok
}

// OverrideYears lists the years carrying an override in ascending order.
func (p Parameters) OverrideYears() []int {
	years := make([]int, 0, len(p.YearlyOverrides))
	for year := range p.YearlyOverrides {
		years = append(years, year)
	}
	sort.Ints(years)
	return years
}

// Merge applies a partial update, as decoded from YAML or JSON, on top of a
// copy of p. Keys match the mapstructure tags case-insensitively. Entries of
// "yearlyOverrides" replace the override of their year; malformed override
// values are dropped. The receiver is never modified.
func (p Parameters) Merge(patch map[string]interface{}) (Parameters, error) {
	merged := p.Clone()
	if len(patch) == 0 {
		return merged, nil
	}

	fields := make(map[string]interface{}, len(patch))
	var rawOverrides interface{}
	for key, value := range patch {
		if strings.EqualFold(key, "yearlyOverrides") {
			rawOverrides = value
			continue
		}
		fields[key] = value
	}

	if len(fields) > 0 {
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           &merged,
			WeaklyTypedInput: true,
			ErrorUnused:      true,
		})
		if err != nil {
			return p, fmt.Errorf("failed to create parameter decoder: %w", err)
		}
		if err := decoder.Decode(fields); err != nil {
			return p, fmt.Errorf("failed to apply parameter patch: %w", err)
		}
	}

	for year, o := range ParseOverrides(rawOverrides) {
		merged.YearlyOverrides[year] = o
	}

	return merged, nil
}

// Validate reports the first parameter value the engine cannot project.
func (p Parameters) Validate() error {
	if _, err := LookupCapexScenario(p.CapexScenario); err != nil {
		return err
	}

	counts := []struct {
		name  string
		value int
	}{
		{"flagshipStudents", p.FlagshipStudents},
		{"franchiseCount", p.FranchiseCount},
		{"franchiseGrowthRate", p.FranchiseGrowthRate},
		{"studentsPerFranchise", p.StudentsPerFranchise},
		{"franchiseStartingStudents", p.FranchiseStartingStudents},
		{"adoptionStudents", p.AdoptionStudents},
		{"adoptionPilotStudents", p.AdoptionPilotStudents},
	}
	for _, c := range counts {
		if c.value < 0 {
			return fmt.Errorf("parameter %s must not be negative, got %d", c.name, c.value)
		}
	}

	amounts := []struct {
		name  string
		value float64
	}{
		{"tuitionMonthly", p.TuitionMonthly},
		{"adoptionFeeMonthly", p.AdoptionFeeMonthly},
		{"royaltyRate", p.RoyaltyRate},
		{"marketingFeeRate", p.MarketingFeeRate},
		{"franchiseFee", p.FranchiseFee},
		{"kitCostAnnual", p.KitCostAnnual},
		{"escalationRate", p.EscalationRate},
		{"technologyOpexRate", p.TechnologyOpexRate},
		{"marketingRate", p.MarketingRate},
	}
	for _, a := range amounts {
		if math.IsNaN(a.value) || math.IsInf(a.value, 0) || a.value < 0 {
			return fmt.Errorf("parameter %s must be a non-negative number, got %v", a.name, a.value)
		}
	}

	if math.IsNaN(p.ChurnRate) || p.ChurnRate < 0 || p.ChurnRate >= 1 {
		return fmt.Errorf("parameter churnRate must be in [0, 1), got %v", p.ChurnRate)
	}
	if math.IsNaN(p.DiscountRate) || p.DiscountRate <= -1 {
		return fmt.Errorf("parameter discountRate must be greater than -1, got %v", p.DiscountRate)
	}
	return nil
}
