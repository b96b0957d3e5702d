package projection

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/iwvelando/plan-forecast/pkg/constants"
	"go.uber.org/zap"
)

// SensitivityPoint is the summary of one multiplicative perturbation.
type SensitivityPoint struct {
	Parameter string  `json:"parameter"`
	Variation float64 `json:"variation"`
	Value     float64 `json:"value"`
	Summary   Summary `json:"summary"`
}

type numericParameter struct {
	get func(Parameters) float64
	set func(*Parameters, float64)
}

func intParameter(field func(*Parameters) *int) numericParameter {
	return numericParameter{
		get: func(p Parameters) float64 { return float64(*field(&p)) },
		set: func(p *Parameters, v float64) { *field(p) = int(math.Round(v)) },
	}
}

func floatParameter(field func(*Parameters) *float64) numericParameter {
	return numericParameter{
		get: func(p Parameters) float64 { return *field(&p) },
		set: func(p *Parameters, v float64) { *field(p) = v },
	}
}

var sensitivityParameters = map[string]numericParameter{
	"flagshipStudents":          intParameter(func(p *Parameters) *int { return &p.FlagshipStudents }),
	"franchiseCount":            intParameter(func(p *Parameters) *int { return &p.FranchiseCount }),
	"franchiseGrowthRate":       intParameter(func(p *Parameters) *int { return &p.FranchiseGrowthRate }),
	"studentsPerFranchise":      intParameter(func(p *Parameters) *int { return &p.StudentsPerFranchise }),
	"franchiseStartingStudents": intParameter(func(p *Parameters) *int { return &p.FranchiseStartingStudents }),
	"adoptionStudents":          intParameter(func(p *Parameters) *int { return &p.AdoptionStudents }),
	"adoptionPilotStudents":     intParameter(func(p *Parameters) *int { return &p.AdoptionPilotStudents }),
	"churnRate":                 floatParameter(func(p *Parameters) *float64 { return &p.ChurnRate }),
	"tuitionMonthly":            floatParameter(func(p *Parameters) *float64 { return &p.TuitionMonthly }),
	"adoptionFeeMonthly":        floatParameter(func(p *Parameters) *float64 { return &p.AdoptionFeeMonthly }),
	"royaltyRate":               floatParameter(func(p *Parameters) *float64 { return &p.RoyaltyRate }),
	"marketingFeeRate":          floatParameter(func(p *Parameters) *float64 { return &p.MarketingFeeRate }),
	"franchiseFee":              floatParameter(func(p *Parameters) *float64 { return &p.FranchiseFee }),
	"kitCostAnnual":             floatParameter(func(p *Parameters) *float64 { return &p.KitCostAnnual }),
	"escalationRate":            floatParameter(func(p *Parameters) *float64 { return &p.EscalationRate }),
	"technologyOpexRate":        floatParameter(func(p *Parameters) *float64 { return &p.TechnologyOpexRate }),
	"marketingRate":             floatParameter(func(p *Parameters) *float64 { return &p.MarketingRate }),
	"discountRate":              floatParameter(func(p *Parameters) *float64 { return &p.DiscountRate }),
}

// SensitivityParameterNames lists the parameters Sensitivity accepts.
func SensitivityParameterNames() []string {
	names := make([]string, 0, len(sensitivityParameters))
	for name := range sensitivityParameters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookupSensitivityParameter(name string) (string, numericParameter, error) {
	for canonical, param := range sensitivityParameters {
		if strings.EqualFold(canonical, name) {
			return canonical, param, nil
		}
	}
	return "", numericParameter{}, fmt.Errorf("unknown sensitivity parameter %q", name)
}

// Sensitivity recomputes the ten-year summary with one parameter scaled by
// (1+variation) for each variation. The perturbation is applied to a copy;
// the engine's parameters are unchanged.
func (e *Engine) Sensitivity(name string, variations []float64) ([]SensitivityPoint, error) {
	return e.SensitivityAt(constants.DefaultHorizon, name, variations)
}

// SensitivityAt is Sensitivity over the given horizon.
func (e *Engine) SensitivityAt(horizon int, name string, variations []float64) ([]SensitivityPoint, error) {
	canonical, param, err := lookupSensitivityParameter(name)
	if err != nil {
		return nil, err
	}

	base := param.get(e.params)
	points := make([]SensitivityPoint, 0, len(variations))
	for _, variation := range variations {
		perturbed := e.params.Clone()
		param.set(&perturbed, base*(1+variation))

		engine, err := NewEngine(e.logger, perturbed)
		if err != nil {
			return nil, fmt.Errorf("sensitivity %s at %+.2f: %w", canonical, variation, err)
		}
		result, err := engine.Forecast(horizon)
		if err != nil {
			return nil, err
		}

		points = append(points, SensitivityPoint{
			Parameter: canonical,
			Variation: variation,
			Value:     param.get(perturbed),
			Summary:   result.Summary,
		})
	}

	e.logger.Debug("computed sensitivity",
		zap.String("op", "projection.Sensitivity"),
		zap.String("parameter", canonical),
		zap.Int("horizon", horizon),
		zap.Int("points", len(points)),
	)
	return points, nil
}

// ParameterValue reads a sensitivity parameter from p and returns its
// canonical name and current value.
func ParameterValue(p Parameters, name string) (string, float64, error) {
	canonical, param, err := lookupSensitivityParameter(name)
	if err != nil {
		return "", 0, err
	}
	return canonical, param.get(p), nil
}

// WithParameterValue returns a copy of p with a sensitivity parameter set to
// value. Integer parameters are rounded.
func WithParameterValue(p Parameters, name string, value float64) (Parameters, error) {
	_, param, err := lookupSensitivityParameter(name)
	if err != nil {
		return p, err
	}
	out := p.Clone()
	param.set(&out, value)
	return out, nil
}

// IsIntegerParameter reports whether a sensitivity parameter holds a count.
func IsIntegerParameter(name string) bool {
	canonical, _, err := lookupSensitivityParameter(name)
	if err != nil {
		return false
	}
	_, ok := integerParameters[canonical]
	return ok
}

var integerParameters = map[string]struct{}{
	"flagshipStudents":          {},
	"franchiseCount":            {},
	"franchiseGrowthRate":       {},
	"studentsPerFranchise":      {},
	"franchiseStartingStudents": {},
	"adoptionStudents":          {},
	"adoptionPilotStudents":     {},
}
