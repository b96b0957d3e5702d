package projection

import (
	"fmt"
	"sort"

	"github.com/iwvelando/plan-forecast/pkg/constants"
)

// DefaultCapexScenario is the CAPEX profile used by DefaultParameters.
const DefaultCapexScenario = "hybrid"

// CapexScenario is a fixed capital-expenditure profile for the flagship campus.
type CapexScenario struct {
	Name                string  `json:"name" yaml:"name"`
	Description         string  `json:"description" yaml:"description"`
	InitialCapex        float64 `json:"initialCapex" yaml:"initialCapex"`
	Year1Capex          float64 `json:"year1Capex" yaml:"year1Capex"`
	BaseFacilityCost    float64 `json:"baseFacilityCost" yaml:"baseFacilityCost"`
	FacilityInflation   float64 `json:"facilityInflation" yaml:"facilityInflation"`
	ArchitectMonthlyFee float64 `json:"architectMonthlyFee" yaml:"architectMonthlyFee"`
	ArchitectMonths     int     `json:"architectMonths" yaml:"architectMonths"`
	// EquityInvestment is the bridge/equity portion of the funding; it is the
	// year-0 outflow of the IRR cash-flow base. Financed and subsidized
	// portions of CAPEX are excluded.
	EquityInvestment float64 `json:"equityInvestment" yaml:"equityInvestment"`
}

// Maintenance CAPEX as a share of revenue once the build-out schedule ends.
const (
	maintenanceCapexRate     = 0.03
	lateMaintenanceCapexRate = 0.02
	maintenanceStepDownYear  = 5
)

var capexScenarios = map[string]CapexScenario{
	"lease": {
		Name:              "lease",
		Description:       "Leased and refitted building, no construction",
		InitialCapex:      8000000,
		Year1Capex:        2000000,
		BaseFacilityCost:  4800000,
		FacilityInflation: 0.04,
		EquityInvestment:  12000000,
	},
	"hybrid": {
		Name:                "hybrid",
		Description:         "Leased land with a purpose-built teaching block",
		InitialCapex:        18000000,
		Year1Capex:          10000000,
		BaseFacilityCost:    3000000,
		FacilityInflation:   0.035,
		ArchitectMonthlyFee: 120000,
		ArchitectMonths:     15,
		EquityInvestment:    20000000,
	},
	"build": {
		Name:                "build",
		Description:         "Owned campus built from the ground up",
		InitialCapex:        35000000,
		Year1Capex:          25000000,
		BaseFacilityCost:    1500000,
		FacilityInflation:   0.03,
		ArchitectMonthlyFee: 180000,
		ArchitectMonths:     18,
		EquityInvestment:    30000000,
	},
}

// LookupCapexScenario returns the named CAPEX profile.
func LookupCapexScenario(name string) (CapexScenario, error) {
	scenario, ok := capexScenarios[name]
	if !ok {
		return CapexScenario{}, fmt.Errorf("unknown CAPEX scenario %q (expected one of %v)", name, CapexScenarioNames())
	}
	return scenario, nil
}

// CapexScenarioNames lists the CAPEX profiles in alphabetical order.
func CapexScenarioNames() []string {
	names := make([]string, 0, len(capexScenarios))
	for name := range capexScenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CapexScenarios returns every CAPEX profile in alphabetical order.
func CapexScenarios() []CapexScenario {
	names := CapexScenarioNames()
	scenarios := make([]CapexScenario, 0, len(names))
	for _, name := range names {
		scenarios = append(scenarios, capexScenarios[name])
	}
	return scenarios
}

func (s CapexScenario) architectFees(months int) float64 {
	if months <= 0 {
		return 0
	}
	return s.ArchitectMonthlyFee * float64(months)
}

// capexFor applies the scenario schedule: initial CAPEX in year 0, year-1
// CAPEX plus up to twelve months of architect fees in year 1, the architect
// fee tail plus maintenance in year 2, and maintenance only afterwards.
func (s CapexScenario) capexFor(year int, revenue float64) float64 {
	switch {
	case year <= 0:
		return s.InitialCapex
	case year == 1:
		return s.Year1Capex + s.architectFees(min(constants.MonthsPerYear, s.ArchitectMonths))
	case year == 2:
		return s.architectFees(s.ArchitectMonths-constants.MonthsPerYear) + revenue*maintenanceRate(year)
	default:
		return revenue * maintenanceRate(year)
	}
}

func maintenanceRate(year int) float64 {
	if year > maintenanceStepDownYear {
		return lateMaintenanceCapexRate
	}
	return maintenanceCapexRate
}
