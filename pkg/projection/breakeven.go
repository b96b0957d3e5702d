package projection

import (
	"github.com/iwvelando/plan-forecast/pkg/constants"
	"github.com/iwvelando/plan-forecast/pkg/mathutil"
)

// Monthly flagship simulation assumptions, independent of the annual ramp and
// cost rules.
const (
	breakevenStartStudents        = 150
	breakevenMonthlyIntake        = 35
	breakevenStaffMonthly         = 150000
	breakevenVariableCostPerPupil = 900
)

// Breakeven is the first month in which the flagship campus alone covers its
// monthly operating cost.
type Breakeven struct {
	Month          int     `json:"month"`
	Reached        bool    `json:"reached"`
	Students       int     `json:"students"`
	MonthlyRevenue float64 `json:"monthlyRevenue"`
	MonthlyCost    float64 `json:"monthlyCost"`
}

// FlagshipBreakeven runs a 24-month flagship-only simulation at base tuition.
// When break-even is not reached the last simulated month is reported with
// Reached false and Month 0.
func (e *Engine) FlagshipBreakeven() Breakeven {
	target := float64(e.params.FlagshipStudents)
	fixed := e.capex.BaseFacilityCost/constants.MonthsPerYear + breakevenStaffMonthly

	var last Breakeven
	for month := 1; month <= constants.BreakevenMonths; month++ {
		students := mathutil.Clamp(breakevenStartStudents+float64(month-1)*breakevenMonthlyIntake, 0, target)
		revenue := students * e.params.TuitionMonthly
		cost := fixed + students*breakevenVariableCostPerPupil

		last = Breakeven{
			Students:       int(students),
			MonthlyRevenue: mathutil.Round(revenue),
			MonthlyCost:    mathutil.Round(cost),
		}
		if revenue >= cost {
			last.Month = month
			last.Reached = true
			return last
		}
	}
	return last
}
