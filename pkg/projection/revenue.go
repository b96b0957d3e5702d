package projection

import (
	"math"

	"github.com/iwvelando/plan-forecast/pkg/constants"
	"github.com/iwvelando/plan-forecast/pkg/mathutil"
)

// escalate applies the annual price escalation from year 1; year 0 and year 1
// both carry the base price.
func (e *Engine) escalate(base float64, year int) float64 {
	return base * mathutil.Compound(e.params.EscalationRate, year-1)
}

func (e *Engine) pricing(year int) Pricing {
	pr := Pricing{
		TuitionMonthly:     e.escalate(e.params.TuitionMonthly, year),
		AdoptionFeeMonthly: e.escalate(e.params.AdoptionFeeMonthly, year),
		KitCostAnnual:      e.escalate(e.params.KitCostAnnual, year),
	}
	if o, ok := e.params.Override(year); ok {
		if o.TuitionMonthly != nil {
			pr.TuitionMonthly = *o.TuitionMonthly
		}
		if o.AdoptionFeeMonthly != nil {
			pr.AdoptionFeeMonthly = *o.AdoptionFeeMonthly
		}
		if o.KitCostAnnual != nil {
			pr.KitCostAnnual = *o.KitCostAnnual
		}
	}
	return pr
}

// newFranchises compares against a full recomputation of the prior year so
// that its overrides are honoured.
func (e *Engine) newFranchises(year int, count int) int {
	if year <= 0 {
		return max(count, 0)
	}
	prior := e.yearData(year - 1)
	return max(count-prior.Students.FranchiseCount, 0)
}

func (e *Engine) revenue(year int, students Students, pricing Pricing) Revenue {
	p := e.params
	months := float64(constants.MonthsPerYear)
	royaltyBase := float64(students.Franchise) * pricing.TuitionMonthly * months

	r := Revenue{
		FlagshipTuition:    float64(students.Flagship) * pricing.TuitionMonthly * months,
		FranchiseRoyalty:   royaltyBase * p.RoyaltyRate,
		FranchiseMarketing: royaltyBase * p.MarketingFeeRate,
		FranchiseFees:      float64(e.newFranchises(year, students.FranchiseCount)) * p.FranchiseFee,
		AdoptionFees:       float64(students.Adoption) * pricing.AdoptionFeeMonthly * months,
		KitSales:           float64(students.Total) * pricing.KitCostAnnual,
	}
	r.Total = r.Sum()
	return r
}

func taxes(ebitda float64) float64 {
	return math.Max(0, ebitda) * constants.CorporateTaxRate
}
