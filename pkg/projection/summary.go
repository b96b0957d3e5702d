package projection

import (
	"github.com/iwvelando/plan-forecast/pkg/constants"
	"github.com/iwvelando/plan-forecast/pkg/finance"
	"github.com/iwvelando/plan-forecast/pkg/mathutil"
	"go.uber.org/zap"
)

// Summary holds the metrics derived from a full projection series.
type Summary struct {
	IRR                   float64   `json:"irr"`
	IRRConverged          bool      `json:"irrConverged"`
	IRRIterations         int       `json:"irrIterations"`
	NPV                   float64   `json:"npv"`
	DiscountRate          float64   `json:"discountRate"`
	PaybackPeriod         int       `json:"paybackPeriod"`
	CumulativeRevenue     float64   `json:"cumulativeRevenue"`
	CumulativeEBITDA      float64   `json:"cumulativeEbitda"`
	CumulativeFCF         float64   `json:"cumulativeFcf"`
	TotalCapex            float64   `json:"totalCapex"`
	EquityInvestment      float64   `json:"equityInvestment"`
	FinalYear             int       `json:"finalYear"`
	FinalYearRevenue      float64   `json:"finalYearRevenue"`
	FinalYearEBITDAMargin float64   `json:"finalYearEbitdaMargin"`
	FinalYearStudents     int       `json:"finalYearStudents"`
	CashFlows             []float64 `json:"cashFlows"`
	Breakeven             Breakeven `json:"breakeven"`
}

// Result pairs a projection with its summary.
type Result struct {
	Projection Series  `json:"projection"`
	Summary    Summary `json:"summary"`
}

// Forecast projects years 0 through horizon and summarizes the series.
func (e *Engine) Forecast(horizon int) (Result, error) {
	series, err := e.CalculateProjection(horizon)
	if err != nil {
		return Result{}, err
	}
	return Result{Projection: series, Summary: e.Summarize(series)}, nil
}

// GetFinancialSummary summarizes the default ten-year projection.
func (e *Engine) GetFinancialSummary() (Summary, error) {
	result, err := e.Forecast(constants.DefaultHorizon)
	if err != nil {
		return Summary{}, err
	}
	return result.Summary, nil
}

// Summarize derives IRR, NPV, payback and cumulative figures from series.
// The year-0 cash flow is replaced by the equity outflow of the CAPEX
// scenario; cumulative figures start at year 1.
func (e *Engine) Summarize(series Series) Summary {
	cashFlows := series.FreeCashFlows()
	if len(cashFlows) > 0 {
		cashFlows[0] = -e.capex.EquityInvestment
	}

	irr := finance.NewSolver(e.logger).IRR(cashFlows)
	summary := Summary{
		IRR:              irr.Rate,
		IRRConverged:     irr.Converged,
		IRRIterations:    irr.Iterations,
		NPV:              finance.NPV(cashFlows, e.params.DiscountRate),
		DiscountRate:     e.params.DiscountRate,
		PaybackPeriod:    finance.PaybackPeriod(cashFlows),
		EquityInvestment: e.capex.EquityInvestment,
		CashFlows:        cashFlows,
		Breakeven:        e.FlagshipBreakeven(),
	}

	for i, record := range series {
		summary.TotalCapex += record.Capex
		if i == 0 {
			continue
		}
		summary.CumulativeRevenue += record.Revenue.Total
		summary.CumulativeEBITDA += record.EBITDA
	}
	summary.CumulativeFCF = finance.CumulativeSum(series.FreeCashFlows(), 1)

	if len(series) > 0 {
		final := series[series.Horizon()]
		summary.FinalYear = final.Year
		summary.FinalYearRevenue = final.Revenue.Total
		summary.FinalYearEBITDAMargin = mathutil.SafeDivide(final.EBITDA, final.Revenue.Total)
		summary.FinalYearStudents = final.Students.Total
	}

	e.logger.Debug("summarized projection",
		zap.String("op", "projection.Summarize"),
		zap.Float64("irr", summary.IRR),
		zap.Bool("irrConverged", summary.IRRConverged),
		zap.Float64("npv", summary.NPV),
		zap.Int("payback", summary.PaybackPeriod),
	)
	return summary
}
