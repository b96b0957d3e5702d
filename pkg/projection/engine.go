package projection

import (
	"fmt"

	"github.com/iwvelando/plan-forecast/pkg/mathutil"
	"github.com/iwvelando/plan-forecast/pkg/validation"
	"go.uber.org/zap"
)

// Engine computes projections for one immutable parameter set. Every call
// recomputes from scratch; nothing is cached between years or calls.
type Engine struct {
	params Parameters
	capex  CapexScenario
	logger *zap.Logger
}

// NewEngine validates params and creates an engine over a private copy of them.
// Override fields that are negative or not finite are treated as absent.
// If logger is nil, it will use a no-op logger to prevent panics.
func NewEngine(logger *zap.Logger, params Parameters) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}
	capex, err := LookupCapexScenario(params.CapexScenario)
	if err != nil {
		return nil, err
	}
	clean := params.Clone()
	clean.YearlyOverrides = ParseOverrides(params.YearlyOverrides)
	for _, year := range params.OverrideYears() {
		if _, ok := clean.YearlyOverrides[year]; !ok {
			logger.Debug("dropped unusable yearly override",
				zap.String("op", "projection.NewEngine"),
				zap.Int("year", year),
			)
		}
	}
	return &Engine{params: clean, capex: capex, logger: logger}, nil
}

// Parameters returns a copy of the engine's parameters.
func (e *Engine) Parameters() Parameters {
	return e.params.Clone()
}

// CapexScenario returns the active CAPEX profile.
func (e *Engine) CapexScenario() CapexScenario {
	return e.capex
}

// CalculateYearData projects a single year.
func (e *Engine) CalculateYearData(year int) (YearRecord, error) {
	if err := validation.ValidateYear(year); err != nil {
		return YearRecord{}, err
	}
	return e.yearData(year), nil
}

func (e *Engine) yearData(year int) YearRecord {
	students := e.students(year)
	pricing := e.pricing(year)
	revenue := e.revenue(year, students, pricing)
	costs := e.costs(year, students, revenue.Total)

	record := YearRecord{
		Year:     year,
		Students: students,
		Pricing:  pricing,
		Revenue:  revenue,
		Costs:    costs,
	}
	record.EBITDA = revenue.Total - costs.Total
	record.EBITDAMargin = mathutil.SafeDivide(record.EBITDA, revenue.Total)
	record.Capex = e.capexFor(year, revenue.Total)
	record.Taxes = taxes(record.EBITDA)
	record.NetIncome = record.EBITDA - record.Taxes
	record.FreeCashFlow = record.NetIncome - record.Capex
	return record
}

func (e *Engine) capexFor(year int, revenue float64) float64 {
	if o, ok := e.params.Override(year); ok && o.Capex != nil {
		return *o.Capex
	}
	return e.capex.capexFor(year, revenue)
}

// CalculateProjection projects years 0 through years inclusive, computing
// each year independently.
func (e *Engine) CalculateProjection(years int) (Series, error) {
	if err := validation.ValidateHorizon(years); err != nil {
		return nil, err
	}

	series := make(Series, 0, years+1)
	for year := 0; year <= years; year++ {
		record := e.yearData(year)
		e.logger.Debug("projected year",
			zap.String("op", "projection.CalculateProjection"),
			zap.Int("year", year),
			zap.Int("students", record.Students.Total),
			zap.Float64("revenue", record.Revenue.Total),
			zap.Float64("ebitda", record.EBITDA),
			zap.Float64("freeCashFlow", record.FreeCashFlow),
		)
		series = append(series, record)
	}
	return series, nil
}
