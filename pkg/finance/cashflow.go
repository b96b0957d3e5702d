// Package finance provides time-value-of-money calculations over annual
// cash-flow series.
package finance

import (
	"math"

	"github.com/iwvelando/plan-forecast/pkg/constants"
	"go.uber.org/zap"
)

// IRRResult is the outcome of an IRR search. Rate is the best estimate even
// when Converged is false.
type IRRResult struct {
	Rate       float64 `json:"rate"`
	NPV        float64 `json:"npv"`
	Iterations int     `json:"iterations"`
	Converged  bool    `json:"converged"`
}

// NPV discounts each cash flow by its index; index 0 is undiscounted.
func NPV(cashFlows []float64, rate float64) float64 {
	npv := 0.0
	for t, cf := range cashFlows {
		npv += cf / math.Pow(1+rate, float64(t))
	}
	return npv
}

// PaybackPeriod returns the first index at which the cumulative cash flow
// turns positive, never earlier than constants.MinimumPaybackYear. When the
// cumulative sum never turns positive the length of the series is returned.
func PaybackPeriod(cashFlows []float64) int {
	cumulative := 0.0
	for i, cf := range cashFlows {
		cumulative += cf
		if cumulative > 0 {
			if i < constants.MinimumPaybackYear {
				return constants.MinimumPaybackYear
			}
			return i
		}
	}
	return len(cashFlows)
}

// CumulativeSum returns the sum of values[from:].
func CumulativeSum(values []float64, from int) float64 {
	if from < 0 {
		from = 0
	}
	total := 0.0
	for i := from; i < len(values); i++ {
		total += values[i]
	}
	return total
}

// Solver finds internal rates of return.
type Solver struct {
	logger        *zap.Logger
	lower         float64
	upper         float64
	seed          float64
	maxIterations int
	tolerance     float64
}

// NewSolver creates an IRR solver with the standard bracket and tolerance.
// If logger is nil, it will use a no-op logger to prevent panics.
func NewSolver(logger *zap.Logger) *Solver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Solver{
		logger:        logger,
		lower:         constants.IRRLowerBound,
		upper:         constants.IRRUpperBound,
		seed:          constants.IRRSeed,
		maxIterations: constants.IRRMaxIterations,
		tolerance:     constants.IRRTolerance,
	}
}

// IRR bisects on the discount rate until |NPV| drops below the absolute
// tolerance or the iteration budget runs out. A positive NPV means the root
// lies above the current rate.
func (s *Solver) IRR(cashFlows []float64) IRRResult {
	low, high := s.lower, s.upper
	rate := s.seed
	npv := 0.0

	for i := 0; i < s.maxIterations; i++ {
		npv = NPV(cashFlows, rate)
		if math.Abs(npv) < s.tolerance {
			return IRRResult{Rate: rate, NPV: npv, Iterations: i + 1, Converged: true}
		}
		if npv > 0 {
			low = rate
		} else {
			high = rate
		}
		rate = (low + high) / 2
	}

	s.logger.Debug("IRR search exhausted iteration budget",
		zap.String("op", "finance.IRR"),
		zap.Float64("rate", rate),
		zap.Float64("npv", npv),
		zap.Int("iterations", s.maxIterations),
	)
	return IRRResult{Rate: rate, NPV: NPV(cashFlows, rate), Iterations: s.maxIterations, Converged: false}
}

// IRR is a convenience wrapper around a silent Solver.
func IRR(cashFlows []float64) IRRResult {
	return NewSolver(nil).IRR(cashFlows)
}
