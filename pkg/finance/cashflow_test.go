package finance

import (
	"math"
	"testing"

	"github.com/iwvelando/plan-forecast/pkg/constants"
	"go.uber.org/zap"
)

func TestNPV(t *testing.T) {
	tests := []struct {
		name      string
		cashFlows []float64
		rate      float64
		expected  float64
	}{
		{"Empty series", nil, 0.1, 0},
		{"Index zero undiscounted", []float64{-1000}, 0.1, -1000},
		{"Two periods at ten percent", []float64{-1000, 1100}, 0.1, 0},
		{"Zero rate is plain sum", []float64{-500, 200, 200, 200}, 0, 100},
		{"Three periods", []float64{0, 0, 121}, 0.1, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NPV(tt.cashFlows, tt.rate)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("NPV() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestIRRSeedHitsExactRoot(t *testing.T) {
	result := IRR([]float64{-1000000, 1100000})
	if !result.Converged {
		t.Fatalf("expected convergence, got %+v", result)
	}
	if result.Iterations != 1 {
		t.Errorf("expected the seed rate to satisfy tolerance on the first iteration, got %d", result.Iterations)
	}
	if math.Abs(result.Rate-0.1) > 1e-12 {
		t.Errorf("IRR rate = %v, expected 0.1", result.Rate)
	}
}

func TestIRRNPVConsistency(t *testing.T) {
	tests := []struct {
		name      string
		cashFlows []float64
	}{
		{"Moderate return", []float64{-100000000, 30000000, 40000000, 50000000, 20000000}},
		{"Negative return", []float64{-500000000, 100000000, 100000000, 100000000}},
		{"High return", []float64{-50000000, 60000000, 70000000, 80000000}},
		{"Ten year plan", []float64{-250000000, -20000000, 10000000, 40000000, 70000000, 90000000, 110000000, 130000000, 150000000, 170000000, 190000000}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewSolver(zap.NewNop()).IRR(tt.cashFlows)
			if !result.Converged {
				t.Fatalf("expected convergence, got %+v", result)
			}
			if result.Rate < constants.IRRLowerBound || result.Rate > constants.IRRUpperBound {
				t.Fatalf("rate %v outside bisection bracket", result.Rate)
			}
			if npv := NPV(tt.cashFlows, result.Rate); math.Abs(npv) >= constants.IRRTolerance {
				t.Errorf("NPV at IRR = %v, expected |NPV| < %v", npv, constants.IRRTolerance)
			}
		})
	}
}

func TestIRRTerminatesWithoutRoot(t *testing.T) {
	// All positive cash flows have no root in the bracket.
	result := IRR([]float64{1000000, 1000000, 1000000})
	if result.Converged {
		t.Fatalf("expected no convergence, got %+v", result)
	}
	if result.Iterations != constants.IRRMaxIterations {
		t.Errorf("expected %d iterations, got %d", constants.IRRMaxIterations, result.Iterations)
	}
	if math.IsNaN(result.Rate) || math.IsInf(result.Rate, 0) {
		t.Errorf("expected finite best estimate, got %v", result.Rate)
	}
}

func TestPaybackPeriod(t *testing.T) {
	tests := []struct {
		name      string
		cashFlows []float64
		expected  int
	}{
		{"Positive at year one is floored to two", []float64{-100, 500, 100}, 2},
		{"Positive at year zero is floored to two", []float64{100, 100}, 2},
		{"Positive at year four", []float64{-1000, 200, 200, 300, 400, 500}, 4},
		{"Exactly zero is not positive", []float64{-100, 50, 50, 1}, 3},
		{"Never positive returns length", []float64{-1000, 100, 100}, 3},
		{"Empty series", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PaybackPeriod(tt.cashFlows); got != tt.expected {
				t.Errorf("PaybackPeriod() = %d, expected %d", got, tt.expected)
			}
		})
	}
}

func TestCumulativeSum(t *testing.T) {
	values := []float64{-100, 10, 20, 30}
	if got := CumulativeSum(values, 1); got != 60 {
		t.Errorf("CumulativeSum(from 1) = %v, expected 60", got)
	}
	if got := CumulativeSum(values, 0); got != -40 {
		t.Errorf("CumulativeSum(from 0) = %v, expected -40", got)
	}
	if got := CumulativeSum(values, 10); got != 0 {
		t.Errorf("CumulativeSum(past end) = %v, expected 0", got)
	}
}
