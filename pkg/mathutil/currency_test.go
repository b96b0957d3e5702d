package mathutil

import (
	"math"
	"testing"
)

func TestRound(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"Round down below midpoint", 1.234, 1.23},
		{"Round up above midpoint", 1.236, 1.24},
		{"No rounding needed", 1.23, 1.23},
		{"Large number", 12345.678, 12345.68},
		{"Negative number round down", -1.234, -1.23},
		{"Zero", 0.0, 0.0},
		{"Very small positive", 0.001, 0.00},
		{"Nearly two cents", 0.019, 0.02},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Round(tt.input)
			if math.Abs(result-tt.expected) > 0.001 {
				t.Errorf("Round(%v) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestSafeDivide(t *testing.T) {
	tests := []struct {
		name        string
		numerator   float64
		denominator float64
		expected    float64
	}{
		{"Regular division", 10, 4, 2.5},
		{"Zero denominator", 10, 0, 0},
		{"Zero numerator and denominator", 0, 0, 0},
		{"Negative result", -9, 3, -3},
		{"Infinite numerator", math.Inf(1), 2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := SafeDivide(tt.numerator, tt.denominator); result != tt.expected {
				t.Errorf("SafeDivide(%v, %v) = %v, expected %v", tt.numerator, tt.denominator, result, tt.expected)
			}
		})
	}
}

func TestWithinRelativeTolerance(t *testing.T) {
	tests := []struct {
		name     string
		a, b     float64
		expected bool
	}{
		{"Identical", 1e9, 1e9, true},
		{"Tiny relative drift", 1e9, 1e9 + 1, true},
		{"Large relative drift", 1e9, 1.1e9, false},
		{"Near zero absolute", 0, 1e-7, true},
		{"Near zero beyond tolerance", 0, 0.5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := WithinRelativeTolerance(tt.a, tt.b, 1e-6); result != tt.expected {
				t.Errorf("WithinRelativeTolerance(%v, %v) = %v, expected %v", tt.a, tt.b, result, tt.expected)
			}
		})
	}
}

func TestCompound(t *testing.T) {
	tests := []struct {
		name     string
		rate     float64
		periods  int
		expected float64
	}{
		{"No periods", 0.05, 0, 1},
		{"Negative periods", 0.05, -1, 1},
		{"One period", 0.05, 1, 1.05},
		{"Two periods", 0.10, 2, 1.21},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := Compound(tt.rate, tt.periods); math.Abs(result-tt.expected) > 1e-12 {
				t.Errorf("Compound(%v, %d) = %v, expected %v", tt.rate, tt.periods, result, tt.expected)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(5, 0, 3); got != 3 {
		t.Errorf("Clamp(5, 0, 3) = %v, expected 3", got)
	}
	if got := Clamp(-1, 0, 3); got != 0 {
		t.Errorf("Clamp(-1, 0, 3) = %v, expected 0", got)
	}
	if got := CalculatePercentage(25, 0); got != 0 {
		t.Errorf("CalculatePercentage(25, 0) = %v, expected 0", got)
	}
}

func TestWithinTolerance(t *testing.T) {
	tests := []struct {
		name      string
		a, b, tol float64
		expected  bool
	}{
		{"Equal", 1, 1, 0, true},
		{"Inside", 1.004, 1, 0.01, true},
		{"Outside", 1.02, 1, 0.01, false},
		{"Order independent", 1, 1.02, 0.01, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := WithinTolerance(tt.a, tt.b, tt.tol); result != tt.expected {
				t.Errorf("WithinTolerance(%v, %v, %v) = %v, expected %v", tt.a, tt.b, tt.tol, result, tt.expected)
			}
		})
	}
}

func TestIsFinite(t *testing.T) {
	if !IsFinite(0) || !IsFinite(-1e300) {
		t.Error("finite values reported as non-finite")
	}
	if IsFinite(math.NaN()) || IsFinite(math.Inf(1)) || IsFinite(math.Inf(-1)) {
		t.Error("non-finite values reported as finite")
	}
}
