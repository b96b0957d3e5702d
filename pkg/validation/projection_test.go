package validation

import "testing"

func TestValidateYearAndHorizon(t *testing.T) {
	tests := []struct {
		name      string
		value     int
		expectErr bool
	}{
		{"Year zero", 0, false},
		{"Default horizon", 10, false},
		{"Upper bound", 50, false},
		{"Negative", -1, true},
		{"Beyond upper bound", 51, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateYear(tt.value); (err != nil) != tt.expectErr {
				t.Errorf("ValidateYear(%d) error = %v, expectErr %v", tt.value, err, tt.expectErr)
			}
			if err := ValidateHorizon(tt.value); (err != nil) != tt.expectErr {
				t.Errorf("ValidateHorizon(%d) error = %v, expectErr %v", tt.value, err, tt.expectErr)
			}
		})
	}
}

func TestValidateVariations(t *testing.T) {
	tests := []struct {
		name       string
		variations []float64
		expectErr  bool
	}{
		{"Symmetric", []float64{-0.2, -0.1, 0.1, 0.2}, false},
		{"Empty", nil, true},
		{"Wipes out parameter", []float64{-1}, true},
		{"Negates parameter", []float64{0.1, -1.5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateVariations(tt.variations); (err != nil) != tt.expectErr {
				t.Errorf("ValidateVariations(%v) error = %v, expectErr %v", tt.variations, err, tt.expectErr)
			}
		})
	}
}
