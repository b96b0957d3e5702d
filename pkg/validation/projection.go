package validation

import (
	"fmt"

	"github.com/iwvelando/plan-forecast/pkg/constants"
)

// ValidateYear checks that a projection year is within [0, constants.MaxYear].
func ValidateYear(year int) error {
	if year < 0 || year > constants.MaxYear {
		return fmt.Errorf("year must be between 0 and %d, got %d", constants.MaxYear, year)
	}
	return nil
}

// ValidateHorizon checks that a projection horizon is within [0, constants.MaxYear].
func ValidateHorizon(horizon int) error {
	if horizon < 0 || horizon > constants.MaxYear {
		return fmt.Errorf("horizon must be between 0 and %d, got %d", constants.MaxYear, horizon)
	}
	return nil
}

// ValidateVariations checks sensitivity variations; a variation of -1 or
// below would zero or negate the parameter.
func ValidateVariations(variations []float64) error {
	if len(variations) == 0 {
		return fmt.Errorf("at least one variation is required")
	}
	for _, v := range variations {
		if v <= -1 {
			return fmt.Errorf("variation %v must be greater than -1", v)
		}
	}
	return nil
}
