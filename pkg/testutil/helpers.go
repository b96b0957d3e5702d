// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/plan-forecast/internal/forecast"
	"github.com/iwvelando/plan-forecast/pkg/projection"
)

// FindScenario finds a scenario by name in the results slice.
// Returns a pointer to the forecast if found, nil otherwise.
func FindScenario(results []forecast.Forecast, name string) *forecast.Forecast {
	for i := range results {
		if results[i].Name == name {
			return &results[i]
		}
	}
	return nil
}

// FindYear returns the record of year in series, or nil when the year was
// not projected.
func FindYear(series projection.Series, year int) *projection.YearRecord {
	for i := range series {
		if series[i].Year == year {
			return &series[i]
		}
	}
	return nil
}
