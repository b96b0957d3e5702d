// Package forecast runs the projection engine for every active scenario of a
// configuration.
package forecast

import (
	"fmt"

	"github.com/iwvelando/plan-forecast/internal/config"
	"github.com/iwvelando/plan-forecast/pkg/optimization"
	"github.com/iwvelando/plan-forecast/pkg/projection"
	"github.com/iwvelando/plan-forecast/pkg/validation"
	"go.uber.org/zap"
)

// Forecast holds all information related to a specific scenario forecast.
type Forecast struct {
	Name        string                `json:"name"`
	Parameters  projection.Parameters `json:"parameters"`
	Projection  projection.Series     `json:"projection"`
	Summary     projection.Summary    `json:"summary"`
	Sensitivity []Sweep               `json:"sensitivity,omitempty"`

	Optimizations []optimization.Summary `json:"optimizations,omitempty"`
}

// Sweep is the sensitivity of one parameter within a scenario.
type Sweep struct {
	Parameter string                        `json:"parameter"`
	Points    []projection.SensitivityPoint `json:"points"`
}

// GetForecast processes the Forecasts for all active Scenarios.
func GetForecast(logger *zap.Logger, conf config.Configuration) ([]Forecast, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var results []Forecast
	for _, scenario := range conf.Scenarios {
		if !scenario.Active {
			logger.Debug(fmt.Sprintf("skipping scenario %s because it is inactive", scenario.Name),
				zap.String("op", "forecast.GetForecast"),
			)
		}
	}

	for _, scenario := range conf.ActiveScenarios() {
		result, err := Run(logger, conf, scenario)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}
	return results, nil
}

// Run projects a single scenario over the configured horizon and computes
// its sensitivity sweeps.
func Run(logger *zap.Logger, conf config.Configuration, scenario config.Scenario) (Forecast, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	params, err := conf.ScenarioParameters(scenario)
	if err != nil {
		return Forecast{}, err
	}
	engine, err := projection.NewEngine(logger, params)
	if err != nil {
		return Forecast{}, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}
	result, err := engine.Forecast(conf.Horizon)
	if err != nil {
		return Forecast{}, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	forecast := Forecast{
		Name:       scenario.Name,
		Parameters: params,
		Projection: result.Projection,
		Summary:    result.Summary,
	}
	for _, s := range conf.Sensitivity {
		if err := validation.ValidateVariations(s.Variations); err != nil {
			return Forecast{}, fmt.Errorf("sensitivity %s: %w", s.Parameter, err)
		}
		points, err := engine.SensitivityAt(conf.Horizon, s.Parameter, s.Variations)
		if err != nil {
			return Forecast{}, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
		forecast.Sensitivity = append(forecast.Sensitivity, Sweep{Parameter: points[0].Parameter, Points: points})
	}

	logger.Info("computed scenario forecast",
		zap.String("op", "forecast.Run"),
		zap.String("scenario", scenario.Name),
		zap.Int("horizon", conf.Horizon),
		zap.Float64("npv", result.Summary.NPV),
		zap.Float64("irr", result.Summary.IRR),
	)
	return forecast, nil
}
