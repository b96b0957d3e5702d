package config

import (
	"fmt"
	"strings"

	"github.com/iwvelando/plan-forecast/pkg/projection"
)

const (
	OptimizerMetricNPV           = "npv"
	OptimizerMetricIRR           = "irr"
	OptimizerMetricCumulativeFCF = "cumulativeFcf"
	OptimizerMetricPayback       = "payback"

	defaultToleranceAmount   = 0.01
	defaultToleranceDiscrete = 1
	defaultMaxIterations     = 50
)

// OptimizerConfig is a goal-seek directive: find the value of Parameter
// within [Min, Max] at which Metric just reaches Target.
type OptimizerConfig struct {
	Parameter     string   `yaml:"parameter" mapstructure:"parameter"`
	Metric        string   `yaml:"metric,omitempty" mapstructure:"metric"`
	Target        float64  `yaml:"target" mapstructure:"target"`
	Min           *float64 `yaml:"min,omitempty" mapstructure:"min"`
	Max           *float64 `yaml:"max,omitempty" mapstructure:"max"`
	Tolerance     float64  `yaml:"tolerance,omitempty" mapstructure:"tolerance"`
	MaxIterations int      `yaml:"maxIterations,omitempty" mapstructure:"maxIterations"`
}

// CanonicalOptimizerMetric returns the canonical identifier for an optimizer metric.
func CanonicalOptimizerMetric(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return OptimizerMetricNPV
	}
	switch strings.ToLower(trimmed) {
	case "npv":
		return OptimizerMetricNPV
	case "irr":
		return OptimizerMetricIRR
	case "cumulativefcf", "cumulative_fcf", "cumulative-fcf", "fcf":
		return OptimizerMetricCumulativeFCF
	case "payback", "paybackperiod", "payback_period":
		return OptimizerMetricPayback
	default:
		return strings.ToLower(trimmed)
	}
}

// Normalize ensures defaults and canonical values are applied before validation.
func (o *OptimizerConfig) Normalize() {
	if o == nil {
		return
	}
	o.Metric = CanonicalOptimizerMetric(o.Metric)
	if name, _, err := projection.ParameterValue(projection.DefaultParameters(), o.Parameter); err == nil {
		o.Parameter = name
	}
	if o.Tolerance <= 0 {
		if projection.IsIntegerParameter(o.Parameter) {
			o.Tolerance = defaultToleranceDiscrete
		} else {
			o.Tolerance = defaultToleranceAmount
		}
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = defaultMaxIterations
	}
}

// Validate returns an error when the optimizer configuration is unsupported.
func (o *OptimizerConfig) Validate() error {
	if o == nil {
		return fmt.Errorf("optimizer configuration cannot be nil")
	}

	o.Normalize()

	if _, _, err := projection.ParameterValue(projection.DefaultParameters(), o.Parameter); err != nil {
		return fmt.Errorf("optimizer parameter %q is not supported", o.Parameter)
	}
	switch o.Metric {
	case OptimizerMetricNPV, OptimizerMetricIRR, OptimizerMetricCumulativeFCF, OptimizerMetricPayback:
		// supported metrics
	default:
		return fmt.Errorf("optimizer metric %q is not supported", o.Metric)
	}

	if o.Min == nil {
		return fmt.Errorf("optimizer requires a minimum bound")
	}
	if o.Max == nil {
		return fmt.Errorf("optimizer requires a maximum bound")
	}
	if *o.Min >= *o.Max {
		return fmt.Errorf("optimizer minimum %.2f must be less than maximum %.2f", *o.Min, *o.Max)
	}
	if *o.Min < 0 {
		return fmt.Errorf("optimizer minimum %.2f must not be negative", *o.Min)
	}
	return nil
}
