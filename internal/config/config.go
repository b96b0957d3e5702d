// Package config defines the data structures related to configuration and
// includes functions for loading, validating and resolving it into engine
// parameters.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/iwvelando/plan-forecast/pkg/constants"
	"github.com/iwvelando/plan-forecast/pkg/projection"
	"github.com/iwvelando/plan-forecast/pkg/validation"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Configuration holds all configuration for plan-forecast.
type Configuration struct {
	Logging     LoggingConfig          `yaml:"logging,omitempty"`
	Output      OutputConfig           `yaml:"output,omitempty"`
	Horizon     int                    `yaml:"horizon"`
	Parameters  map[string]interface{} `yaml:"parameters,omitempty"`
	Scenarios   []Scenario             `yaml:"scenarios,omitempty"`
	Sensitivity []Sensitivity          `yaml:"sensitivity,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv, xlsx
	File   string `yaml:"file,omitempty"`   // base name for xlsx exports
}

// Scenario is a named variant of the base parameters. Preset is applied
// first, then Parameters.
type Scenario struct {
	Name       string                 `yaml:"name"`
	Active     bool                   `yaml:"active"`
	Preset     string                 `yaml:"preset,omitempty"`
	Parameters map[string]interface{} `yaml:"parameters,omitempty"`
	Optimizers []OptimizerConfig      `yaml:"optimizers,omitempty"`
}

// Sensitivity requests a sweep of one parameter for every active scenario.
type Sensitivity struct {
	Parameter  string    `yaml:"parameter"`
	Variations []float64 `yaml:"variations"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults make these keys visible to environment overrides.
	v.SetDefault("horizon", constants.DefaultHorizon)
	v.SetDefault("output.format", constants.OutputFormatPretty)
	v.SetDefault("output.file", constants.DefaultExportBaseName)
	v.SetDefault("logging.level", "")
	v.SetDefault("logging.format", "")
	v.SetDefault("logging.outputFile", "")
	return v
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. PLAN_FORECAST_* environment variables override file
// values.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads YAML configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config, %s", err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment
// without replacing variables that are already set. A missing file is not an
// error unless required is true.
func LoadEnvFile(path string, required bool) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !required {
			return nil
		}
		return fmt.Errorf("env file %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// Encode writes the configuration as YAML.
func (c *Configuration) Encode(w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	return encoder.Close()
}

// BaseParameters applies the top-level parameter patch to the defaults.
func (c *Configuration) BaseParameters() (projection.Parameters, error) {
	params, err := projection.DefaultParameters().Merge(c.Parameters)
	if err != nil {
		return params, fmt.Errorf("base parameters: %w", err)
	}
	return params, nil
}

// ScenarioParameters resolves a scenario into engine parameters: defaults,
// then the top-level patch, then the scenario preset, then the scenario patch.
func (c *Configuration) ScenarioParameters(scenario Scenario) (projection.Parameters, error) {
	params, err := c.BaseParameters()
	if err != nil {
		return params, err
	}
	if scenario.Preset != "" {
		params, err = projection.ApplyPreset(params, scenario.Preset)
		if err != nil {
			return params, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
	}
	params, err = params.Merge(scenario.Parameters)
	if err != nil {
		return params, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}
	if err := params.Validate(); err != nil {
		return params, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}
	return params, nil
}

// ActiveScenarios returns the active scenarios in file order. A configuration
// without scenarios yields a single active "base" scenario.
func (c *Configuration) ActiveScenarios() []Scenario {
	if len(c.Scenarios) == 0 {
		return []Scenario{{Name: "base", Active: true}}
	}
	var active []Scenario
	for _, scenario := range c.Scenarios {
		if scenario.Active {
			active = append(active, scenario)
		}
	}
	return active
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if c.Output.Format != "" {
		if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
			warnings = append(warnings, err.Error())
		}
	}
	if err := validation.ValidateHorizon(c.Horizon); err != nil {
		warnings = append(warnings, err.Error())
	}
	if _, err := c.BaseParameters(); err != nil {
		warnings = append(warnings, err.Error())
	}

	if len(c.Scenarios) > 0 && len(c.ActiveScenarios()) == 0 {
		warnings = append(warnings, "no active scenarios; nothing will be projected")
	}

	seen := make(map[string]bool, len(c.Scenarios))
	for i, scenario := range c.Scenarios {
		name := scenario.Name
		if name == "" {
			warnings = append(warnings, fmt.Sprintf("scenario %d has no name", i+1))
		} else if seen[name] {
			warnings = append(warnings, fmt.Sprintf("scenario %s is defined more than once", name))
		}
		seen[name] = true

		if _, err := c.ScenarioParameters(scenario); err != nil {
			warnings = append(warnings, err.Error())
		}
		for j, directive := range scenario.Optimizers {
			if err := directive.Validate(); err != nil {
				warnings = append(warnings, fmt.Sprintf("scenario %s optimizer %d: %v", name, j+1, err))
			}
		}
	}

	for _, s := range c.Sensitivity {
		if !knownSensitivityParameter(s.Parameter) {
			warnings = append(warnings, fmt.Sprintf("sensitivity parameter %q is not supported (expected one of %v)",
				s.Parameter, projection.SensitivityParameterNames()))
		}
		if err := validation.ValidateVariations(s.Variations); err != nil {
			warnings = append(warnings, fmt.Sprintf("sensitivity %s: %v", s.Parameter, err))
		}
	}

	return warnings
}

func knownSensitivityParameter(name string) bool {
	for _, known := range projection.SensitivityParameterNames() {
		if strings.EqualFold(known, name) {
			return true
		}
	}
	return false
}
