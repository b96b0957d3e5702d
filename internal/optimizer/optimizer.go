// Package optimizer goal-seeks plan parameters: for each directive it finds
// the parameter value at which a scenario metric just reaches its target.
package optimizer

import (
	"fmt"
	"math"

	"github.com/iwvelando/plan-forecast/internal/config"
	"github.com/iwvelando/plan-forecast/internal/forecast"
	"github.com/iwvelando/plan-forecast/pkg/format"
	"github.com/iwvelando/plan-forecast/pkg/mathutil"
	"github.com/iwvelando/plan-forecast/pkg/optimization"
	"github.com/iwvelando/plan-forecast/pkg/projection"
	"go.uber.org/zap"
)

type Runner struct {
	logger *zap.Logger
	conf   *config.Configuration
}

type target struct {
	scenarioName string
	params       projection.Parameters
	directive    config.OptimizerConfig
	integer      bool
	original     float64
}

type evaluation struct {
	value    float64
	achieved float64
	target   float64
	lowerIs  bool
}

func (e evaluation) feasible() bool {
	return e.headroom() >= 0
}

func (e evaluation) headroom() float64 {
	if e.lowerIs {
		return e.target - e.achieved
	}
	return e.achieved - e.target
}

// Result summarizes optimizer results keyed by scenario name.
type Result struct {
	Summaries map[string][]optimization.Summary
}

// Empty indicates whether any optimizer results were produced.
func (r Result) Empty() bool {
	return len(r.Summaries) == 0
}

// Apply attaches optimizer summaries to the provided forecast results.
func (r Result) Apply(forecasts []forecast.Forecast) {
	if len(r.Summaries) == 0 {
		return
	}
	for i := range forecasts {
		summaries, ok := r.Summaries[forecasts[i].Name]
		if !ok {
			continue
		}
		forecasts[i].Optimizations = append(forecasts[i].Optimizations, summaries...)
	}
}

// NewRunner constructs a Runner for the provided configuration.
func NewRunner(logger *zap.Logger, conf *config.Configuration) (*Runner, error) {
	if conf == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{logger: logger, conf: conf}, nil
}

// Run executes every optimizer directive of the active scenarios. The
// configuration is not modified.
func (r *Runner) Run() (*Result, error) {
	targets, err := r.collectTargets()
	if err != nil {
		return nil, err
	}

	summaries := make(map[string][]optimization.Summary)
	for _, t := range targets {
		summary, err := r.optimize(t)
		if err != nil {
			return nil, err
		}
		summaries[t.scenarioName] = append(summaries[t.scenarioName], summary)

		r.logger.Info("optimizer solved directive",
			zap.String("op", "optimizer.Run"),
			zap.String("scenario", t.scenarioName),
			zap.String("parameter", summary.Parameter),
			zap.String("metric", summary.Metric),
			zap.Float64("target", summary.Target),
			zap.Float64("original", summary.Original),
			zap.Float64("value", summary.Value),
			zap.Float64("achieved", summary.Achieved),
			zap.Int("iterations", summary.Iterations),
			zap.Bool("converged", summary.Converged),
		)
	}

	return &Result{Summaries: summaries}, nil
}

func (r *Runner) collectTargets() ([]target, error) {
	var targets []target
	for _, scenario := range r.conf.ActiveScenarios() {
		if len(scenario.Optimizers) == 0 {
			continue
		}
		params, err := r.conf.ScenarioParameters(scenario)
		if err != nil {
			return nil, err
		}
		for i := range scenario.Optimizers {
			directive := scenario.Optimizers[i]
			if err := directive.Validate(); err != nil {
				return nil, fmt.Errorf("scenario %s optimizer %d: %w", scenario.Name, i+1, err)
			}
			_, original, err := projection.ParameterValue(params, directive.Parameter)
			if err != nil {
				return nil, fmt.Errorf("scenario %s optimizer %d: %w", scenario.Name, i+1, err)
			}
			targets = append(targets, target{
				scenarioName: scenario.Name,
				params:       params,
				directive:    directive,
				integer:      projection.IsIntegerParameter(directive.Parameter),
				original:     original,
			})
		}
	}
	return targets, nil
}

func (r *Runner) optimize(t target) (optimization.Summary, error) {
	d := t.directive
	summary := optimization.Summary{
		Scenario:        t.scenarioName,
		Parameter:       d.Parameter,
		Metric:          d.Metric,
		Target:          d.Target,
		Original:        t.original,
		OriginalDisplay: formatValue(d.Parameter, t.original),
	}

	lower, err := r.evaluate(t, *d.Min)
	if err != nil {
		return summary, err
	}
	upper, err := r.evaluate(t, *d.Max)
	if err != nil {
		return summary, err
	}

	finish := func(best evaluation, iterations int, converged bool, notes ...string) optimization.Summary {
		summary.Value = best.value
		summary.ValueDisplay = formatValue(d.Parameter, best.value)
		summary.Achieved = best.achieved
		summary.Headroom = best.headroom()
		summary.Iterations = iterations
		summary.Converged = converged
		summary.Notes = notes
		return summary
	}

	if !lower.feasible() && !upper.feasible() {
		best := upper
		if lower.headroom() > upper.headroom() {
			best = lower
		}
		return finish(best, 0, false, fmt.Sprintf("unable to reach %s %s within bounds %s to %s",
			d.Metric, formatMetric(d.Metric, d.Target),
			formatValue(d.Parameter, lower.value), formatValue(d.Parameter, upper.value))), nil
	}
	if lower.feasible() && upper.feasible() {
		best := lower
		if upper.headroom() < lower.headroom() {
			best = upper
		}
		return finish(best, 0, true, "target met across the whole range"), nil
	}

	good, bad := lower, upper
	if upper.feasible() {
		good, bad = upper, lower
	}
	iterations := 0
	for iterations < d.MaxIterations && !mathutil.WithinTolerance(good.value, bad.value, d.Tolerance) {
		mid := (good.value + bad.value) / 2
		if t.integer {
			mid = math.Round(mid)
			if mid == good.value || mid == bad.value {
				break
			}
		}
		eval, err := r.evaluate(t, mid)
		if err != nil {
			return summary, err
		}
		iterations++
		if eval.feasible() {
			good = eval
		} else {
			bad = eval
		}
	}
	gap := math.Abs(good.value - bad.value)
	converged := gap <= d.Tolerance
	if t.integer {
		converged = gap <= math.Max(d.Tolerance, 1)
	}
	return finish(good, iterations, converged), nil
}

func (r *Runner) evaluate(t target, value float64) (evaluation, error) {
	params, err := projection.WithParameterValue(t.params, t.directive.Parameter, value)
	if err != nil {
		return evaluation{}, err
	}
	_, applied, err := projection.ParameterValue(params, t.directive.Parameter)
	if err != nil {
		return evaluation{}, err
	}
	engine, err := projection.NewEngine(r.logger, params)
	if err != nil {
		return evaluation{}, fmt.Errorf("scenario %s optimizer %s at %v: %w", t.scenarioName, t.directive.Parameter, value, err)
	}
	result, err := engine.Forecast(r.conf.Horizon)
	if err != nil {
		return evaluation{}, fmt.Errorf("scenario %s optimizer %s at %v: %w", t.scenarioName, t.directive.Parameter, value, err)
	}

	eval := evaluation{value: applied, target: t.directive.Target}
	switch t.directive.Metric {
	case config.OptimizerMetricIRR:
		eval.achieved = result.Summary.IRR
	case config.OptimizerMetricCumulativeFCF:
		eval.achieved = result.Summary.CumulativeFCF
	case config.OptimizerMetricPayback:
		eval.achieved = float64(result.Summary.PaybackPeriod)
		eval.lowerIs = true
	default:
		eval.achieved = result.Summary.NPV
	}
	return eval, nil
}

func formatValue(parameter string, value float64) string {
	if projection.IsIntegerParameter(parameter) {
		return fmt.Sprintf("%.0f", value)
	}
	if math.Abs(value) < 1 {
		return format.Percent(value)
	}
	return format.Currency(value)
}

func formatMetric(metric string, value float64) string {
	switch metric {
	case config.OptimizerMetricIRR:
		return format.Percent(value)
	case config.OptimizerMetricPayback:
		return fmt.Sprintf("year %.0f", value)
	default:
		return format.Currency(value)
	}
}

// Optimize runs every directive of conf and attaches the summaries to the
// matching forecasts.
func Optimize(logger *zap.Logger, conf *config.Configuration, forecasts []forecast.Forecast) error {
	runner, err := NewRunner(logger, conf)
	if err != nil {
		return err
	}
	result, err := runner.Run()
	if err != nil {
		return err
	}
	result.Apply(forecasts)
	return nil
}
