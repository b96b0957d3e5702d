package projection

import (
	"reflect"
	"testing"

	"go.uber.org/zap"
)

func TestSensitivity(t *testing.T) {
	engine := newTestEngine(t, DefaultParameters())
	before := engine.Parameters()

	points, err := engine.Sensitivity("tuitionMonthly", []float64{-0.1, 0, 0.1})
	if err != nil {
		t.Fatalf("Sensitivity() error = %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}
	if !reflect.DeepEqual(engine.Parameters(), before) {
		t.Errorf("Sensitivity changed the engine parameters")
	}

	baseline, err := engine.GetFinancialSummary()
	if err != nil {
		t.Fatalf("GetFinancialSummary() error = %v", err)
	}
	if !reflect.DeepEqual(points[1].Summary, baseline) {
		t.Errorf("zero variation does not reproduce the baseline summary")
	}
	if !(points[0].Summary.NPV < points[1].Summary.NPV && points[1].Summary.NPV < points[2].Summary.NPV) {
		t.Errorf("expected NPV to rise with tuition, got %v %v %v",
			points[0].Summary.NPV, points[1].Summary.NPV, points[2].Summary.NPV)
	}
	variation := 0.1
	if points[2].Value != before.TuitionMonthly*(1+variation) || points[2].Parameter != "tuitionMonthly" {
		t.Errorf("unexpected point %+v", points[2])
	}
}

func TestSensitivityIntegerParameterRounds(t *testing.T) {
	engine := newTestEngine(t, DefaultParameters())

	points, err := engine.Sensitivity("FLAGSHIPSTUDENTS", []float64{0.15})
	if err != nil {
		t.Fatalf("Sensitivity() error = %v", err)
	}
	if points[0].Parameter != "flagshipStudents" || points[0].Value != 1725 {
		t.Errorf("unexpected point %+v", points[0])
	}
}

func TestSensitivityErrors(t *testing.T) {
	engine := newTestEngine(t, DefaultParameters())

	if _, err := engine.Sensitivity("capexScenario", []float64{0.1}); err == nil {
		t.Errorf("expected error for a non-numeric parameter")
	}
	if _, err := engine.Sensitivity("churnRate", []float64{30}); err == nil {
		t.Errorf("expected error when the perturbed churn is invalid")
	}
}

func TestSensitivityParameterNamesResolve(t *testing.T) {
	params := DefaultParameters()
	for _, name := range SensitivityParameterNames() {
		canonical, param, err := lookupSensitivityParameter(name)
		if err != nil || canonical != name {
			t.Errorf("lookup(%s) = %s, %v", name, canonical, err)
			continue
		}
		perturbed := params.Clone()
		param.set(&perturbed, 3)
		if param.get(perturbed) != 3 {
			t.Errorf("%s accessor does not round trip", name)
		}
	}
}

func TestPresets(t *testing.T) {
	if got := PresetNames(); !reflect.DeepEqual(got, []string{"aggressive", "base", "conservative", "kits"}) {
		t.Errorf("PresetNames() = %v", got)
	}

	for _, preset := range Presets() {
		params, err := ApplyPreset(DefaultParameters(), preset.Name)
		if err != nil {
			t.Errorf("ApplyPreset(%s) error = %v", preset.Name, err)
			continue
		}
		if err := params.Validate(); err != nil {
			t.Errorf("preset %s produces invalid parameters: %v", preset.Name, err)
		}
	}

	conservative, _ := ApplyPreset(DefaultParameters(), "conservative")
	if conservative.CapexScenario != "lease" || conservative.ChurnRate != 0.08 {
		t.Errorf("conservative preset not applied: %+v", conservative)
	}
	if _, err := ApplyPreset(DefaultParameters(), "moonshot"); err == nil {
		t.Errorf("expected error for unknown preset")
	}
}

func TestKitsPresetAddsKitRevenue(t *testing.T) {
	params, err := ApplyPreset(DefaultParameters(), "kits")
	if err != nil {
		t.Fatalf("ApplyPreset() error = %v", err)
	}
	record := mustYear(t, newTestEngine(t, params), 1)
	if expected := 300.0 * 1200; record.Revenue.KitSales != expected {
		t.Errorf("year 1 kit sales = %v, expected %v", record.Revenue.KitSales, expected)
	}
}

func TestCompareScenarios(t *testing.T) {
	comparisons, err := CompareScenarios(zap.NewNop(), DefaultParameters(), []string{"conservative", "aggressive"})
	if err != nil {
		t.Fatalf("CompareScenarios() error = %v", err)
	}
	if len(comparisons) != 2 || comparisons[0].Name != "conservative" {
		t.Fatalf("unexpected comparisons %+v", comparisons)
	}
	if comparisons[0].Summary.CumulativeRevenue >= comparisons[1].Summary.CumulativeRevenue {
		t.Errorf("expected the aggressive plan to out-earn the conservative one")
	}

	if _, err := CompareScenarios(nil, DefaultParameters(), []string{"base", "nope"}); err == nil {
		t.Errorf("expected error for unknown preset")
	}
}

func TestCapexScenarios(t *testing.T) {
	if got := CapexScenarioNames(); !reflect.DeepEqual(got, []string{"build", "hybrid", "lease"}) {
		t.Errorf("CapexScenarioNames() = %v", got)
	}
	scenario, err := LookupCapexScenario(DefaultCapexScenario)
	if err != nil {
		t.Fatalf("LookupCapexScenario() error = %v", err)
	}
	if scenario.EquityInvestment != 20000000 || scenario.ArchitectMonths != 15 {
		t.Errorf("unexpected hybrid scenario %+v", scenario)
	}
	if _, err := LookupCapexScenario("castle"); err == nil {
		t.Errorf("expected error for unknown scenario")
	}
}

func TestParameterValueHelpers(t *testing.T) {
	params := DefaultParameters()

	name, value, err := ParameterValue(params, "TUITIONMONTHLY")
	if err != nil {
		t.Fatalf("ParameterValue() error = %v", err)
	}
	if name != "tuitionMonthly" || value != 2300 {
		t.Errorf("ParameterValue() = %s, %v", name, value)
	}

	updated, err := WithParameterValue(params, "flagshipStudents", 1200.6)
	if err != nil {
		t.Fatalf("WithParameterValue() error = %v", err)
	}
	if updated.FlagshipStudents != 1201 {
		t.Errorf("expected rounded flagship students 1201, got %d", updated.FlagshipStudents)
	}
	if params.FlagshipStudents != 1500 {
		t.Errorf("receiver mutated: %d", params.FlagshipStudents)
	}

	if _, err := WithParameterValue(params, "mood", 1); err == nil {
		t.Error("expected error for unknown parameter")
	}
	if !IsIntegerParameter("adoptionStudents") || IsIntegerParameter("churnRate") || IsIntegerParameter("mood") {
		t.Error("IsIntegerParameter misclassified a parameter")
	}
}

func TestSensitivityAtHorizon(t *testing.T) {
	engine := newTestEngine(t, DefaultParameters())

	points, err := engine.SensitivityAt(5, "tuitionMonthly", []float64{0})
	if err != nil {
		t.Fatalf("SensitivityAt() error = %v", err)
	}
	result, err := engine.Forecast(5)
	if err != nil {
		t.Fatalf("Forecast() error = %v", err)
	}
	if !reflect.DeepEqual(points[0].Summary, result.Summary) {
		t.Errorf("zero variation at horizon 5 does not reproduce the horizon 5 summary")
	}
	if points[0].Summary.FinalYear != 5 {
		t.Errorf("expected final year 5, got %d", points[0].Summary.FinalYear)
	}
}
