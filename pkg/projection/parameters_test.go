package projection

import (
	"encoding/json"
	"math"
	"reflect"
	"testing"
)

func TestMergeDoesNotMutateReceiver(t *testing.T) {
	base := DefaultParameters().WithOverride(2, YearOverride{AdoptionStudents: IntPtr(500)})
	snapshot := base.Clone()

	merged, err := base.Merge(map[string]interface{}{
		"tuitionMonthly": 2500,
		"capexScenario":  "lease",
		"yearlyOverrides": map[string]interface{}{
			"2": map[string]interface{}{"adoptionStudents": 900},
			"5": map[string]interface{}{"flagshipStudents": 999},
		},
	})
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}

	if !reflect.DeepEqual(base, snapshot) {
		t.Errorf("Merge mutated the receiver: %+v", base)
	}
	if merged.TuitionMonthly != 2500 || merged.CapexScenario != "lease" {
		t.Errorf("patch not applied: tuition=%v capex=%s", merged.TuitionMonthly, merged.CapexScenario)
	}
	if o, _ := merged.Override(2); o.AdoptionStudents == nil || *o.AdoptionStudents != 900 {
		t.Errorf("year 2 override not replaced: %+v", o)
	}
	if o, _ := merged.Override(5); o.FlagshipStudents == nil || *o.FlagshipStudents != 999 {
		t.Errorf("year 5 override not added: %+v", o)
	}
	if o, _ := base.Override(2); *o.AdoptionStudents != 500 {
		t.Errorf("base override changed to %d", *o.AdoptionStudents)
	}
}

func TestMergeIgnoresMalformedOverrides(t *testing.T) {
	merged, err := DefaultParameters().Merge(map[string]interface{}{
		"YearlyOverrides": map[string]interface{}{
			"5": map[string]interface{}{
				"flagshipStudents": 999,
				"tuitionMonthly":   "abc",
				"capex":            -10,
				"kitCost":          math.NaN(),
			},
			"3":     "bad",
			"x":     map[string]interface{}{"flagshipStudents": 10},
			"99":    map[string]interface{}{"flagshipStudents": 10},
			"7":     map[string]interface{}{"unknown": 10},
			"8":     map[interface{}]interface{}{"tuition": "3100"},
			" 9 ":   map[string]interface{}{"capex": json.Number("42")},
			"-1":    map[string]interface{}{"capex": 1},
			"10.5":  map[string]interface{}{"capex": 1},
			"empty": nil,
		},
	})
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}

	if got := merged.OverrideYears(); !reflect.DeepEqual(got, []int{5, 8, 9}) {
		t.Fatalf("override years = %v, expected [5 8 9]", got)
	}
	o, _ := merged.Override(5)
	if *o.FlagshipStudents != 999 || o.TuitionMonthly != nil || o.Capex != nil || o.KitCostAnnual != nil {
		t.Errorf("year 5 override = %+v, expected only flagship students", o)
	}
	if o, _ := merged.Override(8); o.TuitionMonthly == nil || *o.TuitionMonthly != 3100 {
		t.Errorf("year 8 tuition alias not parsed: %+v", o)
	}
	if o, _ := merged.Override(9); o.Capex == nil || *o.Capex != 42 {
		t.Errorf("year 9 capex not parsed: %+v", o)
	}
}

func TestMergeErrors(t *testing.T) {
	tests := []struct {
		name  string
		patch map[string]interface{}
	}{
		{"Unknown key", map[string]interface{}{"tuitionYearly": 1}},
		{"Wrong type", map[string]interface{}{"flagshipStudents": "many"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := DefaultParameters()
			got, err := base.Merge(tt.patch)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !reflect.DeepEqual(got, base) {
				t.Errorf("expected the receiver on error, got %+v", got)
			}
		})
	}
}

func TestMergeWeakTyping(t *testing.T) {
	merged, err := DefaultParameters().Merge(map[string]interface{}{
		"flagshipstudents": "1600",
		"churnRate":        "0.07",
		"franchiseCount":   40.0,
	})
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if merged.FlagshipStudents != 1600 || merged.ChurnRate != 0.07 || merged.FranchiseCount != 40 {
		t.Errorf("weakly typed patch not applied: %+v", merged)
	}
}

func TestParseOverridesTypedInputs(t *testing.T) {
	typed := map[int]YearOverride{
		3:  {Capex: FloatPtr(1)},
		4:  {},
		60: {Capex: FloatPtr(1)},
	}
	got := ParseOverrides(typed)
	if len(got) != 1 {
		t.Fatalf("expected only year 3, got %v", got)
	}
	*typed[3].Capex = 2
	if *got[3].Capex != 1 {
		t.Errorf("ParseOverrides shares pointers with its input")
	}

	fromInts := ParseOverrides(map[int]interface{}{4: map[string]interface{}{"studentsPerFranchise": 250.4}})
	if o := fromInts[4]; o.StudentsPerFranchise == nil || *o.StudentsPerFranchise != 250 {
		t.Errorf("int-keyed overrides not parsed: %+v", o)
	}

	if got := ParseOverrides([]int{1, 2}); len(got) != 0 {
		t.Errorf("expected unsupported input to yield no overrides, got %v", got)
	}
}

func TestWithOverrideEmptyRemovesYear(t *testing.T) {
	params := DefaultParameters().WithOverride(4, YearOverride{Capex: FloatPtr(7)})
	cleared := params.WithOverride(4, YearOverride{})

	if _, ok := cleared.Override(4); ok {
		t.Errorf("empty override did not remove year 4")
	}
	if _, ok := params.Override(4); !ok {
		t.Errorf("clearing mutated the original parameters")
	}
}

func TestParametersJSONRoundTripKeepsOverrides(t *testing.T) {
	params := DefaultParameters().WithOverride(5, YearOverride{FlagshipStudents: IntPtr(999)})
	data, err := json.Marshal(params)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded Parameters
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !reflect.DeepEqual(decoded, params) {
		t.Errorf("decoded parameters differ: %+v", decoded)
	}
}
