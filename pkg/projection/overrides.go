package projection

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/iwvelando/plan-forecast/pkg/constants"
	"github.com/iwvelando/plan-forecast/pkg/mathutil"
)

// ParseOverrides converts a loosely typed yearly override mapping, as found in
// decoded YAML or JSON, into typed overrides. Years that do not parse, years
// outside [0, constants.MaxYear], and field values that are not finite
// non-negative numbers are treated as absent rather than reported.
func ParseOverrides(raw interface{}) map[int]YearOverride {
	result := make(map[int]YearOverride)

	switch typed := raw.(type) {
	case nil:
		return result
	case map[int]YearOverride:
		for year, o := range typed {
			if !validYear(year) {
				continue
			}
			if cleaned := o.sanitized(); !cleaned.Empty() {
				result[year] = cleaned
			}
		}
		return result
	case map[string]interface{}:
		for key, value := range typed {
			addOverride(result, key, value)
		}
	case map[interface{}]interface{}:
		for key, value := range typed {
			addOverride(result, fmt.Sprint(key), value)
		}
	case map[int]interface{}:
		for key, value := range typed {
			addOverride(result, strconv.Itoa(key), value)
		}
	}
	return result
}

func addOverride(result map[int]YearOverride, key string, value interface{}) {
	year, err := strconv.Atoi(strings.TrimSpace(key))
	if err != nil || !validYear(year) {
		return
	}
	fields := toStringMap(value)
	if fields == nil {
		return
	}
	o := parseOverrideFields(fields)
	if !o.Empty() {
		result[year] = o
	}
}

// sanitized returns a copy with negative or non-finite fields cleared.
func (o YearOverride) sanitized() YearOverride {
	c := o.clone()
	for _, field := range []**int{&c.FlagshipStudents, &c.FranchiseStudents, &c.AdoptionStudents, &c.FranchiseCount, &c.StudentsPerFranchise} {
		if *field != nil && **field < 0 {
			*field = nil
		}
	}
	for _, field := range []**float64{&c.TuitionMonthly, &c.AdoptionFeeMonthly, &c.KitCostAnnual, &c.Capex} {
		if *field != nil && (!mathutil.IsFinite(**field) || **field < 0) {
			*field = nil
		}
	}
	return c
}

func validYear(year int) bool {
	return year >= 0 && year <= constants.MaxYear
}

func toStringMap(value interface{}) map[string]interface{} {
	switch typed := value.(type) {
	case map[string]interface{}:
		return typed
	case map[interface{}]interface{}:
		converted := make(map[string]interface{}, len(typed))
		for k, v := range typed {
			converted[fmt.Sprint(k)] = v
		}
		return converted
	}
	return nil
}

func parseOverrideFields(fields map[string]interface{}) YearOverride {
	var o YearOverride
	for key, value := range fields {
		number, ok := coerceNumber(value)
		if !ok {
			continue
		}
		switch strings.ToLower(key) {
		case "flagshipstudents":
			o.FlagshipStudents = IntPtr(int(math.Round(number)))
		case "franchisestudents":
			o.FranchiseStudents = IntPtr(int(math.Round(number)))
		case "adoptionstudents":
			o.AdoptionStudents = IntPtr(int(math.Round(number)))
		case "franchisecount":
			o.FranchiseCount = IntPtr(int(math.Round(number)))
		case "studentsperfranchise":
			o.StudentsPerFranchise = IntPtr(int(math.Round(number)))
		case "tuitionmonthly", "tuition":
			o.TuitionMonthly = FloatPtr(number)
		case "adoptionfeemonthly", "adoptionfee":
			o.AdoptionFeeMonthly = FloatPtr(number)
		case "kitcostannual", "kitcost":
			o.KitCostAnnual = FloatPtr(number)
		case "capex":
			o.Capex = FloatPtr(number)
		}
	}
	return o
}

// coerceNumber accepts the numeric shapes produced by YAML and JSON decoders
// plus numeric strings. Anything else, and negative or non-finite values, is
// rejected.
func coerceNumber(value interface{}) (float64, bool) {
	var number float64
	switch v := value.(type) {
	case float64:
		number = v
	case float32:
		number = float64(v)
	case int:
		number = float64(v)
	case int64:
		number = float64(v)
	case int32:
		number = float64(v)
	case uint64:
		number = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		number = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		number = parsed
	default:
		return 0, false
	}
	if !mathutil.IsFinite(number) || number < 0 {
		return 0, false
	}
	return number, true
}
