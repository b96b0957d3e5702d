package output

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/iwvelando/plan-forecast/internal/config"
	"github.com/iwvelando/plan-forecast/internal/forecast"
	"github.com/iwvelando/plan-forecast/pkg/format"
	"github.com/iwvelando/plan-forecast/pkg/optimization"
	"github.com/iwvelando/plan-forecast/pkg/testutil"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func testResults(t *testing.T, scenarios ...config.Scenario) []forecast.Forecast {
	t.Helper()
	conf := config.Configuration{
		Horizon:   10,
		Scenarios: scenarios,
		Sensitivity: []config.Sensitivity{
			{Parameter: "tuitionMonthly", Variations: []float64{-0.1, 0.1}},
		},
	}
	results, err := forecast.GetForecast(zap.NewNop(), conf)
	if err != nil {
		t.Fatalf("GetForecast() error = %v", err)
	}
	return results
}

func TestPrettyFormat(t *testing.T) {
	results := testResults(t, config.Scenario{Name: "Test Scenario", Active: true})

	// Capture stdout
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	PrettyFormat(results)

	_ = w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	output := buf.String()

	expected := []string{
		"--- Results for scenario Test Scenario ---",
		"Year | Students | Revenue",
		"8,280,000",
		"IRR:",
		"NPV @ 10.0%:",
		"Flagship breakeven: month 5 at 290 students",
		"Sensitivity of tuitionMonthly",
		"-10.0%",
	}
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("PrettyFormat output missing %q", want)
		}
	}
}

func TestWritePrettyMultipleScenarios(t *testing.T) {
	results := testResults(t,
		config.Scenario{Name: "Base", Active: true},
		config.Scenario{Name: "Lean", Active: true, Preset: "conservative"},
	)

	var buf bytes.Buffer
	if err := WritePretty(&buf, results); err != nil {
		t.Fatalf("WritePretty() error = %v", err)
	}
	output := buf.String()

	if strings.Count(output, "--- Results for scenario") != 2 {
		t.Errorf("expected two scenario blocks")
	}
	if strings.Index(output, "scenario Base") > strings.Index(output, "scenario Lean") {
		t.Errorf("scenarios out of order")
	}
}

func TestWriteCSV(t *testing.T) {
	results := testResults(t,
		config.Scenario{Name: "Base", Active: true},
		config.Scenario{Name: "Lean", Active: true, Preset: "conservative"},
	)

	var buf bytes.Buffer
	if err := WriteCSV(&buf, results); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(records) != 1+2*11 {
		t.Fatalf("expected 23 csv rows, got %d", len(records))
	}
	if !reflect.DeepEqual(records[0], csvHeader) {
		t.Errorf("unexpected header %v", records[0])
	}

	base := testutil.FindScenario(results, "Base")
	if base == nil {
		t.Fatalf("Base scenario missing")
	}
	if expected := format.Fixed(testutil.FindYear(base.Projection, 1).Revenue.Total, 2); records[2][7] != expected {
		t.Errorf("year 1 revenue cell = %s, expected %s", records[2][7], expected)
	}

	year1 := records[2]
	if year1[0] != "Base" || year1[1] != "1" || year1[2] != "300" || year1[7] != "8280000.00" {
		t.Errorf("unexpected year 1 row %v", year1)
	}
	if records[12][0] != "Lean" || records[12][1] != "0" {
		t.Errorf("expected Lean rows after Base, got %v", records[12])
	}
}

func TestSheetsSingleScenario(t *testing.T) {
	sheets := Sheets(testResults(t, config.Scenario{Name: "Base", Active: true}))

	var names []string
	for _, sheet := range sheets {
		names = append(names, sheet.Name)
	}
	expected := []string{"Summary", "Projection", "Revenue", "Costs", "Students", "Sensitivity tuitionMonthly"}
	if !reflect.DeepEqual(names, expected) {
		t.Fatalf("sheet names = %v, expected %v", names, expected)
	}

	summary := sheets[0]
	if !reflect.DeepEqual(summary.Headers, []string{"Metric", "Base"}) {
		t.Errorf("unexpected summary headers %v", summary.Headers)
	}

	revenue := sheets[2]
	if len(revenue.Headers) != 12 || revenue.Headers[1] != "Year 0" {
		t.Errorf("unexpected revenue headers %v", revenue.Headers)
	}
	if len(revenue.Rows) != 7 || revenue.Rows[6][0] != "Total" {
		t.Fatalf("unexpected revenue rows %v", revenue.Rows)
	}
	if revenue.Rows[0][2] != 300.0*2300*12 {
		t.Errorf("year 1 flagship tuition cell = %v", revenue.Rows[0][2])
	}

	costs := sheets[3]
	if len(costs.Rows) != 23 {
		t.Errorf("expected 22 categories plus total, got %d rows", len(costs.Rows))
	}
	for _, row := range costs.Rows {
		if len(row) != len(costs.Headers) {
			t.Errorf("row %v misaligned with headers", row[0])
		}
	}
}

func TestSheetsPrefixScenarioNames(t *testing.T) {
	sheets := Sheets(testResults(t,
		config.Scenario{Name: "Base", Active: true},
		config.Scenario{Name: "Lean", Active: true, Preset: "conservative"},
	))

	if len(sheets) != 1+2*5 {
		t.Fatalf("expected 11 sheets, got %d", len(sheets))
	}
	if sheets[1].Name != "Base Projection" || sheets[6].Name != "Lean Projection" {
		t.Errorf("unexpected sheet names %s, %s", sheets[1].Name, sheets[6].Name)
	}
}

func TestXlsxFormat(t *testing.T) {
	results := testResults(t, config.Scenario{Name: "A scenario with a rather long descriptive name", Active: true}, config.Scenario{Name: "Lean", Active: true})

	var buf bytes.Buffer
	if err := XlsxFormat(&buf, results); err != nil {
		t.Fatalf("XlsxFormat() error = %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer func() { _ = f.Close() }()

	list := f.GetSheetList()
	if len(list) != len(Sheets(results)) {
		t.Fatalf("expected one tab per sheet, got %v", list)
	}
	for _, name := range list {
		if len([]rune(name)) > 31 {
			t.Errorf("tab %q exceeds 31 characters", name)
		}
	}
}

func TestGoalSeekOutput(t *testing.T) {
	results := testResults(t, config.Scenario{Name: "Base", Active: true})
	results[0].Optimizations = []optimization.Summary{{
		Scenario:        "Base",
		Parameter:       "tuitionMonthly",
		Metric:          "irr",
		Target:          0.25,
		Original:        2300,
		Value:           1800,
		Achieved:        0.2501,
		Converged:       false,
		Notes:           []string{"unable to reach irr 25.0%"},
		OriginalDisplay: "$2,300.00",
		ValueDisplay:    "$1,800.00",
	}}

	var buf bytes.Buffer
	if err := WritePretty(&buf, results); err != nil {
		t.Fatalf("WritePretty() error = %v", err)
	}
	output := buf.String()
	for _, want := range []string{
		"Goal seek",
		"tuitionMonthly for irr target 0.2500: $1,800.00 (was $2,300.00), not solved",
		"note: unable to reach irr 25.0%",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("pretty output missing %q", want)
		}
	}

	sheets := Sheets(results)
	if sheets[1].Name != "Goal Seek" || len(sheets[1].Rows) != 1 {
		t.Fatalf("expected goal seek sheet after summary, got %s", sheets[1].Name)
	}
	row := sheets[1].Rows[0]
	if row[0] != "Base" || row[5] != 1800.0 || row[8] != false || row[9] != "unable to reach irr 25.0%" {
		t.Errorf("unexpected goal seek row %v", row)
	}
}
