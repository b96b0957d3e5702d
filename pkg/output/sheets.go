package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/plan-forecast/internal/forecast"
	"github.com/iwvelando/plan-forecast/pkg/export"
	"github.com/iwvelando/plan-forecast/pkg/projection"
)

// Sheets flattens forecast results into workbook sheets: a cross-scenario
// summary, the goal-seek results when there are any, then per scenario a projection, revenue, cost and student sheet
// and one sheet per sensitivity sweep.
func Sheets(results []forecast.Forecast) []export.Sheet {
	sheets := []export.Sheet{summarySheet(results)}
	if goalSeek, ok := goalSeekSheet(results); ok {
		sheets = append(sheets, goalSeek)
	}
	for _, result := range results {
		prefix := result.Name
		if len(results) == 1 {
			prefix = ""
		}
		sheets = append(sheets,
			projectionSheet(sheetName(prefix, "Projection"), result.Projection),
			categorySheet(sheetName(prefix, "Revenue"), result.Projection, func(r projection.YearRecord) []projection.Category {
				return append(r.Revenue.Categories(), projection.Category{Name: "Total", Amount: r.Revenue.Total})
			}),
			categorySheet(sheetName(prefix, "Costs"), result.Projection, func(r projection.YearRecord) []projection.Category {
				return append(r.Costs.Categories(), projection.Category{Name: "Total", Amount: r.Costs.Total})
			}),
			studentSheet(sheetName(prefix, "Students"), result.Projection),
		)
		for _, sweep := range result.Sensitivity {
			sheets = append(sheets, sensitivitySheet(sheetName(prefix, "Sensitivity "+sweep.Parameter), sweep))
		}
	}
	return sheets
}

// XlsxFormat writes the results as an xlsx workbook.
func XlsxFormat(w io.Writer, results []forecast.Forecast) error {
	return export.WriteWorkbook(w, Sheets(results))
}

func sheetName(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + " " + name
}

func summarySheet(results []forecast.Forecast) export.Sheet {
	headers := []string{"Metric"}
	for _, result := range results {
		headers = append(headers, result.Name)
	}

	metrics := []struct {
		name  string
		value func(projection.Summary) interface{}
	}{
		{"IRR", func(s projection.Summary) interface{} { return s.IRR }},
		{"IRR Converged", func(s projection.Summary) interface{} { return s.IRRConverged }},
		{"NPV", func(s projection.Summary) interface{} { return s.NPV }},
		{"Discount Rate", func(s projection.Summary) interface{} { return s.DiscountRate }},
		{"Payback Period", func(s projection.Summary) interface{} { return s.PaybackPeriod }},
		{"Equity Investment", func(s projection.Summary) interface{} { return s.EquityInvestment }},
		{"Total Capex", func(s projection.Summary) interface{} { return s.TotalCapex }},
		{"Cumulative Revenue", func(s projection.Summary) interface{} { return s.CumulativeRevenue }},
		{"Cumulative EBITDA", func(s projection.Summary) interface{} { return s.CumulativeEBITDA }},
		{"Cumulative FCF", func(s projection.Summary) interface{} { return s.CumulativeFCF }},
		{"Final Year", func(s projection.Summary) interface{} { return s.FinalYear }},
		{"Final Year Revenue", func(s projection.Summary) interface{} { return s.FinalYearRevenue }},
		{"Final Year EBITDA Margin", func(s projection.Summary) interface{} { return s.FinalYearEBITDAMargin }},
		{"Final Year Students", func(s projection.Summary) interface{} { return s.FinalYearStudents }},
		{"Flagship Breakeven Month", func(s projection.Summary) interface{} {
			if !s.Breakeven.Reached {
				return "not reached"
			}
			return s.Breakeven.Month
		}},
	}

	rows := make([][]interface{}, 0, len(metrics))
	for _, metric := range metrics {
		row := []interface{}{metric.name}
		for _, result := range results {
			row = append(row, metric.value(result.Summary))
		}
		rows = append(rows, row)
	}
	return export.Sheet{Name: "Summary", Headers: headers, Rows: rows}
}

func projectionSheet(name string, series projection.Series) export.Sheet {
	sheet := export.Sheet{
		Name: name,
		Headers: []string{
			"Year", "Students", "Revenue", "Costs", "EBITDA", "EBITDA Margin",
			"Capex", "Taxes", "Net Income", "Free Cash Flow",
		},
	}
	for _, r := range series {
		sheet.Rows = append(sheet.Rows, []interface{}{
			r.Year, r.Students.Total, r.Revenue.Total, r.Costs.Total, r.EBITDA, r.EBITDAMargin,
			r.Capex, r.Taxes, r.NetIncome, r.FreeCashFlow,
		})
	}
	return sheet
}

// categorySheet lays categories out as rows and years as columns.
func categorySheet(name string, series projection.Series, categories func(projection.YearRecord) []projection.Category) export.Sheet {
	sheet := export.Sheet{Name: name, Headers: []string{"Category"}}
	if len(series) == 0 {
		return sheet
	}
	for _, r := range series {
		sheet.Headers = append(sheet.Headers, fmt.Sprintf("Year %d", r.Year))
	}

	template := categories(series[0])
	sheet.Rows = make([][]interface{}, len(template))
	for i, category := range template {
		sheet.Rows[i] = []interface{}{category.Name}
	}
	for _, r := range series {
		for i, category := range categories(r) {
			sheet.Rows[i] = append(sheet.Rows[i], category.Amount)
		}
	}
	return sheet
}

func studentSheet(name string, series projection.Series) export.Sheet {
	sheet := export.Sheet{
		Name: name,
		Headers: []string{
			"Year", "Flagship", "Franchise", "Adoption", "Total", "Franchises",
			"Tuition (monthly)", "Adoption Fee (monthly)", "Kit Cost (annual)",
		},
	}
	for _, r := range series {
		sheet.Rows = append(sheet.Rows, []interface{}{
			r.Year, r.Students.Flagship, r.Students.Franchise, r.Students.Adoption, r.Students.Total,
			r.Students.FranchiseCount, r.Pricing.TuitionMonthly, r.Pricing.AdoptionFeeMonthly, r.Pricing.KitCostAnnual,
		})
	}
	return sheet
}

func sensitivitySheet(name string, sweep forecast.Sweep) export.Sheet {
	sheet := export.Sheet{
		Name:    name,
		Headers: []string{"Variation", "Value", "IRR", "NPV", "Payback Period", "Cumulative FCF"},
	}
	for _, point := range sweep.Points {
		sheet.Rows = append(sheet.Rows, []interface{}{
			point.Variation, point.Value, point.Summary.IRR, point.Summary.NPV,
			point.Summary.PaybackPeriod, point.Summary.CumulativeFCF,
		})
	}
	return sheet
}

func goalSeekSheet(results []forecast.Forecast) (export.Sheet, bool) {
	sheet := export.Sheet{
		Name: "Goal Seek",
		Headers: []string{
			"Scenario", "Parameter", "Metric", "Target", "Original", "Value",
			"Achieved", "Iterations", "Converged", "Notes",
		},
	}
	for _, result := range results {
		for _, o := range result.Optimizations {
			sheet.Rows = append(sheet.Rows, []interface{}{
				result.Name, o.Parameter, o.Metric, o.Target, o.Original, o.Value,
				o.Achieved, o.Iterations, o.Converged, strings.Join(o.Notes, "; "),
			})
		}
	}
	return sheet, len(sheet.Rows) > 0
}
