// Package output provides utilities for formatting and displaying forecast results.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/iwvelando/plan-forecast/internal/forecast"
	"github.com/iwvelando/plan-forecast/pkg/format"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(results []forecast.Forecast) {
	_ = WritePretty(os.Stdout, results)
}

// WritePretty writes one table and summary block per scenario to w.
func WritePretty(w io.Writer, results []forecast.Forecast) error {
	p := message.NewPrinter(language.English)
	for i, result := range results {
		if _, err := fmt.Fprintf(w, "--- Results for scenario %s ---\n", result.Name); err != nil {
			return err
		}
		fmt.Fprintf(w, "Year | Students | Revenue         | Costs           | EBITDA          | Margin | Capex           | Free Cash Flow\n")
		fmt.Fprintf(w, "____ | ________ | _______________ | _______________ | _______________ | ______ | _______________ | _______________\n")
		for _, record := range result.Projection {
			_, _ = p.Fprintf(w, "%4d | %8d | $%14.0f | $%14.0f | $%14.0f | %6s | $%14.0f | $%14.0f\n",
				record.Year,
				record.Students.Total,
				record.Revenue.Total,
				record.Costs.Total,
				record.EBITDA,
				format.Percent(record.EBITDAMargin),
				record.Capex,
				record.FreeCashFlow,
			)
		}

		s := result.Summary
		fmt.Fprintf(w, "\n")
		irr := format.Percent(s.IRR)
		if !s.IRRConverged {
			irr += " (not converged)"
		}
		fmt.Fprintf(w, "IRR:                %s\n", irr)
		fmt.Fprintf(w, "NPV @ %s:        %s\n", format.Percent(s.DiscountRate), format.Currency(s.NPV))
		fmt.Fprintf(w, "Payback period:     year %d\n", s.PaybackPeriod)
		fmt.Fprintf(w, "Equity investment:  %s\n", format.Currency(s.EquityInvestment))
		fmt.Fprintf(w, "Cumulative revenue: %s\n", format.Currency(s.CumulativeRevenue))
		fmt.Fprintf(w, "Cumulative EBITDA:  %s\n", format.Currency(s.CumulativeEBITDA))
		fmt.Fprintf(w, "Cumulative FCF:     %s\n", format.Currency(s.CumulativeFCF))
		if s.Breakeven.Reached {
			fmt.Fprintf(w, "Flagship breakeven: month %d at %d students\n", s.Breakeven.Month, s.Breakeven.Students)
		} else {
			fmt.Fprintf(w, "Flagship breakeven: not reached\n")
		}

		if len(result.Optimizations) > 0 {
			fmt.Fprintf(w, "\nGoal seek\n")
			for _, o := range result.Optimizations {
				status := "solved"
				if !o.Converged {
					status = "not solved"
				}
				fmt.Fprintf(w, "%s for %s target %s: %s (was %s), %s, achieved %s\n",
					o.Parameter, o.Metric, format.Fixed(o.Target, 4), o.ValueDisplay, o.OriginalDisplay, status, format.Fixed(o.Achieved, 4))
				for _, note := range o.Notes {
					fmt.Fprintf(w, "  note: %s\n", note)
				}
			}
		}

		for _, sweep := range result.Sensitivity {
			fmt.Fprintf(w, "\nSensitivity of %s\n", sweep.Parameter)
			fmt.Fprintf(w, "Variation | Value            | NPV               | IRR\n")
			fmt.Fprintf(w, "_________ | ________________ | _________________ | ______\n")
			for _, point := range sweep.Points {
				_, _ = p.Fprintf(w, "%9s | %16.4f | %17s | %s\n",
					format.Percent(point.Variation),
					point.Value,
					format.Currency(point.Summary.NPV),
					format.Percent(point.Summary.IRR),
				)
			}
		}

		if i < len(results)-1 {
			fmt.Fprintf(w, "\n")
		}
	}
	return nil
}

var csvHeader = []string{
	"scenario", "year",
	"flagship students", "franchise students", "adoption students", "total students", "franchises",
	"revenue", "costs", "ebitda", "ebitda margin", "capex", "taxes", "net income", "free cash flow",
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(results []forecast.Forecast) {
	_ = WriteCSV(os.Stdout, results)
}

// WriteCSV writes one row per scenario and year to w.
func WriteCSV(w io.Writer, results []forecast.Forecast) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, result := range results {
		for _, record := range result.Projection {
			row := []string{
				result.Name,
				strconv.Itoa(record.Year),
				strconv.Itoa(record.Students.Flagship),
				strconv.Itoa(record.Students.Franchise),
				strconv.Itoa(record.Students.Adoption),
				strconv.Itoa(record.Students.Total),
				strconv.Itoa(record.Students.FranchiseCount),
				format.Fixed(record.Revenue.Total, 2),
				format.Fixed(record.Costs.Total, 2),
				format.Fixed(record.EBITDA, 2),
				format.Fixed(record.EBITDAMargin, 4),
				format.Fixed(record.Capex, 2),
				format.Fixed(record.Taxes, 2),
				format.Fixed(record.NetIncome, 2),
				format.Fixed(record.FreeCashFlow, 2),
			}
			if err := writer.Write(row); err != nil {
				return err
			}
		}
	}
	writer.Flush()
	return writer.Error()
}
