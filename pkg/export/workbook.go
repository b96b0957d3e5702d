// Package export writes projection sheets as spreadsheet workbooks.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/iwvelando/plan-forecast/pkg/constants"
	"github.com/xuri/excelize/v2"
)

const (
	defaultSheetName = "Sheet1"
	minColumnWidth   = 8
	maxColumnWidth   = 60

	// Built-in spreadsheet number format "#,##0.00".
	amountNumFmt = 4
)

// Sheet is a named table of flat rows. Each row is aligned with Headers.
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]interface{}
}

// FileName builds "<base>_<YYYY-MM-DD>.xlsx".
func FileName(base string, now time.Time) string {
	base = strings.TrimSpace(base)
	if base == "" {
		base = constants.DefaultExportBaseName
	}
	return fmt.Sprintf("%s_%s.xlsx", base, now.Format(constants.DateLayout))
}

// SanitizeSheetName replaces characters spreadsheets reject in tab names and
// truncates the result to the maximum tab name length.
func SanitizeSheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	name = strings.Trim(name, "'")
	if name == "" {
		name = "Sheet"
	}
	return truncate(name, constants.MaxSheetNameLength)
}

func truncate(name string, limit int) string {
	if utf8.RuneCountInString(name) <= limit {
		return name
	}
	return string([]rune(name)[:limit])
}

// uniqueSheetNames sanitizes every name and disambiguates collisions, which
// spreadsheets compare case-insensitively, with a numeric suffix.
func uniqueSheetNames(sheets []Sheet) []string {
	used := make(map[string]bool, len(sheets))
	names := make([]string, len(sheets))
	for i, sheet := range sheets {
		base := SanitizeSheetName(sheet.Name)
		name := base
		for n := 2; used[strings.ToLower(name)]; n++ {
			suffix := fmt.Sprintf(" (%d)", n)
			name = truncate(base, constants.MaxSheetNameLength-utf8.RuneCountInString(suffix)) + suffix
		}
		used[strings.ToLower(name)] = true
		names[i] = name
	}
	return names
}

// WriteWorkbook serializes sheets as an xlsx workbook, one tab per sheet in
// order. Headers are bold, amounts use a grouped two-decimal format, and
// column widths follow the longest rendered cell.
func WriteWorkbook(w io.Writer, sheets []Sheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("no sheets to export")
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	amountStyle, err := f.NewStyle(&excelize.Style{NumFmt: amountNumFmt})
	if err != nil {
		return fmt.Errorf("failed to create amount style: %w", err)
	}

	names := uniqueSheetNames(sheets)
	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName(defaultSheetName, names[i]); err != nil {
				return fmt.Errorf("failed to name sheet %s: %w", names[i], err)
			}
		} else if _, err := f.NewSheet(names[i]); err != nil {
			return fmt.Errorf("failed to add sheet %s: %w", names[i], err)
		}
		if err := writeSheet(f, names[i], sheet, headerStyle, amountStyle); err != nil {
			return fmt.Errorf("failed to write sheet %s: %w", names[i], err)
		}
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, name string, sheet Sheet, headerStyle, amountStyle int) error {
	widths := make([]int, len(sheet.Headers))
	for col, header := range sheet.Headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(name, cell, header); err != nil {
			return err
		}
		if err := f.SetCellStyle(name, cell, cell, headerStyle); err != nil {
			return err
		}
		widths[col] = utf8.RuneCountInString(header)
	}

	for r, row := range sheet.Rows {
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(name, cell, value); err != nil {
				return err
			}
			if _, ok := value.(float64); ok {
				if err := f.SetCellStyle(name, cell, cell, amountStyle); err != nil {
					return err
				}
			}
			if col >= len(widths) {
				widths = append(widths, make([]int, col+1-len(widths))...)
			}
			if n := utf8.RuneCountInString(display(value)); n > widths[col] {
				widths[col] = n
			}
		}
	}

	for col, width := range widths {
		column, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(name, column, column, columnWidth(width)); err != nil {
			return err
		}
	}
	return nil
}

// display approximates how a cell renders, for column sizing.
func display(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case float64:
		// Grouping separators add roughly one character per three digits.
		s := fmt.Sprintf("%.2f", v)
		return s + strings.Repeat(" ", len(s)/4)
	default:
		return fmt.Sprint(v)
	}
}

func columnWidth(chars int) float64 {
	width := chars + 2
	if width < minColumnWidth {
		width = minColumnWidth
	}
	if width > maxColumnWidth {
		width = maxColumnWidth
	}
	return float64(width)
}

// WriteFile writes the workbook to dir under FileName(base, now) and returns
// the path written.
func WriteFile(dir, base string, now time.Time, sheets []Sheet) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, FileName(base, now))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := WriteWorkbook(file, sheets); err != nil {
		_ = file.Close()
		_ = os.Remove(path)
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}
	return path, nil
}
