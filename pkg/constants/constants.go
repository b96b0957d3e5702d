// Package constants provides shared constants for the plan-forecast application.
package constants

// DateLayout is the ISO date format appended to exported file names.
const DateLayout = "2006-01-02"

// Calendar and projection constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DefaultHorizon is the number of operating years projected after year 0
	DefaultHorizon = 10

	// MaxYear bounds the years the engine accepts
	MaxYear = 50

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// BreakevenMonths is the length of the flagship monthly break-even simulation
	BreakevenMonths = 24
)

// Financial constants
const (
	// CorporateTaxRate models combined corporate income taxes
	CorporateTaxRate = 0.34

	// DefaultDiscountRate is the NPV discount rate when none is configured
	DefaultDiscountRate = 0.10

	// CostInflationRate compounds most operating cost categories annually
	CostInflationRate = 0.05

	// IRRLowerBound and IRRUpperBound bracket the IRR bisection search
	IRRLowerBound = -0.99
	IRRUpperBound = 1.0

	// IRRSeed is the first rate evaluated by the IRR search
	IRRSeed = 0.1

	// IRRMaxIterations caps the IRR bisection
	IRRMaxIterations = 100

	// IRRTolerance is an absolute, currency-denominated NPV tolerance
	IRRTolerance = 1000.0

	// MinimumPaybackYear is the earliest payback year ever reported
	MinimumPaybackYear = 2
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatXLSX writes a spreadsheet workbook
	OutputFormatXLSX = "xlsx"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultEnvFile is loaded before the configuration when present
	DefaultEnvFile = ".env"

	// EnvPrefix prefixes environment overrides, e.g. PLAN_FORECAST_HORIZON
	EnvPrefix = "PLAN_FORECAST"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// DefaultExportBaseName is the file name stem of exported workbooks
	DefaultExportBaseName = "financial-projection"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum request body size (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024
)

// Validation constants
const (
	// RelativeTolerance is used when comparing sums of large magnitudes
	RelativeTolerance = 1e-6

	// MaxSheetNameLength is the spreadsheet tab name limit
	MaxSheetNameLength = 31
)
