package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/iwvelando/plan-forecast/internal/config"
	"github.com/iwvelando/plan-forecast/internal/forecast"
	"github.com/iwvelando/plan-forecast/internal/logging"
	"github.com/iwvelando/plan-forecast/internal/optimizer"
	"github.com/iwvelando/plan-forecast/pkg/constants"
	"github.com/iwvelando/plan-forecast/pkg/export"
	"github.com/iwvelando/plan-forecast/pkg/output"
	"github.com/iwvelando/plan-forecast/pkg/validation"
	"go.uber.org/zap"
)

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv, xlsx")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	envFile := flag.String("env-file", constants.DefaultEnvFile, "path to a .env file loaded before the configuration")
	exportDir := flag.String("export-dir", ".", "directory for xlsx workbooks")
	printConfig := flag.Bool("print-config", false, "print the effective configuration as YAML and exit")
	flag.Parse()

	// An explicitly named env file must exist; the default is optional.
	envRequired := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "env-file" {
			envRequired = true
		}
	})
	if err := config.LoadEnvFile(*envFile, envRequired); err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load env file %s\", \"error\": \"%v\"}\n", *envFile, err)
		os.Exit(1)
	}

	// Load the config file to get logging configuration
	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	if *printConfig {
		if err := conf.Encode(os.Stdout); err != nil {
			fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to encode configuration\", \"error\": \"%v\"}\n", err)
			os.Exit(1)
		}
		return
	}

	// Initialize logging based on config and CLI override
	logger, err := logging.New(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Determine output format (CLI override takes precedence over config)
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}

	err = validation.ValidateOutputFormat(outputFormat)
	if err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	// Validate configuration and display any warnings
	warnings := conf.ValidateConfiguration()
	for _, warning := range warnings {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	// Run the projection for every active scenario.
	results, err := forecast.GetForecast(logger, *conf)
	if err != nil {
		logger.Fatal("failed to compute forecast",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	// Solve goal-seek directives against the scenario parameters.
	if err := optimizer.Optimize(logger, conf, results); err != nil {
		logger.Fatal("failed to run optimizers",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	// Handle output.
	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyFormat(results)
	case constants.OutputFormatCSV:
		output.CsvFormat(results)
	case constants.OutputFormatXLSX:
		path, err := export.WriteFile(*exportDir, conf.Output.File, time.Now(), output.Sheets(results))
		if err != nil {
			logger.Fatal("failed to write workbook",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		logger.Info("wrote workbook",
			zap.String("op", "main"),
			zap.String("path", path),
		)
	}
}
