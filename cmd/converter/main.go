package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/trace"

	"twxcli/internal/batch"
	"twxcli/internal/config"
	"twxcli/internal/exporter"
	"twxcli/internal/infrastructure"
	"twxcli/internal/validation"
	"twxcli/pkg/contracts/domain"
)

// runReportName is the rolling per-run report under the reports directory.
const runReportName = "conversion_report.csv"

func main() {
	inDir := flag.String("in", "", "input directory with wide-format .xlsx exports (defaults to data/exports relative to executable)")
	outDir := flag.String("out", "", "output directory for long-format files (defaults to data/reports relative to executable)")
	format := flag.String("format", "", "output format: csv, json or parquet (defaults to config value)")
	configPath := flag.String("config", "", "path to config.yaml (defaults to discovery)")
	flag.Parse()

	// Initialize paths first to get default directories
	paths, err := config.GetPaths()
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
		cfg.Logging.FilePath = paths.GetLogPath("convert.log")
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	// Flags beat config values beat executable-relative defaults.
	inputDir := firstNonEmpty(*inDir, cfg.Output.InputDir, paths.ExportsDir)
	outputDir := firstNonEmpty(*outDir, cfg.Output.OutputDir, paths.ReportsDir)
	outputFormat := firstNonEmpty(*format, cfg.Output.Format)

	if err := paths.EnsureDirectories(); err != nil {
		logger.Error("Failed to create required directories", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Starting batch conversion of wide-format exports",
		slog.String("input_dir", inputDir),
		slog.String("output_dir", outputDir),
		slog.String("format", outputFormat),
		slog.String("executable_dir", paths.ExecutableDir))

	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateInputDirectory(inputDir, "*.xlsx"); err != nil {
		logger.Error("Input directory validation failed", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if err := validator.ValidateOutputDirectory(outputDir); err != nil {
		logger.Error("Output directory validation failed", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	providers, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFromTelemetry(cfg.Telemetry), logger)
	if err != nil {
		logger.Warn("Failed to initialize telemetry, continuing without it", slog.String("error", err.Error()))
		providers = nil
	}
	defer shutdownTelemetry(providers, logger)

	var metrics *infrastructure.PipelineMetrics
	var runtimeMetrics *infrastructure.RuntimeMetrics
	var tracer trace.Tracer
	if providers != nil && providers.Meter != nil {
		metrics, err = infrastructure.CreatePipelineMetrics(providers.Meter)
		if err != nil {
			logger.Warn("Failed to create metric instruments", slog.String("error", err.Error()))
		}
		runtimeMetrics, err = infrastructure.NewRuntimeMetrics(providers.Meter)
		if err != nil {
			logger.Warn("Failed to create runtime metric instruments", slog.String("error", err.Error()))
		}
	}
	if providers != nil {
		tracer = providers.Tracer
	}

	csvWriter := exporter.NewCSVWriter(paths)
	sink := exporter.NewSink(outputFormat, csvWriter)
	if sink == nil {
		logger.Error("Unsupported output format", slog.String("format", outputFormat))
		fmt.Fprintf(os.Stderr, "error: unsupported output format %q (use: csv, json, parquet)\n", outputFormat)
		os.Exit(1)
	}

	ctx := infrastructure.WithRunID(context.Background(), infrastructure.GenerateRunID())
	started := time.Now()

	driver := batch.NewDriver(logger, batch.DriverConfig{
		InputDir:   inputDir,
		OutputDir:  outputDir,
		Sink:       sink,
		Metrics:    metrics,
		Tracer:     tracer,
		SampleRows: cfg.Output.SampleRows,
	})

	summary, err := driver.Run(ctx, batch.DefaultTargets())
	if err != nil {
		logger.Error("Batch conversion aborted", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	runtimeMetrics.RecordSnapshot(ctx, started)

	if err := writeRunReport(csvWriter, paths, summary); err != nil {
		logger.Warn("Failed to write conversion report", slog.String("error", err.Error()))
	}

	// Missing or broken workbooks are reported in the summary; the run
	// itself still succeeds so the remaining outputs stay usable.
	logger.Info("Conversion run finished",
		slog.String("run_id", summary.RunID),
		slog.Int("successful", summary.Successful),
		slog.Int("total", summary.Total),
		slog.Int("total_rows", summary.TotalRows))
}

// writeRunReport appends one row per target to the conversion report so
// successive runs can be compared. The header and the Excel BOM are only
// written when the report is created.
func writeRunReport(csvWriter *exporter.CSVWriter, paths *config.Paths, summary *domain.BatchSummary) error {
	records := reportRecords(summary)
	if config.FileExists(paths.GetReportPath(runReportName)) {
		return csvWriter.AppendToCSV("reports/"+runReportName, records)
	}
	return csvWriter.WriteCSV("reports/"+runReportName, exporter.WriteOptions{
		Headers:   []string{"run_id", "started_at", "file", "output", "rows", "success", "error", "duration_ms"},
		Records:   records,
		BOMPrefix: true,
	})
}

// reportRecords flattens a batch summary into one record per target.
func reportRecords(summary *domain.BatchSummary) [][]string {
	startedAt := summary.StartedAt.Format(time.RFC3339)
	records := make([][]string, 0, len(summary.Results))
	for _, result := range summary.Results {
		records = append(records, []string{
			summary.RunID,
			startedAt,
			result.SourceFile,
			result.OutputFile,
			strconv.Itoa(result.RowCount),
			strconv.FormatBool(result.Success),
			result.Error,
			strconv.FormatInt(result.Duration.Milliseconds(), 10),
		})
	}
	return records
}

// firstNonEmpty returns the first non-empty string
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func shutdownTelemetry(providers *infrastructure.OTelProviders, logger *slog.Logger) {
	if providers == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := providers.Shutdown(ctx); err != nil {
		logger.Warn("Telemetry shutdown failed", slog.String("error", err.Error()))
	}
}
