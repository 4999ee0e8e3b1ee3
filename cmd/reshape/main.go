package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"twxcli/internal/config"
	"twxcli/internal/exporter"
	"twxcli/internal/infrastructure"
	"twxcli/internal/reader"
	"twxcli/internal/reshape"
	"twxcli/internal/stats"
	"twxcli/internal/validation"
)

func main() {
	in := flag.String("in", "", "input workbook (defaults to data/exports/stock price.xlsx relative to executable)")
	out := flag.String("out", "", "output file path (defaults to data/reports/taiwan_stocks_long_format.csv)")
	label := flag.String("label", "Price", "name for the value column in the output")
	coercion := flag.String("coercion", string(reshape.CoercionNone), "numeric coercion mode: thresholded, unconditional or none")
	header := flag.String("header", string(reshape.HeaderPositional), "header strategy: positional or offset_corrected")
	format := flag.String("format", "csv", "output format: csv, json or parquet")
	sample := flag.Int("sample", 10, "sample rows to print after conversion")
	analyze := flag.Bool("analyze", true, "print a quick analysis of the converted file")
	configPath := flag.String("config", "", "path to config.yaml (defaults to discovery)")
	flag.Parse()

	// Initialize paths first to get default locations
	paths, err := config.GetPaths()
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
		cfg.Logging.FilePath = paths.GetLogPath("reshape.log")
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	sink := exporter.NewSink(*format, exporter.NewCSVWriter(paths))
	if sink == nil {
		logger.Error("Unsupported output format", slog.String("format", *format))
		fmt.Fprintf(os.Stderr, "error: unsupported output format %q (use: csv, json, parquet)\n", *format)
		os.Exit(1)
	}

	// Use centralized locations as defaults if not specified
	if *in == "" {
		*in = paths.GetExportPath("stock price.xlsx")
	}
	if *out == "" {
		*out = paths.GetReportPath("taiwan_stocks" + config.OutputFileTail + "." + sink.Extension())
	}

	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	logger.Info("Starting single workbook conversion",
		slog.String("input", *in),
		slog.String("output", *out),
		slog.String("value_label", *label),
		slog.String("coercion", *coercion),
		slog.String("header", *header),
		slog.String("executable_dir", paths.ExecutableDir))

	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateWorkbook(*in); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	ctx := infrastructure.WithRunID(context.Background(), infrastructure.GenerateRunID())

	pipelineCfg := reshape.DefaultPipelineConfig()
	pipelineCfg.ValueLabel = *label
	pipelineCfg.Coercion = reshape.CoercionMode(*coercion)
	pipelineCfg.Header = reshape.HeaderStrategy(*header)

	pipe, err := reshape.NewPipeline(logger, pipelineCfg)
	if err != nil {
		logger.Error("Invalid pipeline configuration", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Reading %s...\n", *in)
	grid, err := reader.NewReader(logger).ReadGrid(ctx, *in)
	if err != nil {
		logger.Error("Failed to read workbook", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Converting to long format...")
	res, err := pipe.Run(ctx, grid)
	if err != nil {
		logger.Error("Conversion failed", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("   found %d rows x %d stocks\n", res.Stats.RowsIn, res.Stats.ValueColumns)
	fmt.Printf("   removed %d empty/invalid rows\n", res.Stats.RecordsUnpivoted-res.Stats.RowsOut)
	fmt.Printf("   conversion complete: %d data points\n", res.Stats.RowsOut)

	if err := sink.Write(res.Table, *out); err != nil {
		logger.Error("Failed to write output", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("   saved: %s\n", *out)

	stats.Render(os.Stdout, stats.Summarize(res.Table, *sample, *out), res.Table.ValueLabel)

	// The quick analysis reloads the written file, so it only applies to
	// CSV outputs.
	if *analyze && sink.Extension() == "csv" {
		analysis, err := stats.Analyze(*out, 10)
		if err != nil {
			logger.Warn("Quick analysis failed", slog.String("error", err.Error()))
		} else {
			stats.RenderAnalysis(os.Stdout, analysis)
		}
	}

	logger.Info("Conversion finished",
		slog.String("output", *out),
		slog.Int("rows", res.Stats.RowsOut))
}
