package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"twxcli/internal/batch"
	"twxcli/internal/config"
	"twxcli/internal/exporter"
	"twxcli/internal/infrastructure"
	"twxcli/internal/reshape"
	"twxcli/internal/stats"
	"twxcli/internal/validation"
)

// quarterlyTargets returns the two quarterly exports that need their
// header row recovered from the sheet body. Announcement dates stay text;
// book values are forced numeric because the export stores them as text
// with thousands separators.
func quarterlyTargets() []batch.Target {
	return []batch.Target{
		{
			File:        "announcemnet date.xlsx",
			ValueLabel:  "AnnouncementDate",
			Description: "Announcement Dates (Quarterly)",
			Coercion:    reshape.CoercionNone,
			Header:      reshape.HeaderOffsetCorrected,
			OutputName:  "announcement_dates_fixed.csv",
		},
		{
			File:        "book value.xlsx",
			ValueLabel:  "BookValue",
			Description: "Book Value (Quarterly)",
			Coercion:    reshape.CoercionUnconditional,
			Header:      reshape.HeaderOffsetCorrected,
			OutputName:  "book_values_fixed.csv",
		},
	}
}

func main() {
	inDir := flag.String("in", "", "input directory with the quarterly .xlsx exports (defaults to data/exports relative to executable)")
	outDir := flag.String("out", "", "output directory for corrected files (defaults to data/reports relative to executable)")
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
		cfg.Logging.FilePath = paths.GetLogPath("quarterlyfix.log")
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	if *inDir == "" {
		*inDir = paths.ExportsDir
	}
	if *outDir == "" {
		*outDir = paths.ReportsDir
	}

	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	logger.Info("Starting quarterly file correction",
		slog.String("input_dir", *inDir),
		slog.String("output_dir", *outDir),
		slog.String("executable_dir", paths.ExecutableDir))

	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateInputDirectory(*inDir, "*.xlsx"); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if err := validator.ValidateOutputDirectory(*outDir); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	ctx := infrastructure.WithRunID(context.Background(), infrastructure.GenerateRunID())

	// The corrected outputs are always CSV; downstream tooling expects the
	// fixed file names.
	driver := batch.NewDriver(logger, batch.DriverConfig{
		InputDir:   *inDir,
		OutputDir:  *outDir,
		Sink:       exporter.MustSink("csv", exporter.NewCSVWriter(paths)),
		SampleRows: 3,
	})

	summary, err := driver.Run(ctx, quarterlyTargets())
	if err != nil {
		logger.Error("Quarterly correction aborted", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if summary.Successful > 0 {
		fmt.Println("\nFixed files created:")
		for _, result := range summary.Results {
			if result.Success {
				fmt.Printf("   %s\n", result.OutputFile)
			}
		}
	}

	checkDailyOutputs(logger, *outDir)

	logger.Info("Quarterly correction finished",
		slog.String("run_id", summary.RunID),
		slog.Int("successful", summary.Successful),
		slog.Int("total", summary.Total))
}

// checkDailyOutputs re-verifies the daily volume and market-cap files when
// the batch converter has already written them into the same directory. A
// broken daily file is worth noticing here, but it never fails the run.
func checkDailyOutputs(logger *slog.Logger, dir string) {
	daily := []string{
		exporter.OutputName("tv.xlsx", "_volume", "csv"),
		exporter.OutputName("mkt cap.xlsx", "_market_cap", "csv"),
	}

	var present []string
	for _, name := range daily {
		if config.FileExists(filepath.Join(dir, name)) {
			present = append(present, name)
		}
	}
	if len(present) == 0 {
		return
	}

	fmt.Println("\nVerifying daily files from the batch converter...")
	if failed := stats.VerifyOutputs(os.Stdout, dir, present); failed > 0 {
		logger.Warn("daily output verification failed",
			slog.Int("failed", failed),
			slog.String("dir", dir))
	}
}
