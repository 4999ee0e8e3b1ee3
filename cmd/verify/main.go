package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"twxcli/internal/config"
	"twxcli/internal/files"
	"twxcli/internal/infrastructure"
	"twxcli/internal/stats"
)

// defaultNames are the daily outputs checked when no files are named on
// the command line.
var defaultNames = []string{
	"tv_volume_long_format.csv",
	"mkt cap_market_cap_long_format.csv",
}

func main() {
	dir := flag.String("dir", "", "directory with converted files (defaults to data/reports relative to executable)")
	all := flag.Bool("all", false, "verify every converted file found in the directory")
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
		cfg.Logging.FilePath = paths.GetLogPath("verify.log")
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	if *dir == "" {
		*dir = paths.ReportsDir
	}

	names, err := namesToVerify(*dir, *all, flag.Args())
	if err != nil {
		logger.Error("Failed to discover converted files", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if len(names) == 0 {
		fmt.Printf("No converted files found in %s\n", *dir)
		os.Exit(1)
	}

	logger.Info("Verifying converted files",
		slog.String("directory", *dir),
		slog.Int("files", len(names)))

	fmt.Println("Verifying converted files...")
	failed := stats.VerifyOutputs(os.Stdout, *dir, names)

	fmt.Printf("\nVerified %d/%d files\n", len(names)-failed, len(names))
	logger.Info("Verification finished",
		slog.Int("verified", len(names)-failed),
		slog.Int("failed", failed))

	if failed > 0 {
		os.Exit(1)
	}
}

// namesToVerify picks the file list: explicit arguments win, -all scans
// the directory, and otherwise the daily defaults are used.
func namesToVerify(dir string, all bool, args []string) ([]string, error) {
	if all {
		discovery := files.NewDiscovery(dir)
		found, err := discovery.FindConvertedOutputs(".")
		if err != nil {
			return nil, err
		}
		names := make([]string, 0, len(found))
		for _, f := range found {
			names = append(names, f.Name)
		}
		return names, nil
	}
	if len(args) > 0 {
		return args, nil
	}
	return defaultNames, nil
}
