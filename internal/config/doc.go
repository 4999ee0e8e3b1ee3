// Package config provides centralized configuration management for the
// conversion tools. It handles loading configuration from multiple sources,
// validation, and path resolution relative to the executable.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. Configuration file (YAML)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern TWX_* for namespacing:
//
//	TWX_LOGGING_LEVEL=debug
//	TWX_OUTPUT_FORMAT=parquet
//	TWX_OUTPUT_INPUT_DIR=/data/exports
//	TWX_TELEMETRY_ENABLED=true
//
// # Path Management
//
// The package provides centralized path management through the Paths type,
// which resolves all file system paths relative to the executable location:
//
//	paths, err := config.GetPaths()
//	if err != nil {
//	    return err
//	}
//	if err := paths.EnsureDirectories(); err != nil {
//	    return err
//	}
//	input := paths.GetExportPath("stock price.xlsx")
package config
