package config

// Application constants shared across the conversion tools
const (
	// Application Info
	AppName    = "twxcli"
	AppVersion = "1.0.0"

	// EnvPrefix namespaces all environment variables (TWX_*)
	EnvPrefix = "TWX"

	// File Paths (relative to executable)
	DefaultDataDir    = "data"
	DefaultLogsDir    = "logs"
	DefaultExportsDir = "data/exports"
	DefaultReportsDir = "data/reports"
	DefaultLogFile    = "logs/twxcli.log"

	// Output defaults
	DefaultOutputFormat = "csv"
	DefaultSampleRows   = 5

	// OutputFileTail is the shared tail of generated long-format file names
	OutputFileTail = "_long_format"
)
