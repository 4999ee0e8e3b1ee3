package exporter

import (
	"path/filepath"
	"strings"

	"twxcli/internal/config"
)

// OutputName derives the deterministic output filename for an input
// workbook: the input base name, the target suffix, the long-format tail,
// and the sink extension. Re-running a conversion overwrites its previous
// output.
func OutputName(inputPath, suffix, extension string) string {
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	return base + suffix + config.OutputFileTail + "." + extension
}
