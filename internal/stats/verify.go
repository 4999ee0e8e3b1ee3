package stats

import (
	"fmt"
	"io"
	"path/filepath"

	"twxcli/internal/errors"
)

// VerifyOutputs reloads converted files from dir and prints shape
// information for each: row count, columns, unique dates and stocks, and a
// two-row sample. A missing or unreadable file is reported and the walk
// continues. Returns the number of files that failed verification.
func VerifyOutputs(w io.Writer, dir string, names []string) int {
	failed := 0
	for _, name := range names {
		path := filepath.Join(dir, name)
		table, err := LoadLongCSV(path)
		if err != nil {
			failed++
			if errors.IsType(err, errors.ErrTypeNotFound) {
				fmt.Fprintf(w, "\n%s: file not found\n", name)
			} else {
				fmt.Fprintf(w, "\n%s: %v\n", name, err)
			}
			continue
		}

		summary := Summarize(table, 2, "")
		fmt.Fprintf(w, "\n%s:\n", name)
		fmt.Fprintf(w, "   Rows: %d\n", summary.TotalPoints)
		fmt.Fprintf(w, "   Columns: [Date Stock %s]\n", table.ValueLabel)
		fmt.Fprintf(w, "   Unique dates: %d\n", summary.UniqueDates)
		fmt.Fprintf(w, "   Unique stocks: %d\n", summary.UniqueStocks)
		if len(summary.Sample) > 0 {
			fmt.Fprintf(w, "   Sample:\n")
			for _, rec := range summary.Sample {
				fmt.Fprintf(w, "     %s  %s  %s\n", rec.Date, rec.Stock, rec.OutputValue())
			}
		}
	}
	return failed
}
