// Package stats computes and renders dataset summaries for converted
// tables: counts, ranges, head samples and numeric statistics, plus quick
// analysis and verification over files already written to disk.
package stats

import (
	"fmt"
	"io"
	"os"
	"sort"

	"twxcli/pkg/contracts/domain"
)

// Summary describes one converted dataset for reporting.
type Summary struct {
	TotalPoints  int                 `json:"total_points"`
	UniqueStocks int                 `json:"unique_stocks"`
	UniqueDates  int                 `json:"unique_dates"`
	DateMin      string              `json:"date_min"`
	DateMax      string              `json:"date_max"`
	Sample       []domain.LongRecord `json:"sample,omitempty"`
	Values       *ValueStats         `json:"values,omitempty"`
	FileSizeMB   float64             `json:"file_size_mb,omitempty"`
}

// ValueStats summarizes a numeric value column.
type ValueStats struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
}

// Summarize computes the dataset summary for a converted table. sampleRows
// caps the head sample; outputPath, when non-empty, is probed for its size
// on disk.
func Summarize(table *domain.LongTable, sampleRows int, outputPath string) Summary {
	s := Summary{TotalPoints: table.Len()}

	stocks := make(map[string]struct{})
	dates := make(map[string]struct{})
	for i, rec := range table.Records {
		stocks[rec.Stock] = struct{}{}
		dates[rec.Date] = struct{}{}
		if i == 0 || rec.Date < s.DateMin {
			s.DateMin = rec.Date
		}
		if i == 0 || rec.Date > s.DateMax {
			s.DateMax = rec.Date
		}
	}
	s.UniqueStocks = len(stocks)
	s.UniqueDates = len(dates)

	if sampleRows > table.Len() {
		sampleRows = table.Len()
	}
	if sampleRows > 0 {
		s.Sample = table.Records[:sampleRows]
	}

	if table.Numeric {
		s.Values = valueStats(table.Records)
	}

	if outputPath != "" {
		if info, err := os.Stat(outputPath); err == nil {
			s.FileSizeMB = float64(info.Size()) / (1024 * 1024)
		}
	}

	return s
}

func valueStats(records []domain.LongRecord) *ValueStats {
	values := make([]float64, 0, len(records))
	for _, rec := range records {
		if rec.Numeric {
			values = append(values, rec.Num)
		}
	}
	if len(values) == 0 {
		return nil
	}

	sort.Float64s(values)
	var sum float64
	for _, v := range values {
		sum += v
	}

	mid := len(values) / 2
	median := values[mid]
	if len(values)%2 == 0 {
		median = (values[mid-1] + values[mid]) / 2
	}

	return &ValueStats{
		Min:    values[0],
		Max:    values[len(values)-1],
		Mean:   sum / float64(len(values)),
		Median: median,
	}
}

// Render writes the human-readable dataset summary block.
func Render(w io.Writer, s Summary, valueLabel string) {
	fmt.Fprintf(w, "\nDataset Summary:\n")
	fmt.Fprintf(w, "   Total data points: %d\n", s.TotalPoints)
	fmt.Fprintf(w, "   Unique stocks: %d\n", s.UniqueStocks)
	fmt.Fprintf(w, "   Unique dates/periods: %d\n", s.UniqueDates)
	fmt.Fprintf(w, "   Date range: %s to %s\n", s.DateMin, s.DateMax)

	if len(s.Sample) > 0 {
		fmt.Fprintf(w, "\nSample of converted data:\n")
		fmt.Fprintf(w, "   %-12s %-16s %s\n", "Date", "Stock", valueLabel)
		for _, rec := range s.Sample {
			fmt.Fprintf(w, "   %-12s %-16s %s\n", rec.Date, rec.Stock, rec.OutputValue())
		}
	}

	if s.Values != nil {
		fmt.Fprintf(w, "\n%s Statistics:\n", valueLabel)
		fmt.Fprintf(w, "   Min: %.2f\n", s.Values.Min)
		fmt.Fprintf(w, "   Max: %.2f\n", s.Values.Max)
		fmt.Fprintf(w, "   Mean: %.2f\n", s.Values.Mean)
		fmt.Fprintf(w, "   Median: %.2f\n", s.Values.Median)
	}

	if s.FileSizeMB > 0 {
		fmt.Fprintf(w, "\nFile size: %.1f MB\n", s.FileSizeMB)
	}
}
