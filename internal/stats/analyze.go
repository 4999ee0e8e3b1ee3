package stats

import (
	"fmt"
	"io"
	"sort"

	"twxcli/pkg/contracts/domain"
)

// DatasetSummary describes a reloaded long-format file.
type DatasetSummary struct {
	Path         string       `json:"path"`
	Rows         int          `json:"rows"`
	Columns      []string     `json:"columns"`
	UniqueStocks int          `json:"unique_stocks"`
	UniqueDates  int          `json:"unique_dates"`
	TopStocks    []StockCount `json:"top_stocks,omitempty"`
	SampleStock  *StockDetail `json:"sample_stock,omitempty"`
}

// StockCount pairs a stock with its number of data points.
type StockCount struct {
	Stock string `json:"stock"`
	Count int    `json:"count"`
}

// StockDetail expands one stock: its date range and value statistics.
type StockDetail struct {
	Stock   string      `json:"stock"`
	DateMin string      `json:"date_min"`
	DateMax string      `json:"date_max"`
	Values  *ValueStats `json:"values,omitempty"`
}

// Analyze reloads a converted file and ranks stocks by data availability.
// The stock with the most data points is expanded into a detail view.
func Analyze(path string, topN int) (*DatasetSummary, error) {
	table, err := LoadLongCSV(path)
	if err != nil {
		return nil, err
	}

	summary := &DatasetSummary{
		Path:    path,
		Rows:    table.Len(),
		Columns: []string{"Date", "Stock", table.ValueLabel},
	}

	counts := make(map[string]int)
	dates := make(map[string]struct{})
	for _, rec := range table.Records {
		counts[rec.Stock]++
		dates[rec.Date] = struct{}{}
	}
	summary.UniqueStocks = len(counts)
	summary.UniqueDates = len(dates)

	ranked := make([]StockCount, 0, len(counts))
	for stock, count := range counts {
		ranked = append(ranked, StockCount{Stock: stock, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Stock < ranked[j].Stock
	})
	if topN > len(ranked) {
		topN = len(ranked)
	}
	summary.TopStocks = ranked[:topN]

	if len(ranked) > 0 {
		summary.SampleStock = stockDetail(table, ranked[0].Stock)
	}

	return summary, nil
}

func stockDetail(table *domain.LongTable, stock string) *StockDetail {
	detail := &StockDetail{Stock: stock}
	records := make([]domain.LongRecord, 0)
	for _, rec := range table.Records {
		if rec.Stock != stock {
			continue
		}
		if len(records) == 0 || rec.Date < detail.DateMin {
			detail.DateMin = rec.Date
		}
		if len(records) == 0 || rec.Date > detail.DateMax {
			detail.DateMax = rec.Date
		}
		records = append(records, rec)
	}
	detail.Values = valueStats(records)
	return detail
}

// RenderAnalysis writes the human-readable quick analysis block.
func RenderAnalysis(w io.Writer, a *DatasetSummary) {
	fmt.Fprintf(w, "\nQuick Analysis:\n")
	fmt.Fprintf(w, "   Dataset shape: %d rows x %d columns\n", a.Rows, len(a.Columns))
	fmt.Fprintf(w, "   Unique stocks: %d\n", a.UniqueStocks)
	fmt.Fprintf(w, "   Unique dates: %d\n", a.UniqueDates)

	if len(a.TopStocks) > 0 {
		fmt.Fprintf(w, "\nTop %d stocks by data availability:\n", len(a.TopStocks))
		for _, sc := range a.TopStocks {
			fmt.Fprintf(w, "   %s: %d data points\n", sc.Stock, sc.Count)
		}
	}

	if a.SampleStock != nil {
		fmt.Fprintf(w, "\nSample analysis for %s:\n", a.SampleStock.Stock)
		fmt.Fprintf(w, "   Date range: %s to %s\n", a.SampleStock.DateMin, a.SampleStock.DateMax)
		if a.SampleStock.Values != nil {
			fmt.Fprintf(w, "   Value range: %.2f to %.2f\n", a.SampleStock.Values.Min, a.SampleStock.Values.Max)
			fmt.Fprintf(w, "   Average value: %.2f\n", a.SampleStock.Values.Mean)
		}
	}
}
