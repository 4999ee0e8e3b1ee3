package reshape

import (
	"strconv"
	"strings"

	"twxcli/pkg/contracts/domain"
)

// CoercionReport records what numeric coercion did to a table.
type CoercionReport struct {
	Mode        CoercionMode `json:"mode"`
	Attempted   bool         `json:"attempted"`
	Committed   bool         `json:"committed"`
	Parseable   int          `json:"parseable"`
	Unparseable int          `json:"unparseable"`
	Ratio       float64      `json:"ratio"`
	Dropped     int          `json:"dropped"`
}

// CoerceNumeric applies the configured coercion mode to a filtered table.
//
// Thresholded mode reinterprets a text column as numeric only when the
// parse success ratio strictly exceeds the threshold: committing replaces
// values with parsed numbers and drops the unparseable rows, abandoning
// keeps every row as comma-stripped text. Columns whose cells were stored
// numerically in the source sheet have nothing to reinterpret and pass
// through. Unconditional mode always commits; none leaves the table
// untouched.
func CoerceNumeric(table *domain.LongTable, mode CoercionMode, threshold float64) (*domain.LongTable, CoercionReport) {
	switch mode {
	case CoercionNone:
		return table, CoercionReport{Mode: mode}
	case CoercionUnconditional:
		return commit(table, CoercionReport{Mode: mode, Attempted: true})
	default:
		return coerceThresholded(table, threshold)
	}
}

func coerceThresholded(table *domain.LongTable, threshold float64) (*domain.LongTable, CoercionReport) {
	if !table.TextSource {
		return passThroughNumeric(table)
	}

	report := CoercionReport{Mode: CoercionThresholded, Attempted: true}
	for _, rec := range table.Records {
		if _, err := parseNumber(rec.Value); err == nil {
			report.Parseable++
		} else {
			report.Unparseable++
		}
	}
	if n := len(table.Records); n > 0 {
		report.Ratio = float64(report.Parseable) / float64(n)
	}

	if report.Ratio > threshold {
		return commit(table, report)
	}
	return abandon(table, report)
}

// commit parses every value, keeps the parseable records as numerics, and
// drops the rest. Counts in the report are refilled from this pass.
func commit(table *domain.LongTable, report CoercionReport) (*domain.LongTable, CoercionReport) {
	report.Committed = true
	report.Parseable = 0
	report.Unparseable = 0

	kept := make([]domain.LongRecord, 0, len(table.Records))
	for _, rec := range table.Records {
		num, err := parseNumber(rec.Value)
		if err != nil {
			report.Unparseable++
			continue
		}
		rec.Value = cleanNumber(rec.Value)
		rec.Num = num
		rec.Numeric = true
		kept = append(kept, rec)
		report.Parseable++
	}

	report.Dropped = report.Unparseable
	if n := report.Parseable + report.Unparseable; n > 0 {
		report.Ratio = float64(report.Parseable) / float64(n)
	}

	return &domain.LongTable{
		ValueLabel: table.ValueLabel,
		Records:    kept,
		Numeric:    true,
		TextSource: table.TextSource,
	}, report
}

// abandon keeps every record, comma-stripped but textual.
func abandon(table *domain.LongTable, report CoercionReport) (*domain.LongTable, CoercionReport) {
	records := make([]domain.LongRecord, 0, len(table.Records))
	for _, rec := range table.Records {
		rec.Value = cleanNumber(rec.Value)
		records = append(records, rec)
	}
	return &domain.LongTable{
		ValueLabel: table.ValueLabel,
		Records:    records,
		TextSource: table.TextSource,
	}, report
}

// passThroughNumeric handles columns whose cells were stored as numbers in
// the source sheet. There is no text column to reinterpret; parsing just
// normalizes display text into canonical numeric form. Records that fail
// to parse keep their text and nothing is dropped.
func passThroughNumeric(table *domain.LongTable) (*domain.LongTable, CoercionReport) {
	report := CoercionReport{Mode: CoercionThresholded}
	records := make([]domain.LongRecord, 0, len(table.Records))
	for _, rec := range table.Records {
		if num, err := parseNumber(rec.Value); err == nil {
			rec.Value = cleanNumber(rec.Value)
			rec.Num = num
			rec.Numeric = true
			report.Parseable++
		} else {
			report.Unparseable++
		}
		records = append(records, rec)
	}
	if n := len(records); n > 0 {
		report.Ratio = float64(report.Parseable) / float64(n)
	}
	report.Committed = report.Unparseable == 0

	return &domain.LongTable{
		ValueLabel: table.ValueLabel,
		Records:    records,
		Numeric:    report.Committed,
	}, report
}

// cleanNumber strips thousands separators from value text.
func cleanNumber(value string) string {
	return strings.ReplaceAll(value, ",", "")
}

// parseNumber parses value text after cleaning.
func parseNumber(value string) (float64, error) {
	return strconv.ParseFloat(cleanNumber(value), 64)
}
