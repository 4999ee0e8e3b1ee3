package exporter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"

	"twxcli/internal/errors"
	"twxcli/pkg/contracts/domain"
)

// Sink persists a long table to one output format. The batch driver picks
// the implementation once per run and hands every conversion to it.
type Sink interface {
	Write(table *domain.LongTable, path string) error
	Extension() string
}

// longRow is the storage DTO shared by the JSON and Parquet sinks. Values
// are persisted in their output text form, numeric or not.
type longRow struct {
	Date  string `json:"date" parquet:"date"`
	Stock string `json:"stock" parquet:"stock"`
	Value string `json:"value" parquet:"value"`
}

func longRows(table *domain.LongTable) []longRow {
	rows := make([]longRow, len(table.Records))
	for i, rec := range table.Records {
		rows[i] = longRow{Date: rec.Date, Stock: rec.Stock, Value: rec.OutputValue()}
	}
	return rows
}

// NewSink creates the sink for a format (csv, json, parquet). The CSV sink
// streams through writer; the others ignore it. Returns nil for formats it
// does not support.
func NewSink(format string, writer *CSVWriter) Sink {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "csv":
		return CSVSink{writer: writer}
	case "json":
		return JSONSink{}
	case "parquet":
		return ParquetSink{}
	default:
		return nil
	}
}

// MustSink is NewSink but panics on an unsupported format.
func MustSink(format string, writer *CSVWriter) Sink {
	s := NewSink(format, writer)
	if s == nil {
		panic(fmt.Sprintf("exporter: unsupported output format %q (use: csv, json, parquet)", format))
	}
	return s
}

// CSVSink writes tables as UTF-8 CSV with a Date,Stock,<ValueLabel> header.
type CSVSink struct {
	writer *CSVWriter
}

func (CSVSink) Extension() string { return "csv" }

func (s CSVSink) Write(table *domain.LongTable, path string) error {
	stream, err := s.writer.CreateStreamWriter(path, []string{"Date", "Stock", table.ValueLabel}, false)
	if err != nil {
		return errors.NewStorageError("failed to open CSV output", err)
	}
	for _, rec := range table.Records {
		if err := stream.WriteRecord([]string{rec.Date, rec.Stock, rec.OutputValue()}); err != nil {
			stream.Close()
			return errors.NewStorageError("failed to write CSV record", err)
		}
	}
	if err := stream.Close(); err != nil {
		return errors.NewStorageError("failed to finish CSV output", err)
	}
	return nil
}

// JSONSink writes tables as an indented JSON array.
type JSONSink struct{}

func (JSONSink) Extension() string { return "json" }

func (JSONSink) Write(table *domain.LongTable, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewStorageError("failed to create directory for JSON output", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.NewStorageError("failed to create JSON output", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(longRows(table)); err != nil {
		return errors.NewStorageError("failed to encode JSON output", err)
	}
	return nil
}

// ParquetSink writes tables as Parquet files.
type ParquetSink struct{}

func (ParquetSink) Extension() string { return "parquet" }

func (ParquetSink) Write(table *domain.LongTable, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewStorageError("failed to create directory for Parquet output", err)
	}
	if err := parquet.WriteFile(path, longRows(table)); err != nil {
		return errors.NewStorageError("failed to write Parquet output", err)
	}
	return nil
}
