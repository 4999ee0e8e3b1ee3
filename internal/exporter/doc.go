// Package exporter persists long-format tables and report files.
//
// This package contains two main components:
//
// CSVWriter: Core CSV writing functionality with support for headers,
// appends, streaming, and an optional UTF-8 BOM. Converted data is written
// without the BOM; report files keep it so Excel opens them cleanly.
//
// Sink: format abstraction over the converted data outputs. NewSink picks
// between CSV, JSON and Parquet; the batch driver chooses once per run and
// every conversion flows through the same sink.
//
// Example usage:
//
//	writer := exporter.NewCSVWriter(paths)
//	sink := exporter.MustSink("csv", writer)
//
//	name := exporter.OutputName("stock price.xlsx", "_prices", sink.Extension())
//	err := sink.Write(table, filepath.Join(outputDir, name))
package exporter
