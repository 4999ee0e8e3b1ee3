package batch

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"twxcli/internal/config"
	"twxcli/internal/errors"
	"twxcli/internal/exporter"
	"twxcli/internal/reshape"
	"twxcli/internal/shared/testutil"
)

func writeWorkbook(t *testing.T, path string, rows [][]interface{}) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
}

// dailyWorkbook writes a small daily export: two trading days for two
// stocks with one dash sentinel, so each conversion yields three records.
func dailyWorkbook(t *testing.T, dir, name string) {
	t.Helper()
	writeWorkbook(t, filepath.Join(dir, name), [][]interface{}{
		{"Date", "1101 台泥", "1102 亞泥"},
		{"2013/01/02", "36.5", "-"},
		{"2013/01/03", "36.6", "37.4"},
	})
}

func csvSink(t *testing.T) exporter.Sink {
	t.Helper()
	return exporter.MustSink("csv", exporter.NewCSVWriter(&config.Paths{}))
}

func TestDriver_Run_PartialBatch(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := filepath.Join(inputDir, "out")

	dailyWorkbook(t, inputDir, "stock price.xlsx")
	dailyWorkbook(t, inputDir, "tv.xlsx")
	dailyWorkbook(t, inputDir, "mkt cap.xlsx")
	// book value.xlsx and announcemnet date.xlsx stay absent.

	var progress bytes.Buffer
	driver := NewDriver(nil, DriverConfig{
		InputDir:  inputDir,
		OutputDir: outputDir,
		Sink:      csvSink(t),
		Progress:  &progress,
	})

	summary, err := driver.Run(context.Background(), DefaultTargets())
	require.NoError(t, err)
	require.NotNil(t, summary)

	assert.Equal(t, 5, summary.Total)
	assert.Equal(t, 3, summary.Successful)
	assert.Equal(t, 9, summary.TotalRows)
	assert.NotEmpty(t, summary.RunID)
	assert.Positive(t, summary.Duration)
	require.Len(t, summary.Results, 5)

	for _, result := range summary.Results[:3] {
		assert.True(t, result.Success, result.SourceFile)
		assert.Equal(t, 3, result.RowCount)
		assert.NotEmpty(t, result.ID)
		assert.FileExists(t, filepath.Join(outputDir, result.OutputFile))
	}
	for _, result := range summary.Results[3:] {
		assert.False(t, result.Success, result.SourceFile)
		assert.Zero(t, result.RowCount)
		assert.Contains(t, result.Error, "file not found")
	}

	assert.Equal(t, "stock price_prices_long_format.csv", summary.Results[0].OutputFile)
	assert.Equal(t, "tv_volume_long_format.csv", summary.Results[1].OutputFile)
	assert.Equal(t, "mkt cap_market_cap_long_format.csv", summary.Results[2].OutputFile)

	out := progress.String()
	assert.Contains(t, out, "Starting batch conversion of 5 files...")
	assert.Contains(t, out, "file not found: book value.xlsx")
	assert.Contains(t, out, "file not found: announcemnet date.xlsx")
	assert.Contains(t, out, "Summary: 3/5 files converted successfully")
	assert.Contains(t, out, "Total data points created: 9")
	assert.Contains(t, out, "Dataset Summary:")
}

func TestDriver_Run_LogsMissingWorkbooks(t *testing.T) {
	inputDir := t.TempDir()
	dailyWorkbook(t, inputDir, "tv.xlsx")

	logger, logs := testutil.NewTestLogger(t)
	driver := NewDriver(logger, DriverConfig{
		InputDir:  inputDir,
		OutputDir: filepath.Join(inputDir, "out"),
		Sink:      csvSink(t),
		Progress:  &bytes.Buffer{},
	})

	targets := []Target{
		{File: "tv.xlsx", Suffix: "_volume", ValueLabel: "Volume", Description: "Trading Volume"},
		{File: "book value.xlsx", Suffix: "_book_value", ValueLabel: "BookValue", Description: "Book Value (Quarterly)"},
	}

	_, err := driver.Run(context.Background(), targets)
	require.NoError(t, err)

	testutil.AssertLogged(t, logs, slog.LevelWarn, "input workbook missing")
	testutil.AssertLogged(t, logs, slog.LevelInfo, "batch conversion finished")

	file, ok := logs.AttrValue("input workbook missing", "file")
	require.True(t, ok)
	assert.Equal(t, "book value.xlsx", file)
}

func TestDriver_Run_ErrorIsolation(t *testing.T) {
	inputDir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(inputDir, "broken.xlsx"), []byte("not a workbook"), 0644))
	dailyWorkbook(t, inputDir, "good.xlsx")

	var progress bytes.Buffer
	driver := NewDriver(nil, DriverConfig{
		InputDir:  inputDir,
		OutputDir: filepath.Join(inputDir, "out"),
		Sink:      csvSink(t),
		Progress:  &progress,
	})

	targets := []Target{
		{File: "broken.xlsx", Suffix: "_a", ValueLabel: "Price", Description: "Corrupt workbook"},
		{File: "good.xlsx", Suffix: "_b", ValueLabel: "Price", Description: "Valid workbook"},
	}

	summary, err := driver.Run(context.Background(), targets)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Successful)
	assert.Equal(t, 2, summary.Total)
	require.Len(t, summary.Results, 2)
	assert.False(t, summary.Results[0].Success)
	assert.NotEmpty(t, summary.Results[0].Error)
	assert.True(t, summary.Results[1].Success)
	assert.Contains(t, progress.String(), "Summary: 1/2 files converted successfully")
}

func TestDriver_Run_FixedOutputName(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := filepath.Join(inputDir, "out")

	writeWorkbook(t, filepath.Join(inputDir, "book value.xlsx"), [][]interface{}{
		{"garbled export header"},
		{"年月", "1101 台泥", "1102 亞泥"},
		{"2013Q1", "25.5", "-"},
		{"2013Q2", "26.0", "30.5"},
	})

	var progress bytes.Buffer
	driver := NewDriver(nil, DriverConfig{
		InputDir:  inputDir,
		OutputDir: outputDir,
		Sink:      csvSink(t),
		Progress:  &progress,
	})

	targets := []Target{{
		File:        "book value.xlsx",
		ValueLabel:  "BookValue",
		Description: "Book Value (Quarterly)",
		Coercion:    reshape.CoercionUnconditional,
		Header:      reshape.HeaderOffsetCorrected,
		OutputName:  "book_values_fixed.csv",
	}}

	summary, err := driver.Run(context.Background(), targets)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Successful)
	assert.Equal(t, 3, summary.TotalRows)
	assert.Equal(t, "book_values_fixed.csv", summary.Results[0].OutputFile)
	assert.FileExists(t, filepath.Join(outputDir, "book_values_fixed.csv"))
}

func TestDriver_Run_InvalidTargetAborts(t *testing.T) {
	driver := NewDriver(nil, DriverConfig{
		InputDir:  t.TempDir(),
		OutputDir: t.TempDir(),
		Sink:      csvSink(t),
		Progress:  &bytes.Buffer{},
	})

	targets := []Target{{File: "tv.xlsx", Description: "Trading Volume"}} // no value label

	summary, err := driver.Run(context.Background(), targets)
	require.Error(t, err)
	assert.Nil(t, summary)
	assert.True(t, errors.IsType(err, errors.ErrTypeValidation))
}

func TestDriver_Run_RequiresSink(t *testing.T) {
	driver := NewDriver(nil, DriverConfig{
		InputDir:  t.TempDir(),
		OutputDir: t.TempDir(),
		Progress:  &bytes.Buffer{},
	})

	summary, err := driver.Run(context.Background(), DefaultTargets())
	require.Error(t, err)
	assert.Nil(t, summary)
	assert.True(t, errors.IsType(err, errors.ErrTypeConfig))
}

func TestDriver_Run_RecordsSpans(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := filepath.Join(inputDir, "out")
	dailyWorkbook(t, inputDir, "tv.xlsx")

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer tp.Shutdown(context.Background())

	driver := NewDriver(nil, DriverConfig{
		InputDir:  inputDir,
		OutputDir: outputDir,
		Sink:      csvSink(t),
		Progress:  &bytes.Buffer{},
		Tracer:    tp.Tracer("batch"),
	})

	targets := []Target{
		{File: "tv.xlsx", Suffix: "_volume", ValueLabel: "Volume", Description: "Trading Volume"},
		{File: "mkt cap.xlsx", Suffix: "_market_cap", ValueLabel: "MarketCap", Description: "Market Capitalization"},
	}
	_, err := driver.Run(context.Background(), targets)
	require.NoError(t, err)

	spans := recorder.Ended()
	names := make([]string, 0, len(spans))
	for _, s := range spans {
		names = append(names, s.Name())
	}
	assert.Contains(t, names, "batch_conversion")
	assert.Equal(t, 2, countNames(names, "convert_file"))

	// The missing workbook records an error on its span.
	for _, s := range spans {
		if s.Name() != "convert_file" {
			continue
		}
		for _, attr := range s.Attributes() {
			if attr.Key == "source.file" && attr.Value.AsString() == "mkt cap.xlsx" {
				assert.NotEmpty(t, s.Events(), "missing workbook span should carry the error event")
			}
		}
	}
}

func countNames(names []string, want string) int {
	n := 0
	for _, name := range names {
		if name == want {
			n++
		}
	}
	return n
}
