package batch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"twxcli/internal/errors"
	"twxcli/internal/exporter"
	"twxcli/internal/infrastructure"
	"twxcli/internal/reader"
	"twxcli/internal/reshape"
	"twxcli/internal/stats"
	"twxcli/pkg/contracts/domain"
)

// DriverConfig wires the batch driver's collaborators and directories.
type DriverConfig struct {
	InputDir   string
	OutputDir  string
	Sink       exporter.Sink
	Progress   io.Writer
	Metrics    *infrastructure.PipelineMetrics
	Tracer     trace.Tracer
	SampleRows int
}

// Driver converts configured targets sequentially. Each file is read,
// reshaped and written to completion before the next begins.
type Driver struct {
	logger *slog.Logger
	cfg    DriverConfig
	reader *reader.Reader
}

// NewDriver creates a batch driver.
func NewDriver(logger *slog.Logger, cfg DriverConfig) *Driver {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Progress == nil {
		cfg.Progress = os.Stdout
	}
	if cfg.Tracer == nil {
		cfg.Tracer = noop.NewTracerProvider().Tracer("batch")
	}
	if cfg.SampleRows <= 0 {
		cfg.SampleRows = 5
	}
	return &Driver{
		logger: logger,
		cfg:    cfg,
		reader: reader.NewReader(logger),
	}
}

// Run converts every target in order. Per-file failures are recorded in
// the summary and the batch continues; only invalid configuration aborts
// the run.
func (d *Driver) Run(ctx context.Context, targets []Target) (*domain.BatchSummary, error) {
	if d.cfg.Sink == nil {
		return nil, errors.NewConfigError("batch driver requires an output sink", nil)
	}
	for _, target := range targets {
		if err := target.Validate(); err != nil {
			return nil, err
		}
	}

	ctx = infrastructure.EnsureRunID(ctx)
	ctx, span := d.cfg.Tracer.Start(ctx, "batch_conversion",
		trace.WithAttributes(attribute.Int("targets", len(targets))))
	defer span.End()

	start := time.Now()
	summary := &domain.BatchSummary{
		RunID:     infrastructure.GetRunID(ctx),
		StartedAt: start,
		Total:     len(targets),
	}

	d.logger.InfoContext(ctx, "starting batch conversion",
		slog.Int("targets", len(targets)),
		slog.String("input_dir", d.cfg.InputDir),
		slog.String("output_dir", d.cfg.OutputDir),
		slog.String("format", d.cfg.Sink.Extension()))
	fmt.Fprintf(d.cfg.Progress, "Starting batch conversion of %d files...\n", len(targets))
	fmt.Fprintln(d.cfg.Progress, strings.Repeat("=", 60))

	for _, target := range targets {
		result := d.convertOne(ctx, target)
		summary.Results = append(summary.Results, result)
		if result.Success {
			summary.Successful++
			summary.TotalRows += result.RowCount
		}
	}

	summary.Duration = time.Since(start)
	d.renderSummary(summary)
	d.logger.InfoContext(ctx, "batch conversion finished",
		slog.Int("successful", summary.Successful),
		slog.Int("total", summary.Total),
		slog.Int("total_rows", summary.TotalRows),
		slog.Duration("duration", summary.Duration))

	return summary, nil
}

// convertOne runs a single target and records its outcome. Every error is
// caught here; nothing propagates past the per-file boundary.
func (d *Driver) convertOne(ctx context.Context, target Target) domain.ConversionResult {
	ctx, span := d.startSpan(ctx, target)
	defer span.End()

	start := time.Now()
	result := domain.ConversionResult{
		ID:          uuid.NewString(),
		SourceFile:  target.File,
		Description: target.Description,
	}

	fmt.Fprintf(d.cfg.Progress, "\nProcessing: %s (%s)\n", target.File, target.Description)

	inputPath := filepath.Join(d.cfg.InputDir, target.File)
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		fmt.Fprintf(d.cfg.Progress, "   file not found: %s\n", target.File)
		d.logger.WarnContext(ctx, "input workbook missing", slog.String("file", target.File))
		notFound := errors.NewNotFoundError(target.File)
		infrastructure.RecordError(ctx, notFound)
		result.Error = fmt.Sprintf("file not found: %s", target.File)
		result.Duration = time.Since(start)
		infrastructure.RecordConversionMetrics(ctx, d.cfg.Metrics,
			target.File, target.ValueLabel, result.Duration, false, notFound)
		return result
	}

	res, outputName, err := d.process(ctx, target, inputPath)
	result.Duration = time.Since(start)
	if err != nil {
		fmt.Fprintf(d.cfg.Progress, "   error: %v\n", err)
		d.logger.ErrorContext(ctx, "conversion failed",
			slog.String("file", target.File),
			slog.String("error", err.Error()))
		infrastructure.RecordError(ctx, err)
		result.Error = err.Error()
		infrastructure.RecordConversionMetrics(ctx, d.cfg.Metrics,
			target.File, target.ValueLabel, result.Duration, false, err)
		return result
	}

	result.Success = true
	result.RowCount = res.Table.Len()
	result.OutputFile = outputName
	d.recordStageMetrics(ctx, target, res.Stats)
	infrastructure.RecordConversionMetrics(ctx, d.cfg.Metrics,
		target.File, target.ValueLabel, result.Duration, true, nil)

	return result
}

// startSpan opens the per-file span under the batch span.
func (d *Driver) startSpan(ctx context.Context, target Target) (context.Context, trace.Span) {
	return d.cfg.Tracer.Start(ctx, "convert_file",
		trace.WithAttributes(
			attribute.String("source.file", target.File),
			attribute.String("value.label", target.ValueLabel)))
}

func (d *Driver) process(ctx context.Context, target Target, inputPath string) (*reshape.Result, string, error) {
	grid, err := d.reader.ReadGrid(ctx, inputPath)
	if err != nil {
		return nil, "", err
	}

	pipe, err := reshape.NewPipeline(d.logger, target.pipelineConfig())
	if err != nil {
		return nil, "", err
	}
	res, err := pipe.Run(ctx, grid)
	if err != nil {
		return nil, "", err
	}
	infrastructure.AddSpanEvent(ctx, "reshape_complete", map[string]interface{}{
		"records_unpivoted": res.Stats.RecordsUnpivoted,
		"sentinel_removed":  res.Stats.SentinelRemoved,
		"rows_out":          res.Stats.RowsOut,
	})

	fmt.Fprintf(d.cfg.Progress, "   found %d rows x %d stocks\n", res.Stats.RowsIn, res.Stats.ValueColumns)
	fmt.Fprintf(d.cfg.Progress, "   removed %d empty/invalid rows\n", res.Stats.RecordsUnpivoted-res.Stats.RowsOut)
	fmt.Fprintf(d.cfg.Progress, "   conversion complete: %d data points\n", res.Stats.RowsOut)

	outputName := target.OutputName
	if outputName == "" {
		outputName = exporter.OutputName(target.File, target.Suffix, d.cfg.Sink.Extension())
	}
	outputPath := filepath.Join(d.cfg.OutputDir, outputName)
	if err := d.cfg.Sink.Write(res.Table, outputPath); err != nil {
		return nil, "", err
	}
	fmt.Fprintf(d.cfg.Progress, "   saved: %s\n", outputName)

	stats.Render(d.cfg.Progress, stats.Summarize(res.Table, d.cfg.SampleRows, outputPath), target.ValueLabel)

	return res, outputName, nil
}

func (d *Driver) recordStageMetrics(ctx context.Context, target Target, st reshape.Stats) {
	m := d.cfg.Metrics
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("source_file", target.File),
		attribute.String("value_label", target.ValueLabel),
	)
	m.RecordsUnpivoted.Add(ctx, int64(st.RecordsUnpivoted), attrs)
	m.SentinelRowsRemoved.Add(ctx, int64(st.SentinelRemoved), attrs)
	m.RowsWritten.Add(ctx, int64(st.RowsOut), attrs)
	if st.Coercion.Attempted {
		if st.Coercion.Committed {
			m.CoercionsCommitted.Add(ctx, 1, attrs)
		} else {
			m.CoercionsAbandoned.Add(ctx, 1, attrs)
		}
	}
}

func (d *Driver) renderSummary(summary *domain.BatchSummary) {
	w := d.cfg.Progress
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintln(w, "CONVERSION SUMMARY REPORT")
	fmt.Fprintln(w, strings.Repeat("=", 60))

	for _, r := range summary.Results {
		status := "SUCCESS"
		if !r.Success {
			status = "FAILED "
		}
		fmt.Fprintf(w, "%s | %-25s | %d rows\n", status, r.Description, r.RowCount)
		if r.Success {
			fmt.Fprintf(w, "          output: %s\n", r.OutputFile)
		} else if r.Error != "" {
			fmt.Fprintf(w, "          error: %s\n", r.Error)
		}
	}

	fmt.Fprintln(w, strings.Repeat("-", 60))
	fmt.Fprintf(w, "Summary: %d/%d files converted successfully\n", summary.Successful, summary.Total)
	fmt.Fprintf(w, "Total data points created: %d\n", summary.TotalRows)
}
