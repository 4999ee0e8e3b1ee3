package reshape

import (
	"context"
	"log/slog"

	"twxcli/pkg/contracts/domain"
)

// Stats captures the observable counts of one conversion. The reporting
// layer renders these; nothing in the pipeline reads them back.
type Stats struct {
	RowsIn           int            `json:"rows_in"`
	ValueColumns     int            `json:"value_columns"`
	RecordsUnpivoted int            `json:"records_unpivoted"`
	SentinelRemoved  int            `json:"sentinel_removed"`
	Coercion         CoercionReport `json:"coercion"`
	RowsOut          int            `json:"rows_out"`
	UniqueStocks     int            `json:"unique_stocks"`
	UniqueDates      int            `json:"unique_dates"`
}

// Result bundles the reshaped table with its conversion stats.
type Result struct {
	Table *domain.LongTable
	Stats Stats
}

// Pipeline converts one wide grid into a cleaned long table. A pipeline is
// stateless across runs; the same instance can process any number of grids.
type Pipeline struct {
	logger   *slog.Logger
	config   PipelineConfig
	detector HeaderDetector
}

// NewPipeline builds a pipeline after validating its configuration.
func NewPipeline(logger *slog.Logger, config PipelineConfig) (*Pipeline, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	detector, err := NewHeaderDetector(config.Header)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		logger:   logger,
		config:   config,
		detector: detector,
	}, nil
}

// Run executes column role detection, the unpivot transform, sentinel
// filtering and numeric coercion over one grid.
func (p *Pipeline) Run(ctx context.Context, grid *domain.RawGrid) (*Result, error) {
	wide, err := p.detector.Detect(grid)
	if err != nil {
		return nil, err
	}

	long := Unpivot(wide, p.config.ValueLabel)
	p.logger.DebugContext(ctx, "unpivoted wide table",
		slog.String("source", grid.Source),
		slog.Int("rows", len(wide.Rows)),
		slog.Int("value_columns", len(wide.ValueColumns)),
		slog.Int("records", long.Len()))

	filtered, removed := FilterSentinels(long, p.config.SentinelValues)
	coerced, report := CoerceNumeric(filtered, p.config.Coercion, p.config.CoercionThreshold)

	stats := Stats{
		RowsIn:           len(wide.Rows),
		ValueColumns:     len(wide.ValueColumns),
		RecordsUnpivoted: long.Len(),
		SentinelRemoved:  removed,
		Coercion:         report,
		RowsOut:          coerced.Len(),
		UniqueStocks:     countUnique(coerced.Records, func(r domain.LongRecord) string { return r.Stock }),
		UniqueDates:      countUnique(coerced.Records, func(r domain.LongRecord) string { return r.Date }),
	}

	p.logger.InfoContext(ctx, "reshape complete",
		slog.String("source", grid.Source),
		slog.String("value_label", p.config.ValueLabel),
		slog.Int("records_unpivoted", stats.RecordsUnpivoted),
		slog.Int("sentinel_removed", stats.SentinelRemoved),
		slog.Bool("coercion_committed", report.Committed),
		slog.Int("coercion_dropped", report.Dropped),
		slog.Int("rows_out", stats.RowsOut))

	return &Result{Table: coerced, Stats: stats}, nil
}

func countUnique(records []domain.LongRecord, key func(domain.LongRecord) string) int {
	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		seen[key(rec)] = struct{}{}
	}
	return len(seen)
}
