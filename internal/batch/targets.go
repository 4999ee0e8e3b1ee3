// Package batch runs configured conversions in order and aggregates the
// per-file outcomes into a summary report. One file's failure never aborts
// the batch.
package batch

import (
	"github.com/go-playground/validator/v10"

	"twxcli/internal/errors"
	"twxcli/internal/reshape"
)

// Target describes one configured conversion: which workbook to read, how
// to label the value column, and which pipeline variant to run. Coercion
// and Header left empty fall back to the pipeline defaults; OutputName
// overrides the derived output filename when set.
type Target struct {
	File        string                 `json:"file" validate:"required"`
	Suffix      string                 `json:"suffix"`
	ValueLabel  string                 `json:"value_label" validate:"required"`
	Description string                 `json:"description" validate:"required"`
	Coercion    reshape.CoercionMode   `json:"coercion,omitempty" validate:"omitempty,oneof=thresholded unconditional none"`
	Header      reshape.HeaderStrategy `json:"header,omitempty" validate:"omitempty,oneof=positional offset_corrected"`
	OutputName  string                 `json:"output_name,omitempty"`
}

// Validate checks the target definition.
func (t Target) Validate() error {
	if err := validator.New().Struct(t); err != nil {
		return errors.NewValidationError("invalid conversion target", err)
	}
	return nil
}

// pipelineConfig expands the target into a pipeline configuration.
func (t Target) pipelineConfig() reshape.PipelineConfig {
	cfg := reshape.DefaultPipelineConfig()
	cfg.ValueLabel = t.ValueLabel
	if t.Coercion != "" {
		cfg.Coercion = t.Coercion
	}
	if t.Header != "" {
		cfg.Header = t.Header
	}
	return cfg
}

// DefaultTargets returns the five standard conversions in run order. The
// "announcemnet date.xlsx" spelling matches the workbook as delivered.
func DefaultTargets() []Target {
	return []Target{
		{File: "stock price.xlsx", Suffix: "_prices", ValueLabel: "Price", Description: "Stock Prices"},
		{File: "tv.xlsx", Suffix: "_volume", ValueLabel: "Volume", Description: "Trading Volume"},
		{File: "mkt cap.xlsx", Suffix: "_market_cap", ValueLabel: "MarketCap", Description: "Market Capitalization"},
		{File: "book value.xlsx", Suffix: "_book_value", ValueLabel: "BookValue", Description: "Book Value (Quarterly)"},
		{File: "announcemnet date.xlsx", Suffix: "_announcement", ValueLabel: "AnnouncementDate", Description: "Announcement Dates"},
	}
}
