package reshape

import (
	"github.com/go-playground/validator/v10"

	"twxcli/internal/errors"
)

// CoercionMode selects how the pipeline treats value text after filtering.
type CoercionMode string

const (
	// CoercionThresholded commits numeric parsing only when the success
	// ratio clears the configured threshold.
	CoercionThresholded CoercionMode = "thresholded"
	// CoercionUnconditional always commits and drops unparseable rows.
	CoercionUnconditional CoercionMode = "unconditional"
	// CoercionNone leaves values exactly as they were read.
	CoercionNone CoercionMode = "none"
)

// HeaderStrategy selects how column roles are detected.
type HeaderStrategy string

const (
	// HeaderPositional takes labels from the sheet header row.
	HeaderPositional HeaderStrategy = "positional"
	// HeaderOffsetCorrected promotes the first data row to labels, for
	// sheets whose real header sits one row below a garbled one.
	HeaderOffsetCorrected HeaderStrategy = "offset_corrected"
)

const (
	// SentinelDash is the placeholder the source sheets use for "no data".
	SentinelDash = "-"
	// DefaultCoercionThreshold is the success ratio a text column must
	// exceed (strictly) before it is reinterpreted as numeric.
	DefaultCoercionThreshold = 0.8
)

// PipelineConfig parameterizes one wide-to-long conversion.
type PipelineConfig struct {
	ValueLabel        string         `validate:"required"`
	Coercion          CoercionMode   `validate:"oneof=thresholded unconditional none"`
	Header            HeaderStrategy `validate:"oneof=positional offset_corrected"`
	SentinelValues    []string
	CoercionThreshold float64 `validate:"gt=0,lt=1"`
}

// DefaultPipelineConfig returns the configuration shared by the daily
// conversion targets. ValueLabel is left for the caller to fill in.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Coercion:          CoercionThresholded,
		Header:            HeaderPositional,
		SentinelValues:    []string{SentinelDash},
		CoercionThreshold: DefaultCoercionThreshold,
	}
}

// Validate checks the configuration before a pipeline is built from it.
func (c PipelineConfig) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.NewValidationError("invalid pipeline configuration", err)
	}
	return nil
}
