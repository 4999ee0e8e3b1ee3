package domain

import (
	"time"
)

// ConversionResult represents the outcome of converting one configured file.
// Created once per file per batch run and never mutated afterwards.
type ConversionResult struct {
	ID          string        `json:"id"`
	SourceFile  string        `json:"source_file"`
	OutputFile  string        `json:"output_file,omitempty"`
	Description string        `json:"description"`
	RowCount    int           `json:"row_count"`
	Success     bool          `json:"success"`
	Error       string        `json:"error,omitempty"`
	Duration    time.Duration `json:"duration"`
}

// BatchSummary represents the aggregated outcome of one batch run
type BatchSummary struct {
	RunID      string             `json:"run_id"`
	StartedAt  time.Time          `json:"started_at"`
	Duration   time.Duration      `json:"duration"`
	Results    []ConversionResult `json:"results"`
	Successful int                `json:"successful"`
	Total      int                `json:"total"`
	TotalRows  int                `json:"total_rows"`
}
