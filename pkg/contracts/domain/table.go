package domain

import (
	"strconv"
)

// CellKind classifies how a cell was stored in the source sheet
type CellKind string

const (
	CellEmpty  CellKind = "empty"
	CellText   CellKind = "text"
	CellNumber CellKind = "number"
)

// Cell represents a single sheet cell: its display text and storage kind
type Cell struct {
	Raw  string   `json:"raw"`
	Kind CellKind `json:"kind"`
}

// TextCell builds a text-kind cell
func TextCell(s string) Cell {
	return Cell{Raw: s, Kind: CellText}
}

// NumberCell builds a number-kind cell from its display text
func NumberCell(s string) Cell {
	return Cell{Raw: s, Kind: CellNumber}
}

// EmptyCell builds an empty cell
func EmptyCell() Cell {
	return Cell{Kind: CellEmpty}
}

// IsEmpty reports whether the cell carries no value
func (c Cell) IsEmpty() bool {
	return c.Kind == CellEmpty || c.Raw == ""
}

// RawGrid represents a sheet exactly as loaded: row 0 as the header,
// everything after it as data rows. No column roles are assigned yet.
type RawGrid struct {
	Source string   `json:"source"`
	Header []string `json:"header"`
	Rows   [][]Cell `json:"rows"`
}

// ColumnRef identifies one column by label and zero-based position
type ColumnRef struct {
	Label string `json:"label"`
	Index int    `json:"index"`
}

// WideTable represents a wide-layout table with explicit column roles:
// one identifier column (always position 0) and N value columns, one per
// stock. Produced only by a detection step, never constructed ad hoc.
type WideTable struct {
	Source       string      `json:"source"`
	Identifier   ColumnRef   `json:"identifier"`
	ValueColumns []ColumnRef `json:"value_columns"`
	Rows         [][]Cell    `json:"rows"`
}

// LongRecord represents one (date, stock, value) observation in long layout.
// Value holds the cleaned textual form; Num carries the parsed number once
// a coercion has committed, signalled by Numeric.
type LongRecord struct {
	Date    string  `json:"date"`
	Stock   string  `json:"stock"`
	Value   string  `json:"value"`
	Num     float64 `json:"num,omitempty"`
	Numeric bool    `json:"numeric,omitempty"`
}

// OutputValue returns the cell text to persist: the canonical numeric form
// when the value committed as numeric, the cleaned text otherwise.
func (r LongRecord) OutputValue() string {
	if r.Numeric {
		return strconv.FormatFloat(r.Num, 'f', -1, 64)
	}
	return r.Value
}

// LongTable represents an ordered sequence of long records for one metric.
// Record order follows the unpivot traversal (all dates for the first stock
// column, then the second, and so on); nothing downstream depends on it
// beyond head-N samples. TextSource records whether any value cell was
// stored as text in the source sheet; numeric coercion keys off it.
type LongTable struct {
	ValueLabel string       `json:"value_label"`
	Records    []LongRecord `json:"records"`
	Numeric    bool         `json:"numeric"`
	TextSource bool         `json:"text_source,omitempty"`
}

// Len returns the number of records in the table
func (t *LongTable) Len() int {
	return len(t.Records)
}
