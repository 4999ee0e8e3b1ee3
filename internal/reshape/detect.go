package reshape

import (
	"fmt"

	"twxcli/internal/errors"
	"twxcli/pkg/contracts/domain"
)

// HeaderDetector assigns column roles to a raw grid: the first column is
// the identifier, everything after it is a value column. Implementations
// differ only in where the column labels come from.
type HeaderDetector interface {
	Detect(grid *domain.RawGrid) (*domain.WideTable, error)
}

// NewHeaderDetector returns the detector for the given strategy.
func NewHeaderDetector(strategy HeaderStrategy) (HeaderDetector, error) {
	switch strategy {
	case HeaderPositional:
		return positionalDetector{}, nil
	case HeaderOffsetCorrected:
		return offsetDetector{}, nil
	default:
		return nil, errors.NewConfigError(fmt.Sprintf("unknown header strategy %q", strategy), nil)
	}
}

// positionalDetector takes labels straight from the header row.
type positionalDetector struct{}

func (positionalDetector) Detect(grid *domain.RawGrid) (*domain.WideTable, error) {
	if len(grid.Header) < 2 {
		return nil, errors.NewValidationError("sheet needs an identifier column and at least one value column", nil)
	}
	return &domain.WideTable{
		Source:       grid.Source,
		Identifier:   domain.ColumnRef{Label: grid.Header[0], Index: 0},
		ValueColumns: columnRefs(grid.Header[1:]),
		Rows:         grid.Rows,
	}, nil
}

// offsetDetector promotes the first data row to the label sequence and
// drops it from the body. The promoted row is validated up front so a
// sheet that does not carry the secondary header fails loudly instead of
// producing mislabeled columns.
type offsetDetector struct{}

func (offsetDetector) Detect(grid *domain.RawGrid) (*domain.WideTable, error) {
	if len(grid.Rows) == 0 {
		return nil, errors.NewValidationError("sheet has no embedded header row to promote", nil)
	}
	labelRow := grid.Rows[0]
	if len(labelRow) < 2 {
		return nil, errors.NewValidationError("embedded header row needs an identifier column and at least one value column", nil)
	}

	labels := make([]string, len(labelRow))
	for j, cell := range labelRow {
		if cell.IsEmpty() {
			return nil, errors.NewValidationError(
				fmt.Sprintf("embedded header row is blank at column %d", j+1), nil)
		}
		if cell.Kind == domain.CellNumber {
			return nil, errors.NewValidationError(
				fmt.Sprintf("embedded header row holds the number %q at column %d, so row 1 looks like data", cell.Raw, j+1), nil)
		}
		labels[j] = cell.Raw
	}

	return &domain.WideTable{
		Source:       grid.Source,
		Identifier:   domain.ColumnRef{Label: labels[0], Index: 0},
		ValueColumns: columnRefs(labels[1:]),
		Rows:         grid.Rows[1:],
	}, nil
}

// columnRefs builds value-column references for labels starting at index 1.
func columnRefs(labels []string) []domain.ColumnRef {
	refs := make([]domain.ColumnRef, len(labels))
	for i, label := range labels {
		refs[i] = domain.ColumnRef{Label: label, Index: i + 1}
	}
	return refs
}
