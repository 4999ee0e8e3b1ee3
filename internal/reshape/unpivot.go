package reshape

import (
	"twxcli/pkg/contracts/domain"
)

// Unpivot reshapes a wide table into long form, one record per
// (period row, value column) pair. Traversal is column major: every period
// for the first value column, then the second, and so on. The identifier
// column becomes Date regardless of its original label. Nothing is
// aggregated or deduplicated here.
func Unpivot(table *domain.WideTable, valueLabel string) *domain.LongTable {
	records := make([]domain.LongRecord, 0, len(table.Rows)*len(table.ValueColumns))
	textSource := false

	for _, col := range table.ValueColumns {
		for _, row := range table.Rows {
			cell := cellAt(row, col.Index)
			if cell.Kind == domain.CellText {
				textSource = true
			}
			records = append(records, domain.LongRecord{
				Date:  cellAt(row, table.Identifier.Index).Raw,
				Stock: col.Label,
				Value: cell.Raw,
			})
		}
	}

	return &domain.LongTable{
		ValueLabel: valueLabel,
		Records:    records,
		TextSource: textSource,
	}
}

// cellAt reads a cell by index; rows shorter than the column set yield
// empty cells.
func cellAt(row []domain.Cell, index int) domain.Cell {
	if index < 0 || index >= len(row) {
		return domain.EmptyCell()
	}
	return row[index]
}
