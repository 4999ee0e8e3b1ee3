// Package reader loads Excel workbooks into raw grids for reshaping.
// It reads the first worksheet only, keeps cell values as their displayed
// text, and records how each cell was stored so later stages can tell
// text-typed numbers apart from genuinely numeric cells.
package reader

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"twxcli/internal/errors"
	"twxcli/pkg/contracts/domain"
)

// Reader loads wide-layout workbooks from disk.
type Reader struct {
	logger *slog.Logger
}

// NewReader creates a workbook reader.
func NewReader(logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{logger: logger}
}

// ReadGrid loads the first worksheet of the workbook at path into a RawGrid.
// Row 0 becomes the header; every following row becomes a data row padded to
// the grid width. Cell text is trimmed and kept exactly as displayed.
func (r *Reader) ReadGrid(ctx context.Context, path string) (*domain.RawGrid, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, errors.NewAppError(errors.ErrTypeNotFound,
			fmt.Sprintf("input workbook %s", path), errors.ErrFileNotFound)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.NewParsingError("failed to open workbook", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.NewParsingError("workbook contains no sheets", errors.ErrEmptyWorkbook)
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.NewParsingError(fmt.Sprintf("failed to read sheet %q", sheet), err)
	}
	if len(rows) == 0 {
		return nil, errors.NewParsingError(fmt.Sprintf("sheet %q is empty", sheet), errors.ErrEmptyWorkbook)
	}

	// GetRows trims trailing empty cells, so the widest row wins.
	width := len(rows[0])
	for _, row := range rows[1:] {
		if len(row) > width {
			width = len(row)
		}
	}

	header := make([]string, width)
	for j := range header {
		if j < len(rows[0]) {
			header[j] = strings.TrimSpace(rows[0][j])
		}
	}

	data := make([][]domain.Cell, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		cells := make([]domain.Cell, width)
		for j := 0; j < width; j++ {
			if j >= len(rows[i]) {
				cells[j] = domain.EmptyCell()
				continue
			}
			cells[j], err = r.readCell(f, sheet, i, j, rows[i][j])
			if err != nil {
				return nil, err
			}
		}
		data = append(data, cells)
	}

	r.logger.InfoContext(ctx, "workbook loaded",
		slog.String("path", path),
		slog.String("sheet", sheet),
		slog.Int("columns", width),
		slog.Int("rows", len(data)))

	return &domain.RawGrid{Source: path, Header: header, Rows: data}, nil
}

// readCell classifies one cell. Coordinates are zero-based over the GetRows
// result, so sheet row numbers are offset by one.
func (r *Reader) readCell(f *excelize.File, sheet string, row, col int, value string) (domain.Cell, error) {
	text := strings.TrimSpace(value)
	if text == "" {
		return domain.EmptyCell(), nil
	}

	axis, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return domain.Cell{}, errors.NewParsingError("failed to resolve cell coordinates", err)
	}
	cellType, err := f.GetCellType(sheet, axis)
	if err != nil {
		return domain.Cell{}, errors.NewParsingError(fmt.Sprintf("failed to read cell type at %s", axis), err)
	}

	switch cellType {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString:
		return domain.TextCell(text), nil
	case excelize.CellTypeNumber, excelize.CellTypeDate:
		return domain.NumberCell(text), nil
	default:
		// Plain numeric cells carry no explicit type attribute, and formula
		// results can be either; probe the displayed text.
		probe := strings.ReplaceAll(text, ",", "")
		if _, perr := strconv.ParseFloat(probe, 64); perr == nil {
			return domain.NumberCell(text), nil
		}
		return domain.TextCell(text), nil
	}
}
