package stats

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"twxcli/internal/errors"
	"twxcli/pkg/contracts/domain"
)

// LoadLongCSV reads a converted long-format CSV back into a table. The
// value label is taken from the third header column; records whose value
// parses as a number come back numeric.
func LoadLongCSV(path string) (*domain.LongTable, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewAppError(errors.ErrTypeNotFound,
				fmt.Sprintf("converted file %s", path), errors.ErrFileNotFound)
		}
		return nil, errors.NewStorageError("failed to open converted file", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, errors.NewParsingError(fmt.Sprintf("failed to parse %s", path), err)
	}
	if len(rows) == 0 {
		return nil, errors.NewParsingError(fmt.Sprintf("converted file %s is empty", path), nil)
	}

	header := rows[0]
	// Report files may carry a UTF-8 BOM.
	header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	if len(header) != 3 {
		return nil, errors.NewParsingError(
			fmt.Sprintf("converted file %s has %d columns, want 3", path, len(header)), nil)
	}

	table := &domain.LongTable{ValueLabel: header[2], Numeric: len(rows) > 1}
	for _, row := range rows[1:] {
		rec := domain.LongRecord{Date: row[0], Stock: row[1], Value: row[2]}
		if num, perr := strconv.ParseFloat(row[2], 64); perr == nil {
			rec.Num = num
			rec.Numeric = true
		} else {
			table.Numeric = false
		}
		table.Records = append(table.Records, rec)
	}

	return table, nil
}
