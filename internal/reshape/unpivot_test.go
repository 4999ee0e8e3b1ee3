package reshape

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"twxcli/pkg/contracts/domain"
)

func wideFixture(rows, cols int) *domain.WideTable {
	valueColumns := make([]domain.ColumnRef, cols)
	for j := 0; j < cols; j++ {
		valueColumns[j] = domain.ColumnRef{Label: fmt.Sprintf("S%d", j+1), Index: j + 1}
	}
	body := make([][]domain.Cell, rows)
	for i := 0; i < rows; i++ {
		body[i] = make([]domain.Cell, cols+1)
		body[i][0] = domain.TextCell(fmt.Sprintf("P%d", i+1))
		for j := 0; j < cols; j++ {
			body[i][j+1] = domain.TextCell(fmt.Sprintf("%d", (i+1)*100+j))
		}
	}
	return &domain.WideTable{
		Identifier:   domain.ColumnRef{Label: "Date", Index: 0},
		ValueColumns: valueColumns,
		Rows:         body,
	}
}

func TestUnpivot_RecordCount(t *testing.T) {
	tests := []struct {
		rows int
		cols int
	}{
		{rows: 1, cols: 1},
		{rows: 3, cols: 2},
		{rows: 10, cols: 7},
		{rows: 0, cols: 4},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%dx%d", tt.rows, tt.cols), func(t *testing.T) {
			long := Unpivot(wideFixture(tt.rows, tt.cols), "Price")
			assert.Equal(t, tt.rows*tt.cols, long.Len())
		})
	}
}

func TestUnpivot_ColumnMajorOrder(t *testing.T) {
	long := Unpivot(wideFixture(2, 2), "Price")
	require.Equal(t, 4, long.Len())

	assert.Equal(t, "P1", long.Records[0].Date)
	assert.Equal(t, "S1", long.Records[0].Stock)
	assert.Equal(t, "P2", long.Records[1].Date)
	assert.Equal(t, "S1", long.Records[1].Stock)
	assert.Equal(t, "P1", long.Records[2].Date)
	assert.Equal(t, "S2", long.Records[2].Stock)
	assert.Equal(t, "P2", long.Records[3].Date)
	assert.Equal(t, "S2", long.Records[3].Stock)
}

func TestUnpivot_TextSource(t *testing.T) {
	// A text identifier alone does not mark the value column as text.
	numeric := &domain.WideTable{
		Identifier:   domain.ColumnRef{Label: "Date", Index: 0},
		ValueColumns: []domain.ColumnRef{{Label: "S1", Index: 1}},
		Rows: [][]domain.Cell{
			{domain.TextCell("P1"), domain.NumberCell("36.5")},
			{domain.TextCell("P2"), domain.NumberCell("37.0")},
		},
	}
	assert.False(t, Unpivot(numeric, "Price").TextSource)

	mixed := &domain.WideTable{
		Identifier:   domain.ColumnRef{Label: "Date", Index: 0},
		ValueColumns: []domain.ColumnRef{{Label: "S1", Index: 1}},
		Rows: [][]domain.Cell{
			{domain.TextCell("P1"), domain.NumberCell("36.5")},
			{domain.TextCell("P2"), domain.TextCell("-")},
		},
	}
	assert.True(t, Unpivot(mixed, "Price").TextSource)
}

func TestUnpivot_ShortRowsYieldEmptyValues(t *testing.T) {
	wide := &domain.WideTable{
		Identifier:   domain.ColumnRef{Label: "Date", Index: 0},
		ValueColumns: []domain.ColumnRef{{Label: "S1", Index: 1}, {Label: "S2", Index: 2}},
		Rows: [][]domain.Cell{
			{domain.TextCell("P1"), domain.TextCell("100")},
		},
	}

	long := Unpivot(wide, "Price")
	require.Equal(t, 2, long.Len())
	assert.Equal(t, "100", long.Records[0].Value)
	assert.Equal(t, "", long.Records[1].Value)
}
