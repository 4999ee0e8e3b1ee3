package reshape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"twxcli/pkg/contracts/domain"
)

func TestFilterSentinels(t *testing.T) {
	// 2 periods x 2 stocks with one "-" placeholder.
	wide := &domain.WideTable{
		Identifier: domain.ColumnRef{Label: "Date", Index: 0},
		ValueColumns: []domain.ColumnRef{
			{Label: "S1", Index: 1},
			{Label: "S2", Index: 2},
		},
		Rows: [][]domain.Cell{
			{domain.TextCell("P1"), domain.TextCell("100"), domain.TextCell("-")},
			{domain.TextCell("P2"), domain.TextCell("200"), domain.TextCell("300")},
		},
	}

	long := Unpivot(wide, "Price")
	require.Equal(t, 4, long.Len())

	filtered, removed := FilterSentinels(long, []string{SentinelDash})
	assert.Equal(t, 1, removed)
	require.Equal(t, 3, filtered.Len())

	assert.Equal(t, domain.LongRecord{Date: "P1", Stock: "S1", Value: "100"}, filtered.Records[0])
	assert.Equal(t, domain.LongRecord{Date: "P2", Stock: "S1", Value: "200"}, filtered.Records[1])
	assert.Equal(t, domain.LongRecord{Date: "P2", Stock: "S2", Value: "300"}, filtered.Records[2])
}

func TestFilterSentinels_Idempotent(t *testing.T) {
	table := &domain.LongTable{
		ValueLabel: "Price",
		Records: []domain.LongRecord{
			{Date: "P1", Stock: "S1", Value: "100"},
			{Date: "P1", Stock: "S2", Value: "-"},
			{Date: "P2", Stock: "S1", Value: ""},
			{Date: "P2", Stock: "S2", Value: "300"},
		},
	}

	once, removed := FilterSentinels(table, []string{SentinelDash})
	assert.Equal(t, 2, removed)

	twice, removedAgain := FilterSentinels(once, []string{SentinelDash})
	assert.Equal(t, 0, removedAgain)
	assert.Equal(t, once.Records, twice.Records)
}

func TestFilterSentinels_KeepsTableMetadata(t *testing.T) {
	table := &domain.LongTable{
		ValueLabel: "Volume",
		TextSource: true,
		Records: []domain.LongRecord{
			{Date: "P1", Stock: "S1", Value: "63,292,145"},
		},
	}

	filtered, removed := FilterSentinels(table, []string{SentinelDash})
	assert.Equal(t, 0, removed)
	assert.Equal(t, "Volume", filtered.ValueLabel)
	assert.True(t, filtered.TextSource)
}
