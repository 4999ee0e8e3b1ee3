package reshape

import (
	"twxcli/pkg/contracts/domain"
)

// FilterSentinels removes records whose value is absent or one of the
// sentinel markers. It is a pure row filter: applying it to an already
// filtered table removes nothing further. The removed count is returned
// alongside the filtered table.
func FilterSentinels(table *domain.LongTable, sentinels []string) (*domain.LongTable, int) {
	kept := make([]domain.LongRecord, 0, len(table.Records))
	for _, rec := range table.Records {
		if rec.Value == "" || isSentinel(rec.Value, sentinels) {
			continue
		}
		kept = append(kept, rec)
	}

	return &domain.LongTable{
		ValueLabel: table.ValueLabel,
		Records:    kept,
		Numeric:    table.Numeric,
		TextSource: table.TextSource,
	}, len(table.Records) - len(kept)
}

func isSentinel(value string, sentinels []string) bool {
	for _, s := range sentinels {
		if value == s {
			return true
		}
	}
	return false
}
