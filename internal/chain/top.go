package chain

import (
	"options-dashboard/internal/models"
	"options-dashboard/internal/table"
)

// DefaultTopN is the number of rows shown in the most-active table.
const DefaultTopN = 20

// Tag returns the raw table for contracts with a type column appended.
func Tag(contracts []models.Contract, typ models.OptionType) *table.Table {
	t := ContractsTable(contracts)
	types := make([]any, t.Len())
	for i := range types {
		types[i] = string(typ)
	}
	_ = t.Add(ColType, types)
	return t
}

// Combine unions calls and puts, calls first, with a type column.
func Combine(calls, puts []models.Contract) (*table.Table, error) {
	return table.Concat(Tag(calls, models.OptionTypeCall), Tag(puts, models.OptionTypePut))
}

// TopByVolume returns the n most traded contracts across both sides,
// normalized for display. Ties keep calls before puts; missing volume sorts last.
func TopByVolume(calls, puts []models.Contract, n int) (*table.Table, error) {
	combined, err := Combine(calls, puts)
	if err != nil {
		return nil, err
	}
	sorted, err := combined.SortBy(ColVolume, true)
	if err != nil {
		return nil, err
	}
	return Normalize(sorted.Head(n)), nil
}
