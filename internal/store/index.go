package store

import (
	"github.com/jengzang/peopleflow-backend-go/internal/models"
)

// Key is the composite lookup key of the index: one key identifies the
// snapshot of all locations at a time slice.
type Key struct {
	Period      int
	Hour        int
	DayCategory models.DayCategory
}

// Index maps a (period, hour, day category) key to the matching subset
// of the store's records. It keeps ordinals into the store's flat
// collection rather than copies, and is immutable after BuildIndex.
type Index struct {
	store *Store
	byKey map[Key][]int32
}

// BuildIndex builds the lookup structure in one pass over the store's
// records, preserving source order within each key.
func BuildIndex(s *Store) *Index {
	ix := &Index{
		store: s,
		byKey: make(map[Key][]int32),
	}

	for i, r := range s.records {
		k := Key{Period: r.Period, Hour: r.Hour, DayCategory: r.DayCategory}
		ix.byKey[k] = append(ix.byKey[k], int32(i))
	}

	return ix
}

// Lookup returns the subset matching the key, in source order. An
// absent key yields an empty, non-nil subset: no data under a valid
// filter is an expected outcome, not an error.
func (ix *Index) Lookup(period, hour int, day models.DayCategory) []models.FlowRecord {
	ordinals := ix.byKey[Key{Period: period, Hour: hour, DayCategory: day}]
	subset := make([]models.FlowRecord, len(ordinals))
	for i, ord := range ordinals {
		subset[i] = ix.store.records[ord]
	}
	return subset
}

// Size returns the number of records under the key without
// materializing the subset.
func (ix *Index) Size(period, hour int, day models.DayCategory) int {
	return len(ix.byKey[Key{Period: period, Hour: hour, DayCategory: day}])
}

// Periods returns the distinct periods observed, ascending.
func (ix *Index) Periods() []int {
	return ix.store.report.Periods
}

// Hours returns the distinct hours observed, ascending.
func (ix *Index) Hours() []int {
	return ix.store.report.Hours
}

// DayCategories returns the distinct day categories observed.
func (ix *Index) DayCategories() []models.DayCategory {
	return ix.store.report.DayCategories
}
