package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/peopleflow-backend-go/internal/models"
	"github.com/jengzang/peopleflow-backend-go/internal/store"
)

func buildIndexed(t *testing.T) *store.Index {
	t.Helper()
	s, err := load(t,
		row(202412, 250000, 2600000, 8, "平日", 10),
		row(202412, 251000, 2601000, 8, "平日", 25),
		row(202412, 252000, 2602000, 8, "平日", 5),
		row(202412, 250000, 2600000, 9, "平日", 40),
		row(202501, 250000, 2600000, 8, "假日", 60),
	)
	require.NoError(t, err)
	return store.BuildIndex(s)
}

func TestLookupObservedKeys(t *testing.T) {
	ix := buildIndexed(t)

	// Every observed triple must return a non-empty subset whose
	// records all carry exactly that key
	for _, period := range ix.Periods() {
		for _, hour := range ix.Hours() {
			for _, day := range ix.DayCategories() {
				subset := ix.Lookup(period, hour, day)
				for _, r := range subset {
					assert.Equal(t, period, r.Period)
					assert.Equal(t, hour, r.Hour)
					assert.Equal(t, day, r.DayCategory)
				}
			}
		}
	}

	subset := ix.Lookup(202412, 8, models.DayWeekday)
	require.Len(t, subset, 3)

	// Insertion order from the source is preserved
	assert.Equal(t, 10.0, subset[0].TotalUsers)
	assert.Equal(t, 25.0, subset[1].TotalUsers)
	assert.Equal(t, 5.0, subset[2].TotalUsers)
}

func TestLookupUnobservedKeyIsEmpty(t *testing.T) {
	ix := buildIndexed(t)

	subset := ix.Lookup(202506, 8, models.DayWeekday)
	assert.NotNil(t, subset)
	assert.Empty(t, subset)

	assert.Empty(t, ix.Lookup(202412, 23, models.DayWeekday))
	assert.Empty(t, ix.Lookup(202412, 8, models.DayHoliday))
}

func TestIndexSize(t *testing.T) {
	ix := buildIndexed(t)

	assert.Equal(t, 3, ix.Size(202412, 8, models.DayWeekday))
	assert.Equal(t, 1, ix.Size(202501, 8, models.DayHoliday))
	assert.Equal(t, 0, ix.Size(209912, 0, models.DayWeekday))
}

func TestIndexKeyComponents(t *testing.T) {
	ix := buildIndexed(t)

	assert.Equal(t, []int{202412, 202501}, ix.Periods())
	assert.Equal(t, []int{8, 9}, ix.Hours())
	assert.Equal(t, []models.DayCategory{models.DayHoliday, models.DayWeekday}, ix.DayCategories())
}
