package store_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jengzang/peopleflow-backend-go/internal/models"
	"github.com/jengzang/peopleflow-backend-go/internal/projection"
	"github.com/jengzang/peopleflow-backend-go/internal/source"
	"github.com/jengzang/peopleflow-backend-go/internal/spatial"
	"github.com/jengzang/peopleflow-backend-go/internal/store"
)

const csvHeader = "month,gx,gy,hour,day_type," +
	"avg_total_users,avg_users_under_10min,avg_users_10_30min,avg_users_over_30min," +
	"sex_1,sex_2,age_1,age_2,age_3,age_4,age_5,age_6,age_7,age_8,age_9,age_other"

// row builds a valid CSV line; dwell buckets are 40/30/20% of total and
// every percentage sums correctly.
func row(period, gx, gy, hour int, day string, total float64) string {
	return fmt.Sprintf("%d,%d,%d,%d,%s,%.1f,%.1f,%.1f,%.1f,51.2,48.8,10,10,10,10,10,10,10,10,10,10",
		period, gx, gy, hour, day, total, total*0.4, total*0.3, total*0.2)
}

func testProjector() *projection.Projector {
	return projection.New(projection.Params{
		SemiMajorAxis:     6378137.0,
		InverseFlattening: 298.257222101,
		CentralMeridian:   121.0,
		LatitudeOrigin:    0.0,
		ScaleFactor:       0.9999,
		FalseEasting:      250000.0,
		FalseNorthing:     0.0,
	})
}

func testBounds() spatial.BoundingBox {
	return spatial.NewBoundingBox(21.5, 119.5, 25.5, 122.5)
}

func load(t *testing.T, lines ...string) (*store.Store, error) {
	t.Helper()
	data := csvHeader + "\n" + strings.Join(lines, "\n")
	src := source.NewCSVReader(strings.NewReader(data), source.DefaultColumns())
	return store.Load(src, testProjector(), testBounds(), store.Options{}, zap.NewNop())
}

func TestLoadPartialSuccess(t *testing.T) {
	lines := make([]string, 0, 101)
	for i := 0; i < 100; i++ {
		lines = append(lines, row(202412, 250000+i*100, 2600000+i*500, i%24, "平日", 100))
	}
	// One corrupt row among a hundred must not deny the dataset
	lines = append(lines, row(202412, 250000, 2600000, 99, "平日", 100))

	s, err := load(t, lines...)
	require.NoError(t, err)

	report := s.Report()
	assert.Equal(t, 100, report.TotalLoaded)
	assert.Equal(t, 1, report.TotalRejected)
	assert.Equal(t, 1, report.Reasons[store.ReasonHour])
	assert.Len(t, s.Records(), 100)
}

func TestLoadProjectsOnce(t *testing.T) {
	s, err := load(t, row(202412, 250000, 2767000, 8, "平日", 100))
	require.NoError(t, err)

	r := s.Records()[0]
	assert.InDelta(t, 25.011, r.Lat, 1e-3)
	assert.InDelta(t, 121.0, r.Lng, 1e-3)
	assert.Equal(t, models.DayWeekday, r.DayCategory)
	assert.NotEmpty(t, r.Geohash)
}

func TestLoadRejectionReasons(t *testing.T) {
	cases := []struct {
		name   string
		line   string
		reason string
	}{
		{"unparseable field", strings.Replace(row(202412, 250000, 2600000, 8, "平日", 100), "250000", "x", 1), store.ReasonParse},
		{"period not YYYYMM", row(202413, 250000, 2600000, 8, "平日", 100), store.ReasonPeriod},
		{"hour out of range", row(202412, 250000, 2600000, 24, "平日", 100), store.ReasonHour},
		{"unknown day category", row(202412, 250000, 2600000, 8, "someday", 100), store.ReasonDayCategory},
		{"negative presence", row(202412, 250000, 2600000, 8, "平日", -5), store.ReasonPresence},
		{"projects outside bounds", row(202412, 250000, 3900000, 8, "平日", 100), store.ReasonOutOfBounds},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			// One good row keeps the load itself alive
			s, err := load(t, row(202412, 250000, 2600000, 8, "平日", 100), tc.line)
			require.NoError(t, err)

			report := s.Report()
			assert.Equal(t, 1, report.TotalLoaded)
			assert.Equal(t, 1, report.TotalRejected)
			assert.Equal(t, 1, report.Reasons[tc.reason], "expected reason %s, got %v", tc.reason, report.Reasons)
		})
	}
}

func TestLoadPercentValidation(t *testing.T) {
	t.Run("sex shares must sum to 100", func(t *testing.T) {
		bad := strings.Replace(row(202412, 250000, 2600000, 8, "平日", 100), "51.2,48.8", "60.0,60.0", 1)
		_, err := load(t, bad)
		assert.ErrorIs(t, err, store.ErrNoValidRows)
	})

	t.Run("share outside 0-100 is rejected", func(t *testing.T) {
		bad := strings.Replace(row(202412, 250000, 2600000, 8, "平日", 100), "51.2,48.8", "151.2,-51.2", 1)
		_, err := load(t, bad)
		assert.ErrorIs(t, err, store.ErrNoValidRows)
	})

	t.Run("dwell buckets may not exceed total", func(t *testing.T) {
		bad := "202412,250000,2600000,8,平日,10,40,30,20,51.2,48.8,10,10,10,10,10,10,10,10,10,10"
		s, err := load(t, row(202412, 250000, 2600000, 8, "平日", 100), bad)
		require.NoError(t, err)
		assert.Equal(t, 1, s.Report().Reasons[store.ReasonDwell])
	})
}

func TestLoadNoValidRowsIsFatal(t *testing.T) {
	_, err := load(t, row(202412, 250000, 2600000, 25, "平日", 100))
	assert.ErrorIs(t, err, store.ErrNoValidRows)
}

func TestLoadMissingSourceIsFatal(t *testing.T) {
	src := source.NewCSVFile("/nonexistent/flow.csv", source.DefaultColumns())
	_, err := store.Load(src, testProjector(), testBounds(), store.Options{}, zap.NewNop())
	require.Error(t, err)
	assert.NotErrorIs(t, err, store.ErrNoValidRows)
}

func TestLoadObservedKeyComponents(t *testing.T) {
	s, err := load(t,
		row(202501, 250000, 2600000, 9, "假日", 50),
		row(202412, 250000, 2600000, 8, "平日", 100),
		row(202412, 251000, 2601000, 8, "平日", 70),
	)
	require.NoError(t, err)

	report := s.Report()
	assert.Equal(t, []int{202412, 202501}, report.Periods)
	assert.Equal(t, []int{8, 9}, report.Hours)
	assert.Equal(t, []models.DayCategory{models.DayHoliday, models.DayWeekday}, report.DayCategories)
}
