package stats

import (
	"sort"

	"github.com/jengzang/peopleflow-backend-go/internal/models"
	"github.com/jengzang/peopleflow-backend-go/internal/spatial"
)

// DefaultTopN is the ranking length used when the caller does not ask
// for a specific one.
const DefaultTopN = 5

// Summarize computes the descriptive statistics of a record subset.
// An empty subset yields a Summary with HasData=false and every
// numeric field at zero; demographic averages are unweighted means of
// the per-record percentages. The result is deterministic for a given
// subset: the top-locations ranking orders by presence descending with
// ties broken by ascending latitude, then ascending longitude.
func Summarize(records []models.FlowRecord, topN int) models.Summary {
	if topN <= 0 {
		topN = DefaultTopN
	}

	if len(records) == 0 {
		return models.Summary{TopLocations: []models.TopLocation{}}
	}

	n := len(records)
	totals := make([]float64, n)
	male := make([]float64, n)
	female := make([]float64, n)
	points := make([]spatial.Point, n)

	var ages [10][]float64
	for b := range ages {
		ages[b] = make([]float64, n)
	}

	summary := models.Summary{
		HasData:     true,
		RecordCount: n,
	}

	for i, r := range records {
		totals[i] = r.TotalUsers
		male[i] = r.MalePct
		female[i] = r.FemalePct
		points[i] = spatial.Point{Lat: r.Lat, Lng: r.Lng}

		vec := r.AgeShares.Vector()
		for b := range vec {
			ages[b][i] = vec[b]
		}

		summary.Duration.Short += r.StayShort
		summary.Duration.Medium += r.StayMedium
		summary.Duration.Long += r.StayLong
	}

	summary.TotalPresence = Sum(totals)
	summary.Gender = models.GenderAverages{
		MalePct:   Mean(male),
		FemalePct: Mean(female),
	}

	var ageMeans [10]float64
	for b := range ages {
		ageMeans[b] = Mean(ages[b])
	}
	summary.Age = models.AgeSharesFromVector(ageMeans)

	summary.TopLocations = topLocations(records, topN)

	center := spatial.WeightedCentroid(points, totals)
	summary.Center = &models.GeoPoint{Lat: center.Lat, Lng: center.Lng}
	summary.SpreadMeters = spatial.WeightedSpread(points, totals, center)

	return summary
}

// topLocations ranks the subset by total presence and truncates to
// topN without mutating the caller's slice.
func topLocations(records []models.FlowRecord, topN int) []models.TopLocation {
	ranked := make([]models.FlowRecord, len(records))
	copy(ranked, records)

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.TotalUsers != b.TotalUsers {
			return a.TotalUsers > b.TotalUsers
		}
		if a.Lat != b.Lat {
			return a.Lat < b.Lat
		}
		return a.Lng < b.Lng
	})

	if len(ranked) > topN {
		ranked = ranked[:topN]
	}

	top := make([]models.TopLocation, len(ranked))
	for i, r := range ranked {
		top[i] = models.TopLocation{
			Lat:        r.Lat,
			Lng:        r.Lng,
			GX:         r.GX,
			GY:         r.GY,
			Value:      r.TotalUsers,
			StayShort:  r.StayShort,
			StayMedium: r.StayMedium,
			StayLong:   r.StayLong,
		}
	}
	return top
}
