package projection_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/peopleflow-backend-go/internal/projection"
)

// TWD97 / TM2 zone 121 on GRS80, the grid the survey exports use.
func twd97() projection.Params {
	return projection.Params{
		SemiMajorAxis:     6378137.0,
		InverseFlattening: 298.257222101,
		CentralMeridian:   121.0,
		LatitudeOrigin:    0.0,
		ScaleFactor:       0.9999,
		FalseEasting:      250000.0,
		FalseNorthing:     0.0,
	}
}

func TestInverseForwardRoundTrip(t *testing.T) {
	proj := projection.New(twd97())

	grid := []struct {
		gx, gy float64
	}{
		{250000, 2500000},
		{250000, 2767000},
		{170000, 2530000},
		{330000, 2745000},
		{201500, 2652350},
		{298765, 2601234},
	}

	for _, g := range grid {
		lat, lng := proj.Inverse(g.gx, g.gy)
		gx, gy := proj.Forward(lat, lng)

		assert.InDelta(t, g.gx, gx, 0.01, "easting round trip for (%v, %v)", g.gx, g.gy)
		assert.InDelta(t, g.gy, gy, 0.01, "northing round trip for (%v, %v)", g.gx, g.gy)
	}
}

func TestCentralMeridianMapsToFalseEasting(t *testing.T) {
	proj := projection.New(twd97())

	// Any latitude on the central meridian projects to x = false easting
	for _, lat := range []float64{22.0, 23.5, 25.0} {
		gx, _ := proj.Forward(lat, 121.0)
		assert.InDelta(t, 250000.0, gx, 1e-6)
	}

	// And the equator on the central meridian is the grid origin
	gx, gy := proj.Forward(0, 121.0)
	assert.InDelta(t, 250000.0, gx, 1e-6)
	assert.InDelta(t, 0.0, gy, 1e-6)
}

func TestReferencePointPrecision(t *testing.T) {
	proj := projection.New(twd97())

	// Taipei 101 as the documented reference point
	const refLat, refLng = 25.0330, 121.5654

	gx, gy := proj.Forward(refLat, refLng)

	// Sanity: roughly 57 km east of the central meridian, ~2.77e6 m north
	require.Greater(t, gx, 300000.0)
	require.Less(t, gx, 315000.0)
	require.Greater(t, gy, 2.7e6)
	require.Less(t, gy, 2.8e6)

	lat, lng := proj.Inverse(gx, gy)
	assert.InDelta(t, refLat, lat, 1e-5)
	assert.InDelta(t, refLng, lng, 1e-5)
}

func TestInverseIsPureOnWildInput(t *testing.T) {
	proj := projection.New(twd97())

	// Far outside the valid zone: the projector must still return
	// finite numbers; bounds enforcement belongs to the store.
	lat, lng := proj.Inverse(9e6, -4e6)
	assert.False(t, math.IsNaN(lat) || math.IsInf(lat, 0))
	assert.False(t, math.IsNaN(lng) || math.IsInf(lng, 0))
}

func TestInverseMonotonicNorthing(t *testing.T) {
	proj := projection.New(twd97())

	prev := math.Inf(-1)
	for gy := 2.4e6; gy <= 2.8e6; gy += 50000 {
		lat, _ := proj.Inverse(250000, gy)
		assert.Greater(t, lat, prev, "latitude must grow with northing")
		prev = lat
	}
}
