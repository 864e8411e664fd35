package spatial_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jengzang/peopleflow-backend-go/internal/spatial"
)

func TestBoundingBoxContains(t *testing.T) {
	box := spatial.NewBoundingBox(21.5, 119.5, 25.5, 122.5)

	t.Run("inside", func(t *testing.T) {
		assert.True(t, box.Contains(25.0330, 121.5654))
		assert.True(t, box.Contains(22.6, 120.3))
	})

	t.Run("edges are inside", func(t *testing.T) {
		assert.True(t, box.Contains(21.5, 119.5))
		assert.True(t, box.Contains(25.5, 122.5))
	})

	t.Run("outside", func(t *testing.T) {
		assert.False(t, box.Contains(35.68, 139.69)) // Tokyo
		assert.False(t, box.Contains(0, 0))
		assert.False(t, box.Contains(26.1, 121.0))
	})
}

func TestHaversineDistance(t *testing.T) {
	// Same point
	assert.InDelta(t, 0, spatial.HaversineDistance(25.0, 121.0, 25.0, 121.0), 1e-9)

	// One degree of latitude is about 111 km
	d := spatial.HaversineDistance(24.0, 121.0, 25.0, 121.0)
	assert.InDelta(t, 111000, d, 500)
}

func TestEncodeGeohash(t *testing.T) {
	t.Run("known value", func(t *testing.T) {
		// Reference vector from the geohash specification
		assert.Equal(t, "u4pruydqqvj", spatial.EncodeGeohash(57.64911, 10.40744, 11))
	})

	t.Run("precision clamps", func(t *testing.T) {
		assert.Len(t, spatial.EncodeGeohash(25, 121, 0), 1)
		assert.Len(t, spatial.EncodeGeohash(25, 121, 30), 12)
	})

	t.Run("nearby points share a prefix", func(t *testing.T) {
		a := spatial.EncodeGeohash(25.0330, 121.5654, 8)
		b := spatial.EncodeGeohash(25.0331, 121.5655, 8)
		assert.True(t, strings.HasPrefix(a, b[:5]))
	})
}

func TestWeightedCentroid(t *testing.T) {
	points := []spatial.Point{
		{Lat: 24.0, Lng: 121.0},
		{Lat: 26.0, Lng: 121.0},
	}

	t.Run("equal weights are the midpoint", func(t *testing.T) {
		c := spatial.WeightedCentroid(points, []float64{1, 1})
		assert.InDelta(t, 25.0, c.Lat, 1e-9)
	})

	t.Run("heavier point pulls the centroid", func(t *testing.T) {
		c := spatial.WeightedCentroid(points, []float64{3, 1})
		assert.InDelta(t, 24.5, c.Lat, 1e-9)
	})

	t.Run("zero weights fall back to the plain centroid", func(t *testing.T) {
		c := spatial.WeightedCentroid(points, []float64{0, 0})
		assert.InDelta(t, 25.0, c.Lat, 1e-9)
	})
}

func TestWeightedSpread(t *testing.T) {
	points := []spatial.Point{
		{Lat: 25.0, Lng: 121.0},
		{Lat: 25.0, Lng: 121.0},
	}
	center := spatial.Point{Lat: 25.0, Lng: 121.0}

	assert.InDelta(t, 0, spatial.WeightedSpread(points, []float64{1, 2}, center), 1e-9)
	assert.Equal(t, 0.0, spatial.WeightedSpread(nil, nil, center))
}
