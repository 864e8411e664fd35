package spatial

import (
	"math"
)

// Point represents a 2D point with latitude and longitude
type Point struct {
	Lat float64
	Lng float64
}

// Centroid calculates the geographic centroid of a set of points
func Centroid(points []Point) Point {
	if len(points) == 0 {
		return Point{}
	}

	var sumLat, sumLng float64
	for _, p := range points {
		sumLat += p.Lat
		sumLng += p.Lng
	}

	return Point{
		Lat: sumLat / float64(len(points)),
		Lng: sumLng / float64(len(points)),
	}
}

// WeightedCentroid calculates the weighted centroid of a set of points.
// Points without a matching weight count as weight 1.
func WeightedCentroid(points []Point, weights []float64) Point {
	if len(points) == 0 {
		return Point{}
	}

	var sumLat, sumLng, sumWeights float64
	for i, p := range points {
		w := 1.0
		if i < len(weights) {
			w = weights[i]
		}
		sumLat += p.Lat * w
		sumLng += p.Lng * w
		sumWeights += w
	}

	if sumWeights == 0 {
		return Centroid(points)
	}

	return Point{
		Lat: sumLat / sumWeights,
		Lng: sumLng / sumWeights,
	}
}

// WeightedSpread calculates the weighted RMS great-circle distance of
// the points around a center, in meters. This measures the spatial
// dispersion of a subset.
func WeightedSpread(points []Point, weights []float64, center Point) float64 {
	if len(points) == 0 {
		return 0
	}

	var sumWeightedSq, sumWeights float64
	for i, p := range points {
		w := 1.0
		if i < len(weights) {
			w = weights[i]
		}
		dist := HaversineDistance(center.Lat, center.Lng, p.Lat, p.Lng)
		sumWeightedSq += w * dist * dist
		sumWeights += w
	}

	if sumWeights == 0 {
		return 0
	}

	return math.Sqrt(sumWeightedSq / sumWeights)
}
