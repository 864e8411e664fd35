package spatial

import (
	"github.com/golang/geo/s2"
)

// BoundingBox is the geographic acceptance region for projected
// records. Rows whose derived coordinates fall outside it are rejected
// at load time.
type BoundingBox struct {
	rect s2.Rect
}

// NewBoundingBox builds a box from its south-west and north-east
// corners, in degrees.
func NewBoundingBox(minLat, minLng, maxLat, maxLng float64) BoundingBox {
	rect := s2.RectFromLatLng(s2.LatLngFromDegrees(minLat, minLng))
	rect = rect.AddPoint(s2.LatLngFromDegrees(maxLat, maxLng))
	return BoundingBox{rect: rect}
}

// Contains reports whether the point lies inside the box, edges
// included.
func (b BoundingBox) Contains(lat, lng float64) bool {
	return b.rect.ContainsLatLng(s2.LatLngFromDegrees(lat, lng))
}
