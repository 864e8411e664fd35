package models

// GeoPoint is a plain latitude/longitude pair.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// TopLocation is one entry of a summary's presence ranking. It carries
// both coordinate systems so a caller can cross-reference the source
// grid cell.
type TopLocation struct {
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
	GX         int     `json:"gx"`
	GY         int     `json:"gy"`
	Value      float64 `json:"value"`
	StayShort  float64 `json:"under_10min"`
	StayMedium float64 `json:"min_10_30"`
	StayLong   float64 `json:"over_30min"`
}

// DurationTotals holds summed presence by dwell-time bucket.
type DurationTotals struct {
	Short  float64 `json:"under_10min"`
	Medium float64 `json:"min_10_30"`
	Long   float64 `json:"over_30min"`
}

// GenderAverages holds the mean sex-share percentages of a subset.
type GenderAverages struct {
	MalePct   float64 `json:"male_pct"`
	FemalePct float64 `json:"female_pct"`
}

// Summary is the aggregated view of one record subset. Summaries are
// value objects: recomputed per request, never cached. HasData
// distinguishes an empty subset from a subset whose counts happen to
// be zero.
type Summary struct {
	HasData       bool           `json:"has_data"`
	RecordCount   int            `json:"record_count"`
	TotalPresence float64        `json:"total_presence"`
	Duration      DurationTotals `json:"duration_distribution"`
	Gender        GenderAverages `json:"gender_distribution"`
	Age           AgeShares      `json:"age_distribution"`
	TopLocations  []TopLocation  `json:"top_locations"`
	Center        *GeoPoint      `json:"center,omitempty"`
	SpreadMeters  float64        `json:"spread_meters,omitempty"`
}
