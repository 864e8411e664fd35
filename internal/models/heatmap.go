package models

// HeatmapPoint represents a single point in the heatmap
type HeatmapPoint struct {
	Lat       float64 `json:"lat"`       // Latitude
	Lng       float64 `json:"lng"`       // Longitude
	Intensity float64 `json:"intensity"` // Normalized 0-1
	Value     float64 `json:"value"`     // Raw metric value
	Metric    string  `json:"metric"`    // "total", "stay_short", "stay_medium", "stay_long"
}

// HeatmapResponse represents the heatmap API response
type HeatmapResponse struct {
	Points   []HeatmapPoint `json:"points"`
	Count    int            `json:"count"`
	MaxValue float64        `json:"max_value"`
	MinValue float64        `json:"min_value"`
	Metric   string         `json:"metric"`
}
