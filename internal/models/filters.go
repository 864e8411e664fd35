package models

// QueryFilter binds the time/category key of a flow query plus the
// per-endpoint knobs. Hour defaults to -1 so "hour=0" and "hour
// missing" stay distinguishable.
type QueryFilter struct {
	Period      int    `form:"period"`
	Hour        int    `form:"hour,default=-1"`
	DayCategory string `form:"day_category"`
	TopN        int    `form:"top_n,default=5"`
	Limit       int    `form:"limit,default=50"`
	Metric      string `form:"metric,default=total"`
}

// Heatmap metric names accepted by QueryFilter.Metric.
const (
	MetricTotal      = "total"
	MetricStayShort  = "stay_short"
	MetricStayMedium = "stay_medium"
	MetricStayLong   = "stay_long"
)
