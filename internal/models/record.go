package models

// DayCategory classifies a record's date as a working day or a
// weekend/public holiday.
type DayCategory string

const (
	DayWeekday DayCategory = "weekday"
	DayHoliday DayCategory = "holiday"
)

// ParseDayCategory normalizes a source spelling of the day category.
// The survey exports use 平日/假日; API clients use weekday/holiday.
func ParseDayCategory(s string) (DayCategory, bool) {
	switch s {
	case "weekday", "平日":
		return DayWeekday, true
	case "holiday", "weekend", "假日":
		return DayHoliday, true
	}
	return "", false
}

// AgeShares holds the age-bracket percentage distribution of a record
// or a summary. The nine numbered brackets plus the unclassified share
// sum to roughly 100.
type AgeShares struct {
	Age1     float64 `json:"age_1"`
	Age2     float64 `json:"age_2"`
	Age3     float64 `json:"age_3"`
	Age4     float64 `json:"age_4"`
	Age5     float64 `json:"age_5"`
	Age6     float64 `json:"age_6"`
	Age7     float64 `json:"age_7"`
	Age8     float64 `json:"age_8"`
	Age9     float64 `json:"age_9"`
	AgeOther float64 `json:"age_other"`
}

// Vector returns the ten shares in bracket order for aggregation.
func (a AgeShares) Vector() [10]float64 {
	return [10]float64{a.Age1, a.Age2, a.Age3, a.Age4, a.Age5, a.Age6, a.Age7, a.Age8, a.Age9, a.AgeOther}
}

// AgeSharesFromVector rebuilds an AgeShares from a bracket-order vector.
func AgeSharesFromVector(v [10]float64) AgeShares {
	return AgeShares{
		Age1: v[0], Age2: v[1], Age3: v[2], Age4: v[3], Age5: v[4],
		Age6: v[5], Age7: v[6], Age8: v[7], Age9: v[8], AgeOther: v[9],
	}
}

// Sum returns the total of all ten shares.
func (a AgeShares) Sum() float64 {
	var sum float64
	for _, v := range a.Vector() {
		sum += v
	}
	return sum
}

// RawRecord is one tabular row as parsed from the source, before
// validation and projection.
type RawRecord struct {
	Period      int    // YYYYMM
	GX          int    // Projected easting, meters
	GY          int    // Projected northing, meters
	Hour        int    // 0-23
	DayCategory string // Source spelling, normalized during validation

	TotalUsers float64
	StayShort  float64 // Dwell < 10 min
	StayMedium float64 // Dwell 10-30 min
	StayLong   float64 // Dwell > 30 min

	MalePct   float64
	FemalePct float64
	AgeShares
}

// FlowRecord is a validated record with geographic coordinates derived
// once at load time. The collection of FlowRecords is immutable after
// the store is built.
type FlowRecord struct {
	Period      int         `json:"period"`
	GX          int         `json:"gx"`
	GY          int         `json:"gy"`
	Lat         float64     `json:"lat"`
	Lng         float64     `json:"lng"`
	Geohash     string      `json:"geohash"`
	Hour        int         `json:"hour"`
	DayCategory DayCategory `json:"day_category"`

	TotalUsers float64 `json:"total_users"`
	StayShort  float64 `json:"stay_under_10min"`
	StayMedium float64 `json:"stay_10_30min"`
	StayLong   float64 `json:"stay_over_30min"`

	MalePct   float64 `json:"male_pct"`
	FemalePct float64 `json:"female_pct"`
	AgeShares
}
