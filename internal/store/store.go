// Package store holds the process-wide, read-only collection of
// projected survey records and its time/category index. Both are built
// exactly once per load and never mutated; concurrent readers need no
// coordination.
package store

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/jengzang/peopleflow-backend-go/internal/models"
	"github.com/jengzang/peopleflow-backend-go/internal/projection"
	"github.com/jengzang/peopleflow-backend-go/internal/source"
	"github.com/jengzang/peopleflow-backend-go/internal/spatial"
)

// Rejection reason labels used in the load report.
const (
	ReasonParse       = "parse"
	ReasonPeriod      = "period_range"
	ReasonHour        = "hour_range"
	ReasonDayCategory = "day_category"
	ReasonPresence    = "presence_range"
	ReasonPercent     = "percent_range"
	ReasonPercentSum  = "percent_sum"
	ReasonDwell       = "dwell_exceeds_total"
	ReasonOutOfBounds = "out_of_bounds"
)

// ErrNoValidRows means the source was readable but nothing survived
// validation; serving an empty dataset would silently answer "no data"
// to every query, so the load is treated as fatal.
var ErrNoValidRows = errors.New("no valid rows in source")

// Options tunes row validation.
type Options struct {
	// PercentTolerance is the allowed deviation of the sex-share and
	// age-share sums from 100.
	PercentTolerance float64
	// DwellSlack is how far the summed dwell buckets may exceed the
	// total presence before the row is rejected.
	DwellSlack float64
	// GeohashPrecision is the cell-identity string length; 0 keeps
	// the default of 8.
	GeohashPrecision int
}

// Report carries the load-time diagnostics exposed by the readiness
// endpoint.
type Report struct {
	TotalLoaded   int                  `json:"total_loaded"`
	TotalRejected int                  `json:"total_rejected"`
	Reasons       map[string]int       `json:"rejection_reasons,omitempty"`
	Periods       []int                `json:"periods"`
	Hours         []int                `json:"hours"`
	DayCategories []models.DayCategory `json:"day_categories"`
	LoadedAt      time.Time            `json:"loaded_at"`
}

// Store owns the immutable projected-record collection for the life of
// a dataset generation.
type Store struct {
	records []models.FlowRecord
	report  Report
}

// Load reads every raw row from src, validates it, projects its grid
// coordinates and verifies the result against bounds. Invalid rows are
// dropped and counted by reason; a missing source or an all-invalid
// dataset fails the load outright.
func Load(src source.Source, proj *projection.Projector, bounds spatial.BoundingBox, opts Options, logger *zap.Logger) (*Store, error) {
	raws, rowErrs, err := src.Read()
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}

	if opts.PercentTolerance <= 0 {
		opts.PercentTolerance = 0.5
	}
	if opts.GeohashPrecision <= 0 {
		opts.GeohashPrecision = 8
	}

	s := &Store{
		records: make([]models.FlowRecord, 0, len(raws)),
		report: Report{
			Reasons:  make(map[string]int),
			LoadedAt: time.Now(),
		},
	}

	for _, re := range rowErrs {
		s.reject(ReasonParse)
		logger.Debug("row rejected", zap.Int("line", re.Line), zap.String("reason", re.Reason))
	}

	periods := make(map[int]struct{})
	hours := make(map[int]struct{})
	days := make(map[models.DayCategory]struct{})

	for _, raw := range raws {
		rec, reason := validate(raw, proj, bounds, opts)
		if reason != "" {
			s.reject(reason)
			continue
		}

		s.records = append(s.records, rec)
		periods[rec.Period] = struct{}{}
		hours[rec.Hour] = struct{}{}
		days[rec.DayCategory] = struct{}{}
	}

	s.report.TotalLoaded = len(s.records)
	s.report.Periods = sortedInts(periods)
	s.report.Hours = sortedInts(hours)
	s.report.DayCategories = sortedDays(days)

	logger.Info("dataset loaded",
		zap.Int("loaded", s.report.TotalLoaded),
		zap.Int("rejected", s.report.TotalRejected),
		zap.Int("periods", len(s.report.Periods)),
	)

	if len(s.records) == 0 {
		return nil, ErrNoValidRows
	}

	return s, nil
}

// Records returns the full ordered collection. Callers must treat the
// slice as read-only.
func (s *Store) Records() []models.FlowRecord {
	return s.records
}

// Report returns the load-time counters.
func (s *Store) Report() Report {
	return s.report
}

func (s *Store) reject(reason string) {
	s.report.TotalRejected++
	s.report.Reasons[reason]++
}

// validate checks one raw row against the documented field ranges,
// projects it and applies the bounding box. Returns the finished
// record, or a rejection reason.
func validate(raw models.RawRecord, proj *projection.Projector, bounds spatial.BoundingBox, opts Options) (models.FlowRecord, string) {
	var rec models.FlowRecord

	if month := raw.Period % 100; raw.Period < 190001 || month < 1 || month > 12 {
		return rec, ReasonPeriod
	}
	if raw.Hour < 0 || raw.Hour > 23 {
		return rec, ReasonHour
	}

	day, ok := models.ParseDayCategory(raw.DayCategory)
	if !ok {
		return rec, ReasonDayCategory
	}

	if raw.TotalUsers < 0 || raw.StayShort < 0 || raw.StayMedium < 0 || raw.StayLong < 0 {
		return rec, ReasonPresence
	}
	if raw.StayShort+raw.StayMedium+raw.StayLong > raw.TotalUsers+opts.DwellSlack {
		return rec, ReasonDwell
	}

	shares := append([]float64{raw.MalePct, raw.FemalePct}, ageSlice(raw.AgeShares)...)
	for _, p := range shares {
		if p < 0 || p > 100 {
			return rec, ReasonPercent
		}
	}
	if !near(raw.MalePct+raw.FemalePct, 100, opts.PercentTolerance) {
		return rec, ReasonPercentSum
	}
	if !near(raw.AgeShares.Sum(), 100, opts.PercentTolerance) {
		return rec, ReasonPercentSum
	}

	lat, lng := proj.Inverse(float64(raw.GX), float64(raw.GY))
	if !bounds.Contains(lat, lng) {
		return rec, ReasonOutOfBounds
	}

	return models.FlowRecord{
		Period:      raw.Period,
		GX:          raw.GX,
		GY:          raw.GY,
		Lat:         lat,
		Lng:         lng,
		Geohash:     spatial.EncodeGeohash(lat, lng, opts.GeohashPrecision),
		Hour:        raw.Hour,
		DayCategory: day,
		TotalUsers:  raw.TotalUsers,
		StayShort:   raw.StayShort,
		StayMedium:  raw.StayMedium,
		StayLong:    raw.StayLong,
		MalePct:     raw.MalePct,
		FemalePct:   raw.FemalePct,
		AgeShares:   raw.AgeShares,
	}, ""
}

func near(v, target, tol float64) bool {
	return v >= target-tol && v <= target+tol
}

func ageSlice(a models.AgeShares) []float64 {
	vec := a.Vector()
	return vec[:]
}

func sortedInts(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

func sortedDays(set map[models.DayCategory]struct{}) []models.DayCategory {
	out := make([]models.DayCategory, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
