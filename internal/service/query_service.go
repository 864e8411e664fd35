// Package service exposes the query facade: the only entry point
// handlers use to reach the dataset. The active store/index pair sits
// behind a single atomic pointer, so queries are lock-free and a
// reload is an atomic swap of the whole generation.
package service

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/jengzang/peopleflow-backend-go/internal/metrics"
	"github.com/jengzang/peopleflow-backend-go/internal/models"
	"github.com/jengzang/peopleflow-backend-go/internal/stats"
	"github.com/jengzang/peopleflow-backend-go/internal/store"
)

// ErrNotReady means no dataset generation is live yet. Handlers map it
// to 503 so clients can tell "service warming up" from "no data under
// this filter".
var ErrNotReady = errors.New("dataset not loaded")

// InvalidQueryError rejects a malformed query before any lookup runs.
// It is distinct from a query miss: one is a bad question, the other a
// well-formed question with an empty answer.
type InvalidQueryError struct {
	Reason string
}

func (e *InvalidQueryError) Error() string {
	return "invalid query: " + e.Reason
}

func invalidf(format string, args ...interface{}) *InvalidQueryError {
	return &InvalidQueryError{Reason: fmt.Sprintf(format, args...)}
}

// dataset is one immutable store+index generation.
type dataset struct {
	store *store.Store
	index *store.Index
}

// Loader builds a fresh Store from the configured source. The service
// owns when it runs; the loader owns how.
type Loader func() (*store.Store, error)

// QueryService composes index lookups with on-demand summaries.
type QueryService struct {
	loader Loader
	logger *zap.Logger

	current atomic.Pointer[dataset]
	reload  sync.Mutex // serializes rebuilds, never blocks queries
}

// NewQueryService creates the facade. No dataset is live until Reload
// succeeds.
func NewQueryService(loader Loader, logger *zap.Logger) *QueryService {
	return &QueryService{loader: loader, logger: logger}
}

// Reload builds a fresh store+index pair and atomically swaps it in.
// Queries running against the previous generation finish undisturbed.
func (s *QueryService) Reload() (*store.Report, error) {
	s.reload.Lock()
	defer s.reload.Unlock()

	st, err := s.loader()
	if err != nil {
		return nil, err
	}

	ds := &dataset{store: st, index: store.BuildIndex(st)}
	s.current.Store(ds)

	report := st.Report()
	metrics.ObserveLoad(report)
	s.logger.Info("dataset generation swapped",
		zap.Int("loaded", report.TotalLoaded),
		zap.Int("rejected", report.TotalRejected),
	)
	return &report, nil
}

// Ready reports whether a dataset generation is live.
func (s *QueryService) Ready() bool {
	return s.current.Load() != nil
}

// Report returns the live generation's load report.
func (s *QueryService) Report() (store.Report, error) {
	ds := s.current.Load()
	if ds == nil {
		return store.Report{}, ErrNotReady
	}
	return ds.store.Report(), nil
}

// KeysResult lists the distinct key components actually observed, so
// UI pickers can restrict input to combinations that exist.
type KeysResult struct {
	Periods       []int                `json:"periods"`
	Hours         []int                `json:"hours"`
	DayCategories []models.DayCategory `json:"day_categories"`
}

// Keys returns the observed key components of the live generation.
func (s *QueryService) Keys() (*KeysResult, error) {
	ds := s.current.Load()
	if ds == nil {
		return nil, ErrNotReady
	}
	return &KeysResult{
		Periods:       ds.index.Periods(),
		Hours:         ds.index.Hours(),
		DayCategories: ds.index.DayCategories(),
	}, nil
}

// QueryEcho repeats the validated key back to the caller.
type QueryEcho struct {
	Period      int                `json:"period"`
	Hour        int                `json:"hour"`
	DayCategory models.DayCategory `json:"day_category"`
}

// ContextResult is the payload served to the dashboard and embedded by
// the chat-context builder.
type ContextResult struct {
	Query      QueryEcho      `json:"query"`
	SubsetSize int            `json:"subset_size"`
	Summary    models.Summary `json:"summary"`
}

// Context looks up the subset for the filter key and summarizes it.
// A miss is a zero summary with HasData=false, not an error.
func (s *QueryService) Context(f models.QueryFilter) (*ContextResult, error) {
	ds, key, err := s.resolve(f)
	if err != nil {
		return nil, err
	}

	if f.TopN < 1 || f.TopN > 100 {
		return nil, invalidf("top_n must be between 1 and 100, got %d", f.TopN)
	}

	subset := ds.index.Lookup(key.Period, key.Hour, key.DayCategory)
	return &ContextResult{
		Query:      key,
		SubsetSize: len(subset),
		Summary:    stats.Summarize(subset, f.TopN),
	}, nil
}

// RecordsResult is a truncated view of one subset.
type RecordsResult struct {
	Query        QueryEcho           `json:"query"`
	TotalRecords int                 `json:"total_records"`
	Records      []models.FlowRecord `json:"records"`
	Note         string              `json:"note,omitempty"`
}

// Records returns the subset for the filter key, truncated to
// f.Limit entries.
func (s *QueryService) Records(f models.QueryFilter) (*RecordsResult, error) {
	ds, key, err := s.resolve(f)
	if err != nil {
		return nil, err
	}

	if f.Limit < 1 || f.Limit > 1000 {
		return nil, invalidf("limit must be between 1 and 1000, got %d", f.Limit)
	}

	subset := ds.index.Lookup(key.Period, key.Hour, key.DayCategory)
	res := &RecordsResult{
		Query:        key,
		TotalRecords: len(subset),
		Records:      subset,
	}
	if len(subset) > f.Limit {
		res.Records = subset[:f.Limit]
		res.Note = fmt.Sprintf("showing %d of %d records", f.Limit, len(subset))
	}
	return res, nil
}

// Heatmap builds the normalized point cloud the map layer renders.
func (s *QueryService) Heatmap(f models.QueryFilter) (*models.HeatmapResponse, error) {
	ds, key, err := s.resolve(f)
	if err != nil {
		return nil, err
	}

	metric, err := metricValue(f.Metric)
	if err != nil {
		return nil, err
	}

	subset := ds.index.Lookup(key.Period, key.Hour, key.DayCategory)

	values := make([]float64, len(subset))
	for i, r := range subset {
		values[i] = metric(r)
	}
	intensities := stats.Normalize(values)

	points := make([]models.HeatmapPoint, len(subset))
	for i, r := range subset {
		points[i] = models.HeatmapPoint{
			Lat:       r.Lat,
			Lng:       r.Lng,
			Intensity: intensities[i],
			Value:     values[i],
			Metric:    f.Metric,
		}
	}

	return &models.HeatmapResponse{
		Points:   points,
		Count:    len(points),
		MaxValue: stats.Max(values),
		MinValue: stats.Min(values),
		Metric:   f.Metric,
	}, nil
}

// resolve validates the filter key and pins the live generation.
func (s *QueryService) resolve(f models.QueryFilter) (*dataset, QueryEcho, error) {
	ds := s.current.Load()
	if ds == nil {
		return nil, QueryEcho{}, ErrNotReady
	}

	if month := f.Period % 100; f.Period < 190001 || month < 1 || month > 12 {
		return nil, QueryEcho{}, invalidf("period must be YYYYMM, got %d", f.Period)
	}
	if f.Hour < 0 || f.Hour > 23 {
		return nil, QueryEcho{}, invalidf("hour must be between 0 and 23, got %d", f.Hour)
	}
	day, ok := models.ParseDayCategory(f.DayCategory)
	if !ok {
		return nil, QueryEcho{}, invalidf("unrecognized day_category %q", f.DayCategory)
	}

	return ds, QueryEcho{Period: f.Period, Hour: f.Hour, DayCategory: day}, nil
}

func metricValue(name string) (func(models.FlowRecord) float64, error) {
	switch name {
	case models.MetricTotal:
		return func(r models.FlowRecord) float64 { return r.TotalUsers }, nil
	case models.MetricStayShort:
		return func(r models.FlowRecord) float64 { return r.StayShort }, nil
	case models.MetricStayMedium:
		return func(r models.FlowRecord) float64 { return r.StayMedium }, nil
	case models.MetricStayLong:
		return func(r models.FlowRecord) float64 { return r.StayLong }, nil
	}
	return nil, invalidf("unknown metric %q", name)
}
