// Package metrics wires the service's prometheus instrumentation:
// request counters/latency plus dataset load gauges for dashboards
// and alerting on mass row rejections.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jengzang/peopleflow-backend-go/internal/store"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "peopleflow_http_requests_total",
		Help: "HTTP requests by method, route and status code",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "peopleflow_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	recordsLoaded = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "peopleflow_records_loaded",
		Help: "Records that survived validation in the live dataset generation",
	})

	recordsRejected = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "peopleflow_records_rejected",
		Help: "Records dropped during the last load",
	})

	datasetReady = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "peopleflow_dataset_ready",
		Help: "1 when a dataset generation is live",
	})

	datasetReloads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "peopleflow_dataset_reloads_total",
		Help: "Successful dataset generation swaps, including the initial load",
	})
)

// ObserveLoad records the outcome of a successful dataset load.
func ObserveLoad(report store.Report) {
	recordsLoaded.Set(float64(report.TotalLoaded))
	recordsRejected.Set(float64(report.TotalRejected))
	datasetReady.Set(1)
	datasetReloads.Inc()
}

// Middleware instruments every request. The route template (not the
// raw path) is the label, keeping cardinality bounded.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		httpRequestsTotal.WithLabelValues(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, route).
			Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
