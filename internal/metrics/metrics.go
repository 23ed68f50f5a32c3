package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records service-level counters. Page-view tracking is
// fire-and-forget, so its failures are only ever visible here.
type Collector struct {
	registry      *prometheus.Registry
	viewsTracked  prometheus.Counter
	trackFailures prometheus.Counter
	httpRequests  *prometheus.CounterVec
}

// NewCollector creates a Collector backed by its own registry
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		viewsTracked: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "autosphere_page_views_tracked_total",
			Help: "Page views successfully recorded.",
		}),
		trackFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "autosphere_page_view_failures_total",
			Help: "Page view inserts that failed and were discarded.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "autosphere_http_requests_total",
			Help: "HTTP responses by status code.",
		}, []string{"status_code"}),
	}

	c.registry.MustRegister(c.viewsTracked, c.trackFailures, c.httpRequests)
	return c
}

// RecordViewTracked counts a successfully stored page view
func (c *Collector) RecordViewTracked() {
	c.viewsTracked.Inc()
}

// RecordTrackFailure counts a discarded page view insert
func (c *Collector) RecordTrackFailure() {
	c.trackFailures.Inc()
}

// RecordHTTPStatus counts a response by status code
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpRequests.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Handler exposes the registry in prometheus text format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
