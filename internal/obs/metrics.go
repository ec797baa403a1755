package obs

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects resolution-run observability: cache effectiveness,
// remote API pressure and polling behavior.
type Metrics struct {
	CacheLookups        *prometheus.CounterVec
	APIRequests         *prometheus.CounterVec
	PollRetries         *prometheus.CounterVec
	SearchesFailed      prometheus.Counter
	PathsGenerated      prometheus.Gauge
	ItinerariesResolved prometheus.Gauge

	Registry *prometheus.Registry
}

func NewMetrics(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "planner_cache_lookups_total",
			Help: "Cache lookups by category and result (hit/miss)",
		}, []string{"category", "result"}),
		APIRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "planner_api_requests_total",
			Help: "Outbound flight-API requests by endpoint",
		}, []string{"endpoint"}),
		PollRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "planner_poll_retries_total",
			Help: "Soft and hard retries while polling incomplete searches",
		}, []string{"kind"}),
		SearchesFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "planner_searches_failed_total",
			Help: "Searches that exhausted the polling retry bound",
		}),
		PathsGenerated: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "planner_date_paths_generated",
			Help: "Candidate date paths produced by the last run",
		}),
		ItinerariesResolved: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "planner_itineraries_resolved",
			Help: "Fully priced itineraries produced by the last run",
		}),
		Registry: reg,
	}

	reg.MustRegister(
		m.CacheLookups,
		m.APIRequests,
		m.PollRetries,
		m.SearchesFailed,
		m.PathsGenerated,
		m.ItinerariesResolved,
	)

	return m
}

func (m *Metrics) IncCacheHit(category string)  { m.CacheLookups.WithLabelValues(category, "hit").Inc() }
func (m *Metrics) IncCacheMiss(category string) { m.CacheLookups.WithLabelValues(category, "miss").Inc() }
func (m *Metrics) IncAPIRequest(endpoint string) {
	m.APIRequests.WithLabelValues(endpoint).Inc()
}
func (m *Metrics) IncSoftRetry()     { m.PollRetries.WithLabelValues("soft").Inc() }
func (m *Metrics) IncHardRetry()     { m.PollRetries.WithLabelValues("hard").Inc() }
func (m *Metrics) IncSearchFailed()  { m.SearchesFailed.Inc() }
func (m *Metrics) SetPathsGenerated(n int) {
	m.PathsGenerated.Set(float64(n))
}
func (m *Metrics) SetItinerariesResolved(n int) {
	m.ItinerariesResolved.Set(float64(n))
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
