package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/riskibarqy/tennis-league/internal/domain/league"
)

// Metrics owns a private Prometheus registry so tests and multiple servers in
// one process never collide on the global one.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	statusReconciled    *prometheus.CounterVec
	interestRegistered  *prometheus.CounterVec
}

func NewMetrics(serviceName string) *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	constLabels := prometheus.Labels{}
	if serviceName != "" {
		constLabels["service"] = serviceName
	}

	auto := promauto.With(registry)
	return &Metrics{
		registry: registry,
		httpRequests: auto.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "HTTP requests by method, route and status code.",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		httpRequestDuration: auto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency by method and route.",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		}, []string{"method", "route"}),
		statusReconciled: auto.NewCounterVec(prometheus.CounterOpts{
			Name:        "league_status_reconciled_total",
			Help:        "League status repairs by stored status, effective status and outcome.",
			ConstLabels: constLabels,
		}, []string{"from", "to", "outcome"}),
		interestRegistered: auto.NewCounterVec(prometheus.CounterOpts{
			Name:        "league_interest_registered_total",
			Help:        "Player interest sign-ups per league.",
			ConstLabels: constLabels,
		}, []string{"league_id"}),
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveHTTPRequest records one request. route is the matched pattern, not
// the raw path, to keep label cardinality bounded.
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (m *Metrics) StatusReconciled(from, to league.Status, outcome string) {
	if m == nil {
		return
	}
	m.statusReconciled.WithLabelValues(string(from), string(to), outcome).Inc()
}

func (m *Metrics) InterestRegistered(leagueID string) {
	if m == nil {
		return
	}
	m.interestRegistered.WithLabelValues(leagueID).Inc()
}
