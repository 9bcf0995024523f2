// Package metrics backs the observability hooks with Prometheus collectors.
package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/aberth/pkg/observability"
)

const namespace = "aberth"

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	SolvesTotal         *prometheus.CounterVec
	SolveDuration       prometheus.Histogram
	SolveIterations     prometheus.Histogram
	SolvesInFlight      prometheus.Gauge
	Collisions          prometheus.Counter
	IterationCorrection prometheus.Histogram

	CacheRequests *prometheus.CounterVec
	CacheBytes    prometheus.Counter

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		SolvesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "solves_total",
			Help:      "Total number of solves by terminal status (converged, exhausted, error).",
		}, []string{"status"}),
		SolveDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "solve_duration_seconds",
			Help:      "Wall time of a solve.",
			Buckets:   prometheus.ExponentialBuckets(1e-5, 4, 10),
		}),
		SolveIterations: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "solve_iterations",
			Help:      "Iterations performed per solve.",
			Buckets:   []float64{1, 2, 5, 10, 20, 50, 100, 200, 500, 1000},
		}),
		SolvesInFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "solves_in_flight",
			Help:      "Solves currently iterating.",
		}),
		Collisions: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "collisions_total",
			Help:      "Colliding root estimates absorbed by the correction kernel.",
		}),
		IterationCorrection: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "iteration_max_correction",
			Help:      "Largest correction magnitude per iteration.",
			Buckets:   prometheus.ExponentialBuckets(1e-16, 100, 10),
		}),
		CacheRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_requests_total",
			Help:      "Cache lookups and writes by key type and outcome (hit, miss, set).",
		}, []string{"key_type", "outcome"}),
		CacheBytes: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the result cache.",
		}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP responses by method, route and status code.",
		}, []string{"method", "route", "code"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Register installs m as the process-wide solver, cache and HTTP hooks.
func (m *Metrics) Register() {
	observability.SetSolverHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
}

// =============================================================================
// observability.SolverHooks
// =============================================================================

func (m *Metrics) OnSolveStart(_ context.Context, _ int) {
	m.SolvesInFlight.Inc()
}

func (m *Metrics) OnIteration(_ context.Context, _ int, maxCorrection float64, collisions int) {
	m.IterationCorrection.Observe(maxCorrection)
	if collisions > 0 {
		m.Collisions.Add(float64(collisions))
	}
}

// OnSolveComplete pairs with OnSolveStart; rejected input reaches neither.
func (m *Metrics) OnSolveComplete(_ context.Context, _ int, iterations int, status string, duration time.Duration, err error) {
	m.SolvesInFlight.Dec()
	if err != nil {
		m.SolvesTotal.WithLabelValues("error").Inc()
		return
	}
	m.SolvesTotal.WithLabelValues(status).Inc()
	m.SolveDuration.Observe(duration.Seconds())
	m.SolveIterations.Observe(float64(iterations))
}

// =============================================================================
// observability.CacheHooks
// =============================================================================

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.CacheRequests.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.CacheRequests.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.CacheRequests.WithLabelValues(keyType, "set").Inc()
	m.CacheBytes.Add(float64(size))
}

// =============================================================================
// observability.HTTPHooks
// =============================================================================

func (m *Metrics) OnRequest(_ context.Context, _, _ string) {}

func (m *Metrics) OnResponse(_ context.Context, method, route string, statusCode int, duration time.Duration) {
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

var (
	_ observability.SolverHooks = (*Metrics)(nil)
	_ observability.CacheHooks  = (*Metrics)(nil)
	_ observability.HTTPHooks   = (*Metrics)(nil)
)
