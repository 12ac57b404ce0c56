// Package metrics exposes model resolution counters to Prometheus.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/speakeasy-api/modeladaptor"
)

const (
	namespace = "modeladaptor"
)

// Metrics holds prometheus metrics for a single Adaptor.
type Metrics struct {
	adaptor *modeladaptor.Adaptor

	errors          *prometheus.CounterVec
	resolveDuration prometheus.Histogram
	cacheHits       prometheus.CounterFunc
	cacheMisses     prometheus.CounterFunc
	cacheTypes      prometheus.GaugeFunc
}

// New creates the metrics for a and registers them with reg.
func New(reg prometheus.Registerer, a *modeladaptor.Adaptor) (*Metrics, error) {
	m := newMetrics(a)
	for _, c := range m.collectors() {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
	}
	return m, nil
}

func newMetrics(a *modeladaptor.Adaptor) *Metrics {
	return &Metrics{
		adaptor: a,
		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_total",
				Help:      "Model resolution errors reported, by kind.",
			},
			[]string{"kind"},
		),
		resolveDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "resolve_duration_seconds",
				Help:      "Time spent resolving a single expression.",
				Buckets:   prometheus.ExponentialBuckets(0.000001, 4, 10), // 1µs to ~0.26s
			},
		),
		cacheHits: prometheus.NewCounterFunc(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "member_cache",
				Name:      "hits_total",
				Help:      "Property lookups answered from the member cache.",
			},
			func() float64 { return float64(a.CacheStats().Hits) },
		),
		cacheMisses: prometheus.NewCounterFunc(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "member_cache",
				Name:      "misses_total",
				Help:      "Property lookups that required introspection.",
			},
			func() float64 { return float64(a.CacheStats().Misses) },
		),
		cacheTypes: prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "member_cache",
				Name:      "types",
				Help:      "Distinct runtime types held in the member cache.",
			},
			func() float64 { return float64(a.CacheStats().Types) },
		),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{m.errors, m.resolveDuration, m.cacheHits, m.cacheMisses, m.cacheTypes}
}

// Handler returns an ErrorHandler that counts each report and then forwards
// it to next. A nil next only counts.
func (m *Metrics) Handler(next modeladaptor.ErrorHandler) modeladaptor.ErrorHandler {
	return modeladaptor.ErrorHandlerFunc(func(kind modeladaptor.ErrorKind, token modeladaptor.Token, ctx modeladaptor.Context) {
		m.errors.WithLabelValues(string(kind)).Inc()
		if next != nil {
			next.Error(kind, token, ctx)
		}
	})
}

// Resolve resolves segments through the adaptor, counting reported errors
// and observing the resolution time.
func (m *Metrics) Resolve(root any, segments []string, h modeladaptor.ErrorHandler, token modeladaptor.Token) any {
	start := time.Now()
	v := m.adaptor.Resolve(root, segments, m.Handler(h), token)
	m.resolveDuration.Observe(time.Since(start).Seconds())
	return v
}
