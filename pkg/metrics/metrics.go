// Package metrics holds the Prometheus collectors for an adminkit server.
//
// Collectors are registered on the Registerer passed to New, never on the
// global default registry, so several apps (and tests) can coexist in one
// process. Every method is safe on a nil *Metrics and does nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/adminkit/pkg/drawer"
)

// Config configures the collectors.
type Config struct {
	// Namespace is the metrics namespace (default: "adminkit").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for durations.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use. Required.
	Registry prometheus.Registerer
}

// Option configures the collectors.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) { c.Namespace = namespace }
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) { c.Subsystem = subsystem }
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) { c.ConstLabels = labels }
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) { c.Buckets = buckets }
}

// Result labels for page resolutions and close requests.
const (
	ResultFound    = "found"
	ResultNotFound = "not_found"
	ResultError    = "error"
)

// Metrics holds the adminkit collectors.
type Metrics struct {
	pageResolutions *prometheus.CounterVec
	pageDuration    prometheus.Histogram
	drawerOpens     *prometheus.CounterVec
	drawerCloses    *prometheus.CounterVec
	closeRequests   *prometheus.CounterVec
	drawerDepth     prometheus.Histogram
	activeSessions  prometheus.Gauge
	sessionsEvicted prometheus.Counter
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	wsConnections   prometheus.Gauge
}

// New creates and registers the collectors on registry.
func New(registry prometheus.Registerer, opts ...Option) *Metrics {
	config := Config{
		Namespace: "adminkit",
		Buckets:   prometheus.DefBuckets,
		Registry:  registry,
	}
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		pageResolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "page_resolutions_total",
			Help:        "Total number of page resolutions by result",
			ConstLabels: config.ConstLabels,
		}, []string{"module", "result"}),

		pageDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "page_resolution_duration_seconds",
			Help:        "Page resolution duration in seconds, including lazy loads",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		drawerOpens: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "drawer_opens_total",
			Help:        "Total number of drawers opened by type",
			ConstLabels: config.ConstLabels,
		}, []string{"type"}),

		drawerCloses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "drawer_closes_total",
			Help:        "Total number of drawers closed by type",
			ConstLabels: config.ConstLabels,
		}, []string{"type"}),

		closeRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "drawer_close_requests_total",
			Help:        "Total number of drawer close requests by outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"result"}),

		drawerDepth: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "drawer_stack_depth",
			Help:        "Drawer stack depth observed after each open",
			ConstLabels: config.ConstLabels,
			Buckets:     []float64{1, 2, 3, 4, 6, 8},
		}),

		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "active_sessions",
			Help:        "Number of sessions holding a drawer stack",
			ConstLabels: config.ConstLabels,
		}),

		sessionsEvicted: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "sessions_evicted_total",
			Help:        "Total number of idle sessions evicted",
			ConstLabels: config.ConstLabels,
		}),

		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "http_requests_total",
			Help:        "Total HTTP requests by method, route pattern and status class",
			ConstLabels: config.ConstLabels,
		}, []string{"method", "route", "status"}),

		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"method", "route"}),

		wsConnections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "websocket_connections",
			Help:        "Number of open drawer stream connections",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// ObservePage records one page resolution. module is empty when nothing
// matched.
func (m *Metrics) ObservePage(module, result string, d time.Duration) {
	if m == nil {
		return
	}
	m.pageResolutions.WithLabelValues(module, result).Inc()
	m.pageDuration.Observe(d.Seconds())
}

// DrawerOpened records an open and the resulting stack depth.
func (m *Metrics) DrawerOpened(inst drawer.Instance, depth int) {
	if m == nil {
		return
	}
	m.drawerOpens.WithLabelValues(inst.Type).Inc()
	m.drawerDepth.Observe(float64(depth))
}

// DrawersClosed records every removed instance.
func (m *Metrics) DrawersClosed(removed []drawer.Instance) {
	if m == nil {
		return
	}
	for _, inst := range removed {
		m.drawerCloses.WithLabelValues(inst.Type).Inc()
	}
}

// CloseRequest records the outcome of a guarded close.
func (m *Metrics) CloseRequest(result drawer.CloseResult) {
	if m == nil {
		return
	}
	m.closeRequests.WithLabelValues(result.String()).Inc()
}

// SessionStarted records a new session.
func (m *Metrics) SessionStarted() {
	if m == nil {
		return
	}
	m.activeSessions.Inc()
}

// SessionEnded records a session going away. evicted marks idle eviction.
func (m *Metrics) SessionEnded(evicted bool) {
	if m == nil {
		return
	}
	m.activeSessions.Dec()
	if evicted {
		m.sessionsEvicted.Inc()
	}
}

// HTTPRequest records one served request.
func (m *Metrics) HTTPRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, statusClass(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// StreamOpened records a drawer stream connection.
func (m *Metrics) StreamOpened() {
	if m == nil {
		return
	}
	m.wsConnections.Inc()
}

// StreamClosed records a drawer stream disconnect.
func (m *Metrics) StreamClosed() {
	if m == nil {
		return
	}
	m.wsConnections.Dec()
}

// StoreHooks returns drawer store hooks that feed the drawer collectors.
func (m *Metrics) StoreHooks() drawer.Hooks {
	return drawer.Hooks{
		OnOpen:  m.DrawerOpened,
		OnClose: m.DrawersClosed,
	}
}

// statusClass keeps label cardinality bounded.
func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	}
	return "1xx"
}
