// Package metrics exposes Prometheus collectors for listener registration,
// event dispatch and selector execution.
//
// All methods are safe to call on a nil *Collectors, so components can take
// an optional collector set without branching at every call site.
package metrics

import (
	"io"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

// Config configures the collectors.
type Config struct {
	// Namespace is the metrics namespace (default: "swell").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// Registry receives the collectors. Default: a fresh registry.
	Registry *prometheus.Registry
}

// Option configures the collectors.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithRegistry sets the registry the collectors are registered with.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "swell",
	}
}

// Collectors holds the toolkit's metrics.
type Collectors struct {
	registry *prometheus.Registry

	registrations  *prometheus.CounterVec
	duplicates     *prometheus.CounterVec
	removals       *prometheus.CounterVec
	dispatches     *prometheus.CounterVec
	simulations    *prometheus.CounterVec
	classMatchers  prometheus.Counter
	queries        *prometheus.CounterVec
	queryDuration  prometheus.Histogram
	cachedElements prometheus.Gauge
}

// New creates and registers the collectors.
func New(opts ...Option) *Collectors {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.Registry == nil {
		config.Registry = prometheus.NewRegistry()
	}
	factory := promauto.With(config.Registry)

	return &Collectors{
		registry: config.Registry,

		registrations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Subsystem: config.Subsystem,
			Name:      "listener_registrations_total",
			Help:      "Listeners attached at the host level, by event type",
		}, []string{"type"}),

		duplicates: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Subsystem: config.Subsystem,
			Name:      "listener_duplicates_total",
			Help:      "Registrations rejected by the listener cache as duplicates",
		}, []string{"type"}),

		removals: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Subsystem: config.Subsystem,
			Name:      "listener_removals_total",
			Help:      "Listeners detached at the host level, by event type",
		}, []string{"type"}),

		dispatches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Subsystem: config.Subsystem,
			Name:      "event_dispatches_total",
			Help:      "Callback invocations, by event type",
		}, []string{"type"}),

		simulations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Subsystem: config.Subsystem,
			Name:      "event_simulations_total",
			Help:      "Synthetic host events fired, by event type",
		}, []string{"type"}),

		classMatchers: factory.NewCounter(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Subsystem: config.Subsystem,
			Name:      "selector_class_matchers_compiled_total",
			Help:      "Class name matchers compiled by the manual selector path",
		}),

		queries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Subsystem: config.Subsystem,
			Name:      "selector_queries_total",
			Help:      "Selector queries, by resolution path (native or manual)",
		}, []string{"path"}),

		queryDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Subsystem: config.Subsystem,
			Name:      "selector_query_duration_seconds",
			Help:      "Selector query duration in seconds",
			Buckets:   []float64{.00001, .0001, .001, .01, .1, 1},
		}),

		cachedElements: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: config.Namespace,
			Subsystem: config.Subsystem,
			Name:      "listener_cache_elements",
			Help:      "Elements currently holding cached listener records",
		}),
	}
}

// Registry returns the registry holding the collectors.
func (c *Collectors) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// ListenerAdded records a host-level attachment.
func (c *Collectors) ListenerAdded(eventType string) {
	if c == nil {
		return
	}
	c.registrations.WithLabelValues(eventType).Inc()
}

// DuplicateRejected records a registration the cache refused.
func (c *Collectors) DuplicateRejected(eventType string) {
	if c == nil {
		return
	}
	c.duplicates.WithLabelValues(eventType).Inc()
}

// ListenerRemoved records a host-level detachment.
func (c *Collectors) ListenerRemoved(eventType string) {
	if c == nil {
		return
	}
	c.removals.WithLabelValues(eventType).Inc()
}

// Dispatched records a callback invocation.
func (c *Collectors) Dispatched(eventType string) {
	if c == nil {
		return
	}
	c.dispatches.WithLabelValues(eventType).Inc()
}

// Simulated records a synthetic host event.
func (c *Collectors) Simulated(eventType string) {
	if c == nil {
		return
	}
	c.simulations.WithLabelValues(eventType).Inc()
}

// ClassMatcherCompiled records a class matcher compilation.
func (c *Collectors) ClassMatcherCompiled() {
	if c == nil {
		return
	}
	c.classMatchers.Inc()
}

// Query path labels.
const (
	PathNative = "native"
	PathManual = "manual"
)

// QueryResolved records a selector query resolved through path.
func (c *Collectors) QueryResolved(path string, seconds float64) {
	if c == nil {
		return
	}
	c.queries.WithLabelValues(path).Inc()
	c.queryDuration.Observe(seconds)
}

// SetCachedElements sets the number of elements in the listener cache.
func (c *Collectors) SetCachedElements(n int) {
	if c == nil {
		return
	}
	c.cachedElements.Set(float64(n))
}

// WriteText writes every gathered metric family in the Prometheus text
// exposition format, sorted by name.
func (c *Collectors) WriteText(w io.Writer) error {
	if c == nil {
		return nil
	}
	families, err := c.registry.Gather()
	if err != nil {
		return err
	}
	sort.Slice(families, func(i, j int) bool {
		return families[i].GetName() < families[j].GetName()
	})
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
