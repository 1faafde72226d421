// Package metrics exports the object population and lifecycle counters of a
// simulation as Prometheus metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/l1jgo/carnage/internal/core/event"
	"github.com/l1jgo/carnage/internal/core/object"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "carnage"

// Snapshot is the population data sampled once per frame.
type Snapshot struct {
	Live            map[object.Class]int
	PendingDeletion int
	Total           int
}

// Collector owns the simulation metrics on a private registry so several
// simulations (and tests) can coexist in one process.
type Collector struct {
	registry *prometheus.Registry

	live            *prometheus.GaugeVec
	total           prometheus.Gauge
	pendingDeletion prometheus.Gauge
	created         *prometheus.CounterVec
	marked          *prometheus.CounterVec
	destroyed       *prometheus.CounterVec
	creationFailed  *prometheus.CounterVec
	frameSeconds    prometheus.Histogram
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		live: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "objects_live",
			Help:      "Registered game objects per class.",
		}, []string{"class"}),
		total: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "objects_total",
			Help:      "Registered game objects of all classes.",
		}),
		pendingDeletion: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "objects_pending_deletion",
			Help:      "Objects marked for deletion and waiting for the next flush.",
		}),
		created: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "objects_created_total",
			Help:      "Game objects created per class.",
		}, []string{"class"}),
		marked: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "objects_marked_total",
			Help:      "Game objects marked for deletion per class.",
		}, []string{"class"}),
		destroyed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "objects_destroyed_total",
			Help:      "Game objects destroyed per class.",
		}, []string{"class"}),
		creationFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "object_creation_failures_total",
			Help:      "Failed object creations per class.",
		}, []string{"class"}),
		frameSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_duration_seconds",
			Help:      "Wall time spent simulating one frame.",
			Buckets:   []float64{.0005, .001, .002, .004, .008, .016, .033, .066},
		}),
	}
	c.registry.MustRegister(
		c.live, c.total, c.pendingDeletion,
		c.created, c.marked, c.destroyed, c.creationFailed,
		c.frameSeconds,
	)
	return c
}

// Registry exposes the private registry, mostly for tests.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Subscribe counts lifecycle events delivered by bus.
func (c *Collector) Subscribe(bus *event.Bus) {
	event.Subscribe(bus, func(ev event.ObjectCreated) {
		c.created.WithLabelValues(ev.Class.String()).Inc()
	})
	event.Subscribe(bus, func(ev event.ObjectMarked) {
		c.marked.WithLabelValues(ev.Class.String()).Inc()
	})
	event.Subscribe(bus, func(ev event.ObjectDestroyed) {
		c.destroyed.WithLabelValues(ev.Class.String()).Inc()
	})
	event.Subscribe(bus, func(ev event.CreationFailed) {
		c.creationFailed.WithLabelValues(ev.Class.String()).Inc()
	})
}

// Observe records a population snapshot.
func (c *Collector) Observe(s Snapshot) {
	for _, class := range object.PooledClasses {
		c.live.WithLabelValues(class.String()).Set(float64(s.Live[class]))
	}
	c.total.Set(float64(s.Total))
	c.pendingDeletion.Set(float64(s.PendingDeletion))
}

// ObserveFrame records how long one frame took.
func (c *Collector) ObserveFrame(d time.Duration) {
	c.frameSeconds.Observe(d.Seconds())
}
