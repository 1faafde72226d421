package system

import (
	"time"

	coresys "github.com/l1jgo/carnage/internal/core/system"
	"github.com/l1jgo/carnage/internal/metrics"
	"github.com/l1jgo/carnage/internal/world"
)

// MetricsSystem samples the object population once per frame.
type MetricsSystem struct {
	objects   *world.Manager
	collector *metrics.Collector
}

func NewMetricsSystem(objects *world.Manager, collector *metrics.Collector) *MetricsSystem {
	return &MetricsSystem{objects: objects, collector: collector}
}

func (s *MetricsSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *MetricsSystem) Update(_ time.Duration) error {
	stats := s.objects.Stats()
	s.collector.Observe(metrics.Snapshot{
		Live:            stats.Live,
		PendingDeletion: stats.PendingDeletion,
		Total:           stats.Total,
	})
	return nil
}
