package system

import (
	"time"

	coresys "github.com/l1jgo/carnage/internal/core/system"
	"github.com/l1jgo/carnage/internal/render"
	"github.com/l1jgo/carnage/internal/world"
	"go.uber.org/zap"
)

// DebugDrawSystem records the debug primitives of every object each
// interval and logs a summary. The recorder keeps the last frame's commands.
type DebugDrawSystem struct {
	objects  *world.Manager
	recorder *render.Recorder
	log      *zap.Logger
	interval time.Duration
	elapsed  time.Duration
}

func NewDebugDrawSystem(objects *world.Manager, recorder *render.Recorder, interval time.Duration, log *zap.Logger) *DebugDrawSystem {
	return &DebugDrawSystem{objects: objects, recorder: recorder, interval: interval, log: log}
}

func (s *DebugDrawSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *DebugDrawSystem) Update(dt time.Duration) error {
	s.elapsed += dt
	if s.elapsed < s.interval {
		return nil
	}
	s.elapsed = 0

	s.recorder.Reset()
	s.objects.DebugDraw(s.recorder)
	s.log.Debug("debug draw",
		zap.Int("commands", s.recorder.Len()),
		zap.Int("objects", s.objects.ObjectCount()))
	return nil
}
