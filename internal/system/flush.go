package system

import (
	"time"

	coresys "github.com/l1jgo/carnage/internal/core/system"
	"github.com/l1jgo/carnage/internal/world"
)

// FlushSystem destroys the objects marked for deletion during the previous
// frame, before anything else runs.
type FlushSystem struct {
	objects *world.Manager
}

func NewFlushSystem(objects *world.Manager) *FlushSystem {
	return &FlushSystem{objects: objects}
}

func (s *FlushSystem) Phase() coresys.Phase { return coresys.PhaseFlush }

func (s *FlushSystem) Update(_ time.Duration) error {
	return s.objects.DestroyMarkedForDeletionObjects()
}
