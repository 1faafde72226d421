package system

import (
	"time"

	coresys "github.com/l1jgo/carnage/internal/core/system"
	"github.com/l1jgo/carnage/internal/world"
)

// UpdateSystem runs the per-object update pass.
type UpdateSystem struct {
	objects *world.Manager
}

func NewUpdateSystem(objects *world.Manager) *UpdateSystem {
	return &UpdateSystem{objects: objects}
}

func (s *UpdateSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *UpdateSystem) Update(dt time.Duration) error {
	s.objects.UpdateObjects(dt)
	return nil
}
