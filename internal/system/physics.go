package system

import (
	"time"

	coresys "github.com/l1jgo/carnage/internal/core/system"
	"github.com/l1jgo/carnage/internal/physics"
)

// PhysicsSystem integrates body movement after objects set their velocities.
type PhysicsSystem struct {
	physics *physics.World
}

func NewPhysicsSystem(w *physics.World) *PhysicsSystem {
	return &PhysicsSystem{physics: w}
}

func (s *PhysicsSystem) Phase() coresys.Phase { return coresys.PhasePhysics }

func (s *PhysicsSystem) Update(dt time.Duration) error {
	s.physics.Update(dt)
	return nil
}
