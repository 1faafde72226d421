package system

import (
	"time"

	"github.com/l1jgo/carnage/internal/core/event"
	coresys "github.com/l1jgo/carnage/internal/core/system"
)

// EventSystem rotates the bus buffers and delivers the previous frame's
// lifecycle events to subscribers.
type EventSystem struct {
	bus *event.Bus
}

func NewEventSystem(bus *event.Bus) *EventSystem {
	return &EventSystem{bus: bus}
}

func (s *EventSystem) Phase() coresys.Phase { return coresys.PhaseEvents }

func (s *EventSystem) Update(_ time.Duration) error {
	s.bus.SwapBuffers()
	s.bus.DispatchAll()
	return nil
}
