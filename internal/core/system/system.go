package system

import "time"

// Phase defines execution ordering within a single frame.
type Phase int

const (
	PhaseFlush      Phase = iota // 0: destroy objects marked last frame
	PhaseEvents                  // 1: deliver last frame's lifecycle events
	PhaseUpdate                  // 2: per-object update pass
	PhasePhysics                 // 3: integrate physics bodies
	PhasePostUpdate              // 4: metrics, debug output
)

func (p Phase) String() string {
	switch p {
	case PhaseFlush:
		return "flush"
	case PhaseEvents:
		return "events"
	case PhaseUpdate:
		return "update"
	case PhasePhysics:
		return "physics"
	case PhasePostUpdate:
		return "post_update"
	}
	return "unknown"
}

// System is the interface every frame system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration) error
}
