package system

import (
	"fmt"
	"sort"
	"time"
)

// Runner executes systems in phase order each frame.
type Runner struct {
	systems []System
	sorted  bool
}

func NewRunner() *Runner {
	return &Runner{
		systems: make([]System, 0, 8),
	}
}

func (r *Runner) Register(s System) {
	r.systems = append(r.systems, s)
	r.sorted = false
}

// Tick runs every system once. The first failing system aborts the frame.
func (r *Runner) Tick(dt time.Duration) error {
	r.ensureSorted()
	for _, s := range r.systems {
		if err := s.Update(dt); err != nil {
			return fmt.Errorf("%s phase: %w", s.Phase(), err)
		}
	}
	return nil
}

// TickPhase runs only the systems registered for phase.
func (r *Runner) TickPhase(phase Phase, dt time.Duration) error {
	r.ensureSorted()
	for _, s := range r.systems {
		if s.Phase() != phase {
			continue
		}
		if err := s.Update(dt); err != nil {
			return fmt.Errorf("%s phase: %w", phase, err)
		}
	}
	return nil
}

func (r *Runner) ensureSorted() {
	if !r.sorted {
		// Stable so systems sharing a phase keep registration order.
		sort.SliceStable(r.systems, func(i, j int) bool {
			return r.systems[i].Phase() < r.systems[j].Phase()
		})
		r.sorted = true
	}
}
