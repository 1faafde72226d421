// Package physics is the in-memory physics collaborator used by game objects.
// It owns body storage and integrates velocities at a fixed step; collision
// resolution lives outside the lifecycle core.
package physics

import (
	"time"

	"github.com/l1jgo/carnage/internal/core/object"
	"github.com/l1jgo/carnage/internal/geom"
	"go.uber.org/zap"
)

// Body is a physics object owned by World and referenced by its game object.
type Body struct {
	id       uint32
	owner    object.ID
	position geom.Vec3
	previous geom.Vec3
	smooth   geom.Vec3
	heading  geom.Angle
	velocity geom.Vec3
}

func (b *Body) Owner() object.ID          { return b.owner }
func (b *Body) Position() geom.Vec3       { return b.position }
func (b *Body) Heading() geom.Angle       { return b.heading }
func (b *Body) Velocity() geom.Vec3       { return b.velocity }
func (b *Body) SmoothPosition() geom.Vec3 { return b.smooth }

// SetPosition teleports the body; interpolation restarts at the new spot.
func (b *Body) SetPosition(position geom.Vec3, heading geom.Angle) {
	b.position = position
	b.previous = position
	b.smooth = position
	b.heading = heading
}

func (b *Body) SetVelocity(v geom.Vec3) { b.velocity = v }

// World owns all bodies. Single-goroutine access only (game loop).
type World struct {
	bodies      map[uint32]*Body
	nextID      uint32
	step        time.Duration
	accumulator time.Duration
	log         *zap.Logger
}

// NewWorld creates a physics world stepping at framerate steps per second.
func NewWorld(framerate float64, log *zap.Logger) *World {
	if framerate <= 0 {
		framerate = 60
	}
	return &World{
		bodies: make(map[uint32]*Body, 256),
		step:   time.Duration(float64(time.Second) / framerate),
		log:    log,
	}
}

// CreatePhysicsObject allocates a body for owner at the given placement.
func (w *World) CreatePhysicsObject(owner object.ID, position geom.Vec3, heading geom.Angle) *Body {
	w.nextID++
	b := &Body{id: w.nextID, owner: owner}
	b.SetPosition(position, heading)
	w.bodies[b.id] = b
	return b
}

// DestroyPhysicsObject releases a body. Unknown or nil bodies are ignored.
func (w *World) DestroyPhysicsObject(b *Body) {
	if b == nil {
		return
	}
	if _, ok := w.bodies[b.id]; !ok {
		w.log.Warn("destroy unknown physics body", zap.Uint32("body", b.id), zap.Uint32("owner", uint32(b.owner)))
		return
	}
	delete(w.bodies, b.id)
}

// Count returns the number of live bodies.
func (w *World) Count() int { return len(w.bodies) }

// Update advances the simulation by dt using fixed steps, then refreshes the
// smoothed positions with the leftover fraction of a step.
func (w *World) Update(dt time.Duration) {
	w.accumulator += dt
	for w.accumulator >= w.step {
		w.accumulator -= w.step
		seconds := float32(w.step.Seconds())
		for _, b := range w.bodies {
			b.previous = b.position
			b.position = b.position.Add(b.velocity.Scale(seconds))
		}
	}
	alpha := float32(float64(w.accumulator) / float64(w.step))
	for _, b := range w.bodies {
		b.smooth = b.previous.Lerp(b.position, alpha)
	}
}
