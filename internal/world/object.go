package world

import (
	"time"

	"github.com/l1jgo/carnage/internal/core/object"
	"github.com/l1jgo/carnage/internal/geom"
)

// GameObject is the polymorphic view of every simulated entity.
//
// The unexported methods close the set of implementations to this package:
// every kind owns a typed pool and knows how to return itself to it, so
// destroy dispatch is exhaustive by construction.
type GameObject interface {
	ID() object.ID
	Class() object.Class
	Position() geom.Vec3
	IsMarkedForDeletion() bool
	MarkForDeletion()

	// UpdateFrame advances the object by dt. It may still be called once
	// after the object was marked for deletion within the same frame.
	UpdateFrame(dt time.Duration)

	// ReceiveDamage applies damage; false means the damage was ignored in
	// the object's current state.
	ReceiveDamage(info DamageInfo) bool

	DebugDraw(r DebugRenderer)

	base() *Base
	release(m *Manager) error
}

// Base holds the state common to all game objects. It lives inside pool
// storage together with the concrete object.
type Base struct {
	id      object.ID
	class   object.Class
	handle  object.Handle
	marked  bool
	manager *Manager
	self    GameObject
}

func (b *Base) init(m *Manager, self GameObject, id object.ID, class object.Class, handle object.Handle) {
	b.id = id
	b.class = class
	b.handle = handle
	b.marked = false
	b.manager = m
	b.self = self
}

func (b *Base) ID() object.ID             { return b.id }
func (b *Base) Class() object.Class       { return b.class }
func (b *Base) IsMarkedForDeletion() bool { return b.marked }
func (b *Base) Manager() *Manager         { return b.manager }
func (b *Base) base() *Base               { return b }

// MarkForDeletion queues the object for destruction at the next flush.
// A destroyed object's storage is zeroed, so a stale reference has no
// manager and the call does nothing.
func (b *Base) MarkForDeletion() {
	if b.manager == nil {
		return
	}
	b.manager.MarkForDeletion(b.self)
}
