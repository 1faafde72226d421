package world

import (
	"time"

	"github.com/l1jgo/carnage/internal/data"
	"github.com/l1jgo/carnage/internal/geom"
	"github.com/l1jgo/carnage/internal/physics"
	"github.com/l1jgo/carnage/internal/render"
	"go.uber.org/zap"
)

// Obstacle is a static map object backed by a physics body. Destructible
// obstacles have hitpoints and blow up when they run out.
type Obstacle struct {
	Base

	body      *physics.Body
	desc      *data.GameObjectInfo
	hitpoints int
	destroyed bool
}

// Spawn places the obstacle and restores its hitpoints.
func (o *Obstacle) Spawn(position geom.Vec3, heading geom.Angle) {
	if o.body == nil {
		o.body = o.manager.physics.CreatePhysicsObject(o.id, position, heading)
	} else {
		o.body.SetPosition(position, heading)
	}
	o.hitpoints = o.desc.Hitpoints
	o.destroyed = false
}

func (o *Obstacle) Position() geom.Vec3 {
	if o.body == nil {
		return geom.Vec3{}
	}
	return o.body.Position()
}

func (o *Obstacle) Descriptor() *data.GameObjectInfo { return o.desc }
func (o *Obstacle) Hitpoints() int                   { return o.hitpoints }
func (o *Obstacle) IsDestructible() bool             { return o.desc.Destructible }

func (o *Obstacle) UpdateFrame(_ time.Duration) {}

// ReceiveDamage is ignored by indestructible obstacles.
func (o *Obstacle) ReceiveDamage(info DamageInfo) bool {
	if o.marked || o.destroyed || !o.desc.Destructible {
		return false
	}
	o.hitpoints -= max(info.Amount, 1)
	if o.hitpoints > 0 {
		return true
	}
	o.destroyed = true
	m := o.manager
	if _, err := m.CreateExplosion(o.Position()); err != nil {
		m.log.Warn("cannot create obstacle explosion", zap.Uint32("id", uint32(o.id)), zap.Error(err))
	}
	o.MarkForDeletion()
	return true
}

func (o *Obstacle) DebugDraw(r DebugRenderer) {
	r.DrawCube(o.Position(), geom.Vec3{X: o.desc.Width, Y: o.desc.Height, Z: o.desc.Depth}, render.ColorYellow)
}

func (o *Obstacle) dispose() {
	if o.manager == nil {
		return
	}
	o.manager.physics.DestroyPhysicsObject(o.body)
	o.body = nil
}

func (o *Obstacle) release(m *Manager) error {
	m.obstacles = eraseElement(m.obstacles, o)
	return m.obstaclesPool.Destroy(o.handle)
}
