package world

import (
	"time"

	"github.com/l1jgo/carnage/internal/data"
	"github.com/l1jgo/carnage/internal/geom"
)

// Decoration is a purely visual object with no physics body. A finite life
// duration counts completed animation cycles; 0 means it lives until
// removed explicitly.
type Decoration struct {
	Base

	desc      *data.GameObjectInfo
	position  geom.Vec3
	heading   geom.Angle
	anim      SpriteAnimation
	drawOrder DrawOrder

	lifeDuration int
	cyclesPlayed int
}

// Spawn places the decoration and restarts its looping animation.
func (d *Decoration) Spawn(position geom.Vec3, heading geom.Angle) {
	d.position = position
	d.heading = heading
	d.drawOrder = DrawOrderObjects
	d.lifeDuration = 0
	d.cyclesPlayed = 0

	d.anim.Clear()
	if d.desc != nil {
		d.anim.SetDesc(d.desc.Animation)
		d.anim.Play(AnimLoopFromStart, 0)
	}
}

func (d *Decoration) Position() geom.Vec3              { return d.position }
func (d *Decoration) Heading() geom.Angle              { return d.heading }
func (d *Decoration) Descriptor() *data.GameObjectInfo { return d.desc }
func (d *Decoration) Animation() *SpriteAnimation      { return &d.anim }
func (d *Decoration) LifeDuration() int                { return d.lifeDuration }
func (d *Decoration) DrawOrder() DrawOrder             { return d.drawOrder }
func (d *Decoration) SetDrawOrder(order DrawOrder)     { d.drawOrder = order }
func (d *Decoration) SetPosition(position geom.Vec3)   { d.position = position }
func (d *Decoration) ReceiveDamage(_ DamageInfo) bool  { return false }
func (d *Decoration) SetHeading(heading geom.Angle)    { d.heading = heading }

func (d *Decoration) DebugDraw(_ DebugRenderer) {}

// SetLifeDuration sets how many animation cycles the decoration lives for,
// counted from now. 0 disables expiry.
func (d *Decoration) SetLifeDuration(cycles int) {
	d.lifeDuration = max(cycles, 0)
	d.cyclesPlayed = 0
}

// UpdateFrame advances the animation and expires the decoration once its
// life duration has been played.
func (d *Decoration) UpdateFrame(dt time.Duration) {
	if d.marked {
		return
	}
	d.cyclesPlayed += d.anim.Advance(dt)
	if d.lifeDuration == 0 {
		return
	}
	if d.cyclesPlayed >= d.lifeDuration || !d.anim.IsPlaying() {
		d.MarkForDeletion()
	}
}

func (d *Decoration) dispose() {}

func (d *Decoration) release(m *Manager) error {
	m.decorations = eraseElement(m.decorations, d)
	return m.decorationsPool.Destroy(d.handle)
}
