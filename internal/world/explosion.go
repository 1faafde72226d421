package world

import (
	"time"

	"github.com/l1jgo/carnage/internal/data"
	"github.com/l1jgo/carnage/internal/geom"
	"github.com/l1jgo/carnage/internal/render"
	"go.uber.org/zap"
)

const (
	explosionRadius = 1.5 // meters
	explosionDamage = 10
)

// Explosion plays its animation once, damaging everything in range on its
// first update, and removes itself when the animation ends. Its teardown
// leaves a smoke decoration behind.
type Explosion struct {
	Base

	position     geom.Vec3
	anim         SpriteAnimation
	damageDealt  bool
	spawnedSmoke bool
}

// Spawn places the explosion and starts the one-shot animation.
func (e *Explosion) Spawn(position geom.Vec3) {
	e.position = position
	e.damageDealt = false
	e.spawnedSmoke = false

	e.anim.Clear()
	style := e.manager.style
	if !style.IsLoaded() {
		return
	}
	if desc := style.Object(style.Effects.Explosion); desc != nil {
		e.anim.SetDesc(desc.Animation)
		e.anim.Play(AnimLoopNone, 0)
	}
}

func (e *Explosion) Position() geom.Vec3             { return e.position }
func (e *Explosion) Animation() *SpriteAnimation     { return &e.anim }
func (e *Explosion) IsDamageDealt() bool             { return e.damageDealt }
func (e *Explosion) ReceiveDamage(_ DamageInfo) bool { return false }

// UpdateFrame applies blast damage once, then waits for the animation.
func (e *Explosion) UpdateFrame(dt time.Duration) {
	if e.marked {
		return
	}
	if !e.damageDealt {
		e.damageDealt = true
		e.applyBlast()
	}
	e.anim.Advance(dt)
	if !e.anim.IsPlaying() {
		e.MarkForDeletion()
	}
}

func (e *Explosion) applyBlast() {
	m := e.manager
	blast := DamageInfo{Cause: data.DamageExplosion, Amount: explosionDamage, SourceID: e.id, HitPoint: e.position}
	// damage may spawn further objects; the bound is re-read every step
	for i := 0; i < len(m.allObjects); i++ {
		obj := m.allObjects[i]
		if obj == GameObject(e) || obj.IsMarkedForDeletion() || obj.Class() == e.class {
			continue
		}
		if obj.Position().Sub(e.position).Length() > explosionRadius {
			continue
		}
		obj.ReceiveDamage(blast)
	}
}

func (e *Explosion) DebugDraw(r DebugRenderer) {
	r.DrawSphere(e.position, explosionRadius, render.ColorRed, false)
}

// dispose leaves smoke behind unless the registry is shutting down.
func (e *Explosion) dispose() {
	m := e.manager
	if m == nil || m.closing || e.spawnedSmoke || !m.style.IsLoaded() {
		return
	}
	desc := m.style.Object(m.style.Effects.ExplosionSmoke)
	if desc == nil {
		return
	}
	e.spawnedSmoke = true
	smoke, err := m.CreateDecoration(e.position, 0, desc)
	if err != nil {
		m.log.Warn("cannot create explosion smoke", zap.Uint32("id", uint32(e.id)), zap.Error(err))
		return
	}
	smoke.SetDrawOrder(DrawOrderExplosions)
}

func (e *Explosion) release(m *Manager) error {
	m.explosions = eraseElement(m.explosions, e)
	return m.explosionsPool.Destroy(e.handle)
}
