package world

import (
	"time"

	"github.com/l1jgo/carnage/internal/core/object"
	"github.com/l1jgo/carnage/internal/data"
	"github.com/l1jgo/carnage/internal/geom"
	"github.com/l1jgo/carnage/internal/physics"
	"github.com/l1jgo/carnage/internal/render"
	"go.uber.org/zap"
)

// Projectile flies until contact is reported, then resolves damage and
// effects and removes itself.
type Projectile struct {
	Base

	body          *physics.Body
	weapon        *data.WeaponInfo
	startPosition geom.Vec3
	anim          SpriteAnimation
	drawOrder     DrawOrder

	contactDetected bool
	contactPoint    geom.Vec3
	contactID       object.ID
}

// Spawn launches the projectile from startPosition along heading. weapon may
// be nil.
func (p *Projectile) Spawn(startPosition geom.Vec3, heading geom.Angle, weapon *data.WeaponInfo) {
	m := p.manager
	p.weapon = weapon
	p.startPosition = startPosition
	p.contactDetected = false
	p.contactID = object.NullID
	if p.body == nil {
		p.body = m.physics.CreatePhysicsObject(p.id, startPosition, heading)
	} else {
		p.body.SetPosition(startPosition, heading)
	}
	p.body.SetVelocity(geom.Vec3{})
	p.drawOrder = DrawOrderProjectiles

	p.anim.Clear()
	if weapon == nil {
		return
	}
	p.body.SetVelocity(heading.Direction().Scale(weapon.ProjectileSpeed))

	desc := m.style.Object(weapon.ProjectileObject)
	if desc == nil {
		return
	}
	if desc.Class != object.ClassProjectile {
		m.log.Warn("weapon projectile object has wrong class",
			zap.String("weapon", weapon.Name),
			zap.Stringer("class", desc.Class))
		return
	}
	p.anim.SetDesc(desc.Animation)
	loop := AnimLoopFromStart
	if !weapon.IsFireDamage() {
		loop = AnimLoopNone
	}
	p.anim.Play(loop, m.rules.ProjectileAnimFPS())
}

func (p *Projectile) Position() geom.Vec3 {
	if p.body == nil {
		return geom.Vec3{}
	}
	return p.body.Position()
}

func (p *Projectile) Weapon() *data.WeaponInfo        { return p.weapon }
func (p *Projectile) StartPosition() geom.Vec3        { return p.startPosition }
func (p *Projectile) Animation() *SpriteAnimation     { return &p.anim }
func (p *Projectile) IsContactDetected() bool         { return p.contactDetected }
func (p *Projectile) ContactPoint() geom.Vec3         { return p.contactPoint }
func (p *Projectile) ContactObjectID() object.ID      { return p.contactID }
func (p *Projectile) DrawOrder() DrawOrder            { return p.drawOrder }
func (p *Projectile) ReceiveDamage(_ DamageInfo) bool { return false }

// SetContactDetected records a hit at position against obj, which may be nil
// for world geometry. The contact resolves on the next update.
func (p *Projectile) SetContactDetected(position geom.Vec3, obj GameObject) {
	p.contactDetected = true
	p.contactPoint = position
	p.contactID = object.NullID
	if obj != nil {
		p.contactID = obj.ID()
	}
}

// UpdateFrame resolves a pending contact: damage the contact object, spawn
// the weapon's explosion and hit effect, then remove the projectile.
func (p *Projectile) UpdateFrame(dt time.Duration) {
	p.anim.Advance(dt)

	if p.marked || !p.contactDetected {
		return
	}
	if p.weapon == nil {
		p.MarkForDeletion()
		return
	}

	m := p.manager
	contact := m.GetGameObjectByID(p.contactID)
	if contact != nil {
		damage := DamageFromWeapon(p.weapon, p, p.contactPoint)
		if !contact.ReceiveDamage(damage) {
			if p.weapon.IsFireDamage() || contact.Class() == object.ClassPedestrian {
				// pass through, keep flying
				p.contactDetected = false
				p.contactID = object.NullID
				return
			}
		}
	}

	if p.weapon.IsExplosionDamage() {
		if contact == nil {
			p.contactPoint.Y += geom.MapUnitsToMeters(1)
		}
		if _, err := m.CreateExplosion(p.contactPoint); err != nil {
			m.log.Warn("cannot create projectile explosion", zap.Uint32("id", uint32(p.id)), zap.Error(err))
		}
	}

	if p.weapon.ProjectileHitEffect > data.ObjectTypeNull {
		hitEffect, err := m.CreateDecoration(p.contactPoint, 0, m.style.Object(p.weapon.ProjectileHitEffect))
		if err != nil {
			m.log.Warn("cannot create projectile hit effect", zap.Uint32("id", uint32(p.id)), zap.Error(err))
		} else {
			hitEffect.SetDrawOrder(DrawOrderProjectiles)
			hitEffect.SetLifeDuration(1)
		}
	}

	p.MarkForDeletion()
}

func (p *Projectile) DebugDraw(r DebugRenderer) {
	if p.weapon == nil {
		return
	}
	r.DrawSphere(p.Position(), p.weapon.ProjectileSize, render.ColorOrange, false)
}

func (p *Projectile) dispose() {
	if p.manager == nil {
		return
	}
	p.manager.physics.DestroyPhysicsObject(p.body)
	p.body = nil
}

func (p *Projectile) release(m *Manager) error {
	m.projectiles = eraseElement(m.projectiles, p)
	return m.projectilesPool.Destroy(p.handle)
}
