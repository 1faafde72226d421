package world

import (
	"errors"
	"fmt"
	"time"

	"github.com/l1jgo/carnage/internal/core/object"
	"github.com/l1jgo/carnage/internal/data"
	"github.com/l1jgo/carnage/internal/geom"
	"github.com/l1jgo/carnage/internal/physics"
	"github.com/l1jgo/carnage/internal/render"
	"github.com/l1jgo/carnage/internal/scripting"
	"go.uber.org/zap"
)

// PedestrianState is the current activity of a pedestrian.
type PedestrianState int

const (
	PedStateStanding PedestrianState = iota
	PedStateWalking
	PedStateInCar
	PedStateDead
)

func (s PedestrianState) String() string {
	switch s {
	case PedStateStanding:
		return "standing"
	case PedStateWalking:
		return "walking"
	case PedStateInCar:
		return "in_car"
	case PedStateDead:
		return "dead"
	}
	return "unknown"
}

// DeathReason is meaningful only while the pedestrian is dead.
type DeathReason int

const (
	DeathReasonNull DeathReason = iota
	DeathReasonShot
	DeathReasonBurned
	DeathReasonExploded
	DeathReasonPunched
	DeathReasonDrowned
)

func deathReasonFor(cause data.DamageKind) DeathReason {
	switch cause {
	case data.DamageBullet:
		return DeathReasonShot
	case data.DamageFire:
		return DeathReasonBurned
	case data.DamageExplosion:
		return DeathReasonExploded
	case data.DamagePunch:
		return DeathReasonPunched
	case data.DamageWater:
		return DeathReasonDrowned
	}
	return DeathReasonNull
}

const (
	pedestrianHitpoints = 5
	pedestrianWalkSpeed = 1.2  // meters per second
	pedestrianRadius    = 0.12 // meters
	projectileMuzzle    = 0.2  // spawn offset in front of the shooter
)

var (
	ErrPedestrianDead   = errors.New("pedestrian is dead")
	ErrAlreadyInCar     = errors.New("pedestrian already in a car")
	ErrVehicleWrecked   = errors.New("vehicle is wrecked")
	ErrSeatOccupied     = errors.New("car seat occupied")
	ErrNoAmmo           = errors.New("no ammo for weapon")
	ErrUnknownWeapon    = errors.New("unknown weapon")
	ErrVehicleNotUsable = errors.New("vehicle not usable")
)

// Pedestrian is a city pedestrian or player character.
type Pedestrian struct {
	Base

	body       *physics.Body
	remapIndex int
	state      PedestrianState
	stateTime  time.Duration
	hitpoints  int

	deathReason DeathReason

	// weak reference to the occupied vehicle
	carID object.ID
	seat  CarSeat

	currentWeapon int
	ammo          map[int]int // -1 = infinite

	burning      bool
	burnTime     time.Duration
	fireEffectID object.ID
}

// Spawn resets the pedestrian to standing with full health at the given spot.
func (p *Pedestrian) Spawn(position geom.Vec3, heading geom.Angle) {
	if p.body == nil {
		p.body = p.manager.physics.CreatePhysicsObject(p.id, position, heading)
	} else {
		p.body.SetPosition(position, heading)
	}
	p.body.SetVelocity(geom.Vec3{})

	p.setState(PedStateStanding)
	p.hitpoints = pedestrianHitpoints
	p.deathReason = DeathReasonNull
	p.carID = object.NullID
	p.seat = CarSeatNone
	p.setBurning(false)

	if p.ammo == nil {
		p.ammo = make(map[int]int)
	}
	clear(p.ammo)
	p.currentWeapon = 0
	if style := p.manager.style; style.IsLoaded() {
		for _, w := range style.Weapons {
			p.ammo[w.ID] = w.DefaultAmmo
		}
	}
}

func (p *Pedestrian) Position() geom.Vec3 {
	if p.body == nil {
		return geom.Vec3{}
	}
	return p.body.Position()
}

func (p *Pedestrian) Heading() geom.Angle {
	if p.body == nil {
		return 0
	}
	return p.body.Heading()
}

func (p *Pedestrian) RemapIndex() int          { return p.remapIndex }
func (p *Pedestrian) State() PedestrianState   { return p.state }
func (p *Pedestrian) StateTime() time.Duration { return p.stateTime }
func (p *Pedestrian) Hitpoints() int           { return p.hitpoints }
func (p *Pedestrian) DeathReason() DeathReason { return p.deathReason }
func (p *Pedestrian) IsDead() bool             { return p.state == PedStateDead }
func (p *Pedestrian) IsBurning() bool          { return p.burning }
func (p *Pedestrian) IsStanding() bool         { return p.state == PedStateStanding }
func (p *Pedestrian) IsWalking() bool          { return p.state == PedStateWalking }
func (p *Pedestrian) IsInCar() bool            { return p.state == PedStateInCar }
func (p *Pedestrian) CurrentCarID() object.ID  { return p.carID }
func (p *Pedestrian) CurrentSeat() CarSeat     { return p.seat }
func (p *Pedestrian) FireEffectID() object.ID  { return p.fireEffectID }
func (p *Pedestrian) CurrentWeapon() int       { return p.currentWeapon }

// Ammo returns the ammo count for a weapon, -1 meaning infinite.
func (p *Pedestrian) Ammo(weaponID int) (int, bool) {
	n, ok := p.ammo[weaponID]
	return n, ok
}

// IsCarDriver reports whether the pedestrian occupies the driver seat.
func (p *Pedestrian) IsCarDriver() bool {
	return p.state == PedStateInCar && p.seat == CarSeatDriver
}

// CurrentCar re-resolves the occupied vehicle. A vehicle destroyed since the
// pedestrian entered it returns nil.
func (p *Pedestrian) CurrentCar() *Vehicle {
	if p.state != PedStateInCar {
		return nil
	}
	return p.manager.GetVehicleByID(p.carID)
}

func (p *Pedestrian) setState(s PedestrianState) {
	p.state = s
	p.stateTime = 0
}

// UpdateFrame advances timers, the burn effect and the in-car placement.
func (p *Pedestrian) UpdateFrame(dt time.Duration) {
	if p.marked {
		return
	}
	p.stateTime += dt

	switch p.state {
	case PedStateInCar:
		car := p.manager.GetVehicleByID(p.carID)
		if car == nil {
			// the car was removed without evicting us
			p.setCarExited()
			break
		}
		p.body.SetPosition(car.Position(), car.Heading())
	case PedStateWalking:
		p.body.SetVelocity(p.body.Heading().Direction().Scale(pedestrianWalkSpeed))
	}

	if p.burning {
		p.updateBurnEffect(dt)
	}
}

func (p *Pedestrian) updateBurnEffect(dt time.Duration) {
	p.burnTime += dt
	if fire := p.manager.GetDecorationByID(p.fireEffectID); fire != nil {
		fire.SetPosition(p.Position())
	} else {
		p.fireEffectID = object.NullID
	}
	if p.burnTime >= p.manager.rules.BurnDuration() {
		p.DieFromDamage(data.DamageFire)
	}
}

// Walk starts walking along heading.
func (p *Pedestrian) Walk(heading geom.Angle) {
	if p.state != PedStateStanding && p.state != PedStateWalking {
		return
	}
	p.body.SetPosition(p.body.Position(), heading)
	p.body.SetVelocity(heading.Direction().Scale(pedestrianWalkSpeed))
	if p.state != PedStateWalking {
		p.setState(PedStateWalking)
	}
}

// Stop halts walking.
func (p *Pedestrian) Stop() {
	if p.state != PedStateWalking {
		return
	}
	p.body.SetVelocity(geom.Vec3{})
	p.setState(PedStateStanding)
}

// ReceiveDamage offers damage to the pedestrian; the rules decide whether it
// is accepted in the current state.
func (p *Pedestrian) ReceiveDamage(info DamageInfo) bool {
	if p.marked || p.state == PedStateDead {
		return false
	}
	res := p.manager.rules.CalcPedestrianDamage(scripting.PedDamageContext{
		Cause:     string(info.Cause),
		Amount:    info.Amount,
		Hitpoints: p.hitpoints,
		InCar:     p.state == PedStateInCar,
		Burning:   p.burning,
	})
	if !res.Accepted {
		return false
	}
	if res.Burn {
		p.setBurning(true)
	}
	p.hitpoints -= res.Damage
	if p.hitpoints <= 0 {
		p.DieFromDamage(info.Cause)
	}
	return true
}

// DieFromDamage kills the pedestrian instantly. It stays dead until respawned.
func (p *Pedestrian) DieFromDamage(cause data.DamageKind) {
	if p.state == PedStateDead {
		return
	}
	if p.state == PedStateInCar {
		p.ExitCar()
	}
	p.setBurning(false)
	p.hitpoints = 0
	p.body.SetVelocity(geom.Vec3{})
	p.setState(PedStateDead)
	p.deathReason = deathReasonFor(cause)

	m := p.manager
	m.log.Debug("pedestrian died",
		zap.Uint32("id", uint32(p.id)),
		zap.String("cause", string(cause)))

	if !m.firstBloodDone {
		m.firstBloodDone = true
		if _, err := m.CreateFirstBlood(p.Position()); err != nil {
			m.log.Debug("first blood effect unavailable", zap.Error(err))
		}
	}
}

func (p *Pedestrian) setBurning(active bool) {
	if p.burning == active {
		return
	}
	p.burning = active
	p.burnTime = 0

	m := p.manager
	if !active {
		if fire := m.GetDecorationByID(p.fireEffectID); fire != nil {
			fire.MarkForDeletion()
		}
		p.fireEffectID = object.NullID
		return
	}
	if !m.style.IsLoaded() {
		return
	}
	desc := m.style.Object(m.style.Effects.PedestrianFire)
	if desc == nil {
		return
	}
	fire, err := m.CreateDecoration(p.Position(), 0, desc)
	if err != nil {
		m.log.Warn("cannot create pedestrian fire effect", zap.Uint32("id", uint32(p.id)), zap.Error(err))
		return
	}
	fire.SetDrawOrder(DrawOrderPedestrian)
	p.fireEffectID = fire.ID()
}

// EnterCar puts the pedestrian into a seat of car.
func (p *Pedestrian) EnterCar(car *Vehicle, seat CarSeat) error {
	switch {
	case car == nil || car.marked:
		return ErrVehicleNotUsable
	case p.state == PedStateDead:
		return ErrPedestrianDead
	case p.state == PedStateInCar:
		return ErrAlreadyInCar
	case car.IsWrecked():
		return ErrVehicleWrecked
	}
	if err := car.addPassenger(p.id, seat); err != nil {
		return err
	}
	p.carID = car.ID()
	p.seat = seat
	p.body.SetVelocity(geom.Vec3{})
	p.body.SetPosition(car.Position(), car.Heading())
	p.setState(PedStateInCar)
	return nil
}

// ExitCar leaves the current vehicle and stands next to it.
func (p *Pedestrian) ExitCar() {
	if p.state != PedStateInCar {
		return
	}
	if car := p.manager.GetVehicleByID(p.carID); car != nil {
		car.removePassenger(p.id)
		side := car.Heading().Normalize() + geom.FromDegrees(90)
		p.body.SetPosition(car.Position().Add(side.Direction().Scale(vehicleHalfWidth)), car.Heading())
	}
	p.setCarExited()
}

func (p *Pedestrian) setCarExited() {
	p.carID = object.NullID
	p.seat = CarSeatNone
	p.setState(PedStateStanding)
}

// ChangeWeapon selects a weapon the pedestrian has ammo for.
func (p *Pedestrian) ChangeWeapon(weaponID int) error {
	n, ok := p.ammo[weaponID]
	if !ok {
		return fmt.Errorf("weapon %d: %w", weaponID, ErrUnknownWeapon)
	}
	if n == 0 {
		return fmt.Errorf("weapon %d: %w", weaponID, ErrNoAmmo)
	}
	p.currentWeapon = weaponID
	return nil
}

// Shoot fires the current weapon. Melee weapons produce no projectile and
// return nil.
func (p *Pedestrian) Shoot() (*Projectile, error) {
	if p.state == PedStateDead {
		return nil, ErrPedestrianDead
	}
	if p.state == PedStateInCar {
		return nil, ErrAlreadyInCar
	}
	m := p.manager
	if !m.style.IsLoaded() {
		return nil, ErrStyleNotLoaded
	}
	weapon := m.style.Weapon(p.currentWeapon)
	if weapon == nil {
		return nil, fmt.Errorf("weapon %d: %w", p.currentWeapon, ErrUnknownWeapon)
	}
	switch n := p.ammo[weapon.ID]; {
	case n == 0:
		return nil, fmt.Errorf("weapon %q: %w", weapon.Name, ErrNoAmmo)
	case n > 0:
		p.ammo[weapon.ID] = n - 1
	}
	if weapon.ProjectileObject == data.ObjectTypeNull {
		return nil, nil
	}
	heading := p.Heading()
	start := p.Position().Add(heading.Direction().Scale(projectileMuzzle))
	return m.CreateProjectile(start, heading, weapon)
}

func (p *Pedestrian) DebugDraw(r DebugRenderer) {
	color := render.ColorGreen
	if p.state == PedStateDead {
		color = render.ColorRed
	}
	r.DrawSphere(p.Position(), pedestrianRadius, color, false)
}

// dispose is the pool teardown: leave the car, drop the fire effect and
// release the physics body.
func (p *Pedestrian) dispose() {
	m := p.manager
	if m == nil {
		return
	}
	if !m.closing {
		p.ExitCar()
		p.setBurning(false)
	}
	m.physics.DestroyPhysicsObject(p.body)
	p.body = nil
}

func (p *Pedestrian) release(m *Manager) error {
	m.pedestrians = eraseElement(m.pedestrians, p)
	return m.pedestriansPool.Destroy(p.handle)
}
