package world

import (
	"fmt"
	"slices"
	"time"

	"github.com/l1jgo/carnage/internal/core/object"
	"github.com/l1jgo/carnage/internal/data"
	"github.com/l1jgo/carnage/internal/geom"
	"github.com/l1jgo/carnage/internal/physics"
	"github.com/l1jgo/carnage/internal/render"
	"go.uber.org/zap"
)

// CarSeat indexes a vehicle seat; the driver seat is 0.
type CarSeat int

const (
	CarSeatNone   CarSeat = -1
	CarSeatDriver CarSeat = 0
)

const (
	vehicleHalfWidth  = 0.5
	vehicleHalfLength = 1.0
	vehicleHeight     = 0.5
)

type passenger struct {
	pedID object.ID
	seat  CarSeat
}

// Vehicle is a drivable car.
type Vehicle struct {
	Base

	body       *physics.Body
	carStyle   *data.VehicleInfo
	hitpoints  int
	wrecked    bool
	passengers []passenger
}

// Spawn resets the vehicle to an intact, empty state at the given spot.
func (v *Vehicle) Spawn(position geom.Vec3, heading geom.Angle) {
	if v.body == nil {
		v.body = v.manager.physics.CreatePhysicsObject(v.id, position, heading)
	} else {
		v.body.SetPosition(position, heading)
	}
	v.body.SetVelocity(geom.Vec3{})
	v.hitpoints = v.manager.rules.VehicleBaseHitpoints(v.carStyle.Class)
	v.wrecked = false
	v.passengers = v.passengers[:0]
}

func (v *Vehicle) Position() geom.Vec3 {
	if v.body == nil {
		return geom.Vec3{}
	}
	return v.body.Position()
}

func (v *Vehicle) Heading() geom.Angle {
	if v.body == nil {
		return 0
	}
	return v.body.Heading()
}

func (v *Vehicle) CarStyle() *data.VehicleInfo { return v.carStyle }
func (v *Vehicle) Hitpoints() int              { return v.hitpoints }
func (v *Vehicle) IsWrecked() bool             { return v.wrecked }

// SeatCount is the number of seats including the driver's.
func (v *Vehicle) SeatCount() int {
	if v.carStyle.Seats < 1 {
		return 1
	}
	return v.carStyle.Seats
}

// Passengers returns the IDs of the pedestrians inside, driver included.
func (v *Vehicle) Passengers() []object.ID {
	ids := make([]object.ID, len(v.passengers))
	for i, p := range v.passengers {
		ids[i] = p.pedID
	}
	return ids
}

// DriverID returns the driver's ID or NullID.
func (v *Vehicle) DriverID() object.ID {
	for _, p := range v.passengers {
		if p.seat == CarSeatDriver {
			return p.pedID
		}
	}
	return object.NullID
}

// IsSeatOccupied reports whether seat is taken.
func (v *Vehicle) IsSeatOccupied(seat CarSeat) bool {
	return slices.ContainsFunc(v.passengers, func(p passenger) bool { return p.seat == seat })
}

func (v *Vehicle) addPassenger(pedID object.ID, seat CarSeat) error {
	if seat < CarSeatDriver || int(seat) >= v.SeatCount() {
		return fmt.Errorf("seat %d of %d: %w", seat, v.SeatCount(), ErrVehicleNotUsable)
	}
	if v.IsSeatOccupied(seat) {
		return fmt.Errorf("seat %d: %w", seat, ErrSeatOccupied)
	}
	v.passengers = append(v.passengers, passenger{pedID: pedID, seat: seat})
	return nil
}

func (v *Vehicle) removePassenger(pedID object.ID) {
	v.passengers = slices.DeleteFunc(v.passengers, func(p passenger) bool { return p.pedID == pedID })
}

// Drive sets the vehicle speed along its heading.
func (v *Vehicle) Drive(speed float32) {
	if v.wrecked {
		return
	}
	if limit := v.carStyle.MaxSpeed; limit > 0 && speed > limit {
		speed = limit
	}
	v.body.SetVelocity(v.body.Heading().Direction().Scale(speed))
}

// UpdateFrame drops passengers that no longer exist.
func (v *Vehicle) UpdateFrame(dt time.Duration) {
	if v.marked {
		return
	}
	v.passengers = slices.DeleteFunc(v.passengers, func(p passenger) bool {
		return v.manager.GetPedestrianByID(p.pedID) == nil
	})
	if v.wrecked {
		v.body.SetVelocity(geom.Vec3{})
	}
}

// ReceiveDamage is ignored once the vehicle is wrecked. Armored vehicles only
// take explosion damage.
func (v *Vehicle) ReceiveDamage(info DamageInfo) bool {
	if v.marked || v.wrecked {
		return false
	}
	if v.carStyle.Armored && info.Cause != data.DamageExplosion {
		return false
	}
	v.hitpoints -= max(info.Amount, 1)
	if v.hitpoints <= 0 {
		v.wreck(info)
	}
	return true
}

// wreck explodes the vehicle; passengers receive the explosion.
func (v *Vehicle) wreck(cause DamageInfo) {
	v.wrecked = true
	v.hitpoints = 0
	v.body.SetVelocity(geom.Vec3{})

	m := v.manager
	m.log.Debug("vehicle wrecked",
		zap.Uint32("id", uint32(v.id)),
		zap.String("model", v.carStyle.Name),
		zap.String("cause", string(cause.Cause)))

	if _, err := m.CreateExplosion(v.Position()); err != nil {
		m.log.Warn("cannot create vehicle explosion", zap.Uint32("id", uint32(v.id)), zap.Error(err))
	}
	blast := DamageInfo{Cause: data.DamageExplosion, Amount: pedestrianHitpoints, SourceID: v.id, HitPoint: v.Position()}
	for _, id := range v.Passengers() {
		if ped := m.GetPedestrianByID(id); ped != nil {
			ped.ReceiveDamage(blast)
		}
	}
}

func (v *Vehicle) DebugDraw(r DebugRenderer) {
	color := render.ColorBlue
	if v.wrecked {
		color = render.ColorRed
	}
	r.DrawCube(v.Position(), geom.Vec3{X: vehicleHalfWidth * 2, Y: vehicleHeight, Z: vehicleHalfLength * 2}, color)
}

// dispose evicts passengers and releases the physics body.
func (v *Vehicle) dispose() {
	m := v.manager
	if m == nil {
		return
	}
	if !m.closing {
		for _, id := range v.Passengers() {
			if ped := m.GetPedestrianByID(id); ped != nil {
				ped.ExitCar()
			}
		}
	}
	m.physics.DestroyPhysicsObject(v.body)
	v.body = nil
}

func (v *Vehicle) release(m *Manager) error {
	m.vehicles = eraseElement(m.vehicles, v)
	return m.vehiclesPool.Destroy(v.handle)
}
