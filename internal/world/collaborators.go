package world

import (
	"time"

	"github.com/l1jgo/carnage/internal/core/object"
	"github.com/l1jgo/carnage/internal/geom"
	"github.com/l1jgo/carnage/internal/physics"
	"github.com/l1jgo/carnage/internal/render"
	"github.com/l1jgo/carnage/internal/scripting"
)

// Physics is the body lifecycle surface game objects use.
type Physics interface {
	CreatePhysicsObject(owner object.ID, position geom.Vec3, heading geom.Angle) *physics.Body
	DestroyPhysicsObject(body *physics.Body)
}

// Rules supplies tunable gameplay numbers.
type Rules interface {
	VehicleBaseHitpoints(vehicleClass string) int
	ProjectileAnimFPS() float32
	BurnDuration() time.Duration
	CalcPedestrianDamage(ctx scripting.PedDamageContext) scripting.PedDamageResult
}

// DebugRenderer receives debug primitives from objects.
type DebugRenderer interface {
	DrawSphere(center geom.Vec3, radius float32, color render.Color, solid bool)
	DrawCube(center, dims geom.Vec3, color render.Color)
	DrawLine(from, to geom.Vec3, color render.Color)
}
