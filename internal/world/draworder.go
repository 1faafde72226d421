package world

// DrawOrder is the sprite layering bucket, lowest drawn first.
type DrawOrder int

const (
	DrawOrderGroundDecals DrawOrder = iota
	DrawOrderObjects
	DrawOrderPedestrian
	DrawOrderCar
	DrawOrderProjectiles
	DrawOrderExplosions
)

var drawOrderNames = [...]string{
	DrawOrderGroundDecals: "ground_decals",
	DrawOrderObjects:      "objects",
	DrawOrderPedestrian:   "pedestrian",
	DrawOrderCar:          "car",
	DrawOrderProjectiles:  "projectiles",
	DrawOrderExplosions:   "explosions",
}

func (d DrawOrder) String() string {
	if d < 0 || int(d) >= len(drawOrderNames) {
		return "unknown"
	}
	return drawOrderNames[d]
}
