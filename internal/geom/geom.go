// Package geom holds the small vector and angle types shared by the
// simulation, plus conversions between map, pixel and meter units.
package geom

import "math"

// Vec3 is a position in meters. Y is the vertical axis; X/Z span the map plane.
type Vec3 struct {
	X, Y, Z float32
}

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

func (v Vec3) Scale(s float32) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

func (v Vec3) Length() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y + v.Z*v.Z)))
}

// Lerp interpolates between v and o; t is clamped to [0, 1].
func (v Vec3) Lerp(o Vec3, t float32) Vec3 {
	if t <= 0 {
		return v
	}
	if t >= 1 {
		return o
	}
	return v.Add(o.Sub(v).Scale(t))
}

// Angle is a heading in degrees, normalized to [0, 360).
type Angle float32

func FromDegrees(deg float32) Angle {
	return Angle(deg).Normalize()
}

func (a Angle) Degrees() float32 { return float32(a) }

func (a Angle) Radians() float64 { return float64(a) * math.Pi / 180 }

func (a Angle) Normalize() Angle {
	d := math.Mod(float64(a), 360)
	if d < 0 {
		d += 360
	}
	return Angle(d)
}

// Direction returns the unit vector on the map plane the angle points along.
func (a Angle) Direction() Vec3 {
	r := a.Radians()
	return Vec3{X: float32(math.Cos(r)), Z: float32(math.Sin(r))}
}
