package geom

const (
	PixelsPerMapUnit = 64
	MapBlockLength   = 1.0 // meters per map unit
	MapLayersCount   = 6
	// Fix16AngleRange is the number of fixed-point rotation steps in a full turn.
	Fix16AngleRange = 1024
)

func PixelsToMapUnits(pixels int) float32 {
	return float32(pixels) / PixelsPerMapUnit
}

func PixelsToMeters(pixels int) float32 {
	return PixelsToMapUnits(pixels) * MapBlockLength
}

func MapUnitsToMeters(units float32) float32 {
	return units * MapBlockLength
}

// InvertMapLayer converts a top-down layer index into a bottom-up one.
func InvertMapLayer(layer int) int {
	return MapLayersCount - 1 - layer
}

// Fix16ToAngle converts a fixed-point rotation (Fix16AngleRange per turn).
func Fix16ToAngle(fixed int) Angle {
	return FromDegrees(float32(fixed) * 360 / Fix16AngleRange)
}
