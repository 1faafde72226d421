package data

import (
	"fmt"
	"os"

	"github.com/l1jgo/carnage/internal/geom"
	"gopkg.in/yaml.v3"
)

// carRemapThreshold marks startup entries that describe vehicles.
const carRemapThreshold = 128

// StartupObject is one entry of the map's initial object list. Coordinates
// are in pixels, rotation is fixed-point (see geom.Fix16AngleRange).
type StartupObject struct {
	X        int `yaml:"x"`
	Y        int `yaml:"y"`
	Z        int `yaml:"z"`
	Rotation int `yaml:"rotation"`
	// Type is a vehicle model for car objects, otherwise a style object index.
	Type  int `yaml:"type"`
	Remap int `yaml:"remap"`
}

type startupListFile struct {
	Objects []StartupObject `yaml:"startup_objects"`
}

func (o StartupObject) IsCarObject() bool {
	return o.Remap >= carRemapThreshold
}

// Position converts the pixel placement into meters, with the map layer
// taken from Z and inverted so layer 0 is the ground.
func (o StartupObject) Position() geom.Vec3 {
	mapLevel := int(geom.PixelsToMapUnits(o.Z))
	mapLevel = geom.InvertMapLayer(mapLevel)
	return geom.Vec3{
		X: geom.PixelsToMeters(o.X),
		Y: geom.MapUnitsToMeters(float32(mapLevel)),
		Z: geom.PixelsToMeters(o.Y),
	}
}

func (o StartupObject) Heading() geom.Angle {
	return geom.Fix16ToAngle(o.Rotation)
}

// LoadStartupObjects loads the ordered startup object list from a YAML file.
func LoadStartupObjects(path string) ([]StartupObject, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read startup objects: %w", err)
	}
	var f startupListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse startup objects: %w", err)
	}
	return f.Objects, nil
}
