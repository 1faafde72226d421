package object

import (
	"fmt"
	"strings"
)

// Class discriminates the closed set of game object kinds.
type Class uint8

const (
	ClassNone Class = iota
	ClassPedestrian
	ClassVehicle
	ClassProjectile
	ClassDecoration
	ClassObstacle
	ClassExplosion
	ClassPowerup
)

var classNames = [...]string{
	ClassNone:       "none",
	ClassPedestrian: "pedestrian",
	ClassVehicle:    "vehicle",
	ClassProjectile: "projectile",
	ClassDecoration: "decoration",
	ClassObstacle:   "obstacle",
	ClassExplosion:  "explosion",
	ClassPowerup:    "powerup",
}

// PooledClasses lists the kinds backed by a typed pool, in destroy-dispatch order.
var PooledClasses = []Class{
	ClassPedestrian,
	ClassVehicle,
	ClassProjectile,
	ClassDecoration,
	ClassObstacle,
	ClassExplosion,
}

func (c Class) String() string {
	if int(c) < len(classNames) {
		return classNames[c]
	}
	return fmt.Sprintf("class(%d)", uint8(c))
}

// ParseClass maps a class name (case-insensitive) to its Class.
func ParseClass(s string) (Class, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range classNames {
		if name == s {
			return Class(i), nil
		}
	}
	return ClassNone, fmt.Errorf("unknown object class %q", s)
}

func (c Class) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Class) UnmarshalText(text []byte) error {
	parsed, err := ParseClass(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
