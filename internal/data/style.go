package data

import (
	"fmt"
	"os"

	"github.com/l1jgo/carnage/internal/core/object"
	"gopkg.in/yaml.v3"
)

// ObjectTypeNull is the reserved style object index meaning "no object".
const ObjectTypeNull = 0

// DamageKind classifies weapon damage.
type DamageKind string

const (
	DamageBullet    DamageKind = "bullet"
	DamageFire      DamageKind = "fire"
	DamageExplosion DamageKind = "explosion"
	DamagePunch     DamageKind = "punch"
	DamageWater     DamageKind = "water"
)

// AnimationInfo describes a sprite animation strip.
type AnimationInfo struct {
	FirstFrame int     `yaml:"first_frame"`
	Frames     int     `yaml:"frames"`
	FPS        float32 `yaml:"fps"`
}

// GameObjectInfo is a class-tagged descriptor from the style object table.
type GameObjectInfo struct {
	Index        int           `yaml:"-"`
	Name         string        `yaml:"name"`
	Class        object.Class  `yaml:"class"`
	Animation    AnimationInfo `yaml:"animation"`
	LifeDuration int           `yaml:"life_duration"` // animation cycles, 0 = infinite
	Width        float32       `yaml:"width"`
	Height       float32       `yaml:"height"`
	Depth        float32       `yaml:"depth"`
	Destructible bool          `yaml:"destructible"`
	Hitpoints    int           `yaml:"hitpoints"`
}

// VehicleInfo is a vehicle style entry.
type VehicleInfo struct {
	Model    int     `yaml:"model"`
	Name     string  `yaml:"name"`
	Class    string  `yaml:"class"` // bus, motorcycle, standard_car, train, tank, ...
	Seats    int     `yaml:"seats"`
	Remap    int     `yaml:"remap"`
	MaxSpeed float32 `yaml:"max_speed"`
	Armored  bool    `yaml:"armored"`
}

// WeaponInfo describes a weapon and the projectile it fires.
type WeaponInfo struct {
	ID                  int        `yaml:"id"`
	Name                string     `yaml:"name"`
	Damage              DamageKind `yaml:"damage"`
	BaseDamage          int        `yaml:"base_damage"`
	ProjectileObject    int        `yaml:"projectile_object"`
	ProjectileHitEffect int        `yaml:"projectile_hit_effect"`
	ProjectileSize      float32    `yaml:"projectile_size"`
	ProjectileSpeed     float32    `yaml:"projectile_speed"`
	DefaultAmmo         int        `yaml:"default_ammo"` // -1 = infinite
}

func (w *WeaponInfo) IsFireDamage() bool      { return w.Damage == DamageFire }
func (w *WeaponInfo) IsExplosionDamage() bool { return w.Damage == DamageExplosion }

// EffectIndices names style objects spawned by gameplay code.
type EffectIndices struct {
	FirstBlood     int `yaml:"first_blood"`
	Explosion      int `yaml:"explosion"`
	ExplosionSmoke int `yaml:"explosion_smoke"`
	PedestrianFire int `yaml:"pedestrian_fire"`
}

// StyleData is the read-only city style table.
type StyleData struct {
	Objects  []GameObjectInfo `yaml:"objects"`
	Vehicles []VehicleInfo    `yaml:"vehicles"`
	Weapons  []WeaponInfo     `yaml:"weapons"`
	Effects  EffectIndices    `yaml:"effects"`

	loaded bool
}

// LoadStyleData loads the style tables from a YAML file.
func LoadStyleData(path string) (*StyleData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read style data: %w", err)
	}
	s, err := ParseStyleData(raw)
	if err != nil {
		return nil, fmt.Errorf("style data %s: %w", path, err)
	}
	return s, nil
}

// ParseStyleData decodes and validates style tables.
func ParseStyleData(raw []byte) (*StyleData, error) {
	var s StyleData
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parse style data: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	for i := range s.Objects {
		s.Objects[i].Index = i
	}
	s.loaded = true
	return &s, nil
}

func (s *StyleData) validate() error {
	seenModels := make(map[int]struct{}, len(s.Vehicles))
	for _, v := range s.Vehicles {
		if _, dup := seenModels[v.Model]; dup {
			return fmt.Errorf("duplicate vehicle model %d", v.Model)
		}
		seenModels[v.Model] = struct{}{}
	}
	for _, w := range s.Weapons {
		if w.ProjectileObject != ObjectTypeNull && !s.validObject(w.ProjectileObject) {
			return fmt.Errorf("weapon %q: projectile object %d out of range", w.Name, w.ProjectileObject)
		}
		if w.ProjectileHitEffect != ObjectTypeNull && !s.validObject(w.ProjectileHitEffect) {
			return fmt.Errorf("weapon %q: hit effect %d out of range", w.Name, w.ProjectileHitEffect)
		}
	}
	effects := map[string]int{
		"first_blood":     s.Effects.FirstBlood,
		"explosion":       s.Effects.Explosion,
		"explosion_smoke": s.Effects.ExplosionSmoke,
		"pedestrian_fire": s.Effects.PedestrianFire,
	}
	for name, idx := range effects {
		if idx != ObjectTypeNull && !s.validObject(idx) {
			return fmt.Errorf("effect %s: object %d out of range", name, idx)
		}
	}
	return nil
}

func (s *StyleData) validObject(index int) bool {
	return index > ObjectTypeNull && index < len(s.Objects)
}

// IsLoaded reports whether the tables were populated by a loader.
func (s *StyleData) IsLoaded() bool {
	return s != nil && s.loaded
}

// Object returns the style object at index, or nil for the null index or an
// out-of-range one.
func (s *StyleData) Object(index int) *GameObjectInfo {
	if !s.validObject(index) {
		return nil
	}
	return &s.Objects[index]
}

// VehicleByModel returns the vehicle style for model, or nil if not found.
func (s *StyleData) VehicleByModel(model int) *VehicleInfo {
	for i := range s.Vehicles {
		if s.Vehicles[i].Model == model {
			return &s.Vehicles[i]
		}
	}
	return nil
}

// Weapon returns the weapon with the given ID, or nil if not found.
func (s *StyleData) Weapon(id int) *WeaponInfo {
	for i := range s.Weapons {
		if s.Weapons[i].ID == id {
			return &s.Weapons[i]
		}
	}
	return nil
}

// Count returns the number of style objects.
func (s *StyleData) Count() int {
	return len(s.Objects)
}
