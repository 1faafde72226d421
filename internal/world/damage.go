package world

import (
	"github.com/l1jgo/carnage/internal/core/object"
	"github.com/l1jgo/carnage/internal/data"
	"github.com/l1jgo/carnage/internal/geom"
)

// DamageInfo describes a single damage application.
type DamageInfo struct {
	Cause    data.DamageKind
	Amount   int
	SourceID object.ID
	HitPoint geom.Vec3
}

// DamageFromWeapon builds the damage a weapon's projectile inflicts.
func DamageFromWeapon(weapon *data.WeaponInfo, source GameObject, hitPoint geom.Vec3) DamageInfo {
	info := DamageInfo{
		Cause:    weapon.Damage,
		Amount:   weapon.BaseDamage,
		HitPoint: hitPoint,
	}
	if source != nil {
		info.SourceID = source.ID()
	}
	return info
}
