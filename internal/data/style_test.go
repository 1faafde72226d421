package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/l1jgo/carnage/internal/core/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadStyleData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "style.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testStyleYAML), 0o644))

	s, err := LoadStyleData(path)
	require.NoError(t, err)
	assert.True(t, s.IsLoaded())
	assert.Equal(t, 8, s.Count())

	hit := s.Object(2)
	require.NotNil(t, hit)
	assert.Equal(t, object.ClassDecoration, hit.Class)
	assert.Equal(t, 2, hit.Index)
	assert.Equal(t, 4, hit.Animation.Frames)

	assert.Nil(t, s.Object(ObjectTypeNull))
	assert.Nil(t, s.Object(-1))
	assert.Nil(t, s.Object(99))

	bus := s.VehicleByModel(5)
	require.NotNil(t, bus)
	assert.Equal(t, "bus", bus.Class)
	assert.Nil(t, s.VehicleByModel(77))

	rocket := s.Weapon(4)
	require.NotNil(t, rocket)
	assert.True(t, rocket.IsExplosionDamage())
	assert.False(t, rocket.IsFireDamage())
	assert.True(t, s.Weapon(3).IsFireDamage())
	assert.Nil(t, s.Weapon(42))

	assert.Equal(t, 3, s.Effects.FirstBlood)
}

func TestParseStyleDataRejectsBadReferences(t *testing.T) {
	_, err := ParseStyleData([]byte(`
objects:
  - {name: null, class: none}
weapons:
  - {id: 1, name: pistol, damage: bullet, projectile_hit_effect: 4}
`))
	assert.ErrorContains(t, err, "hit effect 4 out of range")

	_, err = ParseStyleData([]byte(`
vehicles:
  - {model: 1}
  - {model: 1}
`))
	assert.ErrorContains(t, err, "duplicate vehicle model 1")

	_, err = ParseStyleData([]byte(`
objects:
  - {name: x, class: starship}
`))
	assert.Error(t, err)
}

func TestZeroStyleDataIsNotLoaded(t *testing.T) {
	var s *StyleData
	assert.False(t, s.IsLoaded())
	assert.False(t, (&StyleData{}).IsLoaded())
}

func TestLoadStyleDataMissingFile(t *testing.T) {
	_, err := LoadStyleData(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "read style data")
}
