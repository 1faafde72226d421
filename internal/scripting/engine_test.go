package scripting

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestEngine(t *testing.T, scripts map[string]string) *Engine {
	t.Helper()
	dir := ""
	if scripts != nil {
		dir = t.TempDir()
		for name, src := range scripts {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644))
		}
	}
	e, err := NewEngine(dir, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(e.Close)
	return e
}

func TestDefaultVehicleHitpoints(t *testing.T) {
	e := newTestEngine(t, nil)

	assert.Equal(t, 29, e.VehicleBaseHitpoints("bus"))
	assert.Equal(t, 16, e.VehicleBaseHitpoints("motorcycle"))
	assert.Equal(t, 62, e.VehicleBaseHitpoints("tank"))
	assert.Equal(t, 10, e.VehicleBaseHitpoints("ice_cream_van"))
}

func TestScriptsOverrideDefaults(t *testing.T) {
	e := newTestEngine(t, map[string]string{
		"tuning.lua": `
function get_vehicle_base_hitpoints(c) return 100 end
function get_projectile_anim_fps() return 12 end
`,
		"notes.txt": "ignored",
	})

	assert.Equal(t, 100, e.VehicleBaseHitpoints("bus"))
	assert.InDelta(t, 12, e.ProjectileAnimFPS(), 1e-6)
	assert.Equal(t, 5*time.Second, e.BurnDuration())
}

func TestBrokenRuleFallsBack(t *testing.T) {
	e := newTestEngine(t, map[string]string{
		"broken.lua": `
function get_vehicle_base_hitpoints(c) error("boom") end
function calc_ped_damage(ctx) return 7 end
get_projectile_anim_fps = nil
`,
	})

	assert.Equal(t, 29, e.VehicleBaseHitpoints("bus"))
	assert.InDelta(t, 24, e.ProjectileAnimFPS(), 1e-6)

	res := e.CalcPedestrianDamage(PedDamageContext{Cause: "bullet", Amount: 3, Hitpoints: 10})
	assert.Equal(t, PedDamageResult{Accepted: true, Damage: 3}, res)
}

func TestCalcPedestrianDamage(t *testing.T) {
	e := newTestEngine(t, nil)

	res := e.CalcPedestrianDamage(PedDamageContext{Cause: "bullet", Amount: 2, Hitpoints: 10})
	assert.True(t, res.Accepted)
	assert.Equal(t, 2, res.Damage)

	res = e.CalcPedestrianDamage(PedDamageContext{Cause: "bullet", Amount: 2, Hitpoints: 0})
	assert.False(t, res.Accepted, "dead pedestrians ignore damage")

	res = e.CalcPedestrianDamage(PedDamageContext{Cause: "bullet", Amount: 2, Hitpoints: 10, InCar: true})
	assert.False(t, res.Accepted)

	res = e.CalcPedestrianDamage(PedDamageContext{Cause: "explosion", Amount: 20, Hitpoints: 10, InCar: true})
	assert.True(t, res.Accepted)
	assert.Equal(t, 20, res.Damage)

	res = e.CalcPedestrianDamage(PedDamageContext{Cause: "fire", Amount: 1, Hitpoints: 10})
	assert.True(t, res.Accepted)
	assert.True(t, res.Burn)

	res = e.CalcPedestrianDamage(PedDamageContext{Cause: "fire", Amount: 1, Hitpoints: 10, Burning: true})
	assert.False(t, res.Accepted)
}

func TestBadScriptFailsEngineCreation(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.lua"), []byte("function ("), 0o644))

	_, err := NewEngine(dir, zap.NewNop())
	assert.ErrorContains(t, err, "load rule scripts")
}
