package scripting

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

//go:embed defaults/*.lua
var defaultScripts embed.FS

// Engine wraps a single gopher-lua VM holding the tunable gameplay rules.
// Single-goroutine access only (game loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine with the built-in rules, then loads every
// .lua file in scriptsDir so they can override them. An empty scriptsDir
// loads the built-in rules only.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	// Set API version global
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}

	if err := e.loadDefaults(); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load default rules: %w", err)
	}

	if scriptsDir != "" {
		if err := e.loadDir(scriptsDir); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load rule scripts: %w", err)
		}
	}

	return e, nil
}

func (e *Engine) loadDefaults() error {
	entries, err := defaultScripts.ReadDir("defaults")
	if err != nil {
		return err
	}
	for _, entry := range entries {
		path := "defaults/" + entry.Name()
		src, err := defaultScripts.ReadFile(path)
		if err != nil {
			return err
		}
		if err := e.vm.DoString(string(src)); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// --- Vehicle Bridge ---

// fallbackVehicleHitpoints mirrors the default rules for when the Lua
// function is missing or fails.
func fallbackVehicleHitpoints(vehicleClass string) int {
	switch vehicleClass {
	case "bus", "front_of_juggernaut", "back_of_juggernaut":
		return 29
	case "motorcycle", "standard_car":
		return 16
	case "train", "tank":
		return 62
	}
	return 10
}

// VehicleBaseHitpoints calls Lua get_vehicle_base_hitpoints(vehicle_class).
func (e *Engine) VehicleBaseHitpoints(vehicleClass string) int {
	fn := e.vm.GetGlobal("get_vehicle_base_hitpoints")
	if fn == lua.LNil {
		return fallbackVehicleHitpoints(vehicleClass)
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, lua.LString(vehicleClass)); err != nil {
		e.log.Error("lua get_vehicle_base_hitpoints error", zap.Error(err))
		return fallbackVehicleHitpoints(vehicleClass)
	}
	result := e.vm.Get(-1)
	e.vm.Pop(1)

	hp := int(lua.LVAsNumber(result))
	if hp <= 0 {
		return fallbackVehicleHitpoints(vehicleClass)
	}
	return hp
}

// --- Projectile Bridge ---

// ProjectileAnimFPS calls Lua get_projectile_anim_fps().
func (e *Engine) ProjectileAnimFPS() float32 {
	fps := e.callNumberFunc("get_projectile_anim_fps")
	if fps <= 0 {
		return 24
	}
	return float32(fps)
}

// --- Pedestrian Bridge ---

// BurnDuration calls Lua get_burn_duration() (seconds).
func (e *Engine) BurnDuration() time.Duration {
	secs := e.callNumberFunc("get_burn_duration")
	if secs <= 0 {
		return 5 * time.Second
	}
	return time.Duration(secs * float64(time.Second))
}

// PedDamageContext holds pre-packed data for a pedestrian damage decision.
type PedDamageContext struct {
	Cause     string // bullet, fire, explosion, punch, water
	Amount    int
	Hitpoints int
	InCar     bool
	Burning   bool
}

// PedDamageResult is returned by the Lua damage function.
type PedDamageResult struct {
	Accepted bool
	Damage   int
	Burn     bool
}

// CalcPedestrianDamage calls the Lua calc_ped_damage function.
func (e *Engine) CalcPedestrianDamage(ctx PedDamageContext) PedDamageResult {
	fallback := PedDamageResult{Accepted: ctx.Hitpoints > 0, Damage: ctx.Amount}

	fn := e.vm.GetGlobal("calc_ped_damage")
	if fn == lua.LNil {
		e.log.Error("lua function calc_ped_damage not found")
		return fallback
	}

	t := e.vm.NewTable()
	t.RawSetString("cause", lua.LString(ctx.Cause))
	t.RawSetString("amount", lua.LNumber(ctx.Amount))
	t.RawSetString("hitpoints", lua.LNumber(ctx.Hitpoints))
	t.RawSetString("in_car", lua.LBool(ctx.InCar))
	t.RawSetString("burning", lua.LBool(ctx.Burning))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua calc_ped_damage error", zap.Error(err))
		return fallback
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		return fallback
	}

	return PedDamageResult{
		Accepted: lua.LVAsBool(rt.RawGetString("accepted")),
		Damage:   lInt(rt, "damage"),
		Burn:     lua.LVAsBool(rt.RawGetString("burn")),
	}
}

// --- Lua helpers ---

// lInt reads an integer field from a Lua table.
func lInt(t *lua.LTable, key string) int {
	return int(lua.LVAsNumber(t.RawGetString(key)))
}

// callNumberFunc calls a Lua function and returns its
// numeric result, or 0 when the function is missing or fails.
func (e *Engine) callNumberFunc(name string, args ...lua.LValue) float64 {
	fn := e.vm.GetGlobal(name)
	if fn == lua.LNil {
		e.log.Error("lua function not found", zap.String("name", name))
		return 0
	}

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		e.log.Error("lua call error", zap.String("func", name), zap.Error(err))
		return 0
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)
	return float64(lua.LVAsNumber(result))
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
