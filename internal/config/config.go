package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Simulation SimulationConfig `toml:"simulation"`
	Data       DataConfig       `toml:"data"`
	Pools      PoolsConfig      `toml:"pools"`
	Logging    LoggingConfig    `toml:"logging"`
	Metrics    MetricsConfig    `toml:"metrics"`
	Debug      DebugConfig      `toml:"debug"`
}

type SimulationConfig struct {
	FrameInterval    time.Duration `toml:"frame_interval"`
	PhysicsFramerate float64       `toml:"physics_framerate"`
	MaxTeardownChain int           `toml:"max_teardown_chain"`
	MaxFrames        int           `toml:"max_frames"` // 0 = run until stopped
	Players          int           `toml:"players"`
	PlayerSpawn      [3]float32    `toml:"player_spawn"` // x, y, z in meters
	PlayerRemap      int           `toml:"player_remap"`
}

type DataConfig struct {
	StylePath          string `toml:"style_path"`
	StartupObjectsPath string `toml:"startup_objects_path"` // empty = no startup objects
	ScriptsDir         string `toml:"scripts_dir"`          // empty = built-in rules only
}

// PoolsConfig sets per-kind pool capacities; 0 means unbounded.
type PoolsConfig struct {
	ChunkSize   int `toml:"chunk_size"`
	Pedestrians int `toml:"pedestrians"`
	Vehicles    int `toml:"vehicles"`
	Projectiles int `toml:"projectiles"`
	Decorations int `toml:"decorations"`
	Obstacles   int `toml:"obstacles"`
	Explosions  int `toml:"explosions"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	BindAddress string `toml:"bind_address"`
}

type DebugConfig struct {
	DrawInterval time.Duration `toml:"draw_interval"` // 0 disables debug draw
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns the built-in configuration used when no file is present.
func Default() *Config {
	return defaults()
}

func (c *Config) validate() error {
	var errs []error
	if c.Simulation.FrameInterval <= 0 {
		errs = append(errs, errors.New("simulation.frame_interval must be positive"))
	}
	if c.Simulation.PhysicsFramerate <= 0 {
		errs = append(errs, errors.New("simulation.physics_framerate must be positive"))
	}
	if c.Simulation.Players < 0 {
		errs = append(errs, errors.New("simulation.players must not be negative"))
	}
	if c.Data.StylePath == "" {
		errs = append(errs, errors.New("data.style_path is required"))
	}
	pools := map[string]int{
		"chunk_size":  c.Pools.ChunkSize,
		"pedestrians": c.Pools.Pedestrians,
		"vehicles":    c.Pools.Vehicles,
		"projectiles": c.Pools.Projectiles,
		"decorations": c.Pools.Decorations,
		"obstacles":   c.Pools.Obstacles,
		"explosions":  c.Pools.Explosions,
	}
	for name, v := range pools {
		if v < 0 {
			errs = append(errs, fmt.Errorf("pools.%s must not be negative", name))
		}
	}
	return errors.Join(errs...)
}

func defaults() *Config {
	return &Config{
		Simulation: SimulationConfig{
			FrameInterval:    time.Second / 60,
			PhysicsFramerate: 60,
			MaxTeardownChain: 4096,
			Players:          1,
			PlayerRemap:      0,
		},
		Data: DataConfig{
			StylePath:          "data/yaml/style.yaml",
			StartupObjectsPath: "data/yaml/startup_objects.yaml",
			ScriptsDir:         "scripts",
		},
		Pools: PoolsConfig{
			ChunkSize: 64,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Metrics: MetricsConfig{
			Enabled:     true,
			BindAddress: "127.0.0.1:9108",
		},
	}
}
