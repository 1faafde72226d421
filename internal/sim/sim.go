// Package sim wires the object registry, its collaborators and the frame
// systems into one explicitly constructed simulation context.
package sim

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/l1jgo/carnage/internal/config"
	"github.com/l1jgo/carnage/internal/core/event"
	"github.com/l1jgo/carnage/internal/core/object"
	coresys "github.com/l1jgo/carnage/internal/core/system"
	"github.com/l1jgo/carnage/internal/data"
	"github.com/l1jgo/carnage/internal/geom"
	"github.com/l1jgo/carnage/internal/metrics"
	"github.com/l1jgo/carnage/internal/physics"
	"github.com/l1jgo/carnage/internal/render"
	"github.com/l1jgo/carnage/internal/scripting"
	"github.com/l1jgo/carnage/internal/system"
	"github.com/l1jgo/carnage/internal/world"
	"go.uber.org/zap"
)

// playerSpacing separates consecutive player spawns along X, in meters.
const playerSpacing = 1.0

// Assets is the read-only data a simulation is built from.
type Assets struct {
	Style   *data.StyleData
	Startup []data.StartupObject
}

// LoadAssets reads the style tables and the startup object list named by cfg.
func LoadAssets(cfg config.DataConfig) (Assets, error) {
	style, err := data.LoadStyleData(cfg.StylePath)
	if err != nil {
		return Assets{}, err
	}
	a := Assets{Style: style}
	if cfg.StartupObjectsPath != "" {
		a.Startup, err = data.LoadStartupObjects(cfg.StartupObjectsPath)
		if err != nil {
			return Assets{}, err
		}
	}
	return a, nil
}

// Simulation owns the registry, pools, allocator, physics, rules, bus and
// the frame runner for one run. It is driven from a single goroutine.
type Simulation struct {
	cfg    *config.Config
	log    *zap.Logger
	runID  uuid.UUID
	assets Assets

	rules     *scripting.Engine
	physics   *physics.World
	bus       *event.Bus
	objects   *world.Manager
	runner    *coresys.Runner
	collector *metrics.Collector
	recorder  *render.Recorder

	players []object.ID
	frames  int
	closed  bool
}

// New builds a simulation from cfg and preloaded assets. The returned
// simulation holds no objects until Init.
func New(cfg *config.Config, assets Assets, log *zap.Logger) (*Simulation, error) {
	runID := uuid.New()
	log = log.With(zap.String("run_id", runID.String()))

	rules, err := scripting.NewEngine(cfg.Data.ScriptsDir, log)
	if err != nil {
		return nil, fmt.Errorf("scripting: %w", err)
	}

	s := &Simulation{
		cfg:       cfg,
		log:       log,
		runID:     runID,
		assets:    assets,
		rules:     rules,
		physics:   physics.NewWorld(cfg.Simulation.PhysicsFramerate, log),
		bus:       event.NewBus(),
		runner:    coresys.NewRunner(),
		collector: metrics.NewCollector(),
		recorder:  render.NewRecorder(),
	}

	p := cfg.Pools
	s.objects, err = world.NewManager(world.Options{
		Style:   assets.Style,
		Physics: s.physics,
		Rules:   rules,
		Bus:     s.bus,
		Log:     log,
		Pools: world.PoolOptions{
			Pedestrians: p.Pedestrians,
			Vehicles:    p.Vehicles,
			Projectiles: p.Projectiles,
			Decorations: p.Decorations,
			Obstacles:   p.Obstacles,
			Explosions:  p.Explosions,
			ChunkSize:   p.ChunkSize,
		},
		MaxTeardownChain: cfg.Simulation.MaxTeardownChain,
	})
	if err != nil {
		rules.Close()
		return nil, fmt.Errorf("object registry: %w", err)
	}

	s.collector.Subscribe(s.bus)
	s.runner.Register(system.NewFlushSystem(s.objects))
	s.runner.Register(system.NewEventSystem(s.bus))
	s.runner.Register(system.NewUpdateSystem(s.objects))
	s.runner.Register(system.NewPhysicsSystem(s.physics))
	s.runner.Register(system.NewMetricsSystem(s.objects, s.collector))
	if interval := cfg.Debug.DrawInterval; interval > 0 {
		s.runner.Register(system.NewDebugDrawSystem(s.objects, s.recorder, interval, log))
	}
	return s, nil
}

func (s *Simulation) RunID() uuid.UUID              { return s.runID }
func (s *Simulation) Objects() *world.Manager       { return s.objects }
func (s *Simulation) Physics() *physics.World       { return s.physics }
func (s *Simulation) Collector() *metrics.Collector { return s.collector }
func (s *Simulation) Recorder() *render.Recorder    { return s.recorder }
func (s *Simulation) Frames() int                   { return s.frames }
func (s *Simulation) PlayerIDs() []object.ID        { return s.players }

// Init creates the startup objects and the player pedestrians. Any failure
// is a hard startup failure.
func (s *Simulation) Init() error {
	n, err := s.objects.CreateStartupObjects(s.assets.Startup)
	if err != nil {
		return fmt.Errorf("create startup objects: %w", err)
	}

	sc := s.cfg.Simulation
	spawn := geom.Vec3{X: sc.PlayerSpawn[0], Y: sc.PlayerSpawn[1], Z: sc.PlayerSpawn[2]}
	for i := 0; i < sc.Players; i++ {
		pos := spawn.Add(geom.Vec3{X: float32(i) * playerSpacing})
		ped, err := s.objects.CreatePedestrian(pos, 0, sc.PlayerRemap)
		if err != nil {
			return fmt.Errorf("create player %d: %w", i, err)
		}
		s.players = append(s.players, ped.ID())
	}

	s.log.Info("simulation initialized",
		zap.Int("startup_objects", n),
		zap.Int("players", len(s.players)))
	return nil
}

// Player resolves the i-th player pedestrian; nil once it was removed.
func (s *Simulation) Player(i int) *world.Pedestrian {
	if i < 0 || i >= len(s.players) {
		return nil
	}
	return s.objects.GetPedestrianByID(s.players[i])
}

// Frame runs one frame: flush, events, update, physics, post-update.
func (s *Simulation) Frame(dt time.Duration) error {
	start := time.Now()
	if err := s.runner.Tick(dt); err != nil {
		return fmt.Errorf("frame %d: %w", s.frames, err)
	}
	s.collector.ObserveFrame(time.Since(start))
	s.frames++
	return nil
}

// Run steps frames at the configured interval until ctx is done, a frame
// fails, or the configured frame limit is reached.
func (s *Simulation) Run(ctx context.Context) error {
	interval := s.cfg.Simulation.FrameInterval
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := s.Frame(interval); err != nil {
				return err
			}
			if limit := s.cfg.Simulation.MaxFrames; limit > 0 && s.frames >= limit {
				s.log.Info("frame limit reached", zap.Int("frames", s.frames))
				return nil
			}
		}
	}
}

// Shutdown destroys every object, releases the pools and the rules VM.
// Calling it again does nothing.
func (s *Simulation) Shutdown() error {
	if s.closed {
		return nil
	}
	s.closed = true
	stats := s.objects.Stats()
	err := s.objects.Shutdown()
	s.rules.Close()
	if leaked := s.physics.Count(); leaked > 0 {
		err = errors.Join(err, fmt.Errorf("%d physics bodies outlived their objects", leaked))
	}
	s.log.Info("simulation stopped",
		zap.Int("frames", s.frames),
		zap.Int("objects", stats.Total))
	return err
}
