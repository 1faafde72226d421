package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/l1jgo/carnage/internal/config"
	"github.com/l1jgo/carnage/internal/sim"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printSection(title string) {
	lineLen := max(46-len(title)-1, 3)
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := max(42-len(label)-len(numStr), 3)
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

// ── Main simulation logic ─────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/carnage.toml"
	if p := os.Getenv("CARNAGE_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	// 3. Load style data and startup objects
	printSection("Data")
	assets, err := sim.LoadAssets(cfg.Data)
	if err != nil {
		return fmt.Errorf("load data: %w", err)
	}
	printStat("Style objects", assets.Style.Count())
	printStat("Vehicle styles", len(assets.Style.Vehicles))
	printStat("Weapons", len(assets.Style.Weapons))
	printStat("Startup objects", len(assets.Startup))
	fmt.Println()

	// 4. Build and populate the simulation
	printSection("Simulation")
	s, err := sim.New(cfg, assets, log)
	if err != nil {
		return fmt.Errorf("create simulation: %w", err)
	}
	defer func() {
		if err := s.Shutdown(); err != nil {
			log.Error("shutdown", zap.Error(err))
		}
	}()
	if err := s.Init(); err != nil {
		return fmt.Errorf("init simulation: %w", err)
	}
	printStat("Objects", s.Objects().ObjectCount())
	printOK("run " + s.RunID().String())
	fmt.Println()

	// 5. Frame loop and metrics endpoint until a signal arrives
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// the frame loop ending (frame limit or failure) stops everything else
		defer cancel()
		return s.Run(gctx)
	})

	if cfg.Metrics.Enabled {
		srv := &http.Server{
			Addr:              cfg.Metrics.BindAddress,
			Handler:           metricsMux(s),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			log.Info("metrics endpoint listening", zap.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	log.Info("simulation running",
		zap.Duration("frame_interval", cfg.Simulation.FrameInterval),
		zap.Int("max_frames", cfg.Simulation.MaxFrames))

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("simulation finished", zap.Int("frames", s.Frames()))
	return nil
}

func metricsMux(s *sim.Simulation) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", s.Collector().Handler())
	return mux
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
