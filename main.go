package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/greymarsh/warren/anim"
	"github.com/greymarsh/warren/config"
	"github.com/greymarsh/warren/director"
	"github.com/greymarsh/warren/systems"
	"github.com/greymarsh/warren/telemetry"
)

const tickDelta = float32(1.0 / 60.0)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	clipsPath := flag.String("clips", "", "Path to clip manifest (empty = use embedded)")
	headless := flag.Bool("headless", false, "Run without graphics")
	outputDir := flag.String("output-dir", "", "Output directory for the event CSV")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	count := flag.Int("count", 8, "Initial goblin count")
	hills := flag.Bool("hills", false, "Use noise terrain instead of a flat plane")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	catalog, err := anim.Load(*clipsPath)
	if err != nil {
		slog.Error("failed to load clip manifest", "error", err)
		os.Exit(1)
	}

	var terrain systems.HeightOracle = systems.FlatTerrain{}
	if *hills {
		terrain = systems.NewHillTerrain(rngSeed, 18, 1.5)
	}

	rec := telemetry.NewRecorder()
	player := &systems.PlayerHandle{Pos: rl.Vector3{Y: 1}}

	d := director.New(director.Options{
		Config:   cfg,
		Catalog:  catalog,
		Terrain:  terrain,
		Seed:     rngSeed,
		Recorder: rec,
		OnPlayerHit: func(damage float32) {
			slog.Info("player hit by rock", "damage", damage)
		},
		OnMeleeHit: func(attacker uint32) {
			slog.Info("player hit by melee", "attacker", attacker)
		},
	})
	d.SetPlayer(player)

	if err := d.Spawn(*count, 0, 0, cfg.Timers.WanderRadius); err != nil {
		slog.Error("spawn failed", "error", err)
		os.Exit(1)
	}
	slog.Info("simulation ready", "seed", rngSeed, "agents", d.Count(), "headless", *headless)

	if *headless {
		runHeadless(d, *maxTicks)
	} else {
		runWindowed(d, player, terrain, *maxTicks)
	}

	finish(d, rec, *outputDir)
}

// runHeadless advances the simulation at a fixed delta with a
// stationary player, as fast as the CPU allows.
func runHeadless(d *director.Director, maxTicks int) {
	for {
		d.Tick(tickDelta, rl.Camera3D{})
		if maxTicks > 0 && int(d.Tickno()) >= maxTicks {
			slog.Info("max ticks reached", "tick", d.Tickno())
			return
		}
	}
}

func finish(d *director.Director, rec *telemetry.Recorder, outputDir string) {
	samples := d.CourageSamples()
	stats := telemetry.ComputeCourageStats(samples)
	slog.Info("final courage stats",
		"agents", stats.Count,
		"mean", stats.Mean,
		"p10", stats.P10,
		"p50", stats.P50,
		"p90", stats.P90,
	)
	slog.Info("event totals",
		"dances", rec.CountType(telemetry.EventDanceStart),
		"alerts", rec.CountType(telemetry.EventAlert),
		"rallies", rec.CountType(telemetry.EventRally),
		"throws", rec.CountType(telemetry.EventThrow),
		"deaths", rec.CountType(telemetry.EventDeath),
	)
	if outputDir != "" {
		if err := rec.WriteCSV(outputDir); err != nil {
			slog.Error("failed to write event CSV", "error", err)
			return
		}
		slog.Info("event CSV written", "dir", outputDir)
	}
}
