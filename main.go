package main

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pthm-cable/antfarm/config"
	"github.com/pthm-cable/antfarm/engine"
	"github.com/pthm-cable/antfarm/strategy"
	"github.com/pthm-cable/antfarm/telemetry"
	"github.com/pthm-cable/antfarm/world"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	envSpec := flag.String("env", "simple", "Named environment (simple|obstacle|maze) or path to an environment file")
	width := flag.Int("width", 40, "Grid width for generated environments")
	height := flag.Int("height", 30, "Grid height for generated environments")
	ants := flag.Int("ants", 0, "Ant count (0 = use config; an environment file's ANTS section wins)")
	strategyName := flag.String("strategy", "random", "Movement strategy")
	maxSteps := flag.Int("max-steps", 0, "Stop after N steps (0 = environment file value or unlimited)")
	timeLimit := flag.Float64("time-limit", 0, "Stop after N seconds of wall time (0 = environment file value or unlimited)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, config and environment snapshots")
	progressInterval := flag.Int("progress-interval", 0, "Log progress every N steps (0 = off)")
	quiet := flag.Bool("quiet", false, "Suppress per-window stats logging")
	noPheromones := flag.Bool("no-pheromones", false, "Disable pheromone deposit and sensing")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Set up seed
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	env, fromFile, err := resolveEnvironment(*envSpec, *width, *height, rngSeed, cfg)
	if err != nil {
		slog.Error("failed to build environment", "env", *envSpec, "error", err)
		os.Exit(1)
	}

	// An environment file's ANTS section wins over the flag; the flag wins
	// over the config default.
	antCount := cfg.Engine.AntCount
	if *ants > 0 {
		antCount = *ants
	}
	if fromFile && env.AntCount > 0 {
		antCount = env.AntCount
	}

	// Nonzero flags override the environment file's limits.
	runMaxSteps := env.MaxSteps
	if *maxSteps > 0 {
		runMaxSteps = *maxSteps
	}
	runTimeLimit := env.TimeLimit
	if *timeLimit > 0 {
		runTimeLimit = *timeLimit
	}

	strat, err := strategy.ByName(*strategyName, uint64(rngSeed), cfg.Strategy)
	if err != nil {
		slog.Error("failed to build strategy", "error", err)
		os.Exit(1)
	}

	output, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to set up output directory", "error", err)
		os.Exit(1)
	}
	defer output.Close()

	var collector *telemetry.Collector
	if output != nil || !*quiet {
		collector = telemetry.NewCollector(cfg.Telemetry.StatsWindow)
	}
	if err := output.WriteConfig(cfg); err != nil {
		slog.Error("failed to snapshot config", "error", err)
		os.Exit(1)
	}
	if output != nil {
		if err := world.Save(env, filepath.Join(*outputDir, "environment.txt")); err != nil {
			slog.Error("failed to snapshot environment", "error", err)
			os.Exit(1)
		}
	}

	eng, err := engine.New(env, cfg, engine.Options{
		AntCount:          antCount,
		Strategy:          strat,
		MaxSteps:          runMaxSteps,
		TimeLimit:         runTimeLimit,
		PheromonesEnabled: !*noPheromones,
		Logger:            logger,
		Collector:         collector,
	})
	if err != nil {
		slog.Error("failed to build engine", "error", err)
		os.Exit(1)
	}

	slog.Info("starting simulation",
		"env", *envSpec,
		"grid", []int{env.Grid.W, env.Grid.H},
		"ants", antCount,
		"strategy", strat.Name(),
		"seed", rngSeed,
		"max_steps", runMaxSteps,
		"time_limit", runTimeLimit,
		"pheromones", !*noPheromones,
		"food_total", env.Food.Initial(),
	)

	for !eng.Terminated() {
		res, err := eng.Step()
		if err != nil {
			slog.Error("simulation aborted", "step", res.StepIndex, "error", err)
			os.Exit(1)
		}

		if collector != nil && collector.WindowClosed(res.StepIndex) {
			ws := collector.Flush(res.StepIndex, eng.Snapshot())
			if !*quiet {
				slog.Info("window stats",
					"window_end", ws.WindowEnd,
					"food_collected", ws.FoodCollected,
					"food_remaining", ws.FoodRemaining,
					"pickups", ws.Pickups,
					"deliveries", ws.Deliveries,
					"invalid_moves", ws.InvalidMoves,
					"trip_mean", ws.TripMean,
				)
			}
			if err := output.WriteStats(ws); err != nil {
				slog.Error("failed to write stats", "error", err)
				os.Exit(1)
			}
		}

		if *progressInterval > 0 && res.StepIndex%*progressInterval == 0 {
			slog.Info("progress",
				"step", res.StepIndex,
				"food_collected", res.FoodCollected,
				"food_remaining", env.Food.Remaining(),
				"carrying", eng.CarryingCount(),
			)
		}
	}

	elapsed := eng.Elapsed()
	stepsPerSec := 0.0
	if elapsed > 0 {
		stepsPerSec = float64(eng.StepCount()) / elapsed.Seconds()
	}
	completion := 0.0
	if env.Food.Initial() > 0 {
		completion = float64(eng.Collected()) / float64(env.Food.Initial()) * 100
	}
	slog.Info("simulation finished",
		"steps", eng.StepCount(),
		"food_collected", eng.Collected(),
		"completion_pct", completion,
		"duration", elapsed.Round(time.Millisecond).String(),
		"steps_per_sec", stepsPerSec,
	)
}

// resolveEnvironment builds the world from either a named generator or an
// environment file on disk. Named generators never carry an ant count.
func resolveEnvironment(spec string, w, h int, seed int64, cfg *config.Config) (*world.Environment, bool, error) {
	switch strings.ToLower(spec) {
	case "simple", "obstacle", "maze":
		env, err := world.Generate(strings.ToLower(spec), w, h, seed, cfg.Generator)
		return env, false, err
	default:
		env, err := world.Load(spec)
		return env, true, err
	}
}
