package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/50thycal/ant-farm/config"
	"github.com/50thycal/ant-farm/game"
	"github.com/50thycal/ant-farm/observer"
	"github.com/50thycal/ant-farm/persistence"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for snapshot files (empty = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based, or the snapshot's seed when restoring)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per update call (higher = faster headless runs)")
	profile := flag.String("profile", "", "Ant profile override: sandbox, tunnel or forager")
	restoreFile := flag.String("restore", "", "Snapshot file to resume from")
	dbPath := flag.String("db", "", "SQLite snapshot store (empty = use config)")
	loadKey := flag.String("load", "", "Resume from this key in the snapshot store")
	saveKey := flag.String("save", "", "Store the final state under this key on exit")
	listKeys := flag.Bool("list", false, "List stored snapshots and exit")
	observeAddr := flag.String("observe", "", "Serve live frames on this address (empty = use config)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if *profile != "" {
		cfg.World.Profile = *profile
	}
	if *dbPath != "" {
		cfg.Persistence.DBPath = *dbPath
	}
	if *snapshotDir == "" {
		*snapshotDir = cfg.Persistence.SnapshotDir
	}
	if *observeAddr == "" {
		*observeAddr = cfg.Observer.Addr
	}

	if err := run(cfg, runOptions{
		headless:       *headless,
		logStats:       *logStats,
		statsWindow:    *statsWindow,
		snapshotDir:    *snapshotDir,
		outputDir:      *outputDir,
		seed:           *seed,
		maxTicks:       *maxTicks,
		stepsPerUpdate: *stepsPerUpdate,
		restoreFile:    *restoreFile,
		loadKey:        *loadKey,
		saveKey:        *saveKey,
		listKeys:       *listKeys,
		observeAddr:    *observeAddr,
	}); err != nil {
		slog.Error("ant farm failed", "error", err)
		os.Exit(1)
	}
}

type runOptions struct {
	headless       bool
	logStats       bool
	statsWindow    float64
	snapshotDir    string
	outputDir      string
	seed           int64
	maxTicks       int
	stepsPerUpdate int
	restoreFile    string
	loadKey        string
	saveKey        string
	listKeys       bool
	observeAddr    string
}

func run(cfg *config.Config, ro runOptions) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store *persistence.Store
	if cfg.Persistence.DBPath != "" && (ro.listKeys || ro.loadKey != "" || ro.saveKey != "") {
		var err error
		store, err = persistence.OpenStore(cfg.Persistence.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()
	}
	if (ro.listKeys || ro.loadKey != "" || ro.saveKey != "") && store == nil {
		return fmt.Errorf("snapshot store needs -db or persistence.db_path")
	}

	if ro.listKeys {
		entries, err := store.Keys()
		if err != nil {
			return err
		}
		for _, e := range entries {
			fmt.Printf("%-24s tick %-8d %s\n", e.Key, e.Tick, time.Unix(e.SavedAt, 0).Format(time.RFC3339))
		}
		return nil
	}

	var hub *observer.Hub
	if ro.observeAddr != "" {
		hub = observer.NewHub()
		go func() {
			if err := hub.Serve(ctx, ro.observeAddr); err != nil {
				slog.Error("observer stopped", "error", err)
			}
		}()
	}

	opts := game.Options{
		Seed:           ro.seed,
		LogStats:       ro.logStats,
		StatsWindowSec: ro.statsWindow,
		OutputDir:      ro.outputDir,
		SnapshotDir:    ro.snapshotDir,
		Observer:       hub,
	}

	s, err := openSession(cfg, opts, ro, store)
	if err != nil {
		return err
	}
	defer s.Close()

	if ro.headless {
		runHeadless(ctx, s, ro)
	} else {
		runWindow(ctx, s, ro)
	}

	if ro.saveKey != "" {
		if err := store.Put(ro.saveKey, s.Snapshot()); err != nil {
			return err
		}
		slog.Info("snapshot stored", "key", ro.saveKey, "tick", s.Tick())
	}
	return nil
}

// openSession builds a fresh session or resumes one from a file or the store.
func openSession(cfg *config.Config, opts game.Options, ro runOptions, store *persistence.Store) (*game.Session, error) {
	var snap *persistence.Snapshot
	var err error
	switch {
	case ro.restoreFile != "":
		snap, err = persistence.ReadFile(ro.restoreFile)
	case ro.loadKey != "":
		snap, err = store.Get(ro.loadKey)
	}
	if err != nil {
		return nil, err
	}
	if snap != nil {
		return game.Restore(cfg, snap, opts)
	}

	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	return game.NewSession(cfg, opts)
}

func runHeadless(ctx context.Context, s *game.Session, ro runOptions) {
	slog.Info("starting headless simulation",
		"seed", s.Seed(),
		"profile", s.Config().World.Profile,
		"max_ticks", ro.maxTicks,
		"steps_per_update", ro.stepsPerUpdate,
	)

	dt := float32(s.Config().Physics.DT)
	steps := max(1, ro.stepsPerUpdate)
	for ctx.Err() == nil {
		n := batchSteps(int(s.Tick()), ro.maxTicks, steps)
		if n == 0 {
			slog.Info("max ticks reached", "tick", s.Tick())
			return
		}
		for i := 0; i < n; i++ {
			s.Step(dt)
		}
	}
	slog.Info("interrupted", "tick", s.Tick())
}

// batchSteps returns how many of the next steps may run from tick without
// passing maxTicks. A maxTicks of zero or less means no limit.
func batchSteps(tick, maxTicks, steps int) int {
	if maxTicks <= 0 {
		return steps
	}
	return max(0, min(steps, maxTicks-tick))
}

func runWindow(ctx context.Context, s *game.Session, ro runOptions) {
	cfg := s.Config()
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Ant Farm")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g := game.NewGame(s, ro.stepsPerUpdate, ro.snapshotDir)
	defer g.Unload()

	for !rl.WindowShouldClose() && ctx.Err() == nil {
		g.Update()
		g.Draw()

		if ro.maxTicks > 0 && int(g.Tick()) >= ro.maxTicks {
			break
		}
	}
}
