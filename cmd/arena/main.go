package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/l1jgo/arena/internal/config"
	"github.com/l1jgo/arena/internal/data"
	"github.com/l1jgo/arena/internal/persist"
	"github.com/pkg/profile"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(mode string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m              Arena  v0.1.0                \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m       headless ship combat simulator      \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mmode:\033[0m %s\n\n", mode)
}

func printSection(title string) {
	lineLen := max(46-len(title)-1, 3)
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, value any) {
	valStr := fmt.Sprint(value)
	dotsLen := max(42-len(label)-len(valStr), 3)
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), valStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main logic ─────────────────────────────────────────────────────

func run() error {
	defaultCfg := "config/arena.toml"
	if p := os.Getenv("ARENA_CONFIG"); p != "" {
		defaultCfg = p
	}
	cfgPath := flag.String("config", defaultCfg, "path to the TOML config")
	profMode := flag.String("profile", "", "write a profile: cpu or mem")
	realtime := flag.Bool("realtime", false, "run one match paced at the tick rate")
	matches := flag.Int("matches", 0, "override simulation.matches in batch mode")
	flag.Parse()

	switch *profMode {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	default:
		return fmt.Errorf("unknown -profile %q", *profMode)
	}

	// 1. Config
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if *realtime {
		cfg.Simulation.Realtime = true
	}
	if *matches > 0 {
		cfg.Simulation.Matches = *matches
	}

	// 2. Logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	mode := "batch"
	if cfg.Simulation.Realtime {
		mode = "realtime"
	}
	printBanner(mode)

	// 3. Asset tables
	printSection("assets")
	tables, err := data.LoadTables(cfg.Assets.TablesDir)
	if err != nil {
		return fmt.Errorf("load tables: %w", err)
	}
	printStat("ships", tables.Ships.Count())
	printStat("weapons", tables.Weapons.Count())
	printStat("projectiles", tables.Projectiles.Count())
	if cfg.Assets.ScriptsDir != "" {
		printStat("scripts", cfg.Assets.ScriptsDir)
	} else {
		printOK("built-in damage formulas")
	}
	fmt.Println()

	// 4. Optional match recorder
	var repo *persist.MatchRepo
	if cfg.Database.Enabled {
		printSection("database")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		db, err := persist.NewDB(ctx, cfg.Database, log)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		printOK("PostgreSQL connected")

		if err := db.Migrate(ctx); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		printOK("migrations applied")
		repo = persist.NewMatchRepo(db)
		fmt.Println()
	}

	// 5. Simulate
	printSection("simulation")
	printStat("arena", fmt.Sprintf("%gx%g", cfg.Arena.Width, cfg.Arena.Height))
	printStat("ships", cfg.Arena.Ships)
	printStat("teams", cfg.Arena.Teams)
	printStat("tick", cfg.Simulation.TickRate)
	printStat("spatial backend", cfg.Simulation.SpatialBackend)
	fmt.Println()

	r := &runner{cfg: cfg, tables: tables, repo: repo, log: log}
	if cfg.Simulation.Realtime {
		return r.realtime()
	}
	return r.batch()
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
