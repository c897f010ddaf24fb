package main

import (
	"context"
	"fmt"
	"maps"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"slices"
	"syscall"
	"time"

	"github.com/l1jgo/arena/internal/config"
	"github.com/l1jgo/arena/internal/data"
	"github.com/l1jgo/arena/internal/match"
	"github.com/l1jgo/arena/internal/persist"
	"github.com/l1jgo/arena/internal/scripting"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type runner struct {
	cfg    *config.Config
	tables *data.Tables
	repo   *persist.MatchRepo
	log    *zap.Logger
}

// newMatch builds a match with its own Lua VM. The caller closes the engine.
func (r *runner) newMatch() (*match.Match, *scripting.Engine, error) {
	engine, err := scripting.NewEngine(r.cfg.Assets.ScriptsDir, r.log)
	if err != nil {
		return nil, nil, fmt.Errorf("lua engine: %w", err)
	}
	m, err := match.New(match.Options{
		Config: r.cfg,
		Tables: r.tables,
		Damage: engine,
		Log:    r.log,
	})
	if err != nil {
		engine.Close()
		return nil, nil, err
	}
	return m, engine, nil
}

// batch runs the configured number of matches in parallel, one goroutine
// per match, bounded by the CPU count.
func (r *runner) batch() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	n := max(r.cfg.Simulation.Matches, 1)
	summaries := make([]match.Summary, n)
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i := range n {
		g.Go(func() error {
			m, engine, err := r.newMatch()
			if err != nil {
				return err
			}
			defer engine.Close()

			s, err := m.Run(gctx)
			if err != nil {
				return fmt.Errorf("match %s: %w", m.ID, err)
			}
			summaries[i] = s
			return r.record(gctx, s)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	printSection("results")
	wins := make(map[int]int)
	for _, s := range summaries {
		wins[s.Winner]++
		printStat(s.ID.String()[:8], describe(s))
	}
	fmt.Println()
	for _, team := range slices.Sorted(maps.Keys(wins)) {
		if team != 0 {
			printStat(fmt.Sprintf("team %d wins", team), wins[team])
		}
	}
	printStat("draws / timeouts", wins[0])
	printReady(fmt.Sprintf("%d matches in %s", n, time.Since(start).Round(time.Millisecond)))
	return nil
}

// realtime runs one match paced by a ticker, reloading scripts on change.
func (r *runner) realtime() error {
	m, engine, err := r.newMatch()
	if err != nil {
		return err
	}
	defer engine.Close()

	var (
		scriptEvents <-chan string
		scriptErrors <-chan error
	)
	if r.cfg.Assets.WatchScripts && engine.ScriptsDir() != "" {
		w, err := scripting.NewWatcher(filepath.Join(engine.ScriptsDir(), "combat"))
		if err != nil {
			return fmt.Errorf("watch scripts: %w", err)
		}
		defer w.Close()
		scriptEvents, scriptErrors = w.Events, w.Errors
		printOK("watching scripts for changes")
	}

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(m.TickRate())
	defer ticker.Stop()

	printReady(fmt.Sprintf("match %s started (tick: %s)", m.ID, m.TickRate()))
	fmt.Println()

	for !m.Finished() {
		select {
		case <-ticker.C:
			m.Step()
		case path := <-scriptEvents:
			if err := engine.Reload(); err != nil {
				r.log.Warn("script reload failed, keeping previous scripts", zap.String("file", path), zap.Error(err))
				continue
			}
			r.log.Info("scripts reloaded", zap.String("file", path))
		case err := <-scriptErrors:
			r.log.Warn("script watcher", zap.Error(err))
		case sig := <-shutdownCh:
			r.log.Info("shutdown signal", zap.String("signal", sig.String()))
			return r.finish(m)
		}
	}
	return r.finish(m)
}

func (r *runner) finish(m *match.Match) error {
	s := m.Summary()
	r.log.Info("match finished",
		zap.String("match", s.ID.String()),
		zap.Uint64("ticks", s.Ticks),
		zap.Int("winner", s.Winner))
	printSection("result")
	printStat(s.ID.String()[:8], describe(s))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return r.record(ctx, s)
}

// record stores the summary when a database is configured.
func (r *runner) record(ctx context.Context, s match.Summary) error {
	if r.repo == nil {
		return nil
	}
	if err := r.repo.Save(ctx, toRow(s)); err != nil {
		return fmt.Errorf("save match %s: %w", s.ID, err)
	}
	return nil
}

func toRow(s match.Summary) persist.MatchRow {
	row := persist.MatchRow{
		ID:          s.ID,
		Seed:        s.Seed,
		Ticks:       s.Ticks,
		SimSeconds:  s.SimTime.Seconds(),
		Winner:      s.Winner,
		ShotsFired:  s.ShotsFired,
		Detonations: s.Detonations,
		SplashHits:  s.SplashHits,
		Collisions:  s.Collisions,
	}
	for _, t := range s.Teams {
		row.Teams = append(row.Teams, persist.TeamRow{
			Team:      t.Team,
			Survivors: t.Survivors,
			ShipsLost: t.ShipsLost,
			Kills:     t.Kills,
		})
	}
	return row
}

func describe(s match.Summary) string {
	winner := "none"
	if s.Winner != 0 {
		winner = fmt.Sprintf("team %d", s.Winner)
	}
	return fmt.Sprintf("%s in %d ticks (%s)", winner, s.Ticks, s.SimTime.Round(time.Second))
}
