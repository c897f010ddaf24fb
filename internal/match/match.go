// Package match assembles one simulation session: the world state, the
// spatial backend, the spawned ships and the ordered system pipeline.
package match

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/jakecoffman/cp"
	"github.com/l1jgo/arena/internal/component"
	"github.com/l1jgo/arena/internal/config"
	"github.com/l1jgo/arena/internal/core/ecs"
	coresys "github.com/l1jgo/arena/internal/core/system"
	"github.com/l1jgo/arena/internal/data"
	"github.com/l1jgo/arena/internal/spatial"
	"github.com/l1jgo/arena/internal/system"
	"github.com/l1jgo/arena/internal/world"
	"go.uber.org/zap"
)

// Options configures New. Only Config and Tables are required.
type Options struct {
	Config    *config.Config
	Tables    *data.Tables
	Damage    world.DamageModel
	Presenter world.Presenter
	Log       *zap.Logger
	ID        uuid.UUID // zero = random
}

// Match is one running simulation. Not safe for concurrent use; batch mode
// gives every goroutine its own Match.
type Match struct {
	ID     uuid.UUID
	Seed   int64
	State  *world.State
	Runner *coresys.Runner
	Player ecs.EntityID

	stats    *system.StatsSystem
	cleanup  *system.CleanupSystem
	tickRate time.Duration
	maxTicks int
	teams    int
	// contenders is the number of teams on the field after spawning.
	contenders int
	log        *zap.Logger
}

// DeriveSeed maps a match id onto a non-negative simulation seed.
func DeriveSeed(id uuid.UUID) int64 {
	return int64(xxhash.Sum64(id[:]) &^ (1 << 63))
}

// NewSpatial builds the configured spatial backend.
func NewSpatial(cfg config.SimulationConfig) (spatial.Provider, error) {
	switch cfg.SpatialBackend {
	case "", "grid":
		return spatial.NewGrid(cfg.GridCellSize), nil
	case "chipmunk":
		return spatial.NewSpace(), nil
	}
	return nil, fmt.Errorf("unknown spatial backend %q", cfg.SpatialBackend)
}

// MixSeed folds the match id into a configured base seed so every match of a
// batch plays out differently while one id stays reproducible. A zero base
// falls back to the id alone.
func MixSeed(base int64, id uuid.UUID) int64 {
	if base == 0 {
		return DeriveSeed(id)
	}
	return (base ^ DeriveSeed(id)) &^ (1 << 63)
}

func New(opts Options) (*Match, error) {
	cfg := opts.Config
	if cfg == nil || opts.Tables == nil {
		return nil, fmt.Errorf("match: config and tables are required")
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	id := opts.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	seed := MixSeed(cfg.Arena.Seed, id)
	sp, err := NewSpatial(cfg.Simulation)
	if err != nil {
		return nil, fmt.Errorf("match %s: %w", id, err)
	}
	log = log.With(zap.String("match", id.String()))

	st := world.NewState(world.Options{
		GraceFrames: cfg.Simulation.DestroyGraceFrames,
		Bounds: world.Bounds{
			Center: cp.Vector{X: cfg.Arena.CenterX, Y: cfg.Arena.CenterY},
			Size:   cp.Vector{X: cfg.Arena.Width, Y: cfg.Arena.Height},
		},
		Tables:          opts.Tables,
		Spatial:         sp,
		Presenter:       opts.Presenter,
		Damage:          opts.Damage,
		Seed:            seed,
		Log:             log,
		PlayerInvisible: cfg.Arena.PlayerInvisible,
	})

	m := &Match{
		ID:       id,
		Seed:     seed,
		State:    st,
		Runner:   coresys.NewRunner(),
		tickRate: cfg.Simulation.TickRate,
		maxTicks: cfg.Simulation.MaxTicks,
		teams:    max(cfg.Arena.Teams, 1),
		log:      log,
	}
	if err := m.spawn(cfg.Arena); err != nil {
		return nil, fmt.Errorf("match %s: %w", id, err)
	}
	m.register(cfg.Simulation.RamCollisions)
	return m, nil
}

func (m *Match) spawn(cfg config.ArenaConfig) error {
	st := m.State
	// The player hull is never handed to the AI spawner.
	assets := slices.DeleteFunc(st.Tables.Ships.IDs(), func(id int32) bool {
		return cfg.Player && id == cfg.PlayerShip
	})
	if _, err := st.SpawnShipsRandomly(cfg.Ships, assets, m.teams, cfg.SpawnRadius); err != nil {
		return err
	}
	if cfg.Player {
		// The player fights alone against every AI team.
		p, err := st.CreatePlayer(cfg.PlayerShip, m.teams+1, st.Bounds.Center)
		if err != nil {
			return err
		}
		m.Player = p
	}
	m.contenders = len(m.liveTeams())
	return nil
}

// register installs the pipeline. The runner orders systems by phase; the
// registration order below settles the order within a phase.
func (m *Match) register(ramCollisions bool) {
	st := m.State
	r := m.Runner

	m.stats = system.NewStatsSystem(st)
	m.cleanup = system.NewCleanupSystem(st)

	r.Register(system.NewEventDispatchSystem(st.Bus))
	r.Register(m.stats)
	r.Register(system.NewPlayerControlSystem(st))
	r.Register(system.NewAISystem(st))
	r.Register(system.NewSteeringSystem(st))
	r.Register(system.NewHomingSystem(st))
	r.Register(system.NewWeaponSystem(st))
	r.Register(system.NewImpactSystem(st))
	if ramCollisions {
		r.Register(system.NewCollisionSystem(st))
	}
	r.Register(system.NewDamageSystem(st))
	r.Register(system.NewMotionSystem(st))
	r.Register(system.NewMountSystem(st))
	r.Register(system.NewLifetimeSystem(st))
	r.Register(system.NewColliderSystem(st))
	r.Register(system.NewPresentationSystem(st))
	r.Register(m.cleanup)
}

// TickRate is the simulated duration of one tick.
func (m *Match) TickRate() time.Duration { return m.tickRate }

// Step advances the simulation by one tick.
func (m *Match) Step() {
	m.Runner.Tick(m.tickRate)
}

// Finished reports whether the tick limit is reached or at most one team
// still has ships. A match that started with a single team only ends on
// the tick limit.
func (m *Match) Finished() bool {
	if m.maxTicks > 0 && m.Runner.Ticks() >= uint64(m.maxTicks) {
		return true
	}
	if m.contenders < 2 {
		return false
	}
	return len(m.liveTeams()) <= 1
}

func (m *Match) liveTeams() []int {
	var teams []int
	for id := range m.State.ShipView.All() {
		if t, ok := m.State.Team(id); ok && !slices.Contains(teams, t) {
			teams = append(teams, t)
		}
	}
	slices.Sort(teams)
	return teams
}

// Run steps the match as fast as possible until it finishes or ctx is done.
func (m *Match) Run(ctx context.Context) (Summary, error) {
	const checkEvery = 64
	for !m.Finished() {
		if m.Runner.Ticks()%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return m.Summary(), err
			}
		}
		m.Step()
	}
	s := m.Summary()
	m.log.Info("match finished",
		zap.Uint64("ticks", s.Ticks),
		zap.Duration("sim_time", s.SimTime),
		zap.Int("winner", s.Winner),
		zap.Int("removed", s.Removed))
	return s, nil
}

// SetPlayerIntent forwards external control to the player ship, if any.
func (m *Match) SetPlayerIntent(move, look cp.Vector, shooting bool) error {
	if m.Player.IsZero() {
		return fmt.Errorf("match %s: no player ship", m.ID)
	}
	return m.State.SetPlayerIntent(m.Player, component.PlayerControl{
		Thrust:   move,
		Look:     look,
		Shooting: shooting,
	})
}
