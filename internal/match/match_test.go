package match

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jakecoffman/cp"
	"github.com/l1jgo/arena/internal/config"
	coresys "github.com/l1jgo/arena/internal/core/system"
	"github.com/l1jgo/arena/internal/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Arena.Width, cfg.Arena.Height = 120, 120
	cfg.Arena.Ships = 8
	cfg.Arena.SpawnRadius = 40
	cfg.Simulation.MaxTicks = 900
	return cfg
}

func loadTables(t *testing.T) *data.Tables {
	t.Helper()
	tables, err := data.LoadTables("../../data/yaml")
	require.NoError(t, err)
	return tables
}

func TestMatchSmokeRun(t *testing.T) {
	for _, backend := range []string{"grid", "chipmunk"} {
		t.Run(backend, func(t *testing.T) {
			cfg := testConfig()
			cfg.Simulation.SpatialBackend = backend
			m, err := New(Options{Config: cfg, Tables: loadTables(t)})
			require.NoError(t, err)

			s, err := m.Run(context.Background())
			require.NoError(t, err)
			assert.True(t, m.Finished())
			assert.LessOrEqual(t, s.Ticks, uint64(cfg.Simulation.MaxTicks))
			assert.Equal(t, time.Duration(s.Ticks)*cfg.Simulation.TickRate, s.SimTime)

			live := 0
			for range m.State.ShipView.All() {
				live++
			}
			survivors, lost := 0, 0
			for _, tr := range s.Teams {
				survivors += tr.Survivors
				lost += tr.ShipsLost
			}
			assert.Equal(t, live, survivors)
			assert.LessOrEqual(t, lost, cfg.Arena.Ships)
			if s.Winner != 0 {
				assert.Contains(t, []int{1, 2}, s.Winner)
			}
		})
	}
}

func TestMatchIsDeterministicPerID(t *testing.T) {
	id := uuid.MustParse("6f1c2a8e-4b6d-4c1e-9f3a-2d5e7b8c9a01")
	run := func() Summary {
		cfg := testConfig()
		cfg.Simulation.MaxTicks = 400
		m, err := New(Options{Config: cfg, Tables: loadTables(t), ID: id})
		require.NoError(t, err)
		s, err := m.Run(context.Background())
		require.NoError(t, err)
		return s
	}
	assert.Equal(t, run(), run())
}

func TestMatchRunStopsOnCancel(t *testing.T) {
	cfg := testConfig()
	cfg.Simulation.MaxTicks = 0
	m, err := New(Options{Config: cfg, Tables: loadTables(t)})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = m.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMatchPipelineOrder(t *testing.T) {
	cfg := testConfig()
	m, err := New(Options{Config: cfg, Tables: loadTables(t)})
	require.NoError(t, err)

	systems := m.Runner.Systems()
	require.NotEmpty(t, systems)
	assert.Equal(t, coresys.PhaseEvents, systems[0].Phase())
	assert.Equal(t, coresys.PhaseCleanup, systems[len(systems)-1].Phase())
	for i := 1; i < len(systems); i++ {
		assert.LessOrEqual(t, systems[i-1].Phase(), systems[i].Phase())
	}

	cfg.Simulation.RamCollisions = false
	noRam, err := New(Options{Config: cfg, Tables: loadTables(t)})
	require.NoError(t, err)
	assert.Len(t, noRam.Runner.Systems(), len(systems)-1)
}

func TestMatchWithPlayer(t *testing.T) {
	cfg := testConfig()
	cfg.Arena.Player = true
	cfg.Arena.PlayerInvisible = true
	cfg.Simulation.RamCollisions = false
	m, err := New(Options{Config: cfg, Tables: loadTables(t)})
	require.NoError(t, err)
	require.False(t, m.Player.IsZero())

	team, ok := m.State.Team(m.Player)
	require.True(t, ok)
	assert.Equal(t, cfg.Arena.Teams+1, team)
	assert.True(t, m.State.PlayerInvisible)
	for id := range m.State.AIShips.All() {
		assert.NotEqual(t, int(cfg.Arena.PlayerShip), m.State.Ships.MustGet(id).AssetID)
	}

	require.NoError(t, m.SetPlayerIntent(cp.Vector{X: 1}, cp.Vector{X: 1}, true))
	m.Step()
	assert.Greater(t, m.State.Movements.MustGet(m.Player).Velocity.X, 0.0)
}

func TestSetPlayerIntentWithoutPlayer(t *testing.T) {
	m, err := New(Options{Config: testConfig(), Tables: loadTables(t)})
	require.NoError(t, err)
	assert.Error(t, m.SetPlayerIntent(cp.Vector{}, cp.Vector{}, false))
}

func TestSingleTeamOnlyEndsOnTickLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Arena.Teams = 1
	cfg.Simulation.MaxTicks = 30
	m, err := New(Options{Config: cfg, Tables: loadTables(t)})
	require.NoError(t, err)
	assert.False(t, m.Finished())
	s, err := m.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(30), s.Ticks)
}

func TestDeriveSeed(t *testing.T) {
	id := uuid.New()
	assert.Equal(t, DeriveSeed(id), DeriveSeed(id))
	assert.GreaterOrEqual(t, DeriveSeed(id), int64(0))
	assert.NotEqual(t, DeriveSeed(id), DeriveSeed(uuid.New()))
}

func TestFixedSeedVariesAcrossBatch(t *testing.T) {
	a := uuid.MustParse("6f1c2a8e-4b6d-4c1e-9f3a-2d5e7b8c9a01")
	b := uuid.MustParse("0b7d3e91-2c4a-4f8e-8d1b-5a6c7e9f0a12")
	spawns := func(id uuid.UUID) (int64, []cp.Vector) {
		cfg := testConfig()
		cfg.Arena.Seed = 42
		m, err := New(Options{Config: cfg, Tables: loadTables(t), ID: id})
		require.NoError(t, err)
		var pos []cp.Vector
		for e := range m.State.ShipView.All() {
			pos = append(pos, m.State.Transforms.MustGet(e).Position)
		}
		return m.Seed, pos
	}

	seedA, posA := spawns(a)
	seedB, posB := spawns(b)
	assert.NotEqual(t, seedA, seedB)
	assert.NotEqual(t, posA, posB)

	again, posAgain := spawns(a)
	assert.Equal(t, seedA, again)
	assert.Equal(t, posA, posAgain)
	assert.Equal(t, MixSeed(42, a), seedA)
	assert.Equal(t, DeriveSeed(a), MixSeed(0, a))
}

func TestNewRejectsBadInput(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)

	cfg := testConfig()
	cfg.Simulation.SpatialBackend = "octree"
	_, err = New(Options{Config: cfg, Tables: loadTables(t)})
	assert.Error(t, err)

	cfg = testConfig()
	cfg.Arena.Player = true
	cfg.Arena.PlayerShip = 999
	_, err = New(Options{Config: cfg, Tables: loadTables(t)})
	assert.ErrorIs(t, err, data.ErrUnknownAsset)
}
