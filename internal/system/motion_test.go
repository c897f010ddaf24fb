package system

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/l1jgo/arena/internal/component"
	"github.com/l1jgo/arena/internal/core/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMotionClampsShipsToBounds(t *testing.T) {
	st, _ := newTestState(t)
	a := ship(t, st, assetHulk, 1, 49.5, 0)
	mv := st.Movements.MustGet(a)
	mv.Velocity = cp.Vector{X: 8, Y: 6}

	NewMotionSystem(st).Update(tick)

	tr := st.Transforms.MustGet(a)
	assert.Zero(t, mv.Velocity.X)
	assert.InDelta(t, 6, mv.Velocity.Y, 1e-9)
	assert.Equal(t, 49.5, tr.Position.X)
	assert.InDelta(t, 0.6, tr.Position.Y, 1e-9)
	assert.True(t, st.Live(a))
}

func TestMotionDestroysLeavingProjectiles(t *testing.T) {
	st, _ := newTestState(t)
	b, err := st.CreateProjectile(projSlug, 0, cp.Vector{X: 49.5}, 0, 0)
	require.NoError(t, err)

	NewMotionSystem(st).Update(tick)
	assert.True(t, st.World.Condemned(b))
}

func TestMotionIntegratesSteering(t *testing.T) {
	st, _ := newTestState(t)
	a := ship(t, st, assetHulk, 1, 0, 0)
	out := st.Steerings.MustGet(a)
	out.Linear = cp.Vector{X: 100} // clamped to max accel 10
	out.Angular = 1

	NewMotionSystem(st).Update(tick)

	mv := st.Movements.MustGet(a)
	tr := st.Transforms.MustGet(a)
	assert.InDelta(t, 1, mv.Velocity.X, 1e-9)
	assert.InDelta(t, 0.1, tr.Position.X, 1e-9)
	assert.InDelta(t, 0.1, tr.Orientation, 1e-9)
}

func TestMotionCapsSpeed(t *testing.T) {
	st, _ := newTestState(t)
	a := ship(t, st, assetHulk, 1, 0, 0)
	mv := st.Movements.MustGet(a)
	mv.Velocity = cp.Vector{X: 30, Y: 40}

	NewMotionSystem(st).Update(tick)
	assert.InDelta(t, mv.MaxSpeed, mv.Velocity.Length(), 1e-9)
}

func TestMunitionBurnsFlightBudget(t *testing.T) {
	st, _ := newTestState(t)
	m, err := st.CreateHomingMunition(projMissile, 0, 1, cp.Vector{}, 0)
	require.NoError(t, err)
	h := st.Homings.MustGet(m)
	h.FlightBudget = 0.6
	sys := NewMotionSystem(st)

	sys.Update(tick) // 5 u/s for 0.1 s
	assert.InDelta(t, 0.1, h.FlightBudget, 1e-9)
	assert.True(t, st.Live(m))

	sys.Update(tick)
	assert.True(t, st.World.Condemned(m))
}

func TestLifetimeExpiresBullets(t *testing.T) {
	st, _ := newTestState(t)
	b, err := st.CreateProjectile(projSlug, 0, cp.Vector{}, 0, 0.5)
	require.NoError(t, err)
	forever, err := st.CreateProjectile(projSlug, 0, cp.Vector{}, 0, 0)
	require.NoError(t, err)
	sys := NewLifetimeSystem(st)

	sys.Update(quarter)
	assert.True(t, st.Live(b))
	sys.Update(quarter)
	assert.True(t, st.World.Condemned(b))
	assert.True(t, st.Live(forever))
}

func TestMountFollowsOwnerAndOrphansDie(t *testing.T) {
	st, _ := newTestState(t)
	a := ship(t, st, assetScout, 1, 0, 0)
	gun := weaponOf(st, a)
	tr := st.Transforms.MustGet(a)
	tr.Position = cp.Vector{X: 10, Y: 10}
	tr.Orientation = math.Pi / 2
	sys := NewMountSystem(st)

	sys.Update(tick)
	gtr := st.Transforms.MustGet(gun)
	assert.InDelta(t, 10, gtr.Position.X, 1e-9)
	assert.InDelta(t, 11, gtr.Position.Y, 1e-9)
	assert.Equal(t, math.Pi/2, gtr.Orientation)

	// Condemn the owner only; the weapon follows it out.
	st.World.Destroy(a)
	sys.Update(tick)
	assert.True(t, st.World.Condemned(gun))
}

func TestColliderSystemTracksMovement(t *testing.T) {
	st, _ := newTestState(t)
	a := ship(t, st, assetHulk, 1, 0, 0)
	st.Transforms.MustGet(a).Position = cp.Vector{X: 30, Y: 30}

	assert.Empty(t, st.Spatial.OverlapCircle(cp.Vector{X: 30, Y: 30}, 0.5))
	NewColliderSystem(st).Update(tick)
	assert.Equal(t, []ecs.EntityID{a}, st.Spatial.OverlapCircle(cp.Vector{X: 30, Y: 30}, 0.5))
	assert.Empty(t, st.Spatial.OverlapCircle(cp.Vector{}, 0.5))
}

func TestSteeringPatrolHeadsForDestination(t *testing.T) {
	st, _ := newTestState(t)
	a := ship(t, st, assetHulk, 1, 0, 0)
	st.AIs.MustGet(a).Behavior.(*component.Patrol).Destination = cp.Vector{X: 30}

	NewSteeringSystem(st).Update(tick)

	out := st.Steerings.MustGet(a)
	assert.Greater(t, out.Linear.X, 0.0)
	assert.InDelta(t, 0, out.Linear.Y, 1e-9)
	assert.LessOrEqual(t, out.Linear.Length(), st.Movements.MustGet(a).MaxAccel+1e-9)
}

func TestSteeringCoastsOnLostTarget(t *testing.T) {
	st, _ := newTestState(t)
	a := ship(t, st, assetHulk, 1, 0, 0)
	b := ship(t, st, assetHulk, 2, 20, 0)
	ai := st.AIs.MustGet(a)
	NewAISystem(st).Update(tick)
	require.Equal(t, component.ModePursuing, ai.Machine.Current())
	st.Movements.MustGet(a).Velocity = cp.Vector{X: 4}
	st.World.Destroy(b)

	NewSteeringSystem(st).Update(tick)

	out := st.Steerings.MustGet(a)
	assert.InDelta(t, -4, out.Linear.X, 1e-9)
	assert.Zero(t, out.Angular)
}

func TestPlayerIntentDrivesShipAndWeapons(t *testing.T) {
	st, _ := newTestState(t)
	p, err := st.CreatePlayer(assetScout, 1, cp.Vector{})
	require.NoError(t, err)
	require.NoError(t, st.SetPlayerIntent(p, component.PlayerControl{
		Thrust:   cp.Vector{X: 2},
		Look:     cp.Vector{Y: 1},
		Shooting: true,
	}))

	NewPlayerControlSystem(st).Update(tick)

	out := st.Steerings.MustGet(p)
	assert.InDelta(t, 10, out.Linear.X, 1e-9)
	// π/2 to turn, π rad/s cap.
	assert.InDelta(t, math.Pi, out.Angular, 1e-9)
	assert.True(t, st.Weapons.MustGet(weaponOf(st, p)).Shooting)

	st.Kill(p, 0)
	assert.Error(t, st.SetPlayerIntent(p, component.PlayerControl{}))
}
