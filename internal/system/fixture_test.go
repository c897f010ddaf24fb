package system

import (
	"testing"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/l1jgo/arena/internal/component"
	"github.com/l1jgo/arena/internal/core/ecs"
	"github.com/l1jgo/arena/internal/data"
	"github.com/l1jgo/arena/internal/spatial"
	"github.com/l1jgo/arena/internal/world"
	"github.com/stretchr/testify/require"
)

const (
	assetScout    int32 = 1 // kinematic gun
	assetHulk     int32 = 2 // unarmed
	assetLancer   int32 = 3 // beam
	assetLauncher int32 = 4 // homing launcher

	projSlug    int32 = 1
	projMissile int32 = 2

	tick = 100 * time.Millisecond
)

func testAI() data.AIEntry {
	return data.AIEntry{
		SearchRadius:      30,
		FollowDistance:    5,
		MaxFollowDistance: 20,
		HoldDistance:      4,
		MaxHoldDistance:   10,
		SlowRadius:        2,
		TimeToTarget:      0.5,
		ArriveEpsilon:     0.01,
		CCWDeviation:      20,
		CWDeviation:       20,
	}
}

func testTables(t *testing.T) *data.Tables {
	t.Helper()
	hull := func(id int32, name string, weapon int32) data.ShipEntry {
		e := data.ShipEntry{
			ID:            id,
			Name:          name,
			Size:          data.Vec2{X: 2, Y: 2},
			Health:        20,
			MaxSpeed:      10,
			MaxAccel:      10,
			RotationSpeed: 180,
			AI:            testAI(),
		}
		if weapon != 0 {
			e.Weapons = []data.WeaponMount{{WeaponID: weapon, Muzzle: data.Vec2{X: 1}}}
		}
		return e
	}
	tables, err := data.NewTables(
		[]data.ShipEntry{
			hull(assetScout, "scout", 1),
			hull(assetHulk, "hulk", 0),
			hull(assetLancer, "lancer", 2),
			hull(assetLauncher, "launcher", 3),
		},
		[]data.WeaponEntry{
			{ID: 1, Name: "gun", Kind: data.KindKinematic, Range: 10, ReloadTime: 0.5, ProjectileID: projSlug},
			{ID: 2, Name: "beam", Kind: data.KindHitscan, Range: 15, ReloadTime: 1, Damage: 4},
			{ID: 3, Name: "launcher", Kind: data.KindHoming, Range: 30, ReloadTime: 1, ProjectileID: projMissile},
		},
		[]data.ProjectileEntry{
			{ID: projSlug, Name: "slug", Radius: 0.5, Speed: 20, Damage: 3},
			{ID: projMissile, Name: "missile", Radius: 0.5, Speed: 10, Damage: 5, Homing: &data.HomingEntry{
				Health:          2,
				SearchRadius:    20,
				FOV:             10,
				AccelNoTarget:   5,
				AccelWithTarget: 8,
				AngularSpeed:    90,
				SplashRadius:    5,
				SplashDamage:    4,
				FlightDistance:  50,
			}},
		},
	)
	require.NoError(t, err)
	return tables
}

// recordingPresenter remembers released handles.
type recordingPresenter struct {
	world.NopPresenter
	released []uint64
	synced   int
}

func (p *recordingPresenter) Sync(uint64, component.Transform) { p.synced++ }
func (p *recordingPresenter) Release(h uint64)                 { p.released = append(p.released, h) }

// newTestState builds a 100×100 arena centered on the origin.
func newTestState(t *testing.T) (*world.State, *recordingPresenter) {
	t.Helper()
	presenter := &recordingPresenter{}
	st := world.NewState(world.Options{
		GraceFrames: ecs.DefaultGraceFrames,
		Bounds:      world.Bounds{Size: cp.Vector{X: 100, Y: 100}},
		Tables:      testTables(t),
		Spatial:     spatial.NewGrid(8),
		Presenter:   presenter,
		Seed:        1,
	})
	return st, presenter
}

func ship(t *testing.T, st *world.State, asset int32, team int, x, y float64) ecs.EntityID {
	t.Helper()
	id, err := st.CreateShip(asset, team, cp.Vector{X: x, Y: y}, 0)
	require.NoError(t, err)
	return id
}

// place teleports e and refreshes its collider.
func place(st *world.State, e ecs.EntityID, x, y float64) {
	tr := st.Transforms.MustGet(e)
	tr.Position = cp.Vector{X: x, Y: y}
	if c, ok := st.Colliders.Get(e); ok {
		st.Spatial.Upsert(e, c.Shape, tr.Position, tr.Orientation)
	}
}

func weaponOf(st *world.State, e ecs.EntityID) ecs.EntityID {
	return st.Mounts.MustGet(e).Weapons[0]
}
