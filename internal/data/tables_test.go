package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadShippedTables(t *testing.T) {
	tables, err := LoadTables(filepath.Join("..", "..", "data", "yaml"))
	require.NoError(t, err)

	assert.Equal(t, 4, tables.Ships.Count())
	assert.Equal(t, 3, tables.Weapons.Count())
	assert.Equal(t, 2, tables.Projectiles.Count())
	assert.Equal(t, []int32{1, 2, 3, 100}, tables.Ships.IDs())

	frigate, err := tables.Ships.Get(3)
	require.NoError(t, err)
	require.Len(t, frigate.Weapons, 2)
	assert.Equal(t, 3.5, frigate.Weapons[0].Muzzle.X)

	missile, err := tables.Projectiles.Get(2)
	require.NoError(t, err)
	require.NotNil(t, missile.Homing)
	assert.Equal(t, 30.0, missile.Homing.FOV)
}

func TestUnknownAsset(t *testing.T) {
	tables, err := NewTables(nil, nil, nil)
	require.NoError(t, err)

	_, err = tables.Ships.Get(9)
	assert.ErrorIs(t, err, ErrUnknownAsset)
	_, err = tables.Weapons.Get(9)
	assert.ErrorIs(t, err, ErrUnknownAsset)
	_, err = tables.Projectiles.Get(9)
	assert.ErrorIs(t, err, ErrUnknownAsset)
}

var validAI = AIEntry{FollowDistance: 5, MaxFollowDistance: 20, HoldDistance: 4, MaxHoldDistance: 10}

func TestValidateCrossReferences(t *testing.T) {
	ship := ShipEntry{ID: 1, Name: "a", Health: 10, MaxSpeed: 1, AI: validAI, Weapons: []WeaponMount{{WeaponID: 7}}}
	_, err := NewTables([]ShipEntry{ship}, nil, nil)
	assert.ErrorIs(t, err, ErrUnknownAsset)

	gun := WeaponEntry{ID: 7, Name: "gun", Kind: KindKinematic, Range: 10, ProjectileID: 3}
	_, err = NewTables([]ShipEntry{ship}, []WeaponEntry{gun}, nil)
	assert.ErrorIs(t, err, ErrUnknownAsset)

	launcher := WeaponEntry{ID: 7, Name: "launcher", Kind: KindHoming, Range: 10, ProjectileID: 3}
	slug := ProjectileEntry{ID: 3, Radius: 1, Speed: 1}
	_, err = NewTables([]ShipEntry{ship}, []WeaponEntry{launcher}, []ProjectileEntry{slug})
	assert.ErrorContains(t, err, "no homing profile")

	_, err = NewTables([]ShipEntry{ship}, []WeaponEntry{gun}, []ProjectileEntry{slug})
	assert.NoError(t, err)
}

func TestRejectsBadEntries(t *testing.T) {
	_, err := NewTables(nil, []WeaponEntry{{ID: 1, Kind: "laser", Range: 1}}, nil)
	assert.ErrorContains(t, err, "unknown kind")

	dup := ShipEntry{ID: 1, Health: 1, MaxSpeed: 1, AI: validAI}
	_, err = NewTables([]ShipEntry{dup, dup}, nil, nil)
	assert.ErrorContains(t, err, "duplicate id")

	flappy := dup
	flappy.AI.MaxHoldDistance = flappy.AI.FollowDistance
	_, err = NewTables([]ShipEntry{flappy}, nil, nil)
	assert.ErrorContains(t, err, "max_hold_distance must exceed follow_distance")

	_, err = NewTables([]ShipEntry{{ID: 2, Health: 1, MaxSpeed: 1}}, nil, nil)
	assert.ErrorContains(t, err, "max_hold_distance must exceed follow_distance", "zero ai block")

	_, err = NewTables(nil, nil, []ProjectileEntry{{ID: 1, Radius: 1, Speed: 1, Homing: &HomingEntry{FOV: 30}}})
	assert.ErrorContains(t, err, "invalid homing profile")
}

func TestLoadTablesReportsParseErrors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ships.yaml"), []byte("- id: [oops"), 0o644))
	_, err := LoadTables(dir)
	assert.ErrorContains(t, err, "parse ship list")

	_, err = LoadTables(filepath.Join(dir, "missing"))
	assert.ErrorContains(t, err, "read ship list")
}
