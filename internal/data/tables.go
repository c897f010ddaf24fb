package data

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jakecoffman/cp"
	"gopkg.in/yaml.v3"
)

// ErrUnknownAsset is returned for ids missing from a table.
var ErrUnknownAsset = errors.New("unknown asset id")

// Vec2 is a YAML-friendly vector.
type Vec2 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func (v Vec2) V() cp.Vector { return cp.Vector{X: v.X, Y: v.Y} }

// Tables bundles every asset table the simulation indexes into.
type Tables struct {
	Ships       *ShipTable
	Weapons     *WeaponTable
	Projectiles *ProjectileTable
}

// LoadTables loads ships.yaml, weapons.yaml and projectiles.yaml from dir
// and validates the references between them.
func LoadTables(dir string) (*Tables, error) {
	ships, err := LoadShipTable(filepath.Join(dir, "ships.yaml"))
	if err != nil {
		return nil, err
	}
	weapons, err := LoadWeaponTable(filepath.Join(dir, "weapons.yaml"))
	if err != nil {
		return nil, err
	}
	projectiles, err := LoadProjectileTable(filepath.Join(dir, "projectiles.yaml"))
	if err != nil {
		return nil, err
	}
	t := &Tables{Ships: ships, Weapons: weapons, Projectiles: projectiles}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// NewTables builds validated tables from in-memory entries.
func NewTables(ships []ShipEntry, weapons []WeaponEntry, projectiles []ProjectileEntry) (*Tables, error) {
	st, err := newShipTable(ships)
	if err != nil {
		return nil, err
	}
	wt, err := newWeaponTable(weapons)
	if err != nil {
		return nil, err
	}
	pt, err := newProjectileTable(projectiles)
	if err != nil {
		return nil, err
	}
	t := &Tables{Ships: st, Weapons: wt, Projectiles: pt}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks that every weapon a ship mounts and every projectile a
// weapon fires exist.
func (t *Tables) Validate() error {
	for _, s := range t.Ships.entries {
		for _, m := range s.Weapons {
			if _, err := t.Weapons.Get(m.WeaponID); err != nil {
				return fmt.Errorf("ship %d (%s): %w", s.ID, s.Name, err)
			}
		}
	}
	for _, w := range t.Weapons.entries {
		if w.Kind == KindHitscan {
			continue
		}
		p, err := t.Projectiles.Get(w.ProjectileID)
		if err != nil {
			return fmt.Errorf("weapon %d (%s): %w", w.ID, w.Name, err)
		}
		if w.Kind == KindHoming && p.Homing == nil {
			return fmt.Errorf("weapon %d (%s): projectile %d has no homing profile", w.ID, w.Name, p.ID)
		}
	}
	return nil
}

func readYAML(path, what string, out any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", what, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse %s: %w", what, err)
	}
	return nil
}
