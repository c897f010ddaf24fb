package data

import "fmt"

// Weapon kinds as spelled in weapons.yaml.
const (
	KindKinematic = "kinematic"
	KindHitscan   = "hitscan"
	KindHoming    = "homing"
)

// WeaponEntry is one weapon profile. Hitscan weapons carry their own
// damage; the others deal the damage of the projectile they spawn.
type WeaponEntry struct {
	ID           int32   `yaml:"id"`
	Name         string  `yaml:"name"`
	Kind         string  `yaml:"kind"`
	Range        float64 `yaml:"range"`
	ReloadTime   float64 `yaml:"reload_time"` // seconds
	ProjectileID int32   `yaml:"projectile_id"`
	Damage       int32   `yaml:"damage"`
}

type WeaponTable struct {
	entries map[int32]*WeaponEntry
}

// LoadWeaponTable loads weapons.yaml.
func LoadWeaponTable(path string) (*WeaponTable, error) {
	var entries []WeaponEntry
	if err := readYAML(path, "weapon list", &entries); err != nil {
		return nil, err
	}
	return newWeaponTable(entries)
}

func newWeaponTable(entries []WeaponEntry) (*WeaponTable, error) {
	t := &WeaponTable{entries: make(map[int32]*WeaponEntry, len(entries))}
	for i := range entries {
		e := &entries[i]
		if _, dup := t.entries[e.ID]; dup {
			return nil, fmt.Errorf("weapon list: duplicate id %d", e.ID)
		}
		switch e.Kind {
		case KindKinematic, KindHitscan, KindHoming:
		default:
			return nil, fmt.Errorf("weapon list: weapon %d has unknown kind %q", e.ID, e.Kind)
		}
		if e.Range <= 0 || e.ReloadTime < 0 {
			return nil, fmt.Errorf("weapon list: weapon %d needs positive range", e.ID)
		}
		t.entries[e.ID] = e
	}
	return t, nil
}

func (t *WeaponTable) Get(id int32) (*WeaponEntry, error) {
	e, ok := t.entries[id]
	if !ok {
		return nil, fmt.Errorf("weapon %d: %w", id, ErrUnknownAsset)
	}
	return e, nil
}

func (t *WeaponTable) Count() int { return len(t.entries) }
