package data

import "fmt"

// ProjectileEntry is a bullet or munition profile. Homing is set for
// self-propelled munitions.
type ProjectileEntry struct {
	ID              int32        `yaml:"id"`
	Name            string       `yaml:"name"`
	Radius          float64      `yaml:"radius"`
	Speed           float64      `yaml:"speed"`
	Damage          int32        `yaml:"damage"`
	CanDamageSender bool         `yaml:"can_damage_sender"`
	Homing          *HomingEntry `yaml:"homing"`
}

// HomingEntry describes munition guidance. FOV is the half-angle in degrees.
type HomingEntry struct {
	Health          int32   `yaml:"health"`
	SearchRadius    float64 `yaml:"search_radius"`
	FOV             float64 `yaml:"fov"`
	AccelNoTarget   float64 `yaml:"accel_no_target"`
	AccelWithTarget float64 `yaml:"accel_with_target"`
	AngularSpeed    float64 `yaml:"angular_speed"` // degrees per second
	SplashRadius    float64 `yaml:"splash_radius"`
	SplashDamage    int32   `yaml:"splash_damage"`
	FlightDistance  float64 `yaml:"flight_distance"`
}

type ProjectileTable struct {
	entries map[int32]*ProjectileEntry
}

// LoadProjectileTable loads projectiles.yaml.
func LoadProjectileTable(path string) (*ProjectileTable, error) {
	var entries []ProjectileEntry
	if err := readYAML(path, "projectile list", &entries); err != nil {
		return nil, err
	}
	return newProjectileTable(entries)
}

func newProjectileTable(entries []ProjectileEntry) (*ProjectileTable, error) {
	t := &ProjectileTable{entries: make(map[int32]*ProjectileEntry, len(entries))}
	for i := range entries {
		e := &entries[i]
		if _, dup := t.entries[e.ID]; dup {
			return nil, fmt.Errorf("projectile list: duplicate id %d", e.ID)
		}
		if e.Radius <= 0 || e.Speed <= 0 {
			return nil, fmt.Errorf("projectile list: projectile %d needs positive radius and speed", e.ID)
		}
		if h := e.Homing; h != nil && (h.FlightDistance <= 0 || h.FOV < 0 || h.FOV > 180) {
			return nil, fmt.Errorf("projectile list: projectile %d has invalid homing profile", e.ID)
		}
		t.entries[e.ID] = e
	}
	return t, nil
}

func (t *ProjectileTable) Get(id int32) (*ProjectileEntry, error) {
	e, ok := t.entries[id]
	if !ok {
		return nil, fmt.Errorf("projectile %d: %w", id, ErrUnknownAsset)
	}
	return e, nil
}

func (t *ProjectileTable) Count() int { return len(t.entries) }
