package data

import (
	"fmt"
	"slices"
)

// ShipEntry is the stat profile of one ship hull.
type ShipEntry struct {
	ID            int32         `yaml:"id"`
	Name          string        `yaml:"name"`
	Size          Vec2          `yaml:"size"`
	Health        int32         `yaml:"health"`
	MaxSpeed      float64       `yaml:"max_speed"`
	MaxAccel      float64       `yaml:"max_accel"`
	RotationSpeed float64       `yaml:"rotation_speed"` // degrees per second
	Weapons       []WeaponMount `yaml:"weapons"`
	AI            AIEntry       `yaml:"ai"`
}

// WeaponMount places a weapon on the hull; Muzzle is in ship-local space.
type WeaponMount struct {
	WeaponID int32 `yaml:"weapon_id"`
	Muzzle   Vec2  `yaml:"muzzle"`
}

// AIEntry holds the AI ranges of a hull. Deviations are degrees.
type AIEntry struct {
	SearchRadius      float64 `yaml:"search_radius"`
	FollowDistance    float64 `yaml:"follow_distance"`
	MaxFollowDistance float64 `yaml:"max_follow_distance"`
	HoldDistance      float64 `yaml:"hold_distance"`
	MaxHoldDistance   float64 `yaml:"max_hold_distance"`
	SlowRadius        float64 `yaml:"slow_radius"`
	TimeToTarget      float64 `yaml:"time_to_target"`
	ArriveEpsilon     float64 `yaml:"arrive_epsilon"`
	CCWDeviation      float64 `yaml:"ccw_deviation"`
	CWDeviation       float64 `yaml:"cw_deviation"`
}

// ShipTable provides ship profiles by id.
type ShipTable struct {
	entries map[int32]*ShipEntry
	order   []int32
}

// LoadShipTable loads ships.yaml.
func LoadShipTable(path string) (*ShipTable, error) {
	var entries []ShipEntry
	if err := readYAML(path, "ship list", &entries); err != nil {
		return nil, err
	}
	return newShipTable(entries)
}

func newShipTable(entries []ShipEntry) (*ShipTable, error) {
	t := &ShipTable{entries: make(map[int32]*ShipEntry, len(entries))}
	for i := range entries {
		e := &entries[i]
		if _, dup := t.entries[e.ID]; dup {
			return nil, fmt.Errorf("ship list: duplicate id %d", e.ID)
		}
		if e.Health <= 0 || e.MaxSpeed <= 0 {
			return nil, fmt.Errorf("ship list: ship %d needs positive health and max_speed", e.ID)
		}
		if e.AI.MaxFollowDistance < e.AI.FollowDistance || e.AI.MaxHoldDistance < e.AI.HoldDistance {
			return nil, fmt.Errorf("ship list: ship %d max distances below their base distances", e.ID)
		}
		// Pursue hands over to Engage inside follow_distance and Engage drops
		// back past max_hold_distance; without a gap the two flip every tick.
		if e.AI.MaxHoldDistance <= e.AI.FollowDistance {
			return nil, fmt.Errorf("ship list: ship %d max_hold_distance must exceed follow_distance", e.ID)
		}
		t.entries[e.ID] = e
		t.order = append(t.order, e.ID)
	}
	return t, nil
}

func (t *ShipTable) Get(id int32) (*ShipEntry, error) {
	e, ok := t.entries[id]
	if !ok {
		return nil, fmt.Errorf("ship %d: %w", id, ErrUnknownAsset)
	}
	return e, nil
}

// IDs returns ids in file order.
func (t *ShipTable) IDs() []int32 { return slices.Clone(t.order) }

func (t *ShipTable) Count() int { return len(t.entries) }
