package component

import (
	"github.com/jakecoffman/cp"
	"github.com/l1jgo/arena/internal/core/ecs"
	"github.com/l1jgo/arena/internal/spatial"
)

type Ship struct {
	AssetID int
	Size    cp.Vector
}

// Mount lists the weapon entities a ship owns.
type Mount struct {
	Weapons []ecs.EntityID
}

// Faction groups ships; different teams are hostile.
type Faction struct {
	Team int
}

// Player tags the externally controlled ship.
type Player struct{}

// PlayerControl is the intent written by the input layer.
type PlayerControl struct {
	Thrust   cp.Vector // desired acceleration direction, length ≤ 1
	Look     cp.Vector // desired facing, zero keeps the current one
	Shooting bool
}

// Collider registers the entity with the spatial provider.
type Collider struct {
	Shape spatial.Shape
}

// Presentation is the handle of the external visual representation.
type Presentation struct {
	Kind    string
	AssetID int
	Handle  uint64
}
