package event

import (
	"github.com/jakecoffman/cp"
	"github.com/l1jgo/arena/internal/core/ecs"
)

// AIStateChanged is emitted on every AI mode transition.
type AIStateChanged struct {
	Entity ecs.EntityID
	From   string
	To     string
	Target ecs.EntityID
}

// WeaponFired is emitted when a weapon consumes its reload.
type WeaponFired struct {
	Weapon ecs.EntityID
	Owner  ecs.EntityID
	Kind   string
}

// MunitionDetonated is emitted when a homing munition hits something.
type MunitionDetonated struct {
	Munition   ecs.EntityID
	Sender     ecs.EntityID
	Position   cp.Vector
	DirectHit  ecs.EntityID
	SplashHits int
}

// EntityKilled is emitted when accumulated damage takes an entity to zero health.
type EntityKilled struct {
	Entity ecs.EntityID
	Killer ecs.EntityID
	Team   int
	Ship   bool
}

// ShipsCollided is emitted when two ships ram each other.
type ShipsCollided struct {
	A, B ecs.EntityID
}
