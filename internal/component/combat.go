package component

import (
	"github.com/jakecoffman/cp"
	"github.com/l1jgo/arena/internal/core/ecs"
)

type Health struct {
	Current int
	Max     int
}

// Damage accumulates hits within one tick. The damage system consumes and
// removes it exactly once.
type Damage struct {
	Amount int
	Source ecs.EntityID // last sender that contributed
}

// WeaponKind selects how a weapon delivers damage.
type WeaponKind uint8

const (
	WeaponKinematic WeaponKind = iota // spawns instant projectiles
	WeaponHitscan                     // beam raycast
	WeaponHoming                      // spawns homing munitions
)

func (k WeaponKind) String() string {
	switch k {
	case WeaponKinematic:
		return "kinematic"
	case WeaponHitscan:
		return "hitscan"
	case WeaponHoming:
		return "homing"
	}
	return "unknown"
}

// WeaponStatus is the reload cycle: Idle → Reloading → Ready → (fire) → Reloading.
type WeaponStatus uint8

const (
	WeaponIdle WeaponStatus = iota
	WeaponReloading
	WeaponReady
)

func (s WeaponStatus) String() string {
	switch s {
	case WeaponIdle:
		return "idle"
	case WeaponReloading:
		return "reloading"
	case WeaponReady:
		return "ready"
	}
	return "unknown"
}

// Weapon is a standalone entity mounted on a ship.
type Weapon struct {
	AssetID        int
	Kind           WeaponKind
	Status         WeaponStatus
	Range          float64
	ReloadTime     float64
	ReloadProgress float64
	Muzzle         cp.Vector // offset in the owner's local frame
	Shooting       bool
	Owner          ecs.EntityID // weak
	ProjectileID   int
	Damage         int     // hitscan only
	LeadSpeed      float64 // travel speed used for aim leading, 0 = none
}

// BeamTrace is the visual segment of a hitscan weapon for this tick.
type BeamTrace struct {
	From, To cp.Vector
	Hit      ecs.EntityID
	Visible  bool
}

// Projectile is an instant (bullet) projectile or the impact part of a
// homing munition.
type Projectile struct {
	AssetID         int
	Radius          float64
	Damage          int
	Sender          ecs.EntityID // weak
	CanDamageSender bool
}

// Homing is the guidance state of a self-propelled munition.
type Homing struct {
	Target          ecs.EntityID // weak, zero while seeking
	Team            int
	SearchRadius    float64
	FOV             float64 // half-angle, radians
	AccelNoTarget   float64
	AccelWithTarget float64
	AngularSpeed    float64
	SplashRadius    float64
	SplashDamage    int
	FlightBudget    float64 // remaining distance
}

// Temporary destroys the entity once TimePassed reaches TimeToLive.
type Temporary struct {
	TimeToLive float64
	TimePassed float64
}
