package world

import (
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/l1jgo/arena/internal/component"
	"github.com/l1jgo/arena/internal/core/ecs"
	"github.com/l1jgo/arena/internal/data"
	"github.com/l1jgo/arena/internal/spatial"
)

func deg(v float64) float64 { return v * math.Pi / 180 }

func weaponKind(kind string) component.WeaponKind {
	switch kind {
	case data.KindHitscan:
		return component.WeaponHitscan
	case data.KindHoming:
		return component.WeaponHoming
	}
	return component.WeaponKinematic
}

func (s *State) present(e ecs.EntityID, kind string, assetID int) {
	s.Presentations.Add(e, component.Presentation{
		Kind:    kind,
		AssetID: assetID,
		Handle:  s.Presenter.Acquire(kind, assetID),
	})
}

func (s *State) collide(e ecs.EntityID, shape spatial.Shape, tr *component.Transform) {
	s.Colliders.Add(e, component.Collider{Shape: shape})
	s.Spatial.Upsert(e, shape, tr.Position, tr.Orientation)
}

// MuzzleTransform places a mount point given in the owner's local frame.
func MuzzleTransform(owner *component.Transform, muzzle cp.Vector) component.Transform {
	return component.Transform{
		Position:    owner.Position.Add(muzzle.Rotate(owner.Heading())),
		Orientation: owner.Orientation,
		Scale:       1,
	}
}

// createHull builds the parts every ship shares and mounts its weapons.
func (s *State) createHull(entry *data.ShipEntry, team int, pos cp.Vector, orientation float64) (ecs.EntityID, error) {
	weapons := make([]*data.WeaponEntry, len(entry.Weapons))
	for i, m := range entry.Weapons {
		w, err := s.Tables.Weapons.Get(m.WeaponID)
		if err != nil {
			return 0, fmt.Errorf("ship %d: %w", entry.ID, err)
		}
		weapons[i] = w
	}

	e := s.World.CreateEntity()
	tr := s.Transforms.Add(e, component.Transform{
		Position:    s.Bounds.Clamp(pos),
		Orientation: orientation,
		Scale:       1,
	})
	s.Movements.Add(e, component.Movement{
		MaxSpeed:      entry.MaxSpeed,
		MaxAccel:      entry.MaxAccel,
		RotationSpeed: deg(entry.RotationSpeed),
		ClampToBounds: true,
	})
	s.Steerings.Add(e, component.Steering{})
	s.Healths.Add(e, component.Health{Current: int(entry.Health), Max: int(entry.Health)})
	s.Ships.Add(e, component.Ship{AssetID: int(entry.ID), Size: entry.Size.V()})
	s.Factions.Add(e, component.Faction{Team: team})
	s.collide(e, spatial.Box(entry.Size.V()), tr)
	s.present(e, KindShip, int(entry.ID))

	mount := s.Mounts.Add(e, component.Mount{Weapons: make([]ecs.EntityID, 0, len(weapons))})
	for i, w := range weapons {
		id, err := s.createWeapon(w, e, entry.Weapons[i].Muzzle.V())
		if err != nil {
			return e, err
		}
		mount.Weapons = append(mount.Weapons, id)
	}
	return e, nil
}

// discard condemns a half-built hull and whatever weapons it already
// mounted. Unlike Kill it reports nothing: the ship never entered play.
func (s *State) discard(e ecs.EntityID) {
	if e.IsZero() {
		return
	}
	if m, ok := s.Mounts.Get(e); ok {
		for _, w := range m.Weapons {
			s.World.Destroy(w)
		}
	}
	s.World.Destroy(e)
}

// CreateShip spawns an AI-controlled ship with its weapons. The ship starts
// patrolling toward a random point in the arena.
func (s *State) CreateShip(assetID int32, team int, pos cp.Vector, orientation float64) (ecs.EntityID, error) {
	entry, err := s.Tables.Ships.Get(assetID)
	if err != nil {
		return 0, fmt.Errorf("create ship: %w", err)
	}
	e, err := s.createHull(entry, team, pos, orientation)
	if err != nil {
		s.discard(e)
		return 0, fmt.Errorf("create ship: %w", err)
	}
	a := entry.AI
	s.AIs.Add(e, component.AI{
		Machine:  component.NewAIMachine(),
		Behavior: &component.Patrol{Destination: s.Bounds.RandomPoint(s.Rand)},
		Params: component.AIParams{
			SearchRadius:      a.SearchRadius,
			FollowDistance:    a.FollowDistance,
			MaxFollowDistance: a.MaxFollowDistance,
			HoldDistance:      a.HoldDistance,
			MaxHoldDistance:   a.MaxHoldDistance,
			SlowRadius:        a.SlowRadius,
			TimeToTarget:      a.TimeToTarget,
			ArriveEpsilon:     a.ArriveEpsilon,
			CCWDeviation:      deg(a.CCWDeviation),
			CWDeviation:       deg(a.CWDeviation),
		},
	})
	return e, nil
}

// CreatePlayer spawns the externally controlled ship.
func (s *State) CreatePlayer(assetID int32, team int, pos cp.Vector) (ecs.EntityID, error) {
	entry, err := s.Tables.Ships.Get(assetID)
	if err != nil {
		return 0, fmt.Errorf("create player: %w", err)
	}
	e, err := s.createHull(entry, team, pos, 0)
	if err != nil {
		s.discard(e)
		return 0, fmt.Errorf("create player: %w", err)
	}
	s.Players.Add(e, component.Player{})
	s.Controls.Add(e, component.PlayerControl{})
	return e, nil
}

// CreateWeapon mounts a weapon on owner at the given local muzzle offset.
func (s *State) CreateWeapon(assetID int32, owner ecs.EntityID, muzzle cp.Vector) (ecs.EntityID, error) {
	entry, err := s.Tables.Weapons.Get(assetID)
	if err != nil {
		return 0, fmt.Errorf("create weapon: %w", err)
	}
	id, err := s.createWeapon(entry, owner, muzzle)
	if err != nil {
		return 0, err
	}
	if m, ok := s.Mounts.Get(owner); ok {
		m.Weapons = append(m.Weapons, id)
	}
	return id, nil
}

func (s *State) createWeapon(entry *data.WeaponEntry, owner ecs.EntityID, muzzle cp.Vector) (ecs.EntityID, error) {
	ownerTr, err := ecs.Deref(s.World, s.Transforms, owner)
	if err != nil {
		return 0, fmt.Errorf("create weapon %d: owner %s: %w", entry.ID, owner, err)
	}
	w := component.Weapon{
		AssetID:      int(entry.ID),
		Kind:         weaponKind(entry.Kind),
		Status:       component.WeaponIdle,
		Range:        entry.Range,
		ReloadTime:   entry.ReloadTime,
		Muzzle:       muzzle,
		Owner:        owner,
		ProjectileID: int(entry.ProjectileID),
		Damage:       int(entry.Damage),
	}
	if w.Kind == component.WeaponKinematic {
		p, err := s.Tables.Projectiles.Get(entry.ProjectileID)
		if err != nil {
			return 0, fmt.Errorf("create weapon %d: %w", entry.ID, err)
		}
		w.LeadSpeed = p.Speed
	}

	e := s.World.CreateEntity()
	s.Weapons.Add(e, w)
	s.Transforms.Add(e, MuzzleTransform(ownerTr, muzzle))
	if w.Kind == component.WeaponHitscan {
		s.Beams.Add(e, component.BeamTrace{})
	}
	s.present(e, KindWeapon, int(entry.ID))
	return e, nil
}

// CreateProjectile spawns a bullet flying along orientation. It expires
// after ttl seconds; ttl ≤ 0 means it only dies on impact or at the arena
// edge.
func (s *State) CreateProjectile(assetID int32, sender ecs.EntityID, pos cp.Vector, orientation, ttl float64) (ecs.EntityID, error) {
	entry, err := s.Tables.Projectiles.Get(assetID)
	if err != nil {
		return 0, fmt.Errorf("create projectile: %w", err)
	}
	e := s.World.CreateEntity()
	s.Transforms.Add(e, component.Transform{Position: s.Bounds.Clamp(pos), Orientation: orientation, Scale: 1})
	s.Movements.Add(e, component.Movement{
		Velocity: cp.ForAngle(orientation).Mult(entry.Speed),
		MaxSpeed: entry.Speed,
	})
	s.Projectiles.Add(e, component.Projectile{
		AssetID:         int(entry.ID),
		Radius:          entry.Radius,
		Damage:          int(entry.Damage),
		Sender:          sender,
		CanDamageSender: entry.CanDamageSender,
	})
	if ttl > 0 {
		s.Temporaries.Add(e, component.Temporary{TimeToLive: ttl})
	}
	s.present(e, KindBullet, int(entry.ID))
	return e, nil
}

// CreateHomingMunition launches a targetless munition at half its top speed.
func (s *State) CreateHomingMunition(assetID int32, sender ecs.EntityID, team int, pos cp.Vector, orientation float64) (ecs.EntityID, error) {
	entry, err := s.Tables.Projectiles.Get(assetID)
	if err != nil {
		return 0, fmt.Errorf("create munition: %w", err)
	}
	h := entry.Homing
	if h == nil {
		return 0, fmt.Errorf("create munition: projectile %d has no homing profile", assetID)
	}
	e := s.World.CreateEntity()
	tr := s.Transforms.Add(e, component.Transform{Position: s.Bounds.Clamp(pos), Orientation: orientation, Scale: 1})
	s.Movements.Add(e, component.Movement{
		Velocity:      cp.ForAngle(orientation).Mult(entry.Speed / 2),
		MaxSpeed:      entry.Speed,
		MaxAccel:      math.Max(h.AccelNoTarget, h.AccelWithTarget),
		RotationSpeed: deg(h.AngularSpeed),
	})
	s.Steerings.Add(e, component.Steering{})
	s.Healths.Add(e, component.Health{Current: int(h.Health), Max: int(h.Health)})
	s.Projectiles.Add(e, component.Projectile{
		AssetID:         int(entry.ID),
		Radius:          entry.Radius,
		Damage:          int(entry.Damage),
		Sender:          sender,
		CanDamageSender: entry.CanDamageSender,
	})
	s.Homings.Add(e, component.Homing{
		Team:            team,
		SearchRadius:    h.SearchRadius,
		FOV:             deg(h.FOV),
		AccelNoTarget:   h.AccelNoTarget,
		AccelWithTarget: h.AccelWithTarget,
		AngularSpeed:    deg(h.AngularSpeed),
		SplashRadius:    h.SplashRadius,
		SplashDamage:    int(h.SplashDamage),
		FlightBudget:    h.FlightDistance,
	})
	s.collide(e, spatial.Circle(entry.Radius), tr)
	s.present(e, KindMunition, int(entry.ID))
	return e, nil
}

// SpawnShipsRandomly creates count AI ships drawn from assets, dealt
// round-robin into teams 1..teams, placed uniformly within radius of the
// arena center (radius ≤ 0 uses the whole arena).
func (s *State) SpawnShipsRandomly(count int, assets []int32, teams int, radius float64) ([]ecs.EntityID, error) {
	if len(assets) == 0 {
		return nil, fmt.Errorf("spawn ships: no ship assets")
	}
	if teams < 1 {
		teams = 1
	}
	ids := make([]ecs.EntityID, 0, count)
	for i := 0; i < count; i++ {
		var pos cp.Vector
		if radius > 0 {
			pos = s.Bounds.RandomPointInDisk(s.Rand, radius)
		} else {
			pos = s.Bounds.RandomPoint(s.Rand)
		}
		asset := assets[s.Rand.Intn(len(assets))]
		orientation := s.Rand.Float64() * 2 * math.Pi
		id, err := s.CreateShip(asset, i%teams+1, pos, orientation)
		if err != nil {
			return ids, fmt.Errorf("spawn ships: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
