package system

import (
	"time"

	"github.com/l1jgo/arena/internal/component"
	"github.com/l1jgo/arena/internal/core/ecs"
	"github.com/l1jgo/arena/internal/core/event"
	coresys "github.com/l1jgo/arena/internal/core/system"
	"github.com/l1jgo/arena/internal/world"
	"go.uber.org/zap"
)

// WeaponSystem advances reload timers and fires weapons whose owner wants to
// shoot. Phase: Weapons, before motion.
type WeaponSystem struct {
	state *world.State
}

func NewWeaponSystem(state *world.State) *WeaponSystem {
	return &WeaponSystem{state: state}
}

func (s *WeaponSystem) Phase() coresys.Phase { return coresys.PhaseWeapons }

func (s *WeaponSystem) Update(dt time.Duration) {
	st := s.state
	sec := dt.Seconds()
	for id := range st.WeaponView.All() {
		w := st.Weapons.MustGet(id)
		tr := st.Transforms.MustGet(id)
		if !st.Live(w.Owner) {
			// The mount system condemns orphans after motion.
			continue
		}

		if w.ReloadProgress < w.ReloadTime {
			w.ReloadProgress = min(w.ReloadProgress+sec, w.ReloadTime)
		}
		if w.ReloadProgress >= w.ReloadTime {
			w.Status = component.WeaponReady
		} else {
			w.Status = component.WeaponReloading
		}
		fire := w.Shooting && w.Status == component.WeaponReady

		if w.Kind == component.WeaponHitscan {
			s.traceBeam(id, w, tr, fire)
		}
		if !fire {
			continue
		}

		switch w.Kind {
		case component.WeaponKinematic:
			s.fireProjectile(id, w, tr)
		case component.WeaponHoming:
			s.fireMunition(id, w, tr)
		}
		w.ReloadProgress = 0
		w.Status = component.WeaponReloading
		event.Emit(st.Bus, event.WeaponFired{Weapon: id, Owner: w.Owner, Kind: w.Kind.String()})
	}
}

func (s *WeaponSystem) fireProjectile(id ecs.EntityID, w *component.Weapon, tr *component.Transform) {
	st := s.state
	p, err := st.Tables.Projectiles.Get(int32(w.ProjectileID))
	if err != nil {
		st.Log.Error("weapon fire", zap.Stringer("weapon", id), zap.Error(err))
		return
	}
	if _, err := st.CreateProjectile(p.ID, w.Owner, tr.Position, tr.Orientation, w.Range/p.Speed); err != nil {
		st.Log.Error("weapon fire", zap.Stringer("weapon", id), zap.Error(err))
	}
}

func (s *WeaponSystem) fireMunition(id ecs.EntityID, w *component.Weapon, tr *component.Transform) {
	st := s.state
	team, _ := st.Team(w.Owner)
	if _, err := st.CreateHomingMunition(int32(w.ProjectileID), w.Owner, team, tr.Position, tr.Orientation); err != nil {
		st.Log.Error("weapon fire", zap.Stringer("weapon", id), zap.Error(err))
	}
}
