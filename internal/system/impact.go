package system

import (
	"time"

	"github.com/l1jgo/arena/internal/component"
	"github.com/l1jgo/arena/internal/core/ecs"
	"github.com/l1jgo/arena/internal/core/event"
	coresys "github.com/l1jgo/arena/internal/core/system"
	"github.com/l1jgo/arena/internal/world"
)

// ImpactSystem resolves bullet and munition hits. Direct hits and splash go
// into the damage accumulators; the damage system applies them afterwards.
// Phase: Hits.
type ImpactSystem struct {
	state *world.State
}

func NewImpactSystem(state *world.State) *ImpactSystem {
	return &ImpactSystem{state: state}
}

func (s *ImpactSystem) Phase() coresys.Phase { return coresys.PhaseHits }

func (s *ImpactSystem) Update(_ time.Duration) {
	st := s.state
	for id := range st.BulletView.All() {
		p := st.Projectiles.MustGet(id)
		tr := st.Transforms.MustGet(id)
		victim, ok := s.directHit(id, p, tr)
		if !ok {
			continue
		}
		st.ApplyDamage(victim, st.Damage.ImpactDamage(component.WeaponKinematic.String(), p.Damage), p.Sender)
		st.World.Destroy(id)
	}

	for id := range st.MunitionView.All() {
		p := st.Projectiles.MustGet(id)
		h := st.Homings.MustGet(id)
		tr := st.Transforms.MustGet(id)
		victim, ok := s.directHit(id, p, tr)
		if !ok {
			continue
		}
		st.ApplyDamage(victim, st.Damage.ImpactDamage(component.WeaponHoming.String(), p.Damage), p.Sender)
		splashed := s.splash(id, p, h, tr)
		st.World.Destroy(id)
		event.Emit(st.Bus, event.MunitionDetonated{
			Munition:   id,
			Sender:     p.Sender,
			Position:   tr.Position,
			DirectHit:  victim,
			SplashHits: splashed,
		})
	}
}

// directHit returns the closest valid entity overlapping the projectile.
func (s *ImpactSystem) directHit(self ecs.EntityID, p *component.Projectile, tr *component.Transform) (ecs.EntityID, bool) {
	st := s.state
	var (
		best     ecs.EntityID
		bestDist float64
		found    bool
	)
	for _, id := range st.Spatial.OverlapCircle(tr.Position, p.Radius) {
		if !s.hittable(self, id, p) {
			continue
		}
		ctr, ok := st.Transforms.Get(id)
		if !ok {
			continue
		}
		d := ctr.Position.DistanceSq(tr.Position)
		if !found || d < bestDist {
			best, bestDist, found = id, d, true
		}
	}
	return best, found
}

func (s *ImpactSystem) hittable(self, id ecs.EntityID, p *component.Projectile) bool {
	st := s.state
	if id == self || !st.Live(id) || !st.Healths.Has(id) {
		return false
	}
	if id == p.Sender && !p.CanDamageSender {
		return false
	}
	// Munitions from the same launcher never hit each other.
	if other, ok := st.Projectiles.Get(id); ok && other.Sender == p.Sender {
		return false
	}
	return true
}

// splash damages every live entity with health inside the splash radius
// except the sender. The direct victim takes splash on top of the impact;
// both land in the same accumulator. It returns how many were hit.
func (s *ImpactSystem) splash(self ecs.EntityID, p *component.Projectile, h *component.Homing, tr *component.Transform) int {
	st := s.state
	if h.SplashRadius <= 0 || h.SplashDamage <= 0 {
		return 0
	}
	n := 0
	for _, id := range st.Spatial.OverlapCircle(tr.Position, h.SplashRadius) {
		if id == self || id == p.Sender || !st.Live(id) || !st.Healths.Has(id) {
			continue
		}
		ctr, ok := st.Transforms.Get(id)
		if !ok {
			continue
		}
		dmg := st.Damage.SplashDamage(h.SplashDamage, ctr.Position.Distance(tr.Position), h.SplashRadius)
		if st.ApplyDamage(id, dmg, p.Sender) {
			n++
		}
	}
	return n
}
