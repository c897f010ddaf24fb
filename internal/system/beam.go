package system

import (
	"github.com/l1jgo/arena/internal/component"
	"github.com/l1jgo/arena/internal/core/ecs"
	"github.com/l1jgo/arena/internal/spatial"
)

// traceBeam casts the hitscan ray every tick the weapon is shooting so the
// beam stays visible, and applies damage only when fire is set.
func (s *WeaponSystem) traceBeam(id ecs.EntityID, w *component.Weapon, tr *component.Transform, fire bool) {
	st := s.state
	beam, ok := st.Beams.Get(id)
	if !ok {
		beam = st.Beams.Add(id, component.BeamTrace{})
	}
	if !w.Shooting {
		*beam = component.BeamTrace{}
		return
	}

	heading := tr.Heading()
	beam.From = tr.Position
	beam.To = tr.Position.Add(heading.Mult(w.Range))
	beam.Hit = 0
	beam.Visible = true

	if hit, ok := s.closestBeamHit(st.Spatial.Raycast(tr.Position, heading, w.Range), w.Owner); ok {
		beam.To = hit.Point
		beam.Hit = hit.Entity
	}
	if fire && !beam.Hit.IsZero() {
		st.ApplyDamage(beam.Hit, st.Damage.ImpactDamage(w.Kind.String(), w.Damage), w.Owner)
	}
}

// closestBeamHit returns the nearest live, damageable hit that is not the owner.
func (s *WeaponSystem) closestBeamHit(hits []spatial.RayHit, owner ecs.EntityID) (spatial.RayHit, bool) {
	for _, h := range hits {
		if h.Entity == owner || !s.state.Live(h.Entity) || !s.state.Healths.Has(h.Entity) {
			continue
		}
		return h, true
	}
	return spatial.RayHit{}, false
}
