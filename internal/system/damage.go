package system

import (
	"time"

	coresys "github.com/l1jgo/arena/internal/core/system"
	"github.com/l1jgo/arena/internal/world"
)

// DamageSystem applies each entity's accumulated damage once and kills
// entities whose health drops to zero. Phase: Damage, after every hit of
// the tick is accumulated.
type DamageSystem struct {
	state *world.State
}

func NewDamageSystem(state *world.State) *DamageSystem {
	return &DamageSystem{state: state}
}

func (s *DamageSystem) Phase() coresys.Phase { return coresys.PhaseDamage }

func (s *DamageSystem) Update(_ time.Duration) {
	st := s.state
	for id := range st.DamagedView.All() {
		d := st.Damages.MustGet(id)
		h := st.Healths.MustGet(id)
		h.Current -= d.Amount
		source := d.Source
		st.Damages.Remove(id)
		if h.Current <= 0 {
			h.Current = 0
			st.Kill(id, source)
		}
	}
}
