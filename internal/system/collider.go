package system

import (
	"time"

	coresys "github.com/l1jgo/arena/internal/core/system"
	"github.com/l1jgo/arena/internal/world"
)

// ColliderSystem pushes final positions into the spatial provider so next
// tick's queries see them. Phase: Motion, registered last.
type ColliderSystem struct {
	state *world.State
}

func NewColliderSystem(state *world.State) *ColliderSystem {
	return &ColliderSystem{state: state}
}

func (s *ColliderSystem) Phase() coresys.Phase { return coresys.PhaseMotion }

func (s *ColliderSystem) Update(_ time.Duration) {
	st := s.state
	for id := range st.ColliderView.All() {
		c := st.Colliders.MustGet(id)
		tr := st.Transforms.MustGet(id)
		st.Spatial.Upsert(id, c.Shape, tr.Position, tr.Orientation)
	}
}
