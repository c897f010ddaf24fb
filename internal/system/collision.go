package system

import (
	"time"

	"github.com/l1jgo/arena/internal/core/event"
	coresys "github.com/l1jgo/arena/internal/core/system"
	"github.com/l1jgo/arena/internal/world"
)

// CollisionSystem destroys ships that ram each other. Phase: Hits.
type CollisionSystem struct {
	state *world.State
}

func NewCollisionSystem(state *world.State) *CollisionSystem {
	return &CollisionSystem{state: state}
}

func (s *CollisionSystem) Phase() coresys.Phase { return coresys.PhaseHits }

func (s *CollisionSystem) Update(_ time.Duration) {
	st := s.state
	for id := range st.ShipView.All() {
		// Already taken out by an earlier pair this tick.
		if st.World.Condemned(id) {
			continue
		}
		ship := st.Ships.MustGet(id)
		tr := st.Transforms.MustGet(id)
		for _, other := range st.Spatial.OverlapBox(tr.Position, ship.Size, tr.Orientation) {
			if other == id || !st.Live(other) || !st.Ships.Has(other) {
				continue
			}
			st.Kill(id, other)
			st.Kill(other, id)
			event.Emit(st.Bus, event.ShipsCollided{A: id, B: other})
			break
		}
	}
}
