package system

import (
	"time"

	coresys "github.com/l1jgo/arena/internal/core/system"
	"github.com/l1jgo/arena/internal/world"
)

// LifetimeSystem condemns Temporary entities whose time ran out. Phase: Motion.
type LifetimeSystem struct {
	state *world.State
}

func NewLifetimeSystem(state *world.State) *LifetimeSystem {
	return &LifetimeSystem{state: state}
}

func (s *LifetimeSystem) Phase() coresys.Phase { return coresys.PhaseMotion }

func (s *LifetimeSystem) Update(dt time.Duration) {
	st := s.state
	for id := range st.TemporaryView.All() {
		t := st.Temporaries.MustGet(id)
		t.TimePassed += dt.Seconds()
		if t.TimePassed >= t.TimeToLive {
			st.World.Destroy(id)
		}
	}
}
