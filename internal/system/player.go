package system

import (
	"time"

	"github.com/l1jgo/arena/internal/core/ecs"
	coresys "github.com/l1jgo/arena/internal/core/system"
	"github.com/l1jgo/arena/internal/steering"
	"github.com/l1jgo/arena/internal/world"
)

// PlayerControlSystem converts the externally written PlayerControl intent
// into steering and weapon triggers. Phase: Intent.
type PlayerControlSystem struct {
	state *world.State
}

func NewPlayerControlSystem(state *world.State) *PlayerControlSystem {
	return &PlayerControlSystem{state: state}
}

func (s *PlayerControlSystem) Phase() coresys.Phase { return coresys.PhaseIntent }

func (s *PlayerControlSystem) Update(dt time.Duration) {
	st := s.state
	for id := range st.PlayerView.All() {
		ctrl := st.Controls.MustGet(id)
		tr := st.Transforms.MustGet(id)
		mv := st.Movements.MustGet(id)
		out := st.Steerings.MustGet(id)

		out.Linear = steering.ClampMagnitude(ctrl.Thrust, 1).Mult(mv.MaxAccel)
		out.Angular = steering.FaceDirection(tr.Orientation, ctrl.Look, mv.RotationSpeed, dt.Seconds())

		if m, ok := st.Mounts.Get(id); ok {
			for _, wid := range m.Weapons {
				if w, err := ecs.Deref(st.World, st.Weapons, wid); err == nil {
					w.Shooting = ctrl.Shooting
				}
			}
		}
	}
}
