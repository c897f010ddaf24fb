package system

import (
	"time"

	coresys "github.com/l1jgo/arena/internal/core/system"
	"github.com/l1jgo/arena/internal/world"
)

// PresentationSystem hands final transforms to the presenter. Phase: Output.
type PresentationSystem struct {
	state *world.State
}

func NewPresentationSystem(state *world.State) *PresentationSystem {
	return &PresentationSystem{state: state}
}

func (s *PresentationSystem) Phase() coresys.Phase { return coresys.PhaseOutput }

func (s *PresentationSystem) Update(_ time.Duration) {
	st := s.state
	for id := range st.PresentedView.All() {
		p := st.Presentations.MustGet(id)
		st.Presenter.Sync(p.Handle, *st.Transforms.MustGet(id))
	}
}
