package system

import (
	"time"

	"github.com/l1jgo/arena/internal/core/ecs"
	coresys "github.com/l1jgo/arena/internal/core/system"
	"github.com/l1jgo/arena/internal/world"
)

// CleanupSystem advances destroy markers at tick end and removes entities
// whose grace period is over, releasing their collider and presentation
// handle first. Phase: Cleanup, after every reader of weak references.
type CleanupSystem struct {
	state   *world.State
	removed int
}

func NewCleanupSystem(state *world.State) *CleanupSystem {
	return &CleanupSystem{state: state}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(_ time.Duration) {
	s.removed += len(s.state.World.TickDestruction(s.release))
}

func (s *CleanupSystem) release(id ecs.EntityID) {
	st := s.state
	st.Spatial.Remove(id)
	if p, ok := st.Presentations.Get(id); ok {
		st.Presenter.Release(p.Handle)
	}
}

// Removed returns how many entities have been removed so far.
func (s *CleanupSystem) Removed() int { return s.removed }
