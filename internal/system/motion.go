package system

import (
	"time"

	"github.com/l1jgo/arena/internal/core/ecs"
	coresys "github.com/l1jgo/arena/internal/core/system"
	"github.com/l1jgo/arena/internal/steering"
	"github.com/l1jgo/arena/internal/world"
)

// MotionSystem integrates steering into velocity and position, enforces the
// arena bounds and burns munition flight budgets. Phase: Motion.
//
// Entities with Movement.ClampToBounds lose the velocity component on any
// axis that would leave the arena; everything else is destroyed once it
// leaves.
type MotionSystem struct {
	state *world.State
}

func NewMotionSystem(state *world.State) *MotionSystem {
	return &MotionSystem{state: state}
}

func (s *MotionSystem) Phase() coresys.Phase { return coresys.PhaseMotion }

func (s *MotionSystem) Update(dt time.Duration) {
	st := s.state
	sec := dt.Seconds()
	lo, hi := st.Bounds.Min(), st.Bounds.Max()

	for id := range st.MoverView.All() {
		tr := st.Transforms.MustGet(id)
		mv := st.Movements.MustGet(id)

		if out, ok := st.Steerings.Get(id); ok {
			mv.Velocity = mv.Velocity.Add(steering.ClampMagnitude(out.Linear, mv.MaxAccel).Mult(sec))
			tr.Orientation += out.Angular * sec
		}
		if mv.MaxSpeed > 0 {
			mv.Velocity = steering.ClampMagnitude(mv.Velocity, mv.MaxSpeed)
		}

		next := tr.Position.Add(mv.Velocity.Mult(sec))
		if !st.Bounds.Contains(next) {
			if !mv.ClampToBounds {
				st.World.Destroy(id)
				continue
			}
			if next.X < lo.X || next.X > hi.X {
				mv.Velocity.X = 0
				next.X = tr.Position.X
			}
			if next.Y < lo.Y || next.Y > hi.Y {
				mv.Velocity.Y = 0
				next.Y = tr.Position.Y
			}
			next = st.Bounds.Clamp(next)
		}

		moved := next.Distance(tr.Position)
		tr.Position = next
		s.burnFlightBudget(id, moved)
	}
}

func (s *MotionSystem) burnFlightBudget(id ecs.EntityID, moved float64) {
	h, ok := s.state.Homings.Get(id)
	if !ok {
		return
	}
	h.FlightBudget -= moved
	if h.FlightBudget <= 0 {
		s.state.World.Destroy(id)
	}
}
