package system

import (
	"time"

	"github.com/jakecoffman/cp"
	"github.com/l1jgo/arena/internal/component"
	"github.com/l1jgo/arena/internal/core/ecs"
	coresys "github.com/l1jgo/arena/internal/core/system"
	"github.com/l1jgo/arena/internal/steering"
	"github.com/l1jgo/arena/internal/world"
)

// SteeringSystem turns the current AI behavior into a steering output.
// Phase: Steering.
type SteeringSystem struct {
	state *world.State
}

func NewSteeringSystem(state *world.State) *SteeringSystem {
	return &SteeringSystem{state: state}
}

func (s *SteeringSystem) Phase() coresys.Phase { return coresys.PhaseSteering }

func (s *SteeringSystem) Update(dt time.Duration) {
	st := s.state
	sec := dt.Seconds()
	for id := range st.AIShips.All() {
		ai := st.AIs.MustGet(id)
		tr := st.Transforms.MustGet(id)
		mv := st.Movements.MustGet(id)
		out := st.Steerings.MustGet(id)
		p := &ai.Params

		switch b := ai.Behavior.(type) {
		case *component.Patrol:
			out.Linear = steering.Arrive(tr.Position, mv.Velocity, b.Destination, mv.MaxSpeed, mv.MaxAccel, p.SlowRadius, p.TimeToTarget)
			out.Angular = steering.FaceDirection(tr.Orientation, mv.Velocity, mv.RotationSpeed, sec)

		case *component.Pursue:
			target, err := ecs.Deref(st.World, st.Transforms, b.Target)
			if err != nil {
				// Lost this tick; the AI system falls back to patrol next tick.
				s.coast(out, mv)
				continue
			}
			lead := steering.LeadPoint(tr.Position, target.Position, b.FollowDistance)
			out.Linear = steering.Arrive(tr.Position, mv.Velocity, lead, mv.MaxSpeed, mv.MaxAccel, p.SlowRadius, p.TimeToTarget)
			out.Angular = steering.FaceDirection(tr.Orientation, target.Position.Sub(tr.Position), mv.RotationSpeed, sec)

		case *component.Engage:
			target, err := ecs.Deref(st.World, st.Transforms, b.Target)
			if err != nil {
				s.coast(out, mv)
				continue
			}
			orbit := steering.OrbitPoint(target.Position, tr.Position, b.HoldDistance, b.Deviation)
			if tr.Position.Distance(orbit) <= p.ArriveEpsilon {
				b.Deviation = RollDeviation(st, p)
				orbit = steering.OrbitPoint(target.Position, tr.Position, b.HoldDistance, b.Deviation)
			}
			out.Linear = steering.Arrive(tr.Position, mv.Velocity, orbit, mv.MaxSpeed, mv.MaxAccel, p.SlowRadius, p.TimeToTarget)

			var targetVel cp.Vector
			if tm, ok := st.Movements.Get(b.Target); ok {
				targetVel = tm.Velocity
			}
			aim := steering.AimPoint(tr.Position, target.Position, targetVel, b.LeadSpeed)
			out.Angular = steering.FaceDirection(tr.Orientation, aim.Sub(tr.Position), mv.RotationSpeed, sec)
		}
	}
}

// coast brakes without turning.
func (s *SteeringSystem) coast(out *component.Steering, mv *component.Movement) {
	out.Linear = steering.ClampMagnitude(mv.Velocity.Neg(), mv.MaxAccel)
	out.Angular = 0
}
