package system

import (
	"math"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/l1jgo/arena/internal/component"
	"github.com/l1jgo/arena/internal/core/ecs"
	coresys "github.com/l1jgo/arena/internal/core/system"
	"github.com/l1jgo/arena/internal/steering"
	"github.com/l1jgo/arena/internal/world"
)

// fovEpsilon absorbs acos rounding so a target exactly on the cone edge locks.
const fovEpsilon = 1e-9

// HomingSystem acquires targets for seeking munitions and steers them.
// Phase: Steering.
type HomingSystem struct {
	state *world.State
}

func NewHomingSystem(state *world.State) *HomingSystem {
	return &HomingSystem{state: state}
}

func (s *HomingSystem) Phase() coresys.Phase { return coresys.PhaseSteering }

func (s *HomingSystem) Update(dt time.Duration) {
	st := s.state
	sec := dt.Seconds()
	for id := range st.MunitionView.All() {
		h := st.Homings.MustGet(id)
		tr := st.Transforms.MustGet(id)
		mv := st.Movements.MustGet(id)
		out := st.Steerings.MustGet(id)

		if !h.Target.IsZero() && !st.Live(h.Target) {
			h.Target = 0
		}
		if h.Target.IsZero() {
			h.Target = Acquire(st, id, tr, h)
		}

		heading := tr.Heading()
		if h.Target.IsZero() {
			out.Linear = heading.Mult(h.AccelNoTarget)
			out.Angular = 0
			continue
		}

		target := st.Transforms.MustGet(h.Target)
		out.Angular = steering.FaceDirection(tr.Orientation, target.Position.Sub(tr.Position), h.AngularSpeed, sec)
		pull := heading.Mult(mv.MaxSpeed).Sub(mv.Velocity)
		if pull.LengthSq() > 0 {
			out.Linear = pull.Normalize().Mult(h.AccelWithTarget)
		} else {
			out.Linear = cp.Vector{}
		}
	}
}

// Acquire picks the hostile ship inside the search radius best aligned with
// the munition heading (smallest 1 − dot) and locks it only if its angle off
// the heading is within the field of view. It returns zero when nothing
// qualifies.
func Acquire(st *world.State, self ecs.EntityID, tr *component.Transform, h *component.Homing) ecs.EntityID {
	heading := tr.Heading()
	var (
		best     ecs.EntityID
		bestCost = math.Inf(1)
		bestDot  float64
	)
	for _, id := range st.Spatial.OverlapCircle(tr.Position, h.SearchRadius) {
		if id == self || !st.Targetable(id, h.Team) {
			continue
		}
		ctr, ok := st.Transforms.Get(id)
		if !ok {
			continue
		}
		dir := ctr.Position.Sub(tr.Position)
		if dir.LengthSq() == 0 {
			continue
		}
		dot := dir.Normalize().Dot(heading)
		if cost := 1 - dot; cost < bestCost {
			best, bestCost, bestDot = id, cost, dot
		}
	}
	if best.IsZero() {
		return 0
	}
	if math.Acos(cp.Clamp(bestDot, -1, 1)) > h.FOV+fovEpsilon {
		return 0
	}
	return best
}
