package system

import (
	"context"
	"fmt"
	"time"

	"github.com/l1jgo/arena/internal/component"
	"github.com/l1jgo/arena/internal/core/ecs"
	"github.com/l1jgo/arena/internal/core/event"
	coresys "github.com/l1jgo/arena/internal/core/system"
	"github.com/l1jgo/arena/internal/world"
	"go.uber.org/zap"
)

// AISystem drives the Patrol → Pursue → Engage machine of every AI ship.
// Phase: AI. Runs before steering so steering always reads the behavior
// chosen this tick.
type AISystem struct {
	state *world.State
}

func NewAISystem(state *world.State) *AISystem {
	return &AISystem{state: state}
}

func (s *AISystem) Phase() coresys.Phase { return coresys.PhaseAI }

func (s *AISystem) Update(_ time.Duration) {
	st := s.state
	for id := range st.AIShips.All() {
		ai := st.AIs.MustGet(id)
		tr := st.Transforms.MustGet(id)

		switch b := ai.Behavior.(type) {
		case *component.Patrol:
			team, _ := st.Team(id)
			if target, ok := st.Nearest(id, tr.Position, ai.Params.SearchRadius, team); ok {
				s.transition(id, ai, component.EventDetect, &component.Pursue{
					Target:         target,
					FollowDistance: ai.Params.FollowDistance,
				})
				continue
			}
			if tr.Position.Distance(b.Destination) <= ai.Params.ArriveEpsilon {
				b.Destination = st.Bounds.RandomPoint(st.Rand)
			}

		case *component.Pursue:
			targetTr, err := ecs.Deref(st.World, st.Transforms, b.Target)
			if err != nil {
				s.patrol(id, ai)
				continue
			}
			d := tr.Position.Distance(targetTr.Position)
			switch {
			case d > ai.Params.MaxFollowDistance:
				s.patrol(id, ai)
			case d <= ai.Params.FollowDistance:
				s.engage(id, ai, b.Target)
			}

		case *component.Engage:
			targetTr, err := ecs.Deref(st.World, st.Transforms, b.Target)
			if err != nil {
				s.setShooting(id, nil)
				s.patrol(id, ai)
				continue
			}
			d := tr.Position.Distance(targetTr.Position)
			if d >= ai.Params.MaxHoldDistance {
				s.setShooting(id, nil)
				s.transition(id, ai, component.EventOpen, &component.Pursue{
					Target:         b.Target,
					FollowDistance: ai.Params.FollowDistance,
				})
				continue
			}
			s.setShooting(id, func(w *component.Weapon) bool { return d <= w.Range })

		default:
			panic(fmt.Errorf("ai %s: unknown behavior %T", id, ai.Behavior))
		}
	}
}

func (s *AISystem) patrol(id ecs.EntityID, ai *component.AI) {
	s.transition(id, ai, component.EventLose, &component.Patrol{
		Destination: s.state.Bounds.RandomPoint(s.state.Rand),
	})
}

func (s *AISystem) engage(id ecs.EntityID, ai *component.AI, target ecs.EntityID) {
	e := &component.Engage{
		Target:       target,
		HoldDistance: ai.Params.HoldDistance,
		Deviation:    RollDeviation(s.state, &ai.Params),
	}
	if m, ok := s.state.Mounts.Get(id); ok {
		for _, wid := range m.Weapons {
			w, ok := s.state.Weapons.Get(wid)
			if !ok {
				continue
			}
			e.WeaponRange = max(e.WeaponRange, w.Range)
			if e.LeadSpeed == 0 && w.LeadSpeed > 0 {
				e.LeadSpeed = w.LeadSpeed
			}
		}
	}
	s.transition(id, ai, component.EventClose, e)
}

// transition fires the machine event and swaps the behavior payload. The
// table in component.AITransitions is the only way between modes; an event
// it rejects is a broken invariant.
func (s *AISystem) transition(id ecs.EntityID, ai *component.AI, ev string, next component.Behavior) {
	from := ai.Machine.Current()
	if err := ai.Machine.Event(context.Background(), ev); err != nil {
		panic(fmt.Errorf("ai %s: %s from %s: %w", id, ev, from, err))
	}
	if ai.Machine.Current() != next.Mode() {
		panic(fmt.Errorf("ai %s: %s landed in %s, behavior is %s", id, ev, ai.Machine.Current(), next.Mode()))
	}
	ai.Behavior = next

	var target ecs.EntityID
	switch b := next.(type) {
	case *component.Pursue:
		target = b.Target
	case *component.Engage:
		target = b.Target
	}
	event.Emit(s.state.Bus, event.AIStateChanged{Entity: id, From: from, To: next.Mode(), Target: target})
	s.state.Log.Debug("ai transition",
		zap.Stringer("entity", id),
		zap.String("from", from),
		zap.String("to", next.Mode()),
		zap.Stringer("target", target))
}

// setShooting sets the shooting flag of every weapon the ship mounts; a nil
// predicate stops them all.
func (s *AISystem) setShooting(id ecs.EntityID, shoot func(*component.Weapon) bool) {
	m, ok := s.state.Mounts.Get(id)
	if !ok {
		return
	}
	for _, wid := range m.Weapons {
		w, err := ecs.Deref(s.state.World, s.state.Weapons, wid)
		if err != nil {
			continue
		}
		w.Shooting = shoot != nil && shoot(w)
	}
}

// RollDeviation draws an orbit offset in [-CW, +CCW].
func RollDeviation(state *world.State, p *component.AIParams) float64 {
	return -p.CWDeviation + state.Rand.Float64()*(p.CWDeviation+p.CCWDeviation)
}
