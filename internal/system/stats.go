package system

import (
	"time"

	"github.com/l1jgo/arena/internal/core/event"
	coresys "github.com/l1jgo/arena/internal/core/system"
	"github.com/l1jgo/arena/internal/world"
)

// Stats aggregates match events. Event counters lag one tick behind the
// simulation because the bus delivers events the tick after emission.
type Stats struct {
	Ticks       uint64
	ShotsFired  map[string]int // by weapon kind
	ShipsLost   map[int]int    // by team
	Kills       map[int]int    // ships destroyed by a ship of this team
	Detonations int
	SplashHits  int
	Collisions  int
	Transitions map[string]int // by destination mode
	Survivors   map[int]int    // live ships by team, refreshed every tick
}

// StatsSystem subscribes to the bus and recounts survivors each tick.
// Phase: Events, registered after EventDispatchSystem.
type StatsSystem struct {
	state *world.State
	stats Stats
}

func NewStatsSystem(state *world.State) *StatsSystem {
	s := &StatsSystem{
		state: state,
		stats: Stats{
			ShotsFired:  make(map[string]int),
			ShipsLost:   make(map[int]int),
			Kills:       make(map[int]int),
			Transitions: make(map[string]int),
			Survivors:   make(map[int]int),
		},
	}
	event.Subscribe(state.Bus, func(e event.WeaponFired) {
		s.stats.ShotsFired[e.Kind]++
	})
	event.Subscribe(state.Bus, func(e event.EntityKilled) {
		if !e.Ship {
			return
		}
		s.stats.ShipsLost[e.Team]++
		if team, ok := state.Team(e.Killer); ok && team != e.Team {
			s.stats.Kills[team]++
		}
	})
	event.Subscribe(state.Bus, func(e event.MunitionDetonated) {
		s.stats.Detonations++
		s.stats.SplashHits += e.SplashHits
	})
	event.Subscribe(state.Bus, func(event.ShipsCollided) {
		s.stats.Collisions++
	})
	event.Subscribe(state.Bus, func(e event.AIStateChanged) {
		s.stats.Transitions[e.To]++
	})
	s.countSurvivors()
	return s
}

func (s *StatsSystem) Phase() coresys.Phase { return coresys.PhaseEvents }

func (s *StatsSystem) Update(_ time.Duration) {
	s.stats.Ticks++
	s.countSurvivors()
}

func (s *StatsSystem) countSurvivors() {
	clear(s.stats.Survivors)
	for id := range s.state.ShipView.All() {
		if team, ok := s.state.Team(id); ok {
			s.stats.Survivors[team]++
		}
	}
}

// Stats returns the live aggregate; callers must not keep it across ticks.
func (s *StatsSystem) Stats() *Stats { return &s.stats }

// Recount refreshes the survivor table outside the tick.
func (s *StatsSystem) Recount() { s.countSurvivors() }
