package match

import (
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"
)

// TeamResult is one team's line in a summary.
type TeamResult struct {
	Team      int
	Survivors int
	ShipsLost int
	Kills     int
}

// Summary is the outcome of a match at the tick it was taken.
type Summary struct {
	ID          uuid.UUID
	Seed        int64
	Ticks       uint64
	SimTime     time.Duration
	Winner      int // 0 while more than one team (or none) survives
	Teams       []TeamResult
	ShotsFired  map[string]int
	Transitions map[string]int
	Detonations int
	SplashHits  int
	Collisions  int
	Removed     int
}

// Summary delivers the events still queued from the last tick to the stats
// system and snapshots the result. Calling it mid-match is fine; those
// events are not delivered twice.
func (m *Match) Summary() Summary {
	bus := m.State.Bus
	bus.SwapBuffers()
	bus.DispatchAll()
	m.stats.Recount()
	st := m.stats.Stats()

	ticks := m.Runner.Ticks()
	s := Summary{
		ID:          m.ID,
		Seed:        m.Seed,
		Ticks:       ticks,
		SimTime:     time.Duration(ticks) * m.tickRate,
		ShotsFired:  maps.Clone(st.ShotsFired),
		Transitions: maps.Clone(st.Transitions),
		Detonations: st.Detonations,
		SplashHits:  st.SplashHits,
		Collisions:  st.Collisions,
		Removed:     m.cleanup.Removed(),
	}

	teams := make(map[int]struct{})
	for _, tbl := range []map[int]int{st.Survivors, st.ShipsLost, st.Kills} {
		for t := range tbl {
			teams[t] = struct{}{}
		}
	}
	for _, t := range slices.Sorted(maps.Keys(teams)) {
		s.Teams = append(s.Teams, TeamResult{
			Team:      t,
			Survivors: st.Survivors[t],
			ShipsLost: st.ShipsLost[t],
			Kills:     st.Kills[t],
		})
	}
	if live := m.liveTeams(); len(live) == 1 {
		s.Winner = live[0]
	}
	return s
}
