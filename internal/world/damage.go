package world

import (
	"math"

	"github.com/l1jgo/arena/internal/component"
	"github.com/l1jgo/arena/internal/core/ecs"
	"github.com/l1jgo/arena/internal/core/event"
	"go.uber.org/zap"
)

// DamageModel turns table damage into applied damage. The Lua scripting
// engine implements it; LinearDamage is the built-in equivalent.
type DamageModel interface {
	ImpactDamage(kind string, base int) int
	SplashDamage(base int, distance, radius float64) int
}

// LinearDamage applies base damage on impact and linear splash falloff.
type LinearDamage struct{}

func (LinearDamage) ImpactDamage(_ string, base int) int { return max(base, 0) }

func (LinearDamage) SplashDamage(base int, distance, radius float64) int {
	if radius <= 0 {
		return 0
	}
	return int(math.Floor(float64(base) * math.Max(0, 1-distance/radius)))
}

// ApplyDamage adds amount to the target's damage accumulator. The damage
// system resolves the sum once per tick. Targets that are gone, condemned or
// have no health are ignored.
func (s *State) ApplyDamage(target ecs.EntityID, amount int, source ecs.EntityID) bool {
	if amount <= 0 || !s.Live(target) || !s.Healths.Has(target) {
		return false
	}
	if d, ok := s.Damages.Get(target); ok {
		d.Amount += amount
		d.Source = source
		return true
	}
	s.Damages.Add(target, component.Damage{Amount: amount, Source: source})
	return true
}

// Kill condemns e and, for ships, every weapon it mounts. It returns false
// when e was already condemned or gone, so double kills are harmless.
func (s *State) Kill(e, killer ecs.EntityID) bool {
	if !s.World.Destroy(e) {
		return false
	}
	ship := s.Ships.Has(e)
	if m, ok := s.Mounts.Get(e); ok {
		for _, w := range m.Weapons {
			s.World.Destroy(w)
		}
	}
	team, _ := s.Team(e)
	event.Emit(s.Bus, event.EntityKilled{Entity: e, Killer: killer, Team: team, Ship: ship})
	if ship {
		s.Log.Debug("ship destroyed",
			zap.Stringer("entity", e),
			zap.Stringer("killer", killer),
			zap.Int("team", team))
	}
	return true
}
