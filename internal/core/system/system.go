package system

import "time"

// Phase defines execution ordering within a single tick. The order is a
// correctness requirement: later phases read what earlier ones wrote.
type Phase int

const (
	PhaseEvents   Phase = iota // 0: dispatch last tick's events
	PhaseIntent                // 1: external control intents
	PhaseAI                    // 2: AI state transitions (add/remove behavior)
	PhaseSteering              // 3: steering output from behavior
	PhaseWeapons               // 4: reload, fire, beams, spawn projectiles
	PhaseHits                  // 5: impact resolution, accumulate damage
	PhaseDamage                // 6: consume damage, condemn dead entities
	PhaseMotion                // 7: integrate motion, TTL, collider sync
	PhaseOutput                // 8: presentation sync
	PhaseCleanup               // 9: advance destroy markers, remove entities
)

var phaseNames = [...]string{"events", "intent", "ai", "steering", "weapons", "hits", "damage", "motion", "output", "cleanup"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// System is the interface every ECS system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
