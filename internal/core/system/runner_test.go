package system

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	name  string
	phase Phase
	log   *[]string
}

func (p recorder) Phase() Phase { return p.phase }

func (p recorder) Update(time.Duration) { *p.log = append(*p.log, p.name) }

func TestRunnerOrdersByPhaseThenRegistration(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(recorder{"cleanup", PhaseCleanup, &log})
	r.Register(recorder{"damage", PhaseDamage, &log})
	r.Register(recorder{"ai", PhaseAI, &log})
	r.Register(recorder{"homing", PhaseSteering, &log})
	r.Register(recorder{"ships", PhaseSteering, &log})
	r.Register(recorder{"weapons", PhaseWeapons, &log})

	r.Tick(16 * time.Millisecond)
	assert.Equal(t, []string{"ai", "homing", "ships", "weapons", "damage", "cleanup"}, log)
	assert.EqualValues(t, 1, r.Ticks())

	log = log[:0]
	r.Tick(time.Millisecond)
	assert.Len(t, log, 6)
	assert.EqualValues(t, 2, r.Ticks())
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "ai", PhaseAI.String())
	assert.Equal(t, "cleanup", PhaseCleanup.String())
	assert.Equal(t, "unknown", Phase(42).String())
}
