package component

import (
	"github.com/jakecoffman/cp"
	"github.com/l1jgo/arena/internal/core/ecs"
	"github.com/looplab/fsm"
)

// AI modes, also the state names of the AI machine.
const (
	ModePatrolling = "patrolling"
	ModePursuing   = "pursuing"
	ModeEngaging   = "engaging"
)

// AI machine events.
const (
	EventDetect = "detect" // patrolling → pursuing
	EventLose   = "lose"   // pursuing|engaging → patrolling
	EventClose  = "close"  // pursuing → engaging
	EventOpen   = "open"   // engaging → pursuing
)

// AITransitions is the complete transition table of the AI machine.
var AITransitions = fsm.Events{
	{Name: EventDetect, Src: []string{ModePatrolling}, Dst: ModePursuing},
	{Name: EventLose, Src: []string{ModePursuing, ModeEngaging}, Dst: ModePatrolling},
	{Name: EventClose, Src: []string{ModePursuing}, Dst: ModeEngaging},
	{Name: EventOpen, Src: []string{ModeEngaging}, Dst: ModePursuing},
}

// NewAIMachine returns a machine in the patrolling state.
func NewAIMachine() *fsm.FSM {
	return fsm.NewFSM(ModePatrolling, AITransitions, fsm.Callbacks{})
}

// Behavior is the payload of the current AI mode. Exactly one is attached
// to an AI at any time; the concrete type always matches Machine.Current().
type Behavior interface {
	Mode() string
}

// Patrol wanders to random destinations.
type Patrol struct {
	Destination cp.Vector
}

// Pursue closes in on a target, steering to a point FollowDistance short of it.
type Pursue struct {
	Target         ecs.EntityID // weak
	FollowDistance float64
}

// Engage orbits the target at HoldDistance and fires.
type Engage struct {
	Target       ecs.EntityID // weak
	HoldDistance float64
	WeaponRange  float64
	// Deviation is the orbit offset from the current bearing, radians.
	Deviation float64
	LeadSpeed float64
}

func (*Patrol) Mode() string { return ModePatrolling }
func (*Pursue) Mode() string { return ModePursuing }
func (*Engage) Mode() string { return ModeEngaging }

// AIParams are the per-ship AI ranges and steering constants.
type AIParams struct {
	SearchRadius      float64
	FollowDistance    float64
	MaxFollowDistance float64
	HoldDistance      float64
	MaxHoldDistance   float64
	SlowRadius        float64
	TimeToTarget      float64
	ArriveEpsilon     float64
	CCWDeviation      float64
	CWDeviation       float64
}

// AI is the per-ship state machine: the mode machine plus the payload of the
// current mode.
type AI struct {
	Machine  *fsm.FSM
	Behavior Behavior
	Params   AIParams
}
