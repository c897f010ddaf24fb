package world

import (
	"math/rand"

	"github.com/jakecoffman/cp"
	"github.com/l1jgo/arena/internal/component"
	"github.com/l1jgo/arena/internal/core/ecs"
	"github.com/l1jgo/arena/internal/core/event"
	"github.com/l1jgo/arena/internal/data"
	"github.com/l1jgo/arena/internal/spatial"
	"go.uber.org/zap"
)

// State is the simulation context of one match: the ECS world, every
// component store, the views the systems iterate, and the collaborators the
// simulation consumes. Accessed only from the match goroutine, no locks.
type State struct {
	World *ecs.World

	Transforms    *ecs.Store[component.Transform]
	Movements     *ecs.Store[component.Movement]
	Steerings     *ecs.Store[component.Steering]
	Healths       *ecs.Store[component.Health]
	Damages       *ecs.Store[component.Damage]
	Ships         *ecs.Store[component.Ship]
	Mounts        *ecs.Store[component.Mount]
	Factions      *ecs.Store[component.Faction]
	Players       *ecs.Store[component.Player]
	Controls      *ecs.Store[component.PlayerControl]
	AIs           *ecs.Store[component.AI]
	Weapons       *ecs.Store[component.Weapon]
	Beams         *ecs.Store[component.BeamTrace]
	Projectiles   *ecs.Store[component.Projectile]
	Homings       *ecs.Store[component.Homing]
	Temporaries   *ecs.Store[component.Temporary]
	Colliders     *ecs.Store[component.Collider]
	Presentations *ecs.Store[component.Presentation]

	// Views. All of them skip condemned entities.
	AIShips       *ecs.View // AI ships (players excluded)
	ShipView      *ecs.View
	PlayerView    *ecs.View
	WeaponView    *ecs.View
	BulletView    *ecs.View // projectiles without guidance
	MunitionView  *ecs.View
	MoverView     *ecs.View
	DamagedView   *ecs.View
	TemporaryView *ecs.View
	ColliderView  *ecs.View
	PresentedView *ecs.View

	Bounds    Bounds
	Tables    *data.Tables
	Spatial   spatial.Provider
	Presenter Presenter
	Damage    DamageModel
	Rand      *rand.Rand
	Bus       *event.Bus
	Log       *zap.Logger

	// PlayerInvisible hides players from AI detection and munition lock-on.
	PlayerInvisible bool
}

// Options configures NewState. Zero values pick working defaults so tests
// only set what they exercise.
type Options struct {
	GraceFrames     int // <0 = ecs.DefaultGraceFrames
	Bounds          Bounds
	Tables          *data.Tables
	Spatial         spatial.Provider
	Presenter       Presenter
	Damage          DamageModel
	Seed            int64
	Bus             *event.Bus
	Log             *zap.Logger
	PlayerInvisible bool
}

func NewState(opts Options) *State {
	w := ecs.NewWorld(opts.GraceFrames)
	reg := w.Registry()

	s := &State{
		World:           w,
		Transforms:      ecs.NewStore[component.Transform](reg),
		Movements:       ecs.NewStore[component.Movement](reg),
		Steerings:       ecs.NewStore[component.Steering](reg),
		Healths:         ecs.NewStore[component.Health](reg),
		Damages:         ecs.NewStore[component.Damage](reg),
		Ships:           ecs.NewStore[component.Ship](reg),
		Mounts:          ecs.NewStore[component.Mount](reg),
		Factions:        ecs.NewStore[component.Faction](reg),
		Players:         ecs.NewStore[component.Player](reg),
		Controls:        ecs.NewStore[component.PlayerControl](reg),
		AIs:             ecs.NewStore[component.AI](reg),
		Weapons:         ecs.NewStore[component.Weapon](reg),
		Beams:           ecs.NewStore[component.BeamTrace](reg),
		Projectiles:     ecs.NewStore[component.Projectile](reg),
		Homings:         ecs.NewStore[component.Homing](reg),
		Temporaries:     ecs.NewStore[component.Temporary](reg),
		Colliders:       ecs.NewStore[component.Collider](reg),
		Presentations:   ecs.NewStore[component.Presentation](reg),
		Bounds:          opts.Bounds,
		Tables:          opts.Tables,
		Spatial:         opts.Spatial,
		Presenter:       opts.Presenter,
		Damage:          opts.Damage,
		Rand:            rand.New(rand.NewSource(opts.Seed)),
		Bus:             opts.Bus,
		Log:             opts.Log,
		PlayerInvisible: opts.PlayerInvisible,
	}
	if s.Bounds.Size.X <= 0 || s.Bounds.Size.Y <= 0 {
		s.Bounds.Size = cp.Vector{X: 200, Y: 200}
	}
	if s.Spatial == nil {
		s.Spatial = spatial.NewGrid(16)
	}
	if s.Presenter == nil {
		s.Presenter = &NopPresenter{}
	}
	if s.Damage == nil {
		s.Damage = LinearDamage{}
	}
	if s.Bus == nil {
		s.Bus = event.NewBus()
	}
	if s.Log == nil {
		s.Log = zap.NewNop()
	}

	condemned := []ecs.Component{w.Destroyed()}
	view := func(include ...ecs.Component) *ecs.View {
		return reg.NewView(include, condemned)
	}
	s.AIShips = reg.NewView(
		[]ecs.Component{s.AIs, s.Ships, s.Transforms, s.Movements, s.Steerings},
		[]ecs.Component{w.Destroyed(), s.Players},
	)
	s.ShipView = view(s.Ships, s.Transforms, s.Movements)
	s.PlayerView = view(s.Players, s.Controls, s.Transforms, s.Movements, s.Steerings)
	s.WeaponView = view(s.Weapons, s.Transforms)
	s.BulletView = reg.NewView(
		[]ecs.Component{s.Projectiles, s.Transforms},
		[]ecs.Component{w.Destroyed(), s.Homings},
	)
	s.MunitionView = view(s.Homings, s.Projectiles, s.Transforms, s.Movements, s.Steerings)
	s.MoverView = view(s.Transforms, s.Movements)
	s.DamagedView = view(s.Damages, s.Healths)
	s.TemporaryView = view(s.Temporaries)
	s.ColliderView = view(s.Colliders, s.Transforms)
	s.PresentedView = view(s.Presentations, s.Transforms)
	return s
}

// Live reports whether e exists and is not condemned.
func (s *State) Live(e ecs.EntityID) bool { return s.World.Live(e) }

// Team returns the faction of e.
func (s *State) Team(e ecs.EntityID) (int, bool) {
	f, ok := s.Factions.Get(e)
	if !ok {
		return 0, false
	}
	return f.Team, true
}

// Targetable reports whether e is a live ship hostile to team that AI and
// munitions may lock onto.
func (s *State) Targetable(e ecs.EntityID, team int) bool {
	if !s.Live(e) || !s.Ships.Has(e) {
		return false
	}
	t, ok := s.Team(e)
	if !ok || t == team {
		return false
	}
	if s.PlayerInvisible && s.Players.Has(e) {
		return false
	}
	return true
}

// Nearest returns the closest targetable ship to pos within radius, skipping
// self. Ties resolve to the lower entity id.
func (s *State) Nearest(self ecs.EntityID, pos cp.Vector, radius float64, team int) (ecs.EntityID, bool) {
	var (
		best     ecs.EntityID
		bestDist float64
		found    bool
	)
	for _, id := range s.Spatial.OverlapCircle(pos, radius) {
		if id == self || !s.Targetable(id, team) {
			continue
		}
		tr, ok := s.Transforms.Get(id)
		if !ok {
			continue
		}
		d := tr.Position.DistanceSq(pos)
		if !found || d < bestDist {
			best, bestDist, found = id, d, true
		}
	}
	return best, found
}

// SetPlayerIntent writes the control intent of a player ship.
func (s *State) SetPlayerIntent(e ecs.EntityID, c component.PlayerControl) error {
	ctrl, err := ecs.Deref(s.World, s.Controls, e)
	if err != nil {
		return err
	}
	*ctrl = c
	return nil
}
