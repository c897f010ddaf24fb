package ecs

// DefaultGraceFrames is how many cleanup passes a condemned entity survives.
const DefaultGraceFrames = 2

// Destroy marks an entity as condemned. Frames counts cleanup passes since
// the mark was added.
type Destroy struct {
	Frames int
}

// World is the top-level ECS container. It owns the entity pool, the component
// registry and the destroy markers advanced by CleanupSystem each tick.
type World struct {
	pool        *EntityPool
	registry    *Registry
	destroyed   *Store[Destroy]
	graceFrames int
	condemned   *View
	removed     []EntityID
}

// NewWorld creates a world whose condemned entities are removed once their
// marker has been advanced more than graceFrames times.
func NewWorld(graceFrames int) *World {
	if graceFrames < 0 {
		graceFrames = DefaultGraceFrames
	}
	reg := NewRegistry()
	destroyed := NewStore[Destroy](reg)
	return &World{
		pool:        NewEntityPool(),
		registry:    reg,
		destroyed:   destroyed,
		graceFrames: graceFrames,
		condemned:   reg.NewView([]Component{destroyed}, nil),
		removed:     make([]EntityID, 0, 64),
	}
}

func (w *World) Pool() *EntityPool          { return w.pool }
func (w *World) Registry() *Registry        { return w.registry }
func (w *World) Destroyed() *Store[Destroy] { return w.destroyed }
func (w *World) GraceFrames() int           { return w.graceFrames }

func (w *World) CreateEntity() EntityID {
	return w.pool.Create()
}

// Alive reports whether id still names an entity in the registry.
func (w *World) Alive(id EntityID) bool {
	return w.pool.Alive(id)
}

// Condemned reports whether id carries a destroy marker.
func (w *World) Condemned(id EntityID) bool {
	return w.destroyed.Has(id)
}

// Live reports whether id exists and is not condemned. This is the check
// every weak reference goes through before it is dereferenced.
func (w *World) Live(id EntityID) bool {
	return w.pool.Alive(id) && !w.destroyed.Has(id)
}

// Destroy condemns id. The marker is added at most once; it returns false
// for dead or already condemned entities.
func (w *World) Destroy(id EntityID) bool {
	if !w.pool.Alive(id) || w.destroyed.Has(id) {
		return false
	}
	w.destroyed.Add(id, Destroy{})
	return true
}

// TickDestruction advances every destroy marker and removes the entities
// whose counter exceeds the grace threshold. release runs for each of them
// before their components are dropped. The returned slice is reused by the
// next call.
func (w *World) TickDestruction(release func(EntityID)) []EntityID {
	w.removed = w.removed[:0]
	for id := range w.condemned.All() {
		d := w.destroyed.MustGet(id)
		d.Frames++
		if d.Frames > w.graceFrames {
			w.removed = append(w.removed, id)
		}
	}
	for _, id := range w.removed {
		if release != nil {
			release(id)
		}
		w.registry.RemoveAll(id)
		w.pool.Destroy(id)
	}
	return w.removed
}
