package ecs

import "fmt"

// MaxComponents bounds the number of stores one registry can hold.
const MaxComponents = 64

// Mask is a component signature: bit i set means the store with
// ComponentID i holds a value for the entity.
type Mask uint64

func (m Mask) Has(id ComponentID) bool { return m&(1<<id) != 0 }

// Registry tracks all component stores, per-entity signatures and the views
// that depend on them. It supports bulk cleanup on entity destroy.
type Registry struct {
	stores     []Component
	signatures map[EntityID]Mask
	views      []*View
}

func NewRegistry() *Registry {
	return &Registry{
		stores:     make([]Component, 0, 16),
		signatures: make(map[EntityID]Mask, 256),
	}
}

func (r *Registry) register(c Component) ComponentID {
	if len(r.stores) >= MaxComponents {
		panic(fmt.Sprintf("ecs: registry full, cannot register %s", c.Name()))
	}
	r.stores = append(r.stores, c)
	return ComponentID(len(r.stores) - 1)
}

// Signature returns the component mask of id.
func (r *Registry) Signature(id EntityID) Mask {
	return r.signatures[id]
}

// RemoveAll clears the given entity from every registered component store.
func (r *Registry) RemoveAll(id EntityID) {
	mask := r.signatures[id]
	for i, s := range r.stores {
		if mask.Has(ComponentID(i)) {
			s.remove(id)
		}
	}
	delete(r.signatures, id)
}

func (r *Registry) attached(id EntityID, c ComponentID) {
	before := r.signatures[id]
	after := before | 1<<c
	r.signatures[id] = after
	r.reindex(id, before, after)
}

func (r *Registry) detached(id EntityID, c ComponentID) {
	before := r.signatures[id]
	after := before &^ (1 << c)
	if after == 0 {
		delete(r.signatures, id)
	} else {
		r.signatures[id] = after
	}
	r.reindex(id, before, after)
}

func (r *Registry) reindex(id EntityID, before, after Mask) {
	for _, v := range r.views {
		was, is := v.matches(before), v.matches(after)
		switch {
		case is && !was:
			v.insert(id)
		case was && !is:
			v.erase(id)
		}
	}
}

// NewView declares a view over entities carrying every include component and
// none of the exclude components. Existing entities are indexed immediately.
func (r *Registry) NewView(include []Component, exclude []Component) *View {
	v := &View{
		index: make(map[EntityID]int, 64),
	}
	for _, c := range include {
		v.include |= 1 << c.ComponentID()
	}
	for _, c := range exclude {
		v.exclude |= 1 << c.ComponentID()
	}
	for id, mask := range r.signatures {
		if v.matches(mask) {
			v.insert(id)
		}
	}
	r.views = append(r.views, v)
	return v
}
