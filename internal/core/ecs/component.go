package ecs

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingComponent marks a read of a component the entity does not carry.
	ErrMissingComponent = errors.New("ecs: missing component")
	// ErrStaleHandle marks a weak reference to a removed or condemned entity.
	ErrStaleHandle = errors.New("ecs: stale entity handle")
)

// MissingComponentError is the panic value of Store.MustGet.
type MissingComponentError struct {
	Entity    EntityID
	Component string
}

func (e *MissingComponentError) Error() string {
	return fmt.Sprintf("ecs: entity %s has no %s component", e.Entity, e.Component)
}

func (e *MissingComponentError) Unwrap() error { return ErrMissingComponent }

// ComponentID is the bit index a store occupies in entity signatures.
type ComponentID uint8

// Component is implemented by every Store so views can be declared over
// stores of different element types.
type Component interface {
	ComponentID() ComponentID
	Name() string
	remove(id EntityID) bool
}

// Store is a generic typed map store for one component type.
// Pointers returned by Get stay valid until the component is removed.
type Store[T any] struct {
	id       ComponentID
	name     string
	registry *Registry
	data     map[EntityID]*T
}

// NewStore creates a store and registers it with reg.
func NewStore[T any](reg *Registry) *Store[T] {
	var zero T
	s := &Store[T]{
		name:     fmt.Sprintf("%T", zero),
		registry: reg,
		data:     make(map[EntityID]*T, 256),
	}
	s.id = reg.register(s)
	return s
}

func (s *Store[T]) ComponentID() ComponentID { return s.id }
func (s *Store[T]) Name() string             { return s.name }

// Add attaches v to id, replacing any existing value, and returns the stored pointer.
func (s *Store[T]) Add(id EntityID, v T) *T {
	c := new(T)
	*c = v
	s.Set(id, c)
	return c
}

// Set attaches c to id, replacing any existing value.
func (s *Store[T]) Set(id EntityID, c *T) {
	_, existed := s.data[id]
	s.data[id] = c
	if !existed {
		s.registry.attached(id, s.id)
	}
}

func (s *Store[T]) Get(id EntityID) (*T, bool) {
	c, ok := s.data[id]
	return c, ok
}

// MustGet returns the component or panics with *MissingComponentError.
// Use it only where the entity's shape guarantees presence (view members).
func (s *Store[T]) MustGet(id EntityID) *T {
	c, ok := s.data[id]
	if !ok {
		panic(&MissingComponentError{Entity: id, Component: s.name})
	}
	return c
}

// Remove detaches the component and reports whether it existed.
func (s *Store[T]) Remove(id EntityID) bool {
	return s.remove(id)
}

func (s *Store[T]) remove(id EntityID) bool {
	if _, ok := s.data[id]; !ok {
		return false
	}
	delete(s.data, id)
	s.registry.detached(id, s.id)
	return true
}

func (s *Store[T]) Has(id EntityID) bool {
	_, ok := s.data[id]
	return ok
}

func (s *Store[T]) Len() int {
	return len(s.data)
}

// Each visits every component in undefined order. fn must not add to or
// remove from this store.
func (s *Store[T]) Each(fn func(EntityID, *T)) {
	for id, c := range s.data {
		fn(id, c)
	}
}

// Deref resolves a weak reference. It fails with ErrStaleHandle when the
// entity is gone or condemned, and ErrMissingComponent when it lacks T.
func Deref[T any](w *World, s *Store[T], id EntityID) (*T, error) {
	if !w.Live(id) {
		return nil, ErrStaleHandle
	}
	c, ok := s.data[id]
	if !ok {
		return nil, &MissingComponentError{Entity: id, Component: s.name}
	}
	return c, nil
}
