package ecs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type position struct{ X, Y float64 }
type velocity struct{ X, Y float64 }
type frozen struct{}

func TestEntityPoolGenerations(t *testing.T) {
	p := NewEntityPool()

	a := p.Create()
	require.False(t, a.IsZero())
	assert.True(t, p.Alive(a))

	p.Destroy(a)
	assert.False(t, p.Alive(a))

	b := p.Create()
	assert.Equal(t, a.Index(), b.Index(), "index is recycled")
	assert.Equal(t, a.Generation()+1, b.Generation())
	assert.False(t, p.Alive(a), "stale handle stays dead after reuse")
	assert.True(t, p.Alive(b))

	p.Destroy(a) // stale destroy is a no-op
	assert.True(t, p.Alive(b))
	assert.Equal(t, 1, p.Len())
	assert.False(t, p.Alive(0))
}

func TestStoreAddGetRemove(t *testing.T) {
	w := NewWorld(DefaultGraceFrames)
	positions := NewStore[position](w.Registry())
	e := w.CreateEntity()

	assert.False(t, positions.Has(e))
	_, ok := positions.Get(e)
	assert.False(t, ok)

	p := positions.Add(e, position{X: 1, Y: 2})
	p.X = 5
	got, ok := positions.Get(e)
	require.True(t, ok)
	assert.Equal(t, 5.0, got.X, "Get returns the stored pointer")

	assert.True(t, positions.Remove(e))
	assert.False(t, positions.Remove(e), "remove is idempotent")
	assert.Equal(t, 0, positions.Len())
}

func TestMustGetPanicsOnMissingComponent(t *testing.T) {
	w := NewWorld(DefaultGraceFrames)
	positions := NewStore[position](w.Registry())
	e := w.CreateEntity()

	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		assert.True(t, errors.Is(err, ErrMissingComponent))
		var mc *MissingComponentError
		require.True(t, errors.As(err, &mc))
		assert.Equal(t, e, mc.Entity)
		assert.Contains(t, mc.Component, "position")
	}()
	positions.MustGet(e)
}

func TestViewMembershipTracksComponents(t *testing.T) {
	w := NewWorld(DefaultGraceFrames)
	positions := NewStore[position](w.Registry())
	velocities := NewStore[velocity](w.Registry())
	frozens := NewStore[frozen](w.Registry())

	a := w.CreateEntity()
	positions.Add(a, position{})
	velocities.Add(a, velocity{})

	// Declared after a already matches: must be indexed immediately.
	movers := w.Registry().NewView([]Component{positions, velocities}, []Component{frozens})
	assert.True(t, movers.Contains(a))

	b := w.CreateEntity()
	positions.Add(b, position{})
	assert.False(t, movers.Contains(b))
	velocities.Add(b, velocity{})
	assert.True(t, movers.Contains(b))

	frozens.Add(a, frozen{})
	assert.False(t, movers.Contains(a), "exclusion removes the member")
	frozens.Remove(a)
	assert.True(t, movers.Contains(a))

	velocities.Remove(b)
	assert.False(t, movers.Contains(b))
	assert.Equal(t, 1, movers.Len())
}

func TestViewIterationToleratesMutation(t *testing.T) {
	w := NewWorld(DefaultGraceFrames)
	positions := NewStore[position](w.Registry())
	frozens := NewStore[frozen](w.Registry())
	view := w.Registry().NewView([]Component{positions}, []Component{frozens})

	ids := make([]EntityID, 5)
	for i := range ids {
		ids[i] = w.CreateEntity()
		positions.Add(ids[i], position{X: float64(i)})
	}

	var visited []EntityID
	for id := range view.All() {
		visited = append(visited, id)
		// Exclude everyone else and add a fresh member mid-iteration.
		for _, other := range ids {
			if other != id {
				frozens.Add(other, frozen{})
			}
		}
		positions.Add(w.CreateEntity(), position{X: -1})
	}

	assert.Len(t, visited, 1, "excluded members are skipped, new members wait for the next pass")
	assert.Equal(t, 2, view.Len())
}

func TestNestedViewIteration(t *testing.T) {
	w := NewWorld(DefaultGraceFrames)
	positions := NewStore[position](w.Registry())
	view := w.Registry().NewView([]Component{positions}, nil)
	for i := 0; i < 3; i++ {
		positions.Add(w.CreateEntity(), position{})
	}

	pairs := 0
	for range view.All() {
		for range view.All() {
			pairs++
		}
	}
	assert.Equal(t, 9, pairs)
}

func TestDestroyGracePeriod(t *testing.T) {
	w := NewWorld(2)
	positions := NewStore[position](w.Registry())
	e := w.CreateEntity()
	positions.Add(e, position{})

	// Tick N: condemned during the tick.
	require.True(t, w.Destroy(e))
	assert.False(t, w.Destroy(e), "marker is added once")

	var released []EntityID
	release := func(id EntityID) { released = append(released, id) }

	for tick := 0; tick < 3; tick++ {
		assert.True(t, w.Condemned(e), "marker observable at tick N+%d", tick)
		assert.True(t, w.Alive(e))
		assert.False(t, w.Live(e))
		w.TickDestruction(release)
	}

	assert.False(t, w.Alive(e), "removed by tick N+3")
	assert.False(t, positions.Has(e))
	assert.False(t, w.Condemned(e))
	assert.Equal(t, []EntityID{e}, released)
	assert.Zero(t, w.Registry().Signature(e))
}

func TestDerefStaleHandle(t *testing.T) {
	w := NewWorld(0)
	positions := NewStore[position](w.Registry())
	velocities := NewStore[velocity](w.Registry())
	target := w.CreateEntity()
	positions.Add(target, position{X: 3})

	p, err := Deref(w, positions, target)
	require.NoError(t, err)
	assert.Equal(t, 3.0, p.X)

	_, err = Deref(w, velocities, target)
	assert.ErrorIs(t, err, ErrMissingComponent)

	w.Destroy(target)
	_, err = Deref(w, positions, target)
	assert.ErrorIs(t, err, ErrStaleHandle, "condemned counts as lost")

	w.TickDestruction(nil)
	_, err = Deref(w, positions, target)
	assert.ErrorIs(t, err, ErrStaleHandle)

	reused := w.CreateEntity()
	positions.Add(reused, position{X: 7})
	assert.Equal(t, target.Index(), reused.Index())
	_, err = Deref(w, positions, target)
	assert.ErrorIs(t, err, ErrStaleHandle, "generation guards against reuse")
}
