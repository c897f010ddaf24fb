package ecs

import "iter"

// View is an incrementally maintained set of entities matching an
// include/exclude signature. The registry updates membership on every
// component add/remove, so a view never needs rebuilding.
type View struct {
	include Mask
	exclude Mask
	dense   []EntityID
	index   map[EntityID]int

	scratch   []EntityID
	iterating int
}

func (v *View) matches(m Mask) bool {
	return m&v.include == v.include && m&v.exclude == 0
}

func (v *View) insert(id EntityID) {
	v.index[id] = len(v.dense)
	v.dense = append(v.dense, id)
}

func (v *View) erase(id EntityID) {
	i, ok := v.index[id]
	if !ok {
		return
	}
	last := len(v.dense) - 1
	moved := v.dense[last]
	v.dense[i] = moved
	v.index[moved] = i
	v.dense = v.dense[:last]
	delete(v.index, id)
}

// Len returns the current member count.
func (v *View) Len() int { return len(v.dense) }

// Contains reports whether id currently matches the view.
func (v *View) Contains(id EntityID) bool {
	_, ok := v.index[id]
	return ok
}

// All yields the members present when iteration starts. Components of any
// type may be added or removed while iterating; members that stop matching
// before their turn are skipped, entities that start matching are not
// visited until the next iteration.
func (v *View) All() iter.Seq[EntityID] {
	return func(yield func(EntityID) bool) {
		var snap []EntityID
		if v.iterating == 0 {
			snap = append(v.scratch[:0], v.dense...)
			v.scratch = snap
		} else {
			snap = append([]EntityID(nil), v.dense...)
		}
		v.iterating++
		defer func() { v.iterating-- }()

		for _, id := range snap {
			if !v.Contains(id) {
				continue
			}
			if !yield(id) {
				return
			}
		}
	}
}

// Collect returns a copy of the current members.
func (v *View) Collect() []EntityID {
	return append([]EntityID(nil), v.dense...)
}
