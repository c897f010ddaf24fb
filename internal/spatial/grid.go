package spatial

import (
	"math"
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/l1jgo/arena/internal/core/ecs"
)

// Grid is a uniform cell index. Colliders are stored in every cell their
// bounding box touches; queries gather candidates from the covered cells and
// run an exact shape test. Accessed only from the simulation goroutine, no locks.
type Grid struct {
	cellSize float64
	cells    map[cellKey]map[ecs.EntityID]struct{}
	entries  map[ecs.EntityID]*gridEntry

	seen map[ecs.EntityID]struct{}
	ids  []ecs.EntityID
	hits []RayHit
}

type cellKey struct {
	cx, cy int32
}

type gridEntry struct {
	shape    Shape
	pos      cp.Vector
	rotation float64
	min, max cellKey
}

// NewGrid creates a grid with the given cell edge length.
func NewGrid(cellSize float64) *Grid {
	if cellSize <= 0 {
		cellSize = 8
	}
	return &Grid{
		cellSize: cellSize,
		cells:    make(map[cellKey]map[ecs.EntityID]struct{}),
		entries:  make(map[ecs.EntityID]*gridEntry),
		seen:     make(map[ecs.EntityID]struct{}),
	}
}

func (g *Grid) toCell(v float64) int32 {
	return int32(math.Floor(v / g.cellSize))
}

func (g *Grid) span(center cp.Vector, radius float64) (cellKey, cellKey) {
	return cellKey{g.toCell(center.X - radius), g.toCell(center.Y - radius)},
		cellKey{g.toCell(center.X + radius), g.toCell(center.Y + radius)}
}

func (g *Grid) Len() int { return len(g.entries) }

func (g *Grid) Upsert(e ecs.EntityID, shape Shape, pos cp.Vector, rotation float64) {
	min, max := g.span(pos, shape.BoundingRadius())
	entry, ok := g.entries[e]
	if ok && entry.min == min && entry.max == max {
		entry.shape, entry.pos, entry.rotation = shape, pos, rotation
		return
	}
	if ok {
		g.unlink(e, entry)
	} else {
		entry = &gridEntry{}
		g.entries[e] = entry
	}
	entry.shape, entry.pos, entry.rotation = shape, pos, rotation
	entry.min, entry.max = min, max
	for cx := min.cx; cx <= max.cx; cx++ {
		for cy := min.cy; cy <= max.cy; cy++ {
			k := cellKey{cx, cy}
			cell := g.cells[k]
			if cell == nil {
				cell = make(map[ecs.EntityID]struct{})
				g.cells[k] = cell
			}
			cell[e] = struct{}{}
		}
	}
}

func (g *Grid) Remove(e ecs.EntityID) {
	entry, ok := g.entries[e]
	if !ok {
		return
	}
	g.unlink(e, entry)
	delete(g.entries, e)
}

func (g *Grid) unlink(e ecs.EntityID, entry *gridEntry) {
	for cx := entry.min.cx; cx <= entry.max.cx; cx++ {
		for cy := entry.min.cy; cy <= entry.max.cy; cy++ {
			k := cellKey{cx, cy}
			if cell := g.cells[k]; cell != nil {
				delete(cell, e)
				if len(cell) == 0 {
					delete(g.cells, k)
				}
			}
		}
	}
}

// candidates visits each collider in the cells covering the circle once.
func (g *Grid) candidates(center cp.Vector, radius float64, fn func(ecs.EntityID, *gridEntry)) {
	clear(g.seen)
	min, max := g.span(center, radius)
	for cx := min.cx; cx <= max.cx; cx++ {
		for cy := min.cy; cy <= max.cy; cy++ {
			for id := range g.cells[cellKey{cx, cy}] {
				if _, dup := g.seen[id]; dup {
					continue
				}
				g.seen[id] = struct{}{}
				fn(id, g.entries[id])
			}
		}
	}
}

func (g *Grid) sortedIDs() []ecs.EntityID {
	sort.Slice(g.ids, func(i, j int) bool { return g.ids[i] < g.ids[j] })
	return g.ids
}

func (g *Grid) OverlapCircle(center cp.Vector, radius float64) []ecs.EntityID {
	g.ids = g.ids[:0]
	g.candidates(center, radius, func(id ecs.EntityID, e *gridEntry) {
		if circleOverlaps(e, center, radius) {
			g.ids = append(g.ids, id)
		}
	})
	return g.sortedIDs()
}

func (g *Grid) OverlapBox(center, size cp.Vector, rotation float64) []ecs.EntityID {
	g.ids = g.ids[:0]
	query := Box(size)
	g.candidates(center, query.BoundingRadius(), func(id ecs.EntityID, e *gridEntry) {
		var hit bool
		if e.shape.Box {
			hit = boxesOverlap(center, size, rotation, e.pos, e.shape.Size, e.rotation)
		} else {
			hit = circleBoxOverlap(e.pos, e.shape.Radius, center, size, rotation)
		}
		if hit {
			g.ids = append(g.ids, id)
		}
	})
	return g.sortedIDs()
}

func (g *Grid) Raycast(origin, dir cp.Vector, maxDist float64) []RayHit {
	g.hits = g.hits[:0]
	if maxDist <= 0 || dir.LengthSq() == 0 {
		return g.hits
	}
	dir = dir.Normalize()
	mid := origin.Add(dir.Mult(maxDist / 2))
	g.candidates(mid, maxDist/2, func(id ecs.EntityID, e *gridEntry) {
		var t float64
		var ok bool
		if e.shape.Box {
			t, ok = rayBox(origin, dir, e.pos, e.shape.Size, e.rotation)
		} else {
			t, ok = rayCircle(origin, dir, e.pos, e.shape.Radius)
		}
		if ok && t <= maxDist {
			g.hits = append(g.hits, RayHit{Entity: id, Point: origin.Add(dir.Mult(t)), Distance: t})
		}
	})
	sortHits(g.hits)
	return g.hits
}

func sortHits(hits []RayHit) {
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Distance != hits[j].Distance {
			return hits[i].Distance < hits[j].Distance
		}
		return hits[i].Entity < hits[j].Entity
	})
}

func circleOverlaps(e *gridEntry, center cp.Vector, radius float64) bool {
	if e.shape.Box {
		return circleBoxOverlap(center, radius, e.pos, e.shape.Size, e.rotation)
	}
	r := radius + e.shape.Radius
	return e.pos.DistanceSq(center) <= r*r
}

// toLocal expresses p in the frame of a box centered at center rotated by rotation.
func toLocal(p, center cp.Vector, rotation float64) cp.Vector {
	return p.Sub(center).Unrotate(cp.ForAngle(rotation))
}

func circleBoxOverlap(c cp.Vector, radius float64, center, size cp.Vector, rotation float64) bool {
	local := toLocal(c, center, rotation)
	half := size.Mult(0.5)
	closest := cp.Vector{X: cp.Clamp(local.X, -half.X, half.X), Y: cp.Clamp(local.Y, -half.Y, half.Y)}
	return local.DistanceSq(closest) <= radius*radius
}

// boxesOverlap is a separating axis test for two oriented boxes.
func boxesOverlap(ca, sa cp.Vector, ra float64, cb, sb cp.Vector, rb float64) bool {
	axes := [4]cp.Vector{cp.ForAngle(ra), cp.ForAngle(ra).Perp(), cp.ForAngle(rb), cp.ForAngle(rb).Perp()}
	d := cb.Sub(ca)
	ha, hb := sa.Mult(0.5), sb.Mult(0.5)
	ua, va := axes[0], axes[1]
	ub, vb := axes[2], axes[3]
	for _, axis := range axes {
		projA := ha.X*math.Abs(ua.Dot(axis)) + ha.Y*math.Abs(va.Dot(axis))
		projB := hb.X*math.Abs(ub.Dot(axis)) + hb.Y*math.Abs(vb.Dot(axis))
		if math.Abs(d.Dot(axis)) > projA+projB {
			return false
		}
	}
	return true
}

// rayCircle returns the entry distance along a unit ray; 0 when origin is inside.
func rayCircle(origin, dir, center cp.Vector, radius float64) (float64, bool) {
	m := origin.Sub(center)
	c := m.LengthSq() - radius*radius
	if c <= 0 {
		return 0, true
	}
	b := m.Dot(dir)
	if b > 0 {
		return 0, false
	}
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	return -b - math.Sqrt(disc), true
}

// rayBox is a slab test in the box's local frame.
func rayBox(origin, dir, center, size cp.Vector, rotation float64) (float64, bool) {
	rot := cp.ForAngle(rotation)
	o := origin.Sub(center).Unrotate(rot)
	d := dir.Unrotate(rot)
	half := size.Mult(0.5)

	tmin, tmax := 0.0, math.Inf(1)
	for _, axis := range [2][3]float64{{o.X, d.X, half.X}, {o.Y, d.Y, half.Y}} {
		ov, dv, h := axis[0], axis[1], axis[2]
		if math.Abs(dv) < 1e-12 {
			if ov < -h || ov > h {
				return 0, false
			}
			continue
		}
		t1, t2 := (-h-ov)/dv, (h-ov)/dv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}
	return tmin, true
}
