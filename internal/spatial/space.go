package spatial

import (
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/l1jgo/arena/internal/core/ecs"
)

// Space answers spatial queries through a Chipmunk2D space. Every collider
// is a kinematic body with one shape; the simulation never steps the space,
// it only moves bodies and reindexes them.
type Space struct {
	space     *cp.Space
	colliders map[ecs.EntityID]*spaceCollider

	ids  []ecs.EntityID
	hits []RayHit
}

type spaceCollider struct {
	body  *cp.Body
	shape *cp.Shape
	def   Shape
}

func NewSpace() *Space {
	return &Space{
		space:     cp.NewSpace(),
		colliders: make(map[ecs.EntityID]*spaceCollider),
	}
}

func (s *Space) Len() int { return len(s.colliders) }

func newShape(body *cp.Body, def Shape) *cp.Shape {
	if def.Box {
		return cp.NewBox(body, def.Size.X, def.Size.Y, 0)
	}
	return cp.NewCircle(body, def.Radius, cp.Vector{})
}

func (s *Space) Upsert(e ecs.EntityID, shape Shape, pos cp.Vector, rotation float64) {
	c, ok := s.colliders[e]
	if ok && c.def != shape {
		s.Remove(e)
		ok = false
	}
	if !ok {
		body := cp.NewKinematicBody()
		body.SetPosition(pos)
		body.SetAngle(rotation)
		cs := newShape(body, shape)
		cs.UserData = e
		s.space.AddBody(body)
		s.space.AddShape(cs)
		s.colliders[e] = &spaceCollider{body: body, shape: cs, def: shape}
		return
	}
	c.body.SetPosition(pos)
	c.body.SetAngle(rotation)
	s.space.ReindexShapesForBody(c.body)
}

func (s *Space) Remove(e ecs.EntityID) {
	c, ok := s.colliders[e]
	if !ok {
		return
	}
	s.space.RemoveShape(c.shape)
	s.space.RemoveBody(c.body)
	delete(s.colliders, e)
}

func shapeEntity(shape *cp.Shape) (ecs.EntityID, bool) {
	id, ok := shape.UserData.(ecs.EntityID)
	return id, ok
}

func (s *Space) sortedIDs() []ecs.EntityID {
	sort.Slice(s.ids, func(i, j int) bool { return s.ids[i] < s.ids[j] })
	return s.ids
}

func (s *Space) OverlapCircle(center cp.Vector, radius float64) []ecs.EntityID {
	s.ids = s.ids[:0]
	s.space.PointQuery(center, radius, cp.SHAPE_FILTER_ALL,
		func(shape *cp.Shape, _ cp.Vector, _ float64, _ cp.Vector, _ interface{}) {
			if id, ok := shapeEntity(shape); ok {
				s.ids = append(s.ids, id)
			}
		}, nil)
	return s.sortedIDs()
}

func (s *Space) OverlapBox(center, size cp.Vector, rotation float64) []ecs.EntityID {
	s.ids = s.ids[:0]
	body := cp.NewKinematicBody()
	body.SetPosition(center)
	body.SetAngle(rotation)
	box := cp.NewBox(body, size.X, size.Y, 0)
	s.space.ShapeQuery(box, func(shape *cp.Shape, _ *cp.ContactPointSet) {
		if id, ok := shapeEntity(shape); ok {
			s.ids = append(s.ids, id)
		}
	})
	return s.sortedIDs()
}

func (s *Space) Raycast(origin, dir cp.Vector, maxDist float64) []RayHit {
	s.hits = s.hits[:0]
	if maxDist <= 0 || dir.LengthSq() == 0 {
		return s.hits
	}
	end := origin.Add(dir.Normalize().Mult(maxDist))
	s.space.SegmentQuery(origin, end, 0, cp.SHAPE_FILTER_ALL,
		func(shape *cp.Shape, point, _ cp.Vector, alpha float64, _ interface{}) {
			if id, ok := shapeEntity(shape); ok {
				s.hits = append(s.hits, RayHit{Entity: id, Point: point, Distance: alpha * maxDist})
			}
		}, nil)
	sortHits(s.hits)
	return s.hits
}
