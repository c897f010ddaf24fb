// Package spatial provides the broad-phase queries the simulation consumes:
// circle and box overlap and ray casts, each resolved back to entity handles.
//
// Result slices are scratch buffers owned by the provider. They are
// overwritten by the next query and must not be retained by callers.
package spatial

import (
	"github.com/jakecoffman/cp"
	"github.com/l1jgo/arena/internal/core/ecs"
)

// Shape describes a collider. Box shapes use Size (full extents); all
// others are circles of Radius.
type Shape struct {
	Radius float64
	Size   cp.Vector
	Box    bool
}

// Circle returns a circular shape.
func Circle(radius float64) Shape { return Shape{Radius: radius} }

// Box returns an oriented box shape with full extents size.
func Box(size cp.Vector) Shape { return Shape{Size: size, Box: true} }

// BoundingRadius is the radius of the smallest circle enclosing the shape.
func (s Shape) BoundingRadius() float64 {
	if s.Box {
		return s.Size.Mult(0.5).Length()
	}
	return s.Radius
}

// RayHit is one ray cast intersection.
type RayHit struct {
	Entity   ecs.EntityID
	Point    cp.Vector
	Distance float64
}

// Provider is the broad-phase collider index.
type Provider interface {
	// Upsert registers or moves the collider of e.
	Upsert(e ecs.EntityID, shape Shape, pos cp.Vector, rotation float64)
	// Remove drops the collider of e. Unknown entities are ignored.
	Remove(e ecs.EntityID)
	// OverlapCircle returns every collider overlapping the circle.
	OverlapCircle(center cp.Vector, radius float64) []ecs.EntityID
	// OverlapBox returns every collider overlapping the oriented box.
	OverlapBox(center, size cp.Vector, rotation float64) []ecs.EntityID
	// Raycast returns the colliders hit by the ray, nearest first.
	Raycast(origin, dir cp.Vector, maxDist float64) []RayHit
	// Len returns the number of registered colliders.
	Len() int
}
