package component

import "github.com/jakecoffman/cp"

// Transform places an entity in the arena. Orientation is in radians,
// counter-clockwise from +X.
type Transform struct {
	Position    cp.Vector
	Orientation float64
	Scale       float64
}

// Heading returns the unit vector the entity faces.
func (t *Transform) Heading() cp.Vector {
	return cp.ForAngle(t.Orientation)
}

// Movement holds velocity and the limits motion integration enforces.
// RotationSpeed is in radians per second.
type Movement struct {
	Velocity      cp.Vector
	MaxSpeed      float64
	MaxAccel      float64
	RotationSpeed float64
	// ClampToBounds zeroes the velocity axis that would leave the arena.
	// Entities without it are destroyed once they leave.
	ClampToBounds bool
}

// Steering is the per-tick output of the steering engine: a linear
// acceleration and an angular velocity.
type Steering struct {
	Linear  cp.Vector
	Angular float64
}
