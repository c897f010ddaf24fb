package world

import (
	"math"
	"math/rand"

	"github.com/jakecoffman/cp"
)

// Bounds is the arena rectangle.
type Bounds struct {
	Center cp.Vector
	Size   cp.Vector
}

func (b Bounds) Min() cp.Vector { return b.Center.Sub(b.Size.Mult(0.5)) }
func (b Bounds) Max() cp.Vector { return b.Center.Add(b.Size.Mult(0.5)) }

func (b Bounds) Contains(p cp.Vector) bool {
	lo, hi := b.Min(), b.Max()
	return p.X >= lo.X && p.X <= hi.X && p.Y >= lo.Y && p.Y <= hi.Y
}

// Clamp moves p onto the nearest point inside the arena.
func (b Bounds) Clamp(p cp.Vector) cp.Vector {
	lo, hi := b.Min(), b.Max()
	return cp.Vector{X: cp.Clamp(p.X, lo.X, hi.X), Y: cp.Clamp(p.Y, lo.Y, hi.Y)}
}

// RandomPoint draws a uniform point inside the arena.
func (b Bounds) RandomPoint(r *rand.Rand) cp.Vector {
	lo := b.Min()
	return cp.Vector{X: lo.X + r.Float64()*b.Size.X, Y: lo.Y + r.Float64()*b.Size.Y}
}

// RandomPointInDisk draws a uniform point within radius of the arena
// center, clamped into the arena.
func (b Bounds) RandomPointInDisk(r *rand.Rand, radius float64) cp.Vector {
	angle := r.Float64() * 2 * math.Pi
	dist := radius * math.Sqrt(r.Float64())
	return b.Clamp(b.Center.Add(cp.ForAngle(angle).Mult(dist)))
}
