// Package steering holds the pure force computations behind ship and
// munition movement. Angles are radians, orientation 0 faces +X.
package steering

import (
	"math"

	"github.com/jakecoffman/cp"
)

// ClampMagnitude rescales v to length max when it is longer.
func ClampMagnitude(v cp.Vector, max float64) cp.Vector {
	if max <= 0 {
		return cp.Vector{}
	}
	if v.LengthSq() > max*max {
		return v.Normalize().Mult(max)
	}
	return v
}

// DeltaAngle returns the shortest signed rotation from `from` to `to`, in (-π, π].
func DeltaAngle(from, to float64) float64 {
	d := math.Mod(to-from, 2*math.Pi)
	if d > math.Pi {
		d -= 2 * math.Pi
	} else if d <= -math.Pi {
		d += 2 * math.Pi
	}
	return d
}

// MoveTowardsAngle advances current toward target by at most maxDelta along
// the shortest path.
func MoveTowardsAngle(current, target, maxDelta float64) float64 {
	d := DeltaAngle(current, target)
	if math.Abs(d) <= maxDelta {
		return current + d
	}
	return current + math.Copysign(maxDelta, d)
}

// Face returns the angular velocity that turns orientation toward heading
// without overshooting it within dt, bounded by ±rotationSpeed.
func Face(orientation, heading, rotationSpeed, dt float64) float64 {
	if dt <= 0 || rotationSpeed <= 0 {
		return 0
	}
	next := MoveTowardsAngle(orientation, heading, rotationSpeed*dt)
	return (next - orientation) / dt
}

// FaceDirection is Face toward the bearing of dir. A zero dir keeps the
// current orientation.
func FaceDirection(orientation float64, dir cp.Vector, rotationSpeed, dt float64) float64 {
	if dir.LengthSq() == 0 {
		return 0
	}
	return Face(orientation, dir.ToAngle(), rotationSpeed, dt)
}

// Arrive is seek with slowdown: full speed outside slowRadius, linearly
// reduced speed inside it. The result never exceeds maxAccel.
func Arrive(pos, vel, target cp.Vector, maxSpeed, maxAccel, slowRadius, timeToTarget float64) cp.Vector {
	offset := target.Sub(pos)
	dist := offset.Length()
	var desired cp.Vector
	if dist > 0 {
		speed := maxSpeed
		if dist < slowRadius {
			speed = maxSpeed * dist / slowRadius
		}
		desired = offset.Mult(speed / dist)
	}
	if timeToTarget <= 0 {
		timeToTarget = 1
	}
	return ClampMagnitude(desired.Sub(vel).Mult(1/timeToTarget), maxAccel)
}

// LeadPoint is the spot followDistance short of target on the line from self.
func LeadPoint(self, target cp.Vector, followDistance float64) cp.Vector {
	dir := target.Sub(self)
	if dir.LengthSq() == 0 {
		return target
	}
	return target.Sub(dir.Normalize().Mult(followDistance))
}

// OrbitPoint is the point holdDistance away from center at the current
// bearing of self rotated by deviation.
func OrbitPoint(center, self cp.Vector, holdDistance, deviation float64) cp.Vector {
	bearing := 0.0
	if off := self.Sub(center); off.LengthSq() > 0 {
		bearing = off.ToAngle()
	}
	return center.Add(cp.ForAngle(bearing + deviation).Mult(holdDistance))
}

// AimPoint predicts where a shot travelling at speed meets the target.
// A non-positive speed aims straight at the target.
func AimPoint(shooter, targetPos, targetVel cp.Vector, speed float64) cp.Vector {
	if speed <= 0 {
		return targetPos
	}
	t := shooter.Distance(targetPos) / speed
	return targetPos.Add(targetVel.Mult(t))
}
