package scroll

import (
	"math"
	"time"
)

const (
	// DefaultFriction matches the exponential decay used by touch toolkits
	// for fling deceleration.
	DefaultFriction = -4.2
	// DefaultVelocityThreshold is the absolute velocity (units/s) below which
	// a decay is considered settled.
	DefaultVelocityThreshold = 0.1
)

// Decay describes exponential velocity decay:
//
//	v(t) = v0 * e^(friction*t)
//	x(t) = x0 + v0/friction * (e^(friction*t) - 1)
type Decay struct {
	Friction          float64
	VelocityThreshold float64
}

// NewDecay builds a Decay from a friction multiplier and settle threshold.
// Non-positive inputs fall back to the defaults.
func NewDecay(frictionMultiplier, velocityThreshold float64) Decay {
	if frictionMultiplier <= 0 {
		frictionMultiplier = 1
	}
	if velocityThreshold <= 0 {
		velocityThreshold = DefaultVelocityThreshold
	}
	return Decay{
		Friction:          DefaultFriction * math.Max(0.0001, frictionMultiplier),
		VelocityThreshold: velocityThreshold,
	}
}

func (d Decay) normalized() Decay {
	if d.Friction >= 0 {
		d.Friction = DefaultFriction
	}
	if d.VelocityThreshold <= 0 {
		d.VelocityThreshold = DefaultVelocityThreshold
	}
	return d
}

// Value returns the position reached t after starting at start with velocity v.
func (d Decay) Value(start, v float64, t time.Duration) float64 {
	d = d.normalized()
	return start + v/d.Friction*(math.Exp(d.Friction*t.Seconds())-1)
}

// Velocity returns the velocity t after starting with velocity v.
func (d Decay) Velocity(v float64, t time.Duration) float64 {
	d = d.normalized()
	return v * math.Exp(d.Friction*t.Seconds())
}

// Duration is how long v takes to fall below the velocity threshold.
func (d Decay) Duration(v float64) time.Duration {
	d = d.normalized()
	if math.Abs(v) <= d.VelocityThreshold {
		return 0
	}
	secs := math.Log(d.VelocityThreshold/math.Abs(v)) / d.Friction
	switch {
	case math.IsNaN(secs):
		return 0
	case secs >= float64(math.MaxInt64)/float64(time.Second):
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(secs * float64(time.Second))
}

// Target is the resting position of an unbounded decay.
func (d Decay) Target(start, v float64) float64 {
	d = d.normalized()
	return start - v/d.Friction
}
