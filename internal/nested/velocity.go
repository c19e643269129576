package nested

import "time"

const (
	defaultVelocityWindow = 100 * time.Millisecond
	// A pointer resting this long before release is treated as stopped.
	pointerStoppedAfter = 40 * time.Millisecond
)

type pointerSample struct {
	at time.Time
	y  float64
}

// VelocityTracker estimates release velocity from recent pointer rows.
type VelocityTracker struct {
	Window  time.Duration
	samples []pointerSample
}

// Add records the pointer at row y.
func (v *VelocityTracker) Add(at time.Time, y float64) {
	v.samples = append(v.samples, pointerSample{at: at, y: y})
	window := v.Window
	if window <= 0 {
		window = defaultVelocityWindow
	}
	cut := 0
	for cut < len(v.samples)-1 && at.Sub(v.samples[cut].at) > window {
		cut++
	}
	v.samples = v.samples[cut:]
}

// Reset forgets every sample.
func (v *VelocityTracker) Reset() { v.samples = v.samples[:0] }

// VelocityAt returns rows per second at release time now; positive when
// the pointer moved down.
func (v *VelocityTracker) VelocityAt(now time.Time) float64 {
	if len(v.samples) < 2 {
		return 0
	}
	first, last := v.samples[0], v.samples[len(v.samples)-1]
	if now.Sub(last.at) > pointerStoppedAfter {
		return 0
	}
	dt := last.at.Sub(first.at).Seconds()
	if dt <= 0 {
		return 0
	}
	return (last.y - first.y) / dt
}
