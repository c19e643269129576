package scroll

import (
	"fmt"
	"math"
)

// State is the complete persistable state of a Coordinator.
type State struct {
	Offset        float64
	CollapseRange float64
}

// Values serializes s as [offset, collapseRange].
func (s State) Values() [2]float64 {
	return [2]float64{s.Offset, s.CollapseRange}
}

// StateFromValues is the inverse of State.Values.
func StateFromValues(vals []float64) (State, error) {
	if len(vals) != 2 {
		return State{}, fmt.Errorf("scroll state: want 2 values, got %d", len(vals))
	}
	for i, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return State{}, fmt.Errorf("scroll state: value %d is not finite", i)
		}
	}
	return State{Offset: vals[0], CollapseRange: vals[1]}.normalized(), nil
}

// normalized makes the range non-negative and pulls the offset into it.
func (s State) normalized() State {
	s.CollapseRange = math.Abs(s.CollapseRange)
	s.Offset = clamp(s.Offset, -s.CollapseRange, 0)
	return s
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
