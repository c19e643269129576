package nested

import "context"

// Source tells the connection what produced a scroll delta.
type Source int

const (
	// SourceDrag is direct user movement: pointer drags, wheel notches, keys.
	SourceDrag Source = iota
	// SourceFling is inertial movement produced after a release.
	SourceFling
)

func (s Source) String() string {
	switch s {
	case SourceDrag:
		return "drag"
	case SourceFling:
		return "fling"
	default:
		return "unknown"
	}
}

// Coordinator is the collapse state the layout positions itself from.
// *scroll.Coordinator implements it.
type Coordinator interface {
	Offset() float64
	Drag(delta float64) float64
	Fling(ctx context.Context, velocity float64) float64
	UpdateBounds(collapseRange float64)
	Animating() bool
	Pending() bool
}

// Scrollable is nested content that consumes vertical deltas on its own.
// ScrollBy returns the part of delta it used; positive deltas move the
// content toward its top.
type Scrollable interface {
	ScrollBy(delta float64) float64
}

// Connection offers gesture deltas to the coordinator before and after the
// nested content has seen them. Every method returns what the coordinator
// consumed.
type Connection struct {
	Coordinator Coordinator
}

// PreScroll lets the header collapse before the content scrolls down.
func (c Connection) PreScroll(available float64, src Source) float64 {
	if available < 0 && src == SourceDrag {
		return c.Coordinator.Drag(available)
	}
	return 0
}

// PostScroll lets the header expand once the content reached its top.
func (c Connection) PostScroll(consumed, available float64, src Source) float64 {
	if available > 0 && src == SourceDrag {
		return c.Coordinator.Drag(available)
	}
	return 0
}

// PreFling offers a release velocity to the coordinator first. Blocks
// until the coordinator's decay settles.
func (c Connection) PreFling(ctx context.Context, available float64) float64 {
	return c.Coordinator.Fling(ctx, available)
}

// PostFling offers what the content's own fling left over. Blocks like
// PreFling.
func (c Connection) PostFling(ctx context.Context, consumed, available float64) float64 {
	return c.Coordinator.Fling(ctx, available)
}

// Dispatch runs one delta through the pre-scroll, content, post-scroll
// chain and returns the total consumed.
func (c Connection) Dispatch(delta float64, src Source, target Scrollable) float64 {
	if delta == 0 {
		return 0
	}
	pre := c.PreScroll(delta, src)
	left := delta - pre
	var used float64
	if target != nil && left != 0 {
		used = target.ScrollBy(left)
	}
	left -= used
	var post float64
	if left != 0 {
		post = c.PostScroll(pre+used, left, src)
	}
	return pre + used + post
}
