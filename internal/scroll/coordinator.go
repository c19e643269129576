package scroll

import (
	"context"
	"io"
	"log"
	"math"
	"sync"
	"time"
)

// Coordinator owns the collapse offset shared by a header and the content
// nested below it. The offset lives in [-CollapseRange, 0]: 0 shows the
// whole header, -CollapseRange hides it.
//
// Drag commits are queued on a serial scheduler and become visible
// asynchronously. Fling blocks its caller until the decay settles or is
// interrupted. All methods are safe for concurrent use.
type Coordinator struct {
	mu            sync.Mutex
	offset        float64
	collapseRange float64
	gestureSign   float64
	anim          *animation

	ctx    context.Context
	cancel context.CancelFunc
	sched  *Scheduler
	decay  Decay
	frames FrameFunc
	log    *log.Logger
}

type animation struct {
	cancel context.CancelFunc
}

// Option configures a Coordinator.
type Option func(*Coordinator) error

// WithState seeds the coordinator from a restored snapshot.
func WithState(s State) Option {
	return func(c *Coordinator) error {
		s = s.normalized()
		c.offset = s.Offset
		c.collapseRange = s.CollapseRange
		return nil
	}
}

// WithDecay sets the fling deceleration.
func WithDecay(d Decay) Option {
	return func(c *Coordinator) error {
		c.decay = d.normalized()
		return nil
	}
}

// WithFrames sets the frame source that paces decay animations.
func WithFrames(f FrameFunc) Option {
	return func(c *Coordinator) error {
		if f != nil {
			c.frames = f
		}
		return nil
	}
}

// WithLogger enables gesture tracing.
func WithLogger(l *log.Logger) Option {
	return func(c *Coordinator) error {
		if l != nil {
			c.log = l
		}
		return nil
	}
}

// New creates a coordinator whose queued work and animations live no
// longer than ctx.
func New(ctx context.Context, opts ...Option) (*Coordinator, error) {
	ctx, cancel := context.WithCancel(ctx)
	c := &Coordinator{
		ctx:    ctx,
		cancel: cancel,
		decay:  NewDecay(1, DefaultVelocityThreshold),
		frames: IntervalFrames(DefaultFrameInterval),
		log:    log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			cancel()
			return nil, err
		}
	}
	c.sched = NewScheduler(ctx)
	return c, nil
}

// Close cancels queued commits and any running animation.
func (c *Coordinator) Close() {
	c.mu.Lock()
	c.stopAnimationLocked()
	c.mu.Unlock()
	c.cancel()
}

// Offset is the current translation of the header.
func (c *Coordinator) Offset() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.offset
}

// CollapseRange is how far the header can travel before it is hidden.
func (c *Coordinator) CollapseRange() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.collapseRange
}

// MaxOffset is the magnitude of the lower offset bound.
func (c *Coordinator) MaxOffset() float64 { return c.CollapseRange() }

// Animating reports whether a decay is in flight.
func (c *Coordinator) Animating() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.anim != nil
}

// Pending reports whether drag commits are still queued.
func (c *Coordinator) Pending() bool { return c.sched.Pending() }

// Sync waits until every drag commit issued so far has been applied.
func (c *Coordinator) Sync(ctx context.Context) error { return c.sched.Flush(ctx) }

// Snapshot captures the persistable state.
func (c *Coordinator) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{Offset: c.offset, CollapseRange: c.collapseRange}
}

// Drag offers one incremental vertical movement. Negative deltas collapse
// the header, positive ones expand it. The whole delta is claimed when the
// header can still move that way, otherwise nothing is claimed and the
// movement belongs to the nested content.
func (c *Coordinator) Drag(delta float64) float64 {
	delta = finite(delta)
	c.mu.Lock()
	consume := delta < 0 && c.offset > -c.collapseRange || delta > 0 && c.offset < 0
	if !consume {
		c.mu.Unlock()
		return 0
	}
	c.gestureSign = delta
	c.stopAnimationLocked()
	c.mu.Unlock()

	c.sched.Go(func() { c.commitDrag(delta) })
	return delta
}

// commitDrag applies a consumed drag. A fling that started between Drag
// returning and this commit running is stopped here, so the drag wins.
func (c *Coordinator) commitDrag(delta float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopAnimationLocked()
	c.offset = clamp(c.offset+delta, -c.collapseRange, 0)
}

// Fling hands over the release velocity of a gesture. It blocks until the
// resulting decay settles, is interrupted, or ctx ends.
//
// The return value is reported to the nested-scroll protocol as the
// velocity the header claimed: the full velocity when flinging down with
// the header already expanded or when the decay comes to rest fully
// expanded, the velocity left at the bound when the decay hits one, and 0
// when the header is already collapsed or the decay was interrupted.
func (c *Coordinator) Fling(ctx context.Context, velocity float64) float64 {
	velocity = finite(velocity)
	if err := c.sched.Flush(ctx); err != nil {
		return 0
	}

	c.mu.Lock()
	if velocity == 0 || velocity > 0 && c.offset == 0 {
		c.mu.Unlock()
		return velocity
	}
	// With no drag recorded the sign is positive and the decay expands.
	v := math.Copysign(velocity, c.gestureSign)
	c.gestureSign = 0
	if !(c.offset > -c.collapseRange && c.offset <= 0) {
		c.mu.Unlock()
		return 0
	}
	c.stopAnimationLocked()
	animCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(c.ctx, cancel)
	anim := &animation{cancel: cancel}
	c.anim = anim
	start := c.offset
	c.mu.Unlock()

	defer stop()
	defer cancel()

	c.log.Printf("scroll: fling v=%.2f from offset=%.2f range=%.2f", v, start, c.CollapseRange())
	end, ok := c.runDecay(animCtx, anim, start, v)
	if !ok {
		c.log.Printf("scroll: fling interrupted at offset=%.2f", c.Offset())
		return 0
	}
	if c.Offset() == 0 {
		return velocity
	}
	return end
}

// runDecay drives the offset along the decay curve, one frame at a time.
// It returns the velocity at the last frame and false if interrupted.
func (c *Coordinator) runDecay(ctx context.Context, anim *animation, start, v float64) (float64, bool) {
	defer func() {
		c.mu.Lock()
		if c.anim == anim {
			c.anim = nil
		}
		c.mu.Unlock()
	}()

	total := c.decay.Duration(v)
	var played time.Duration
	for {
		dt, err := c.frames(ctx)
		if err != nil {
			return 0, false
		}
		played += dt
		if played > total {
			played = total
		}
		value := c.decay.Value(start, v, played)
		vel := c.decay.Velocity(v, played)

		c.mu.Lock()
		if c.anim != anim {
			c.mu.Unlock()
			return 0, false
		}
		clamped := clamp(value, -c.collapseRange, 0)
		c.offset = clamped
		c.mu.Unlock()

		if clamped != value || played >= total {
			return vel, true
		}
	}
}

// UpdateBounds sets the collapse range from the measured header height and
// pulls the offset into the new bounds. A running decay keeps its velocity
// and is clamped again on its next frame.
func (c *Coordinator) UpdateBounds(collapseRange float64) {
	collapseRange = math.Abs(collapseRange)
	c.mu.Lock()
	defer c.mu.Unlock()
	if collapseRange != c.collapseRange {
		c.log.Printf("scroll: bounds %.2f -> %.2f", c.collapseRange, collapseRange)
	}
	c.collapseRange = collapseRange
	c.offset = clamp(c.offset, -collapseRange, 0)
}

func (c *Coordinator) stopAnimationLocked() {
	if c.anim == nil {
		return
	}
	c.anim.cancel()
	c.anim = nil
}

// finite maps NaN to 0 and caps infinities, so gesture input can never
// push a non-finite value into the offset.
func finite(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case math.IsInf(v, 0):
		return math.Copysign(math.MaxFloat64, v)
	}
	return v
}
