package scroll

import (
	"context"
	"time"
)

// DefaultFrameInterval is one frame at 60 fps.
const DefaultFrameInterval = 16 * time.Millisecond

// FrameFunc blocks until the next animation frame and reports the time
// elapsed since the previous one. It returns ctx.Err() when ctx ends first.
type FrameFunc func(ctx context.Context) (time.Duration, error)

// IntervalFrames paces frames on the wall clock.
func IntervalFrames(interval time.Duration) FrameFunc {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return func(ctx context.Context) (time.Duration, error) {
		start := time.Now()
		t := time.NewTimer(interval)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case now := <-t.C:
			return now.Sub(start), nil
		}
	}
}

// FixedFrames returns frames of the given length immediately. Useful when
// the result of an animation matters more than its pacing.
func FixedFrames(step time.Duration) FrameFunc {
	return func(ctx context.Context) (time.Duration, error) {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		return step, nil
	}
}

// ChannelFrames hands out one frame per value received on ch.
func ChannelFrames(ch <-chan time.Duration) FrameFunc {
	return func(ctx context.Context) (time.Duration, error) {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case d, ok := <-ch:
			if !ok {
				return 0, context.Canceled
			}
			return d, nil
		}
	}
}
