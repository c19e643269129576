package scroll

import (
	"context"
	"sync"
)

// Scheduler runs submitted tasks one at a time, in submission order, on a
// single goroutine bound to ctx. Submitting never blocks the caller.
type Scheduler struct {
	ctx    context.Context
	mu     sync.Mutex
	queue  []func()
	busy   bool
	wake   chan struct{}
	closed chan struct{}
}

// NewScheduler starts the worker. It stops when ctx is done; anything still
// queued at that point is dropped.
func NewScheduler(ctx context.Context) *Scheduler {
	s := &Scheduler{
		ctx:    ctx,
		wake:   make(chan struct{}, 1),
		closed: make(chan struct{}),
	}
	go s.run()
	return s
}

// Go queues task. Tasks submitted after the scheduler stopped are ignored.
func (s *Scheduler) Go(task func()) {
	if task == nil || s.ctx.Err() != nil {
		return
	}
	s.mu.Lock()
	s.queue = append(s.queue, task)
	s.mu.Unlock()
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Pending reports whether queued or running tasks remain.
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy || len(s.queue) > 0
}

// Flush waits until every task submitted before the call has run.
func (s *Scheduler) Flush(ctx context.Context) error {
	done := make(chan struct{})
	s.Go(func() { close(done) })
	select {
	case <-done:
		return nil
	case <-s.closed:
		return context.Canceled
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed once the worker has exited.
func (s *Scheduler) Done() <-chan struct{} { return s.closed }

func (s *Scheduler) run() {
	defer close(s.closed)
	for {
		select {
		case <-s.ctx.Done():
			s.mu.Lock()
			s.queue = nil
			s.mu.Unlock()
			return
		case <-s.wake:
		}
		for {
			s.mu.Lock()
			if len(s.queue) == 0 || s.ctx.Err() != nil {
				s.busy = false
				s.mu.Unlock()
				break
			}
			task := s.queue[0]
			s.queue[0] = nil
			s.queue = s.queue[1:]
			s.busy = true
			s.mu.Unlock()
			task()
		}
	}
}
