package assistant

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Scheduler plays the actions of one response at a time. Scheduling a new
// batch cancels whatever is still pending from the previous one.
type Scheduler struct {
	mu      sync.Mutex
	current *Handle
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Handle controls one scheduled batch.
type Handle struct {
	mu     *sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// Cancel stops the batch. After it returns no further action of the batch
// fires. It must not be called from inside the fire callback.
func (h *Handle) Cancel() {
	h.mu.Lock()
	h.cancel()
	h.mu.Unlock()
}

func (h *Handle) Done() <-chan struct{} {
	return h.done
}

func (h *Handle) Wait() {
	<-h.done
}

// Schedule fires each action after its delay, in delay order, and returns at
// once. fire runs on the scheduler goroutine while the scheduler lock is held,
// so it must not call back into the scheduler.
func (s *Scheduler) Schedule(ctx context.Context, actions []Action, fire func(Action)) *Handle {
	ordered := make([]Action, len(actions))
	copy(ordered, actions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Delay < ordered[j].Delay
	})

	runCtx, cancel := context.WithCancel(ctx)
	h := &Handle{mu: &s.mu, cancel: cancel, done: make(chan struct{})}

	s.mu.Lock()
	if s.current != nil {
		s.current.cancel()
	}
	s.current = h
	s.mu.Unlock()

	go s.run(runCtx, h, ordered, fire)
	return h
}

func (s *Scheduler) run(ctx context.Context, h *Handle, actions []Action, fire func(Action)) {
	defer close(h.done)
	defer h.cancel()

	start := time.Now()
	for _, a := range actions {
		if wait := a.Delay - time.Since(start); wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		}

		s.mu.Lock()
		if ctx.Err() != nil {
			s.mu.Unlock()
			return
		}
		fire(a)
		s.mu.Unlock()
	}
}

// CancelPending drops the current batch, if any.
func (s *Scheduler) CancelPending() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		s.current.cancel()
		s.current = nil
	}
}
