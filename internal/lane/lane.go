// Package lane provides exclusive background work lanes: each named lane
// admits one in-flight operation, and submitting new work to a lane cancels
// whatever was running there. Lanes are independent of each other.
package lane

import (
	"context"
	"sync"
)

// Runner tracks the current cancellable operation per lane.
type Runner struct {
	mu    sync.Mutex
	lanes map[string]context.CancelFunc
	done  bool
}

func NewRunner() *Runner {
	return &Runner{lanes: make(map[string]context.CancelFunc)}
}

// Replace cancels the lane's in-flight operation, if any, and returns a
// fresh context for the new one. The previous operation observes
// cancellation through its context; callers should check ctx.Err before
// publishing results. After Shutdown, the returned context is already
// cancelled.
func (r *Runner) Replace(name string) context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.lanes[name]; ok {
		prev()
	}
	if r.done {
		cancel()
		return ctx
	}
	r.lanes[name] = cancel
	return ctx
}

// Cancel cancels the lane's in-flight operation without starting a new one.
func (r *Runner) Cancel(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cancel, ok := r.lanes[name]; ok {
		cancel()
		delete(r.lanes, name)
	}
}

// Shutdown cancels every lane. Further Replace calls return already
// cancelled contexts.
func (r *Runner) Shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for name, cancel := range r.lanes {
		cancel()
		delete(r.lanes, name)
	}
	r.done = true
}
