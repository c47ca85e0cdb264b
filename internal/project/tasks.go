package project

import (
	"context"
	"sync"
)

// Runner serializes long-running work per artifact key with
// supersession: starting a task cancels any in-flight task holding
// the same key, so a stale quantize or STL export never overwrites a
// newer request's result.
type Runner struct {
	mu     sync.Mutex
	active map[string]*taskHandle
}

type taskHandle struct {
	cancel context.CancelFunc
}

// NewRunner creates an empty task runner.
func NewRunner() *Runner {
	return &Runner{active: make(map[string]*taskHandle)}
}

// Do runs fn under a context that is cancelled when a later Do call
// arrives for the same key. fn must check ctx between stages and
// return ctx.Err() when superseded; Do returns whatever fn returns.
func (r *Runner) Do(key string, fn func(context.Context) error) error {
	ctx, cancel := context.WithCancel(context.Background())
	h := &taskHandle{cancel: cancel}

	r.mu.Lock()
	if prev, ok := r.active[key]; ok {
		prev.cancel()
	}
	r.active[key] = h
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		if r.active[key] == h {
			delete(r.active, key)
		}
		r.mu.Unlock()
		cancel()
	}()

	return fn(ctx)
}

// Cancel aborts the in-flight task for key, if any.
func (r *Runner) Cancel(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h, ok := r.active[key]; ok {
		h.cancel()
		delete(r.active, key)
	}
}

// CancelAll aborts every in-flight task. Used on shutdown.
func (r *Runner) CancelAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, h := range r.active {
		h.cancel()
		delete(r.active, k)
	}
}
