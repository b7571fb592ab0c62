// Package fetch models asynchronous catalog loads as an explicit
// three-state result: loading, failed, or ready. Views switch over the
// state exhaustively instead of juggling implicit flags.
package fetch

import (
	"context"
	"sync"
	"time"
)

// State enumerates the phases of an asynchronous fetch.
type State int

const (
	// StateLoading means no fetch has completed yet.
	StateLoading State = iota
	// StateFailed means the fetch completed with an error and no data is
	// available.
	StateFailed
	// StateReady means data is available.
	StateReady
)

// Result is the outcome of an asynchronous fetch at a point in time.
type Result[T any] struct {
	state State
	data  T
	err   error
}

// Loading returns a result in the loading state.
func Loading[T any]() Result[T] {
	return Result[T]{state: StateLoading}
}

// Failed returns a result carrying the fetch error.
func Failed[T any](err error) Result[T] {
	return Result[T]{state: StateFailed, err: err}
}

// Ready returns a result carrying the fetched data.
func Ready[T any](data T) Result[T] {
	return Result[T]{state: StateReady, data: data}
}

// State returns the phase of this result.
func (r Result[T]) State() State { return r.state }

// Data returns the fetched data. Only meaningful in StateReady.
func (r Result[T]) Data() T { return r.data }

// Err returns the fetch error. Only meaningful in StateFailed.
func (r Result[T]) Err() error { return r.err }

// Task runs a fetch function in the background and publishes its latest
// result. Consumers read the current result and never cancel an in-flight
// fetch; when the task's context ends, the eventual result is simply
// discarded.
type Task[T any] struct {
	fn func(context.Context) (T, error)

	mu  sync.RWMutex
	res Result[T]
}

// NewTask creates a task in the loading state. Nothing runs until Run is
// called.
func NewTask[T any](fn func(context.Context) (T, error)) *Task[T] {
	return &Task[T]{fn: fn, res: Loading[T]()}
}

// Result returns the latest published result.
func (t *Task[T]) Result() Result[T] {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.res
}

// Run fetches once immediately and then again every interval until ctx is
// done. An interval of zero disables refresh after the initial fetch.
//
// A failed refresh never replaces data that was already loaded: once ready,
// the task keeps serving the last good snapshot and only the initial load
// can surface a failure state.
func (t *Task[T]) Run(ctx context.Context, interval time.Duration) {
	t.fetch(ctx)
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.fetch(ctx)
		}
	}
}

func (t *Task[T]) fetch(ctx context.Context) {
	data, err := t.fn(ctx)
	if ctx.Err() != nil {
		// Shutdown raced the fetch; drop the result.
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if err != nil {
		if t.res.State() != StateReady {
			t.res = Failed[T](err)
		}
		return
	}
	t.res = Ready(data)
}
