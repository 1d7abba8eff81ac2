// Package lazy provides load-once values for page modules and drawer
// components that are expensive to build.
//
// Concurrent callers of Get share a single in-flight load. A successful
// result is cached for the lifetime of the Value; a failed load is
// reported to every waiter and retried on the next Get.
package lazy

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// State is the observable loading state of a Value.
type State uint8

const (
	Idle State = iota
	Loading
	Ready
	Failed
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Loader produces the value. It receives a context that is detached from
// the cancellation of whichever caller happened to trigger the load.
type Loader[T any] func(ctx context.Context) (T, error)

// Value is a lazily loaded T.
type Value[T any] struct {
	load  Loader[T]
	group singleflight.Group

	mu    sync.RWMutex
	state State
	value T
	err   error
}

// New returns a Value that calls load on first use.
func New[T any](load Loader[T]) *Value[T] {
	return &Value[T]{load: load}
}

// Of returns a Value that is already loaded.
func Of[T any](v T) *Value[T] {
	return &Value[T]{state: Ready, value: v}
}

// Get returns the loaded value, loading it if necessary. If ctx ends
// before the load finishes Get returns ctx.Err(); the load itself keeps
// running and its result is cached for later callers.
func (v *Value[T]) Get(ctx context.Context) (T, error) {
	if val, ok := v.Peek(); ok {
		return val, nil
	}

	ch := v.start(ctx)
	select {
	case res := <-ch:
		if res.Err != nil {
			var zero T
			return zero, res.Err
		}
		return res.Val.(T), nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Prefetch starts loading in the background without waiting.
func (v *Value[T]) Prefetch(ctx context.Context) {
	if v.State() == Ready {
		return
	}
	v.start(ctx)
}

func (v *Value[T]) start(ctx context.Context) <-chan singleflight.Result {
	detached := context.WithoutCancel(ctx)
	return v.group.DoChan("load", func() (any, error) {
		v.mu.Lock()
		if v.state == Ready {
			val := v.value
			v.mu.Unlock()
			return val, nil
		}
		v.state = Loading
		v.mu.Unlock()

		val, err := v.load(detached)

		v.mu.Lock()
		defer v.mu.Unlock()
		if err != nil {
			v.state = Failed
			v.err = err
			return nil, err
		}
		v.state = Ready
		v.value = val
		v.err = nil
		return val, nil
	})
}

// Peek returns the value without triggering a load.
func (v *Value[T]) Peek() (T, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.value, v.state == Ready
}

// State returns the current loading state.
func (v *Value[T]) State() State {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.state
}

// Err returns the error of the last failed load, if any.
func (v *Value[T]) Err() error {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.err
}
