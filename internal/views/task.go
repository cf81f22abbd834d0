package views

import "context"

// Task runs one load in the background.
//
// Its result is delivered only while the context that started it is still active,
// so a view that has been left never receives state from a late response.
type Task[T any] struct {
	ctx    context.Context
	done   chan struct{}
	result T
}

// Start runs load in a new goroutine
func Start[T any](ctx context.Context, load func(ctx context.Context) T) *Task[T] {
	t := &Task[T]{
		ctx:  ctx,
		done: make(chan struct{}),
	}
	go func() {
		defer close(t.done)
		t.result = load(ctx)
	}()
	return t
}

// Wait blocks until the load finishes or the context ends.
//
// The second value is false when the context ended first, or ended while the load
// was finishing; the result must then be discarded.
func (t *Task[T]) Wait() (T, bool) {
	var zero T
	select {
	case <-t.done:
		if t.ctx.Err() != nil {
			return zero, false
		}
		return t.result, true
	case <-t.ctx.Done():
		return zero, false
	}
}

// Run starts load and waits for it
func Run[T any](ctx context.Context, load func(ctx context.Context) T) (T, bool) {
	return Start(ctx, load).Wait()
}
