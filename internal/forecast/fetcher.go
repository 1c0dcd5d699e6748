package forecast

import (
	"context"
	"sync"
)

// Fetcher abstracts a forecast upstream (query-string API, path-keyed API).
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, loc Location) (Record, error)
}

// Task is a single in-flight fetch whose result can be awaited or cancelled.
type Task struct {
	Location Location

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once

	record Record
	err    error
}

// Go starts fetching loc in the background. Overlapping tasks for the same
// location are independent of each other.
func Go(ctx context.Context, f Fetcher, loc Location) *Task {
	return Then(ctx, f, loc, nil)
}

// Then is Go with fn run on the result before the task completes, so a
// waiter always observes fn's effects.
func Then(ctx context.Context, f Fetcher, loc Location, fn func(Record, error)) *Task {
	ctx, cancel := context.WithCancel(ctx)
	t := &Task{
		Location: loc,
		cancel:   cancel,
		done:     make(chan struct{}),
	}

	go func() {
		defer cancel()
		rec, err := f.Fetch(ctx, loc)
		if fn != nil {
			fn(rec, err)
		}
		t.finish(rec, err)
	}()

	return t
}

func (t *Task) finish(rec Record, err error) {
	t.once.Do(func() {
		t.record = rec
		t.err = err
		close(t.done)
	})
}

// Done is closed once the result is available.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Cancel aborts the underlying request. The task still completes, with the
// context error as its result unless the fetch already finished.
func (t *Task) Cancel() {
	t.cancel()
}

// Wait blocks until the task completes.
func (t *Task) Wait() (Record, error) {
	<-t.done
	return t.record, t.err
}

// WaitAll blocks until every task has completed.
func WaitAll(tasks []*Task) {
	for _, t := range tasks {
		<-t.done
	}
}
