package forecast

import (
	"context"
	"errors"
	"testing"
	"time"
)

type blockingFetcher struct {
	release chan struct{}
}

func (f *blockingFetcher) Name() string { return "blocking" }

func (f *blockingFetcher) Fetch(ctx context.Context, loc Location) (Record, error) {
	select {
	case <-ctx.Done():
		return Record{}, ctx.Err()
	case <-f.release:
		return Record{Location: loc, CreatedAt: time.Unix(100, 0)}, nil
	}
}

func TestTaskWait(t *testing.T) {
	f := &blockingFetcher{release: make(chan struct{})}
	task := Go(context.Background(), f, Location{Key: "Austin"})

	select {
	case <-task.Done():
		t.Fatal("task completed before the fetch was released")
	default:
	}

	close(f.release)
	rec, err := task.Wait()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Location.Key != "Austin" {
		t.Errorf("expected location Austin, got %q", rec.Location.Key)
	}
}

func TestTaskCancel(t *testing.T) {
	f := &blockingFetcher{release: make(chan struct{})}
	task := Go(context.Background(), f, Location{Key: "Austin"})

	task.Cancel()
	_, err := task.Wait()
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestThenRunsCallbackBeforeDone(t *testing.T) {
	f := &blockingFetcher{release: make(chan struct{})}
	close(f.release)

	var called bool
	task := Then(context.Background(), f, Location{Key: "Boston"}, func(rec Record, err error) {
		called = err == nil && rec.Location.Key == "Boston"
	})
	WaitAll([]*Task{task})

	if !called {
		t.Fatal("callback did not observe the fetched record")
	}
}

func TestDisplayName(t *testing.T) {
	if got := (Location{Key: "2459115", Label: "New York, NY"}).DisplayName(); got != "New York, NY" {
		t.Errorf("got %q", got)
	}
	if got := (Location{Key: "Austin"}).DisplayName(); got != "Austin" {
		t.Errorf("got %q", got)
	}
}
