package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/i474232898/forecast-cards/internal/forecast"
)

type countingRefresher struct {
	calls int32
}

func (c *countingRefresher) RefreshAll(_ context.Context) []*forecast.Task {
	atomic.AddInt32(&c.calls, 1)
	return nil
}

func TestDisabledSchedulerDoesNothing(t *testing.T) {
	r := &countingRefresher{}
	s := New(0, r)
	if err := s.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.Stop()

	time.Sleep(20 * time.Millisecond)
	if n := atomic.LoadInt32(&r.calls); n != 0 {
		t.Fatalf("expected no refreshes, got %d", n)
	}
}

func TestRunRefreshesAll(t *testing.T) {
	r := &countingRefresher{}
	s := New(time.Minute, r)
	s.run()
	if n := atomic.LoadInt32(&r.calls); n != 1 {
		t.Fatalf("expected one refresh, got %d", n)
	}
}
