package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/forecast-cards/internal/forecast"
)

// Refresher is the part of the application the scheduler drives.
type Refresher interface {
	RefreshAll(ctx context.Context) []*forecast.Task
}

// Scheduler periodically refreshes every card on the board.
type Scheduler struct {
	scheduler *gocron.Scheduler
	refresher Refresher
	interval  time.Duration
	timeout   time.Duration
}

// New creates a Scheduler. An interval of zero disables it.
func New(interval time.Duration, refresher Refresher) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		refresher: refresher,
		interval:  interval,
		timeout:   30 * time.Second,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		log.Println("scheduler: refresh interval not set; periodic refresh disabled")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).WaitForSchedule().Do(s.run)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) run() {
	log.Println("scheduler: refreshing all forecasts")

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	tasks := s.refresher.RefreshAll(ctx)
	forecast.WaitAll(tasks)

	failed := 0
	for _, t := range tasks {
		if _, err := t.Wait(); err != nil {
			failed++
		}
	}
	log.Printf("scheduler: refreshed %d forecasts (%d failed)", len(tasks), failed)
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
