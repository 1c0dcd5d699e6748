package store

import (
	"context"
	"sync"

	"github.com/i474232898/forecast-cards/internal/forecast"
)

// MemoryStore is a concurrency-safe in-memory LocationStore and ForecastCache.
type MemoryStore struct {
	mu sync.RWMutex

	locations []forecast.Location
	// key: location key
	records map[string]forecast.Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]forecast.Record),
	}
}

func (s *MemoryStore) Load(_ context.Context) ([]forecast.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]forecast.Location, len(s.locations))
	copy(out, s.locations)
	return out, nil
}

func (s *MemoryStore) Save(_ context.Context, locs []forecast.Location) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.locations = Dedupe(locs)
	return nil
}

func (s *MemoryStore) Put(_ context.Context, rec forecast.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[rec.Location.Key] = rec
	return nil
}

func (s *MemoryStore) Get(_ context.Context, key string) (forecast.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[key]
	if !ok {
		return forecast.Record{}, ErrNotFound
	}
	return rec, nil
}
