package store

import (
	"context"
	"errors"

	"github.com/i474232898/forecast-cards/internal/forecast"
)

var (
	// ErrNotFound is returned when no cached forecast exists for a location.
	ErrNotFound = errors.New("no cached forecast for location")
)

// LocationStore persists the ordered list of preferred locations.
type LocationStore interface {
	Load(ctx context.Context) ([]forecast.Location, error)
	Save(ctx context.Context, locs []forecast.Location) error
}

// ForecastCache keeps the last fetched record per location key.
type ForecastCache interface {
	Put(ctx context.Context, rec forecast.Record) error
	Get(ctx context.Context, key string) (forecast.Record, error)
}

// Dedupe keeps the first occurrence of every key, preserving order.
func Dedupe(locs []forecast.Location) []forecast.Location {
	seen := make(map[string]bool, len(locs))
	out := make([]forecast.Location, 0, len(locs))
	for _, l := range locs {
		if seen[l.Key] {
			continue
		}
		seen[l.Key] = true
		out = append(out, l)
	}
	return out
}
