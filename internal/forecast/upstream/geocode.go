package upstream

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/forecast-cards/internal/common"
	"github.com/i474232898/forecast-cards/internal/forecast"
)

// Resolver turns a free-text place name into coordinates.
type Resolver interface {
	Resolve(ctx context.Context, query string) (lat, lon float64, err error)
}

// GoogleResolver resolves place names with the Google geocoding API.
type GoogleResolver struct{}

var geocoderKeyOnce sync.Once

// NewGoogleResolver configures the geocoder package with apiKey. The key is
// package-global in the geocoder library, so only the first call takes effect.
func NewGoogleResolver(apiKey string) *GoogleResolver {
	geocoderKeyOnce.Do(func() {
		geocoder.ApiKey = apiKey
	})
	return &GoogleResolver{}
}

func (GoogleResolver) Resolve(ctx context.Context, query string) (float64, float64, error) {
	type result struct {
		loc geocoder.Location
		err error
	}

	ch := make(chan result, 1)
	go func() {
		loc, err := geocoder.Geocoding(geocoder.Address{City: query})
		ch <- result{loc: loc, err: err}
	}()

	select {
	case <-ctx.Done():
		return 0, 0, ctx.Err()
	case r := <-ch:
		if r.err != nil {
			if common.HasAny(strings.ToUpper(r.err.Error()), "ZERO_RESULTS", "NOT FOUND", "INVALID_REQUEST") {
				return 0, 0, fmt.Errorf("%w: %q", forecast.ErrLocationNotFound, query)
			}
			return 0, 0, fmt.Errorf("%w: geocode: %v", forecast.ErrFetchFailed, r.err)
		}
		if r.loc.Latitude == 0 && r.loc.Longitude == 0 {
			return 0, 0, fmt.Errorf("%w: %q", forecast.ErrLocationNotFound, query)
		}
		return r.loc.Latitude, r.loc.Longitude, nil
	}
}

var errNotCoordinates = errors.New("not a lat,long pair")

// parseCoordinates parses keys of the form "40.7720232,-73.9732319".
func parseCoordinates(key string) (float64, float64, error) {
	latStr, lonStr, ok := strings.Cut(key, ",")
	if !ok {
		return 0, 0, errNotCoordinates
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil || lat < -90 || lat > 90 {
		return 0, 0, errNotCoordinates
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil || lon < -180 || lon > 180 {
		return 0, 0, errNotCoordinates
	}
	return lat, lon, nil
}
