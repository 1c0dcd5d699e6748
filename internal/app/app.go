package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/i474232898/forecast-cards/internal/cards"
	"github.com/i474232898/forecast-cards/internal/forecast"
	"github.com/i474232898/forecast-cards/internal/store"
	"github.com/i474232898/forecast-cards/internal/view"
)

type trackedCard struct {
	handle   view.CardHandle
	location forecast.Location
}

var (
	// ErrEmptyLocation is returned when a location key is blank.
	ErrEmptyLocation = errors.New("location must not be empty")
)

// App wires the fetcher, reconciler, view and stores together. Every card
// outcome is scoped to one location; failures never affect other cards.
type App struct {
	fetcher    forecast.Fetcher
	reconciler *cards.Reconciler
	view       view.View
	locations  store.LocationStore
	cache      store.ForecastCache

	// mu serializes reconciliation and view mutation.
	mu sync.Mutex
	// key: location key
	tracking map[string]trackedCard
	// guards the preferred-locations read-modify-write
	prefMu sync.Mutex
}

// New builds an App. cache may be nil.
func New(fetcher forecast.Fetcher, reconciler *cards.Reconciler, v view.View, locations store.LocationStore, cache store.ForecastCache) *App {
	return &App{
		fetcher:    fetcher,
		reconciler: reconciler,
		view:       v,
		locations:  locations,
		cache:      cache,
		tracking:   make(map[string]trackedCard),
	}
}

// Startup restores saved locations, or shows the built-in forecast and
// saves it as the only preference when nothing has been saved yet.
func (a *App) Startup(ctx context.Context) ([]*forecast.Task, error) {
	locs, err := a.locations.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load preferred locations: %w", err)
	}

	if len(locs) == 0 {
		log.Printf("INFO: no saved locations; showing initial forecast for %s", InitialForecast.Location.DisplayName())
		a.Apply(InitialForecast)
		if err := a.locations.Save(ctx, []forecast.Location{InitialForecast.Location}); err != nil {
			return nil, fmt.Errorf("save preferred locations: %w", err)
		}
		return nil, nil
	}

	tasks := make([]*forecast.Task, 0, len(locs))
	for _, loc := range locs {
		a.applyCached(ctx, loc)
		tasks = append(tasks, a.Refresh(ctx, loc))
	}
	return tasks, nil
}

// Apply reconciles rec and carries out the resulting instructions.
func (a *App) Apply(rec forecast.Record) []cards.Instruction {
	a.mu.Lock()
	defer a.mu.Unlock()

	ins := a.reconciler.Apply(rec)
	for _, in := range ins {
		switch in.Kind {
		case cards.CreateCard:
			a.tracking[in.Location.Key] = trackedCard{
				handle:   a.view.CreateCard(in.Location),
				location: in.Location,
			}
		case cards.RenderFields:
			tc, ok := a.tracking[in.Location.Key]
			if !ok {
				tc = trackedCard{handle: a.view.CreateCard(in.Location), location: in.Location}
				a.tracking[in.Location.Key] = tc
			}
			a.view.RenderFields(tc.handle, *in.Fields)
		case cards.RevealContent:
			a.view.RevealContent()
		case cards.NoOp:
			log.Printf("DEBUG: discarded stale forecast for %s (created %s)", in.Location.Key, rec.CreatedAt)
		}
	}
	return ins
}

// AddLocation fetches a forecast for a new location and, on success, adds
// it to the preferred locations. A failed add leaves the board as it was.
func (a *App) AddLocation(ctx context.Context, loc forecast.Location) (forecast.Record, error) {
	loc.Key = strings.TrimSpace(loc.Key)
	if loc.Key == "" {
		return forecast.Record{}, ErrEmptyLocation
	}

	a.mu.Lock()
	_, known := a.tracking[loc.Key]
	a.mu.Unlock()

	a.applyCached(ctx, loc)

	rec, err := a.Refresh(ctx, loc).Wait()
	if err != nil {
		if !known {
			a.dropCard(loc.Key)
		}
		return forecast.Record{}, err
	}

	if err := a.addPreference(ctx, loc); err != nil {
		log.Printf("ERROR: failed to save preferred locations: %v", err)
	}
	return rec, nil
}

// Refresh starts an independent fetch for loc; the result is applied as
// soon as it arrives, or surfaced to the view on failure.
func (a *App) Refresh(ctx context.Context, loc forecast.Location) *forecast.Task {
	return forecast.Then(ctx, a.fetcher, loc, func(rec forecast.Record, err error) {
		if err != nil {
			log.Printf("ERROR: %s fetch failed for %s: %v", a.fetcher.Name(), loc.Key, err)
			a.view.Notify(loc, err)
			return
		}
		// Keep the caller's label; refreshes only carry the key.
		if rec.Location.Label == "" {
			rec.Location.Label = loc.Label
		}
		if discarded(a.Apply(rec)) {
			return
		}
		if a.cache != nil {
			if err := a.cache.Put(context.WithoutCancel(ctx), rec); err != nil {
				log.Printf("ERROR: failed to cache forecast for %s: %v", loc.Key, err)
			}
		}
	})
}

// RefreshAll starts one fetch per tracked card. It does not wait: cards
// update as each response arrives.
func (a *App) RefreshAll(ctx context.Context) []*forecast.Task {
	locs := a.tracked()
	tasks := make([]*forecast.Task, 0, len(locs))
	for _, loc := range locs {
		tasks = append(tasks, a.Refresh(ctx, loc))
	}
	return tasks
}

// RemoveLocation drops the card, its state and its preference entry.
func (a *App) RemoveLocation(ctx context.Context, key string) error {
	ok := a.dropCard(key)

	a.prefMu.Lock()
	defer a.prefMu.Unlock()

	locs, err := a.locations.Load(ctx)
	if err != nil {
		return err
	}
	kept := locs[:0]
	for _, l := range locs {
		if l.Key != key {
			kept = append(kept, l)
		}
	}
	if !ok && len(kept) == len(locs) {
		return view.ErrNotFound
	}
	return a.locations.Save(ctx, kept)
}

// Locations returns the saved preferred locations.
func (a *App) Locations(ctx context.Context) ([]forecast.Location, error) {
	return a.locations.Load(ctx)
}

// dropCard removes the card and its state; it reports whether one existed.
func (a *App) dropCard(key string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	tc, ok := a.tracking[key]
	if ok {
		a.view.RemoveCard(tc.handle)
		delete(a.tracking, key)
	}
	a.reconciler.Forget(key)
	return ok
}

func (a *App) applyCached(ctx context.Context, loc forecast.Location) {
	if a.cache == nil {
		return
	}
	rec, err := a.cache.Get(ctx, loc.Key)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Printf("ERROR: failed to read cached forecast for %s: %v", loc.Key, err)
		}
		return
	}
	if rec.Location.Label == "" {
		rec.Location.Label = loc.Label
	}
	a.Apply(rec)
}

func (a *App) addPreference(ctx context.Context, loc forecast.Location) error {
	a.prefMu.Lock()
	defer a.prefMu.Unlock()

	locs, err := a.locations.Load(ctx)
	if err != nil {
		return err
	}
	return a.locations.Save(ctx, store.Dedupe(append(locs, loc)))
}

func (a *App) tracked() []forecast.Location {
	a.mu.Lock()
	defer a.mu.Unlock()

	locs := make([]forecast.Location, 0, len(a.tracking))
	for _, tc := range a.tracking {
		locs = append(locs, tc.location)
	}
	return locs
}

func discarded(ins []cards.Instruction) bool {
	for _, in := range ins {
		if in.Kind == cards.NoOp {
			return true
		}
	}
	return false
}
