package cards

import (
	"sync"
	"time"

	"github.com/i474232898/forecast-cards/internal/forecast"
)

// State is the per-location bookkeeping kept between renders.
type State struct {
	LastUpdated time.Time
	hasRender   bool
}

// Reconciler decides how a forecast record changes the card board.
// It is safe for concurrent use.
type Reconciler struct {
	mu sync.Mutex

	// key: location key
	states map[string]*State
	loaded bool

	fahrenheit bool
	now        func() time.Time
}

type Option func(*Reconciler)

// WithFahrenheit adds the Fahrenheit temperature to rendered fields.
func WithFahrenheit(on bool) Option {
	return func(r *Reconciler) { r.fahrenheit = on }
}

// WithClock overrides the clock used for weekday labels.
func WithClock(now func() time.Time) Option {
	return func(r *Reconciler) { r.now = now }
}

func NewReconciler(opts ...Option) *Reconciler {
	r := &Reconciler{
		states: make(map[string]*State),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Apply reconciles rec against the stored card state. Records strictly
// older than the last render yield a single NoOp; equal timestamps re-render.
func (r *Reconciler) Apply(rec forecast.Record) []Instruction {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Instruction

	key := rec.Location.Key
	st, ok := r.states[key]
	if !ok {
		st = &State{}
		r.states[key] = st
		out = append(out, Instruction{Kind: CreateCard, Location: rec.Location})
	}

	if st.hasRender && rec.CreatedAt.Before(st.LastUpdated) {
		return append(out, Instruction{Kind: NoOp, Location: rec.Location})
	}

	st.LastUpdated = rec.CreatedAt
	st.hasRender = true

	out = append(out, Instruction{
		Kind:     RenderFields,
		Location: rec.Location,
		Fields:   render(rec, r.now().Weekday(), r.fahrenheit),
	})

	if !r.loaded {
		r.loaded = true
		out = append(out, Instruction{Kind: RevealContent, Location: rec.Location})
	}

	return out
}

// Lookup returns a copy of the state for key.
func (r *Reconciler) Lookup(key string) (State, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.states[key]
	if !ok {
		return State{}, false
	}
	return *st, true
}

// Forget drops the state for key so a later record creates a fresh card.
func (r *Reconciler) Forget(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.states, key)
}

// Loaded reports whether content has been revealed.
func (r *Reconciler) Loaded() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loaded
}
