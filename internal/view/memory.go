package view

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/i474232898/forecast-cards/internal/cards"
	"github.com/i474232898/forecast-cards/internal/forecast"
)

var (
	// ErrNotFound is returned when no card exists for a location.
	ErrNotFound = errors.New("no card for location")
)

// maxNotifications bounds the notification history.
const maxNotifications = 100

// CardHandle identifies a card inside the view.
type CardHandle string

// View is what the application drives with reconciler instructions.
type View interface {
	CreateCard(loc forecast.Location) CardHandle
	RenderFields(h CardHandle, f cards.Fields)
	RevealContent()
	RemoveCard(h CardHandle)
	Notify(loc forecast.Location, err error)
}

// Card is one rendered forecast card.
type Card struct {
	Handle   CardHandle        `json:"handle"`
	Location forecast.Location `json:"location"`
	Rendered bool              `json:"rendered"`
	Fields   cards.Fields      `json:"fields"`
}

// Notification is a user-visible failure message.
type Notification struct {
	ID       string            `json:"id"`
	Location forecast.Location `json:"location"`
	Message  string            `json:"message"`
	At       time.Time         `json:"at"`
}

// Board is a point-in-time copy of the view.
type Board struct {
	Loaded bool   `json:"loaded"`
	Cards  []Card `json:"cards"`
}

// MemoryView is a concurrency-safe in-memory card board.
type MemoryView struct {
	mu sync.RWMutex

	// key: handle, value: card
	cards map[CardHandle]*Card
	// insertion order of handles
	order []CardHandle
	// key: location key
	byKey map[string]CardHandle

	loaded        bool
	notifications []Notification
}

func NewMemoryView() *MemoryView {
	return &MemoryView{
		cards:         make(map[CardHandle]*Card),
		byKey:         make(map[string]CardHandle),
		notifications: make([]Notification, 0, 16),
	}
}

// CreateCard returns the existing handle when a card for the location is
// already on the board.
func (v *MemoryView) CreateCard(loc forecast.Location) CardHandle {
	v.mu.Lock()
	defer v.mu.Unlock()

	if h, ok := v.byKey[loc.Key]; ok {
		return h
	}

	h := CardHandle(uuid.NewString())
	v.cards[h] = &Card{
		Handle:   h,
		Location: loc,
		Fields:   cards.Fields{Label: loc.DisplayName()},
	}
	v.order = append(v.order, h)
	v.byKey[loc.Key] = h
	return h
}

func (v *MemoryView) RenderFields(h CardHandle, f cards.Fields) {
	v.mu.Lock()
	defer v.mu.Unlock()

	c, ok := v.cards[h]
	if !ok {
		return
	}
	c.Fields = f
	c.Rendered = true
}

func (v *MemoryView) RevealContent() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.loaded = true
}

func (v *MemoryView) RemoveCard(h CardHandle) {
	v.mu.Lock()
	defer v.mu.Unlock()

	c, ok := v.cards[h]
	if !ok {
		return
	}
	delete(v.cards, h)
	delete(v.byKey, c.Location.Key)
	for i, oh := range v.order {
		if oh == h {
			v.order = append(v.order[:i], v.order[i+1:]...)
			break
		}
	}
}

func (v *MemoryView) Notify(loc forecast.Location, err error) {
	if err == nil {
		return
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	v.notifications = append(v.notifications, Notification{
		ID:       ulid.Make().String(),
		Location: loc,
		Message:  err.Error(),
		At:       time.Now().UTC(),
	})
	if len(v.notifications) > maxNotifications {
		v.notifications = v.notifications[len(v.notifications)-maxNotifications:]
	}
}

// Snapshot returns a copy of the board with cards in creation order.
func (v *MemoryView) Snapshot() Board {
	v.mu.RLock()
	defer v.mu.RUnlock()

	b := Board{
		Loaded: v.loaded,
		Cards:  make([]Card, 0, len(v.order)),
	}
	for _, h := range v.order {
		b.Cards = append(b.Cards, *v.cards[h])
	}
	return b
}

// Card returns the card for a location key.
func (v *MemoryView) Card(key string) (Card, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	h, ok := v.byKey[key]
	if !ok {
		return Card{}, ErrNotFound
	}
	return *v.cards[h], nil
}

// Notifications returns the most recent notifications, newest first.
func (v *MemoryView) Notifications() []Notification {
	v.mu.RLock()
	defer v.mu.RUnlock()

	out := make([]Notification, 0, len(v.notifications))
	for i := len(v.notifications) - 1; i >= 0; i-- {
		out = append(out, v.notifications[i])
	}
	return out
}
