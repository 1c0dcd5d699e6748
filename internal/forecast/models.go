package forecast

import (
	"time"
)

// Location identifies a place for which a forecast card is shown.
// Key is the unique card key; Label is only display text.
type Location struct {
	Key   string `json:"key" validate:"required"`
	Label string `json:"label,omitempty"`
}

// DisplayName returns the label, falling back to the key.
func (l Location) DisplayName() string {
	if l.Label != "" {
		return l.Label
	}
	return l.Key
}

// Record is the normalized forecast for one location at one point in time,
// regardless of which upstream produced it.
type Record struct {
	Location   Location   `json:"location"`
	CreatedAt  time.Time  `json:"createdAt"`
	Current    Current    `json:"current"`
	Atmosphere Atmosphere `json:"atmosphere"`
	Wind       Wind       `json:"wind"`

	// Daily holds at most DailySlots entries, today first.
	Daily []Day `json:"daily"`
}

// DailySlots is the number of forecast days shown on a card.
const DailySlots = 7

type Current struct {
	Text         string  `json:"text"`
	ObservedAt   string  `json:"observedAt"`
	TemperatureC float64 `json:"temperatureC"`
	IconCode     int     `json:"iconCode"`
	Sunrise      string  `json:"sunrise"`
	Sunset       string  `json:"sunset"`
}

type Atmosphere struct {
	HumidityPct float64 `json:"humidityPct"`
}

type Wind struct {
	Speed        float64 `json:"speed"`
	DirectionDeg float64 `json:"directionDeg"`
	// Direction is the upstream's own text for the bearing, if it sent one.
	Direction string `json:"direction,omitempty"`
}

type Day struct {
	IconCode int     `json:"iconCode"`
	HighC    float64 `json:"highC"`
	LowC     float64 `json:"lowC"`
}
