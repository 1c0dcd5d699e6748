package cards

import (
	"time"

	"github.com/i474232898/forecast-cards/internal/forecast"
)

// Kind tells the view layer what to do with an Instruction.
type Kind int

const (
	// CreateCard asks the view for a new card for the location.
	CreateCard Kind = iota + 1
	// RenderFields carries the values to write into the card.
	RenderFields
	// RevealContent hides the loading indicator and shows the cards. Emitted once.
	RevealContent
	// NoOp means the record was older than what the card shows and was discarded.
	NoOp
)

func (k Kind) String() string {
	switch k {
	case CreateCard:
		return "create-card"
	case RenderFields:
		return "render-fields"
	case RevealContent:
		return "reveal-content"
	case NoOp:
		return "no-op"
	default:
		return "unknown"
	}
}

type Instruction struct {
	Kind     Kind
	Location forecast.Location

	// Fields is set for RenderFields only.
	Fields *Fields
}

// Fields is the rendered projection of a forecast record.
type Fields struct {
	Label       string                `json:"label"`
	LastUpdated time.Time             `json:"lastUpdated"`
	Description string                `json:"description"`
	Date        string                `json:"date"`
	Icon        forecast.IconCategory `json:"icon,omitempty"`

	Temperature  int  `json:"temperature"`
	TemperatureF *int `json:"temperatureF,omitempty"`

	Sunrise       string `json:"sunrise"`
	Sunset        string `json:"sunset"`
	Humidity      int    `json:"humidity"`
	WindSpeed     int    `json:"windSpeed"`
	WindDirection string `json:"windDirection"`

	Days []DayFields `json:"days"`
}

type DayFields struct {
	Label string                `json:"label"`
	Icon  forecast.IconCategory `json:"icon,omitempty"`
	High  int                   `json:"high"`
	Low   int                   `json:"low"`
}
