package app

import (
	"time"

	"github.com/i474232898/forecast-cards/internal/forecast"
)

// InitialForecast is shown on first use, before any location was saved.
var InitialForecast = forecast.Record{
	Location: forecast.Location{
		Key:   "2459115",
		Label: "New York, NY",
	},
	CreatedAt: time.Date(2016, 7, 22, 1, 0, 0, 0, time.UTC),
	Current: forecast.Current{
		Text:         "Windy",
		ObservedAt:   "Thu, 21 Jul 2016 09:00 PM EDT",
		TemperatureC: 56,
		IconCode:     24,
		Sunrise:      "5:43 am",
		Sunset:       "8:21 pm",
	},
	Atmosphere: forecast.Atmosphere{HumidityPct: 56},
	Wind:       forecast.Wind{Speed: 25, DirectionDeg: 195},
	Daily: []forecast.Day{
		{IconCode: 44, HighC: 86, LowC: 70},
		{IconCode: 44, HighC: 94, LowC: 73},
		{IconCode: 4, HighC: 95, LowC: 78},
		{IconCode: 24, HighC: 75, LowC: 89},
		{IconCode: 24, HighC: 89, LowC: 77},
		{IconCode: 44, HighC: 92, LowC: 79},
		{IconCode: 44, HighC: 89, LowC: 77},
	},
}
