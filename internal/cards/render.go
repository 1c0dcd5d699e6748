package cards

import (
	"math"
	"strconv"
	"time"

	"github.com/i474232898/forecast-cards/internal/forecast"
)

// DayNames is indexed from the local weekday offset (0 = Sunday), so the
// label table starts at Monday while the offset starts at Sunday.
var DayNames = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// DayLabel returns the label for forecast slot i given today's weekday.
func DayLabel(i int, today time.Weekday) string {
	return DayNames[(i+int(today))%7]
}

// Round rounds half away from zero to the nearest whole unit, so -2.5 is -3.
func Round(v float64) int {
	return int(math.Round(v))
}

// Fahrenheit converts Celsius and rounds.
func Fahrenheit(c float64) int {
	return Round(c*1.8 + 32)
}

// windDirection prefers the upstream's text and formats the bearing otherwise.
func windDirection(w forecast.Wind) string {
	if w.Direction != "" {
		return w.Direction
	}
	return strconv.FormatFloat(w.DirectionDeg, 'f', -1, 64)
}

func render(rec forecast.Record, today time.Weekday, withFahrenheit bool) *Fields {
	icon, _ := forecast.Classify(rec.Current.IconCode)

	f := &Fields{
		Label:         rec.Location.DisplayName(),
		LastUpdated:   rec.CreatedAt,
		Description:   rec.Current.Text,
		Date:          rec.Current.ObservedAt,
		Icon:          icon,
		Temperature:   Round(rec.Current.TemperatureC),
		Sunrise:       rec.Current.Sunrise,
		Sunset:        rec.Current.Sunset,
		Humidity:      Round(rec.Atmosphere.HumidityPct),
		WindSpeed:     Round(rec.Wind.Speed),
		WindDirection: windDirection(rec.Wind),
		Days:          make([]DayFields, 0, forecast.DailySlots),
	}

	if withFahrenheit {
		tf := Fahrenheit(rec.Current.TemperatureC)
		f.TemperatureF = &tf
	}

	for i, d := range rec.Daily {
		if i >= forecast.DailySlots {
			break
		}
		dayIcon, _ := forecast.Classify(d.IconCode)
		f.Days = append(f.Days, DayFields{
			Label: DayLabel(i, today),
			Icon:  dayIcon,
			High:  Round(d.HighC),
			Low:   Round(d.LowC),
		})
	}

	return f
}
