package forecast

// IconCategory is the semantic weather class used to pick a card icon.
type IconCategory string

const (
	IconClearDay        IconCategory = "clear-day"
	IconRain            IconCategory = "rain"
	IconThunderstorms   IconCategory = "thunderstorms"
	IconSnow            IconCategory = "snow"
	IconFog             IconCategory = "fog"
	IconWindy           IconCategory = "windy"
	IconCloudy          IconCategory = "cloudy"
	IconPartlyCloudyDay IconCategory = "partly-cloudy-day"
)

// NoIconCode is used by upstreams that report a condition with no known code.
const NoIconCode = -1

// Classify maps an upstream weather code to its icon category.
// ok is false for codes outside the table; callers render no icon then.
func Classify(code int) (category IconCategory, ok bool) {
	switch code {
	case 25, // cold
		32,   // sunny
		33,   // fair (night)
		34,   // fair (day)
		36,   // hot
		3200: // not available
		return IconClearDay, true
	case 0, // tornado
		1,  // tropical storm
		2,  // hurricane
		6,  // mixed rain and sleet
		8,  // freezing drizzle
		9,  // drizzle
		10, // freezing rain
		11, // showers
		12, // showers
		17, // hail
		35, // mixed rain and hail
		40: // scattered showers
		return IconRain, true
	case 3, // severe thunderstorms
		4,  // thunderstorms
		37, // isolated thunderstorms
		38, // scattered thunderstorms
		39, // scattered thunderstorms
		45, // thundershowers
		47: // isolated thundershowers
		return IconThunderstorms, true
	case 5, // mixed rain and snow
		7,  // mixed snow and sleet
		13, // snow flurries
		14, // light snow showers
		16, // snow
		18, // sleet
		41, // heavy snow
		42, // scattered snow showers
		43, // heavy snow
		46: // snow showers
		return IconSnow, true
	case 15, // blowing snow
		19, // dust
		20, // foggy
		21, // haze
		22: // smoky
		return IconFog, true
	case 23, // blustery
		24: // windy
		return IconWindy, true
	case 26, // cloudy
		27, // mostly cloudy (night)
		28, // mostly cloudy (day)
		31: // clear (night)
		return IconCloudy, true
	case 29, // partly cloudy (night)
		30, // partly cloudy (day)
		44: // partly cloudy
		return IconPartlyCloudyDay, true
	default:
		return "", false
	}
}
