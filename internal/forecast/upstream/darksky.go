package upstream

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker"

	"github.com/i474232898/forecast-cards/internal/forecast"
)

// DefaultDarkSkyBaseURL is the Dark Sky forecast endpoint.
const DefaultDarkSkyBaseURL = "https://api.darksky.net/forecast"

// DarkSkyFetcher requests forecasts from a path-keyed API:
// {base}/{apiKey}/{lat},{long}. Units are SI so temperatures are Celsius.
type DarkSkyFetcher struct {
	name     string
	apiKey   string
	baseURL  string
	httpCfg  HTTPClientConfig
	circuit  *gobreaker.CircuitBreaker
	resolver Resolver
	now      func() time.Time
}

// NewDarkSkyFetcher builds the fetcher. resolver may be nil, in which case
// only "lat,long" keys can be fetched.
func NewDarkSkyFetcher(client *http.Client, baseURL, apiKey string, resolver Resolver, backoff BackoffConfig) *DarkSkyFetcher {
	if baseURL == "" {
		baseURL = DefaultDarkSkyBaseURL
	}
	return &DarkSkyFetcher{
		name:    "darksky",
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpCfg: HTTPClientConfig{
			Client:  client,
			Backoff: backoff,
		},
		circuit:  newCircuitBreaker("darksky"),
		resolver: resolver,
		now:      time.Now,
	}
}

func (p *DarkSkyFetcher) Name() string {
	return p.name
}

// RequestURL returns the deterministic request URL for a coordinate pair.
func (p *DarkSkyFetcher) RequestURL(lat, lon float64) string {
	values := url.Values{}
	values.Set("units", "si")
	values.Set("exclude", "minutely,hourly,alerts,flags")

	coords := strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lon, 'f', -1, 64)
	return fmt.Sprintf("%s/%s/%s?%s", p.baseURL, url.PathEscape(p.apiKey), coords, values.Encode())
}

type darkSkyResponse struct {
	Timezone  string `json:"timezone"`
	Currently *struct {
		Time        int64   `json:"time"`
		Summary     string  `json:"summary"`
		Icon        string  `json:"icon"`
		Temperature float64 `json:"temperature"`
		Humidity    float64 `json:"humidity"`
		WindSpeed   float64 `json:"windSpeed"`
		WindBearing float64 `json:"windBearing"`
	} `json:"currently"`
	Daily struct {
		Data []struct {
			Time           int64   `json:"time"`
			Icon           string  `json:"icon"`
			SunriseTime    int64   `json:"sunriseTime"`
			SunsetTime     int64   `json:"sunsetTime"`
			TemperatureMax float64 `json:"temperatureMax"`
			TemperatureMin float64 `json:"temperatureMin"`
		} `json:"data"`
	} `json:"daily"`
}

func (p *DarkSkyFetcher) Fetch(ctx context.Context, loc forecast.Location) (forecast.Record, error) {
	if p.apiKey == "" {
		return forecast.Record{}, fmt.Errorf("%w: darksky api key is not configured", forecast.ErrFetchFailed)
	}

	lat, lon, err := p.coordinates(ctx, loc.Key)
	if err != nil {
		return forecast.Record{}, err
	}

	buildRequest := func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, p.RequestURL(lat, lon), nil)
	}

	resp, err := doRequest(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return forecast.Record{}, fmt.Errorf("%w: %s: %v", forecast.ErrFetchFailed, p.name, err)
	}
	defer resp.Body.Close()
	received := p.now().UTC()

	var payload darkSkyResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return forecast.Record{}, fmt.Errorf("%w: %s: decode: %v", forecast.ErrFetchFailed, p.name, err)
	}
	if payload.Currently == nil || len(payload.Daily.Data) == 0 {
		return forecast.Record{}, fmt.Errorf("%w: %q", forecast.ErrLocationNotFound, loc.Key)
	}

	return normalizeDarkSky(loc, received, &payload), nil
}

func (p *DarkSkyFetcher) coordinates(ctx context.Context, key string) (float64, float64, error) {
	lat, lon, err := parseCoordinates(key)
	if err == nil {
		return lat, lon, nil
	}
	if !errors.Is(err, errNotCoordinates) || p.resolver == nil {
		return 0, 0, fmt.Errorf("%w: %q", forecast.ErrLocationNotFound, key)
	}
	return p.resolver.Resolve(ctx, key)
}

func normalizeDarkSky(loc forecast.Location, createdAt time.Time, r *darkSkyResponse) forecast.Record {
	tz, err := time.LoadLocation(r.Timezone)
	if err != nil || r.Timezone == "" {
		tz = time.UTC
	}

	cur := r.Currently
	today := r.Daily.Data[0]

	rec := forecast.Record{
		Location:  loc,
		CreatedAt: createdAt,
		Current: forecast.Current{
			Text:         cur.Summary,
			ObservedAt:   time.Unix(cur.Time, 0).In(tz).Format("Mon, 02 Jan 2006 03:04 PM MST"),
			TemperatureC: cur.Temperature,
			IconCode:     darkSkyIconCode(cur.Icon),
			Sunrise:      formatClock(today.SunriseTime, tz),
			Sunset:       formatClock(today.SunsetTime, tz),
		},
		Atmosphere: forecast.Atmosphere{
			HumidityPct: cur.Humidity * 100,
		},
		Wind: forecast.Wind{
			Speed:        cur.WindSpeed,
			DirectionDeg: cur.WindBearing,
		},
	}

	for i, d := range r.Daily.Data {
		if i >= forecast.DailySlots {
			break
		}
		rec.Daily = append(rec.Daily, forecast.Day{
			IconCode: darkSkyIconCode(d.Icon),
			HighC:    d.TemperatureMax,
			LowC:     d.TemperatureMin,
		})
	}
	return rec
}

func formatClock(unix int64, tz *time.Location) string {
	if unix == 0 {
		return ""
	}
	return strings.ToLower(time.Unix(unix, 0).In(tz).Format("3:04 PM"))
}

// darkSkyIconCode maps Dark Sky icon names onto the numeric codes the
// classifier understands.
func darkSkyIconCode(icon string) int {
	switch icon {
	case "clear-day":
		return 32
	case "clear-night":
		return 33
	case "rain":
		return 11
	case "snow":
		return 16
	case "sleet":
		return 18
	case "hail":
		return 17
	case "wind":
		return 24
	case "fog":
		return 20
	case "cloudy":
		return 26
	case "partly-cloudy-day":
		return 30
	case "partly-cloudy-night":
		return 29
	case "thunderstorm":
		return 4
	case "tornado":
		return 0
	default:
		return forecast.NoIconCode
	}
}
