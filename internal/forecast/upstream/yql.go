package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker"

	"github.com/i474232898/forecast-cards/internal/common"
	"github.com/i474232898/forecast-cards/internal/forecast"
)

// DefaultYQLBaseURL is the public YQL endpoint.
const DefaultYQLBaseURL = "https://query.yahooapis.com/v1/public/yql"

// YQLFetcher queries the weather.forecast table through a YQL statement
// embedded in the query string. Temperatures are requested in Celsius.
type YQLFetcher struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
	now     func() time.Time
}

func NewYQLFetcher(client *http.Client, baseURL string, backoff BackoffConfig) *YQLFetcher {
	if baseURL == "" {
		baseURL = DefaultYQLBaseURL
	}
	return &YQLFetcher{
		name:    "yql",
		baseURL: baseURL,
		httpCfg: HTTPClientConfig{
			Client:  client,
			Backoff: backoff,
		},
		circuit: newCircuitBreaker("yql"),
		now:     time.Now,
	}
}

func (p *YQLFetcher) Name() string {
	return p.name
}

// Statement builds the YQL statement for a location key. All-digit keys are
// treated as WOEIDs, anything else as free text resolved by geo.places.
func Statement(key string) string {
	if common.DigitsOnly(key) {
		return "select * from weather.forecast where woeid=" + key + " and u='c'"
	}
	text := strings.ReplaceAll(key, "'", `\'`)
	return "select * from weather.forecast where woeid in " +
		"(select woeid from geo.places(1) where text='" + text + "') and u='c'"
}

// RequestURL returns the deterministic request URL for key.
func (p *YQLFetcher) RequestURL(key string) string {
	values := url.Values{}
	values.Set("format", "json")
	values.Set("q", Statement(key))
	return fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
}

type yqlResponse struct {
	Query *struct {
		Created string      `json:"created"`
		Results *yqlResults `json:"results"`
	} `json:"query"`
}

type yqlResults struct {
	Channel struct {
		Astronomy struct {
			Sunrise string `json:"sunrise"`
			Sunset  string `json:"sunset"`
		} `json:"astronomy"`
		Atmosphere struct {
			Humidity number `json:"humidity"`
		} `json:"atmosphere"`
		Wind struct {
			Speed     number `json:"speed"`
			Direction numberText `json:"direction"`
		} `json:"wind"`
		Item struct {
			Condition struct {
				Text string `json:"text"`
				Date string `json:"date"`
				Temp number `json:"temp"`
				Code number `json:"code"`
			} `json:"condition"`
			Forecast []struct {
				Code number `json:"code"`
				High number `json:"high"`
				Low  number `json:"low"`
			} `json:"forecast"`
		} `json:"item"`
	} `json:"channel"`
}

func (p *YQLFetcher) Fetch(ctx context.Context, loc forecast.Location) (forecast.Record, error) {
	buildRequest := func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, p.RequestURL(loc.Key), nil)
	}

	resp, err := doRequest(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return forecast.Record{}, fmt.Errorf("%w: %s: %v", forecast.ErrFetchFailed, p.name, err)
	}
	defer resp.Body.Close()
	received := p.now().UTC()

	var payload yqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return forecast.Record{}, fmt.Errorf("%w: %s: decode: %v", forecast.ErrFetchFailed, p.name, err)
	}
	if payload.Query == nil {
		return forecast.Record{}, fmt.Errorf("%w: %s: payload has no query", forecast.ErrFetchFailed, p.name)
	}
	if payload.Query.Results == nil {
		return forecast.Record{}, fmt.Errorf("%w: %q", forecast.ErrLocationNotFound, loc.Key)
	}

	createdAt := received
	if ts, err := time.Parse(time.RFC3339, payload.Query.Created); err == nil {
		createdAt = ts.UTC()
	}

	return normalizeYQL(loc, createdAt, payload.Query.Results), nil
}

func normalizeYQL(loc forecast.Location, createdAt time.Time, r *yqlResults) forecast.Record {
	ch := r.Channel
	rec := forecast.Record{
		Location:  loc,
		CreatedAt: createdAt,
		Current: forecast.Current{
			Text:         ch.Item.Condition.Text,
			ObservedAt:   ch.Item.Condition.Date,
			TemperatureC: float64(ch.Item.Condition.Temp),
			IconCode:     int(ch.Item.Condition.Code),
			Sunrise:      ch.Astronomy.Sunrise,
			Sunset:       ch.Astronomy.Sunset,
		},
		Atmosphere: forecast.Atmosphere{
			HumidityPct: float64(ch.Atmosphere.Humidity),
		},
		Wind: forecast.Wind{
			Speed:        float64(ch.Wind.Speed),
			DirectionDeg: float64(ch.Wind.Direction.Value),
			Direction:    ch.Wind.Direction.Text,
		},
	}

	for i, d := range ch.Item.Forecast {
		if i >= forecast.DailySlots {
			break
		}
		rec.Daily = append(rec.Daily, forecast.Day{
			IconCode: int(d.Code),
			HighC:    float64(d.High),
			LowC:     float64(d.Low),
		})
	}
	return rec
}
