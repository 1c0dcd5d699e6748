package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/i474232898/forecast-cards/internal/forecast"
)

const yqlAustinPayload = `{
  "query": {
    "count": 1,
    "created": "2016-07-22T01:00:00Z",
    "results": {
      "channel": {
        "astronomy": {"sunrise": "6:41 am", "sunset": "8:33 pm"},
        "atmosphere": {"humidity": "56"},
        "wind": {"speed": "25.4", "direction": "195"},
        "item": {
          "condition": {"text": "Windy", "date": "Thu, 21 Jul 2016 09:00 PM CDT", "temp": "31.6", "code": "24"},
          "forecast": [
            {"code": "44", "high": "36", "low": "25"},
            {"code": "44", "high": "37", "low": "26"},
            {"code": "4", "high": "35", "low": "24"},
            {"code": "24", "high": "34", "low": "24"},
            {"code": "24", "high": "34", "low": "23"},
            {"code": "44", "high": "35", "low": "24"},
            {"code": "44", "high": "36", "low": "25"},
            {"code": "32", "high": "38", "low": "27"},
            {"code": "32", "high": "38", "low": "27"},
            {"code": "32", "high": "38", "low": "27"}
          ]
        }
      }
    }
  }
}`

func newYQLServer(t *testing.T, status int, body string, gotQuery *string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if gotQuery != nil {
			*gotQuery = r.URL.Query().Get("q")
		}
		if r.URL.Query().Get("format") != "json" {
			t.Errorf("expected format=json, got %s", r.URL.Query().Get("format"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestYQLFetchNormalizes(t *testing.T) {
	var q string
	srv := newYQLServer(t, http.StatusOK, yqlAustinPayload, &q)
	f := NewYQLFetcher(srv.Client(), srv.URL, DefaultBackoff())

	rec, err := f.Fetch(context.Background(), forecast.Location{Key: "Austin"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantQ := "select * from weather.forecast where woeid in (select woeid from geo.places(1) where text='Austin') and u='c'"
	if q != wantQ {
		t.Errorf("query = %q, want %q", q, wantQ)
	}
	if rec.Location.Key != "Austin" {
		t.Errorf("location = %q, want Austin", rec.Location.Key)
	}
	if want := time.Date(2016, 7, 22, 1, 0, 0, 0, time.UTC); !rec.CreatedAt.Equal(want) {
		t.Errorf("createdAt = %v, want %v", rec.CreatedAt, want)
	}
	if rec.Current.Text != "Windy" || rec.Current.IconCode != 24 || rec.Current.TemperatureC != 31.6 {
		t.Errorf("unexpected current: %+v", rec.Current)
	}
	if rec.Current.Sunrise != "6:41 am" || rec.Current.Sunset != "8:33 pm" {
		t.Errorf("unexpected astronomy: %+v", rec.Current)
	}
	if rec.Atmosphere.HumidityPct != 56 {
		t.Errorf("humidity = %v, want 56", rec.Atmosphere.HumidityPct)
	}
	if rec.Wind.Speed != 25.4 || rec.Wind.DirectionDeg != 195 || rec.Wind.Direction != "195" {
		t.Errorf("unexpected wind: %+v", rec.Wind)
	}
	if len(rec.Daily) != forecast.DailySlots {
		t.Fatalf("daily len = %d, want %d", len(rec.Daily), forecast.DailySlots)
	}
	if rec.Daily[2].IconCode != 4 || rec.Daily[2].HighC != 35 || rec.Daily[2].LowC != 24 {
		t.Errorf("unexpected day 2: %+v", rec.Daily[2])
	}
}

func TestYQLFetchStampsReceiveTimeWithoutCreated(t *testing.T) {
	body := `{"query": {"results": {"channel": {"item": {"condition": {"temp": 20, "code": 32}}}}}}`
	srv := newYQLServer(t, http.StatusOK, body, nil)
	f := NewYQLFetcher(srv.Client(), srv.URL, DefaultBackoff())
	received := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	f.now = func() time.Time { return received }

	rec, err := f.Fetch(context.Background(), forecast.Location{Key: "Austin"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rec.CreatedAt.Equal(received) {
		t.Errorf("createdAt = %v, want %v", rec.CreatedAt, received)
	}
	if rec.Current.TemperatureC != 20 {
		t.Errorf("plain numbers should decode too, got %v", rec.Current.TemperatureC)
	}
}

func TestYQLFetchKeepsWindDirectionText(t *testing.T) {
	body := strings.Replace(yqlAustinPayload, `"direction": "195"`, `"direction": "195.0"`, 1)
	srv := newYQLServer(t, http.StatusOK, body, nil)
	f := NewYQLFetcher(srv.Client(), srv.URL, DefaultBackoff())

	rec, err := f.Fetch(context.Background(), forecast.Location{Key: "Austin"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Wind.Direction != "195.0" || rec.Wind.DirectionDeg != 195 {
		t.Errorf("unexpected wind: %+v", rec.Wind)
	}
}

func TestYQLFetchErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "null results", status: http.StatusOK, body: `{"query": {"count": 0, "created": "2016-07-22T01:00:00Z", "results": null}}`, wantErr: forecast.ErrLocationNotFound},
		{name: "server error", status: http.StatusInternalServerError, body: `oops`, wantErr: forecast.ErrFetchFailed},
		{name: "bad request", status: http.StatusBadRequest, body: `{}`, wantErr: forecast.ErrFetchFailed},
		{name: "malformed body", status: http.StatusOK, body: `{"query": `, wantErr: forecast.ErrFetchFailed},
		{name: "missing query", status: http.StatusOK, body: `{"error": "nope"}`, wantErr: forecast.ErrFetchFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newYQLServer(t, tt.status, tt.body, nil)
			f := NewYQLFetcher(srv.Client(), srv.URL, DefaultBackoff())

			_, err := f.Fetch(context.Background(), forecast.Location{Key: "Atlantis"})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestStatement(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"2459115", "select * from weather.forecast where woeid=2459115 and u='c'"},
		{"Austin, TX", "select * from weather.forecast where woeid in (select woeid from geo.places(1) where text='Austin, TX') and u='c'"},
		{"Coeur d'Alene", `select * from weather.forecast where woeid in (select woeid from geo.places(1) where text='Coeur d\'Alene') and u='c'`},
	}
	for _, tt := range tests {
		if got := Statement(tt.key); got != tt.want {
			t.Errorf("Statement(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestYQLRequestURLIsDeterministic(t *testing.T) {
	f := NewYQLFetcher(http.DefaultClient, "", DefaultBackoff())
	a, b := f.RequestURL("Austin"), f.RequestURL("Austin")
	if a != b {
		t.Fatalf("urls differ: %q vs %q", a, b)
	}
	u, err := url.Parse(a)
	if err != nil {
		t.Fatalf("bad url: %v", err)
	}
	if u.Host != "query.yahooapis.com" || u.Query().Get("q") != Statement("Austin") {
		t.Errorf("unexpected url %q", a)
	}
}
