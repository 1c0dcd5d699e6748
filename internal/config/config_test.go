package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("UPSTREAM", "")
	t.Setenv("PORT", "")
	t.Setenv("HTTP_TIMEOUT", "")
	t.Setenv("REFRESH_INTERVAL", "")
	t.Setenv("FETCH_MAX_RETRIES", "")
	t.Setenv("SHOW_FAHRENHEIT", "")
	t.Setenv("DB_PATH", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Upstream != UpstreamYQL {
		t.Errorf("upstream = %q, want yql", cfg.Upstream)
	}
	if cfg.HTTPTimeout != 0 || cfg.FetchMaxRetries != 0 || cfg.RefreshInterval != 0 {
		t.Errorf("expected no timeout, retries or refresh by default: %+v", cfg)
	}
	if cfg.Port != "8080" || cfg.DBPath != "forecast-cards.db" || cfg.ShowFahrenheit {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("UPSTREAM", "DarkSky")
	t.Setenv("DARKSKY_API_KEY", "secret")
	t.Setenv("HTTP_TIMEOUT", "5s")
	t.Setenv("REFRESH_INTERVAL", "15m")
	t.Setenv("FETCH_MAX_RETRIES", "2")
	t.Setenv("SHOW_FAHRENHEIT", "true")
	t.Setenv("PORT", "9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Upstream != UpstreamDarkSky || cfg.DarkSkyAPIKey != "secret" {
		t.Errorf("unexpected upstream config: %+v", cfg)
	}
	if cfg.HTTPTimeout != 5*time.Second || cfg.RefreshInterval != 15*time.Minute || cfg.FetchMaxRetries != 2 {
		t.Errorf("unexpected durations: %+v", cfg)
	}
	if !cfg.ShowFahrenheit || cfg.Port != "9090" {
		t.Errorf("unexpected flags: %+v", cfg)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown upstream", env: map[string]string{"UPSTREAM": "openweather"}},
		{name: "darksky without key", env: map[string]string{"UPSTREAM": "darksky", "DARKSKY_API_KEY": ""}},
		{name: "bad interval", env: map[string]string{"REFRESH_INTERVAL": "often"}},
		{name: "bad timeout", env: map[string]string{"HTTP_TIMEOUT": "soon"}},
		{name: "non-numeric port", env: map[string]string{"PORT": "http"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}
