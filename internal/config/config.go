package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	UpstreamYQL     = "yql"
	UpstreamDarkSky = "darksky"
)

type AppConfig struct {
	// Upstream selects the forecast API; only one is active per deployment.
	Upstream string `validate:"oneof=yql darksky"`

	YQLBaseURL     string `validate:"omitempty,url"`
	DarkSkyBaseURL string `validate:"omitempty,url"`
	DarkSkyAPIKey  string `validate:"required_if=Upstream darksky"`
	GeocoderAPIKey string

	// HTTPTimeout of zero leaves outbound requests without a deadline.
	HTTPTimeout time.Duration `validate:"gte=0"`
	// FetchMaxRetries of zero means a single attempt per fetch.
	FetchMaxRetries int `validate:"gte=0,lte=10"`

	// RefreshInterval of zero disables the periodic refresh-all job.
	RefreshInterval time.Duration `validate:"gte=0"`

	DBPath string `validate:"required"`

	ShowFahrenheit bool

	Port string `validate:"required,numeric"`
}

var validate = validator.New()

// Load reads configuration from the environment (and .env, if present).
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.Upstream = strings.ToLower(getenvDefault("UPSTREAM", UpstreamYQL))
	cfg.YQLBaseURL = os.Getenv("YQL_BASE_URL")
	cfg.DarkSkyBaseURL = os.Getenv("DARKSKY_BASE_URL")
	cfg.DarkSkyAPIKey = os.Getenv("DARKSKY_API_KEY")
	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")

	timeout, err := time.ParseDuration(getenvDefault("HTTP_TIMEOUT", "0s"))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cfg.FetchMaxRetries = getenvInt("FETCH_MAX_RETRIES", 0)

	interval, err := time.ParseDuration(getenvDefault("REFRESH_INTERVAL", "0s"))
	if err != nil {
		return nil, fmt.Errorf("invalid REFRESH_INTERVAL: %w", err)
	}
	cfg.RefreshInterval = interval

	cfg.DBPath = getenvDefault("DB_PATH", "forecast-cards.db")
	cfg.ShowFahrenheit = getenvBool("SHOW_FAHRENHEIT", false)
	cfg.Port = getenvDefault("PORT", "8080")

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}
