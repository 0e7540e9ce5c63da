package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type AppConfig struct {
	AppEnv   string
	LogLevel slog.Level

	OpenWeatherAPIKey  string
	OpenWeatherBaseURL string
	// HTTPTimeout bounds the weather provider request.
	HTTPTimeout time.Duration

	AzureConnectionString string
	AzureContainer        string

	// Only used by the serve command.
	CaptureInterval time.Duration
	HTTPAddr        string
}

// Load reads configuration from the environment, after applying envFile when it exists.
// Required credentials are not checked here; the component that needs them reports a
// configuration error when it runs.
func Load(envFile string) (*AppConfig, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	for key, def := range defaults {
		v.SetDefault(key, def)
	}

	cfg := &AppConfig{
		OpenWeatherAPIKey:     getString(v, "OPENWEATHER_API_KEY"),
		OpenWeatherBaseURL:    getString(v, "OPENWEATHER_BASE_URL"),
		AzureConnectionString: getString(v, "AZURE_STORAGE_CONNECTION_STRING"),
		AzureContainer:        getString(v, "AZURE_CONTAINER_NAME"),
		HTTPAddr:              getString(v, "HTTP_ADDR"),
	}

	cfg.AppEnv = getString(v, "APP_ENV")
	switch cfg.AppEnv {
	case "dev", "prod":
	default:
		return nil, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", cfg.AppEnv)
	}

	level, err := parseLogLevel(getString(v, "LOG_LEVEL"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	timeout, err := parsePositiveDuration(v, "HTTP_TIMEOUT")
	if err != nil {
		return nil, err
	}
	cfg.HTTPTimeout = timeout

	interval, err := parsePositiveDuration(v, "CAPTURE_INTERVAL")
	if err != nil {
		return nil, err
	}
	cfg.CaptureInterval = interval

	return cfg, nil
}

var defaults = map[string]string{
	"APP_ENV":              "dev",
	"LOG_LEVEL":            "info",
	"OPENWEATHER_BASE_URL": "https://api.openweathermap.org/data/2.5/weather",
	"HTTP_TIMEOUT":         "10s",
	"CAPTURE_INTERVAL":     "15m",
	"HTTP_ADDR":            ":8080",
}

// getString trims the value and falls back to the default when only whitespace is set.
func getString(v *viper.Viper, key string) string {
	s := strings.TrimSpace(v.GetString(key))
	if s == "" {
		return defaults[key]
	}
	return s
}

func parsePositiveDuration(v *viper.Viper, key string) (time.Duration, error) {
	raw := getString(v, key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be positive", key, raw)
	}
	return d, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}
