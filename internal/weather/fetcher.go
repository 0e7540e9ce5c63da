package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// FetcherConfig carries the provider credential and request settings.
type FetcherConfig struct {
	APIKey   string `validate:"required"`
	Location Location
	Units    string        `validate:"required,oneof=imperial metric standard"`
	Timeout  time.Duration `validate:"gte=0"`
}

// DefaultFetcherConfig returns the settings for Atlanta in imperial units with a 10s timeout.
func DefaultFetcherConfig(apiKey string) FetcherConfig {
	return FetcherConfig{
		APIKey:   apiKey,
		Location: Atlanta,
		Units:    "imperial",
		Timeout:  10 * time.Second,
	}
}

// Fetcher turns one provider response into a Reading.
type Fetcher struct {
	cfg      FetcherConfig
	provider Provider
	logger   *slog.Logger
	now      func() time.Time
}

// NewFetcher creates a new Fetcher.
func NewFetcher(cfg FetcherConfig, provider Provider, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		cfg:      cfg,
		provider: provider,
		logger:   logger,
		now:      time.Now,
	}
}

// currentConditions is the subset of the OpenWeatherMap current weather schema we read.
// Only the two temperatures are decoded strictly; the rest stays raw so a value
// of the wrong shape degrades to Unknown instead of failing the fetch.
type currentConditions struct {
	Main *struct {
		Temp      *float64        `json:"temp" validate:"required"`
		FeelsLike *float64        `json:"feels_like" validate:"required"`
		Humidity  json.RawMessage `json:"humidity"`
		Pressure  json.RawMessage `json:"pressure"`
	} `json:"main" validate:"required"`
	Weather    json.RawMessage `json:"weather"`
	Visibility json.RawMessage `json:"visibility"`
	Wind       json.RawMessage `json:"wind"`
}

type conditionEntry struct {
	Description json.RawMessage `json:"description"`
}

type windConditions struct {
	Speed json.RawMessage `json:"speed"`
	Deg   json.RawMessage `json:"deg"`
}

// Fetch performs one request and maps the response. Every call hits the provider.
func (f *Fetcher) Fetch(ctx context.Context) (Reading, error) {
	reading, err := f.fetch(ctx)
	if err != nil {
		f.logger.Error("fetching weather data failed", "provider", f.providerName(), "err", err)
		return Reading{}, err
	}

	f.logger.Info("temperature captured",
		"temperature_f", reading.TemperatureF,
		"city", reading.City,
	)
	return reading, nil
}

func (f *Fetcher) fetch(ctx context.Context) (Reading, error) {
	if err := validate.Struct(f.cfg); err != nil {
		return Reading{}, fmt.Errorf("%w: weather provider: %w", ErrConfiguration, err)
	}
	if f.provider == nil {
		return Reading{}, fmt.Errorf("%w: weather provider is not configured", ErrConfiguration)
	}

	if f.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.cfg.Timeout)
		defer cancel()
	}

	raw, err := f.provider.Fetch(ctx, Query{
		Lat:    f.cfg.Location.Lat,
		Lon:    f.cfg.Location.Lon,
		APIKey: f.cfg.APIKey,
		Units:  f.cfg.Units,
	})
	if err != nil {
		if errors.Is(err, ErrConfiguration) {
			return Reading{}, err
		}
		return Reading{}, fmt.Errorf("%w: %s: %w", ErrTransport, f.providerName(), err)
	}

	return f.parse(raw.Body)
}

func (f *Fetcher) parse(body []byte) (Reading, error) {
	var payload currentConditions
	if err := json.Unmarshal(body, &payload); err != nil {
		return Reading{}, fmt.Errorf("%w: decode: %w", ErrResponseFormat, err)
	}
	if err := validate.Struct(payload); err != nil {
		return Reading{}, fmt.Errorf("%w: missing temperature data: %w", ErrResponseFormat, err)
	}

	r := Reading{
		Timestamp:    f.now().UTC(),
		City:         f.cfg.Location.City,
		State:        f.cfg.Location.State,
		TemperatureF: *payload.Main.Temp,
		FeelsLikeF:   *payload.Main.FeelsLike,
		Humidity:     optionalInt(payload.Main.Humidity),
		Pressure:     optionalInt(payload.Main.Pressure),
		Visibility:   optionalInt(payload.Visibility),
	}

	r.Description = Unknown[string]()
	var conditions []conditionEntry
	if json.Unmarshal(payload.Weather, &conditions) == nil && len(conditions) > 0 {
		r.Description = lenient[string](conditions[0].Description)
	}

	var wind windConditions
	if json.Unmarshal(payload.Wind, &wind) != nil {
		wind = windConditions{}
	}
	r.WindSpeed = lenient[float64](wind.Speed)
	r.WindDirection = optionalInt(wind.Deg)

	return r, nil
}

func (f *Fetcher) providerName() string {
	if f.provider == nil {
		return "none"
	}
	return f.provider.Name()
}

// lenient decodes raw as T. Absent, null or mistyped values are Unknown.
func lenient[T any](raw json.RawMessage) Optional[T] {
	var v *T
	if len(raw) == 0 || json.Unmarshal(raw, &v) != nil || v == nil {
		return Unknown[T]()
	}
	return Known(*v)
}

func optionalInt(raw json.RawMessage) Optional[int] {
	f, ok := lenient[float64](raw).Get()
	if !ok {
		return Unknown[int]()
	}
	n := math.Round(f)
	if n < math.MinInt || n >= math.MaxInt {
		return Unknown[int]()
	}
	return Known(int(n))
}
