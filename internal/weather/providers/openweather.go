package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/i474232898/temperature-capture/internal/weather"
	"github.com/sony/gobreaker"
)

// DefaultOpenWeatherURL is the current-conditions endpoint.
const DefaultOpenWeatherURL = "https://api.openweathermap.org/data/2.5/weather"

// OpenWeatherProvider implements the weather.Provider interface for OpenWeatherMap.
type OpenWeatherProvider struct {
	name    string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

// NewOpenWeatherProvider creates a provider. An empty baseURL selects DefaultOpenWeatherURL.
func NewOpenWeatherProvider(client *http.Client, baseURL string) *OpenWeatherProvider {
	if baseURL == "" {
		baseURL = DefaultOpenWeatherURL
	}
	return &OpenWeatherProvider{
		name:    "openweathermap",
		baseURL: baseURL,
		client:  client,
		circuit: newCircuitBreaker("openweather"),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

func (p *OpenWeatherProvider) Fetch(ctx context.Context, q weather.Query) (weather.RawResponse, error) {
	values := url.Values{}
	values.Set("lat", strconv.FormatFloat(q.Lat, 'f', -1, 64))
	values.Set("lon", strconv.FormatFloat(q.Lon, 'f', -1, 64))
	values.Set("appid", q.APIKey)
	values.Set("units", q.Units)

	u, err := url.Parse(p.baseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return weather.RawResponse{}, fmt.Errorf("%w: invalid openweather base url %q", weather.ErrConfiguration, p.baseURL)
	}
	u.RawQuery = values.Encode()

	req, err := http.NewRequest(http.MethodGet, u.String(), nil)
	if err != nil {
		return weather.RawResponse{}, fmt.Errorf("%w: build request: %w", weather.ErrConfiguration, err)
	}

	status, body, err := doRequest(ctx, p.client, p.circuit, req)
	if err != nil {
		return weather.RawResponse{}, err
	}

	return weather.RawResponse{
		StatusCode: status,
		Body:       body,
	}, nil
}
