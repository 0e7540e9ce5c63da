package weather

import (
	"encoding/json"
	"time"
)

// UnknownMarker is written in place of an optional value the provider did not report.
const UnknownMarker = "N/A"

// TimestampLayout is the UTC capture time format used in documents and object names.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Location represents the fixed place for which we capture weather.
type Location struct {
	City  string  `json:"city"`
	State string  `json:"state"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
}

// Atlanta is the only location this service captures.
var Atlanta = Location{
	City:  "Atlanta",
	State: "GA",
	Lat:   33.7490,
	Lon:   -84.3880,
}

// Optional holds a provider value that may be absent.
// The zero value is unknown.
type Optional[T any] struct {
	value T
	known bool
}

// Known wraps a value reported by the provider.
func Known[T any](v T) Optional[T] {
	return Optional[T]{value: v, known: true}
}

// Unknown returns an absent value.
func Unknown[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the value and whether it is known.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.known
}

// MarshalJSON renders the value, or the unknown marker when absent.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.known {
		return json.Marshal(UnknownMarker)
	}
	return json.Marshal(o.value)
}

// UnmarshalJSON accepts either a value or the unknown marker.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	var marker string
	if err := json.Unmarshal(data, &marker); err == nil && marker == UnknownMarker {
		*o = Unknown[T]()
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Known(v)
	return nil
}

// Reading is one weather observation, tagged with the instant it was captured.
// Field order is the key order of the stored document.
type Reading struct {
	Timestamp     time.Time
	City          string
	State         string
	TemperatureF  float64
	FeelsLikeF    float64
	Humidity      Optional[int]
	Description   Optional[string]
	Pressure      Optional[int]
	Visibility    Optional[int]
	WindSpeed     Optional[float64]
	WindDirection Optional[int]
}

type readingDocument struct {
	Timestamp     string            `json:"timestamp"`
	City          string            `json:"city"`
	State         string            `json:"state"`
	TemperatureF  float64           `json:"temperature_f"`
	FeelsLikeF    float64           `json:"feels_like_f"`
	Humidity      Optional[int]     `json:"humidity"`
	Description   Optional[string]  `json:"description"`
	Pressure      Optional[int]     `json:"pressure"`
	Visibility    Optional[int]     `json:"visibility"`
	WindSpeed     Optional[float64] `json:"wind_speed"`
	WindDirection Optional[int]     `json:"wind_direction"`
}

// FormatTimestamp renders t in UTC with millisecond precision.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// MarshalJSON writes the reading with a stable key set.
func (r Reading) MarshalJSON() ([]byte, error) {
	return json.Marshal(readingDocument{
		Timestamp:     FormatTimestamp(r.Timestamp),
		City:          r.City,
		State:         r.State,
		TemperatureF:  r.TemperatureF,
		FeelsLikeF:    r.FeelsLikeF,
		Humidity:      r.Humidity,
		Description:   r.Description,
		Pressure:      r.Pressure,
		Visibility:    r.Visibility,
		WindSpeed:     r.WindSpeed,
		WindDirection: r.WindDirection,
	})
}

// UnmarshalJSON reads a stored document back into a Reading.
func (r *Reading) UnmarshalJSON(data []byte) error {
	var doc readingDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	ts, err := time.Parse(TimestampLayout, doc.Timestamp)
	if err != nil {
		return err
	}
	*r = Reading{
		Timestamp:     ts,
		City:          doc.City,
		State:         doc.State,
		TemperatureF:  doc.TemperatureF,
		FeelsLikeF:    doc.FeelsLikeF,
		Humidity:      doc.Humidity,
		Description:   doc.Description,
		Pressure:      doc.Pressure,
		Visibility:    doc.Visibility,
		WindSpeed:     doc.WindSpeed,
		WindDirection: doc.WindDirection,
	}
	return nil
}
