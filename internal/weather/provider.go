package weather

import (
	"context"
)

// Query is everything a provider needs to request current conditions.
type Query struct {
	Lat    float64
	Lon    float64
	APIKey string
	Units  string
}

// RawResponse is the undecoded provider payload.
type RawResponse struct {
	StatusCode int
	Body       []byte
}

// Provider abstracts the current-conditions HTTP endpoint.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, q Query) (RawResponse, error)
}

// ObjectStore is the contract a blob backend must satisfy.
// Put overwrites any existing object at path and returns its identifier.
type ObjectStore interface {
	Put(ctx context.Context, path string, data []byte, contentType string) (string, error)
}
