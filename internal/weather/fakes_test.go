package weather

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// fakeProvider returns a canned body and counts calls.
type fakeProvider struct {
	body      string
	err       error
	calls     int
	lastQuery Query
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) Fetch(ctx context.Context, q Query) (RawResponse, error) {
	p.calls++
	p.lastQuery = q
	if p.err != nil {
		return RawResponse{}, p.err
	}
	return RawResponse{StatusCode: 200, Body: []byte(p.body)}, nil
}

type storedObject struct {
	data        []byte
	contentType string
}

// fakeStore keeps objects in a map with overwrite semantics.
type fakeStore struct {
	mu      sync.Mutex
	objects map[string]storedObject
	puts    int
	err     error
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string]storedObject)}
}

func (s *fakeStore) Put(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.puts++
	if s.err != nil {
		return "", s.err
	}
	s.objects[path] = storedObject{data: append([]byte(nil), data...), contentType: contentType}
	return path, nil
}

var errBoom = errors.New("boom")

const fullResponse = `{
	"dt": 1700000000,
	"main": {"temp": 72.5, "feels_like": 70.1, "humidity": 40, "pressure": 1013},
	"weather": [{"main": "Clear", "description": "clear sky"}],
	"visibility": 10000,
	"wind": {"speed": 5.75, "deg": 230}
}`

const scenarioResponse = `{"main":{"temp":72.5,"feels_like":70.1,"humidity":40,"pressure":1013},"weather":[{"description":"clear sky"}]}`

var scenarioInstant = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func newTestLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, nil)), &buf
}

func newTestFetcher(p Provider, apiKey string) (*Fetcher, *bytes.Buffer) {
	logger, buf := newTestLogger()
	f := NewFetcher(DefaultFetcherConfig(apiKey), p, logger)
	f.now = func() time.Time { return scenarioInstant }
	return f, buf
}
