package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

const (
	// ObjectPrefix is the logical folder all readings are stored under.
	ObjectPrefix = "atlanta-temperature/"

	contentTypeJSON = "application/json"
)

var pathReplacer = strings.NewReplacer(":", "-", ".", "-")

// ObjectPath derives the object name from the capture time.
// Equal timestamps always map to the same path.
func ObjectPath(r Reading) string {
	return ObjectPrefix + pathReplacer.Replace(FormatTimestamp(r.Timestamp)) + ".json"
}

// EncodeReading renders the stored document: stable keys, two-space indent.
func EncodeReading(r Reading) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// Publisher writes readings to an ObjectStore.
type Publisher struct {
	store  ObjectStore
	logger *slog.Logger
}

// NewPublisher creates a new Publisher.
func NewPublisher(store ObjectStore, logger *slog.Logger) *Publisher {
	return &Publisher{
		store:  store,
		logger: logger,
	}
}

// Publish uploads the reading and returns the object identifier.
// An existing object at the same path is overwritten.
func (p *Publisher) Publish(ctx context.Context, r Reading) (string, error) {
	id, err := p.publish(ctx, r)
	if err != nil {
		p.logger.Error("uploading reading failed", "err", err)
		return "", err
	}

	p.logger.Info("reading uploaded", "object", id)
	return id, nil
}

func (p *Publisher) publish(ctx context.Context, r Reading) (string, error) {
	if p.store == nil {
		return "", fmt.Errorf("%w: object store is not configured", ErrConfiguration)
	}

	data, err := EncodeReading(r)
	if err != nil {
		return "", fmt.Errorf("%w: encode reading: %w", ErrStorage, err)
	}

	id, err := p.store.Put(ctx, ObjectPath(r), data, contentTypeJSON)
	if err != nil {
		if errors.Is(err, ErrConfiguration) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return id, nil
}
