package weather

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// RunState is where a capture run ended up.
type RunState string

const (
	StateStart     RunState = "start"
	StateFetched   RunState = "fetched"
	StatePublished RunState = "published"
	StateFailed    RunState = "failed"
)

// RunResult describes one capture run.
type RunResult struct {
	RunID      string    `json:"run_id"`
	State      RunState  `json:"state"`
	Reading    *Reading  `json:"reading,omitempty"`
	ObjectPath string    `json:"object_path,omitempty"`
	FinishedAt time.Time `json:"finished_at"`
}

// Service runs the fetcher and then the publisher.
type Service struct {
	fetcher   *Fetcher
	publisher *Publisher
	logger    *slog.Logger
}

// NewService creates a new Service.
func NewService(fetcher *Fetcher, publisher *Publisher, logger *slog.Logger) *Service {
	return &Service{
		fetcher:   fetcher,
		publisher: publisher,
		logger:    logger,
	}
}

// Run captures one reading and stores it. Nothing is retried and nothing
// already written is cleaned up on failure.
func (s *Service) Run(ctx context.Context) (RunResult, error) {
	res := RunResult{
		RunID: uuid.NewString(),
		State: StateStart,
	}
	log := s.logger.With("run_id", res.RunID)
	log.Info("starting Atlanta temperature capture")

	reading, err := s.fetcher.Fetch(ctx)
	if err != nil {
		return s.fail(log, res, err)
	}
	res.State = StateFetched
	res.Reading = &reading

	path, err := s.publisher.Publish(ctx, reading)
	if err != nil {
		return s.fail(log, res, err)
	}
	res.State = StatePublished
	res.ObjectPath = path
	res.FinishedAt = time.Now().UTC()

	log.Info("temperature capture and upload completed",
		"temperature_f", reading.TemperatureF,
		"object", path,
	)
	return res, nil
}

func (s *Service) fail(log *slog.Logger, res RunResult, err error) (RunResult, error) {
	log.Error("capture run failed", "from_state", res.State, "err", err)
	res.State = StateFailed
	res.FinishedAt = time.Now().UTC()
	return res, err
}
