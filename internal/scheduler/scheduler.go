package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/temperature-capture/internal/weather"
)

// Runner performs one capture run.
type Runner interface {
	Run(ctx context.Context) (weather.RunResult, error)
}

// RunStatus is the outcome of the most recent scheduled run.
type RunStatus struct {
	weather.RunResult
	Error string `json:"error,omitempty"`
}

// Scheduler periodically runs the capture service.
type Scheduler struct {
	scheduler *gocron.Scheduler
	runner    Runner
	interval  time.Duration
	timeout   time.Duration
	logger    *slog.Logger

	mu   sync.RWMutex
	last *RunStatus
}

// New creates a new Scheduler. timeout bounds each run; zero means unbounded.
func New(runner Runner, interval, timeout time.Duration, logger *slog.Logger) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		runner:    runner,
		interval:  interval,
		timeout:   timeout,
		logger:    logger,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
// The first run happens immediately.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		s.interval = 15 * time.Minute
	}

	_, err := s.scheduler.Every(s.interval).Do(func() {
		s.logger.Info("scheduler: running capture job")
		s.RunOnce(context.Background())
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// RunOnce runs the capture and records its outcome. A failed run is logged
// and left for the next tick.
func (s *Scheduler) RunOnce(ctx context.Context) RunStatus {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	res, err := s.runner.Run(ctx)
	status := RunStatus{RunResult: res}
	if err != nil {
		status.Error = err.Error()
		s.logger.Warn("scheduler: capture failed; waiting for next tick", "run_id", res.RunID, "err", err)
	}

	s.mu.Lock()
	s.last = &status
	s.mu.Unlock()
	return status
}

// LastRun returns the most recent outcome, if any run has finished.
func (s *Scheduler) LastRun() (RunStatus, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return RunStatus{}, false
	}
	return *s.last, true
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
