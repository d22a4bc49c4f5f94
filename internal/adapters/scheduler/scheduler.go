package scheduler

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

// Flusher is anything that can be asked to persist its state later.
type Flusher interface {
	Enqueue()
}

// Scheduler triggers a snapshot flush on a fixed interval, on top of the
// flushes queued by writes.
type Scheduler struct {
	scheduler *gocron.Scheduler
	flusher   Flusher
	interval  time.Duration
	logger    *zap.Logger
}

func New(flusher Flusher, interval time.Duration, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		flusher:   flusher,
		interval:  interval,
		logger:    logger,
	}
}

func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		return fmt.Errorf("scheduler: flush interval must be positive, got %s", s.interval)
	}

	if _, err := s.scheduler.Every(s.interval).WaitForSchedule().Do(s.flusher.Enqueue); err != nil {
		return fmt.Errorf("scheduler: register flush job: %w", err)
	}

	s.scheduler.StartAsync()
	s.logger.Info("periodic snapshot flush scheduled", zap.Duration("interval", s.interval))
	return nil
}

func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}
