package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/parkmon/swiss-parking-monitor/internal/parking"
)

// Scheduler runs collection cycles on a fixed interval. Within a cycle
// cities are collected strictly one after another; gocron guarantees a
// new cycle never starts while the previous one is still running.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *parking.Service
	interval  time.Duration

	// city limits cycles to a single city when non-empty.
	city string

	log *slog.Logger
}

// New creates a Scheduler. An empty city means "all enabled cities".
func New(service *parking.Service, interval time.Duration, city string, logger *slog.Logger) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		service:   service,
		interval:  interval,
		city:      city,
		log:       logger,
	}
}

// Start schedules the periodic cycle, runs the first one immediately and
// starts the underlying scheduler.
func (s *Scheduler) Start() error {
	seconds := int(s.interval.Seconds())
	if seconds <= 0 {
		seconds = 900
	}

	_, err := s.scheduler.Every(seconds).Seconds().StartImmediately().Do(func() {
		ctx := context.Background()

		if s.city != "" {
			result, err := s.service.CollectCity(ctx, s.city)
			if err != nil {
				s.log.Error("collection skipped", "city", s.city, "err", err)
				return
			}
			s.log.Info("cycle finished", "city", s.city, "result", result.String())
			return
		}

		results := s.service.CollectAll(ctx)
		for city, result := range results {
			s.log.Info("cycle finished", "city", city, "result", result.String())
		}
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler. In-flight writes are whole-file, so stopping
// between cycles never leaves a corrupt snapshot behind.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
