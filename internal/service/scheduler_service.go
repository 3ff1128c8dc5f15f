package service

import (
	"context"
	"sync"
	"time"

	"github.com/content-modeling-api/internal/repository"
	"github.com/rs/zerolog"
)

// publishBatchSize bounds how many due entries are promoted per query
const publishBatchSize = 100

// schedulerService is the concrete implementation of SchedulerService
type schedulerService struct {
	entries  repository.ContentEntryRepository
	interval time.Duration
	now      func() time.Time
	log      zerolog.Logger
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	running  bool
	mu       sync.Mutex
}

func newSchedulerService(entries repository.ContentEntryRepository, interval time.Duration, log zerolog.Logger) *schedulerService {
	return &schedulerService{
		entries:  entries,
		interval: interval,
		now:      time.Now,
		log:      log.With().Str("service", "scheduler").Logger(),
	}
}

// StartProcessor launches the background publisher, which polls for due
// entries until ctx is cancelled or StopProcessor is called. It returns
// once the processor is registered, so a following StopProcessor always stops it.
func (s *schedulerService) StartProcessor(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)

	go s.run(ctx)
}

func (s *schedulerService) run(ctx context.Context) {
	defer s.wg.Done()

	s.log.Info().Dur("interval", s.interval).Msg("Scheduled publisher started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("Scheduled publisher stopping")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// StopProcessor stops the background publisher and waits for the current pass
func (s *schedulerService) StopProcessor() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.cancel()
	s.wg.Wait()
	s.running = false
	s.log.Info().Msg("Scheduled publisher stopped")
}

// tick runs one pass, keeping a panic from taking down the process
func (s *schedulerService) tick(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Interface("panic", r).Msg("Scheduled publish panicked - recovered")
		}
	}()

	if _, err := s.PublishDue(ctx); err != nil && ctx.Err() == nil {
		s.log.Error().Err(err).Msg("Scheduled publish failed")
	}
}

// PublishDue promotes every SCHEDULED entry whose scheduled_at has passed
func (s *schedulerService) PublishDue(ctx context.Context) (int, error) {
	published := 0
	for {
		now := s.now().UTC()
		due, err := s.entries.ListDueScheduled(ctx, now, publishBatchSize)
		if err != nil {
			return published, err
		}

		for _, entry := range due {
			if err := ctx.Err(); err != nil {
				return published, err
			}

			publishedAt := now
			if entry.ScheduledAt != nil {
				publishedAt = entry.ScheduledAt.UTC()
			}
			ok, err := s.entries.PublishScheduled(ctx, entry.ID, publishedAt)
			if err != nil {
				return published, err
			}
			if ok {
				published++
				s.log.Info().Str("entry_id", entry.ID).Time("published_at", publishedAt).Msg("Scheduled entry published")
			}
		}

		if len(due) < publishBatchSize {
			return published, nil
		}
	}
}
