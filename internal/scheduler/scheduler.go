package scheduler

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Pruner drops expired entries and reports how many it removed.
type Pruner interface {
	Prune() int
}

// Scheduler runs housekeeping tasks on cron schedules.
type Scheduler struct {
	Cron *cron.Cron
	log  zerolog.Logger
}

func NewScheduler(log zerolog.Logger) *Scheduler {
	return &Scheduler{
		Cron: cron.New(),
		log:  log.With().Str("component", "scheduler").Logger(),
	}
}

// RegisterPrune runs p.Prune on spec, e.g. "@every 5m" or "*/10 * * * *".
func (s *Scheduler) RegisterPrune(spec string, p Pruner) error {
	if _, err := s.Cron.AddFunc(spec, func() {
		n := p.Prune()
		s.log.Debug().Int("removed", n).Msg("prune task finished")
	}); err != nil {
		return fmt.Errorf("register prune task: %w", err)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info().Int("tasks", len(s.Cron.Entries())).Msg("scheduler started")
}

// Stop waits for running tasks to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info().Msg("scheduler stopped")
}
