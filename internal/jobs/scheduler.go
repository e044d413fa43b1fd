package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"authorportal/internal/config"
)

const jobTimeout = time.Minute

// Sessions is what the scheduled jobs maintain.
type Sessions interface {
	RefreshAll(ctx context.Context) int
	Sweep(now time.Time) int
}

type Scheduler struct {
	cron     *cron.Cron
	sessions Sessions
	cfg      config.JobsConfig
	log      zerolog.Logger
}

func NewScheduler(sessions Sessions, cfg config.JobsConfig, log zerolog.Logger) *Scheduler {
	c := cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	return &Scheduler{
		cron:     c,
		sessions: sessions,
		cfg:      cfg,
		log:      log.With().Str("component", "jobs").Logger(),
	}
}

// Start registers the jobs with a non-empty spec and starts the cron loop.
func (s *Scheduler) Start() error {
	if s.cfg.RefreshSpec != "" {
		if _, err := s.cron.AddFunc(s.cfg.RefreshSpec, s.refreshJournals); err != nil {
			return fmt.Errorf("schedule journal refresh: %w", err)
		}
	}
	if s.cfg.SweepSpec != "" {
		if _, err := s.cron.AddFunc(s.cfg.SweepSpec, s.sweepSessions); err != nil {
			return fmt.Errorf("schedule session sweep: %w", err)
		}
	}

	s.cron.Start()
	return nil
}

// Stop waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.log.Warn().Msg("scheduled jobs still running at shutdown")
	}
}

func (s *Scheduler) refreshJournals() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	start := time.Now()
	n := s.sessions.RefreshAll(ctx)
	s.log.Info().Int("refreshed", n).Dur("took", time.Since(start)).Msg("accepted journals refreshed")
}

func (s *Scheduler) sweepSessions() {
	if n := s.sessions.Sweep(time.Now()); n > 0 {
		s.log.Debug().Int("removed", n).Msg("session sweep finished")
	}
}
