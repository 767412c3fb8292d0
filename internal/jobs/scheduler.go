package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"bizboost/api/internal/repository"
	"bizboost/api/internal/signup"
)

// Scheduler runs the periodic expiry sweeps that back up lazy validation:
// guests past their lifetime, stale member tokens and abandoned pending
// signups all get cleaned even if no request ever touches them again.
type Scheduler struct {
	cron    *cron.Cron
	users   *repository.UserRepository
	pending signup.PendingStore
	log     zerolog.Logger
}

func NewScheduler(users *repository.UserRepository, pending signup.PendingStore, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		users:   users,
		pending: pending,
		log:     log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("@every 15m", s.sweepUsers); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("@every 1m", s.sweepPending); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		s.log.Warn().Msg("scheduler stop timed out")
	}
}

func (s *Scheduler) sweepUsers() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	now := time.Now()

	guests, err := s.users.DeleteExpiredGuests(ctx, now)
	if err != nil {
		s.log.Error().Err(err).Msg("expired guest sweep failed")
	}

	sessions, err := s.users.ClearExpiredSessions(ctx, now)
	if err != nil {
		s.log.Error().Err(err).Msg("expired session sweep failed")
	}

	if guests > 0 || sessions > 0 {
		s.log.Info().
			Int64("guests_deleted", guests).
			Int64("sessions_cleared", sessions).
			Msg("user expiry sweep")
	}
}

func (s *Scheduler) sweepPending() {
	if removed := s.pending.Sweep(time.Now()); removed > 0 {
		s.log.Info().Int("removed", removed).Msg("pending signup sweep")
	}
}
