package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/legal-portal-api/internal/models"
	"github.com/legal-portal-api/internal/repository"
)

// Throttle windows. IP attacks are high-frequency, so detection is tight
// and the lockout moderate; email-targeted attacks are slower but higher
// value, warranting a wider detection window and a longer lockout.
const (
	ipBurstWindow    = time.Minute
	ipLockout        = 15 * time.Minute
	emailBurstWindow = 5 * time.Minute
	emailLockout     = 30 * time.Minute

	burstThreshold = 5

	sweepInterval = 24 * time.Hour
)

// throttleService is the concrete implementation of ThrottleService
type throttleService struct {
	attempts repository.LoginAttemptRepository
	log      zerolog.Logger
	now      func() time.Time
	stopCh   chan struct{}
}

func newThrottleService(attempts repository.LoginAttemptRepository, log zerolog.Logger) *throttleService {
	return &throttleService{
		attempts: attempts,
		log:      log.With().Str("service", "throttle").Logger(),
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}
}

// RecordAttempt appends a login attempt row. Storage failures are logged
// and swallowed: the attempt record is telemetry, not a gate, and must
// never block the login flow.
func (s *throttleService) RecordAttempt(ctx context.Context, ip, email string, successful bool) {
	attempt := &models.LoginAttempt{
		ID:          uuid.New().String(),
		IPAddress:   ip,
		Email:       email,
		Successful:  successful,
		AttemptedAt: s.now(),
	}
	if err := s.attempts.Create(ctx, attempt); err != nil {
		s.log.Error().Err(err).Str("ip", ip).Msg("Failed to record login attempt")
	}
}

// IsIPBlocked reports whether the IP is locked out: five failures within
// a sliding 60-second burst window start a 15-minute lockout that renews
// from every further failure.
func (s *throttleService) IsIPBlocked(ctx context.Context, ip string) (bool, error) {
	times, err := s.attempts.FailedTimesByIP(ctx, ip, s.now().Add(-models.LoginAttemptRetention))
	if err != nil {
		return false, err
	}
	return s.blocked(times, ipBurstWindow, ipLockout), nil
}

// IsEmailBlocked reports whether the email is locked out: five failures
// within five minutes start a 30-minute lockout sliding from the latest
// failure.
func (s *throttleService) IsEmailBlocked(ctx context.Context, email string) (bool, error) {
	times, err := s.attempts.FailedTimesByEmail(ctx, email, s.now().Add(-models.LoginAttemptRetention))
	if err != nil {
		return false, err
	}
	return s.blocked(times, emailBurstWindow, emailLockout), nil
}

// IPBlockRemainingSeconds returns seconds until the IP lockout expires,
// 0 when not blocked
func (s *throttleService) IPBlockRemainingSeconds(ctx context.Context, ip string) (int, error) {
	times, err := s.attempts.FailedTimesByIP(ctx, ip, s.now().Add(-models.LoginAttemptRetention))
	if err != nil {
		return 0, err
	}
	return s.remaining(times, ipBurstWindow, ipLockout), nil
}

// EmailBlockRemainingSeconds returns seconds until the email lockout
// expires, 0 when not blocked
func (s *throttleService) EmailBlockRemainingSeconds(ctx context.Context, email string) (int, error) {
	times, err := s.attempts.FailedTimesByEmail(ctx, email, s.now().Add(-models.LoginAttemptRetention))
	if err != nil {
		return 0, err
	}
	return s.remaining(times, emailBurstWindow, emailLockout), nil
}

// blocked checks whether any run of burstThreshold failures spans at most
// the burst window, and if so whether the lockout measured from the most
// recent failure still holds.
func (s *throttleService) blocked(times []time.Time, window, lockout time.Duration) bool {
	return s.remainingDuration(times, window, lockout) > 0
}

func (s *throttleService) remaining(times []time.Time, window, lockout time.Duration) int {
	d := s.remainingDuration(times, window, lockout)
	if d <= 0 {
		return 0
	}
	return int(d.Seconds() + 0.5)
}

func (s *throttleService) remainingDuration(times []time.Time, window, lockout time.Duration) time.Duration {
	if len(times) < burstThreshold {
		return 0
	}
	if !hasBurst(times, window) {
		return 0
	}
	last := times[len(times)-1]
	return last.Add(lockout).Sub(s.now())
}

// hasBurst reports whether burstThreshold consecutive failures fall
// within a single window. Times are sorted ascending.
func hasBurst(times []time.Time, window time.Duration) bool {
	for i := 0; i+burstThreshold-1 < len(times); i++ {
		if times[i+burstThreshold-1].Sub(times[i]) <= window {
			return true
		}
	}
	return false
}

// CleanOldAttempts purges attempts past the retention window
func (s *throttleService) CleanOldAttempts(ctx context.Context) (int64, error) {
	deleted, err := s.attempts.DeleteOlderThan(ctx, s.now().Add(-models.LoginAttemptRetention))
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.log.Info().Int64("deleted", deleted).Msg("Purged old login attempts")
	}
	return deleted, nil
}

// StartSweeper runs the daily cleanup until StopSweeper or context
// cancellation. Deletes are filtered by age, so running concurrently with
// live traffic is safe.
func (s *throttleService) StartSweeper(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := s.CleanOldAttempts(ctx); err != nil {
				s.log.Error().Err(err).Msg("Login attempt sweep failed")
			}
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

// StopSweeper stops the background cleanup loop
func (s *throttleService) StopSweeper() {
	close(s.stopCh)
}
