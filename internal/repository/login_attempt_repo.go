package repository

import (
	"context"
	"time"

	"github.com/legal-portal-api/internal/database"
	"github.com/legal-portal-api/internal/models"
)

// loginAttemptRepo is the concrete implementation of LoginAttemptRepository
type loginAttemptRepo struct {
	db *database.DB
}

// NewLoginAttemptRepo creates a new login attempt repository
func NewLoginAttemptRepo(db *database.DB) LoginAttemptRepository {
	return &loginAttemptRepo{db: db}
}

// Create appends an attempt row. Attempts are immutable telemetry.
func (r *loginAttemptRepo) Create(ctx context.Context, attempt *models.LoginAttempt) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO login_attempts (id, ip_address, email, successful, attempted_at)
		VALUES ($1, $2, $3, $4, $5)`,
		attempt.ID, attempt.IPAddress, attempt.Email, attempt.Successful, attempt.AttemptedAt,
	)
	return err
}

// FailedTimesByIP returns timestamps of failed attempts from the IP since
// the cutoff, oldest first
func (r *loginAttemptRepo) FailedTimesByIP(ctx context.Context, ip string, since time.Time) ([]time.Time, error) {
	return r.failedTimes(ctx,
		`SELECT attempted_at FROM login_attempts
		WHERE ip_address = $1 AND successful = FALSE AND attempted_at >= $2
		ORDER BY attempted_at`, ip, since)
}

// FailedTimesByEmail returns timestamps of failed attempts for the email
// since the cutoff, oldest first
func (r *loginAttemptRepo) FailedTimesByEmail(ctx context.Context, email string, since time.Time) ([]time.Time, error) {
	return r.failedTimes(ctx,
		`SELECT attempted_at FROM login_attempts
		WHERE LOWER(email) = LOWER($1) AND successful = FALSE AND attempted_at >= $2
		ORDER BY attempted_at`, email, since)
}

// DeleteOlderThan purges attempts past the retention window. The filter is
// by age so the sweep cannot race live inserts.
func (r *loginAttemptRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM login_attempts WHERE attempted_at < $1", cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *loginAttemptRepo) failedTimes(ctx context.Context, query, value string, since time.Time) ([]time.Time, error) {
	rows, err := r.db.QueryContext(ctx, query, value, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var times []time.Time
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		times = append(times, t)
	}
	return times, rows.Err()
}
