package models

import (
	"time"
)

// LoginAttempt records a single authentication attempt. Rows are immutable
// once created and purged after RetentionWindow by the cleanup sweep.
type LoginAttempt struct {
	ID          string    `json:"id" db:"id"`
	IPAddress   string    `json:"ip_address" db:"ip_address"`
	Email       string    `json:"email" db:"email"`
	Successful  bool      `json:"successful" db:"successful"`
	AttemptedAt time.Time `json:"attempted_at" db:"attempted_at"`
}

// LoginAttemptRetention is how long attempt rows are kept before the
// daily sweep removes them.
const LoginAttemptRetention = 24 * time.Hour
