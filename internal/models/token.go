package models

import (
	"time"
)

// PersonalAccessToken is an opaque API token. Only the SHA-256 hash is
// stored; the plaintext is returned once at issue time in the form
// "{id}|{plain}".
type PersonalAccessToken struct {
	ID         int64      `json:"id" db:"id"`
	UserID     string     `json:"user_id" db:"user_id"`
	Name       string     `json:"name" db:"name"`
	TokenHash  string     `json:"-" db:"token_hash"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty" db:"last_used_at"`
	ExpiresAt  time.Time  `json:"expires_at" db:"expires_at"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}
