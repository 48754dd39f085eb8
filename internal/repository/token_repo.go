package repository

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/legal-portal-api/internal/database"
	"github.com/legal-portal-api/internal/models"
)

// tokenRepo is the concrete implementation of TokenRepository
type tokenRepo struct {
	db *database.DB
}

// NewTokenRepo creates a new token repository
func NewTokenRepo(db *database.DB) TokenRepository {
	return &tokenRepo{db: db}
}

// Create issues a new personal access token. The plaintext is returned in
// the form "{id}|{plain}" and never stored; only its SHA-256 hash is.
func (r *tokenRepo) Create(ctx context.Context, userID, name string, expiresAt time.Time) (string, error) {
	plain, err := generatePlainToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	query := `
		INSERT INTO personal_access_tokens (user_id, name, token_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	var id int64
	err = r.db.QueryRowContext(ctx, query,
		userID, name, hashToken(plain), expiresAt, time.Now(),
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to create token: %w", err)
	}

	return fmt.Sprintf("%d|%s", id, plain), nil
}

// FindUserByToken resolves a presented token to its owner. Returns nil
// without error for unknown, malformed or expired tokens.
func (r *tokenRepo) FindUserByToken(ctx context.Context, token string) (*models.User, error) {
	idPart, plain, found := strings.Cut(token, "|")
	if !found {
		return nil, nil
	}
	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil {
		return nil, nil
	}

	query := `
		SELECT u.id, u.email, u.name, u.password_hash, u.role, u.preferred_locale, u.active,
			u.two_factor_secret, u.two_factor_recovery_codes, u.two_factor_confirmed_at,
			u.created_at, u.updated_at
		FROM personal_access_tokens t
		JOIN users u ON u.id = t.user_id
		WHERE t.id = $1 AND t.token_hash = $2 AND t.expires_at > $3
	`
	var user models.User
	err = r.db.QueryRowContext(ctx, query, id, hashToken(plain), time.Now()).Scan(
		&user.ID, &user.Email, &user.Name, &user.PasswordHash, &user.Role,
		&user.PreferredLocale, &user.Active,
		&user.TwoFactorSecret, &user.RecoveryCodes, &user.TwoFactorConfirmedAt,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	// Last-used tracking is best effort
	_, _ = r.db.ExecContext(ctx,
		"UPDATE personal_access_tokens SET last_used_at = $2 WHERE id = $1", id, time.Now())

	return &user, nil
}

// DeleteUserTokens revokes every token belonging to the user
func (r *tokenRepo) DeleteUserTokens(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM personal_access_tokens WHERE user_id = $1", userID)
	return err
}

func generatePlainToken() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func hashToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}
