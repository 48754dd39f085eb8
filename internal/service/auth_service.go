package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/legal-portal-api/internal/config"
	"github.com/legal-portal-api/internal/models"
	"github.com/legal-portal-api/internal/repository"
)

// authService is the concrete implementation of AuthService
type authService struct {
	users     repository.UserRepository
	tokens    repository.TokenRepository
	throttle  ThrottleService
	twoFactor TwoFactorService
	activity  ActivityService
	cfg       *config.AuthConfig
	log       zerolog.Logger
}

func newAuthService(
	users repository.UserRepository,
	tokens repository.TokenRepository,
	throttle ThrottleService,
	twoFactor TwoFactorService,
	activity ActivityService,
	cfg *config.AuthConfig,
	log zerolog.Logger,
) *authService {
	return &authService{
		users:     users,
		tokens:    tokens,
		throttle:  throttle,
		twoFactor: twoFactor,
		activity:  activity,
		cfg:       cfg,
		log:       log.With().Str("service", "auth").Logger(),
	}
}

// Register creates a regular user account
func (s *authService) Register(ctx context.Context, input RegisterInput, meta RequestMeta) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	locale := input.PreferredLocale
	if !models.SupportedLocales[locale] {
		locale = models.DefaultLocale
	}

	user := &models.User{
		ID:              uuid.New().String(),
		Email:           email,
		Name:            input.Name,
		PasswordHash:    string(hash),
		Role:            models.RoleUser,
		PreferredLocale: locale,
		Active:          true,
		CreatedAt:       time.Now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, &user.ID, models.ActionCreate, "user", user.ID,
		nil, map[string]string{"email": user.Email, "role": user.Role},
		"user registered", meta)

	return user, nil
}

// Login authenticates a user. Throttle checks run before credential
// verification; when the throttle state cannot be read the caller is
// treated as blocked.
func (s *authService) Login(ctx context.Context, input LoginInput, meta RequestMeta) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if err := s.checkThrottle(ctx, meta.IP, email); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		s.throttle.RecordAttempt(ctx, meta.IP, email, false)
		return nil, ErrInvalidCredentials
	}

	if !user.Active {
		s.throttle.RecordAttempt(ctx, meta.IP, email, false)
		return nil, ErrAccountDeactivated
	}

	if user.TwoFactorEnabled() {
		result, err := s.completeTwoFactor(ctx, user, input, email, meta)
		if err != nil || result != nil {
			return result, err
		}
	}

	s.throttle.RecordAttempt(ctx, meta.IP, email, true)

	token, err := s.tokens.Create(ctx, user.ID, "api", time.Now().Add(s.cfg.TokenTTL))
	if err != nil {
		return nil, err
	}

	s.activity.Record(ctx, &user.ID, models.ActionLogin, "user", user.ID,
		nil, nil, "user logged in", meta)

	return &LoginResult{User: user, Token: token}, nil
}

// completeTwoFactor handles the second step of a 2FA login. Returns a
// non-nil result only for the requires_2fa challenge response; a nil, nil
// return means the second factor passed and login proceeds.
func (s *authService) completeTwoFactor(ctx context.Context, user *models.User, input LoginInput, email string, meta RequestMeta) (*LoginResult, error) {
	switch {
	case input.TwoFactorCode != "":
		if !s.twoFactor.Verify(user, input.TwoFactorCode) {
			s.throttle.RecordAttempt(ctx, meta.IP, email, false)
			return nil, ErrInvalidCode
		}
	case input.RecoveryCode != "":
		ok, err := s.twoFactor.VerifyRecoveryCode(ctx, user, input.RecoveryCode)
		if err != nil {
			return nil, err
		}
		if !ok {
			s.throttle.RecordAttempt(ctx, meta.IP, email, false)
			return nil, ErrInvalidCode
		}
	default:
		return &LoginResult{RequiresTwoFactor: true}, nil
	}
	return nil, nil
}

// checkThrottle enforces IP and email lockouts independently. Fails
// closed: a storage error during the check blocks the attempt.
func (s *authService) checkThrottle(ctx context.Context, ip, email string) error {
	ipBlocked, err := s.throttle.IsIPBlocked(ctx, ip)
	if err != nil {
		s.log.Error().Err(err).Str("ip", ip).Msg("IP block check failed, failing closed")
		return &ThrottledError{RetryAfterSeconds: 60}
	}
	if ipBlocked {
		remaining, err := s.throttle.IPBlockRemainingSeconds(ctx, ip)
		if err != nil {
			remaining = 60
		}
		return &ThrottledError{RetryAfterSeconds: remaining}
	}

	emailBlocked, err := s.throttle.IsEmailBlocked(ctx, email)
	if err != nil {
		s.log.Error().Err(err).Msg("Email block check failed, failing closed")
		return &ThrottledError{RetryAfterSeconds: 60}
	}
	if emailBlocked {
		remaining, err := s.throttle.EmailBlockRemainingSeconds(ctx, email)
		if err != nil {
			remaining = 60
		}
		return &ThrottledError{RetryAfterSeconds: remaining}
	}
	return nil
}

// Logout revokes every token the user holds
func (s *authService) Logout(ctx context.Context, user *models.User, meta RequestMeta) error {
	if err := s.tokens.DeleteUserTokens(ctx, user.ID); err != nil {
		return err
	}
	s.activity.Record(ctx, &user.ID, models.ActionLogout, "user", user.ID,
		nil, nil, "user logged out", meta)
	return nil
}

// ValidateToken resolves a bearer token to its user. Returns nil for
// unknown or expired tokens.
func (s *authService) ValidateToken(ctx context.Context, token string) (*models.User, error) {
	return s.tokens.FindUserByToken(ctx, token)
}
