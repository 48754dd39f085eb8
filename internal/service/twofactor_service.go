package service

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"github.com/rs/zerolog"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/legal-portal-api/internal/config"
	"github.com/legal-portal-api/internal/models"
	"github.com/legal-portal-api/internal/repository"
	"github.com/legal-portal-api/pkg/crypto"
)

const (
	recoveryCodeCount  = 8
	recoveryCodeLength = 10
)

// twoFactorService is the concrete implementation of TwoFactorService
type twoFactorService struct {
	users     repository.UserRepository
	activity  ActivityService
	encryptor *crypto.Encryptor
	issuer    string
	log       zerolog.Logger
}

func newTwoFactorService(users repository.UserRepository, activity ActivityService, cfg *config.TwoFactorConfig, log zerolog.Logger) (*twoFactorService, error) {
	encryptor, err := crypto.NewEncryptor(cfg.DecodedKey())
	if err != nil {
		return nil, fmt.Errorf("failed to init 2FA encryptor: %w", err)
	}
	return &twoFactorService{
		users:     users,
		activity:  activity,
		encryptor: encryptor,
		issuer:    cfg.Issuer,
		log:       log.With().Str("service", "twofactor").Logger(),
	}, nil
}

// GenerateSecret stages a fresh TOTP secret for the user. Any
// half-completed prior setup is abandoned: the confirmation timestamp and
// recovery codes are cleared along with the old secret.
func (s *twoFactorService) GenerateSecret(ctx context.Context, user *models.User, meta RequestMeta) (*TwoFactorSetup, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.issuer,
		AccountName: user.Email,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate TOTP secret: %w", err)
	}

	encrypted, err := s.encryptor.Encrypt(key.Secret())
	if err != nil {
		return nil, err
	}

	if err := s.users.UpdateTwoFactor(ctx, user.ID, &encrypted, nil, nil); err != nil {
		return nil, err
	}
	user.TwoFactorSecret = &encrypted
	user.RecoveryCodes = nil
	user.TwoFactorConfirmedAt = nil

	svg, err := qrCodeSVG(key.URL())
	if err != nil {
		return nil, err
	}

	return &TwoFactorSetup{
		Secret:    key.Secret(),
		QRCodeURL: key.URL(),
		QRCodeSVG: svg,
	}, nil
}

// ConfirmSetup verifies the first code against the staged secret and
// activates 2FA. The plaintext recovery codes are returned exactly once.
func (s *twoFactorService) ConfirmSetup(ctx context.Context, user *models.User, code string, meta RequestMeta) ([]string, error) {
	if user.TwoFactorSecret == nil {
		return nil, ErrTwoFactorNotStaged
	}
	if !s.Verify(user, code) {
		return nil, ErrInvalidCode
	}

	codes, encrypted, err := s.newRecoveryCodes()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.users.UpdateTwoFactor(ctx, user.ID, user.TwoFactorSecret, &encrypted, &now); err != nil {
		return nil, err
	}
	user.RecoveryCodes = &encrypted
	user.TwoFactorConfirmedAt = &now

	s.activity.Record(ctx, &user.ID, models.ActionEnable, "user", user.ID,
		nil, nil, "two-factor auth enabled", meta)

	return codes, nil
}

// Disable turns 2FA off after verifying a current code. Refused for
// roles where 2FA is mandatory; those need an admin override.
func (s *twoFactorService) Disable(ctx context.Context, user *models.User, code string, meta RequestMeta) error {
	if s.IsRequired(user) {
		return ErrTwoFactorMandatory
	}
	if !user.TwoFactorEnabled() {
		return ErrTwoFactorNotEnabled
	}
	if !s.Verify(user, code) {
		return ErrInvalidCode
	}

	if err := s.users.UpdateTwoFactor(ctx, user.ID, nil, nil, nil); err != nil {
		return err
	}
	user.TwoFactorSecret = nil
	user.RecoveryCodes = nil
	user.TwoFactorConfirmedAt = nil

	s.activity.Record(ctx, &user.ID, models.ActionDisable, "user", user.ID,
		nil, nil, "two-factor auth disabled", meta)

	return nil
}

// Verify checks a TOTP code against the user's secret with one period of
// clock-skew tolerance. The decrypted secret never leaves this function.
func (s *twoFactorService) Verify(user *models.User, code string) bool {
	if user.TwoFactorSecret == nil {
		return false
	}
	secret, err := s.encryptor.Decrypt(*user.TwoFactorSecret)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to decrypt 2FA secret")
		return false
	}
	valid, err := totp.ValidateCustom(code, secret, time.Now(), totp.ValidateOpts{
		Period:    30,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	return err == nil && valid
}

// VerifyRecoveryCode consumes a matching recovery code. Each code works
// exactly once.
func (s *twoFactorService) VerifyRecoveryCode(ctx context.Context, user *models.User, code string) (bool, error) {
	codes, err := s.decryptRecoveryCodes(user)
	if err != nil {
		return false, err
	}

	match := -1
	for i, c := range codes {
		if c == code {
			match = i
			break
		}
	}
	if match < 0 {
		return false, nil
	}

	remaining := append(codes[:match], codes[match+1:]...)
	encrypted, err := s.encryptRecoveryCodes(remaining)
	if err != nil {
		return false, err
	}
	if err := s.users.UpdateTwoFactor(ctx, user.ID, user.TwoFactorSecret, &encrypted, user.TwoFactorConfirmedAt); err != nil {
		return false, err
	}
	user.RecoveryCodes = &encrypted
	return true, nil
}

// RegenerateRecoveryCodes replaces the whole recovery set, invalidating
// the old codes. Requires a valid current TOTP code.
func (s *twoFactorService) RegenerateRecoveryCodes(ctx context.Context, user *models.User, code string, meta RequestMeta) ([]string, error) {
	if !user.TwoFactorEnabled() {
		return nil, ErrTwoFactorNotEnabled
	}
	if !s.Verify(user, code) {
		return nil, ErrInvalidCode
	}

	codes, encrypted, err := s.newRecoveryCodes()
	if err != nil {
		return nil, err
	}
	if err := s.users.UpdateTwoFactor(ctx, user.ID, user.TwoFactorSecret, &encrypted, user.TwoFactorConfirmedAt); err != nil {
		return nil, err
	}
	user.RecoveryCodes = &encrypted

	s.activity.Record(ctx, &user.ID, models.ActionUpdate, "user", user.ID,
		nil, nil, "two-factor recovery codes regenerated", meta)

	return codes, nil
}

// IsRequired reports whether the role policy mandates 2FA. Staff accounts
// must keep it on.
func (s *twoFactorService) IsRequired(user *models.User) bool {
	return user.IsStaff()
}

// Status summarizes the user's 2FA state
func (s *twoFactorService) Status(user *models.User) TwoFactorStatus {
	status := TwoFactorStatus{
		Enabled:  user.TwoFactorEnabled(),
		Required: s.IsRequired(user),
	}
	if codes, err := s.decryptRecoveryCodes(user); err == nil {
		status.RecoveryCodesCount = len(codes)
	}
	return status
}

func (s *twoFactorService) newRecoveryCodes() ([]string, string, error) {
	codes := make([]string, recoveryCodeCount)
	for i := range codes {
		code, err := generateRecoveryCode()
		if err != nil {
			return nil, "", err
		}
		codes[i] = code
	}
	encrypted, err := s.encryptRecoveryCodes(codes)
	if err != nil {
		return nil, "", err
	}
	return codes, encrypted, nil
}

func (s *twoFactorService) encryptRecoveryCodes(codes []string) (string, error) {
	data, err := json.Marshal(codes)
	if err != nil {
		return "", err
	}
	return s.encryptor.Encrypt(string(data))
}

func (s *twoFactorService) decryptRecoveryCodes(user *models.User) ([]string, error) {
	if user.RecoveryCodes == nil {
		return nil, nil
	}
	plain, err := s.encryptor.Decrypt(*user.RecoveryCodes)
	if err != nil {
		return nil, err
	}
	var codes []string
	if err := json.Unmarshal([]byte(plain), &codes); err != nil {
		return nil, err
	}
	return codes, nil
}

const recoveryAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func generateRecoveryCode() (string, error) {
	buf := make([]byte, recoveryCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	var b strings.Builder
	for i, c := range buf {
		if i == recoveryCodeLength/2 {
			b.WriteByte('-')
		}
		b.WriteByte(recoveryAlphabet[int(c)%len(recoveryAlphabet)])
	}
	return b.String(), nil
}

// qrCodeSVG renders the provisioning URI as an inline SVG for clients
// that cannot load image URLs.
func qrCodeSVG(url string) (string, error) {
	qr, err := qrcode.New(url, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("failed to build QR code: %w", err)
	}

	bitmap := qr.Bitmap()
	size := len(bitmap)

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" shape-rendering="crispEdges">`, size, size)
	b.WriteString(`<rect width="100%" height="100%" fill="#ffffff"/>`)
	for y, row := range bitmap {
		for x, dark := range row {
			if dark {
				fmt.Fprintf(&b, `<rect x="%d" y="%d" width="1" height="1" fill="#000000"/>`, x, y)
			}
		}
	}
	b.WriteString(`</svg>`)
	return b.String(), nil
}
