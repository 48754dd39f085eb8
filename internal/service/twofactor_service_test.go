package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/rs/zerolog"

	"github.com/legal-portal-api/internal/config"
	"github.com/legal-portal-api/internal/mocks"
	"github.com/legal-portal-api/internal/models"
)

const testEncryptionKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

type twoFactorFixture struct {
	svc   *twoFactorService
	users *mocks.MockUserRepository
	user  *models.User
}

func newTwoFactorFixture(t *testing.T, role string) *twoFactorFixture {
	t.Helper()
	users := mocks.NewMockUserRepository()
	activitySvc := newActivityService(mocks.NewMockActivityLogRepository(), zerolog.Nop())
	cfg := &config.TwoFactorConfig{Issuer: "Test Portal", EncryptionKey: testEncryptionKey}

	svc, err := newTwoFactorService(users, activitySvc, cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("newTwoFactorService: %v", err)
	}

	user := &models.User{ID: "u1", Email: "user@example.com", Role: role, Active: true}
	users.Users[user.ID] = user
	return &twoFactorFixture{svc: svc, users: users, user: user}
}

// totpCode computes the currently valid TOTP code for a plaintext secret
func totpCode(t *testing.T, secret string) string {
	t.Helper()
	code, err := totp.GenerateCode(secret, time.Now())
	if err != nil {
		t.Fatalf("GenerateCode: %v", err)
	}
	return code
}

func TestGenerateSecretStagesSetup(t *testing.T) {
	f := newTwoFactorFixture(t, models.RoleUser)

	setup, err := f.svc.GenerateSecret(context.Background(), f.user, noMeta)
	if err != nil {
		t.Fatalf("GenerateSecret: %v", err)
	}
	if setup.Secret == "" {
		t.Error("expected a plaintext secret for the authenticator app")
	}
	if !strings.Contains(setup.QRCodeURL, "otpauth://totp/") {
		t.Errorf("QR URL %q is not a provisioning URI", setup.QRCodeURL)
	}
	if !strings.HasPrefix(setup.QRCodeSVG, "<svg") {
		t.Error("expected an inline SVG rendering")
	}

	// Staged, not enabled: no confirmation timestamp yet.
	if f.user.TwoFactorSecret == nil {
		t.Error("secret must be stored")
	}
	if f.user.TwoFactorSecret != nil && *f.user.TwoFactorSecret == setup.Secret {
		t.Error("stored secret must be encrypted, not plaintext")
	}
	if f.user.TwoFactorEnabled() {
		t.Error("2FA must not be enabled before confirmation")
	}
}

func TestConfirmSetupWithInvalidCode(t *testing.T) {
	f := newTwoFactorFixture(t, models.RoleUser)

	if _, err := f.svc.GenerateSecret(context.Background(), f.user, noMeta); err != nil {
		t.Fatalf("GenerateSecret: %v", err)
	}

	codes, err := f.svc.ConfirmSetup(context.Background(), f.user, "000000", noMeta)
	if err != ErrInvalidCode {
		t.Errorf("err = %v, want ErrInvalidCode", err)
	}
	if codes != nil {
		t.Error("no recovery codes may be issued on a failed confirmation")
	}
	if f.user.TwoFactorConfirmedAt != nil {
		t.Error("confirmation timestamp must stay null after a failed confirm")
	}
}

func TestConfirmSetupWithoutStagedSecret(t *testing.T) {
	f := newTwoFactorFixture(t, models.RoleUser)

	_, err := f.svc.ConfirmSetup(context.Background(), f.user, "123456", noMeta)
	if err != ErrTwoFactorNotStaged {
		t.Errorf("err = %v, want ErrTwoFactorNotStaged", err)
	}
}

func TestConfirmSetupActivates(t *testing.T) {
	f := newTwoFactorFixture(t, models.RoleUser)

	setup, err := f.svc.GenerateSecret(context.Background(), f.user, noMeta)
	if err != nil {
		t.Fatalf("GenerateSecret: %v", err)
	}

	codes, err := f.svc.ConfirmSetup(context.Background(), f.user, totpCode(t, setup.Secret), noMeta)
	if err != nil {
		t.Fatalf("ConfirmSetup: %v", err)
	}
	if len(codes) != recoveryCodeCount {
		t.Errorf("got %d recovery codes, want %d", len(codes), recoveryCodeCount)
	}
	if !f.user.TwoFactorEnabled() {
		t.Error("2FA must be enabled after confirmation")
	}

	status := f.svc.Status(f.user)
	if !status.Enabled || status.RecoveryCodesCount != recoveryCodeCount {
		t.Errorf("status = %+v, want enabled with full recovery set", status)
	}
}

func TestRecoveryCodeSingleUse(t *testing.T) {
	f := newTwoFactorFixture(t, models.RoleUser)
	ctx := context.Background()

	setup, _ := f.svc.GenerateSecret(ctx, f.user, noMeta)
	codes, err := f.svc.ConfirmSetup(ctx, f.user, totpCode(t, setup.Secret), noMeta)
	if err != nil {
		t.Fatalf("ConfirmSetup: %v", err)
	}

	used, err := f.svc.VerifyRecoveryCode(ctx, f.user, codes[0])
	if err != nil {
		t.Fatalf("VerifyRecoveryCode: %v", err)
	}
	if !used {
		t.Fatal("a fresh recovery code must verify")
	}

	again, err := f.svc.VerifyRecoveryCode(ctx, f.user, codes[0])
	if err != nil {
		t.Fatalf("VerifyRecoveryCode repeat: %v", err)
	}
	if again {
		t.Error("a consumed recovery code must never verify again")
	}

	if got := f.svc.Status(f.user).RecoveryCodesCount; got != recoveryCodeCount-1 {
		t.Errorf("remaining codes = %d, want %d", got, recoveryCodeCount-1)
	}
}

func TestDisableRefusedWhenMandatory(t *testing.T) {
	f := newTwoFactorFixture(t, models.RoleAdmin)
	ctx := context.Background()

	setup, _ := f.svc.GenerateSecret(ctx, f.user, noMeta)
	if _, err := f.svc.ConfirmSetup(ctx, f.user, totpCode(t, setup.Secret), noMeta); err != nil {
		t.Fatalf("ConfirmSetup: %v", err)
	}

	err := f.svc.Disable(ctx, f.user, totpCode(t, setup.Secret), noMeta)
	if err != ErrTwoFactorMandatory {
		t.Errorf("err = %v, want ErrTwoFactorMandatory", err)
	}
	if !f.user.TwoFactorEnabled() {
		t.Error("2FA must remain enabled for staff")
	}
}

func TestDisableClearsState(t *testing.T) {
	f := newTwoFactorFixture(t, models.RoleUser)
	ctx := context.Background()

	setup, _ := f.svc.GenerateSecret(ctx, f.user, noMeta)
	if _, err := f.svc.ConfirmSetup(ctx, f.user, totpCode(t, setup.Secret), noMeta); err != nil {
		t.Fatalf("ConfirmSetup: %v", err)
	}

	// A bad code is not enough.
	if err := f.svc.Disable(ctx, f.user, "000000", noMeta); err != ErrInvalidCode {
		t.Errorf("bad code: err = %v, want ErrInvalidCode", err)
	}

	if err := f.svc.Disable(ctx, f.user, totpCode(t, setup.Secret), noMeta); err != nil {
		t.Fatalf("Disable: %v", err)
	}
	if f.user.TwoFactorSecret != nil || f.user.RecoveryCodes != nil || f.user.TwoFactorConfirmedAt != nil {
		t.Error("disable must clear secret, recovery codes and confirmation")
	}
}

func TestRegenerateInvalidatesOldCodes(t *testing.T) {
	f := newTwoFactorFixture(t, models.RoleUser)
	ctx := context.Background()

	setup, _ := f.svc.GenerateSecret(ctx, f.user, noMeta)
	oldCodes, err := f.svc.ConfirmSetup(ctx, f.user, totpCode(t, setup.Secret), noMeta)
	if err != nil {
		t.Fatalf("ConfirmSetup: %v", err)
	}

	newCodes, err := f.svc.RegenerateRecoveryCodes(ctx, f.user, totpCode(t, setup.Secret), noMeta)
	if err != nil {
		t.Fatalf("RegenerateRecoveryCodes: %v", err)
	}
	if len(newCodes) != recoveryCodeCount {
		t.Errorf("got %d new codes, want %d", len(newCodes), recoveryCodeCount)
	}

	used, _ := f.svc.VerifyRecoveryCode(ctx, f.user, oldCodes[0])
	if used {
		t.Error("old recovery codes must be invalid after regeneration")
	}
}

func TestVerifyAcceptsCurrentCodeOnly(t *testing.T) {
	f := newTwoFactorFixture(t, models.RoleUser)

	setup, _ := f.svc.GenerateSecret(context.Background(), f.user, noMeta)

	if !f.svc.Verify(f.user, totpCode(t, setup.Secret)) {
		t.Error("current TOTP code must verify")
	}
	if f.svc.Verify(f.user, "000000") {
		t.Error("arbitrary code must not verify")
	}
}
