package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sfinpay/backoffice/internal/config"
	"github.com/sfinpay/backoffice/internal/domain"
	"github.com/sfinpay/backoffice/internal/repository"
	apperrors "github.com/sfinpay/backoffice/pkg/util"
)

type sentCode struct {
	to   string
	code string
}

type fakeSender struct {
	sent []sentCode
	err  error
}

func (f *fakeSender) SendOTP(_ context.Context, to, code string, _ time.Time) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentCode{to: to, code: code})
	return nil
}

func (f *fakeSender) last() string {
	return f.sent[len(f.sent)-1].code
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func testAuthConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:     "test-secret",
			AdminEmail:    "admin@sfinpay.test",
			AdminPassword: "correct horse",
		},
		OTP: config.OTPConfig{Length: 6, TTLSeconds: 300, MaxAttempts: 5},
	}
}

func newAuthService(t *testing.T, cfg config.Config) (*AuthService, *fakeSender, *repository.MemoryOTPRepository, *clock) {
	t.Helper()
	sender := &fakeSender{}
	otps := repository.NewMemoryOTPRepository(cfg.OTP.MaxAttempts)
	clk := &clock{t: time.Now()}
	svc := NewAuthService(cfg, AuthDependencies{OTPRepo: otps, Sender: sender, Now: clk.now})
	return svc, sender, otps, clk
}

func statusOf(err error) int {
	return apperrors.ToDomainError(err).HTTPStatus
}

func TestLoginIssuesCodeAndPreOTPToken(t *testing.T) {
	svc, sender, _, _ := newAuthService(t, testAuthConfig())

	res, err := svc.Login(context.Background(), "admin@sfinpay.test", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "/admin/verify-otp", res.Next)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "admin@sfinpay.test", sender.sent[0].to)
	assert.Len(t, sender.last(), 6)

	claims, err := svc.TokenManager().ParsePreOTP(res.Token.Value)
	require.NoError(t, err)
	assert.Equal(t, "admin@sfinpay.test", claims.Email)
}

func TestLoginRejectsBadCredentialsGenerically(t *testing.T) {
	svc, sender, _, _ := newAuthService(t, testAuthConfig())

	for _, tc := range []struct{ email, password string }{
		{"admin@sfinpay.test", "wrong"},
		{"other@sfinpay.test", "correct horse"},
		{"", ""},
	} {
		_, err := svc.Login(context.Background(), tc.email, tc.password)
		require.Error(t, err)
		de := apperrors.ToDomainError(err)
		assert.Equal(t, http.StatusUnauthorized, de.HTTPStatus)
		assert.Equal(t, MsgLoginFailed, de.Message)
	}
	assert.Empty(t, sender.sent)
}

func TestLoginMissingSecrets(t *testing.T) {
	cfg := testAuthConfig()
	cfg.Auth.JWTSecret = ""
	svc, _, _, _ := newAuthService(t, cfg)

	_, err := svc.Login(context.Background(), "admin@sfinpay.test", "correct horse")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeConfigMissing))
	assert.Equal(t, http.StatusInternalServerError, statusOf(err))
}

func TestLoginDeliveryFailureDiscardsCode(t *testing.T) {
	svc, sender, otps, clk := newAuthService(t, testAuthConfig())
	sender.err = errors.New("smtp down")

	_, err := svc.Login(context.Background(), "admin@sfinpay.test", "correct horse")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeDependencyFailed))

	assert.ErrorIs(t, otps.Consume(context.Background(), "admin@sfinpay.test", "000000", clk.t), domain.ErrOTPNotActive)
}

func TestVerifyOTPAcceptsCodeOnce(t *testing.T) {
	svc, sender, _, _ := newAuthService(t, testAuthConfig())
	login, err := svc.Login(context.Background(), "admin@sfinpay.test", "correct horse")
	require.NoError(t, err)

	res, err := svc.VerifyOTP(context.Background(), login.Token.Value, sender.last())
	require.NoError(t, err)
	assert.Equal(t, "/admin/inquiries", res.Next)

	claims, err := svc.TokenManager().ParseSession(res.Token.Value)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Role)

	_, err = svc.VerifyOTP(context.Background(), login.Token.Value, sender.last())
	require.Error(t, err)
	assert.Equal(t, MsgOTPNoSession, apperrors.ToDomainError(err).Message)
	assert.Equal(t, http.StatusBadRequest, statusOf(err))
}

func TestVerifyOTPOutcomes(t *testing.T) {
	svc, sender, _, clk := newAuthService(t, testAuthConfig())
	login, err := svc.Login(context.Background(), "admin@sfinpay.test", "correct horse")
	require.NoError(t, err)
	code := sender.last()

	_, err = svc.VerifyOTP(context.Background(), login.Token.Value, "  ")
	assert.Equal(t, http.StatusBadRequest, statusOf(err))
	assert.Equal(t, MsgOTPRequired, apperrors.ToDomainError(err).Message)

	_, err = svc.VerifyOTP(context.Background(), "not-a-token", code)
	assert.Equal(t, MsgOTPNoSession, apperrors.ToDomainError(err).Message)

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	_, err = svc.VerifyOTP(context.Background(), login.Token.Value, wrong)
	assert.Equal(t, http.StatusUnauthorized, statusOf(err))
	assert.Equal(t, MsgOTPMismatch, apperrors.ToDomainError(err).Message)

	clk.t = clk.t.Add(6 * time.Minute)
	_, err = svc.VerifyOTP(context.Background(), login.Token.Value, code)
	assert.Equal(t, http.StatusUnauthorized, statusOf(err))
	assert.Equal(t, MsgOTPExpired, apperrors.ToDomainError(err).Message)

	// the expired record is gone
	_, err = svc.VerifyOTP(context.Background(), login.Token.Value, code)
	assert.Equal(t, MsgOTPNoSession, apperrors.ToDomainError(err).Message)
}

func TestSecondLoginReplacesCode(t *testing.T) {
	svc, sender, _, _ := newAuthService(t, testAuthConfig())
	first, err := svc.Login(context.Background(), "admin@sfinpay.test", "correct horse")
	require.NoError(t, err)
	oldCode := sender.last()

	second, err := svc.Login(context.Background(), "admin@sfinpay.test", "correct horse")
	require.NoError(t, err)
	newCode := sender.last()

	if oldCode != newCode {
		_, err = svc.VerifyOTP(context.Background(), first.Token.Value, oldCode)
		assert.Equal(t, MsgOTPMismatch, apperrors.ToDomainError(err).Message)
	}
	_, err = svc.VerifyOTP(context.Background(), second.Token.Value, newCode)
	assert.NoError(t, err)
}
