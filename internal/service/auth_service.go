package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sfinpay/backoffice/internal/auth"
	"github.com/sfinpay/backoffice/internal/config"
	"github.com/sfinpay/backoffice/internal/domain"
	"github.com/sfinpay/backoffice/internal/mail"
	"github.com/sfinpay/backoffice/internal/observability"
	"github.com/sfinpay/backoffice/internal/repository"
	apperrors "github.com/sfinpay/backoffice/pkg/util"
)

// User-facing messages for the admin login flow.
const (
	MsgLoginFailed  = "인증 실패"
	MsgOTPRequired  = "OTP를 입력해주세요."
	MsgOTPNoSession = "OTP 세션이 존재하지 않습니다. 다시 로그인해주세요."
	MsgOTPExpired   = "OTP가 만료되었습니다. 다시 로그인해주세요."
	MsgOTPMismatch  = "잘못된 OTP입니다."
	MsgOTPVerified  = "OTP 인증이 완료되었습니다."
)

// AuthService coordinates the two-step admin login.
type AuthService struct {
	cfg     config.AuthConfig
	otpCfg  config.OTPConfig
	tokens  *auth.TokenManager
	otps    repository.OTPRepository
	sender  mail.OTPSender
	metrics *observability.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	Tokens  *auth.TokenManager
	OTPRepo repository.OTPRepository
	Sender  mail.OTPSender
	Metrics *observability.Metrics
	Logger  *zap.Logger
	Now     func() time.Time
}

// LoginResult carries the pre-verification token for the cookie.
type LoginResult struct {
	Token domain.IssuedToken
	Next  string
}

// VerifyResult carries the session token for the cookie.
type VerifyResult struct {
	Token domain.IssuedToken
	Next  string
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	tokens := deps.Tokens
	if tokens == nil {
		tokens = auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.PreOTPTokenTTL(), cfg.Auth.SessionTTL())
	}
	return &AuthService{
		cfg:     cfg.Auth,
		otpCfg:  cfg.OTP,
		tokens:  tokens,
		otps:    deps.OTPRepo,
		sender:  deps.Sender,
		metrics: deps.Metrics,
		logger:  logger,
		now:     now,
	}
}

// TokenManager exposes the token manager shared with the middlewares.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

// Login checks the admin credentials, issues a fresh one-time code and
// returns the pre-verification token. Any earlier code is overwritten.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if missing := s.cfg.MissingSecrets(); len(missing) > 0 {
		return nil, apperrors.NewConfigError(missing...)
	}
	if email == "" || password == "" || !auth.CheckCredentials(s.cfg.AdminEmail, s.cfg.AdminPassword, email, password) {
		s.logger.Warn("admin login rejected")
		return nil, apperrors.NewUnauthorized(MsgLoginFailed)
	}

	code, err := auth.GenerateCode(s.otpCfg.Length)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	expiresAt := s.now().Add(s.otpCfg.TTL())
	key := otpKey(s.cfg.AdminEmail)

	if err := s.otps.Save(ctx, key, domain.OneTimeCode{Code: code, ExpiresAt: expiresAt}); err != nil {
		return nil, apperrors.NewDependencyError("otp store", err)
	}

	recipient := s.otpCfg.Recipient
	if strings.TrimSpace(recipient) == "" {
		recipient = s.cfg.AdminEmail
	}
	if err := s.sender.SendOTP(ctx, recipient, code, expiresAt); err != nil {
		if delErr := s.otps.Delete(ctx, key); delErr != nil {
			s.logger.Warn("discard undelivered otp", zap.Error(delErr))
		}
		return nil, apperrors.NewDependencyError("otp mail", err)
	}

	token, err := s.tokens.IssuePreOTP(s.cfg.AdminEmail)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	s.logger.Info("admin otp issued", zap.Time("expires_at", expiresAt))
	return &LoginResult{Token: token, Next: auth.VerifyOTPPath}, nil
}

// VerifyOTP redeems the code for the admin named by the pre-verification
// token. A code is accepted at most once.
func (s *AuthService) VerifyOTP(ctx context.Context, preOTPToken, code string) (*VerifyResult, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, apperrors.NewValidationError(MsgOTPRequired, nil)
	}
	if missing := s.cfg.MissingSecrets(); len(missing) > 0 {
		return nil, apperrors.NewConfigError(missing...)
	}

	claims, err := s.tokens.ParsePreOTP(preOTPToken)
	if err != nil {
		s.metrics.RecordOTP("no_session")
		return nil, otpNotActive()
	}

	err = s.otps.Consume(ctx, otpKey(claims.Email), code, s.now())
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrOTPNotActive):
		s.metrics.RecordOTP("not_active")
		return nil, otpNotActive()
	case errors.Is(err, domain.ErrOTPExpired):
		s.metrics.RecordOTP("expired")
		return nil, apperrors.NewDomainError(apperrors.CodeUnauthorized, MsgOTPExpired, http.StatusUnauthorized,
			map[string]any{"reason": "expired"})
	case errors.Is(err, domain.ErrOTPMismatch):
		s.metrics.RecordOTP("mismatch")
		return nil, apperrors.NewDomainError(apperrors.CodeUnauthorized, MsgOTPMismatch, http.StatusUnauthorized,
			map[string]any{"reason": "mismatch"})
	default:
		return nil, apperrors.NewDependencyError("otp store", err)
	}

	token, err := s.tokens.IssueSession(claims.Email)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	s.metrics.RecordOTP(observability.ResultSuccess)
	s.logger.Info("admin session issued")
	return &VerifyResult{Token: token, Next: auth.DashboardPath}, nil
}

func otpNotActive() error {
	return apperrors.NewDomainError(apperrors.CodeValidationFailed, MsgOTPNoSession, http.StatusBadRequest,
		map[string]any{"reason": "not_active"})
}

func otpKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
