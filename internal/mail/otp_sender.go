package mail

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/sfinpay/backoffice/internal/config"
)

// OTPSender delivers one-time codes to the admin out of band.
type OTPSender interface {
	SendOTP(ctx context.Context, to, code string, expiresAt time.Time) error
}

// SMTPSender delivers codes through an SMTP relay.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPSender builds a sender from SMTP settings.
func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *SMTPSender) SendOTP(ctx context.Context, to, code string, expiresAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "[SFIN PAY] 관리자 로그인 OTP 코드")
	m.SetBody("text/plain", OTPBody(code, expiresAt))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send otp mail: %w", err)
	}
	return nil
}

// OTPBody renders the plain-text message.
func OTPBody(code string, expiresAt time.Time) string {
	minutes := int(time.Until(expiresAt).Round(time.Minute).Minutes())
	if minutes <= 0 {
		minutes = 1
	}
	return fmt.Sprintf("SFIN PAY 관리자 로그인 OTP 코드: %s\n\n이 코드는 %d분간 유효하며 한 번만 사용할 수 있습니다.\n본인이 요청하지 않았다면 즉시 관리자 비밀번호를 변경하세요.\n", code, minutes)
}

// LogSender stands in for SMTP when it is not configured. The code itself is
// only written in development.
type LogSender struct {
	logger *zap.Logger
	reveal bool
}

// NewLogSender constructs a log-only sender.
func NewLogSender(logger *zap.Logger, reveal bool) *LogSender {
	return &LogSender{logger: logger, reveal: reveal}
}

func (s *LogSender) SendOTP(_ context.Context, to, code string, expiresAt time.Time) error {
	fields := []zap.Field{zap.String("to", to), zap.Time("expires_at", expiresAt)}
	if s.reveal {
		fields = append(fields, zap.String("code", code))
	}
	s.logger.Warn("SMTP not configured; otp not mailed", fields...)
	return nil
}
