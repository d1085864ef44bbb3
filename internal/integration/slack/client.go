package slack

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	slackapi "github.com/slack-go/slack"

	"github.com/sfinpay/backoffice/internal/config"
	"github.com/sfinpay/backoffice/internal/domain"
	apperrors "github.com/sfinpay/backoffice/pkg/util"
)

// Button action ids carried back by the interactivity callback.
const (
	ActionMarkDone       = "mark_done"
	ActionMarkInProgress = "mark_in_progress"
)

// Client posts inquiry notifications to an incoming webhook.
type Client struct {
	cfg        config.NotificationConfig
	httpClient *http.Client
}

// NewClient builds a webhook client from notification settings.
func NewClient(cfg config.NotificationConfig) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout()},
	}
}

// PostInquiry announces a new inquiry with status buttons.
func (c *Client) PostInquiry(ctx context.Context, inquiry domain.Inquiry) error {
	if missing := c.cfg.MissingChatSecrets(); len(missing) > 0 {
		return apperrors.NewConfigError(missing...)
	}
	if err := slackapi.PostWebhookCustomHTTPContext(ctx, c.cfg.SlackWebhookURL, c.httpClient, InquiryMessage(inquiry)); err != nil {
		return fmt.Errorf("slack webhook: %w", err)
	}
	return nil
}

// InquiryMessage renders the Block Kit message for a new inquiry.
func InquiryMessage(inquiry domain.Inquiry) *slackapi.WebhookMessage {
	inquiryType := inquiry.Type
	if strings.TrimSpace(inquiryType) == "" {
		inquiryType = "미입력"
	}
	summary := fmt.Sprintf(
		"📢 *새 문의 도착 (SFIN PAY)*\n━━━━━━━━━━━━━━━\n🏢 *회사명:* %s\n📧 *이메일:* %s\n💬 *문의유형:* %s\n📝 *내용:* %s\n🕒 *수신시각:* %s",
		inquiry.Company, inquiry.Email, inquiryType, inquiry.Message, domain.FormatKorean(inquiry.CreatedAt),
	)

	done := slackapi.NewButtonBlockElement(ActionMarkDone, inquiry.ID,
		slackapi.NewTextBlockObject(slackapi.PlainTextType, "✅ "+domain.InquiryStatusDone.ChatLabel(), true, false)).
		WithStyle(slackapi.StylePrimary)
	inProgress := slackapi.NewButtonBlockElement(ActionMarkInProgress, inquiry.ID,
		slackapi.NewTextBlockObject(slackapi.PlainTextType, "⏳ "+domain.InquiryStatusInProgress.ChatLabel(), true, false)).
		WithStyle(slackapi.StyleDanger)

	return &slackapi.WebhookMessage{
		Text: fmt.Sprintf("새 문의 도착: %s", inquiry.Company),
		Blocks: &slackapi.Blocks{BlockSet: []slackapi.Block{
			slackapi.NewSectionBlock(slackapi.NewTextBlockObject(slackapi.MarkdownType, summary, false, false), nil, nil),
			slackapi.NewActionBlock("inquiry_status", done, inProgress),
		}},
	}
}
