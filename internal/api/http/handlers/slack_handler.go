package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/sfinpay/backoffice/internal/api/dto"
	"github.com/sfinpay/backoffice/internal/events"
	"github.com/sfinpay/backoffice/internal/integration/slack"
	"github.com/sfinpay/backoffice/internal/service"
	apperrors "github.com/sfinpay/backoffice/pkg/util"
)

// SlackHandler receives interactivity callbacks from the inquiry message buttons.
type SlackHandler struct {
	inquiries     *service.InquiryService
	signingSecret string
}

// NewSlackHandler constructs handler.
func NewSlackHandler(inquiries *service.InquiryService, signingSecret string) *SlackHandler {
	return &SlackHandler{inquiries: inquiries, signingSecret: signingSecret}
}

// Actions handles POST /api/slack/actions.
func (h *SlackHandler) Actions(c *fiber.Ctx) error {
	if h.signingSecret == "" {
		return apperrors.NewConfigError("SLACK_SIGNING_SECRET")
	}
	body := c.Body()
	if err := slack.VerifyRequest(c.Get("X-Slack-Signature"), c.Get("X-Slack-Request-Timestamp"), body, h.signingSecret); err != nil {
		return apperrors.NewUnauthorized("invalid request signature")
	}

	action, err := slack.ParseAction(body)
	if err != nil {
		if errors.Is(err, slack.ErrNoAction) {
			return apperrors.NewMissingField("문의 ID가 누락되었습니다.", "actions")
		}
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if action.Value == "" {
		return apperrors.NewMissingField("문의 ID가 누락되었습니다.", "value")
	}

	updated, err := h.inquiries.UpdateStatus(c.UserContext(), action.Value, string(action.Status()), events.SourceChat)
	if err != nil {
		return err
	}
	return c.JSON(dto.SlackReply{
		ResponseType:    "ephemeral",
		Text:            service.ChatStatusMessage(updated.Status),
		ReplaceOriginal: false,
	})
}
