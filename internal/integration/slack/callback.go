package slack

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	slackapi "github.com/slack-go/slack"

	"github.com/sfinpay/backoffice/internal/domain"
)

// ErrNoAction is returned when the callback carries no usable button action.
var ErrNoAction = errors.New("slack payload has no action")

// Action is the first button action of an interactivity callback.
type Action struct {
	ActionID string
	Value    string
	Text     string
	UserName string
	UserID   string
}

// VerifyRequest checks the request signature against the app signing secret.
func VerifyRequest(signature, timestamp string, body []byte, signingSecret string) error {
	header := http.Header{}
	header.Set("X-Slack-Signature", signature)
	header.Set("X-Slack-Request-Timestamp", timestamp)

	verifier, err := slackapi.NewSecretsVerifier(header, signingSecret)
	if err != nil {
		return err
	}
	if _, err := verifier.Write(body); err != nil {
		return err
	}
	return verifier.Ensure()
}

// ParseAction extracts the first action from a form-encoded callback body.
// Block Kit buttons are preferred; legacy attachment buttons are mapped by
// name and label.
func ParseAction(body []byte) (*Action, error) {
	form, err := url.ParseQuery(string(body))
	if err != nil {
		return nil, fmt.Errorf("parse form: %w", err)
	}
	raw := form.Get("payload")
	if raw == "" {
		return nil, ErrNoAction
	}

	var callback slackapi.InteractionCallback
	if err := json.Unmarshal([]byte(raw), &callback); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}

	action := &Action{UserName: callback.User.Name, UserID: callback.User.ID}
	switch actions := callback.ActionCallback; {
	case len(actions.BlockActions) > 0:
		first := actions.BlockActions[0]
		action.ActionID = first.ActionID
		action.Value = strings.TrimSpace(first.Value)
		action.Text = first.Text.Text
	case len(actions.AttachmentActions) > 0:
		first := actions.AttachmentActions[0]
		action.ActionID = first.Name
		action.Value = strings.TrimSpace(first.Value)
		action.Text = first.Text
	default:
		return nil, ErrNoAction
	}
	return action, nil
}

// Status maps a button to the status it sets. Buttons from older messages
// carry no known action id and are resolved by their label.
func (a Action) Status() domain.InquiryStatus {
	switch a.ActionID {
	case ActionMarkDone:
		return domain.InquiryStatusDone
	case ActionMarkInProgress:
		return domain.InquiryStatusInProgress
	}
	if strings.Contains(a.Text, "완료") {
		return domain.InquiryStatusDone
	}
	return domain.InquiryStatusInProgress
}
