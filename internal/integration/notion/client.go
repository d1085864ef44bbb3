package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sfinpay/backoffice/internal/config"
	"github.com/sfinpay/backoffice/internal/domain"
	apperrors "github.com/sfinpay/backoffice/pkg/util"
)

// Client writes inquiries to the CRM database.
type Client struct {
	cfg        config.NotificationConfig
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a CRM client from notification settings.
func NewClient(cfg config.NotificationConfig) *Client {
	return &Client{
		cfg:        cfg,
		baseURL:    strings.TrimRight(cfg.NotionBaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout()},
	}
}

// CreateInquiryPage records a new inquiry and returns the CRM page id.
func (c *Client) CreateInquiryPage(ctx context.Context, inquiry domain.Inquiry) (string, error) {
	if missing := c.cfg.MissingCRMSecrets(); len(missing) > 0 {
		return "", apperrors.NewConfigError(missing...)
	}

	receivedAt := inquiry.CreatedAt
	if receivedAt.IsZero() {
		receivedAt = time.Now()
	}

	body := createPageRequest{
		Parent: parent{DatabaseID: c.cfg.NotionDatabaseID},
		Properties: map[string]property{
			propCompany:    {Title: text(inquiry.Company)},
			propEmail:      {Email: inquiry.Email},
			propType:       {RichText: text(inquiry.Type)},
			propMessage:    {RichText: text(inquiry.Message)},
			propStatus:     {Select: &selectOption{Name: inquiry.Status.Label()}},
			propReceivedAt: {Date: &dateValue{Start: receivedAt.UTC().Format(time.RFC3339)}},
		},
	}

	var page pageResponse
	if err := c.do(ctx, http.MethodPost, "/pages", body, &page); err != nil {
		return "", err
	}
	if page.ID == "" {
		return "", fmt.Errorf("notion: create page returned no id")
	}
	return page.ID, nil
}

// UpdateStatus sets the status select of an existing CRM page.
func (c *Client) UpdateStatus(ctx context.Context, pageID string, status domain.InquiryStatus) error {
	if strings.TrimSpace(c.cfg.NotionSecret) == "" {
		return apperrors.NewConfigError("NOTION_SECRET")
	}
	body := updatePageRequest{
		Properties: map[string]property{
			propStatus: {Select: &selectOption{Name: status.Label()}},
		},
	}
	return c.do(ctx, http.MethodPatch, "/pages/"+pageID, body, nil)
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.NotionSecret)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Notion-Version", c.cfg.NotionVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notion %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("notion %s %s: status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(respBody, out)
}

func text(content string) []richText {
	runes := []rune(content)
	if len(runes) > maxRichText {
		content = string(runes[:maxRichText])
	}
	return []richText{{Text: textContent{Content: content}}}
}
