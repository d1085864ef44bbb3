package notion

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sfinpay/backoffice/internal/config"
	"github.com/sfinpay/backoffice/internal/domain"
	apperrors "github.com/sfinpay/backoffice/pkg/util"
)

func testConfig(baseURL string) config.NotificationConfig {
	return config.NotificationConfig{
		NotionSecret:       "secret_abc",
		NotionDatabaseID:   "db-1",
		NotionBaseURL:      baseURL,
		NotionVersion:      "2022-06-28",
		HTTPTimeoutSeconds: 2,
	}
}

func TestCreateInquiryPage(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/pages", r.URL.Path)
		assert.Equal(t, "Bearer secret_abc", r.Header.Get("Authorization"))
		assert.Equal(t, "2022-06-28", r.Header.Get("Notion-Version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"id":"page-123"}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	id, err := client.CreateInquiryPage(context.Background(), domain.Inquiry{
		ID:        "inq-1",
		Company:   "Acme",
		Email:     "a@b.com",
		Type:      domain.DefaultInquiryType,
		Message:   strings.Repeat("가", maxRichText+10),
		Status:    domain.InquiryStatusNew,
		CreatedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	})

	require.NoError(t, err)
	assert.Equal(t, "page-123", id)

	props := got["properties"].(map[string]any)
	status := props[propStatus].(map[string]any)["select"].(map[string]any)
	assert.Equal(t, "신규", status["name"])
	assert.Equal(t, "a@b.com", props[propEmail].(map[string]any)["email"])
	assert.Equal(t, "2025-01-02T03:04:05Z", props[propReceivedAt].(map[string]any)["date"].(map[string]any)["start"])

	content := props[propMessage].(map[string]any)["rich_text"].([]any)[0].(map[string]any)["text"].(map[string]any)["content"].(string)
	assert.Len(t, []rune(content), maxRichText)
	assert.Equal(t, "db-1", got["parent"].(map[string]any)["database_id"])
}

func TestCreateInquiryPageErrors(t *testing.T) {
	t.Run("non-success status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"message":"bad"}`, http.StatusBadRequest)
		}))
		defer srv.Close()

		_, err := NewClient(testConfig(srv.URL)).CreateInquiryPage(context.Background(), domain.Inquiry{Status: domain.InquiryStatusNew})
		assert.ErrorContains(t, err, "status 400")
	})

	t.Run("missing configuration", func(t *testing.T) {
		cfg := testConfig("http://unused")
		cfg.NotionDatabaseID = ""
		_, err := NewClient(cfg).CreateInquiryPage(context.Background(), domain.Inquiry{})
		assert.True(t, apperrors.IsCode(err, apperrors.CodeConfigMissing))
	})
}

func TestUpdateStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/pages/page-9", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		name := body["properties"].(map[string]any)[propStatus].(map[string]any)["select"].(map[string]any)["name"]
		assert.Equal(t, "완료", name)
		_, _ = w.Write([]byte(`{"id":"page-9"}`))
	}))
	defer srv.Close()

	err := NewClient(testConfig(srv.URL)).UpdateStatus(context.Background(), "page-9", domain.InquiryStatusDone)
	assert.NoError(t, err)
}
