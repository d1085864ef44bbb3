package observability

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	apperrors "github.com/sfinpay/backoffice/pkg/util"
)

func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("/", "GET", 200, time.Millisecond)
		m.RecordError("/", "GET", "X")
		m.RecordNotification("crm", ResultSuccess)
		m.RecordOTP(ResultFailure)
		m.RecordInquiryCreated()
		m.RecordStatusChange("chat", "DONE")
	})
}

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()
	m.RecordNotification("crm", ResultFailure)
	m.RecordNotification("crm", ResultFailure)
	m.RecordInquiryCreated()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.notifications.WithLabelValues("crm", ResultFailure)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.inquiriesCreated))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "inquiries_created_total 1")
}

func TestRequestLoggerRecordsDomainErrors(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	m := NewMetrics()

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(apperrors.ToDomainError(err).HTTPStatus).SendString("err")
		},
	})
	app.Use(RequestLogger(zap.New(core), m))
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/missing", func(c *fiber.Ctx) error {
		return apperrors.NewNotFound("nope", nil)
	})
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("boom") })

	for _, path := range []string{"/ok", "/missing", "/boom"} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		_, _ = io.ReadAll(resp.Body)
	}

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/ok", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/missing", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errors.WithLabelValues("GET", "/boom", apperrors.CodeInternal)))

	assert.Equal(t, 1, logs.FilterMessage("request").Len())
	assert.Equal(t, 1, logs.FilterMessage("request rejected").Len())
	assert.Equal(t, 1, logs.FilterMessage("request failed").Len())
}
