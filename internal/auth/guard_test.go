package auth

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newGuardApp(tm *TokenManager) *fiber.App {
	app := fiber.New()
	app.Use(NewAccessGuard(tm, zap.NewNop()).Handle)
	ok := func(c *fiber.Ctx) error { return c.SendString("page") }
	app.Get("/", ok)
	app.Get("/admin/inquiries", ok)
	app.Get("/admin/login", ok)
	app.Get("/admin/verify-otp", ok)
	app.Get("/api/contact/list", ok)
	app.Get("/pricing", ok)
	return app
}

func doGet(t *testing.T, app *fiber.App, target string, cookie *http.Cookie) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestAccessGuard(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour, time.Hour)
	app := newGuardApp(tm)

	t.Run("missing cookie redirects with from", func(t *testing.T) {
		resp := doGet(t, app, "/admin/inquiries", nil)
		assert.Equal(t, http.StatusFound, resp.StatusCode)

		loc, err := url.Parse(resp.Header.Get("Location"))
		require.NoError(t, err)
		assert.Equal(t, "/admin/login", loc.Path)
		assert.Equal(t, "/admin/inquiries", loc.Query().Get("from"))
		assert.Empty(t, loc.Query().Get("expired"))
	})

	t.Run("expired cookie redirects with expired flag", func(t *testing.T) {
		stale, err := tm.WithClock(func() time.Time { return time.Now().Add(-3 * time.Hour) }).IssueSession("admin@sfinpay.co.kr")
		require.NoError(t, err)

		resp := doGet(t, app, "/admin/inquiries", &http.Cookie{Name: SessionCookie, Value: stale.Value})
		assert.Equal(t, http.StatusFound, resp.StatusCode)

		loc, err := url.Parse(resp.Header.Get("Location"))
		require.NoError(t, err)
		assert.Equal(t, "/admin/login", loc.Path)
		assert.Equal(t, "1", loc.Query().Get("expired"))
	})

	t.Run("pre-verification token is not a session", func(t *testing.T) {
		pre, err := tm.IssuePreOTP("admin@sfinpay.co.kr")
		require.NoError(t, err)

		resp := doGet(t, app, "/admin/inquiries", &http.Cookie{Name: SessionCookie, Value: pre.Value})
		assert.Equal(t, http.StatusFound, resp.StatusCode)
	})

	t.Run("valid cookie passes through", func(t *testing.T) {
		session, err := tm.IssueSession("admin@sfinpay.co.kr")
		require.NoError(t, err)

		resp := doGet(t, app, "/admin/inquiries", &http.Cookie{Name: SessionCookie, Value: session.Value})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("mixed case paths are still guarded", func(t *testing.T) {
		for _, path := range []string{"/ADMIN/inquiries", "/Admin/Inquiries", "/aDmIn"} {
			resp := doGet(t, app, path, nil)
			assert.Equal(t, http.StatusFound, resp.StatusCode, path)

			loc, err := url.Parse(resp.Header.Get("Location"))
			require.NoError(t, err)
			assert.Equal(t, "/admin/login", loc.Path, path)
			assert.Equal(t, path, loc.Query().Get("from"), path)
		}
	})

	t.Run("mixed case login page stays public", func(t *testing.T) {
		resp := doGet(t, app, "/Admin/Login", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("public paths pass without cookie", func(t *testing.T) {
		for _, path := range []string{"/", "/admin/login", "/admin/verify-otp", "/api/contact/list", "/pricing"} {
			resp := doGet(t, app, path, nil)
			assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		}
	})
}

func TestHasSegmentPrefix(t *testing.T) {
	assert.True(t, hasSegmentPrefix("/api", "/api"))
	assert.True(t, hasSegmentPrefix("/api/contact", "/api"))
	assert.False(t, hasSegmentPrefix("/apix", "/api"))
	assert.False(t, hasSegmentPrefix("/administrator", "/admin"))
}
