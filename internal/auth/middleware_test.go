package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/sfinpay/backoffice/pkg/util"
)

func TestAuthMiddleware(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour, time.Hour)
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).SendString(de.Code)
		},
	})
	app.Get("/api/admin/inquiries", NewAuthMiddleware(tm).Handle, func(c *fiber.Ctx) error {
		p, ok := PrincipalFromContext(c)
		require.True(t, ok)
		return c.SendString(p.Email)
	})

	call := func(cookie *http.Cookie) *http.Response {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/inquiries", nil)
		if cookie != nil {
			req.AddCookie(cookie)
		}
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		return resp
	}

	assert.Equal(t, http.StatusUnauthorized, call(nil).StatusCode)
	assert.Equal(t, http.StatusForbidden, call(&http.Cookie{Name: SessionCookie, Value: "garbage"}).StatusCode)

	session, err := tm.IssueSession("admin@sfinpay.co.kr")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, call(&http.Cookie{Name: SessionCookie, Value: session.Value}).StatusCode)
}
