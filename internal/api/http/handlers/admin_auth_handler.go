package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/sfinpay/backoffice/internal/api/dto"
	"github.com/sfinpay/backoffice/internal/auth"
	"github.com/sfinpay/backoffice/internal/domain"
	"github.com/sfinpay/backoffice/internal/service"
	apperrors "github.com/sfinpay/backoffice/pkg/util"
)

// AdminAuthHandler exposes the two-step admin login.
type AdminAuthHandler struct {
	auth         *service.AuthService
	secureCookie bool
}

// NewAdminAuthHandler constructs handler.
func NewAdminAuthHandler(authService *service.AuthService, secureCookie bool) *AdminAuthHandler {
	return &AdminAuthHandler{auth: authService, secureCookie: secureCookie}
}

// Login handles POST /api/admin/login.
func (h *AdminAuthHandler) Login(c *fiber.Ctx) error {
	var req dto.AdminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	res, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	h.setCookie(c, auth.PreOTPCookie, res.Token)
	return c.JSON(fiber.Map{"ok": true, "next": res.Next})
}

// VerifyOTP handles POST /api/admin/verify-otp.
func (h *AdminAuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req dto.VerifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError(service.MsgOTPRequired, nil)
	}

	res, err := h.auth.VerifyOTP(c.UserContext(), c.Cookies(auth.PreOTPCookie), req.OTP)
	if err != nil {
		return err
	}
	h.setCookie(c, auth.SessionCookie, res.Token)
	h.clearCookie(c, auth.PreOTPCookie)
	return c.JSON(fiber.Map{
		"ok":      true,
		"message": service.MsgOTPVerified,
		"next":    res.Next,
	})
}

// Logout handles POST /api/admin/logout.
func (h *AdminAuthHandler) Logout(c *fiber.Ctx) error {
	h.clearCookie(c, auth.PreOTPCookie)
	h.clearCookie(c, auth.SessionCookie)
	return c.JSON(fiber.Map{"ok": true, "next": auth.LoginPath})
}

func (h *AdminAuthHandler) setCookie(c *fiber.Ctx, name string, token domain.IssuedToken) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    token.Value,
		Path:     "/",
		Expires:  token.ExpiresAt,
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

func (h *AdminAuthHandler) clearCookie(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}
