package auth

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	// LoginPath is where unauthenticated admin page requests are sent.
	LoginPath = "/admin/login"
	// VerifyOTPPath hosts the second-factor form.
	VerifyOTPPath = "/admin/verify-otp"
	// DashboardPath is the landing page after a successful OTP check.
	DashboardPath = "/admin/inquiries"

	protectedPrefix = "/admin"
)

// DefaultPublicPrefixes never require a session, including the login pages themselves.
var DefaultPublicPrefixes = []string{
	"/favicon.ico",
	"/robots.txt",
	"/manifest.json",
	"/api",
	"/static",
	"/images",
	"/public",
	"/health",
	"/metrics",
	LoginPath,
	VerifyOTPPath,
}

// AccessGuard redirects page requests under /admin to the login form unless
// they carry a valid session cookie.
type AccessGuard struct {
	tokens         *TokenManager
	publicPrefixes []string
	logger         *zap.Logger
}

// NewAccessGuard builds the guard with the default public prefixes.
func NewAccessGuard(tokens *TokenManager, logger *zap.Logger) *AccessGuard {
	return &AccessGuard{tokens: tokens, publicPrefixes: DefaultPublicPrefixes, logger: logger}
}

// Handle runs ahead of every route. Paths are compared in lower case so
// the guard holds even when the router ignores case.
func (g *AccessGuard) Handle(c *fiber.Ctx) error {
	path := c.Path()
	normalized := strings.ToLower(path)
	if g.isPublic(normalized) || !hasSegmentPrefix(normalized, protectedPrefix) {
		return c.Next()
	}

	token := c.Cookies(SessionCookie)
	if token == "" {
		return c.Redirect(LoginPath + "?" + url.Values{"from": {path}}.Encode())
	}

	if _, err := g.tokens.ParseSession(token); err != nil {
		g.logger.Warn("admin session rejected", zap.String("path", path))
		return c.Redirect(LoginPath + "?expired=1")
	}

	return c.Next()
}

func (g *AccessGuard) isPublic(path string) bool {
	if path == "/" {
		return true
	}
	for _, prefix := range g.publicPrefixes {
		if hasSegmentPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// hasSegmentPrefix matches whole path segments so "/apix" is not under "/api".
func hasSegmentPrefix(path, prefix string) bool {
	if path == prefix {
		return true
	}
	return strings.HasPrefix(path, strings.TrimSuffix(prefix, "/")+"/")
}
