package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/sfinpay/backoffice/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated admin.
type Principal struct {
	Email string
	Role  string
}

// AuthMiddleware validates the admin session cookie on back-office API routes.
type AuthMiddleware struct {
	tokens *TokenManager
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Handle rejects requests without a session cookie (401) or with an invalid one (403).
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	if !m.tokens.Configured() {
		return apperrors.NewConfigError("JWT_SECRET")
	}

	token := c.Cookies(SessionCookie)
	if token == "" {
		return apperrors.NewUnauthorized("인증 토큰이 없습니다.")
	}

	claims, err := m.tokens.ParseSession(token)
	if err != nil {
		return apperrors.NewForbidden("JWT 토큰이 유효하지 않습니다.")
	}

	c.Locals(principalKey, &Principal{Email: claims.Email, Role: claims.Role})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated admin.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
