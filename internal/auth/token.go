package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/sfinpay/backoffice/internal/domain"
)

// Cookie names for the two token stages.
const (
	PreOTPCookie  = "sfin_admin_token"
	SessionCookie = "sfin_admin_session"
)

// ErrInvalidToken covers every verification failure: bad signature, expiry, wrong stage.
var ErrInvalidToken = errors.New("invalid token")

// TokenManager handles issuing and validating JWT tokens.
type TokenManager struct {
	secret     []byte
	preOTPTTL  time.Duration
	sessionTTL time.Duration
	now        func() time.Time
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, preOTPTTL, sessionTTL time.Duration) *TokenManager {
	if preOTPTTL <= 0 {
		preOTPTTL = 12 * time.Hour
	}
	if sessionTTL <= 0 {
		sessionTTL = time.Hour
	}
	return &TokenManager{secret: []byte(secret), preOTPTTL: preOTPTTL, sessionTTL: sessionTTL, now: time.Now}
}

// WithClock overrides the time source; used by tests.
func (tm *TokenManager) WithClock(now func() time.Time) *TokenManager {
	clone := *tm
	clone.now = now
	return &clone
}

// Configured reports whether a signing secret is available.
func (tm *TokenManager) Configured() bool {
	return len(tm.secret) > 0
}

// Claims describes JWT payload.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// IssuePreOTP signs the token handed out after the password step.
func (tm *TokenManager) IssuePreOTP(email string) (domain.IssuedToken, error) {
	return tm.issue(email, "", tm.preOTPTTL)
}

// IssueSession signs the admin session token handed out after OTP verification.
func (tm *TokenManager) IssueSession(email string) (domain.IssuedToken, error) {
	return tm.issue(email, domain.RoleAdmin, tm.sessionTTL)
}

func (tm *TokenManager) issue(email, role string, ttl time.Duration) (domain.IssuedToken, error) {
	if !tm.Configured() {
		return domain.IssuedToken{}, errors.New("token secret not configured")
	}
	now := tm.now()
	expiresAt := now.Add(ttl)
	claims := &Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return domain.IssuedToken{}, err
	}
	return domain.IssuedToken{Value: tokenString, ExpiresAt: expiresAt}, nil
}

// ParsePreOTP validates a pre-verification token and returns its claims.
func (tm *TokenManager) ParsePreOTP(tokenStr string) (*Claims, error) {
	claims, err := tm.parse(tokenStr)
	if err != nil {
		return nil, err
	}
	if claims.Role != "" || claims.Email == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ParseSession validates an admin session token and returns its claims.
func (tm *TokenManager) ParseSession(tokenStr string) (*Claims, error) {
	claims, err := tm.parse(tokenStr)
	if err != nil {
		return nil, err
	}
	if claims.Role != domain.RoleAdmin {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (tm *TokenManager) parse(tokenStr string) (*Claims, error) {
	if tokenStr == "" || !tm.Configured() {
		return nil, ErrInvalidToken
	}
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return tm.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(tm.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
