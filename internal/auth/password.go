package auth

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plaintext password with configured cost.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}

// IsBcryptHash reports whether value looks like a bcrypt digest.
func IsBcryptHash(value string) bool {
	for _, prefix := range []string{"$2a$", "$2b$", "$2y$"} {
		if strings.HasPrefix(value, prefix) {
			return true
		}
	}
	return false
}

// CheckCredentials matches a login attempt against the configured admin account.
// The configured password may be plaintext or a bcrypt hash. Both fields are
// always evaluated so the outcome does not reveal which one was wrong.
func CheckCredentials(wantEmail, wantPassword, email, password string) bool {
	emailOK := subtle.ConstantTimeCompare([]byte(wantEmail), []byte(email)) == 1

	var passwordOK bool
	if IsBcryptHash(wantPassword) {
		passwordOK = ComparePassword(wantPassword, password) == nil
	} else {
		passwordOK = subtle.ConstantTimeCompare([]byte(wantPassword), []byte(password)) == 1
	}
	return emailOK && passwordOK && wantEmail != ""
}
