package domain

import (
	"errors"
	"time"
)

// RoleAdmin is the only role the back-office issues.
const RoleAdmin = "admin"

// OTP verification outcomes.
var (
	ErrOTPNotActive = errors.New("no active one-time code")
	ErrOTPExpired   = errors.New("one-time code expired")
	ErrOTPMismatch  = errors.New("one-time code mismatch")
)

// OneTimeCode is the outstanding second-factor code for one admin identity.
type OneTimeCode struct {
	Code      string
	ExpiresAt time.Time
	Attempts  int
}

// IssuedToken is a signed token ready to be placed in a cookie.
type IssuedToken struct {
	Value     string
	ExpiresAt time.Time
}
