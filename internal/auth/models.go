package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v4"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var (
	ErrMissingFields      = errors.New("missing required fields")
	ErrInvalidCaptcha     = errors.New("invalid captcha")
	ErrCaptchaMissing     = errors.New("no captcha issued")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidToken       = errors.New("invalid token")
	ErrWeakPassword       = errors.New("password too short")
)

// JWTClaims represents JWT token claims
type JWTClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Type     string `json:"type"` // "access" or "refresh"
	jwt.RegisteredClaims
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// RegistrationStep names the part of the registration form a rule belongs to
type RegistrationStep string

const (
	StepBasicDetails    RegistrationStep = "basic_details"
	StepPersonalDetails RegistrationStep = "personal_details"
	StepAddress         RegistrationStep = "address"
)

// RegistrationError is the first registration rule that failed
type RegistrationError struct {
	Step    RegistrationStep `json:"step"`
	Field   string           `json:"field"`
	Message string           `json:"message"`
}

func (e *RegistrationError) Error() string {
	return string(e.Step) + ": " + e.Message
}
