package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"railbook/internal/session"
	"railbook/internal/shared/config"
	"railbook/internal/shared/flow"
	"railbook/internal/shared/metrics"
	"railbook/internal/users"
	"railbook/pkg/logger"
)

const minPasswordLength = 6

var mobilePattern = regexp.MustCompile(`^[0-9]{10}$`)

type Service interface {
	RefreshCaptcha(ctx context.Context, sessionID string) (*CaptchaResponse, error)
	Login(ctx context.Context, sessionID string, req *LoginRequest) (*AuthResponse, flow.Continuation, error)
	Register(ctx context.Context, sessionID string, req *RegisterRequest) (flow.Continuation, error)
	RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error)
	ChangePassword(ctx context.Context, userID string, req *ChangePasswordRequest) error
	Me(ctx context.Context, userID string) (*UserResponse, error)
	Logout(ctx context.Context, sessionID string) (flow.Continuation, error)
	ValidateToken(tokenString string) (*JWTClaims, error)
}

// CaptchaRefreshedError is returned by a failed login together with the
// captcha the session must answer next
type CaptchaRefreshedError struct {
	Err     error
	Captcha string
}

func (e *CaptchaRefreshedError) Error() string { return e.Err.Error() }
func (e *CaptchaRefreshedError) Unwrap() error { return e.Err }

type service struct {
	users      users.Repository
	captchas   CaptchaRepository
	store      session.Store
	config     *config.Config
	validate   *validator.Validate
	rand       io.Reader
	now        func() time.Time
	bcryptCost int
	logger     *logger.Logger
}

// Option adjusts a service at construction
type Option func(*service)

func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

func WithRandom(r io.Reader) Option {
	return func(s *service) { s.rand = r }
}

func WithBcryptCost(cost int) Option {
	return func(s *service) { s.bcryptCost = cost }
}

func NewService(userRepo users.Repository, store session.Store, cfg *config.Config, opts ...Option) Service {
	s := &service{
		users:      userRepo,
		captchas:   NewCaptchaRepository(store),
		store:      store,
		config:     cfg,
		validate:   validator.New(),
		rand:       rand.Reader,
		now:        time.Now,
		bcryptCost: bcrypt.DefaultCost,
		logger:     logger.GetDefault(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) RefreshCaptcha(ctx context.Context, sessionID string) (*CaptchaResponse, error) {
	code, err := GenerateCaptcha(s.rand, s.config.Booking.CaptchaLength)
	if err != nil {
		return nil, err
	}
	if err := s.captchas.SaveCaptcha(ctx, sessionID, code); err != nil {
		s.logger.LogSessionStoreError(ctx, "save", sessionID, session.KeyCaptcha, err)
		return nil, fmt.Errorf("save captcha: %w", err)
	}
	return &CaptchaResponse{Captcha: code}, nil
}

func (s *service) Login(ctx context.Context, sessionID string, req *LoginRequest) (*AuthResponse, flow.Continuation, error) {
	if req.Username == "" || req.Password == "" || req.Captcha == "" {
		metrics.LoginAttempts.WithLabelValues("missing_fields").Inc()
		return nil, flow.Continuation{}, ErrMissingFields
	}

	expected, err := s.captchas.LoadCaptcha(ctx, sessionID)
	if err != nil && !errors.Is(err, ErrCaptchaMissing) {
		return nil, flow.Continuation{}, err
	}
	if !CaptchaMatches(expected, req.Captcha) {
		metrics.LoginAttempts.WithLabelValues("invalid_captcha").Inc()
		return nil, flow.Continuation{}, s.failLogin(ctx, sessionID, ErrInvalidCaptcha)
	}

	account, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			metrics.LoginAttempts.WithLabelValues("invalid_credentials").Inc()
			return nil, flow.Continuation{}, s.failLogin(ctx, sessionID, ErrInvalidCredentials)
		}
		return nil, flow.Continuation{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		metrics.LoginAttempts.WithLabelValues("invalid_credentials").Inc()
		return nil, flow.Continuation{}, s.failLogin(ctx, sessionID, ErrInvalidCredentials)
	}

	tokenPair, err := s.generateTokenPair(account.ID.String(), account.Username, string(account.Role))
	if err != nil {
		return nil, flow.Continuation{}, err
	}
	if err := s.consumeCaptcha(ctx, sessionID); err != nil {
		return nil, flow.Continuation{}, err
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	s.logger.LogAuthSuccess(ctx, account.ID.String(), "password")

	next := flow.To(flow.StepUserDashboard, nil)
	if account.Role == users.RoleAdmin {
		next = flow.To(flow.StepAdminPanel, nil)
	}

	return &AuthResponse{
		User:         toUserResponse(account),
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresIn:    tokenPair.ExpiresIn,
	}, next, nil
}

// failLogin issues a fresh captcha alongside the login failure
func (s *service) failLogin(ctx context.Context, sessionID string, cause error) error {
	refreshed, err := s.RefreshCaptcha(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("%w (captcha refresh failed: %v)", cause, err)
	}
	return &CaptchaRefreshedError{Err: cause, Captcha: refreshed.Captcha}
}

// Register checks the three registration steps in order and reports the
// first rule that fails. No account is stored on success; the captcha is used up.
func (s *service) Register(ctx context.Context, sessionID string, req *RegisterRequest) (flow.Continuation, error) {
	fail := func(step RegistrationStep, field, msg string) (flow.Continuation, error) {
		return flow.Continuation{}, &RegistrationError{Step: step, Field: field, Message: msg}
	}

	switch {
	case req.Username == "" || req.Password == "" || req.ConfirmPassword == "":
		return fail(StepBasicDetails, "username", "Please fill in all basic details")
	case req.Password != req.ConfirmPassword:
		return fail(StepBasicDetails, "confirm_password", "Passwords do not match")
	case len(req.Password) < minPasswordLength:
		return fail(StepBasicDetails, "password", "Password must be at least 6 characters long")
	}

	switch {
	case req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Mobile == "":
		return fail(StepPersonalDetails, "first_name", "Please fill in all personal details")
	case s.validate.Var(req.Email, "required,email") != nil:
		return fail(StepPersonalDetails, "email", "Please enter a valid email address")
	case !mobilePattern.MatchString(req.Mobile):
		return fail(StepPersonalDetails, "mobile", "Please enter a valid 10-digit mobile number")
	}

	switch {
	case req.FlatNo == "" || req.PinCode == "" || req.City == "" || req.State == "":
		return fail(StepAddress, "flat_no", "Please fill in all address details")
	case req.Captcha == "":
		return fail(StepAddress, "captcha", "Please enter the captcha")
	}

	expected, err := s.captchas.LoadCaptcha(ctx, sessionID)
	if err != nil && !errors.Is(err, ErrCaptchaMissing) {
		return flow.Continuation{}, err
	}
	if !CaptchaMatches(expected, req.Captcha) {
		return fail(StepAddress, "captcha", "Invalid captcha. Please try again.")
	}
	if !req.TermsAccepted {
		return fail(StepAddress, "terms_accepted", "Please accept the terms and conditions")
	}
	if err := s.consumeCaptcha(ctx, sessionID); err != nil {
		return flow.Continuation{}, err
	}

	return flow.To(flow.StepLogin, nil), nil
}

// consumeCaptcha drops a correctly answered captcha so it cannot be replayed
func (s *service) consumeCaptcha(ctx context.Context, sessionID string) error {
	if err := s.captchas.ClearCaptcha(ctx, sessionID); err != nil {
		s.logger.LogSessionStoreError(ctx, "delete", sessionID, session.KeyCaptcha, err)
		return fmt.Errorf("clear captcha: %w", err)
	}
	return nil
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.validateToken(refreshToken)
	if err != nil {
		return nil, err
	}

	if claims.Type != TokenTypeRefresh {
		return nil, ErrInvalidToken
	}

	// Verify user still exists
	account, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	return s.generateTokenPair(account.ID.String(), account.Username, string(account.Role))
}

func (s *service) ChangePassword(ctx context.Context, userID string, req *ChangePasswordRequest) error {
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return ErrMissingFields
	}
	if len(req.NewPassword) < minPasswordLength {
		return ErrWeakPassword
	}

	account, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return ErrUserNotFound
	}

	// Verify current password
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.bcryptCost)
	if err != nil {
		return err
	}

	return s.users.UpdatePasswordHash(ctx, userID, string(hashedPassword))
}

func (s *service) Me(ctx context.Context, userID string) (*UserResponse, error) {
	account, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	resp := toUserResponse(account)
	return &resp, nil
}

// Logout forgets everything the session holds
func (s *service) Logout(ctx context.Context, sessionID string) (flow.Continuation, error) {
	if err := s.store.Clear(ctx, sessionID); err != nil {
		s.logger.LogSessionStoreError(ctx, "clear", sessionID, "*", err)
		return flow.Continuation{}, fmt.Errorf("clear session: %w", err)
	}
	return flow.To(flow.StepHome, nil), nil
}

func (s *service) ValidateToken(tokenString string) (*JWTClaims, error) {
	return s.validateToken(tokenString)
}

func (s *service) generateTokenPair(userID, username, role string) (*TokenPair, error) {
	now := s.now()

	sign := func(tokenType string, ttl time.Duration) (string, error) {
		claims := JWTClaims{
			UserID:   userID,
			Username: username,
			Role:     role,
			Type:     tokenType,
			RegisteredClaims: jwt.RegisteredClaims{
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
				Issuer:    "railbook",
				Subject:   userID,
			},
		}
		return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.JWT.Secret))
	}

	accessToken, err := sign(TokenTypeAccess, s.config.JWT.JWTExpiresIn)
	if err != nil {
		return nil, err
	}
	refreshToken, err := sign(TokenTypeRefresh, s.config.JWT.RefreshExpiresIn)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.config.JWT.JWTExpiresIn.Seconds()),
	}, nil
}

func (s *service) validateToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.config.JWT.Secret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}

func toUserResponse(account *users.Account) UserResponse {
	return UserResponse{
		ID:          account.ID.String(),
		Username:    account.Username,
		DisplayName: account.DisplayName,
		Role:        strings.ToUpper(string(account.Role)),
	}
}
