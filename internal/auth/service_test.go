package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"railbook/internal/session"
	"railbook/internal/shared/config"
	"railbook/internal/shared/flow"
	"railbook/internal/shared/middleware"
	"railbook/internal/users"
)

const testSID = "auth-session-1"

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:           "test-secret",
			JWTExpiresIn:     15 * time.Minute,
			RefreshExpiresIn: time.Hour,
		},
		Booking: config.BookingConfig{CaptchaLength: 6},
		Session: config.SessionConfig{CookieName: "railbook_session", HeaderName: "X-Session-ID", TTL: time.Hour},
	}
}

func newTestService(t *testing.T) (Service, session.Store) {
	t.Helper()
	repo, err := users.NewDemoRepository(users.DefaultDemoAccounts, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewDemoRepository: %v", err)
	}
	store := session.NewMemoryStore(time.Hour)
	return NewService(repo, store, testConfig(), WithBcryptCost(bcrypt.MinCost)), store
}

func issueCaptcha(t *testing.T, svc Service) string {
	t.Helper()
	c, err := svc.RefreshCaptcha(context.Background(), testSID)
	if err != nil {
		t.Fatalf("RefreshCaptcha: %v", err)
	}
	return c.Captcha
}

var captchaPattern = regexp.MustCompile(`^[A-Za-z0-9@#$%&*]{6}$`)

func TestGenerateCaptcha(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := GenerateCaptcha(nil, 6)
		if err != nil {
			t.Fatalf("GenerateCaptcha: %v", err)
		}
		if !captchaPattern.MatchString(code) {
			t.Fatalf("bad captcha %q", code)
		}
	}
}

func TestCaptchaMatches(t *testing.T) {
	tests := []struct {
		expected, entered string
		want              bool
	}{
		{"aB3@xY", "AB3@XY", true},
		{"aB3@xY", "aB3@xY", true},
		{"aB3@xY", "aB3@x", false},
		{"", "", false},
	}
	for _, tt := range tests {
		if got := CaptchaMatches(tt.expected, tt.entered); got != tt.want {
			t.Fatalf("CaptchaMatches(%q, %q) = %v", tt.expected, tt.entered, got)
		}
	}
}

func TestLogin_Roles(t *testing.T) {
	tests := []struct {
		username, password string
		step               flow.Step
	}{
		{"demo_user", "password123", flow.StepUserDashboard},
		{"admin", "admin123", flow.StepAdminPanel},
	}

	for _, tt := range tests {
		svc, _ := newTestService(t)
		captcha := issueCaptcha(t, svc)

		resp, next, err := svc.Login(context.Background(), testSID, &LoginRequest{
			Username: tt.username, Password: tt.password, Captcha: strings.ToLower(captcha),
		})
		if err != nil {
			t.Fatalf("%s: Login: %v", tt.username, err)
		}
		if next.Step != tt.step {
			t.Fatalf("%s: expected %s, got %s", tt.username, tt.step, next.Step)
		}
		claims, err := svc.ValidateToken(resp.AccessToken)
		if err != nil || claims.Username != tt.username || claims.Type != TokenTypeAccess {
			t.Fatalf("%s: bad access token claims %+v (%v)", tt.username, claims, err)
		}
	}
}

func TestLogin_Failures(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, _, err := svc.Login(ctx, testSID, &LoginRequest{Username: "demo_user", Password: "password123"}); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}

	first := issueCaptcha(t, svc)
	_, _, err := svc.Login(ctx, testSID, &LoginRequest{Username: "demo_user", Password: "password123", Captcha: "wrong!"})
	var refreshed *CaptchaRefreshedError
	if !errors.Is(err, ErrInvalidCaptcha) || !errors.As(err, &refreshed) {
		t.Fatalf("expected refreshed invalid captcha error, got %v", err)
	}
	if _, _, err := svc.Login(ctx, testSID, &LoginRequest{Username: "demo_user", Password: "password123", Captcha: first}); err == nil && first != refreshed.Captcha {
		t.Fatalf("old captcha should no longer be accepted")
	}

	captcha := issueCaptcha(t, svc)
	if _, _, err := svc.Login(ctx, testSID, &LoginRequest{Username: "demo_user", Password: "nope", Captcha: captcha}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	captcha = issueCaptcha(t, svc)
	if _, _, err := svc.Login(ctx, testSID, &LoginRequest{Username: "ghost", Password: "password123", Captcha: captcha}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func validRegistration(captcha string) RegisterRequest {
	return RegisterRequest{
		Username: "new_user", Password: "secret1", ConfirmPassword: "secret1",
		FirstName: "Meera", LastName: "Iyer", Email: "meera@example.com", Mobile: "9123456780",
		FlatNo: "12B", PinCode: "560001", City: "Bangalore", State: "Karnataka",
		Captcha: captcha, TermsAccepted: true,
	}
}

func TestRegister_Rules(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	captcha := issueCaptcha(t, svc)

	tests := []struct {
		name    string
		mutate  func(r *RegisterRequest)
		message string
	}{
		{"missing basics", func(r *RegisterRequest) { r.Username = "" }, "Please fill in all basic details"},
		{"mismatch", func(r *RegisterRequest) { r.ConfirmPassword = "other1" }, "Passwords do not match"},
		{"short password", func(r *RegisterRequest) { r.Password, r.ConfirmPassword = "abc", "abc" }, "Password must be at least 6 characters long"},
		{"missing personal", func(r *RegisterRequest) { r.LastName = "" }, "Please fill in all personal details"},
		{"bad email", func(r *RegisterRequest) { r.Email = "meera@" }, "Please enter a valid email address"},
		{"bad mobile", func(r *RegisterRequest) { r.Mobile = "12345" }, "Please enter a valid 10-digit mobile number"},
		{"missing address", func(r *RegisterRequest) { r.City = "" }, "Please fill in all address details"},
		{"missing captcha", func(r *RegisterRequest) { r.Captcha = "" }, "Please enter the captcha"},
		{"wrong captcha", func(r *RegisterRequest) { r.Captcha = "zzzzzzz" }, "Invalid captcha. Please try again."},
		{"terms", func(r *RegisterRequest) { r.TermsAccepted = false }, "Please accept the terms and conditions"},
		{"first failure wins", func(r *RegisterRequest) { r.Username, r.Mobile = "", "1" }, "Please fill in all basic details"},
	}

	for _, tt := range tests {
		req := validRegistration(captcha)
		tt.mutate(&req)
		_, err := svc.Register(ctx, testSID, &req)
		var regErr *RegistrationError
		if !errors.As(err, &regErr) || regErr.Message != tt.message {
			t.Fatalf("%s: expected %q, got %v", tt.name, tt.message, err)
		}
	}

	req := validRegistration(strings.ToUpper(captcha))
	next, err := svc.Register(ctx, testSID, &req)
	if err != nil || next.Step != flow.StepLogin {
		t.Fatalf("expected login continuation, got %+v (%v)", next, err)
	}
}

func TestLogin_CaptchaIsSingleUse(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	captcha := issueCaptcha(t, svc)
	req := &LoginRequest{Username: "demo_user", Password: "password123", Captcha: captcha}

	if _, _, err := svc.Login(ctx, testSID, req); err != nil {
		t.Fatalf("Login: %v", err)
	}
	var stored string
	if err := store.Get(ctx, testSID, session.KeyCaptcha, &stored); !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("captcha should be cleared after login, got %q (%v)", stored, err)
	}

	if _, _, err := svc.Login(ctx, testSID, req); !errors.Is(err, ErrInvalidCaptcha) {
		t.Fatalf("replayed captcha should be rejected, got %v", err)
	}
}

func TestRegister_CaptchaIsSingleUse(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	captcha := issueCaptcha(t, svc)

	noTerms := validRegistration(captcha)
	noTerms.TermsAccepted = false
	if _, err := svc.Register(ctx, testSID, &noTerms); err == nil {
		t.Fatalf("expected terms failure")
	}

	req := validRegistration(captcha)
	if _, err := svc.Register(ctx, testSID, &req); err != nil {
		t.Fatalf("a failed attempt must not use up the captcha: %v", err)
	}
	var stored string
	if err := store.Get(ctx, testSID, session.KeyCaptcha, &stored); !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("captcha should be cleared after registration, got %q (%v)", stored, err)
	}

	_, err := svc.Register(ctx, testSID, &req)
	var regErr *RegistrationError
	if !errors.As(err, &regErr) || regErr.Field != "captcha" {
		t.Fatalf("replayed captcha should be rejected, got %v", err)
	}
}

func TestRefreshToken(t *testing.T) {
	svc, _ := newTestService(t)
	captcha := issueCaptcha(t, svc)
	resp, _, err := svc.Login(context.Background(), testSID, &LoginRequest{Username: "demo_user", Password: "password123", Captcha: captcha})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	pair, err := svc.RefreshToken(context.Background(), resp.RefreshToken)
	if err != nil || pair.AccessToken == "" {
		t.Fatalf("RefreshToken: %+v (%v)", pair, err)
	}
	if _, err := svc.RefreshToken(context.Background(), resp.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("access token must not refresh, got %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	admin := users.DefaultDemoAccounts[1]
	captcha := issueCaptcha(t, svc)
	resp, _, err := svc.Login(ctx, testSID, &LoginRequest{Username: admin.Username, Password: admin.Password, Captcha: captcha})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	id := resp.User.ID

	if err := svc.ChangePassword(ctx, id, &ChangePasswordRequest{CurrentPassword: "admin123", NewPassword: "abc"}); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
	if err := svc.ChangePassword(ctx, id, &ChangePasswordRequest{CurrentPassword: "wrong", NewPassword: "newsecret"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if err := svc.ChangePassword(ctx, id, &ChangePasswordRequest{CurrentPassword: "admin123", NewPassword: "newsecret"}); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}

	captcha = issueCaptcha(t, svc)
	if _, _, err := svc.Login(ctx, testSID, &LoginRequest{Username: "admin", Password: "newsecret", Captcha: captcha}); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}

func TestLogout_ClearsSession(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	if err := store.Set(ctx, testSID, session.KeySelectedTrain, map[string]string{"trainId": "12301"}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	next, err := svc.Logout(ctx, testSID)
	if err != nil || next.Step != flow.StepHome {
		t.Fatalf("Logout: %+v (%v)", next, err)
	}
	var v map[string]string
	if err := store.Get(ctx, testSID, session.KeySelectedTrain, &v); !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("session should be empty, got %v", err)
	}
}

func TestController_LoginAndMe(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, _ := newTestService(t)
	cfg := testConfig()
	r := gin.New()
	r.Use(middleware.Session(cfg.Session))
	SetupAuthRoutes(r.Group("/api/v1"), NewController(svc), cfg)

	do := func(method, path, body, token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Session-ID", testSID)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := do(http.MethodGet, "/api/v1/auth/captcha", "", "")
	var captchaResp struct {
		Data CaptchaResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &captchaResp); err != nil || w.Code != http.StatusOK {
		t.Fatalf("captcha: %d %s", w.Code, w.Body.String())
	}

	w = do(http.MethodPost, "/api/v1/auth/login", `{"username":"demo_user","password":"bad","captcha":"`+captchaResp.Data.Captcha+`"}`, "")
	if w.Code != http.StatusUnauthorized || !strings.Contains(w.Body.String(), `"captcha"`) {
		t.Fatalf("expected 401 with a fresh captcha, got %d %s", w.Code, w.Body.String())
	}
	if err := json.Unmarshal(w.Body.Bytes(), &captchaResp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	w = do(http.MethodPost, "/api/v1/auth/login", `{"username":"demo_user","password":"password123","captcha":"`+captchaResp.Data.Captcha+`"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("login: %d %s", w.Code, w.Body.String())
	}
	var loginResp struct {
		Data AuthResponse      `json:"data"`
		Next flow.Continuation `json:"next"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &loginResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if loginResp.Next.Step != flow.StepUserDashboard {
		t.Fatalf("unexpected continuation %+v", loginResp.Next)
	}

	if w = do(http.MethodGet, "/api/v1/auth/me", "", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("me without token: %d", w.Code)
	}
	w = do(http.MethodGet, "/api/v1/auth/me", "", loginResp.Data.AccessToken)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "demo_user") {
		t.Fatalf("me: %d %s", w.Code, w.Body.String())
	}
}
