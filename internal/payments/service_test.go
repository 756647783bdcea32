package payments

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"railbook/internal/bookings"
	"railbook/internal/notifications"
	"railbook/internal/session"
	"railbook/internal/shared/config"
	"railbook/internal/shared/flow"
	"railbook/internal/shared/middleware"
	"railbook/internal/trains"

	"github.com/gin-gonic/gin"
)

const testSID = "payment-session-1"

var payNow = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	published []*notifications.Notification
	err       error
}

func (p *recordingPublisher) Publish(_ context.Context, n *notifications.Notification) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, n)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func pendingBooking() bookings.BookingRecord {
	return bookings.BookingRecord{
		PNR:          "QWERTY1234",
		TrainDetails: trains.Selection{TrainID: "12045", TrainName: "Shatabdi Express", From: "Chandigarh", To: "Delhi", Date: "2026-10-20"},
		Passengers:   []bookings.PassengerRecord{{FirstName: "Ravi", LastName: "Kumar", Age: 40, Mobile: "9876543210", Berth: bookings.BerthLower}},
		BookingDate:  payNow,
		Status:       bookings.StatusConfirmed,
		TotalAmount:  850,
	}
}

func setup(t *testing.T, pub notifications.Publisher) (Service, bookings.Repository) {
	t.Helper()
	repo := bookings.NewRepository(session.NewMemoryStore(time.Hour), nil)
	if err := repo.SetPending(context.Background(), testSID, pendingBooking()); err != nil {
		t.Fatalf("SetPending: %v", err)
	}
	return NewService(repo, pub, func() time.Time { return payNow }), repo
}

var txnPattern = regexp.MustCompile(`^TXN_\d+_[0-9A-F]{8}$`)

func TestPay_CompletesAndClearsPending(t *testing.T) {
	pub := &recordingPublisher{}
	svc, repo := setup(t, pub)
	ctx := context.Background()

	resp, next, err := svc.Pay(ctx, testSID, MethodUPI)
	if err != nil {
		t.Fatalf("Pay: %v", err)
	}
	if next.Step != flow.StepUserDashboard {
		t.Fatalf("expected user_dashboard, got %+v", next)
	}
	if !txnPattern.MatchString(resp.Payment.TransactionID) || !strings.HasPrefix(resp.Payment.TransactionID, "TXN_1792324800_") {
		t.Fatalf("bad transaction id %q", resp.Payment.TransactionID)
	}
	if resp.Payment.Status != StatusCompleted || resp.Payment.Amount != 850 || resp.Booking.PNR != "QWERTY1234" {
		t.Fatalf("unexpected payment %+v", resp)
	}
	if _, err := repo.LoadPending(ctx, testSID); !errors.Is(err, bookings.ErrNoPendingBooking) {
		t.Fatalf("pending booking should be cleared, got %v", err)
	}

	if len(pub.published) != 1 {
		t.Fatalf("expected one notification, got %d", len(pub.published))
	}
	n := pub.published[0]
	if n.Type != notifications.NotificationTypeBookingConfirmed || n.PNR != "QWERTY1234" || n.TransactionID != resp.Payment.TransactionID {
		t.Fatalf("unexpected notification %+v", n)
	}
}

func TestPay_InvalidMethod(t *testing.T) {
	svc, repo := setup(t, &recordingPublisher{})

	if _, _, err := svc.Pay(context.Background(), testSID, "cash"); !errors.Is(err, ErrInvalidMethod) {
		t.Fatalf("expected ErrInvalidMethod, got %v", err)
	}
	if _, err := repo.LoadPending(context.Background(), testSID); err != nil {
		t.Fatalf("pending booking should remain: %v", err)
	}
}

func TestPay_NoPending(t *testing.T) {
	svc := NewService(bookings.NewRepository(session.NewMemoryStore(time.Hour), nil), nil, nil)

	if _, _, err := svc.Pay(context.Background(), testSID, MethodCard); !errors.Is(err, bookings.ErrNoPendingBooking) {
		t.Fatalf("expected ErrNoPendingBooking, got %v", err)
	}
}

func TestPay_PublishFailureKeepsPayment(t *testing.T) {
	svc, _ := setup(t, &recordingPublisher{err: errors.New("broker down")})

	if _, _, err := svc.Pay(context.Background(), testSID, MethodWallet); err != nil {
		t.Fatalf("payment should succeed without the notification: %v", err)
	}
}

func TestGetPending(t *testing.T) {
	svc, _ := setup(t, nil)

	pending, err := svc.GetPending(context.Background(), testSID)
	if err != nil {
		t.Fatalf("GetPending: %v", err)
	}
	if pending.Amount != 850 || len(pending.Methods) != 4 {
		t.Fatalf("unexpected pending %+v", pending)
	}
}

func TestController_Pay(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, _ := setup(t, &recordingPublisher{})
	r := gin.New()
	r.Use(middleware.Session(config.SessionConfig{CookieName: "railbook_session", HeaderName: "X-Session-ID", TTL: time.Hour}))
	SetupPaymentRoutes(r.Group("/api/v1"), NewController(svc))

	tests := []struct {
		name string
		sid  string
		body string
		code int
	}{
		{"missing method", testSID, `{}`, http.StatusBadRequest},
		{"unknown method", testSID, `{"payment_method":"cash"}`, http.StatusBadRequest},
		{"other session", "other-session-1", `{"payment_method":"card"}`, http.StatusNotFound},
		{"paid", testSID, `{"payment_method":"card"}`, http.StatusOK},
		{"already paid", testSID, `{"payment_method":"card"}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", strings.NewReader(tt.body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Session-ID", tt.sid)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != tt.code {
			t.Fatalf("%s: expected %d, got %d: %s", tt.name, tt.code, w.Code, w.Body.String())
		}
	}
}
