package payments

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"railbook/internal/bookings"
	"railbook/internal/notifications"
	"railbook/internal/shared/flow"
	"railbook/internal/shared/metrics"
	"railbook/pkg/logger"
)

type Service interface {
	GetPending(ctx context.Context, sessionID string) (*PendingResponse, error)
	Pay(ctx context.Context, sessionID string, method Method) (*PaymentResponse, flow.Continuation, error)
}

type service struct {
	repo      bookings.Repository
	publisher notifications.Publisher
	now       func() time.Time
	logger    *logger.Logger
}

func NewService(repo bookings.Repository, publisher notifications.Publisher, now func() time.Time) Service {
	if now == nil {
		now = time.Now
	}
	if publisher == nil {
		publisher = notifications.NewLogPublisher(nil)
	}
	return &service{
		repo:      repo,
		publisher: publisher,
		now:       now,
		logger:    logger.GetDefault(),
	}
}

func (s *service) GetPending(ctx context.Context, sessionID string) (*PendingResponse, error) {
	rec, err := s.repo.LoadPending(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &PendingResponse{Booking: *rec, Amount: rec.TotalAmount, Methods: Methods}, nil
}

// Pay settles the pending booking. The BookingRecord itself is left as it was
// stored at submission.
func (s *service) Pay(ctx context.Context, sessionID string, method Method) (*PaymentResponse, flow.Continuation, error) {
	if !method.IsValid() {
		return nil, flow.Continuation{}, fmt.Errorf("%w: %q", ErrInvalidMethod, method)
	}

	rec, err := s.repo.LoadPending(ctx, sessionID)
	if err != nil {
		return nil, flow.Continuation{}, err
	}

	payment := Payment{
		TransactionID: s.generateTransactionID(),
		PNR:           rec.PNR,
		Amount:        rec.TotalAmount,
		Currency:      "INR",
		Method:        method,
		Status:        StatusCompleted,
		ProcessedAt:   s.now().UTC(),
	}

	if err := s.repo.ClearPending(ctx, sessionID); err != nil {
		s.logger.LogSessionStoreError(ctx, "delete", sessionID, "pendingBooking", err)
		return nil, flow.Continuation{}, fmt.Errorf("clear pending booking: %w", err)
	}

	metrics.PaymentsCompleted.WithLabelValues(string(method)).Inc()
	s.logger.LogPaymentCompleted(ctx, rec.PNR, payment.TransactionID, string(method))

	t := rec.TrainDetails
	notification := notifications.NewNotificationBuilder().
		WithType(notifications.NotificationTypeBookingConfirmed).
		WithSession(sessionID).
		WithBooking(rec.PNR, t.TrainID, t.TrainName, t.From, t.To, t.Date, len(rec.Passengers), rec.TotalAmount).
		WithPayment(payment.TransactionID, string(method)).
		Build()
	// the payment stands even when the notification cannot be queued
	if err := s.publisher.Publish(ctx, notification); err != nil {
		s.logger.ErrorWithContext(ctx, "Failed to publish booking notification", err, map[string]interface{}{
			"pnr": rec.PNR,
		})
	}

	return &PaymentResponse{Payment: payment, Booking: *rec}, flow.To(flow.StepUserDashboard, nil), nil
}

func (s *service) generateTransactionID() string {
	shortUUID := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("TXN_%d_%s", s.now().Unix(), strings.ToUpper(shortUUID))
}
