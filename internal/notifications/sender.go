package notifications

import (
	"context"
	"fmt"

	"railbook/pkg/logger"
)

// Sender delivers a decoded notification to the traveller
type Sender interface {
	Send(ctx context.Context, notification *Notification) error
}

// LogSender writes the confirmation message to the log
type LogSender struct {
	logger *logger.Logger
}

func NewLogSender(l *logger.Logger) *LogSender {
	if l == nil {
		l = logger.GetDefault()
	}
	return &LogSender{logger: l}
}

func (s *LogSender) Send(ctx context.Context, n *Notification) error {
	if n.PNR == "" {
		return fmt.Errorf("notification %s has no pnr", n.ID)
	}
	s.logger.InfoWithContext(ctx, ConfirmationText(n), map[string]interface{}{
		"notification_id": n.ID.String(),
		"pnr":             n.PNR,
		"session_id":      n.SessionID,
	})
	return nil
}

// ConfirmationText is the one-line message sent for a confirmed booking
func ConfirmationText(n *Notification) string {
	return fmt.Sprintf("Booking %s confirmed: %s (%s) %s to %s on %s, %d passenger(s), Rs. %d paid by %s",
		n.PNR, n.TrainName, n.TrainID, n.From, n.To, n.Date, n.Passengers, n.TotalAmount, n.PaymentMethod)
}
