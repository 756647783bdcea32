package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationTypeBookingConfirmed NotificationType = "BOOKING_CONFIRMED"
)

type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "PENDING"
	NotificationStatusQueued  NotificationStatus = "QUEUED"
	NotificationStatusSent    NotificationStatus = "SENT"
	NotificationStatusFailed  NotificationStatus = "FAILED"
)

// Notification announces a paid booking to whoever listens on the topic
type Notification struct {
	ID        uuid.UUID        `json:"id"`
	Type      NotificationType `json:"type"`
	SessionID string           `json:"session_id"`

	PNR           string `json:"pnr"`
	TrainID       string `json:"train_id"`
	TrainName     string `json:"train_name"`
	From          string `json:"from"`
	To            string `json:"to"`
	Date          string `json:"date"`
	Passengers    int    `json:"passengers"`
	TotalAmount   int    `json:"total_amount"`
	TransactionID string `json:"transaction_id"`
	PaymentMethod string `json:"payment_method"`

	Status    NotificationStatus `json:"status"`
	LastError *string            `json:"last_error,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	SentAt    *time.Time         `json:"sent_at,omitempty"`
}

type NotificationBuilder struct {
	notification *Notification
}

func NewNotificationBuilder() *NotificationBuilder {
	return &NotificationBuilder{
		notification: &Notification{
			ID:        uuid.New(),
			Status:    NotificationStatusPending,
			CreatedAt: time.Now().UTC(),
		},
	}
}

func (nb *NotificationBuilder) WithType(notType NotificationType) *NotificationBuilder {
	nb.notification.Type = notType
	return nb
}

func (nb *NotificationBuilder) WithSession(sessionID string) *NotificationBuilder {
	nb.notification.SessionID = sessionID
	return nb
}

func (nb *NotificationBuilder) WithBooking(pnr, trainID, trainName, from, to, date string, passengers, totalAmount int) *NotificationBuilder {
	n := nb.notification
	n.PNR = pnr
	n.TrainID = trainID
	n.TrainName = trainName
	n.From = from
	n.To = to
	n.Date = date
	n.Passengers = passengers
	n.TotalAmount = totalAmount
	return nb
}

func (nb *NotificationBuilder) WithPayment(transactionID, method string) *NotificationBuilder {
	nb.notification.TransactionID = transactionID
	nb.notification.PaymentMethod = method
	return nb
}

func (nb *NotificationBuilder) Build() *Notification {
	return nb.notification
}

// PartitionKey keeps every message about one PNR on the same partition
func (n *Notification) PartitionKey() string {
	return n.PNR
}

func (n *Notification) ToJSON() ([]byte, error) {
	return json.Marshal(n)
}

func (n *Notification) MarkSent() {
	now := time.Now().UTC()
	n.Status = NotificationStatusSent
	n.SentAt = &now
}

func (n *Notification) MarkFailed(err error) {
	n.Status = NotificationStatusFailed
	msg := err.Error()
	n.LastError = &msg
}
