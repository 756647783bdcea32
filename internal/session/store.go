// Package session is the per-client key-value store that carries booking
// state between steps of the flow. Values are JSON documents keyed by a
// session identifier and a well-known key name.
package session

import (
	"context"
	"errors"
)

// Well-known keys
const (
	KeySelectedTrain  = "selectedTrain"
	KeyUserBookings   = "userBookings"
	KeyPendingBooking = "pendingBooking"
	KeyPassengerForm  = "passengerForm"
	KeyCaptcha        = "captcha"
)

var (
	ErrNotFound       = errors.New("session key not found")
	ErrEmptySessionID = errors.New("session id is required")
)

// Store is implemented by every session backend
type Store interface {
	// Get decodes the value under key into dest, or returns ErrNotFound
	Get(ctx context.Context, sessionID, key string, dest interface{}) error
	Set(ctx context.Context, sessionID, key string, value interface{}) error
	// Delete is a no-op for a missing key
	Delete(ctx context.Context, sessionID, key string) error
	// Clear drops every key of the session
	Clear(ctx context.Context, sessionID string) error
}

func checkID(sessionID string) error {
	if sessionID == "" {
		return ErrEmptySessionID
	}
	return nil
}
