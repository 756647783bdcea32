package bookings

import (
	"context"
	"errors"
	"fmt"

	"railbook/internal/session"
)

// Repository is the typed view of the session keys a booking touches
type Repository interface {
	AppendBooking(ctx context.Context, sessionID string, rec BookingRecord) error
	ListBookings(ctx context.Context, sessionID string) ([]BookingRecord, error)

	SetPending(ctx context.Context, sessionID string, rec BookingRecord) error
	LoadPending(ctx context.Context, sessionID string) (*BookingRecord, error)
	ClearPending(ctx context.Context, sessionID string) error

	LoadForm(ctx context.Context, sessionID string) (*PassengerForm, error)
	SaveForm(ctx context.Context, sessionID string, form *PassengerForm) error
	UpdateForm(ctx context.Context, sessionID string, mutate func(*PassengerForm) error) (*PassengerForm, error)
	ClearForm(ctx context.Context, sessionID string) error
}

type repository struct {
	store  session.Store
	locker *session.Locker
}

func NewRepository(store session.Store, locker *session.Locker) Repository {
	if locker == nil {
		locker = session.NewLocker()
	}
	return &repository{store: store, locker: locker}
}

// AppendBooking is a read-modify-write of userBookings, serialised per session
func (r *repository) AppendBooking(ctx context.Context, sessionID string, rec BookingRecord) error {
	unlock := r.locker.Lock(sessionID)
	defer unlock()

	list, err := r.ListBookings(ctx, sessionID)
	if err != nil {
		return err
	}
	list = append(list, rec)
	if err := r.store.Set(ctx, sessionID, session.KeyUserBookings, list); err != nil {
		return fmt.Errorf("append booking: %w", err)
	}
	return nil
}

func (r *repository) ListBookings(ctx context.Context, sessionID string) ([]BookingRecord, error) {
	var list []BookingRecord
	if err := r.store.Get(ctx, sessionID, session.KeyUserBookings, &list); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return []BookingRecord{}, nil
		}
		return nil, fmt.Errorf("load bookings: %w", err)
	}
	return list, nil
}

func (r *repository) SetPending(ctx context.Context, sessionID string, rec BookingRecord) error {
	return r.store.Set(ctx, sessionID, session.KeyPendingBooking, rec)
}

func (r *repository) LoadPending(ctx context.Context, sessionID string) (*BookingRecord, error) {
	var rec BookingRecord
	if err := r.store.Get(ctx, sessionID, session.KeyPendingBooking, &rec); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, ErrNoPendingBooking
		}
		return nil, fmt.Errorf("load pending booking: %w", err)
	}
	return &rec, nil
}

func (r *repository) ClearPending(ctx context.Context, sessionID string) error {
	return r.store.Delete(ctx, sessionID, session.KeyPendingBooking)
}

// LoadForm returns an Empty form when the session has none
func (r *repository) LoadForm(ctx context.Context, sessionID string) (*PassengerForm, error) {
	form := &PassengerForm{Passengers: []PassengerRecord{}, State: FormEmpty}
	if err := r.store.Get(ctx, sessionID, session.KeyPassengerForm, form); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return &PassengerForm{Passengers: []PassengerRecord{}, State: FormEmpty}, nil
		}
		return nil, fmt.Errorf("load passenger form: %w", err)
	}
	return form, nil
}

func (r *repository) SaveForm(ctx context.Context, sessionID string, form *PassengerForm) error {
	return r.store.Set(ctx, sessionID, session.KeyPassengerForm, form)
}

// UpdateForm is a read-modify-write of passengerForm, serialised per session.
// Nothing is written when mutate fails.
func (r *repository) UpdateForm(ctx context.Context, sessionID string, mutate func(*PassengerForm) error) (*PassengerForm, error) {
	unlock := r.locker.Lock(sessionID)
	defer unlock()

	form, err := r.LoadForm(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := mutate(form); err != nil {
		return nil, err
	}
	if err := r.SaveForm(ctx, sessionID, form); err != nil {
		return nil, fmt.Errorf("save passenger form: %w", err)
	}
	return form, nil
}

func (r *repository) ClearForm(ctx context.Context, sessionID string) error {
	return r.store.Delete(ctx, sessionID, session.KeyPassengerForm)
}
