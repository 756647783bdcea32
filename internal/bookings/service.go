package bookings

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"time"

	"railbook/internal/shared/flow"
	"railbook/internal/shared/metrics"
	"railbook/internal/trains"
	"railbook/pkg/logger"
)

type Service interface {
	// Passenger form
	GetForm(ctx context.Context, sessionID string) (*FormResponse, error)
	AddPassenger(ctx context.Context, sessionID string, in *PassengerInput) (*FormResponse, error)
	UpdatePassenger(ctx context.Context, sessionID string, index int, in PassengerInput) (*FormResponse, error)
	RemovePassenger(ctx context.Context, sessionID string, index int) (*FormResponse, error)
	ValidateForm(ctx context.Context, sessionID string) (*FormResponse, error)
	ResetForm(ctx context.Context, sessionID string) error

	// Submission and lookups
	Submit(ctx context.Context, sessionID string, req *SubmitBookingRequest) (*BookingRecord, flow.Continuation, error)
	ListBookings(ctx context.Context, sessionID string) (*BookingListResponse, error)
	GetPending(ctx context.Context, sessionID string) (*BookingRecord, error)
	GetBooking(ctx context.Context, sessionID, pnr string) (*BookingRecord, error)
	Ticket(ctx context.Context, sessionID, pnr string) ([]byte, error)
}

type service struct {
	repo       Repository
	selections trains.SelectionRepository
	rand       io.Reader
	now        func() time.Time
	logger     *logger.Logger
}

// Option adjusts a service at construction
type Option func(*service)

// WithClock sets the source of booking timestamps
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

// WithRandom sets the entropy used for PNRs
func WithRandom(r io.Reader) Option {
	return func(s *service) { s.rand = r }
}

func NewService(repo Repository, selections trains.SelectionRepository, opts ...Option) Service {
	s := &service{
		repo:       repo,
		selections: selections,
		rand:       rand.Reader,
		now:        time.Now,
		logger:     logger.GetDefault(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) GetForm(ctx context.Context, sessionID string) (*FormResponse, error) {
	form, err := s.repo.LoadForm(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return newFormResponse(form), nil
}

func (s *service) AddPassenger(ctx context.Context, sessionID string, in *PassengerInput) (*FormResponse, error) {
	return s.mutateForm(ctx, sessionID, func(form *PassengerForm) error {
		form.Add()
		if in != nil {
			return form.Update(len(form.Passengers)-1, in.toRecord())
		}
		return nil
	})
}

func (s *service) UpdatePassenger(ctx context.Context, sessionID string, index int, in PassengerInput) (*FormResponse, error) {
	return s.mutateForm(ctx, sessionID, func(form *PassengerForm) error {
		return form.Update(index, in.toRecord())
	})
}

func (s *service) RemovePassenger(ctx context.Context, sessionID string, index int) (*FormResponse, error) {
	return s.mutateForm(ctx, sessionID, func(form *PassengerForm) error {
		return form.Remove(index)
	})
}

// ValidateForm flags every invalid field but reports the first one as the error
func (s *service) ValidateForm(ctx context.Context, sessionID string) (*FormResponse, error) {
	form, err := s.repo.LoadForm(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if verr := form.Validate(); verr != nil {
		resp := newFormResponse(form)
		resp.Invalid = ValidateAll(form.Passengers)
		return resp, verr
	}
	if err := s.repo.SaveForm(ctx, sessionID, form); err != nil {
		return nil, fmt.Errorf("save passenger form: %w", err)
	}
	return newFormResponse(form), nil
}

func (s *service) ResetForm(ctx context.Context, sessionID string) error {
	return s.repo.ClearForm(ctx, sessionID)
}

func (s *service) mutateForm(ctx context.Context, sessionID string, mutate func(*PassengerForm) error) (*FormResponse, error) {
	form, err := s.repo.UpdateForm(ctx, sessionID, mutate)
	if err != nil {
		if !IsUserError(err) {
			s.logger.LogSessionStoreError(ctx, "update", sessionID, "passengerForm", err)
		}
		return nil, err
	}
	return newFormResponse(form), nil
}

// Submit turns the passenger form into a confirmed booking. The writes run in
// order userBookings, selectedTrain, pendingBooking, passengerForm and the
// first failure is returned with earlier writes left in place.
func (s *service) Submit(ctx context.Context, sessionID string, req *SubmitBookingRequest) (*BookingRecord, flow.Continuation, error) {
	form, err := s.repo.LoadForm(ctx, sessionID)
	if err != nil {
		return nil, flow.Continuation{}, err
	}

	if req != nil && req.Passengers != nil {
		list := make([]PassengerRecord, len(req.Passengers))
		for i, in := range req.Passengers {
			list[i] = in.toRecord()
		}
		form.Replace(list)
		if err := s.repo.SaveForm(ctx, sessionID, form); err != nil {
			return nil, flow.Continuation{}, fmt.Errorf("save passenger form: %w", err)
		}
	}

	if err := form.Validate(); err != nil {
		return nil, flow.Continuation{}, err
	}

	sel, err := s.selections.LoadSelection(ctx, sessionID)
	if err != nil {
		return nil, flow.Continuation{}, err
	}

	pnr, err := GeneratePNR(s.rand)
	if err != nil {
		return nil, flow.Continuation{}, err
	}
	rec := Assemble(pnr, form.Passengers, *sel, s.now())

	if err := s.repo.AppendBooking(ctx, sessionID, rec); err != nil {
		s.logger.LogSessionStoreError(ctx, "append", sessionID, "userBookings", err)
		return nil, flow.Continuation{}, err
	}
	if err := s.selections.ClearSelection(ctx, sessionID); err != nil {
		s.logger.LogSessionStoreError(ctx, "delete", sessionID, "selectedTrain", err)
		return nil, flow.Continuation{}, fmt.Errorf("clear selection: %w", err)
	}
	if err := s.repo.SetPending(ctx, sessionID, rec); err != nil {
		s.logger.LogSessionStoreError(ctx, "save", sessionID, "pendingBooking", err)
		return nil, flow.Continuation{}, fmt.Errorf("save pending booking: %w", err)
	}
	form.State = FormSubmitted
	if err := s.repo.ClearForm(ctx, sessionID); err != nil {
		s.logger.LogSessionStoreError(ctx, "delete", sessionID, "passengerForm", err)
		return nil, flow.Continuation{}, fmt.Errorf("clear passenger form: %w", err)
	}

	metrics.BookingsCreated.Inc()
	metrics.PassengersBooked.Add(float64(len(rec.Passengers)))
	s.logger.LogBookingCreated(ctx, rec.PNR, rec.TrainDetails.TrainID, sessionID, len(rec.Passengers), rec.TotalAmount)

	return &rec, flow.To(flow.StepPayment, nil), nil
}

func (s *service) ListBookings(ctx context.Context, sessionID string) (*BookingListResponse, error) {
	list, err := s.repo.ListBookings(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &BookingListResponse{Count: len(list), Bookings: list}, nil
}

func (s *service) GetPending(ctx context.Context, sessionID string) (*BookingRecord, error) {
	return s.repo.LoadPending(ctx, sessionID)
}

// GetBooking finds a booking by PNR; with duplicate PNRs the newest wins
func (s *service) GetBooking(ctx context.Context, sessionID, pnr string) (*BookingRecord, error) {
	list, err := s.repo.ListBookings(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	for i := len(list) - 1; i >= 0; i-- {
		if list[i].PNR == pnr {
			rec := list[i]
			return &rec, nil
		}
	}
	return nil, ErrBookingNotFound
}

func (s *service) Ticket(ctx context.Context, sessionID, pnr string) ([]byte, error) {
	rec, err := s.GetBooking(ctx, sessionID, pnr)
	if err != nil {
		return nil, err
	}
	return RenderTicket(*rec)
}

// IsUserError reports whether err is a validation failure the client can fix
func IsUserError(err error) bool {
	return errors.Is(err, ErrNoPassengers) ||
		errors.Is(err, ErrIncompletePassenger) ||
		errors.Is(err, ErrPassengerIndex)
}
