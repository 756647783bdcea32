package bookings

import (
	"errors"
	"fmt"
	"time"

	"railbook/internal/trains"
)

// PassengerRecord is one traveller on a booking
type PassengerRecord struct {
	FirstName string `json:"firstName" validate:"required,notblank"`
	LastName  string `json:"lastName" validate:"required,notblank"`
	Age       int    `json:"age" validate:"required,min=1,max=120"`
	Mobile    string `json:"mobile" validate:"required,mobile"`
	Berth     Berth  `json:"berth" validate:"required,berth"`
}

// BookingRecord is created once per successful submission and never changed
// afterwards. TotalAmount is the train's fare times the passenger count.
type BookingRecord struct {
	PNR          string            `json:"pnr"`
	TrainDetails trains.Selection  `json:"trainDetails"`
	Passengers   []PassengerRecord `json:"passengers"`
	BookingDate  time.Time         `json:"bookingDate"`
	Status       Status            `json:"status"`
	TotalAmount  int               `json:"totalAmount"`
}

// PassengerForm is the in-progress passenger list of a session
type PassengerForm struct {
	Passengers []PassengerRecord `json:"passengers"`
	State      FormState         `json:"state"`
}

var (
	ErrNoPassengers        = errors.New("no passengers added")
	ErrIncompletePassenger = errors.New("incomplete passenger details")
	ErrPassengerIndex      = errors.New("passenger index out of range")
	ErrNoSelection         = trains.ErrNoSelection
	ErrNoPendingBooking    = errors.New("no pending booking")
	ErrBookingNotFound     = errors.New("booking not found")
)

// PassengerError names the first offending field of one passenger
type PassengerError struct {
	Index int    `json:"index"`
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

func (e *PassengerError) Error() string {
	return fmt.Sprintf("passenger %d: invalid %s (%s)", e.Index+1, e.Field, e.Rule)
}

func (e *PassengerError) Unwrap() error {
	return ErrIncompletePassenger
}
