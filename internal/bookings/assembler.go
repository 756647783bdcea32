package bookings

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"time"

	"railbook/internal/trains"
)

const (
	pnrAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	PNRLength   = 10
)

// NewPassenger is a blank record with the form's first berth preselected
func NewPassenger() PassengerRecord {
	return PassengerRecord{Berth: BerthSideLower}
}

// AddPassenger returns a copy of list with one blank passenger appended
func AddPassenger(list []PassengerRecord) []PassengerRecord {
	out := make([]PassengerRecord, len(list), len(list)+1)
	copy(out, list)
	return append(out, NewPassenger())
}

// RemovePassenger returns a copy of list without the passenger at index
func RemovePassenger(list []PassengerRecord, index int) ([]PassengerRecord, error) {
	if index < 0 || index >= len(list) {
		return nil, fmt.Errorf("%w: %d", ErrPassengerIndex, index)
	}
	out := make([]PassengerRecord, 0, len(list)-1)
	out = append(out, list[:index]...)
	return append(out, list[index+1:]...), nil
}

// Labels numbers the passengers 1..N in list order
func Labels(list []PassengerRecord) []string {
	labels := make([]string, len(list))
	for i := range list {
		labels[i] = fmt.Sprintf("Passenger %d", i+1)
	}
	return labels
}

// GeneratePNR draws PNRLength characters uniformly from A-Z0-9. Uniqueness
// against earlier bookings is not checked.
func GeneratePNR(r io.Reader) (string, error) {
	if r == nil {
		r = rand.Reader
	}
	max := big.NewInt(int64(len(pnrAlphabet)))
	pnr := make([]byte, PNRLength)
	for i := range pnr {
		n, err := rand.Int(r, max)
		if err != nil {
			return "", fmt.Errorf("generate pnr: %w", err)
		}
		pnr[i] = pnrAlphabet[n.Int64()]
	}
	return string(pnr), nil
}

// Assemble builds a confirmed booking for the selected train
func Assemble(pnr string, passengers []PassengerRecord, sel trains.Selection, now time.Time) BookingRecord {
	list := make([]PassengerRecord, len(passengers))
	copy(list, passengers)
	return BookingRecord{
		PNR:          pnr,
		TrainDetails: sel,
		Passengers:   list,
		BookingDate:  now.UTC(),
		Status:       StatusConfirmed,
		TotalAmount:  trains.TotalFare(sel.TrainID, len(list)),
	}
}

// Form transitions

// Add appends a blank passenger
func (f *PassengerForm) Add() {
	f.Passengers = AddPassenger(f.Passengers)
	f.State = FormCollecting
}

// Update replaces the passenger at index; a validated form goes back to collecting
func (f *PassengerForm) Update(index int, p PassengerRecord) error {
	if index < 0 || index >= len(f.Passengers) {
		return fmt.Errorf("%w: %d", ErrPassengerIndex, index)
	}
	f.Passengers[index] = p
	f.State = FormCollecting
	return nil
}

// Remove drops the passenger at index; an emptied form returns to Empty
func (f *PassengerForm) Remove(index int) error {
	list, err := RemovePassenger(f.Passengers, index)
	if err != nil {
		return err
	}
	f.Passengers = list
	if len(list) == 0 {
		f.State = FormEmpty
	} else {
		f.State = FormCollecting
	}
	return nil
}

// Validate moves a complete form to Validated
func (f *PassengerForm) Validate() error {
	if err := Validate(f.Passengers); err != nil {
		return err
	}
	f.State = FormValidated
	return nil
}

// Replace swaps in a whole passenger list
func (f *PassengerForm) Replace(list []PassengerRecord) {
	f.Passengers = append([]PassengerRecord(nil), list...)
	if len(list) == 0 {
		f.State = FormEmpty
	} else {
		f.State = FormCollecting
	}
}
