package search

import (
	"errors"
	"fmt"
)

const (
	// DateLayout is the wire format of a travel date
	DateLayout = "2006-01-02"
	// DisplayDateLayout renders a travel date for the results banner
	DisplayDateLayout = "02 Jan 2006"
)

// SearchQuery is an accepted journey search. From and To differ and Date is
// no earlier than the day after the search was made.
type SearchQuery struct {
	From string `json:"from"`
	To   string `json:"to"`
	Date string `json:"date"`
}

var (
	ErrMissingField = errors.New("missing required field")
	ErrSameStation  = errors.New("source and destination are the same")
	ErrInvalidDate  = errors.New("invalid travel date")
	ErrDateTooEarly = errors.New("travel date is before tomorrow")
)

// ValidationError names the offending field of a rejected search
type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
