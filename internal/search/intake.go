package search

import (
	"strings"
	"time"

	"railbook/internal/shared/flow"
)

// SubmitSearch validates a journey search made at now. Checks run in order:
// every field present (from, to, date), stations differ, date parses, date is
// tomorrow or later. The continuation points at the train list.
func SubmitSearch(from, to, date string, now time.Time) (SearchQuery, flow.Continuation, error) {
	from = strings.TrimSpace(from)
	to = strings.TrimSpace(to)
	date = strings.TrimSpace(date)

	for _, f := range []struct{ name, value string }{
		{flow.ParamFrom, from},
		{flow.ParamTo, to},
		{flow.ParamDate, date},
	} {
		if f.value == "" {
			return SearchQuery{}, flow.Continuation{}, &ValidationError{
				Field:   f.name,
				Code:    "required",
				Message: "Please fill in all required fields",
				Err:     ErrMissingField,
			}
		}
	}

	if from == to {
		return SearchQuery{}, flow.Continuation{}, &ValidationError{
			Field:   flow.ParamTo,
			Code:    "same_station",
			Message: "Source and destination cannot be the same",
			Err:     ErrSameStation,
		}
	}

	travel, err := time.ParseInLocation(DateLayout, date, now.Location())
	if err != nil {
		return SearchQuery{}, flow.Continuation{}, &ValidationError{
			Field:   flow.ParamDate,
			Code:    "invalid_date",
			Message: "Travel date must be in YYYY-MM-DD format",
			Err:     ErrInvalidDate,
		}
	}
	if travel.Before(DefaultDate(now)) {
		return SearchQuery{}, flow.Continuation{}, &ValidationError{
			Field:   flow.ParamDate,
			Code:    "date_too_early",
			Message: "Travel date must be tomorrow or later",
			Err:     ErrDateTooEarly,
		}
	}

	query := SearchQuery{From: from, To: to, Date: date}
	return query, flow.To(flow.StepTrainList, map[string]string{
		flow.ParamFrom: from,
		flow.ParamTo:   to,
		flow.ParamDate: date,
	}), nil
}

// SwapStations exchanges origin and destination without validating either
func SwapStations(from, to string) (string, string) {
	return to, from
}

// DefaultDate is the calendar day after today, at midnight in today's location.
// It is both the earliest selectable date and the prefilled one.
func DefaultDate(today time.Time) time.Time {
	y, m, d := today.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, today.Location())
}

// FormatDisplayDate turns a YYYY-MM-DD date into "02 Jan 2006". Unparseable
// input is returned unchanged.
func FormatDisplayDate(date string) string {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format(DisplayDateLayout)
}
