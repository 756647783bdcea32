package trains

import "errors"

// TrainOffering is one scheduled service from the fixed catalog
type TrainOffering struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	From      string `json:"from"`
	To        string `json:"to"`
	Departure string `json:"departure"`
	Arrival   string `json:"arrival"`
	Duration  string `json:"duration"`
	Seats     int    `json:"seats"`
}

// Selection is the train a session picked together with the search that led
// to it. From, To and Date come from the search, not the offering.
type Selection struct {
	TrainID   string `json:"trainId"`
	TrainName string `json:"trainName"`
	From      string `json:"from"`
	To        string `json:"to"`
	Date      string `json:"date"`
	Departure string `json:"departure"`
	Arrival   string `json:"arrival"`
	Duration  string `json:"duration"`
	Seats     int    `json:"seats"`
}

var (
	ErrTrainNotFound = errors.New("train not found")
	ErrNoSelection   = errors.New("no train selected")
	ErrInvalidTime   = errors.New("invalid time of day")
)
