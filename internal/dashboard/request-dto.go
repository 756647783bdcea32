package dashboard

// ScheduleRequest is the admin "add train schedule" form
type ScheduleRequest struct {
	TrainNo   string `json:"trainNo" validate:"required"`
	TrainName string `json:"trainName" validate:"required"`
	From      string `json:"from" validate:"required"`
	To        string `json:"to" validate:"required"`
	Departure string `json:"departure,omitempty"`
	Arrival   string `json:"arrival,omitempty"`
	Seats     int    `json:"seats,omitempty" validate:"omitempty,min=1"`
}
