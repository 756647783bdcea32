package dashboard

import "railbook/internal/bookings"

// RouteSummary aggregates the catalog offerings of one origin/destination pair
type RouteSummary struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Trains  int    `json:"trains"`
	Seats   int    `json:"seats"`
	MinFare int    `json:"min_fare"`
	MaxFare int    `json:"max_fare"`
}

// Overview is the admin panel's view of the catalog
type Overview struct {
	TotalTrains int            `json:"total_trains"`
	TotalSeats  int            `json:"total_seats"`
	Stations    []string       `json:"stations"`
	Routes      []RouteSummary `json:"routes"`
}

// UserSummary is the user dashboard's view of the session's bookings
type UserSummary struct {
	TotalBookings   int                      `json:"total_bookings"`
	TotalPassengers int                      `json:"total_passengers"`
	TotalSpent      int                      `json:"total_spent"`
	Upcoming        []bookings.BookingRecord `json:"upcoming"`
	Past            []bookings.BookingRecord `json:"past"`
}
