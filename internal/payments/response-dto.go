package payments

import "railbook/internal/bookings"

type PendingResponse struct {
	Booking bookings.BookingRecord `json:"booking"`
	Amount  int                    `json:"amount"`
	Methods []Method               `json:"payment_methods"`
}

type PaymentResponse struct {
	Payment Payment                `json:"payment"`
	Booking bookings.BookingRecord `json:"booking"`
}
