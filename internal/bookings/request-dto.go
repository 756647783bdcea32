package bookings

// PassengerInput carries one passenger's fields as typed by the user
type PassengerInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Age       int    `json:"age"`
	Mobile    string `json:"mobile"`
	Berth     Berth  `json:"berth"`
}

func (in PassengerInput) toRecord() PassengerRecord {
	berth := in.Berth
	if berth == "" {
		berth = BerthSideLower
	}
	return PassengerRecord{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Age:       in.Age,
		Mobile:    in.Mobile,
		Berth:     berth,
	}
}

// SubmitBookingRequest optionally replaces the stored form before submitting
type SubmitBookingRequest struct {
	Passengers []PassengerInput `json:"passengers"`
}
