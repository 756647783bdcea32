package bookings

type PassengerView struct {
	Label string `json:"label"`
	PassengerRecord
}

type FormResponse struct {
	State        FormState         `json:"state"`
	Count        int               `json:"count"`
	Passengers   []PassengerView   `json:"passengers"`
	BerthOptions []Berth           `json:"berth_options"`
	Invalid      []*PassengerError `json:"invalid,omitempty"`
}

type BookingListResponse struct {
	Count    int             `json:"count"`
	Bookings []BookingRecord `json:"bookings"`
}

func newFormResponse(form *PassengerForm) *FormResponse {
	labels := Labels(form.Passengers)
	views := make([]PassengerView, len(form.Passengers))
	for i, p := range form.Passengers {
		views[i] = PassengerView{Label: labels[i], PassengerRecord: p}
	}
	state := form.State
	if state == "" {
		state = FormEmpty
	}
	return &FormResponse{
		State:        state,
		Count:        len(views),
		Passengers:   views,
		BerthOptions: Berths,
	}
}
