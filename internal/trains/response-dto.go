package trains

type TrainWithFare struct {
	TrainOffering
	Fare int `json:"fare"`
}

type TrainListResponse struct {
	From        string          `json:"from,omitempty"`
	To          string          `json:"to,omitempty"`
	Date        string          `json:"date,omitempty"`
	DisplayDate string          `json:"display_date,omitempty"`
	Count       int             `json:"count"`
	Summary     string          `json:"summary"`
	Trains      []TrainWithFare `json:"trains"`
}

type FareResponse struct {
	TrainID     string `json:"train_id"`
	BaseFare    int    `json:"base_fare"`
	Passengers  int    `json:"passengers"`
	TotalAmount int    `json:"total_amount"`
	DefaultFare bool   `json:"default_fare"`
}

type StationsResponse struct {
	Stations []string `json:"stations"`
}
