package trains

type ListTrainsRequest struct {
	From string `form:"from"`
	To   string `form:"to"`
	Date string `form:"date"`
}

type FareRequest struct {
	Passengers int `form:"passengers,default=1" binding:"min=1"`
}

type SelectTrainRequest struct {
	From string `json:"from" form:"from"`
	To   string `json:"to" form:"to"`
	Date string `json:"date" form:"date"`
}
