package search

type SubmitSearchRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
	Date string `json:"date"`
}

type SwapRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}
