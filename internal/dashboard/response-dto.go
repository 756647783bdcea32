package dashboard

// Acknowledgement reports an admin action that the fixed catalog does not persist
type Acknowledgement struct {
	TrainID string `json:"trainId"`
	Stored  bool   `json:"stored"`
}
