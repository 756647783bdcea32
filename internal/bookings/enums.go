package bookings

type Status string

const (
	StatusConfirmed Status = "Confirmed"
)

func (s Status) String() string {
	return string(s)
}

// Berth is a passenger's seating preference
type Berth string

const (
	BerthSideLower  Berth = "side-lower"
	BerthSideUpper  Berth = "side-upper"
	BerthLower      Berth = "lower"
	BerthMiddle     Berth = "middle"
	BerthUpper      Berth = "upper"
	BerthSideMiddle Berth = "side-middle"
)

// Berths in the order the booking form offers them
var Berths = []Berth{BerthSideLower, BerthSideUpper, BerthLower, BerthMiddle, BerthUpper, BerthSideMiddle}

func (b Berth) IsValid() bool {
	for _, v := range Berths {
		if b == v {
			return true
		}
	}
	return false
}

// FormState tracks the passenger form through one booking
type FormState string

const (
	FormEmpty      FormState = "Empty"
	FormCollecting FormState = "Collecting"
	FormValidated  FormState = "Validated"
	FormSubmitted  FormState = "Submitted"
)
