// Package flow names the steps of the booking journey and the value each
// operation returns to tell the client where to go next.
package flow

import "net/url"

type Step string

const (
	StepHome          Step = "home"
	StepTrainList     Step = "train_list"
	StepBooking       Step = "booking"
	StepPayment       Step = "payment"
	StepLogin         Step = "login"
	StepRegister      Step = "register"
	StepUserDashboard Step = "user_dashboard"
	StepAdminPanel    Step = "admin_panel"
)

// Transfer parameter keys carried between steps
const (
	ParamFrom    = "from"
	ParamTo      = "to"
	ParamDate    = "date"
	ParamTrainID = "trainId"
)

// Continuation tells the client which step follows and with what parameters
type Continuation struct {
	Step   Step              `json:"step"`
	Params map[string]string `json:"params,omitempty"`
	Query  string            `json:"query,omitempty"`
}

// To builds a continuation with URL-encoded parameters
func To(step Step, params map[string]string) Continuation {
	c := Continuation{Step: step}
	if len(params) == 0 {
		return c
	}
	c.Params = params
	values := url.Values{}
	for k, v := range params {
		values.Set(k, v)
	}
	c.Query = values.Encode()
	return c
}

// Decode reads transfer parameters back out of an encoded query
func Decode(query string) (map[string]string, error) {
	values, err := url.ParseQuery(query)
	if err != nil {
		return nil, err
	}
	params := make(map[string]string, len(values))
	for k := range values {
		params[k] = values.Get(k)
	}
	return params, nil
}
