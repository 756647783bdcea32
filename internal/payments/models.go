package payments

import (
	"errors"
	"time"
)

type Method string

const (
	MethodCard       Method = "card"
	MethodUPI        Method = "upi"
	MethodNetBanking Method = "netbanking"
	MethodWallet     Method = "wallet"
)

// Methods in the order the payment page offers them
var Methods = []Method{MethodCard, MethodUPI, MethodNetBanking, MethodWallet}

func (m Method) IsValid() bool {
	for _, v := range Methods {
		if m == v {
			return true
		}
	}
	return false
}

const StatusCompleted = "COMPLETED"

// Payment is the simulated settlement of a pending booking. No money moves.
type Payment struct {
	TransactionID string    `json:"transaction_id"`
	PNR           string    `json:"pnr"`
	Amount        int       `json:"amount"`
	Currency      string    `json:"currency"`
	Method        Method    `json:"payment_method"`
	Status        string    `json:"status"`
	ProcessedAt   time.Time `json:"processed_at"`
}

var ErrInvalidMethod = errors.New("invalid payment method")
