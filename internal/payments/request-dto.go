package payments

type PayRequest struct {
	PaymentMethod Method `json:"payment_method" binding:"required"`
}
