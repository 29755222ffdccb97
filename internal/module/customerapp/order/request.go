package order

type CheckoutRequest struct {
	EventID  string `json:"event_id" validate:"required"`
	TierID   string `json:"tier_id" validate:"required"`
	Quantity int64  `json:"quantity" validate:"min=1,max=10"`
	Currency string `json:"currency" validate:"required,len=3"`
	Gateway  string `json:"gateway" validate:"oneof=paystack flutterwave"`
}

type GetManyOrderRequest struct {
	Page int64 `validate:"min=1"`
	Size int64 `validate:"min=1,max=100"`
}
