package flutterwave

const (
	PaymentStatusSuccessful = "successful"
	PaymentStatusCancelled  = "cancelled"
	PaymentStatusFailed     = "failed"
)

// Flutterwave deals in decimal major units with an explicit ISO currency.

type Customer struct {
	Email       string `json:"email"`
	PhoneNumber string `json:"phonenumber"`
	Name        string `json:"name"`
}

type PaymentRequest struct {
	TxRef       string   `json:"tx_ref"`
	Amount      float64  `json:"amount"`
	Currency    string   `json:"currency"`
	RedirectURL string   `json:"redirect_url"`
	Customer    Customer `json:"customer"`
}

type PaymentData struct {
	Link string `json:"link"`
}

type PaymentResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    PaymentData `json:"data"`
}

type VerifyData struct {
	ID       int64   `json:"id"`
	TxRef    string  `json:"tx_ref"`
	FlwRef   string  `json:"flw_ref"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Status   string  `json:"status"`
}

type VerifyResponse struct {
	Status  string     `json:"status"`
	Message string     `json:"message"`
	Data    VerifyData `json:"data"`
}
