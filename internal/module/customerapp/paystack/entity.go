package paystack

const (
	TransactionStatusSuccess   = "success"
	TransactionStatusAbandoned = "abandoned"
	TransactionStatusFailed    = "failed"
)

// Paystack deals in integer minor units (kobo) and settles in NGN only.

type InitializeTransactionRequest struct {
	Email       string `json:"email"`
	Amount      int64  `json:"amount"`
	Reference   string `json:"reference"`
	Currency    string `json:"currency"`
	CallbackURL string `json:"callback_url"`
}

type InitializeTransactionData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type InitializeTransactionResponse struct {
	Status  bool                      `json:"status"`
	Message string                    `json:"message"`
	Data    InitializeTransactionData `json:"data"`
}

type VerifyTransactionData struct {
	ID        int64  `json:"id"`
	Status    string `json:"status"`
	Reference string `json:"reference"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	PaidAt    string `json:"paid_at"`
}

type VerifyTransactionResponse struct {
	Status  bool                  `json:"status"`
	Message string                `json:"message"`
	Data    VerifyTransactionData `json:"data"`
}
