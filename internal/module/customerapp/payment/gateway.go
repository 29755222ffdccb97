package payment

import (
	"context"

	"github.com/sahmwel/sahmticket-sub000/internal/module/customerapp/pricing"
)

const (
	StatusSuccess   = "SUCCESS"
	StatusCancelled = "CANCELLED"
	StatusError     = "ERROR"
)

type Buyer struct {
	Name  string
	Email string
	Phone string
}

// Authorization is the gateway-hosted payment session created for one order.
// The buyer completes or abandons it out of process.
type Authorization struct {
	Gateway    string
	Reference  string
	PaymentURL string
}

// Callback carries the raw parameters the gateway-hosted UI sends back on
// redirect. Field names differ per provider; each adapter knows its own.
type Callback struct {
	Params map[string]string
}

// Result is the tagged outcome of resolving a callback against the
// provider's verification API.
//
//   - StatusSuccess: payment captured; Reference holds the provider's
//     settlement reference and OrderID the order it settles.
//   - StatusCancelled: the buyer aborted; terminal, no retry.
//   - StatusError: transient provider failure; safe to retry the whole paid
//     path because nothing is committed before success.
type Result struct {
	Status    string
	OrderID   string
	Reference string
	Cause     string
}

// Gateway is the uniform adapter over one external payment processor.
type Gateway interface {
	Name() string
	Authorize(ctx context.Context, orderID string, quote pricing.Quotation, buyer Buyer) (Authorization, error)
	Resolve(ctx context.Context, callback Callback) Result
}
