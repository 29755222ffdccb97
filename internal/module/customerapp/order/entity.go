package order

import "time"

// Order lifecycle. QUOTED and STOCK_CHECKED live only inside one checkout
// call; the remaining states are persisted because the paid path suspends on
// the gateway-hosted UI.
const (
	StatusAwaitingGateway  = "AWAITING_GATEWAY"
	StatusGatewayConfirmed = "GATEWAY_CONFIRMED"
	StatusIssued           = "ISSUED"
	StatusCancelled        = "CANCELLED"
	StatusFailed           = "FAILED"
)

type Order struct {
	ID                  string
	EventID             string
	EventTitle          string
	TierID              string
	TierName            string
	Quantity            int64
	Currency            string
	Gateway             string
	UnitPrice           float64
	Fee                 float64
	TotalAmount         float64
	SettlementCurrency  string
	SettlementUnitPrice float64
	SettlementTotal     float64
	Status              string
	CustomerID          int64
	CustomerName        string
	CustomerEmail       string
	CustomerPhone       string
	GatewayReference    *string
	PaymentURL          *string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
