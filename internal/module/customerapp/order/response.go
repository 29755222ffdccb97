package order

import (
	"time"

	"github.com/sahmwel/sahmticket-sub000/internal/module/customerapp/ticket"
)

type OrderResponse struct {
	ID                  string           `json:"id"`
	EventID             string           `json:"event_id"`
	EventTitle          string           `json:"event_title"`
	TierID              string           `json:"tier_id"`
	TierName            string           `json:"tier_name"`
	Quantity            int64            `json:"quantity"`
	Currency            string           `json:"currency"`
	Gateway             string           `json:"gateway"`
	UnitPrice           float64          `json:"unit_price"`
	Fee                 float64          `json:"fee"`
	TotalAmount         float64          `json:"total_amount"`
	SettlementCurrency  string           `json:"settlement_currency"`
	SettlementUnitPrice float64          `json:"settlement_unit_price"`
	SettlementTotal     float64          `json:"settlement_total"`
	Status              string           `json:"status"`
	CustomerName        string           `json:"customer_name"`
	CustomerEmail       string           `json:"customer_email"`
	GatewayReference    *string          `json:"gateway_reference"`
	PaymentURL          *string          `json:"payment_url"`
	Tickets             []TicketResponse `json:"tickets,omitempty"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
}

func (r *OrderResponse) PopulateFromEntity(o Order) {
	r.ID = o.ID
	r.EventID = o.EventID
	r.EventTitle = o.EventTitle
	r.TierID = o.TierID
	r.TierName = o.TierName
	r.Quantity = o.Quantity
	r.Currency = o.Currency
	r.Gateway = o.Gateway
	r.UnitPrice = o.UnitPrice
	r.Fee = o.Fee
	r.TotalAmount = o.TotalAmount
	r.SettlementCurrency = o.SettlementCurrency
	r.SettlementUnitPrice = o.SettlementUnitPrice
	r.SettlementTotal = o.SettlementTotal
	r.Status = o.Status
	r.CustomerName = o.CustomerName
	r.CustomerEmail = o.CustomerEmail
	r.GatewayReference = o.GatewayReference
	r.PaymentURL = o.PaymentURL
	r.CreatedAt = o.CreatedAt
	r.UpdatedAt = o.UpdatedAt
}

func (r *OrderResponse) PopulateTickets(tickets []ticket.Ticket) {
	ticketsResponse := make([]TicketResponse, len(tickets))
	for k, v := range tickets {
		ticketsResponse[k] = TicketResponse{
			ID:          v.ID,
			OrderID:     v.OrderID,
			TierID:      v.TierID,
			EventID:     v.EventID,
			ScanPayload: v.ScanPayload,
			Price:       v.Price,
			IssuedAt:    v.IssuedAt,
		}
	}
	r.Tickets = ticketsResponse
}

type TicketResponse struct {
	ID          int64     `json:"id"`
	OrderID     string    `json:"order_id"`
	TierID      string    `json:"tier_id"`
	EventID     string    `json:"event_id"`
	ScanPayload string    `json:"scan_payload"`
	Price       float64   `json:"price"`
	IssuedAt    time.Time `json:"issued_at"`
}

type CheckoutResponse = OrderResponse

type GetManyOrderResponse []OrderResponse

type GatewayCallbackResponse struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}
