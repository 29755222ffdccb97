package order

type ExpireOrderEvent struct {
	ID string `json:"id"`
}

// TicketIssuedEvent is published for the notification collaborator after a
// verified issuance. Delivery is best effort.
type TicketIssuedEvent struct {
	OrderID       string   `json:"order_id"`
	CustomerName  string   `json:"customer_name"`
	CustomerEmail string   `json:"customer_email"`
	CustomerPhone string   `json:"customer_phone"`
	EventID       string   `json:"event_id"`
	EventTitle    string   `json:"event_title"`
	TierID        string   `json:"tier_id"`
	TierName      string   `json:"tier_name"`
	Quantity      int64    `json:"quantity"`
	ScanPayloads  []string `json:"scan_payloads"`
}
