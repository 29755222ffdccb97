package ticket

import "time"

// TicketTier is a named class of ticket for one event with a settlement
// currency unit price and a finite allocation. Consumed is mutated only by
// the stock guard's commit step.
type TicketTier struct {
	ID              string
	EventID         string
	Name            string
	Price           float64
	Allocation      int64
	Consumed        int64
	Active          bool
	LastStockUpdate time.Time
}

func (t TicketTier) Remaining() int64 {
	return t.Allocation - t.Consumed
}

// Ticket is one independently scannable unit of a finalized order. Rows are
// never edited after creation except the Used flag, which the redemption
// scanner sets exactly once.
type Ticket struct {
	ID          int64
	OrderID     string
	TierID      string
	EventID     string
	ScanPayload string
	Price       float64
	Used        bool
	IssuedAt    time.Time
}
