package ticket

import "time"

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
