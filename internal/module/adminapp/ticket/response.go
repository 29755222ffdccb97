package ticket

import "time"

type TierResponse struct {
	ID              string    `json:"id"`
	EventID         string    `json:"event_id"`
	Name            string    `json:"name"`
	Price           float64   `json:"price"`
	Allocation      int64     `json:"allocation"`
	Consumed        int64     `json:"consumed"`
	Active          bool      `json:"active"`
	LastStockUpdate time.Time `json:"last_stock_update"`
}

func (r *TierResponse) PopulateFromEntity(t TicketTier) {
	r.ID = t.ID
	r.EventID = t.EventID
	r.Name = t.Name
	r.Price = t.Price
	r.Allocation = t.Allocation
	r.Consumed = t.Consumed
	r.Active = t.Active
	r.LastStockUpdate = t.LastStockUpdate
}
