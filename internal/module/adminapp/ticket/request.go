package ticket

type CreateTierRequest struct {
	EventID    string  `json:"event_id" validate:"required"`
	Name       string  `json:"name" validate:"required"`
	Price      float64 `json:"price" validate:"min=0"`
	Allocation int64   `json:"allocation" validate:"min=1"`
}

type AdjustAllocationRequest struct {
	TierID     string `json:"tier_id" validate:"required"`
	Allocation int64  `json:"allocation" validate:"min=1"`
}
