package ticket

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/sahmwel/sahmticket-sub000/pkg/errors"
	"github.com/sahmwel/sahmticket-sub000/pkg/status"
)

// StockGuard is the only path allowed to mutate a tier's consumed counter.
// CheckAvailability and Commit are two phases of one critical section: the
// check runs before payment authorization, the commit re-validates capacity
// through a conditional update, so a stale check can never oversell.
type StockGuard interface {
	CheckAvailability(ctx context.Context, tierID string, quantity int64) (int64, error)
	Commit(ctx context.Context, tierID string, quantity int64, tx *sql.Tx) error
}

type stockGuard struct {
	logger         *logrus.Logger
	tierRepository TierRepository
}

func NewStockGuard(logger *logrus.Logger, tierRepository TierRepository) StockGuard {
	return &stockGuard{
		logger:         logger,
		tierRepository: tierRepository,
	}
}

// CheckAvailability implements StockGuard.
func (g *stockGuard) CheckAvailability(ctx context.Context, tierID string, quantity int64) (int64, error) {
	tier, err := g.tierRepository.FindByID(ctx, tierID, nil)
	if err != nil {
		return 0, err
	}

	if !tier.Active {
		return 0, errors.New(http.StatusConflict, status.TIER_INACTIVE, fmt.Sprintf("ticket tier '%s' is no longer on sale", tierID))
	}

	remaining := tier.Remaining()
	if remaining < quantity {
		return remaining, errors.New(http.StatusConflict, status.INSUFFICIENT_STOCK, fmt.Sprintf("ticket tier '%s' has only %d unit(s) left", tierID, remaining))
	}

	return remaining, nil
}

// Commit implements StockGuard. A zero-row conditional update means a
// concurrent buyer consumed the capacity, or the tier went inactive, after
// this buyer's availability check.
func (g *stockGuard) Commit(ctx context.Context, tierID string, quantity int64, tx *sql.Tx) error {
	affected, err := g.tierRepository.ConsumeStock(ctx, tierID, quantity, tx)
	if err != nil {
		return err
	}

	if affected > 0 {
		return nil
	}

	tier, err := g.tierRepository.FindByID(ctx, tierID, tx)
	if err != nil {
		return err
	}

	if !tier.Active {
		return errors.New(http.StatusConflict, status.TIER_INACTIVE, fmt.Sprintf("ticket tier '%s' is no longer on sale", tierID))
	}

	g.logger.WithContext(ctx).WithFields(logrus.Fields{
		"tierId":   tierID,
		"quantity": quantity,
	}).Warn("stock commit lost the race for the remaining capacity")

	return errors.New(http.StatusConflict, status.INSUFFICIENT_STOCK, fmt.Sprintf("ticket tier '%s' is sold out", tierID))
}
