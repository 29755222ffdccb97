package ticket

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sahmwel/sahmticket-sub000/internal/pkg/util"
	"github.com/sahmwel/sahmticket-sub000/pkg/errors"
	"github.com/sahmwel/sahmticket-sub000/pkg/status"
)

type TicketTierUseCase interface {
	CreateTier(ctx context.Context, req CreateTierRequest) (TierResponse, error)
	AdjustAllocation(ctx context.Context, req AdjustAllocationRequest) (TierResponse, error)
	DeactivateTier(ctx context.Context, tierID string) error
}

type ticketTierUseCase struct {
	logger               *logrus.Logger
	timeout              time.Duration
	ticketTierRepository TicketTierRepository
}

type TicketTierUseCaseProperty struct {
	Logger               *logrus.Logger
	Timeout              time.Duration
	TicketTierRepository TicketTierRepository
}

func NewTicketTierUseCase(props TicketTierUseCaseProperty) TicketTierUseCase {
	return &ticketTierUseCase{
		logger:               props.Logger,
		timeout:              props.Timeout,
		ticketTierRepository: props.TicketTierRepository,
	}
}

// CreateTier implements TicketTierUseCase.
func (u *ticketTierUseCase) CreateTier(ctx context.Context, req CreateTierRequest) (TierResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	t := TicketTier{
		ID:              util.GenerateTimestampWithPrefix("TT"),
		EventID:         req.EventID,
		Name:            req.Name,
		Price:           req.Price,
		Allocation:      req.Allocation,
		Consumed:        0,
		Active:          true,
		LastStockUpdate: time.Now(),
	}

	if err := u.ticketTierRepository.Save(ctx, t, nil); err != nil {
		return TierResponse{}, err
	}

	resp := TierResponse{}
	resp.PopulateFromEntity(t)

	return resp, nil
}

// AdjustAllocation implements TicketTierUseCase. Capacity can never be set
// below what checkout has already consumed.
func (u *ticketTierUseCase) AdjustAllocation(ctx context.Context, req AdjustAllocationRequest) (TierResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	affected, err := u.ticketTierRepository.UpdateAllocation(ctx, req.TierID, req.Allocation, nil)
	if err != nil {
		return TierResponse{}, err
	}

	if affected == 0 {
		t, err := u.ticketTierRepository.FindByID(ctx, req.TierID, nil)
		if err != nil {
			return TierResponse{}, err
		}

		return TierResponse{}, errors.New(http.StatusConflict, status.CONFLICT, fmt.Sprintf("allocation %d is below the %d unit(s) already consumed", req.Allocation, t.Consumed))
	}

	t, err := u.ticketTierRepository.FindByID(ctx, req.TierID, nil)
	if err != nil {
		return TierResponse{}, err
	}

	resp := TierResponse{}
	resp.PopulateFromEntity(t)

	return resp, nil
}

// DeactivateTier implements TicketTierUseCase.
func (u *ticketTierUseCase) DeactivateTier(ctx context.Context, tierID string) error {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	if _, err := u.ticketTierRepository.FindByID(ctx, tierID, nil); err != nil {
		return err
	}

	return u.ticketTierRepository.Deactivate(ctx, tierID, nil)
}
