package ticket

import (
	"context"
	"database/sql"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sahmwel/sahmticket-sub000/pkg/errors"
	"github.com/sahmwel/sahmticket-sub000/pkg/status"
)

type fakeTicketTierRepository struct {
	tiers map[string]TicketTier
}

func (f *fakeTicketTierRepository) Save(ctx context.Context, t TicketTier, tx *sql.Tx) error {
	if f.tiers == nil {
		f.tiers = make(map[string]TicketTier)
	}
	f.tiers[t.ID] = t
	return nil
}

func (f *fakeTicketTierRepository) FindByID(ctx context.Context, ID string, tx *sql.Tx) (TicketTier, error) {
	t, ok := f.tiers[ID]
	if !ok {
		return TicketTier{}, errors.New(http.StatusNotFound, status.NOT_FOUND, "ticket tier is not found")
	}
	return t, nil
}

func (f *fakeTicketTierRepository) UpdateAllocation(ctx context.Context, ID string, allocation int64, tx *sql.Tx) (int64, error) {
	t, ok := f.tiers[ID]
	if !ok || allocation < t.Consumed {
		return 0, nil
	}

	t.Allocation = allocation
	t.LastStockUpdate = time.Now()
	f.tiers[ID] = t

	return 1, nil
}

func (f *fakeTicketTierRepository) Deactivate(ctx context.Context, ID string, tx *sql.Tx) error {
	t, ok := f.tiers[ID]
	if !ok {
		return errors.New(http.StatusNotFound, status.NOT_FOUND, "ticket tier is not found")
	}

	t.Active = false
	f.tiers[ID] = t

	return nil
}

func newTestUseCase(repo *fakeTicketTierRepository) TicketTierUseCase {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.SetLevel(logrus.PanicLevel)

	return NewTicketTierUseCase(TicketTierUseCaseProperty{
		Logger:               logger,
		Timeout:              5 * time.Second,
		TicketTierRepository: repo,
	})
}

func TestCreateTier(t *testing.T) {
	repo := &fakeTicketTierRepository{}
	useCase := newTestUseCase(repo)

	resp, err := useCase.CreateTier(context.Background(), CreateTierRequest{
		EventID:    "EV-1",
		Name:       "Regular",
		Price:      5000,
		Allocation: 200,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(resp.ID, "TT-") {
		t.Errorf("expected a TT-prefixed id, got %s", resp.ID)
	}
	if !resp.Active {
		t.Error("a new tier must start active")
	}
	if resp.Consumed != 0 {
		t.Errorf("a new tier must start unconsumed, got %d", resp.Consumed)
	}
	if _, ok := repo.tiers[resp.ID]; !ok {
		t.Error("the tier was not persisted")
	}
}

func TestAdjustAllocation(t *testing.T) {
	repo := &fakeTicketTierRepository{tiers: map[string]TicketTier{
		"TT-1": {ID: "TT-1", EventID: "EV-1", Allocation: 100, Consumed: 40, Active: true},
	}}
	useCase := newTestUseCase(repo)

	resp, err := useCase.AdjustAllocation(context.Background(), AdjustAllocationRequest{TierID: "TT-1", Allocation: 60})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Allocation != 60 {
		t.Errorf("expected allocation 60, got %d", resp.Allocation)
	}
}

func TestAdjustAllocation_BelowConsumedRejected(t *testing.T) {
	repo := &fakeTicketTierRepository{tiers: map[string]TicketTier{
		"TT-1": {ID: "TT-1", EventID: "EV-1", Allocation: 100, Consumed: 40, Active: true},
	}}
	useCase := newTestUseCase(repo)

	_, err := useCase.AdjustAllocation(context.Background(), AdjustAllocationRequest{TierID: "TT-1", Allocation: 39})
	if !errors.Is(err, status.CONFLICT) {
		t.Fatalf("expected CONFLICT, got %v", err)
	}

	if repo.tiers["TT-1"].Allocation != 100 {
		t.Errorf("allocation must stand at 100, got %d", repo.tiers["TT-1"].Allocation)
	}
}

func TestDeactivateTier(t *testing.T) {
	repo := &fakeTicketTierRepository{tiers: map[string]TicketTier{
		"TT-1": {ID: "TT-1", EventID: "EV-1", Allocation: 100, Active: true},
	}}
	useCase := newTestUseCase(repo)

	if err := useCase.DeactivateTier(context.Background(), "TT-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if repo.tiers["TT-1"].Active {
		t.Error("expected the tier to be inactive")
	}
}

func TestDeactivateTier_NotFound(t *testing.T) {
	useCase := newTestUseCase(&fakeTicketTierRepository{})

	err := useCase.DeactivateTier(context.Background(), "TT-404")
	if !errors.Is(err, status.NOT_FOUND) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}
