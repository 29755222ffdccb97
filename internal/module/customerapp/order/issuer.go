package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sahmwel/sahmticket-sub000/internal/module/customerapp/ticket"
	"github.com/sahmwel/sahmticket-sub000/pkg/errors"
	"github.com/sahmwel/sahmticket-sub000/pkg/pubsub"
	"github.com/sahmwel/sahmticket-sub000/pkg/status"
)

const ticketIssuedTopic = "ticket-issued"

// TicketIssuer durably creates one scannable ticket per purchased unit, on
// confirmed payment only. It verifies the writes landed before committing
// stock; a buyer is never told the purchase succeeded on an unverified
// issuance.
type TicketIssuer interface {
	Issue(ctx context.Context, o Order, gatewayReference string, tx *sql.Tx) ([]ticket.Ticket, error)
}

type ticketIssuer struct {
	logger           *logrus.Logger
	ticketRepository ticket.TicketRepository
	stockGuard       ticket.StockGuard
	publisher        pubsub.Publisher
}

func NewTicketIssuer(logger *logrus.Logger, ticketRepository ticket.TicketRepository, stockGuard ticket.StockGuard, publisher pubsub.Publisher) TicketIssuer {
	return &ticketIssuer{
		logger:           logger,
		ticketRepository: ticketRepository,
		stockGuard:       stockGuard,
		publisher:        publisher,
	}
}

// ScanPayload builds the delimited string the redemption scanner parses:
// event id, tier id, gateway reference and a zero-based unit index. The
// gateway reference plus the index keep payloads unique even when a callback
// is replayed for the same order.
func ScanPayload(eventID, tierID, gatewayReference string, index int64) string {
	return fmt.Sprintf("%s|%s|%s|%d", eventID, tierID, gatewayReference, index)
}

// Issue implements TicketIssuer.
func (i *ticketIssuer) Issue(ctx context.Context, o Order, gatewayReference string, tx *sql.Tx) ([]ticket.Ticket, error) {
	now := time.Now()

	for idx := int64(0); idx < o.Quantity; idx++ {
		t := ticket.Ticket{
			OrderID:     o.ID,
			TierID:      o.TierID,
			EventID:     o.EventID,
			ScanPayload: ScanPayload(o.EventID, o.TierID, gatewayReference, idx),
			Price:       o.SettlementUnitPrice,
			Used:        false,
			IssuedAt:    now,
		}

		if err := i.ticketRepository.Save(ctx, t, tx); err != nil {
			return nil, err
		}
	}

	// Read back what actually landed; the payment side effect has already
	// happened, so a silent miss here would strand the buyer.
	issued, err := i.ticketRepository.FindManyByOrderID(ctx, o.ID, tx)
	if err != nil {
		return nil, err
	}

	if len(issued) == 0 {
		i.logger.WithContext(ctx).WithField("orderId", o.ID).Error("issuance read-back returned no tickets after payment capture")
		return nil, errors.New(http.StatusInternalServerError, status.ISSUANCE_VERIFICATION_FAILED, fmt.Sprintf("tickets for order '%s' could not be verified, contact support with this order id", o.ID))
	}

	if err := i.stockGuard.Commit(ctx, o.TierID, o.Quantity, tx); err != nil {
		return nil, err
	}

	i.notify(ctx, o, issued)

	return issued, nil
}

// notify dispatches the confirmation message for the email collaborator.
// Failure is logged, never propagated.
func (i *ticketIssuer) notify(ctx context.Context, o Order, issued []ticket.Ticket) {
	scanPayloads := make([]string, len(issued))
	for k, t := range issued {
		scanPayloads[k] = t.ScanPayload
	}

	e := TicketIssuedEvent{
		OrderID:       o.ID,
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		CustomerPhone: o.CustomerPhone,
		EventID:       o.EventID,
		EventTitle:    o.EventTitle,
		TierID:        o.TierID,
		TierName:      o.TierName,
		Quantity:      o.Quantity,
		ScanPayloads:  scanPayloads,
	}

	eventBuff, _ := json.Marshal(e)

	if err := i.publisher.Publish(ctx, ticketIssuedTopic, o.ID, nil, eventBuff); err != nil {
		i.logger.WithContext(ctx).WithField("orderId", o.ID).WithError(err).Error("ticket issued notification could not be published")
	}
}
