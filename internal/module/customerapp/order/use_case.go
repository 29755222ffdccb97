package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"cloud.google.com/go/cloudtasks/apiv2/cloudtaskspb"
	"github.com/sirupsen/logrus"

	"github.com/sahmwel/sahmticket-sub000/internal/module/customerapp/event"
	"github.com/sahmwel/sahmticket-sub000/internal/module/customerapp/payment"
	"github.com/sahmwel/sahmticket-sub000/internal/module/customerapp/pricing"
	"github.com/sahmwel/sahmticket-sub000/internal/module/customerapp/ticket"
	"github.com/sahmwel/sahmticket-sub000/internal/pkg/session"
	"github.com/sahmwel/sahmticket-sub000/internal/pkg/util"
	"github.com/sahmwel/sahmticket-sub000/pkg/errors"
	"github.com/sahmwel/sahmticket-sub000/pkg/gctasks"
	"github.com/sahmwel/sahmticket-sub000/pkg/status"
)

type OrderUseCase interface {
	Checkout(ctx context.Context, req CheckoutRequest) (CheckoutResponse, error)
	OnGatewayCallback(ctx context.Context, gatewayName string, callback payment.Callback) (GatewayCallbackResponse, error)
	OnExpireOrder(ctx context.Context, e ExpireOrderEvent) error
	GetManyOrder(ctx context.Context, req GetManyOrderRequest) (GetManyOrderResponse, error)
	GetOrderByID(ctx context.Context, ID string) (OrderResponse, error)
}

type orderUseCase struct {
	logger              *logrus.Logger
	timeout             time.Duration
	baseURL             string
	orderExpireDuration time.Duration
	resolver            *pricing.Resolver
	gatewayConfigs      map[string]pricing.GatewayConfig
	gateways            map[string]payment.Gateway
	eventRepository     event.EventRepository
	tierRepository      ticket.TierRepository
	stockGuard          ticket.StockGuard
	ticketRepository    ticket.TicketRepository
	orderRepository     OrderRepository
	ticketIssuer        TicketIssuer
	cloudTask           gctasks.Client
}

type OrderUseCaseProperty struct {
	Logger              *logrus.Logger
	Timeout             time.Duration
	BaseURL             string
	OrderExpireDuration time.Duration
	Resolver            *pricing.Resolver
	GatewayConfigs      map[string]pricing.GatewayConfig
	Gateways            map[string]payment.Gateway
	EventRepository     event.EventRepository
	TierRepository      ticket.TierRepository
	StockGuard          ticket.StockGuard
	TicketRepository    ticket.TicketRepository
	OrderRepository     OrderRepository
	TicketIssuer        TicketIssuer
	CloudTask           gctasks.Client
}

func NewOrderUseCase(props OrderUseCaseProperty) OrderUseCase {
	return &orderUseCase{
		logger:              props.Logger,
		timeout:             props.Timeout,
		baseURL:             props.BaseURL,
		orderExpireDuration: props.OrderExpireDuration,
		resolver:            props.Resolver,
		gatewayConfigs:      props.GatewayConfigs,
		gateways:            props.Gateways,
		eventRepository:     props.EventRepository,
		tierRepository:      props.TierRepository,
		stockGuard:          props.StockGuard,
		ticketRepository:    props.TicketRepository,
		orderRepository:     props.OrderRepository,
		ticketIssuer:        props.TicketIssuer,
		cloudTask:           props.CloudTask,
	}
}

// Checkout implements OrderUseCase. Quoting and the availability check run
// before any gateway interaction, so a buyer is never charged for stock that
// is not there. No stock is reserved across the gateway suspension; the
// commit after payment re-validates capacity on its own.
func (u *orderUseCase) Checkout(ctx context.Context, req CheckoutRequest) (CheckoutResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	acc, err := session.GetAccountFromCtx(ctx)
	if err != nil {
		return CheckoutResponse{}, err
	}

	e, err := u.eventRepository.FindByID(ctx, req.EventID, nil)
	if err != nil {
		return CheckoutResponse{}, err
	}

	tier, err := u.tierRepository.FindByID(ctx, req.TierID, nil)
	if err != nil {
		return CheckoutResponse{}, err
	}

	if tier.EventID != e.ID {
		return CheckoutResponse{}, errors.New(http.StatusBadRequest, status.BAD_REQUEST, "invalid tier id")
	}

	gatewayConfig, ok := u.gatewayConfigs[req.Gateway]
	if !ok {
		return CheckoutResponse{}, errors.New(http.StatusBadRequest, status.BAD_REQUEST, fmt.Sprintf("gateway '%s' is not available", req.Gateway))
	}

	gateway, ok := u.gateways[req.Gateway]
	if !ok {
		return CheckoutResponse{}, errors.New(http.StatusBadRequest, status.BAD_REQUEST, fmt.Sprintf("gateway '%s' is not available", req.Gateway))
	}

	quote, err := u.resolver.Quote(tier.Price, req.Quantity, req.Currency, gatewayConfig)
	if err != nil {
		return CheckoutResponse{}, err
	}

	if _, err := u.stockGuard.CheckAvailability(ctx, tier.ID, req.Quantity); err != nil {
		return CheckoutResponse{}, err
	}

	now := time.Now()
	o := Order{
		ID:                  util.GenerateTimestampWithPrefix("ST"),
		EventID:             e.ID,
		EventTitle:          e.Title,
		TierID:              tier.ID,
		TierName:            tier.Name,
		Quantity:            req.Quantity,
		Currency:            quote.Currency,
		Gateway:             req.Gateway,
		UnitPrice:           quote.UnitPrice,
		Fee:                 quote.Fee,
		TotalAmount:         quote.Total,
		SettlementCurrency:  quote.SettlementCurrency,
		SettlementUnitPrice: quote.SettlementUnitPrice,
		SettlementTotal:     quote.SettlementTotal,
		CustomerID:          acc.ID,
		CustomerName:        acc.Name,
		CustomerEmail:       acc.Email,
		CustomerPhone:       acc.Phone,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if quote.Free {
		return u.checkoutFree(ctx, o)
	}

	return u.checkoutPaid(ctx, o, quote, gateway)
}

// checkoutFree issues immediately: free orders never contact a gateway and
// never carry a processing fee. The order id doubles as the scan payload's
// transaction reference.
func (u *orderUseCase) checkoutFree(ctx context.Context, o Order) (CheckoutResponse, error) {
	reference := o.ID
	o.Status = StatusIssued
	o.GatewayReference = &reference

	tx, err := u.orderRepository.BeginTx(ctx)
	if err != nil {
		return CheckoutResponse{}, err
	}

	if err := u.orderRepository.Save(ctx, o, tx); err != nil {
		u.orderRepository.Rollback(ctx, tx)
		return CheckoutResponse{}, err
	}

	tickets, err := u.ticketIssuer.Issue(ctx, o, reference, tx)
	if err != nil {
		u.orderRepository.Rollback(ctx, tx)
		return CheckoutResponse{}, err
	}

	if err := u.orderRepository.CommitTx(ctx, tx); err != nil {
		return CheckoutResponse{}, err
	}

	resp := CheckoutResponse{}
	resp.PopulateFromEntity(o)
	resp.PopulateTickets(tickets)

	return resp, nil
}

// checkoutPaid authorizes the charge and parks the order awaiting the
// gateway-hosted UI. Nothing is persisted when authorization fails, which is
// what makes a gateway error safe to retry from the top.
func (u *orderUseCase) checkoutPaid(ctx context.Context, o Order, quote pricing.Quotation, gateway payment.Gateway) (CheckoutResponse, error) {
	buyer := payment.Buyer{
		Name:  o.CustomerName,
		Email: o.CustomerEmail,
		Phone: o.CustomerPhone,
	}

	auth, err := gateway.Authorize(ctx, o.ID, quote, buyer)
	if err != nil {
		return CheckoutResponse{}, err
	}

	o.Status = StatusAwaitingGateway
	o.GatewayReference = &auth.Reference
	o.PaymentURL = &auth.PaymentURL

	if err := u.orderRepository.Save(ctx, o, nil); err != nil {
		return CheckoutResponse{}, err
	}

	u.scheduleExpiry(ctx, o)

	resp := CheckoutResponse{}
	resp.PopulateFromEntity(o)

	return resp, nil
}

// scheduleExpiry arranges the gateway-timeout policy: an order still awaiting
// its callback when the task fires is failed as retryable, not cancelled.
func (u *orderUseCase) scheduleExpiry(ctx context.Context, o Order) {
	eventBuff, _ := json.Marshal(ExpireOrderEvent{ID: o.ID})

	tasksRequest := gctasks.Request{
		URL:    fmt.Sprintf("%s/sahmticket/v1/customerapp/orders/on-expire", u.baseURL),
		Method: cloudtaskspb.HttpMethod_POST,
		Body:   eventBuff,
	}

	if err := u.cloudTask.DeferCreateTaskInTime("expire-order", tasksRequest, o.CreatedAt.Add(u.orderExpireDuration)); err != nil {
		u.logger.WithContext(ctx).WithField("orderId", o.ID).WithError(err).Error("expire-order task could not be scheduled")
	}
}

// OnGatewayCallback implements OrderUseCase. The raw redirect is resolved
// through the provider's verification API into a tagged result; concurrent
// callback deliveries for one order serialize on the order row.
func (u *orderUseCase) OnGatewayCallback(ctx context.Context, gatewayName string, callback payment.Callback) (GatewayCallbackResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	gateway, ok := u.gateways[gatewayName]
	if !ok {
		return GatewayCallbackResponse{}, errors.New(http.StatusNotFound, status.NOT_FOUND, fmt.Sprintf("gateway '%s' is not available", gatewayName))
	}

	result := gateway.Resolve(ctx, callback)
	if result.OrderID == "" {
		return GatewayCallbackResponse{}, errors.New(http.StatusBadGateway, status.GATEWAY_ERROR, result.Cause)
	}

	tx, err := u.orderRepository.BeginTx(ctx)
	if err != nil {
		return GatewayCallbackResponse{}, err
	}

	o, err := u.orderRepository.FindByIDForUpdate(ctx, result.OrderID, tx)
	if err != nil {
		u.orderRepository.Rollback(ctx, tx)
		return GatewayCallbackResponse{}, err
	}

	switch result.Status {
	case payment.StatusCancelled:
		return u.onGatewayCancelled(ctx, o, tx)
	case payment.StatusError:
		return u.onGatewayError(ctx, o, result, tx)
	case payment.StatusSuccess:
		return u.onGatewaySuccess(ctx, o, result, tx)
	default:
		u.orderRepository.Rollback(ctx, tx)
		return GatewayCallbackResponse{}, errors.New(http.StatusBadGateway, status.GATEWAY_ERROR, fmt.Sprintf("unexpected gateway result '%s'", result.Status))
	}
}

// onGatewayCancelled records the buyer's abort. Terminal: no stock commit,
// no ticket writes, no retry.
func (u *orderUseCase) onGatewayCancelled(ctx context.Context, o Order, tx *sql.Tx) (GatewayCallbackResponse, error) {
	if o.Status == StatusAwaitingGateway {
		o.Status = StatusCancelled
		o.UpdatedAt = time.Now()

		if err := u.orderRepository.Update(ctx, o.ID, o, tx); err != nil {
			u.orderRepository.Rollback(ctx, tx)
			return GatewayCallbackResponse{}, err
		}
	}

	if err := u.orderRepository.CommitTx(ctx, tx); err != nil {
		return GatewayCallbackResponse{}, err
	}

	return GatewayCallbackResponse{OrderID: o.ID, Status: StatusCancelled}, nil
}

// onGatewayError fails the order as retryable: the buyer restarts the whole
// paid path, and since nothing was finalized there is no double charge.
func (u *orderUseCase) onGatewayError(ctx context.Context, o Order, result payment.Result, tx *sql.Tx) (GatewayCallbackResponse, error) {
	if o.Status == StatusAwaitingGateway {
		o.Status = StatusFailed
		o.UpdatedAt = time.Now()

		if err := u.orderRepository.Update(ctx, o.ID, o, tx); err != nil {
			u.orderRepository.Rollback(ctx, tx)
			return GatewayCallbackResponse{}, err
		}
	}

	if err := u.orderRepository.CommitTx(ctx, tx); err != nil {
		return GatewayCallbackResponse{}, err
	}

	return GatewayCallbackResponse{OrderID: o.ID, Status: StatusFailed}, errors.New(http.StatusBadGateway, status.GATEWAY_ERROR, result.Cause)
}

// onGatewaySuccess runs the issuer. A replayed callback for an already
// issued order is acknowledged without side effects.
func (u *orderUseCase) onGatewaySuccess(ctx context.Context, o Order, result payment.Result, tx *sql.Tx) (GatewayCallbackResponse, error) {
	if o.Status == StatusIssued {
		u.orderRepository.CommitTx(ctx, tx)
		return GatewayCallbackResponse{OrderID: o.ID, Status: StatusIssued}, nil
	}

	// FAILED is reachable when the expiry task raced a late callback; the
	// payment was captured, so issuance still proceeds.
	if o.Status != StatusAwaitingGateway && o.Status != StatusFailed {
		u.orderRepository.Rollback(ctx, tx)
		return GatewayCallbackResponse{}, errors.New(http.StatusConflict, status.CONFLICT, fmt.Sprintf("order '%s' is not awaiting payment", o.ID))
	}

	o.Status = StatusGatewayConfirmed
	o.GatewayReference = &result.Reference
	o.UpdatedAt = time.Now()

	if err := u.orderRepository.Update(ctx, o.ID, o, tx); err != nil {
		u.orderRepository.Rollback(ctx, tx)
		return GatewayCallbackResponse{}, err
	}

	if _, err := u.ticketIssuer.Issue(ctx, o, result.Reference, tx); err != nil {
		u.orderRepository.Rollback(ctx, tx)
		u.logger.WithContext(ctx).WithField("orderId", o.ID).WithError(err).Error("payment captured but issuance did not complete")
		return GatewayCallbackResponse{}, err
	}

	o.Status = StatusIssued
	o.UpdatedAt = time.Now()

	if err := u.orderRepository.Update(ctx, o.ID, o, tx); err != nil {
		u.orderRepository.Rollback(ctx, tx)
		return GatewayCallbackResponse{}, err
	}

	if err := u.orderRepository.CommitTx(ctx, tx); err != nil {
		return GatewayCallbackResponse{}, err
	}

	return GatewayCallbackResponse{OrderID: o.ID, Status: StatusIssued}, nil
}

// OnExpireOrder implements OrderUseCase. An order whose gateway callback
// never arrived inside the window is failed as retryable.
func (u *orderUseCase) OnExpireOrder(ctx context.Context, e ExpireOrderEvent) error {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	tx, err := u.orderRepository.BeginTx(ctx)
	if err != nil {
		return err
	}

	o, err := u.orderRepository.FindByIDForUpdate(ctx, e.ID, tx)
	if err != nil {
		u.orderRepository.Rollback(ctx, tx)
		return err
	}

	if o.Status != StatusAwaitingGateway {
		u.orderRepository.Rollback(ctx, tx)
		return nil
	}

	o.Status = StatusFailed
	o.UpdatedAt = time.Now()

	if err := u.orderRepository.Update(ctx, o.ID, o, tx); err != nil {
		u.orderRepository.Rollback(ctx, tx)
		return err
	}

	return u.orderRepository.CommitTx(ctx, tx)
}

// GetManyOrder implements OrderUseCase.
func (u *orderUseCase) GetManyOrder(ctx context.Context, req GetManyOrderRequest) (GetManyOrderResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	acc, err := session.GetAccountFromCtx(ctx)
	if err != nil {
		return GetManyOrderResponse{}, err
	}

	offset := (req.Page - 1) * req.Size

	orders, err := u.orderRepository.FindManyByCustomerID(ctx, acc.ID, offset, req.Size, nil)
	if err != nil {
		return GetManyOrderResponse{}, err
	}

	resp := make(GetManyOrderResponse, len(orders))
	for k, o := range orders {
		resp[k].PopulateFromEntity(o)
	}

	return resp, nil
}

// GetOrderByID implements OrderUseCase.
func (u *orderUseCase) GetOrderByID(ctx context.Context, ID string) (OrderResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	acc, err := session.GetAccountFromCtx(ctx)
	if err != nil {
		return OrderResponse{}, err
	}

	o, err := u.orderRepository.FindByID(ctx, ID, nil)
	if err != nil {
		return OrderResponse{}, err
	}

	if o.CustomerID != acc.ID {
		return OrderResponse{}, errors.New(http.StatusNotFound, status.NOT_FOUND, fmt.Sprintf("order with id '%s' is not found", ID))
	}

	resp := OrderResponse{}
	resp.PopulateFromEntity(o)

	if o.Status == StatusIssued {
		tickets, err := u.ticketRepository.FindManyByOrderID(ctx, o.ID, nil)
		if err != nil {
			return OrderResponse{}, err
		}
		resp.PopulateTickets(tickets)
	}

	return resp, nil
}
