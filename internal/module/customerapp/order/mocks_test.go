package order

import (
	"context"
	"database/sql"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sahmwel/sahmticket-sub000/internal/module/customerapp/event"
	"github.com/sahmwel/sahmticket-sub000/internal/module/customerapp/payment"
	"github.com/sahmwel/sahmticket-sub000/internal/module/customerapp/pricing"
	"github.com/sahmwel/sahmticket-sub000/internal/module/customerapp/ticket"
	"github.com/sahmwel/sahmticket-sub000/pkg/errors"
	"github.com/sahmwel/sahmticket-sub000/pkg/gctasks"
	"github.com/sahmwel/sahmticket-sub000/pkg/status"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

type fakeEventRepository struct {
	events map[string]event.Event
}

func (f *fakeEventRepository) FindByID(ctx context.Context, ID string, tx *sql.Tx) (event.Event, error) {
	e, ok := f.events[ID]
	if !ok {
		return event.Event{}, errors.New(http.StatusNotFound, status.NOT_FOUND, "event is not found")
	}
	return e, nil
}

// fakeTierRepository keeps the conditional-update semantics of the real one
// so the stock guard under test behaves exactly as in production.
type fakeTierRepository struct {
	mu    sync.Mutex
	tiers map[string]ticket.TicketTier
}

func (f *fakeTierRepository) FindByID(ctx context.Context, ID string, tx *sql.Tx) (ticket.TicketTier, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, ok := f.tiers[ID]
	if !ok {
		return ticket.TicketTier{}, errors.New(http.StatusNotFound, status.NOT_FOUND, "ticket tier is not found")
	}
	return t, nil
}

func (f *fakeTierRepository) ConsumeStock(ctx context.Context, ID string, quantity int64, tx *sql.Tx) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, ok := f.tiers[ID]
	if !ok {
		return 0, nil
	}
	if !t.Active || t.Consumed+quantity > t.Allocation {
		return 0, nil
	}

	t.Consumed += quantity
	t.LastStockUpdate = time.Now()
	f.tiers[ID] = t

	return 1, nil
}

// fakeTicketRepository stores tickets in memory. With dropWrites set, Save
// succeeds but nothing lands, simulating a silent persistence miss.
type fakeTicketRepository struct {
	mu         sync.Mutex
	tickets    map[string][]ticket.Ticket
	dropWrites bool
	nextID     int64
}

func (f *fakeTicketRepository) Save(ctx context.Context, t ticket.Ticket, tx *sql.Tx) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.dropWrites {
		return nil
	}

	if f.tickets == nil {
		f.tickets = make(map[string][]ticket.Ticket)
	}

	f.nextID++
	t.ID = f.nextID
	f.tickets[t.OrderID] = append(f.tickets[t.OrderID], t)

	return nil
}

func (f *fakeTicketRepository) FindManyByOrderID(ctx context.Context, orderID string, tx *sql.Tx) ([]ticket.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.tickets[orderID], nil
}

type fakeOrderRepository struct {
	mu        sync.Mutex
	orders    map[string]Order
	commits   int
	rollbacks int
}

func (f *fakeOrderRepository) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return nil, nil
}

func (f *fakeOrderRepository) CommitTx(ctx context.Context, tx *sql.Tx) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commits++
	return nil
}

func (f *fakeOrderRepository) Rollback(ctx context.Context, tx *sql.Tx) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rollbacks++
	return nil
}

func (f *fakeOrderRepository) Save(ctx context.Context, o Order, tx *sql.Tx) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.orders == nil {
		f.orders = make(map[string]Order)
	}
	f.orders[o.ID] = o

	return nil
}

func (f *fakeOrderRepository) FindByID(ctx context.Context, ID string, tx *sql.Tx) (Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	o, ok := f.orders[ID]
	if !ok {
		return Order{}, errors.New(http.StatusNotFound, status.NOT_FOUND, "order is not found")
	}
	return o, nil
}

func (f *fakeOrderRepository) FindByIDForUpdate(ctx context.Context, ID string, tx *sql.Tx) (Order, error) {
	return f.FindByID(ctx, ID, tx)
}

func (f *fakeOrderRepository) FindManyByCustomerID(ctx context.Context, customerID int64, offset, limit int64, tx *sql.Tx) ([]Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []Order
	for _, o := range f.orders {
		if o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrderRepository) Count(ctx context.Context, customerID int64, tx *sql.Tx) (int64, error) {
	orders, _ := f.FindManyByCustomerID(ctx, customerID, 0, 0, tx)
	return int64(len(orders)), nil
}

func (f *fakeOrderRepository) Update(ctx context.Context, ID string, o Order, tx *sql.Tx) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.orders[ID]; !ok {
		return errors.New(http.StatusNotFound, status.NOT_FOUND, "order is not found")
	}
	f.orders[ID] = o

	return nil
}

// fakeGateway scripts the external processor: Authorize and Resolve return
// whatever the test planted and record what they were given.
type fakeGateway struct {
	name string

	authorizeErr    error
	authorization   payment.Authorization
	authorizeCalls  int
	authorizedQuote pricing.Quotation

	result       payment.Result
	resolveCalls int
}

func (f *fakeGateway) Name() string {
	return f.name
}

func (f *fakeGateway) Authorize(ctx context.Context, orderID string, quote pricing.Quotation, buyer payment.Buyer) (payment.Authorization, error) {
	f.authorizeCalls++
	f.authorizedQuote = quote

	if f.authorizeErr != nil {
		return payment.Authorization{}, f.authorizeErr
	}

	auth := f.authorization
	if auth.Reference == "" {
		auth.Reference = orderID
	}
	return auth, nil
}

func (f *fakeGateway) Resolve(ctx context.Context, callback payment.Callback) payment.Result {
	f.resolveCalls++
	return f.result
}

type fakePublisher struct {
	mu       sync.Mutex
	messages [][]byte
	topics   []string
	err      error
}

func (f *fakePublisher) Publish(ctx context.Context, topic string, key string, headers map[string]string, message []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}

	f.topics = append(f.topics, topic)
	f.messages = append(f.messages, message)

	return nil
}

func (f *fakePublisher) Close() {}

type fakeTasks struct {
	mu        sync.Mutex
	queues    []string
	requests  []gctasks.Request
	schedules []time.Time
}

func (f *fakeTasks) CreateTask(queueID string, request gctasks.Request) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.queues = append(f.queues, queueID)
	f.requests = append(f.requests, request)

	return nil
}

func (f *fakeTasks) DeferCreateTaskInTime(queueID string, request gctasks.Request, schedule time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.queues = append(f.queues, queueID)
	f.requests = append(f.requests, request)
	f.schedules = append(f.schedules, schedule)

	return nil
}

func (f *fakeTasks) Close() error {
	return nil
}
