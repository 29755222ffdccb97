package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/sahmwel/sahmticket-sub000/config"
	adminapp_ticket "github.com/sahmwel/sahmticket-sub000/internal/module/adminapp/ticket"
	customerapp_event "github.com/sahmwel/sahmticket-sub000/internal/module/customerapp/event"
	"github.com/sahmwel/sahmticket-sub000/internal/module/customerapp/flutterwave"
	customerapp_order "github.com/sahmwel/sahmticket-sub000/internal/module/customerapp/order"
	"github.com/sahmwel/sahmticket-sub000/internal/module/customerapp/payment"
	"github.com/sahmwel/sahmticket-sub000/internal/module/customerapp/paystack"
	"github.com/sahmwel/sahmticket-sub000/internal/module/customerapp/pricing"
	customerapp_ticket "github.com/sahmwel/sahmticket-sub000/internal/module/customerapp/ticket"
	"github.com/sahmwel/sahmticket-sub000/internal/pkg/jwt"
	internalMiddleware "github.com/sahmwel/sahmticket-sub000/internal/pkg/middleware"
	"github.com/sahmwel/sahmticket-sub000/internal/pkg/session"
	"github.com/sahmwel/sahmticket-sub000/pkg/applogger"
	"github.com/sahmwel/sahmticket-sub000/pkg/gctasks"
	"github.com/sahmwel/sahmticket-sub000/pkg/kafka"
	"github.com/sahmwel/sahmticket-sub000/pkg/middleware"
	"github.com/sahmwel/sahmticket-sub000/pkg/monitoring"
	"github.com/sahmwel/sahmticket-sub000/pkg/postgresql"
	"github.com/sahmwel/sahmticket-sub000/pkg/pubsub"
	"github.com/sahmwel/sahmticket-sub000/pkg/redis"
	"github.com/sahmwel/sahmticket-sub000/pkg/server"
	"github.com/sahmwel/sahmticket-sub000/pkg/validator"
)

var c *config.Config

func init() {
	c = config.Get()
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := applogger.GetLogrus()

	mon := monitoring.NewOpenTelemetry(
		c.Application.Name,
		c.Application.Environment,
		c.GCP.ProjectID,
	)

	mon.Start(ctx)

	validate := validator.Get()

	hc := http.DefaultClient

	jsonWebToken := jwt.NewJSONWebToken(c.JWT.PrivateKey, c.JWT.PublicKey)

	psqldb := postgresql.GetDatabase()
	if err := psqldb.Ping(); err != nil {
		logger.WithContext(ctx).WithError(err).Error()
	}

	publisher := pubsub.PublisherFromConfluentKafkaProducer(logger, kafka.NewProducer())

	rc := redis.GetClient()
	if err := rc.Ping(context.Background()).Err(); err != nil {
		logger.WithContext(ctx).WithError(err).Error()
	}

	cloudTask := gctasks.NewGCTasks(logger, c.GCP.ProjectID, c.GCP.LocationID, c.GCP.ServiceAccount)

	sessionStore := session.NewRedisSessionStore(logger, rc)

	customerSessionMiddleware := internalMiddleware.NewCustomerSessionMiddleware(jsonWebToken, sessionStore)

	router := mux.NewRouter()
	router.Use(
		otelmux.Middleware(c.Application.Name),
		middleware.HTTPResponseTraceInjection,
		middleware.NewHTTPRequestLogger(logger, c.Application.Debug, http.StatusInternalServerError).Middleware,
	)

	resolver := pricing.NewResolver(c.Pricing.SettlementCurrency, c.Pricing.ExchangeRates)

	gatewayConfigs := map[string]pricing.GatewayConfig{
		paystack.GatewayName: {
			Name: paystack.GatewayName,
			Fees: map[string]float64{c.Pricing.SettlementCurrency: c.Paystack.Fee},
		},
		flutterwave.GatewayName: {
			Name: flutterwave.GatewayName,
			Fees: c.Flutterwave.Fees,
		},
	}

	callbackURL := fmt.Sprintf("%s/sahmticket/v1/customerapp/orders/callback", c.Application.BaseURL)

	paystackRepo := paystack.NewPaystackRepository(c.Paystack.BaseURL, c.Paystack.SecretKey, logger, hc)
	flutterwaveRepo := flutterwave.NewFlutterwaveRepository(c.Flutterwave.BaseURL, c.Flutterwave.SecretKey, logger, hc)

	gateways := map[string]payment.Gateway{
		paystack.GatewayName:    paystack.NewGateway(logger, paystackRepo, fmt.Sprintf("%s/%s", callbackURL, paystack.GatewayName)),
		flutterwave.GatewayName: flutterwave.NewGateway(logger, flutterwaveRepo, fmt.Sprintf("%s/%s", callbackURL, flutterwave.GatewayName)),
	}

	// admin's app
	adminappTierRepo := adminapp_ticket.NewTicketTierRepository(logger, psqldb)
	adminappTierUseCase := adminapp_ticket.NewTicketTierUseCase(adminapp_ticket.TicketTierUseCaseProperty{
		Logger:               logger,
		Timeout:              c.Application.Timeout,
		TicketTierRepository: adminappTierRepo,
	})
	adminapp_ticket.InitHTTPHandler(router, validate, adminappTierUseCase)

	// customer's app
	customerappEventRepo := customerapp_event.NewEventRepository(logger, psqldb)
	customerappTierRepo := customerapp_ticket.NewTierRepository(logger, psqldb)
	customerappTicketRepo := customerapp_ticket.NewTicketRepository(logger, psqldb)
	customerappStockGuard := customerapp_ticket.NewStockGuard(logger, customerappTierRepo)
	customerappOrderRepo := customerapp_order.NewOrderRepository(logger, psqldb)
	customerappTicketIssuer := customerapp_order.NewTicketIssuer(logger, customerappTicketRepo, customerappStockGuard, publisher)
	customerappOrderUseCase := customerapp_order.NewOrderUseCase(customerapp_order.OrderUseCaseProperty{
		Logger:              logger,
		Timeout:             c.Application.Timeout,
		BaseURL:             c.Application.BaseURL,
		OrderExpireDuration: c.Order.Expiration,
		Resolver:            resolver,
		GatewayConfigs:      gatewayConfigs,
		Gateways:            gateways,
		EventRepository:     customerappEventRepo,
		TierRepository:      customerappTierRepo,
		StockGuard:          customerappStockGuard,
		TicketRepository:    customerappTicketRepo,
		OrderRepository:     customerappOrderRepo,
		TicketIssuer:        customerappTicketIssuer,
		CloudTask:           cloudTask,
	})
	customerapp_order.InitHTTPHandler(router, customerSessionMiddleware, validate, customerappOrderUseCase)

	handler := middleware.SetChain(
		router,
		cors.New(cors.Options{
			AllowedOrigins:   c.CORS.AllowedOrigins,
			AllowedMethods:   c.CORS.AllowedMethods,
			AllowedHeaders:   c.CORS.AllowedHeaders,
			ExposedHeaders:   c.CORS.ExposedHeaders,
			MaxAge:           c.CORS.MaxAge,
			AllowCredentials: c.CORS.AllowCredentials,
		}).Handler,
	)

	srv := &server.Server{
		Server: http.Server{
			Addr:    fmt.Sprintf(":%d", c.Application.Port),
			Handler: handler,
		},
		Logger: logger,
	}

	go func() {
		srv.ListenAndServe()
	}()

	sigterm := make(chan os.Signal, 1)
	signal.Notify(sigterm, syscall.SIGINT, syscall.SIGTERM)
	<-sigterm

	srv.Shutdown(ctx)
	publisher.Close()
	cloudTask.Close()
	psqldb.Close()
	rc.Close()
	mon.Stop(ctx)
}
