package flutterwave

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/sahmwel/sahmticket-sub000/internal/module/customerapp/payment"
	"github.com/sahmwel/sahmticket-sub000/internal/module/customerapp/pricing"
	"github.com/sahmwel/sahmticket-sub000/pkg/errors"
	"github.com/sahmwel/sahmticket-sub000/pkg/status"
)

const GatewayName = "flutterwave"

type gateway struct {
	logger      *logrus.Logger
	repository  FlutterwaveRepository
	callbackURL string
}

// NewGateway adapts the Flutterwave HTTP repository to the uniform payment
// gateway contract. Amounts go out as decimal major units with an ISO
// currency code.
func NewGateway(logger *logrus.Logger, repository FlutterwaveRepository, callbackURL string) payment.Gateway {
	return &gateway{
		logger:      logger,
		repository:  repository,
		callbackURL: callbackURL,
	}
}

func (g *gateway) Name() string {
	return GatewayName
}

// Authorize implements payment.Gateway.
func (g *gateway) Authorize(ctx context.Context, orderID string, quote pricing.Quotation, buyer payment.Buyer) (payment.Authorization, error) {
	if buyer.Email == "" || buyer.Name == "" || buyer.Phone == "" {
		return payment.Authorization{}, errors.New(http.StatusBadRequest, status.BAD_REQUEST, "flutterwave requires the buyer's name, email and phone number")
	}

	req := PaymentRequest{
		TxRef:       orderID,
		Amount:      quote.Total,
		Currency:    quote.Currency,
		RedirectURL: g.callbackURL,
		Customer: Customer{
			Email:       buyer.Email,
			PhoneNumber: buyer.Phone,
			Name:        buyer.Name,
		},
	}

	resp, err := g.repository.CreatePayment(ctx, req)
	if err != nil {
		return payment.Authorization{}, err
	}

	return payment.Authorization{
		Gateway:    GatewayName,
		Reference:  orderID,
		PaymentURL: resp.Data.Link,
	}, nil
}

// Resolve implements payment.Gateway. The redirect carries "status",
// "tx_ref" and "transaction_id"; a cancelled redirect has no transaction to
// verify, anything else is checked against the verification API.
func (g *gateway) Resolve(ctx context.Context, callback payment.Callback) payment.Result {
	orderID := callback.Params["tx_ref"]

	if callback.Params["status"] == PaymentStatusCancelled {
		return payment.Result{
			Status:  payment.StatusCancelled,
			OrderID: orderID,
		}
	}

	transactionID := callback.Params["transaction_id"]
	if transactionID == "" {
		return payment.Result{
			Status:  payment.StatusError,
			OrderID: orderID,
			Cause:   "flutterwave callback is missing the transaction identifier",
		}
	}

	resp, err := g.repository.VerifyTransaction(ctx, transactionID)
	if err != nil {
		return payment.Result{
			Status:  payment.StatusError,
			OrderID: orderID,
			Cause:   err.Error(),
		}
	}

	if resp.Data.Status != PaymentStatusSuccessful {
		g.logger.WithContext(ctx).WithFields(logrus.Fields{
			"txRef":         resp.Data.TxRef,
			"transactionId": transactionID,
			"status":        resp.Data.Status,
		}).Warn("flutterwave transaction did not settle")

		return payment.Result{
			Status:  payment.StatusError,
			OrderID: resp.Data.TxRef,
			Cause:   fmt.Sprintf("flutterwave transaction status is '%s'", resp.Data.Status),
		}
	}

	return payment.Result{
		Status:    payment.StatusSuccess,
		OrderID:   resp.Data.TxRef,
		Reference: resp.Data.FlwRef,
	}
}
