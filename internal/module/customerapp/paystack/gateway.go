package paystack

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/sahmwel/sahmticket-sub000/internal/module/customerapp/payment"
	"github.com/sahmwel/sahmticket-sub000/internal/module/customerapp/pricing"
	"github.com/sahmwel/sahmticket-sub000/pkg/errors"
	"github.com/sahmwel/sahmticket-sub000/pkg/status"
)

const GatewayName = "paystack"

type gateway struct {
	logger      *logrus.Logger
	repository  PaystackRepository
	callbackURL string
}

// NewGateway adapts the Paystack HTTP repository to the uniform payment
// gateway contract. Amounts go out as integer kobo.
func NewGateway(logger *logrus.Logger, repository PaystackRepository, callbackURL string) payment.Gateway {
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
	if buyer.Email == "" {
		return payment.Authorization{}, errors.New(http.StatusBadRequest, status.BAD_REQUEST, "paystack requires the buyer's email address")
	}

	req := InitializeTransactionRequest{
		Email:       buyer.Email,
		Amount:      int64(math.Round(quote.Total * 100)),
		Reference:   orderID,
		Currency:    quote.Currency,
		CallbackURL: g.callbackURL,
	}

	resp, err := g.repository.InitializeTransaction(ctx, req)
	if err != nil {
		return payment.Authorization{}, err
	}

	return payment.Authorization{
		Gateway:    GatewayName,
		Reference:  resp.Data.Reference,
		PaymentURL: resp.Data.AuthorizationURL,
	}, nil
}

// Resolve implements payment.Gateway. The redirect carries the merchant
// reference as both "reference" and "trxref"; the verdict comes from the
// verification API, never from the redirect itself.
func (g *gateway) Resolve(ctx context.Context, callback payment.Callback) payment.Result {
	reference := callback.Params["reference"]
	if reference == "" {
		reference = callback.Params["trxref"]
	}

	if reference == "" {
		return payment.Result{
			Status: payment.StatusError,
			Cause:  "paystack callback is missing the transaction reference",
		}
	}

	resp, err := g.repository.VerifyTransaction(ctx, reference)
	if err != nil {
		return payment.Result{
			Status:  payment.StatusError,
			OrderID: reference,
			Cause:   err.Error(),
		}
	}

	switch resp.Data.Status {
	case TransactionStatusSuccess:
		return payment.Result{
			Status:    payment.StatusSuccess,
			OrderID:   resp.Data.Reference,
			Reference: strconv.FormatInt(resp.Data.ID, 10),
		}
	case TransactionStatusAbandoned:
		return payment.Result{
			Status:  payment.StatusCancelled,
			OrderID: resp.Data.Reference,
		}
	default:
		g.logger.WithContext(ctx).WithFields(logrus.Fields{
			"reference": reference,
			"status":    resp.Data.Status,
		}).Warn("paystack transaction did not settle")

		return payment.Result{
			Status:  payment.StatusError,
			OrderID: resp.Data.Reference,
			Cause:   fmt.Sprintf("paystack transaction status is '%s'", resp.Data.Status),
		}
	}
}
