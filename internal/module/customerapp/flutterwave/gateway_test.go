package flutterwave

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/sahmwel/sahmticket-sub000/internal/module/customerapp/payment"
	"github.com/sahmwel/sahmticket-sub000/internal/module/customerapp/pricing"
	"github.com/sahmwel/sahmticket-sub000/pkg/errors"
	"github.com/sahmwel/sahmticket-sub000/pkg/status"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func completeBuyer() payment.Buyer {
	return payment.Buyer{Name: "Ada Obi", Email: "ada@example.com", Phone: "+2348000000000"}
}

func TestAuthorize_SendsDecimalMajorUnits(t *testing.T) {
	var received PaymentRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/payments" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer flw_test" {
			t.Errorf("unexpected authorization header %s", got)
		}

		json.NewDecoder(r.Body).Decode(&received)

		json.NewEncoder(w).Encode(PaymentResponse{
			Status: "success",
			Data:   PaymentData{Link: "https://checkout.flutterwave.com/pay/xyz"},
		})
	}))
	defer server.Close()

	repo := NewFlutterwaveRepository(server.URL, "flw_test", newTestLogger(), server.Client())
	gateway := NewGateway(newTestLogger(), repo, "https://shop.example/callback/flutterwave")

	quote := pricing.Quotation{Currency: "USD", Total: 11.5}

	auth, err := gateway.Authorize(context.Background(), "ST-1", quote, completeBuyer())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if received.Amount != 11.5 {
		t.Errorf("expected amount 11.5, got %v", received.Amount)
	}
	if received.Currency != "USD" {
		t.Errorf("expected currency USD, got %s", received.Currency)
	}
	if received.TxRef != "ST-1" {
		t.Errorf("expected tx_ref ST-1, got %s", received.TxRef)
	}
	if received.RedirectURL != "https://shop.example/callback/flutterwave" {
		t.Errorf("unexpected redirect url %s", received.RedirectURL)
	}
	if received.Customer.Email != "ada@example.com" || received.Customer.Name != "Ada Obi" || received.Customer.PhoneNumber != "+2348000000000" {
		t.Errorf("incomplete customer payload: %+v", received.Customer)
	}

	if auth.Reference != "ST-1" {
		t.Errorf("expected authorization reference ST-1, got %s", auth.Reference)
	}
	if auth.PaymentURL != "https://checkout.flutterwave.com/pay/xyz" {
		t.Errorf("unexpected payment url %s", auth.PaymentURL)
	}
}

func TestAuthorize_RequiresCompleteBuyer(t *testing.T) {
	repo := NewFlutterwaveRepository("http://unused", "flw_test", newTestLogger(), http.DefaultClient)
	gateway := NewGateway(newTestLogger(), repo, "")

	incomplete := []payment.Buyer{
		{Email: "ada@example.com", Phone: "+2348000000000"},
		{Name: "Ada Obi", Phone: "+2348000000000"},
		{Name: "Ada Obi", Email: "ada@example.com"},
	}

	for _, buyer := range incomplete {
		_, err := gateway.Authorize(context.Background(), "ST-1", pricing.Quotation{Currency: "USD", Total: 10}, buyer)
		if !errors.Is(err, status.BAD_REQUEST) {
			t.Fatalf("expected BAD_REQUEST for buyer %+v, got %v", buyer, err)
		}
	}
}

func TestResolve_CancelledRedirectSkipsVerification(t *testing.T) {
	// No server: a cancelled redirect must never reach the verification API.
	repo := NewFlutterwaveRepository("http://unused", "flw_test", newTestLogger(), http.DefaultClient)
	gateway := NewGateway(newTestLogger(), repo, "")

	result := gateway.Resolve(context.Background(), payment.Callback{Params: map[string]string{
		"status": PaymentStatusCancelled,
		"tx_ref": "ST-1",
	}})

	if result.Status != payment.StatusCancelled {
		t.Fatalf("expected CANCELLED, got %s", result.Status)
	}
	if result.OrderID != "ST-1" {
		t.Errorf("expected order id ST-1, got %s", result.OrderID)
	}
}

func TestResolve_SuccessfulTransaction(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transactions/9001/verify" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}

		json.NewEncoder(w).Encode(VerifyResponse{
			Status: "success",
			Data: VerifyData{
				ID:     9001,
				TxRef:  "ST-1",
				FlwRef: "FLW-REF-42",
				Status: PaymentStatusSuccessful,
			},
		})
	}))
	defer server.Close()

	repo := NewFlutterwaveRepository(server.URL, "flw_test", newTestLogger(), server.Client())
	gateway := NewGateway(newTestLogger(), repo, "")

	result := gateway.Resolve(context.Background(), payment.Callback{Params: map[string]string{
		"status":         "successful",
		"tx_ref":         "ST-1",
		"transaction_id": "9001",
	}})

	if result.Status != payment.StatusSuccess {
		t.Fatalf("expected SUCCESS, got %s", result.Status)
	}
	if result.OrderID != "ST-1" {
		t.Errorf("expected order id ST-1, got %s", result.OrderID)
	}
	if result.Reference != "FLW-REF-42" {
		t.Errorf("expected settlement reference FLW-REF-42, got %s", result.Reference)
	}
}

func TestResolve_UnsettledTransactionIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(VerifyResponse{
			Status: "success",
			Data: VerifyData{
				ID:     9001,
				TxRef:  "ST-1",
				Status: PaymentStatusFailed,
			},
		})
	}))
	defer server.Close()

	repo := NewFlutterwaveRepository(server.URL, "flw_test", newTestLogger(), server.Client())
	gateway := NewGateway(newTestLogger(), repo, "")

	result := gateway.Resolve(context.Background(), payment.Callback{Params: map[string]string{
		"status":         "failed",
		"tx_ref":         "ST-1",
		"transaction_id": "9001",
	}})

	if result.Status != payment.StatusError {
		t.Fatalf("expected ERROR, got %s", result.Status)
	}
	if result.OrderID != "ST-1" {
		t.Errorf("the order id must survive an error result, got %s", result.OrderID)
	}
}

func TestResolve_MissingTransactionID(t *testing.T) {
	repo := NewFlutterwaveRepository("http://unused", "flw_test", newTestLogger(), http.DefaultClient)
	gateway := NewGateway(newTestLogger(), repo, "")

	result := gateway.Resolve(context.Background(), payment.Callback{Params: map[string]string{
		"status": "successful",
		"tx_ref": "ST-1",
	}})

	if result.Status != payment.StatusError {
		t.Fatalf("expected ERROR, got %s", result.Status)
	}
	if result.OrderID != "ST-1" {
		t.Errorf("expected order id ST-1, got %s", result.OrderID)
	}
}
