package paystack

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

func TestAuthorize_SendsIntegerKobo(t *testing.T) {
	var received InitializeTransactionRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transaction/initialize" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk_test" {
			t.Errorf("unexpected authorization header %s", got)
		}

		json.NewDecoder(r.Body).Decode(&received)

		json.NewEncoder(w).Encode(InitializeTransactionResponse{
			Status: true,
			Data: InitializeTransactionData{
				AuthorizationURL: "https://checkout.paystack.com/abc123",
				Reference:        received.Reference,
			},
		})
	}))
	defer server.Close()

	repo := NewPaystackRepository(server.URL, "sk_test", newTestLogger(), server.Client())
	gateway := NewGateway(newTestLogger(), repo, "https://shop.example/callback/paystack")

	quote := pricing.Quotation{Currency: "NGN", Total: 16100.5}
	buyer := payment.Buyer{Name: "Ada", Email: "ada@example.com", Phone: "+2348000000000"}

	auth, err := gateway.Authorize(context.Background(), "ST-1", quote, buyer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 16100.50 NGN is 1610050 kobo.
	if received.Amount != 1610050 {
		t.Errorf("expected amount 1610050, got %d", received.Amount)
	}
	if received.Reference != "ST-1" {
		t.Errorf("expected reference ST-1, got %s", received.Reference)
	}
	if received.Email != "ada@example.com" {
		t.Errorf("expected buyer email, got %s", received.Email)
	}
	if received.CallbackURL != "https://shop.example/callback/paystack" {
		t.Errorf("unexpected callback url %s", received.CallbackURL)
	}

	if auth.Gateway != GatewayName {
		t.Errorf("expected gateway %s, got %s", GatewayName, auth.Gateway)
	}
	if auth.Reference != "ST-1" {
		t.Errorf("expected authorization reference ST-1, got %s", auth.Reference)
	}
	if auth.PaymentURL != "https://checkout.paystack.com/abc123" {
		t.Errorf("unexpected payment url %s", auth.PaymentURL)
	}
}

func TestAuthorize_RequiresEmail(t *testing.T) {
	repo := NewPaystackRepository("http://unused", "sk_test", newTestLogger(), http.DefaultClient)
	gateway := NewGateway(newTestLogger(), repo, "https://shop.example/callback/paystack")

	_, err := gateway.Authorize(context.Background(), "ST-1", pricing.Quotation{Currency: "NGN", Total: 100}, payment.Buyer{Name: "Ada"})
	if !errors.Is(err, status.BAD_REQUEST) {
		t.Fatalf("expected BAD_REQUEST, got %v", err)
	}
}

func TestAuthorize_RejectedInitialization(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(InitializeTransactionResponse{Status: false, Message: "invalid key"})
	}))
	defer server.Close()

	repo := NewPaystackRepository(server.URL, "sk_test", newTestLogger(), server.Client())
	gateway := NewGateway(newTestLogger(), repo, "https://shop.example/callback/paystack")

	_, err := gateway.Authorize(context.Background(), "ST-1", pricing.Quotation{Currency: "NGN", Total: 100}, payment.Buyer{Email: "ada@example.com"})
	if !errors.Is(err, status.GATEWAY_ERROR) {
		t.Fatalf("expected GATEWAY_ERROR, got %v", err)
	}
}

func verifyServer(t *testing.T, transactionStatus string) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transaction/verify/ST-1" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}

		json.NewEncoder(w).Encode(VerifyTransactionResponse{
			Status: true,
			Data: VerifyTransactionData{
				ID:        9001,
				Status:    transactionStatus,
				Reference: "ST-1",
			},
		})
	}))
}

func TestResolve_SuccessfulTransaction(t *testing.T) {
	server := verifyServer(t, TransactionStatusSuccess)
	defer server.Close()

	repo := NewPaystackRepository(server.URL, "sk_test", newTestLogger(), server.Client())
	gateway := NewGateway(newTestLogger(), repo, "")

	result := gateway.Resolve(context.Background(), payment.Callback{Params: map[string]string{"reference": "ST-1"}})

	if result.Status != payment.StatusSuccess {
		t.Fatalf("expected SUCCESS, got %s", result.Status)
	}
	if result.OrderID != "ST-1" {
		t.Errorf("expected order id ST-1, got %s", result.OrderID)
	}
	if result.Reference != "9001" {
		t.Errorf("expected settlement reference 9001, got %s", result.Reference)
	}
}

func TestResolve_TrxrefFallback(t *testing.T) {
	server := verifyServer(t, TransactionStatusSuccess)
	defer server.Close()

	repo := NewPaystackRepository(server.URL, "sk_test", newTestLogger(), server.Client())
	gateway := NewGateway(newTestLogger(), repo, "")

	result := gateway.Resolve(context.Background(), payment.Callback{Params: map[string]string{"trxref": "ST-1"}})

	if result.Status != payment.StatusSuccess {
		t.Fatalf("expected SUCCESS, got %s", result.Status)
	}
}

func TestResolve_AbandonedIsCancelled(t *testing.T) {
	server := verifyServer(t, TransactionStatusAbandoned)
	defer server.Close()

	repo := NewPaystackRepository(server.URL, "sk_test", newTestLogger(), server.Client())
	gateway := NewGateway(newTestLogger(), repo, "")

	result := gateway.Resolve(context.Background(), payment.Callback{Params: map[string]string{"reference": "ST-1"}})

	if result.Status != payment.StatusCancelled {
		t.Fatalf("expected CANCELLED, got %s", result.Status)
	}
	if result.OrderID != "ST-1" {
		t.Errorf("expected order id ST-1, got %s", result.OrderID)
	}
}

func TestResolve_FailedTransactionIsError(t *testing.T) {
	server := verifyServer(t, TransactionStatusFailed)
	defer server.Close()

	repo := NewPaystackRepository(server.URL, "sk_test", newTestLogger(), server.Client())
	gateway := NewGateway(newTestLogger(), repo, "")

	result := gateway.Resolve(context.Background(), payment.Callback{Params: map[string]string{"reference": "ST-1"}})

	if result.Status != payment.StatusError {
		t.Fatalf("expected ERROR, got %s", result.Status)
	}
	if result.OrderID != "ST-1" {
		t.Errorf("the order id must survive an error result, got %s", result.OrderID)
	}
}

func TestResolve_MissingReference(t *testing.T) {
	repo := NewPaystackRepository("http://unused", "sk_test", newTestLogger(), http.DefaultClient)
	gateway := NewGateway(newTestLogger(), repo, "")

	result := gateway.Resolve(context.Background(), payment.Callback{Params: map[string]string{}})

	if result.Status != payment.StatusError {
		t.Fatalf("expected ERROR, got %s", result.Status)
	}
	if result.OrderID != "" {
		t.Errorf("expected empty order id, got %s", result.OrderID)
	}
}
