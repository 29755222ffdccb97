package order

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/sahmwel/sahmticket-sub000/internal/module/customerapp/ticket"
)

func issuerFixture(tier ticket.TicketTier) (TicketIssuer, *fakeTicketRepository, *fakeTierRepository, *fakePublisher) {
	logger := newTestLogger()

	ticketRepo := &fakeTicketRepository{}
	tierRepo := &fakeTierRepository{tiers: map[string]ticket.TicketTier{tier.ID: tier}}
	publisher := &fakePublisher{}

	issuer := NewTicketIssuer(logger, ticketRepo, ticket.NewStockGuard(logger, tierRepo), publisher)

	return issuer, ticketRepo, tierRepo, publisher
}

func TestIssue_OneScanPayloadPerUnit(t *testing.T) {
	issuer, _, _, _ := issuerFixture(paidTier())

	o := awaitingOrder()
	o.Quantity = 3

	issued, err := issuer.Issue(context.Background(), o, "PROV-REF-7", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(issued) != 3 {
		t.Fatalf("expected 3 tickets, got %d", len(issued))
	}

	seen := make(map[string]bool)
	for idx, tk := range issued {
		expected := fmt.Sprintf("EV-1|TT-1|PROV-REF-7|%d", idx)
		if tk.ScanPayload != expected {
			t.Errorf("expected scan payload %q, got %q", expected, tk.ScanPayload)
		}
		if seen[tk.ScanPayload] {
			t.Errorf("duplicate scan payload %q", tk.ScanPayload)
		}
		seen[tk.ScanPayload] = true

		if tk.OrderID != o.ID {
			t.Errorf("expected order id %s, got %s", o.ID, tk.OrderID)
		}
	}
}

func TestIssue_PublishesTicketIssuedEvent(t *testing.T) {
	issuer, _, _, publisher := issuerFixture(paidTier())

	o := awaitingOrder()

	if _, err := issuer.Issue(context.Background(), o, "PROV-REF-7", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(publisher.messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(publisher.messages))
	}

	var e TicketIssuedEvent
	if err := json.Unmarshal(publisher.messages[0], &e); err != nil {
		t.Fatalf("message is not a ticket issued event: %v", err)
	}

	if e.OrderID != o.ID {
		t.Errorf("expected order id %s, got %s", o.ID, e.OrderID)
	}
	if e.CustomerEmail != o.CustomerEmail {
		t.Errorf("expected customer email %s, got %s", o.CustomerEmail, e.CustomerEmail)
	}
	if len(e.ScanPayloads) != int(o.Quantity) {
		t.Errorf("expected %d scan payloads, got %d", o.Quantity, len(e.ScanPayloads))
	}
}

func TestIssue_PublishFailureIsNotFatal(t *testing.T) {
	issuer, _, tierRepo, publisher := issuerFixture(paidTier())
	publisher.err = fmt.Errorf("broker unavailable")

	o := awaitingOrder()

	issued, err := issuer.Issue(context.Background(), o, "PROV-REF-7", nil)
	if err != nil {
		t.Fatalf("a notification failure must not fail issuance: %v", err)
	}
	if len(issued) != 2 {
		t.Errorf("expected 2 tickets, got %d", len(issued))
	}
	if tierRepo.tiers["TT-1"].Consumed != 2 {
		t.Errorf("expected stock consumed 2, got %d", tierRepo.tiers["TT-1"].Consumed)
	}
}

func TestScanPayload_Format(t *testing.T) {
	got := ScanPayload("EV-9", "TT-4", "REF-1", 5)
	if got != "EV-9|TT-4|REF-1|5" {
		t.Errorf("unexpected scan payload %q", got)
	}
}
