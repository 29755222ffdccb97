package pricing

import "strings"

// GatewayConfig describes a payment processor's currency support and fee
// schedule. The keys of Fees are the currencies the gateway accepts; the
// values are the processing fee denominated in that same currency. A
// single-entry map models a flat-fee, single-currency gateway.
type GatewayConfig struct {
	Name string
	Fees map[string]float64
}

func (g GatewayConfig) Supports(currency string) bool {
	_, ok := g.Fees[strings.ToUpper(currency)]
	return ok
}

// Quotation is the priced view of one checkout attempt: amounts in the
// buyer's selected currency plus their settlement-currency equivalents used
// for bookkeeping.
type Quotation struct {
	Currency            string
	UnitPrice           float64
	Subtotal            float64
	Fee                 float64
	Total               float64
	SettlementCurrency  string
	SettlementUnitPrice float64
	SettlementSubtotal  float64
	SettlementTotal     float64
	Free                bool
}
