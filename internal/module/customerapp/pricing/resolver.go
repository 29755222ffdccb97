package pricing

import (
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/sahmwel/sahmticket-sub000/pkg/errors"
	"github.com/sahmwel/sahmticket-sub000/pkg/status"
)

// zero-decimal currencies have no minor unit.
var zeroDecimalCurrencies = map[string]struct{}{
	"JPY": {},
	"KRW": {},
	"VND": {},
	"UGX": {},
	"RWF": {},
}

type Resolver struct {
	settlementCurrency string
	// rates maps a currency code to the units of settlement currency one
	// unit of that currency buys. The settlement currency itself maps to 1.
	rates map[string]float64
}

func NewResolver(settlementCurrency string, rates map[string]float64) *Resolver {
	settlementCurrency = strings.ToUpper(settlementCurrency)

	normalized := make(map[string]float64, len(rates))
	for code, rate := range rates {
		normalized[strings.ToUpper(code)] = rate
	}
	normalized[settlementCurrency] = 1

	return &Resolver{
		settlementCurrency: settlementCurrency,
		rates:              normalized,
	}
}

func (r *Resolver) SettlementCurrency() string {
	return r.settlementCurrency
}

// Quote converts a settlement-currency unit price into the target currency
// and applies the gateway's processing fee. Free tiers short-circuit to a
// zero total with no fee, whatever the currency or gateway.
func (r *Resolver) Quote(unitPrice float64, quantity int64, currency string, gateway GatewayConfig) (Quotation, error) {
	currency = strings.ToUpper(currency)

	if unitPrice == 0 {
		return Quotation{
			Currency:           currency,
			SettlementCurrency: r.settlementCurrency,
			Free:               true,
		}, nil
	}

	rate, ok := r.rates[currency]
	if !ok {
		return Quotation{}, errors.New(http.StatusBadRequest, status.UNSUPPORTED_CURRENCY, fmt.Sprintf("currency '%s' is not supported", currency))
	}

	fee, ok := gateway.Fees[currency]
	if !ok {
		return Quotation{}, errors.New(http.StatusBadRequest, status.UNSUPPORTED_CURRENCY, fmt.Sprintf("currency '%s' is not supported by gateway '%s'", currency, gateway.Name))
	}

	precision := minorUnitPrecision(currency)

	unit := round(unitPrice/rate, precision)
	subtotal := round(unitPrice*float64(quantity)/rate, precision)
	total := round(subtotal+fee, precision)

	q := Quotation{
		Currency:            currency,
		UnitPrice:           unit,
		Subtotal:            subtotal,
		Fee:                 fee,
		Total:               total,
		SettlementCurrency:  r.settlementCurrency,
		SettlementUnitPrice: round(unitPrice, 2),
		SettlementSubtotal:  round(unitPrice*float64(quantity), 2),
		SettlementTotal:     round(total*rate, 2),
	}

	return q, nil
}

// ToSettlement converts an amount in the given currency back into settlement
// currency, rounded to two decimal places.
func (r *Resolver) ToSettlement(amount float64, currency string) (float64, error) {
	rate, ok := r.rates[strings.ToUpper(currency)]
	if !ok {
		return 0, errors.New(http.StatusBadRequest, status.UNSUPPORTED_CURRENCY, fmt.Sprintf("currency '%s' is not supported", currency))
	}

	return round(amount*rate, 2), nil
}

func minorUnitPrecision(currency string) int {
	if _, ok := zeroDecimalCurrencies[currency]; ok {
		return 0
	}
	return 2
}

func round(value float64, precision int) float64 {
	factor := math.Pow(10, float64(precision))
	return math.Round(value*factor) / factor
}
