package valueobject

import (
	"strings"

	"github.com/erp/ledger/internal/domain/shared"
	"golang.org/x/text/currency"
)

// Currency is one of the two settlement currencies the ledger tracks.
// The set is closed: balances are kept independently per currency and no
// amount is ever converted implicitly between them.
type Currency string

const (
	IQD Currency = "IQD" // Iraqi Dinar
	USD Currency = "USD" // US Dollar
)

// SupportedCurrencies lists every currency the ledger accepts, in display order
var SupportedCurrencies = []Currency{IQD, USD}

// minorUnits is the number of decimal places an amount may carry.
// Fils are not in circulation, so dinar amounts are whole numbers.
var minorUnits = map[Currency]int32{
	IQD: 0,
	USD: 2,
}

// ParseCurrency parses a currency code, case-insensitively
func ParseCurrency(code string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(code)))
	if !c.IsValid() {
		return "", shared.ErrInvalidCurrency.WithMessage("unsupported currency: " + code)
	}
	return c, nil
}

// IsValid returns true if the currency is IQD or USD
func (c Currency) IsValid() bool {
	_, ok := minorUnits[c]
	return ok
}

// Scale returns the number of decimal places allowed for amounts in c
func (c Currency) Scale() int32 {
	return minorUnits[c]
}

// Unit returns the ISO 4217 unit used for locale-aware formatting
func (c Currency) Unit() currency.Unit {
	return currency.MustParseISO(string(c))
}

// String returns the currency code
func (c Currency) String() string {
	return string(c)
}
