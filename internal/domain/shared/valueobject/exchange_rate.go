package valueobject

import (
	"fmt"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// ExchangeRate states that one unit of From is worth Rate units of To.
// Rates exist only for reporting aggregates; settlement never converts.
type ExchangeRate struct {
	from Currency
	to   Currency
	rate decimal.Decimal
}

// NewExchangeRate creates a fixed reporting rate
func NewExchangeRate(from, to Currency, rate decimal.Decimal) (ExchangeRate, error) {
	if !from.IsValid() || !to.IsValid() {
		return ExchangeRate{}, shared.ErrInvalidCurrency
	}
	if from == to {
		return ExchangeRate{}, shared.ErrInvalidInput.WithMessage("exchange rate needs two different currencies")
	}
	if !rate.IsPositive() {
		return ExchangeRate{}, shared.ErrInvalidInput.WithMessage("exchange rate must be positive")
	}
	return ExchangeRate{from: from, to: to, rate: rate}, nil
}

// From returns the source currency
func (r ExchangeRate) From() Currency { return r.from }

// To returns the target currency
func (r ExchangeRate) To() Currency { return r.to }

// Rate returns the multiplier from From to To
func (r ExchangeRate) Rate() decimal.Decimal { return r.rate }

// Inverse returns the rate converting To back into From
func (r ExchangeRate) Inverse() ExchangeRate {
	return ExchangeRate{from: r.to, to: r.from, rate: decimal.NewFromInt(1).Div(r.rate)}
}

// ToReportingCurrency converts amount into the rate's target currency for
// reporting. Amounts already in the target currency are returned unchanged.
// The result is rounded to the target currency's scale.
func ToReportingCurrency(amount Money, rate ExchangeRate) (Money, error) {
	switch amount.currency {
	case rate.to:
		return amount, nil
	case rate.from:
		converted := amount.amount.Mul(rate.rate).Round(rate.to.Scale())
		return Money{amount: converted, currency: rate.to}, nil
	default:
		return Money{}, shared.ErrCurrencyMismatch.WithMessage(
			fmt.Sprintf("rate %s->%s cannot convert %s", rate.from, rate.to, amount.currency))
	}
}

// SumInReportingCurrency converts each amount with rate and adds them up
func SumInReportingCurrency(rate ExchangeRate, amounts ...Money) (Money, error) {
	total := Zero(rate.to)
	for _, a := range amounts {
		converted, err := ToReportingCurrency(a, rate)
		if err != nil {
			return Money{}, err
		}
		total = total.MustAdd(converted)
	}
	return total, nil
}

var reportPrinter = message.NewPrinter(language.English)

// FormatAmount renders an amount with its currency symbol and digit
// grouping for reports, e.g. "$ 1,250.50" or "IQD 150,000".
func FormatAmount(m Money) string {
	f, _ := m.amount.Float64()
	scale := int(m.currency.Scale())
	return reportPrinter.Sprintf("%v %v",
		currency.Symbol(m.currency.Unit()),
		number.Decimal(f, number.Scale(scale)))
}
