package valueobject

import (
	"encoding/json"
	"fmt"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Money is a value object representing a monetary amount in one currency.
// It is immutable - all operations return new Money instances.
// Operations combining two amounts fail with CURRENCY_MISMATCH when the
// currencies differ; there is no implicit conversion.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoney creates Money after validating the currency and the number of
// decimal places. Use it at input boundaries.
func NewMoney(amount decimal.Decimal, currency Currency) (Money, error) {
	if !currency.IsValid() {
		return Money{}, shared.ErrInvalidCurrency.WithMessage(fmt.Sprintf("unsupported currency: %q", currency))
	}
	if !amount.Equal(amount.Truncate(currency.Scale())) {
		return Money{}, shared.ErrInvalidAmountPrecision.WithMessage(
			fmt.Sprintf("%s amounts allow at most %d decimal places, got %s", currency, currency.Scale(), amount.String()))
	}
	return Money{amount: amount, currency: currency}, nil
}

// NewMoneyFromString creates Money from a string representation
func NewMoneyFromString(amount string, currency Currency) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, shared.ErrInvalidInput.WithMessage(fmt.Sprintf("invalid amount %q", amount))
	}
	return NewMoney(d, currency)
}

// NewMoneyFromInt creates Money from a whole number of major units
func NewMoneyFromInt(amount int64, currency Currency) (Money, error) {
	return NewMoney(decimal.NewFromInt(amount), currency)
}

// MustNewMoney is like NewMoney but panics on invalid input
func MustNewMoney(amount decimal.Decimal, currency Currency) Money {
	m, err := NewMoney(amount, currency)
	if err != nil {
		panic(err)
	}
	return m
}

// MoneyOf wraps an already-validated amount read back from storage.
// It skips the precision check so that stored values always load.
func MoneyOf(amount decimal.Decimal, currency Currency) Money {
	return Money{amount: amount, currency: currency}
}

// NewIQD creates a dinar amount
func NewIQD(amount int64) Money {
	return Money{amount: decimal.NewFromInt(amount), currency: IQD}
}

// NewUSD creates a dollar amount from a string such as "12.50"; it panics on
// malformed input and is meant for constants and tests
func NewUSD(amount string) Money {
	m, err := NewMoneyFromString(amount, USD)
	if err != nil {
		panic(err)
	}
	return m
}

// Zero returns a zero-value Money in the specified currency
func Zero(currency Currency) Money {
	return Money{amount: decimal.Zero, currency: currency}
}

// Amount returns the decimal amount
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the currency code
func (m Money) Currency() Currency {
	return m.currency
}

// IsZero returns true if the amount is zero
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsPositive returns true if the amount is positive
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// IsNegative returns true if the amount is negative
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// RequirePositive returns ZERO_AMOUNT or NEGATIVE_AMOUNT unless m > 0
func (m Money) RequirePositive() error {
	switch {
	case m.amount.IsZero():
		return shared.ErrZeroAmount
	case m.amount.IsNegative():
		return shared.ErrNegativeAmount.WithMessage(fmt.Sprintf("amount must be positive, got %s", m))
	}
	return nil
}

// SameCurrency returns CURRENCY_MISMATCH unless both amounts share a currency
func (m Money) SameCurrency(other Money) error {
	if m.currency != other.currency {
		return shared.ErrCurrencyMismatch.WithMessage(
			fmt.Sprintf("cannot combine %s with %s", m.currency, other.currency))
	}
	return nil
}

// Add returns a new Money with the sum of both amounts
func (m Money) Add(other Money) (Money, error) {
	if err := m.SameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

// MustAdd adds two Money values, panics if currencies don't match
func (m Money) MustAdd(other Money) Money {
	result, err := m.Add(other)
	if err != nil {
		panic(err)
	}
	return result
}

// Subtract returns a new Money with the difference
func (m Money) Subtract(other Money) (Money, error) {
	if err := m.SameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{amount: m.amount.Sub(other.amount), currency: m.currency}, nil
}

// MustSubtract subtracts two Money values, panics if currencies don't match
func (m Money) MustSubtract(other Money) Money {
	result, err := m.Subtract(other)
	if err != nil {
		panic(err)
	}
	return result
}

// Min returns the smaller of the two amounts
func (m Money) Min(other Money) (Money, error) {
	if err := m.SameCurrency(other); err != nil {
		return Money{}, err
	}
	if other.amount.LessThan(m.amount) {
		return other, nil
	}
	return m, nil
}

// FloorZero returns m, or zero when m is negative
func (m Money) FloorZero() Money {
	if m.amount.IsNegative() {
		return Zero(m.currency)
	}
	return m
}

// Negate returns a new Money with the sign reversed
func (m Money) Negate() Money {
	return Money{amount: m.amount.Neg(), currency: m.currency}
}

// Equals returns true if both Money values are equal (same amount and currency)
func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// LessThan returns true if this Money is less than the other
func (m Money) LessThan(other Money) (bool, error) {
	if err := m.SameCurrency(other); err != nil {
		return false, err
	}
	return m.amount.LessThan(other.amount), nil
}

// GreaterThan returns true if this Money is greater than the other
func (m Money) GreaterThan(other Money) (bool, error) {
	if err := m.SameCurrency(other); err != nil {
		return false, err
	}
	return m.amount.GreaterThan(other.amount), nil
}

// String returns the amount at the currency's scale followed by its code
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.StringFixed(m.currency.Scale()), m.currency)
}

// MarshalJSON implements json.Marshaler
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Amount   string   `json:"amount"`
		Currency Currency `json:"currency"`
	}{
		Amount:   m.amount.String(),
		Currency: m.currency,
	})
}

// UnmarshalJSON implements json.Unmarshaler and validates through NewMoney
func (m *Money) UnmarshalJSON(data []byte) error {
	var v struct {
		Amount   string   `json:"amount"`
		Currency Currency `json:"currency"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	parsed, err := NewMoneyFromString(v.Amount, v.Currency)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Sum adds amounts that must all be in currency
func Sum(currency Currency, amounts ...Money) (Money, error) {
	total := Zero(currency)
	for _, a := range amounts {
		var err error
		if total, err = total.Add(a); err != nil {
			return Money{}, err
		}
	}
	return total, nil
}
