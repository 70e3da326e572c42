package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const DefaultCurrency = "GBP"

var (
	currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)
	decimalPattern  = regexp.MustCompile(`^[0-9]+(\.[0-9]{1,2})?$`)
)

// Money is an amount in minor units (pence, cents) of a single currency.
type Money struct {
	Amount   int64
	Currency string
}

func NewMoney(amount int64, currency string) (Money, error) {
	if amount < 0 {
		return Money{}, Validationf("money amount cannot be negative")
	}
	if !currencyPattern.MatchString(currency) {
		return Money{}, Validationf("invalid currency code %q", currency)
	}
	return Money{Amount: amount, Currency: currency}, nil
}

// ParseMoney reads a major-unit decimal such as "100.00" or "99.5". Signs,
// exponents and more than two decimals are rejected.
func ParseMoney(value, currency string) (Money, error) {
	value = strings.TrimSpace(value)
	if strings.HasPrefix(value, "-") {
		return Money{}, Validationf("money amount cannot be negative")
	}
	if !decimalPattern.MatchString(value) {
		return Money{}, Validationf("invalid money amount %q", value)
	}
	major, minor, _ := strings.Cut(value, ".")
	units, err := strconv.ParseInt(major, 10, 64)
	if err != nil {
		return Money{}, Validationf("invalid money amount %q", value)
	}
	minor = (minor + "00")[:2]
	cents, _ := strconv.ParseInt(minor, 10, 64)
	return NewMoney(units*100+cents, currency)
}

func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, Validationf("cannot add %s to %s", other.Currency, m.Currency)
	}
	return Money{Amount: m.Amount + other.Amount, Currency: m.Currency}, nil
}

func (m Money) Multiply(n int) Money {
	return Money{Amount: m.Amount * int64(n), Currency: m.Currency}
}

// Compare returns -1, 0 or 1. Amounts in different currencies are not comparable.
func (m Money) Compare(other Money) (int, error) {
	if m.Currency != other.Currency {
		return 0, Validationf("cannot compare %s with %s", m.Currency, other.Currency)
	}
	switch {
	case m.Amount < other.Amount:
		return -1, nil
	case m.Amount > other.Amount:
		return 1, nil
	default:
		return 0, nil
	}
}

func (m Money) IsZero() bool {
	return m.Amount == 0
}

// Decimal formats the amount in major units, e.g. "200.00".
func (m Money) Decimal() string {
	return fmt.Sprintf("%d.%02d", m.Amount/100, m.Amount%100)
}

func (m Money) String() string {
	return m.Decimal() + " " + m.Currency
}
