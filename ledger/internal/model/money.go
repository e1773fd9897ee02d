package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an amount in cents. It is serialized as a plain JSON number
// with two decimals, the way the pages print fines.
type Money int64

const Cent Money = 1

func NewMoney(d decimal.Decimal) Money {
	return Money(d.Shift(2).Round(0).IntPart())
}

func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -2)
}

func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Money) UnmarshalJSON(b []byte) error {
	d, err := decimal.NewFromString(strings.Trim(string(b), `"`))
	if err != nil {
		return err
	}
	*m = NewMoney(d)
	return nil
}

// Decode lets envconfig read "1.00" style amounts.
func (m *Money) Decode(value string) error {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return err
	}
	*m = NewMoney(d)
	return nil
}
