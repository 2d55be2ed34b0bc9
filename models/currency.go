package models

import (
	"database/sql/driver"
	"fmt"
)

type Currency int

const (
	CurrencySilver Currency = iota + 1 // primary
	CurrencyGold                       // premium
)

func ParseCurrency(s string) (Currency, error) {
	switch s {
	case "silver", "primary":
		return CurrencySilver, nil
	case "gold", "premium":
		return CurrencyGold, nil
	}
	return 0, fmt.Errorf("unknown currency %q", s)
}

func (c Currency) Valid() bool {
	return c == CurrencySilver || c == CurrencyGold
}

func (c Currency) String() string {
	switch c {
	case CurrencySilver:
		return "silver"
	case CurrencyGold:
		return "gold"
	}
	return fmt.Sprintf("currency(%d)", int(c))
}

// Column is the users table column holding this currency's balance.
func (c Currency) Column() string {
	switch c {
	case CurrencySilver:
		return "silver_balance"
	case CurrencyGold:
		return "gold_balance"
	}
	return ""
}

func (c Currency) Value() (driver.Value, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid currency %d", int(c))
	}
	return c.String(), nil
}

func (c *Currency) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("cannot scan %T into Currency", src)
	}
	parsed, err := ParseCurrency(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
