package models

import "gorm.io/gorm"

// User owns exactly one ledger account: the two balances below.
// Balances are only written through ledgerService.
type User struct {
	gorm.Model
	ID              uint   `gorm:"primaryKey"`
	ExternalID      string `gorm:"uniqueIndex; size:64"`
	Username        *string
	SilverBalance   int64 `gorm:"not null; default:0"`
	GoldBalance     int64 `gorm:"not null; default:0"`
	TotalBetsWon    int   `gorm:"default:0"`
	TotalBetsLost   int   `gorm:"default:0"`
	TotalPointsWon  int64 `gorm:"default:0"`
	TotalPointsLost int64 `gorm:"default:0"`
}

// Balance returns the account balance held in the given currency.
func (u User) Balance(c Currency) int64 {
	switch c {
	case CurrencyGold:
		return u.GoldBalance
	default:
		return u.SilverBalance
	}
}
