package models

import (
	"time"

	"gorm.io/datatypes"
)

type LedgerReason string

const (
	ReasonStake           LedgerReason = "stake"
	ReasonCounterStake    LedgerReason = "counter_stake"
	ReasonPayout          LedgerReason = "payout"
	ReasonTieRefund       LedgerReason = "tie_refund"
	ReasonExpiryRefund    LedgerReason = "expiry_refund"
	ReasonAdminAdjustment LedgerReason = "admin_adjustment"
)

// LedgerEntry is the append-only journal of balance movements. Amount is
// signed: debits are negative.
type LedgerEntry struct {
	ID             uint         `gorm:"primaryKey"`
	UserID         uint         `gorm:"index; not null"`
	WagerID        *uint        `gorm:"index"`
	Currency       Currency     `gorm:"type:varchar(16); not null"`
	Amount         int64        `gorm:"not null"`
	Reason         LedgerReason `gorm:"size:32; not null"`
	IdempotencyKey string       `gorm:"uniqueIndex; size:64; not null"`
	Metadata       datatypes.JSON
	CreatedAt      time.Time
}
