package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AcceptanceState string

const (
	AcceptanceOpen     AcceptanceState = "open"
	AcceptanceAccepted AcceptanceState = "accepted"
	AcceptanceExpired  AcceptanceState = "expired"
)

type SettlementState string

const (
	SettlementPending  SettlementState = "pending"
	SettlementSettled  SettlementState = "settled"
	SettlementRefunded SettlementState = "refunded"
)

type RefundReason string

const (
	RefundExpired RefundReason = "expired"
	RefundTie     RefundReason = "tie"
)

type Condition string

const (
	ConditionOver       Condition = "over"
	ConditionUnder      Condition = "under"
	ConditionExactly    Condition = "exactly"
	ConditionNotExactly Condition = "not_exactly"
)

// Wager is one proposition instance. Rows are never deleted.
type Wager struct {
	gorm.Model
	ID             uint `gorm:"primaryKey"`
	CreatorID      uint `gorm:"index; not null"`
	Creator        User `gorm:"foreignKey:CreatorID"`
	CounterpartyID *uint
	Counterparty   *User `gorm:"foreignKey:CounterpartyID"`

	Sport     string    `gorm:"size:32; not null"`
	Subject   string    `gorm:"size:128; not null"`
	Metric    string    `gorm:"size:32; not null"`
	Condition Condition `gorm:"size:16; not null"`
	Target    float64
	EventTime time.Time `gorm:"index"`
	Segment   *int

	Stake             int64           `gorm:"not null"`
	CounterpartyStake int64           `gorm:"not null"`
	Pot               int64           `gorm:"not null"`
	Currency          Currency        `gorm:"type:varchar(16); not null"`
	Multiplier        decimal.Decimal `gorm:"type:decimal(10,2); not null"`

	AcceptDeadline  time.Time       `gorm:"index"`
	AcceptanceState AcceptanceState `gorm:"size:16; index:idx_wager_states; not null; default:open"`
	SettlementState SettlementState `gorm:"size:16; index:idx_wager_states; not null; default:pending"`
	AcceptedAt      *time.Time

	WinnerID     *uint
	Tie          bool `gorm:"default:false"`
	ActualValue  *float64
	Refunded     bool          `gorm:"default:false"`
	RefundReason *RefundReason `gorm:"size:16"`
	CompletedAt  *time.Time

	LastCheckedAt *time.Time
	CheckAttempts int `gorm:"default:0"`
}

// Description renders the proposition, e.g. "LeBron James over 20.5 points".
func (w Wager) Description() string {
	return w.Subject + " " + string(w.Condition) + " " + decimal.NewFromFloat(w.Target).String() + " " + w.Metric
}

// Terminal reports whether the wager has reached settled or refunded.
func (w Wager) Terminal() bool {
	return w.SettlementState == SettlementSettled || w.SettlementState == SettlementRefunded
}

// LoserID returns the party that did not win a settled, non-tie wager.
func (w Wager) LoserID() *uint {
	if w.WinnerID == nil || w.CounterpartyID == nil {
		return nil
	}
	if *w.WinnerID == w.CreatorID {
		return w.CounterpartyID
	}
	id := w.CreatorID
	return &id
}
