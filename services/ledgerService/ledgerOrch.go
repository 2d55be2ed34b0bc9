package ledgerService

import (
	"encoding/json"
	"fmt"

	"github.com/Gavin-Payne/Adrenyline-sub001/models"
	"github.com/Gavin-Payne/Adrenyline-sub001/services/common"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Ref ties a balance movement to the wager and reason that caused it.
type Ref struct {
	WagerID  *uint
	Reason   models.LedgerReason
	Metadata map[string]any
}

// idempotencyKey is unique per (reason, wager, user) so a wager can never
// move the same money twice even if an outer state check is bypassed.
func (r Ref) idempotencyKey(userID uint) string {
	if r.WagerID == nil {
		return uuid.NewString()
	}
	return fmt.Sprintf("%s:%d:%d", r.Reason, *r.WagerID, userID)
}

// Debit decreases the balance with a single conditional UPDATE, so two
// concurrent debits cannot both pass the funds check.
func Debit(tx *gorm.DB, userID uint, currency models.Currency, amount int64, ref Ref) error {
	if amount < 0 {
		return common.ErrInvalidAmount
	}
	col := currency.Column()
	if col == "" {
		return fmt.Errorf("%w: unknown currency", common.ErrInvalidSpec)
	}
	if amount == 0 {
		return nil
	}

	result := tx.Model(&models.User{}).
		Where("id = ? AND "+col+" >= ?", userID, amount).
		UpdateColumn(col, gorm.Expr(col+" - ?", amount))
	if result.Error != nil {
		return fmt.Errorf("debit user %d: %w", userID, result.Error)
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
			return fmt.Errorf("debit user %d: %w", userID, err)
		}
		if count == 0 {
			return fmt.Errorf("%w: %d", common.ErrUserNotFound, userID)
		}
		return common.ErrInsufficientFunds
	}

	return record(tx, userID, currency, -amount, ref)
}

func Credit(tx *gorm.DB, userID uint, currency models.Currency, amount int64, ref Ref) error {
	if amount < 0 {
		return common.ErrInvalidAmount
	}
	col := currency.Column()
	if col == "" {
		return fmt.Errorf("%w: unknown currency", common.ErrInvalidSpec)
	}
	if amount == 0 {
		return nil
	}

	result := tx.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn(col, gorm.Expr(col+" + ?", amount))
	if result.Error != nil {
		return fmt.Errorf("credit user %d: %w", userID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %d", common.ErrUserNotFound, userID)
	}

	return record(tx, userID, currency, amount, ref)
}

func record(tx *gorm.DB, userID uint, currency models.Currency, signed int64, ref Ref) error {
	var meta datatypes.JSON
	if len(ref.Metadata) > 0 {
		raw, err := json.Marshal(ref.Metadata)
		if err != nil {
			return fmt.Errorf("encode ledger metadata: %w", err)
		}
		meta = datatypes.JSON(raw)
	}

	entry := models.LedgerEntry{
		UserID:         userID,
		WagerID:        ref.WagerID,
		Currency:       currency,
		Amount:         signed,
		Reason:         ref.Reason,
		IdempotencyKey: ref.idempotencyKey(userID),
		Metadata:       meta,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return fmt.Errorf("journal %s for user %d: %w", ref.Reason, userID, err)
	}
	return nil
}

// Grant credits an account outside of any wager, e.g. starting balances.
func Grant(db *gorm.DB, userID uint, currency models.Currency, amount int64) error {
	return db.Transaction(func(tx *gorm.DB) error {
		return Credit(tx, userID, currency, amount, Ref{Reason: models.ReasonAdminAdjustment})
	})
}

func Balance(db *gorm.DB, userID uint, currency models.Currency) (int64, error) {
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return 0, err
	}
	return user.Balance(currency), nil
}

// NetForWager sums every journal movement tied to a wager. A terminal wager
// nets to zero: all money debited for it has been paid back out.
func NetForWager(db *gorm.DB, wagerID uint) (int64, error) {
	var net int64
	err := db.Model(&models.LedgerEntry{}).
		Where("wager_id = ?", wagerID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&net).Error
	return net, err
}
