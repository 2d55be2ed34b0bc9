package common

import (
	"fmt"
	"log/slog"

	"github.com/Gavin-Payne/Adrenyline-sub001/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LogError logs err and persists it to the error_logs table so an operator
// can find wagers that need manual attention.
func LogError(db *gorm.DB, source string, wagerID *uint, err error) {
	attrs := []any{"source", source, "err", err}
	if wagerID != nil {
		attrs = append(attrs, "wager_id", *wagerID)
	}
	slog.Error("operator error", attrs...)

	errLog := models.ErrorLog{
		Source:  source,
		WagerID: wagerID,
		Message: fmt.Sprintf("%v", err),
	}
	if dbErr := db.Create(&errLog).Error; dbErr != nil {
		slog.Error("persist error log failed", "source", source, "err", dbErr)
	}
}

// CounterpartyStake is what the accepting side must put up: stake x (multiplier - 1).
// The product must be a whole positive amount.
func CounterpartyStake(stake int64, multiplier decimal.Decimal) (int64, error) {
	if stake <= 0 {
		return 0, fmt.Errorf("%w: stake must be positive", ErrInvalidSpec)
	}
	if multiplier.LessThanOrEqual(decimal.NewFromInt(1)) {
		return 0, fmt.Errorf("%w: multiplier must be greater than 1", ErrInvalidSpec)
	}
	// stored as decimal(10,2)
	if !multiplier.Equal(multiplier.Round(2)) {
		return 0, fmt.Errorf("%w: multiplier %s has more than two decimal places", ErrInvalidSpec, multiplier)
	}
	counter := decimal.NewFromInt(stake).Mul(multiplier.Sub(decimal.NewFromInt(1)))
	if !counter.IsInteger() {
		return 0, fmt.Errorf("%w: stake %d at multiplier %s leaves a fractional counter stake", ErrInvalidSpec, stake, multiplier)
	}
	if counter.Sign() <= 0 {
		return 0, fmt.Errorf("%w: counter stake must be positive", ErrInvalidSpec)
	}
	return counter.IntPart(), nil
}

// CalculatePayout is the winner's total credit: stake x multiplier.
func CalculatePayout(stake int64, multiplier decimal.Decimal) int64 {
	return decimal.NewFromInt(stake).Mul(multiplier).IntPart()
}

func FormatAmount(amount int64, currency models.Currency) string {
	return fmt.Sprintf("%d %s", amount, currency)
}

func Contains[T comparable](s []T, e T) bool {
	for _, a := range s {
		if a == e {
			return true
		}
	}
	return false
}
