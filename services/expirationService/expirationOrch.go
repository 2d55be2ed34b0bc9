package expirationService

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Gavin-Payne/Adrenyline-sub001/models"
	"github.com/Gavin-Payne/Adrenyline-sub001/services/ledgerService"
	"github.com/Gavin-Payne/Adrenyline-sub001/services/messageService"
	"github.com/Gavin-Payne/Adrenyline-sub001/services/storageService"
	"gorm.io/gorm"
)

type Report struct {
	Scanned  int
	Refunded int
	Skipped  int
	Failures []error
}

func (r Report) Err() error {
	return errors.Join(r.Failures...)
}

type Reclaimer struct {
	db       *gorm.DB
	notifier messageService.Notifier
	now      func() time.Time
}

func NewReclaimer(db *gorm.DB, notifier messageService.Notifier) *Reclaimer {
	if notifier == nil {
		notifier = messageService.NoopNotifier{}
	}
	return &Reclaimer{db: db, notifier: notifier, now: time.Now}
}

// ReclaimExpired refunds the creator of every wager nobody accepted before
// its deadline. One wager failing does not stop the others.
func (r *Reclaimer) ReclaimExpired(ctx context.Context) (Report, error) {
	now := r.now().UTC()

	var wagers []models.Wager
	err := r.db.WithContext(ctx).
		Where("acceptance_state = ? AND accept_deadline <= ? AND refunded = ?", models.AcceptanceOpen, now, false).
		Order("accept_deadline").
		Find(&wagers).Error
	if err != nil {
		return Report{}, fmt.Errorf("scan expired wagers: %w", err)
	}

	report := Report{Scanned: len(wagers)}
	for _, wager := range wagers {
		if ctx.Err() != nil {
			break
		}
		refunded, err := r.reclaim(ctx, wager, now)
		switch {
		case err != nil:
			slog.Error("failed to refund expired wager", "wager_id", wager.ID, "err", err)
			report.Failures = append(report.Failures, fmt.Errorf("wager %d: %w", wager.ID, err))
		case refunded:
			report.Refunded++
			r.notify(ctx, wager.ID)
		default:
			report.Skipped++
		}
	}

	if report.Scanned > 0 {
		slog.Info("expiration scan complete", "scanned", report.Scanned, "refunded", report.Refunded, "failed", len(report.Failures))
	}
	return report, ctx.Err()
}

// reclaim returns false when someone accepted or refunded the wager after
// the scan read it.
func (r *Reclaimer) reclaim(ctx context.Context, w models.Wager, now time.Time) (bool, error) {
	refunded := false
	err := storageService.Transact(ctx, r.db, func(tx *gorm.DB) error {
		result := tx.Model(&models.Wager{}).
			Where("id = ? AND acceptance_state = ? AND refunded = ?", w.ID, models.AcceptanceOpen, false).
			Updates(map[string]interface{}{
				"acceptance_state": models.AcceptanceExpired,
				"settlement_state": models.SettlementRefunded,
				"refunded":         true,
				"refund_reason":    models.RefundExpired,
				"completed_at":     now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			refunded = false
			return nil
		}
		refunded = true
		return ledgerService.Credit(tx, w.CreatorID, w.Currency, w.Stake, ledgerService.Ref{
			WagerID: &w.ID,
			Reason:  models.ReasonExpiryRefund,
		})
	})
	return refunded, err
}

func (r *Reclaimer) notify(ctx context.Context, wagerID uint) {
	var wager models.Wager
	if err := r.db.WithContext(ctx).Preload("Creator").First(&wager, wagerID).Error; err != nil {
		slog.Warn("failed to load wager for notification", "wager_id", wagerID, "err", err)
		return
	}
	if err := r.notifier.Notify(ctx, wager); err != nil {
		slog.Warn("failed to send refund notification", "wager_id", wagerID, "err", err)
	}
}
