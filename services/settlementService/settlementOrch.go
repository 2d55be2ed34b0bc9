package settlementService

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Gavin-Payne/Adrenyline-sub001/models"
	"github.com/Gavin-Payne/Adrenyline-sub001/services/boxscoreService"
	"github.com/Gavin-Payne/Adrenyline-sub001/services/common"
	"github.com/Gavin-Payne/Adrenyline-sub001/services/ledgerService"
	"github.com/Gavin-Payne/Adrenyline-sub001/services/messageService"
	"github.com/Gavin-Payne/Adrenyline-sub001/services/outcomeService"
	"github.com/Gavin-Payne/Adrenyline-sub001/services/sportService"
	"github.com/Gavin-Payne/Adrenyline-sub001/services/storageService"
	"gorm.io/gorm"
)

type Result int

const (
	// ResultSkipped: preconditions not met (not accepted, event not started).
	ResultSkipped Result = iota
	// ResultDeferred: no usable result yet; retried on a later pass.
	ResultDeferred
	ResultSettled
	ResultRefunded
	// ResultAlreadySettled: another run got there first.
	ResultAlreadySettled
)

func (r Result) String() string {
	switch r {
	case ResultSkipped:
		return "skipped"
	case ResultDeferred:
		return "deferred"
	case ResultSettled:
		return "settled"
	case ResultRefunded:
		return "refunded"
	case ResultAlreadySettled:
		return "already_settled"
	}
	return "unknown"
}

const settlementSource = "settlement"

var errLostRace = errors.New("wager no longer pending")

type Engine struct {
	db          *gorm.DB
	lookup      boxscoreService.Lookup
	notifier    messageService.Notifier
	concurrency int
	now         func() time.Time
}

func NewEngine(db *gorm.DB, lookup boxscoreService.Lookup, notifier messageService.Notifier, concurrency int) *Engine {
	if notifier == nil {
		notifier = messageService.NoopNotifier{}
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &Engine{db: db, lookup: lookup, notifier: notifier, concurrency: concurrency, now: time.Now}
}

// TrySettle resolves one wager if its result is available. Missing data is
// not an error: the wager stays pending and a later pass retries it. The
// state write re-checks that the wager is still pending, so concurrent calls
// settle it once.
func (e *Engine) TrySettle(ctx context.Context, wagerID uint) (Result, error) {
	var wager models.Wager
	if err := e.db.WithContext(ctx).First(&wager, wagerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ResultSkipped, common.ErrWagerNotFound
		}
		return ResultSkipped, err
	}

	if wager.Terminal() {
		return ResultAlreadySettled, nil
	}
	if wager.AcceptanceState != models.AcceptanceAccepted || wager.CounterpartyID == nil {
		return ResultSkipped, nil
	}
	if wager.EventTime.After(e.now()) {
		return ResultSkipped, nil
	}

	sport, err := sportService.Get(wager.Sport)
	if err != nil {
		return ResultSkipped, e.operatorError(ctx, wager, err)
	}

	res, err := e.lookup.Lookup(ctx, boxscoreService.Query{
		Sport:      sport,
		Subject:    wager.Subject,
		EventTime:  wager.EventTime,
		GameNumber: sport.GameNumber(wager.Segment),
	})
	if err != nil {
		if errors.Is(err, boxscoreService.ErrNotFound) {
			slog.Debug("box score not available", "wager_id", wager.ID, "subject", wager.Subject)
		} else {
			slog.Warn("box score lookup failed", "wager_id", wager.ID, "err", err)
		}
		return e.deferred(ctx, wager)
	}

	actual, err := sport.Resolve(wager.Metric, res.Stats)
	if err != nil {
		if errors.Is(err, sportService.ErrStatMissing) {
			slog.Debug("stat not in box score yet", "wager_id", wager.ID, "err", err)
			return e.deferred(ctx, wager)
		}
		return ResultSkipped, e.operatorError(ctx, wager, err)
	}

	if !res.Final {
		locked, err := outcomeService.Locked(wager.Condition, wager.Target, actual, sport.Monotonic(wager.Metric))
		if err != nil {
			return ResultSkipped, e.operatorError(ctx, wager, err)
		}
		if !locked {
			return e.deferred(ctx, wager)
		}
	}

	outcome, err := outcomeService.Evaluate(wager.Condition, wager.Target, actual)
	if err != nil {
		return ResultSkipped, e.operatorError(ctx, wager, err)
	}

	result, err := e.apply(ctx, wager, outcome, actual)
	if err != nil {
		if errors.Is(err, errLostRace) {
			return ResultAlreadySettled, nil
		}
		return ResultSkipped, fmt.Errorf("settle wager %d: %w", wager.ID, err)
	}

	slog.Info("wager resolved", "wager_id", wager.ID, "outcome", outcome.String(), "actual", actual, "final", res.Final)
	e.notify(ctx, wager.ID)
	return result, nil
}

// apply moves the money and writes the terminal state in one transaction.
func (e *Engine) apply(ctx context.Context, w models.Wager, outcome outcomeService.Outcome, actual float64) (Result, error) {
	now := e.now().UTC()
	counterID := *w.CounterpartyID

	var result Result
	err := storageService.Transact(ctx, e.db, func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"actual_value": actual,
			"completed_at": now,
		}
		if outcome == outcomeService.Tie {
			result = ResultRefunded
			updates["settlement_state"] = models.SettlementRefunded
			updates["refunded"] = true
			updates["refund_reason"] = models.RefundTie
			updates["tie"] = true
			updates["winner_id"] = nil
		} else {
			result = ResultSettled
			winner := w.CreatorID
			if outcome == outcomeService.CounterpartyWins {
				winner = counterID
			}
			updates["settlement_state"] = models.SettlementSettled
			updates["winner_id"] = winner
		}

		claimed := tx.Model(&models.Wager{}).
			Where("id = ? AND settlement_state = ? AND acceptance_state = ?", w.ID, models.SettlementPending, models.AcceptanceAccepted).
			Updates(updates)
		if claimed.Error != nil {
			return claimed.Error
		}
		if claimed.RowsAffected == 0 {
			return errLostRace
		}

		if outcome == outcomeService.Tie {
			if err := ledgerService.Credit(tx, w.CreatorID, w.Currency, w.Stake, ledgerService.Ref{
				WagerID: &w.ID, Reason: models.ReasonTieRefund,
			}); err != nil {
				return err
			}
			return ledgerService.Credit(tx, counterID, w.Currency, w.CounterpartyStake, ledgerService.Ref{
				WagerID: &w.ID, Reason: models.ReasonTieRefund,
			})
		}

		winner, loser, loserStake := w.CreatorID, counterID, w.CounterpartyStake
		if outcome == outcomeService.CounterpartyWins {
			winner, loser, loserStake = counterID, w.CreatorID, w.Stake
		}
		if err := ledgerService.Credit(tx, winner, w.Currency, w.Pot, ledgerService.Ref{
			WagerID:  &w.ID,
			Reason:   models.ReasonPayout,
			Metadata: map[string]any{"actual": actual, "target": w.Target, "condition": w.Condition},
		}); err != nil {
			return err
		}
		if err := tx.Model(&models.User{}).Where("id = ?", winner).Updates(map[string]interface{}{
			"total_bets_won":   gorm.Expr("total_bets_won + 1"),
			"total_points_won": gorm.Expr("total_points_won + ?", w.Pot),
		}).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", loser).Updates(map[string]interface{}{
			"total_bets_lost":   gorm.Expr("total_bets_lost + 1"),
			"total_points_lost": gorm.Expr("total_points_lost + ?", loserStake),
		}).Error
	})
	return result, err
}

// deferred records the attempt outside any money movement.
func (e *Engine) deferred(ctx context.Context, w models.Wager) (Result, error) {
	e.recordCheck(ctx, w)
	return ResultDeferred, nil
}

func (e *Engine) recordCheck(ctx context.Context, w models.Wager) {
	err := e.db.WithContext(ctx).Model(&models.Wager{}).
		Where("id = ? AND settlement_state = ?", w.ID, models.SettlementPending).
		Updates(map[string]interface{}{
			"last_checked_at": e.now().UTC(),
			"check_attempts":  gorm.Expr("check_attempts + 1"),
		}).Error
	if err != nil {
		slog.Warn("failed to record settlement check", "wager_id", w.ID, "err", err)
	}
}

// operatorError covers wagers that can never resolve on their own. The
// error_logs row is written once per wager; later passes only log.
func (e *Engine) operatorError(ctx context.Context, w models.Wager, err error) error {
	err = fmt.Errorf("wager %d (%s %s): %w", w.ID, w.Sport, w.Metric, err)
	e.recordCheck(ctx, w)

	var logged int64
	if dbErr := e.db.WithContext(ctx).Model(&models.ErrorLog{}).
		Where("source = ? AND wager_id = ?", settlementSource, w.ID).
		Count(&logged).Error; dbErr != nil {
		slog.Warn("failed to look up error log", "wager_id", w.ID, "err", dbErr)
	}
	if logged > 0 {
		slog.Error("wager still needs operator attention", "wager_id", w.ID, "attempts", w.CheckAttempts+1, "err", err)
		return err
	}
	common.LogError(e.db, settlementSource, &w.ID, err)
	return err
}

func (e *Engine) notify(ctx context.Context, wagerID uint) {
	var wager models.Wager
	if err := e.db.WithContext(ctx).Preload("Creator").Preload("Counterparty").First(&wager, wagerID).Error; err != nil {
		slog.Warn("failed to load wager for notification", "wager_id", wagerID, "err", err)
		return
	}
	if err := e.notifier.Notify(ctx, wager); err != nil {
		slog.Warn("failed to send settlement notification", "wager_id", wagerID, "err", err)
	}
}
