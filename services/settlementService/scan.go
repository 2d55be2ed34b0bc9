package settlementService

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Gavin-Payne/Adrenyline-sub001/models"
	"github.com/Gavin-Payne/Adrenyline-sub001/services/boxscoreService"
	"golang.org/x/sync/errgroup"
)

// Report summarizes one scan. Failures holds one error per wager that could
// not be processed; the rest of the scan still ran.
type Report struct {
	Scanned        int
	Settled        int
	Refunded       int
	Deferred       int
	Skipped        int
	AlreadySettled int
	Failures       []error
}

func (r *Report) add(res Result, err error) {
	if err != nil {
		r.Failures = append(r.Failures, err)
		return
	}
	switch res {
	case ResultSettled:
		r.Settled++
	case ResultRefunded:
		r.Refunded++
	case ResultDeferred:
		r.Deferred++
	case ResultAlreadySettled:
		r.AlreadySettled++
	default:
		r.Skipped++
	}
}

// Err joins the per-wager failures, or nil when there were none.
func (r Report) Err() error {
	return errors.Join(r.Failures...)
}

// SettleDue tries every accepted, pending wager whose event has started.
// The returned error is only for a failed scan query; per-wager failures
// are in the report.
func (e *Engine) SettleDue(ctx context.Context) (Report, error) {
	var ids []uint
	err := e.db.WithContext(ctx).Model(&models.Wager{}).
		Where("acceptance_state = ? AND settlement_state = ? AND event_time <= ?",
			models.AcceptanceAccepted, models.SettlementPending, e.now().UTC()).
		Order("event_time").
		Pluck("id", &ids).Error
	if err != nil {
		return Report{}, fmt.Errorf("scan pending wagers: %w", err)
	}

	report := Report{Scanned: len(ids)}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(boxscoreService.WithScanCache(ctx))
	g.SetLimit(e.concurrency)
	for _, id := range ids {
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			res, err := e.TrySettle(gctx, id)
			if err != nil {
				slog.Error("settlement failed", "wager_id", id, "err", err)
			}
			mu.Lock()
			report.add(res, err)
			mu.Unlock()
			// per-wager errors never cancel the scan
			return nil
		})
	}
	_ = g.Wait()

	if len(ids) > 0 {
		slog.Info("settlement scan complete",
			"scanned", report.Scanned,
			"settled", report.Settled,
			"refunded", report.Refunded,
			"deferred", report.Deferred,
			"failed", len(report.Failures))
	}
	return report, ctx.Err()
}
