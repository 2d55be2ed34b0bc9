package scheduler_jobs

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/Gavin-Payne/Adrenyline-sub001/services/expirationService"
)

type Reclaimer interface {
	ReclaimExpired(ctx context.Context) (expirationService.Report, error)
}

func CheckWagerExpiration(ctx context.Context, reclaimer Reclaimer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("recovered in CheckWagerExpiration", "panic", r, "stack", string(debug.Stack()))
			err = fmt.Errorf("panic recovered in CheckWagerExpiration: %v", r)
		}
	}()

	report, err := reclaimer.ReclaimExpired(ctx)
	if err != nil {
		return err
	}
	if len(report.Failures) > 0 {
		slog.Warn("expiration run finished with failures", "failed", len(report.Failures), "scanned", report.Scanned)
	}
	return nil
}
