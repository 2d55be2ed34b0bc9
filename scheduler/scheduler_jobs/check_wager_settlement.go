package scheduler_jobs

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/Gavin-Payne/Adrenyline-sub001/services/settlementService"
)

type Settler interface {
	SettleDue(ctx context.Context) (settlementService.Report, error)
}

// CheckWagerSettlement settles every accepted wager whose result is in.
// Failures on individual wagers are logged by the engine and do not fail
// the run.
func CheckWagerSettlement(ctx context.Context, settler Settler) (err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("recovered in CheckWagerSettlement", "panic", r, "stack", string(debug.Stack()))
			err = fmt.Errorf("panic recovered in CheckWagerSettlement: %v", r)
		}
	}()

	report, err := settler.SettleDue(ctx)
	if err != nil {
		return err
	}
	if len(report.Failures) > 0 {
		slog.Warn("settlement run finished with failures", "failed", len(report.Failures), "scanned", report.Scanned)
	}
	return nil
}
