package scheduler_jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/Gavin-Payne/Adrenyline-sub001/services/expirationService"
	"github.com/Gavin-Payne/Adrenyline-sub001/services/settlementService"
)

type fakeSettler struct {
	report settlementService.Report
	err    error
	panic  bool
}

func (f fakeSettler) SettleDue(context.Context) (settlementService.Report, error) {
	if f.panic {
		panic("boom")
	}
	return f.report, f.err
}

type fakeReclaimer struct {
	err   error
	panic bool
}

func (f fakeReclaimer) ReclaimExpired(context.Context) (expirationService.Report, error) {
	if f.panic {
		panic("boom")
	}
	return expirationService.Report{Failures: []error{errors.New("one bad wager")}}, f.err
}

func TestCheckWagerSettlement(t *testing.T) {
	ctx := context.Background()

	report := settlementService.Report{Scanned: 2, Failures: []error{errors.New("bad wager")}}
	if err := CheckWagerSettlement(ctx, fakeSettler{report: report}); err != nil {
		t.Errorf("Per-wager failures should not fail the run: %v", err)
	}

	scanErr := errors.New("db down")
	if err := CheckWagerSettlement(ctx, fakeSettler{err: scanErr}); !errors.Is(err, scanErr) {
		t.Errorf("Expected scan error, got %v", err)
	}

	if err := CheckWagerSettlement(ctx, fakeSettler{panic: true}); err == nil {
		t.Error("Expected recovered panic to surface as an error")
	}
}

func TestCheckWagerExpiration(t *testing.T) {
	ctx := context.Background()

	if err := CheckWagerExpiration(ctx, fakeReclaimer{}); err != nil {
		t.Errorf("Per-wager failures should not fail the run: %v", err)
	}
	if err := CheckWagerExpiration(ctx, fakeReclaimer{panic: true}); err == nil {
		t.Error("Expected recovered panic to surface as an error")
	}
}
