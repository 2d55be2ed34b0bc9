package expirationService

import (
	"context"
	"testing"
	"time"

	"github.com/Gavin-Payne/Adrenyline-sub001/models"
	"github.com/Gavin-Payne/Adrenyline-sub001/services/common"
	"github.com/Gavin-Payne/Adrenyline-sub001/services/ledgerService"
	"github.com/Gavin-Payne/Adrenyline-sub001/services/storageService"
	"github.com/Gavin-Payne/Adrenyline-sub001/services/wagerService"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createWager(t *testing.T, svc *wagerService.Service, creatorID uint, deadline time.Time, currency models.Currency, stake int64) *models.Wager {
	t.Helper()
	w, err := svc.CreateWager(context.Background(), wagerService.CreateRequest{
		CreatorID:      creatorID,
		Sport:          "baseball",
		Subject:        "Aaron Judge",
		Metric:         "home_runs",
		Condition:      models.ConditionOver,
		Target:         0.5,
		EventTime:      deadline.Add(time.Hour),
		Stake:          stake,
		Currency:       currency,
		Multiplier:     decimal.NewFromInt(3),
		AcceptDeadline: &deadline,
	})
	require.NoError(t, err)
	return w
}

func TestReclaimExpired(t *testing.T) {
	db := storageService.NewTestDB(t)
	ctx := context.Background()
	wagers := wagerService.New(db)

	creator := models.User{ExternalID: "creator", SilverBalance: 500, GoldBalance: 50}
	taker := models.User{ExternalID: "taker", SilverBalance: 500}
	require.NoError(t, db.Create(&creator).Error)
	require.NoError(t, db.Create(&taker).Error)

	deadline := time.Now().Add(30 * time.Minute)
	silver := createWager(t, wagers, creator.ID, deadline, models.CurrencySilver, 100)
	gold := createWager(t, wagers, creator.ID, deadline, models.CurrencyGold, 20)
	accepted := createWager(t, wagers, creator.ID, deadline, models.CurrencySilver, 50)
	_, err := wagers.AcceptWager(ctx, accepted.ID, taker.ID)
	require.NoError(t, err)
	later := createWager(t, wagers, creator.ID, deadline.Add(24*time.Hour), models.CurrencySilver, 10)

	reclaimer := NewReclaimer(db, nil)
	reclaimer.now = func() time.Time { return deadline.Add(time.Minute) }

	report, err := reclaimer.ReclaimExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Scanned)
	assert.Equal(t, 2, report.Refunded)
	assert.NoError(t, report.Err())

	silverBal, err := ledgerService.Balance(db, creator.ID, models.CurrencySilver)
	require.NoError(t, err)
	assert.Equal(t, int64(440), silverBal, "silver stake refunded, accepted and future wagers untouched")
	goldBal, err := ledgerService.Balance(db, creator.ID, models.CurrencyGold)
	require.NoError(t, err)
	assert.Equal(t, int64(50), goldBal, "gold stake refunded in gold")

	for _, id := range []uint{silver.ID, gold.ID} {
		w, err := wagers.GetWager(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, models.AcceptanceExpired, w.AcceptanceState)
		assert.Equal(t, models.SettlementRefunded, w.SettlementState)
		assert.True(t, w.Refunded)
		require.NotNil(t, w.RefundReason)
		assert.Equal(t, models.RefundExpired, *w.RefundReason)

		net, err := ledgerService.NetForWager(db, id)
		require.NoError(t, err)
		assert.Zero(t, net)
	}

	w, err := wagers.GetWager(ctx, later.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AcceptanceOpen, w.AcceptanceState)

	_, err = wagers.AcceptWager(ctx, silver.ID, taker.ID)
	assert.ErrorIs(t, err, common.ErrExpired)

	// second pass finds nothing
	report, err = reclaimer.ReclaimExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, report.Scanned)
	silverBal, err = ledgerService.Balance(db, creator.ID, models.CurrencySilver)
	require.NoError(t, err)
	assert.Equal(t, int64(440), silverBal)
}

func TestReclaimSkipsAlreadyHandled(t *testing.T) {
	db := storageService.NewTestDB(t)
	ctx := context.Background()
	wagers := wagerService.New(db)

	creator := models.User{ExternalID: "creator", SilverBalance: 100}
	require.NoError(t, db.Create(&creator).Error)
	deadline := time.Now().Add(time.Minute)
	w := createWager(t, wagers, creator.ID, deadline, models.CurrencySilver, 100)

	reclaimer := NewReclaimer(db, nil)
	now := deadline.Add(time.Second)

	refunded, err := reclaimer.reclaim(ctx, *w, now)
	require.NoError(t, err)
	assert.True(t, refunded)

	// a stale copy of the wager must not refund twice
	refunded, err = reclaimer.reclaim(ctx, *w, now)
	require.NoError(t, err)
	assert.False(t, refunded)

	bal, err := ledgerService.Balance(db, creator.ID, models.CurrencySilver)
	require.NoError(t, err)
	assert.Equal(t, int64(100), bal)
}
