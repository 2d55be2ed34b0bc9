package boxscoreService

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Gavin-Payne/Adrenyline-sub001/models"
	"github.com/Gavin-Payne/Adrenyline-sub001/services/sportService"
	"github.com/Gavin-Payne/Adrenyline-sub001/services/storageService"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestEventDate(t *testing.T) {
	// 00:30 UTC is still the previous evening in New York
	tip := time.Date(2025, 1, 15, 0, 30, 0, 0, time.UTC)
	if got := EventDate(tip); got != "2025-01-14" {
		t.Errorf("EventDate = %s, want 2025-01-14", got)
	}
}

func TestParseStat(t *testing.T) {
	out := map[string]float64{}
	parseStat("fieldGoalsMade-fieldGoalsAttempted", "7-15", out)
	parseStat("points", "22", out)
	parseStat("plusMinus", "-4", out)
	parseStat("minutes", "--", out)

	assert.Equal(t, 7.0, out["fieldGoalsMade"])
	assert.Equal(t, 15.0, out["fieldGoalsAttempted"])
	assert.Equal(t, 22.0, out["points"])
	assert.Equal(t, -4.0, out["plusMinus"])
	_, ok := out["minutes"]
	assert.False(t, ok)
}

func TestStatStoreLookup(t *testing.T) {
	db := storageService.NewTestDB(t)
	eventID := "401585"

	rows := []models.PlayerGameStat{
		{
			Sport:      "basketball",
			PlayerName: "LeBron James",
			GameDate:   "2025-01-14",
			GameNumber: 1,
			EventID:    &eventID,
			Stats:      datatypes.JSONMap{"points": 25, "rebounds": "8"},
			IsFinal:    true,
		},
		{
			Sport:      "baseball",
			PlayerName: "Shohei Ohtani",
			GameDate:   "2025-07-04",
			GameNumber: 2,
			Stats:      datatypes.JSONMap{"batting.hits": 3},
			IsFinal:    false,
		},
	}
	require.NoError(t, db.Create(&rows).Error)

	store := NewStatStore(db)

	res, err := store.Lookup(context.Background(), Query{
		Sport:      sportService.Basketball{},
		Subject:    "lebron  james",
		EventTime:  time.Date(2025, 1, 15, 0, 30, 0, 0, time.UTC),
		GameNumber: 1,
	})
	require.NoError(t, err)
	assert.True(t, res.Final)
	assert.Equal(t, 25.0, res.Stats["points"])
	assert.Equal(t, 8.0, res.Stats["rebounds"])
	assert.Equal(t, eventID, res.EventID)

	res, err = store.Lookup(context.Background(), Query{
		Sport:      sportService.Baseball{},
		Subject:    "Shohei Ohtani",
		EventTime:  time.Date(2025, 7, 4, 22, 0, 0, 0, time.UTC),
		GameNumber: 2,
	})
	require.NoError(t, err)
	assert.False(t, res.Final)
	assert.Equal(t, 3.0, res.Stats["batting.hits"])

	_, err = store.Lookup(context.Background(), Query{
		Sport:      sportService.Baseball{},
		Subject:    "Shohei Ohtani",
		EventTime:  time.Date(2025, 7, 4, 22, 0, 0, 0, time.UTC),
		GameNumber: 1,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

type slowLookup struct{}

func (slowLookup) Lookup(ctx context.Context, _ Query) (Result, error) {
	<-ctx.Done()
	return Result{}, ctx.Err()
}

type failingLookup struct{ err error }

func (f failingLookup) Lookup(context.Context, Query) (Result, error) {
	return Result{}, f.err
}

func TestWithTimeout(t *testing.T) {
	lookup := WithTimeout(slowLookup{}, 20*time.Millisecond)

	start := time.Now()
	_, err := lookup.Lookup(context.Background(), Query{Sport: sportService.Basketball{}})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound on timeout, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Lookup blocked for %s", elapsed)
	}

	boom := errors.New("connection refused")
	_, err = WithTimeout(failingLookup{err: boom}, time.Second).Lookup(context.Background(), Query{})
	if !errors.Is(err, boom) {
		t.Errorf("Expected underlying error to pass through, got %v", err)
	}
}
