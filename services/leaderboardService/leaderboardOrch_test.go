package leaderboardService

import (
	"context"
	"strings"
	"testing"

	"github.com/Gavin-Payne/Adrenyline-sub001/models"
	"github.com/Gavin-Payne/Adrenyline-sub001/services/storageService"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTop(t *testing.T) {
	db := storageService.NewTestDB(t)
	name := "sharp"

	users := []models.User{
		{ExternalID: "a", TotalBetsWon: 1, TotalBetsLost: 3, TotalPointsWon: 200, TotalPointsLost: 300},
		{ExternalID: "b", Username: &name, TotalBetsWon: 4, TotalBetsLost: 1, TotalPointsWon: 800, TotalPointsLost: 100},
		{ExternalID: "c"},
		{ExternalID: "d", TotalBetsWon: 2, TotalPointsWon: 400},
	}
	require.NoError(t, db.Create(&users).Error)

	entries, err := Top(context.Background(), db, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3, "users without settled wagers are left out")

	assert.Equal(t, "sharp", entries[0].Username)
	assert.Equal(t, int64(700), entries[0].NetPoints)
	assert.Equal(t, users[3].ID, entries[1].UserID)
	assert.Equal(t, int64(-100), entries[2].NetPoints)
	assert.Equal(t, 3, entries[2].Rank)

	embed := BuildLeaderboardEmbed(entries)
	assert.True(t, strings.HasPrefix(embed.Description, "**1. sharp** - +700 net (4-1)"))

	limited, err := Top(context.Background(), db, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestBuildLeaderboardEmbedEmpty(t *testing.T) {
	embed := BuildLeaderboardEmbed(nil)
	assert.Equal(t, "No settled wagers yet.", embed.Description)
}
