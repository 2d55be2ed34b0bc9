package leaderboardService

import (
	"context"
	"fmt"

	"github.com/Gavin-Payne/Adrenyline-sub001/models"
	"github.com/bwmarrin/discordgo"
	"gorm.io/gorm"
)

type Entry struct {
	Rank      int
	UserID    uint
	Username  string
	Won       int
	Lost      int
	NetPoints int64
}

// Top ranks users by net points won across settled wagers.
func Top(ctx context.Context, db *gorm.DB, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 10
	}

	var users []models.User
	err := db.WithContext(ctx).
		Where("total_bets_won + total_bets_lost > 0").
		Order("total_points_won - total_points_lost desc").
		Order("total_bets_won desc").
		Order("id").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(users))
	for idx, user := range users {
		username := fmt.Sprintf("user #%d", user.ID)
		if user.Username != nil && *user.Username != "" {
			username = *user.Username
		}
		entries = append(entries, Entry{
			Rank:      idx + 1,
			UserID:    user.ID,
			Username:  username,
			Won:       user.TotalBetsWon,
			Lost:      user.TotalBetsLost,
			NetPoints: user.TotalPointsWon - user.TotalPointsLost,
		})
	}
	return entries, nil
}

func BuildLeaderboardEmbed(entries []Entry) *discordgo.MessageEmbed {
	description := "No settled wagers yet."
	if len(entries) > 0 {
		description = ""
		for _, e := range entries {
			description += fmt.Sprintf("**%d. %s** - %+d net (%d-%d)\n", e.Rank, e.Username, e.NetPoints, e.Won, e.Lost)
		}
	}

	return &discordgo.MessageEmbed{
		Title:       "🏆 Leaderboard",
		Description: description,
		Color:       0x00ff00,
	}
}
