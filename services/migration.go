package services

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/Gavin-Payne/Adrenyline-sub001/models"
	"gorm.io/gorm"
)

const rebuildStatsMigration = "rebuild_wager_stats"

// RunHistoricalStatsMigration recomputes every user's win/loss counters from
// settled wagers. It runs once per database; the Migration row marks it done.
func RunHistoricalStatsMigration(db *gorm.DB) error {
	var existingMigration models.Migration
	result := db.Where("name = ?", rebuildStatsMigration).Limit(1).Find(&existingMigration)
	if result.Error != nil {
		return fmt.Errorf("error checking migration state: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		slog.Debug("stats rebuild migration already executed, skipping")
		return nil
	}

	slog.Info("starting stats rebuild migration")

	type userStats struct {
		betsWon    int
		betsLost   int
		pointsWon  int64
		pointsLost int64
	}

	var affected int64
	err := db.Transaction(func(tx *gorm.DB) error {
		var settled []models.Wager
		if err := tx.Where("settlement_state = ? AND winner_id IS NOT NULL", models.SettlementSettled).Find(&settled).Error; err != nil {
			return fmt.Errorf("error fetching settled wagers: %w", err)
		}

		statsMap := make(map[uint]*userStats)
		get := func(id uint) *userStats {
			if statsMap[id] == nil {
				statsMap[id] = &userStats{}
			}
			return statsMap[id]
		}

		for _, wager := range settled {
			loser := wager.LoserID()
			if loser == nil {
				slog.Warn("skipping settled wager without both parties", "wager_id", wager.ID)
				continue
			}
			winner := get(*wager.WinnerID)
			winner.betsWon++
			winner.pointsWon += wager.Pot

			lost := get(*loser)
			lost.betsLost++
			if *loser == wager.CreatorID {
				lost.pointsLost += wager.Stake
			} else {
				lost.pointsLost += wager.CounterpartyStake
			}
		}

		if err := tx.Model(&models.User{}).Where("1 = 1").Updates(map[string]interface{}{
			"total_bets_won":    0,
			"total_bets_lost":   0,
			"total_points_won":  0,
			"total_points_lost": 0,
		}).Error; err != nil {
			return fmt.Errorf("error resetting stats: %w", err)
		}

		for userID, stats := range statsMap {
			if err := tx.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
				"total_bets_won":    stats.betsWon,
				"total_bets_lost":   stats.betsLost,
				"total_points_won":  stats.pointsWon,
				"total_points_lost": stats.pointsLost,
			}).Error; err != nil {
				return fmt.Errorf("error updating stats for user %d: %w", userID, err)
			}
		}
		affected = int64(len(statsMap))

		migration := models.Migration{
			Name:       rebuildStatsMigration,
			Affected:   affected,
			ExecutedAt: time.Now(),
		}
		if err := tx.Create(&migration).Error; err != nil {
			return fmt.Errorf("error marking migration as complete: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.Info("stats rebuild migration completed", "users", affected)
	return nil
}
