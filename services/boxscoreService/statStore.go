package boxscoreService

import (
	"context"
	"fmt"

	"github.com/Gavin-Payne/Adrenyline-sub001/models"
	"github.com/Gavin-Payne/Adrenyline-sub001/services/sportService"
	"gorm.io/gorm"
)

// StatStore reads the player_game_stats table filled by the ingestion jobs.
type StatStore struct {
	db *gorm.DB
}

func NewStatStore(db *gorm.DB) *StatStore {
	return &StatStore{db: db}
}

func (s *StatStore) Lookup(ctx context.Context, q Query) (Result, error) {
	var rows []models.PlayerGameStat
	err := s.db.WithContext(ctx).
		Where("sport = ? AND game_date = ? AND game_number = ?", q.Sport.Name(), EventDate(q.EventTime), q.GameNumber).
		Find(&rows).Error
	if err != nil {
		return Result{}, fmt.Errorf("query player stats: %w", err)
	}

	key := q.Sport.LookupKey(q.Subject)
	for _, row := range rows {
		if sportService.NormalizeName(row.PlayerName) != key {
			continue
		}
		stats := make(map[string]float64, len(row.Stats))
		for k, v := range row.Stats {
			if f, ok := toFloat(v); ok {
				stats[k] = f
			}
		}
		res := Result{Stats: stats, Final: row.IsFinal}
		if row.EventID != nil {
			res.EventID = *row.EventID
		}
		return res, nil
	}
	return Result{}, ErrNotFound
}
