package models

import (
	"time"

	"gorm.io/datatypes"
)

// PlayerGameStat is written by the stats ingestion jobs and only read here.
// Stats holds the raw box-score line keyed by stat name.
type PlayerGameStat struct {
	ID         uint    `gorm:"primaryKey"`
	Sport      string  `gorm:"size:32; index:idx_player_game,unique"`
	PlayerName string  `gorm:"size:128; index:idx_player_game,unique"`
	GameDate   string  `gorm:"size:10; index:idx_player_game,unique"`
	GameNumber int     `gorm:"index:idx_player_game,unique; default:1"`
	EventID    *string `gorm:"size:64"`
	Stats      datatypes.JSONMap
	IsFinal    bool
	UpdatedAt  time.Time
}
