package models

import (
	"time"
)

// Migration records a named one-off data migration so it only runs once.
type Migration struct {
	ID         uint      `gorm:"primaryKey"`
	Name       string    `gorm:"uniqueIndex; size:255"`
	Affected   int64
	ExecutedAt time.Time
}
