package models

import "time"

type TaskLease struct {
	Name      string `gorm:"primaryKey; size:128"`
	Holder    string `gorm:"size:64; not null"`
	ExpiresAt time.Time
	UpdatedAt time.Time
}
