package lockService

import (
	"context"
	"fmt"
	"time"

	"github.com/Gavin-Payne/Adrenyline-sub001/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DBLocker keeps leases in the task_leases table so every instance sharing
// the database sees the same holder.
type DBLocker struct {
	db  *gorm.DB
	now func() time.Time
}

func NewDBLocker(db *gorm.DB) *DBLocker {
	return &DBLocker{db: db, now: time.Now}
}

func (l *DBLocker) Acquire(ctx context.Context, name string, ttl time.Duration) (func(), error) {
	token := uuid.NewString()
	now := l.now().UTC()
	db := l.db.WithContext(ctx)

	// take over an expired lease
	result := db.Model(&models.TaskLease{}).
		Where("name = ? AND expires_at < ?", name, now).
		Updates(map[string]interface{}{"holder": token, "expires_at": now.Add(ttl)})
	if result.Error != nil {
		return nil, fmt.Errorf("acquire lease %s: %w", name, result.Error)
	}

	if result.RowsAffected == 0 {
		lease := models.TaskLease{Name: name, Holder: token, ExpiresAt: now.Add(ttl)}
		if err := db.Create(&lease).Error; err != nil {
			var count int64
			if cerr := db.Model(&models.TaskLease{}).Where("name = ?", name).Count(&count).Error; cerr == nil && count > 0 {
				return nil, ErrLockHeld
			}
			return nil, fmt.Errorf("acquire lease %s: %w", name, err)
		}
	}

	return onceFunc(func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		l.db.WithContext(releaseCtx).
			Where("name = ? AND holder = ?", name, token).
			Delete(&models.TaskLease{})
	}), nil
}
