package wagerService

import (
	"context"
	"errors"

	"github.com/Gavin-Payne/Adrenyline-sub001/models"
	"github.com/Gavin-Payne/Adrenyline-sub001/services/common"
	"gorm.io/gorm"
)

func (s *Service) GetWager(ctx context.Context, wagerID uint) (*models.Wager, error) {
	var wager models.Wager
	err := s.db.WithContext(ctx).Preload("Creator").Preload("Counterparty").First(&wager, wagerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrWagerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &wager, nil
}

// ListSettled returns wagers decided with a winner or a tie. A nil userID
// lists every user's wagers.
func (s *Service) ListSettled(ctx context.Context, userID *uint) ([]models.Wager, error) {
	return s.list(ctx, userID, func(q *gorm.DB) *gorm.DB {
		return q.Where("acceptance_state = ? AND settlement_state IN ?", models.AcceptanceAccepted,
			[]models.SettlementState{models.SettlementSettled, models.SettlementRefunded})
	})
}

// ListPending returns accepted wagers still waiting on a result.
func (s *Service) ListPending(ctx context.Context, userID *uint) ([]models.Wager, error) {
	return s.list(ctx, userID, func(q *gorm.DB) *gorm.DB {
		return q.Where("acceptance_state = ? AND settlement_state = ?", models.AcceptanceAccepted, models.SettlementPending)
	})
}

// ListExpired returns wagers nobody accepted before the deadline.
func (s *Service) ListExpired(ctx context.Context, userID *uint) ([]models.Wager, error) {
	return s.list(ctx, userID, func(q *gorm.DB) *gorm.DB {
		return q.Where("acceptance_state = ?", models.AcceptanceExpired)
	})
}

func (s *Service) ListOpen(ctx context.Context, userID *uint) ([]models.Wager, error) {
	return s.list(ctx, userID, func(q *gorm.DB) *gorm.DB {
		return q.Where("acceptance_state = ? AND settlement_state = ?", models.AcceptanceOpen, models.SettlementPending)
	})
}

func (s *Service) list(ctx context.Context, userID *uint, scope func(*gorm.DB) *gorm.DB) ([]models.Wager, error) {
	q := s.db.WithContext(ctx).Model(&models.Wager{}).Scopes(scope)
	if userID != nil {
		q = q.Where("creator_id = ? OR counterparty_id = ?", *userID, *userID)
	}
	var wagers []models.Wager
	if err := q.Order("id desc").Find(&wagers).Error; err != nil {
		return nil, err
	}
	return wagers, nil
}
