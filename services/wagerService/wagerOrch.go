package wagerService

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/Gavin-Payne/Adrenyline-sub001/models"
	"github.com/Gavin-Payne/Adrenyline-sub001/services/common"
	"github.com/Gavin-Payne/Adrenyline-sub001/services/ledgerService"
	"github.com/Gavin-Payne/Adrenyline-sub001/services/sportService"
	"github.com/Gavin-Payne/Adrenyline-sub001/services/storageService"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreateRequest struct {
	CreatorID  uint
	Sport      string
	Subject    string
	Metric     string
	Condition  models.Condition
	Target     float64
	EventTime  time.Time
	Segment    *int
	Stake      int64
	Currency   models.Currency
	Multiplier decimal.Decimal
	// AcceptDeadline defaults to EventTime.
	AcceptDeadline *time.Time
}

type Service struct {
	db  *gorm.DB
	now func() time.Time
}

func New(db *gorm.DB) *Service {
	return &Service{db: db, now: time.Now}
}

// CreateWager validates the proposition and debits the creator's stake in
// the same transaction that inserts the wager.
func (s *Service) CreateWager(ctx context.Context, req CreateRequest) (*models.Wager, error) {
	now := s.now()
	wager, err := s.buildWager(req, now)
	if err != nil {
		return nil, err
	}

	err = storageService.Transact(ctx, s.db, func(tx *gorm.DB) error {
		w := *wager
		if err := tx.Create(&w).Error; err != nil {
			return fmt.Errorf("insert wager: %w", err)
		}
		if err := ledgerService.Debit(tx, w.CreatorID, w.Currency, w.Stake, ledgerService.Ref{
			WagerID: &w.ID,
			Reason:  models.ReasonStake,
		}); err != nil {
			return err
		}
		*wager = w
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("wager created", "wager_id", wager.ID, "creator_id", wager.CreatorID, "stake", wager.Stake, "currency", wager.Currency.String())
	return wager, nil
}

func (s *Service) buildWager(req CreateRequest, now time.Time) (*models.Wager, error) {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", common.ErrInvalidSpec, fmt.Sprintf(format, args...))
	}

	sport, err := sportService.Get(req.Sport)
	if err != nil {
		return nil, invalid("%v", err)
	}
	metric := strings.ToLower(strings.TrimSpace(req.Metric))
	if !common.Contains(sport.Metrics(), metric) {
		return nil, invalid("unknown metric %q for %s", req.Metric, sport.Name())
	}
	switch req.Condition {
	case models.ConditionOver, models.ConditionUnder, models.ConditionExactly, models.ConditionNotExactly:
	default:
		return nil, invalid("unknown condition %q", req.Condition)
	}
	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		return nil, invalid("subject is required")
	}
	if math.IsNaN(req.Target) || math.IsInf(req.Target, 0) || req.Target < 0 {
		return nil, invalid("target must be a non-negative number")
	}
	if !req.Currency.Valid() {
		return nil, invalid("unknown currency")
	}
	if req.CreatorID == 0 {
		return nil, invalid("creator is required")
	}
	if !req.EventTime.After(now) {
		return nil, invalid("event has already started")
	}

	deadline := req.EventTime
	if req.AcceptDeadline != nil {
		deadline = *req.AcceptDeadline
	}
	if !deadline.After(now) {
		return nil, invalid("acceptance deadline has passed")
	}
	if deadline.After(req.EventTime) {
		return nil, invalid("acceptance deadline is after the event starts")
	}

	counter, err := common.CounterpartyStake(req.Stake, req.Multiplier)
	if err != nil {
		return nil, err
	}

	return &models.Wager{
		CreatorID:         req.CreatorID,
		Sport:             sport.Name(),
		Subject:           subject,
		Metric:            metric,
		Condition:         req.Condition,
		Target:            req.Target,
		EventTime:         req.EventTime.UTC(),
		Segment:           req.Segment,
		Stake:             req.Stake,
		CounterpartyStake: counter,
		Pot:               common.CalculatePayout(req.Stake, req.Multiplier),
		Currency:          req.Currency,
		Multiplier:        req.Multiplier,
		AcceptDeadline:    deadline.UTC(),
		AcceptanceState:   models.AcceptanceOpen,
		SettlementState:   models.SettlementPending,
	}, nil
}

// AcceptWager locks the wager to the counterparty and debits their side of
// the pot. The state change only applies while the wager is still open, so
// two racing accepts produce one winner and one ErrAlreadyAccepted.
func (s *Service) AcceptWager(ctx context.Context, wagerID, counterpartyID uint) (*models.Wager, error) {
	var accepted models.Wager
	err := storageService.Transact(ctx, s.db, func(tx *gorm.DB) error {
		var wager models.Wager
		if err := tx.First(&wager, wagerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return common.ErrWagerNotFound
			}
			return err
		}
		if wager.CreatorID == counterpartyID {
			return common.ErrSelfAccept
		}

		now := s.now().UTC()
		if err := acceptable(wager, now); err != nil {
			return err
		}

		result := tx.Model(&models.Wager{}).
			Where("id = ? AND acceptance_state = ? AND accept_deadline > ?", wager.ID, models.AcceptanceOpen, now).
			Updates(map[string]interface{}{
				"acceptance_state": models.AcceptanceAccepted,
				"counterparty_id":  counterpartyID,
				"accepted_at":      now,
			})
		if result.Error != nil {
			return fmt.Errorf("accept wager %d: %w", wager.ID, result.Error)
		}
		if result.RowsAffected == 0 {
			if err := tx.First(&wager, wager.ID).Error; err != nil {
				return err
			}
			if err := acceptable(wager, now); err != nil {
				return err
			}
			return common.ErrAlreadyAccepted
		}

		if err := ledgerService.Debit(tx, counterpartyID, wager.Currency, wager.CounterpartyStake, ledgerService.Ref{
			WagerID: &wager.ID,
			Reason:  models.ReasonCounterStake,
		}); err != nil {
			return err
		}

		return tx.First(&accepted, wager.ID).Error
	})
	if err != nil {
		return nil, err
	}

	slog.Info("wager accepted", "wager_id", accepted.ID, "counterparty_id", counterpartyID)
	return &accepted, nil
}

func acceptable(w models.Wager, now time.Time) error {
	switch {
	case w.AcceptanceState == models.AcceptanceExpired || w.Refunded:
		return common.ErrExpired
	case w.AcceptanceState != models.AcceptanceOpen:
		return common.ErrAlreadyAccepted
	case !now.Before(w.AcceptDeadline):
		return common.ErrExpired
	}
	return nil
}
