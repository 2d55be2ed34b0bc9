package common

import "errors"

// Validation and funds errors surface synchronously to the request layer.
var (
	ErrInvalidSpec       = errors.New("invalid wager spec")
	ErrInvalidAmount     = errors.New("amount must be non-negative")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrWagerNotFound     = errors.New("wager not found")
	ErrAlreadyAccepted   = errors.New("wager already accepted")
	ErrExpired           = errors.New("wager expired")
	ErrSelfAccept        = errors.New("cannot accept your own wager")
	ErrUserNotFound      = errors.New("user not found")
)

// Resolution errors leave the wager pending for operator attention.
var (
	ErrUnknownMetric    = errors.New("unknown metric")
	ErrUnknownCondition = errors.New("unknown condition")
	ErrUnknownSport     = errors.New("unknown sport")
)
