package outcomeService

import (
	"fmt"

	"github.com/Gavin-Payne/Adrenyline-sub001/models"
	"github.com/Gavin-Payne/Adrenyline-sub001/services/common"
)

type Outcome int

const (
	CreatorWins Outcome = iota + 1
	CounterpartyWins
	Tie
)

func (o Outcome) String() string {
	switch o {
	case CreatorWins:
		return "creator_wins"
	case CounterpartyWins:
		return "counterparty_wins"
	case Tie:
		return "tie"
	}
	return "unknown"
}

// Evaluate decides a wager from its final observed value. Over and under
// tie when actual equals target; exactly and not_exactly never tie.
func Evaluate(condition models.Condition, target, actual float64) (Outcome, error) {
	switch condition {
	case models.ConditionOver:
		if actual == target {
			return Tie, nil
		}
		return sideFor(actual > target), nil
	case models.ConditionUnder:
		if actual == target {
			return Tie, nil
		}
		return sideFor(actual < target), nil
	case models.ConditionExactly:
		return sideFor(actual == target), nil
	case models.ConditionNotExactly:
		return sideFor(actual != target), nil
	}
	return 0, fmt.Errorf("%w: %q", common.ErrUnknownCondition, condition)
}

// Locked reports whether a value observed before the event is final already
// decides the wager. Only stats that never decrease qualify, and only once
// actual has passed target: equality can still move, so ties wait for the
// final result.
func Locked(condition models.Condition, target, actual float64, monotonic bool) (bool, error) {
	switch condition {
	case models.ConditionOver, models.ConditionUnder, models.ConditionExactly, models.ConditionNotExactly:
	default:
		return false, fmt.Errorf("%w: %q", common.ErrUnknownCondition, condition)
	}
	return monotonic && actual > target, nil
}

func sideFor(creatorWins bool) Outcome {
	if creatorWins {
		return CreatorWins
	}
	return CounterpartyWins
}
