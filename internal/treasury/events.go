package treasury

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/mmynk/boardfund/internal/models"
)

// EventKind names a committed treasury state change.
type EventKind int

const (
	Deposited EventKind = iota + 1
	TransactionSubmitted
	ApprovalGranted
	ApprovalRetracted
	TransactionExecuted
)

func (k EventKind) String() string {
	switch k {
	case Deposited:
		return "deposited"
	case TransactionSubmitted:
		return "transaction_submitted"
	case ApprovalGranted:
		return "approval_granted"
	case ApprovalRetracted:
		return "approval_retracted"
	case TransactionExecuted:
		return "transaction_executed"
	default:
		return "unknown"
	}
}

// Event describes one committed change.
type Event struct {
	Kind   EventKind
	FundID string
	Actor  models.Address
	Amount decimal.Decimal

	// Transaction is the record after the change. It is the zero value
	// for Deposited.
	Transaction models.Transaction
}

// Observer receives events in commit order. Observe runs while the
// account is locked and must not call back into it.
type Observer interface {
	Observe(ctx context.Context, ev Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, ev Event)

func (f ObserverFunc) Observe(ctx context.Context, ev Event) {
	f(ctx, ev)
}
