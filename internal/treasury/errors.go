package treasury

import (
	"errors"
	"fmt"

	"github.com/mmynk/boardfund/internal/ledger"
)

var (
	// ErrInvalidConfig is returned when a treasury cannot be built from the
	// given fund description.
	ErrInvalidConfig = errors.New("invalid treasury configuration")

	// ErrUnauthorized is returned when the caller lacks the role an action requires.
	ErrUnauthorized = errors.New("unauthorized")

	ErrTransactionNotFound = errors.New("transaction not found")
	ErrAlreadyApproved     = errors.New("transaction already approved by caller")
	ErrNoPriorApproval     = errors.New("caller has not approved transaction")
	ErrAlreadyExecuted     = errors.New("transaction already executed")

	// ErrApprovalRequired is returned when a transaction runs below its threshold.
	ErrApprovalRequired = errors.New("not enough approvals")

	// ErrTransferFailed wraps a ledger rejection.
	ErrTransferFailed = errors.New("transfer failed")

	// ErrJournal is returned when a change could not be made durable. The
	// account is left as it was.
	ErrJournal = errors.New("failed to record transaction")

	ErrInvalidAddress = errors.New("address required")
	ErrInvalidAmount  = ledger.ErrInvalidAmount
)

func configError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

func journalError(cause error) error {
	return fmt.Errorf("%w: %w", ErrJournal, cause)
}

// transferError keeps the ledger cause reachable through errors.Is.
func transferError(cause error) error {
	return fmt.Errorf("%w: %w", ErrTransferFailed, cause)
}
