package service

import (
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/boardfund/internal/ledger"
	"github.com/mmynk/boardfund/internal/registry"
	"github.com/mmynk/boardfund/internal/treasury"
)

// connectError maps a core error to its Connect status code.
func connectError(err error) error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return err
	}
	return connect.NewError(codeOf(err), err)
}

func codeOf(err error) connect.Code {
	switch {
	case errors.Is(err, treasury.ErrUnauthorized):
		return connect.CodePermissionDenied
	case errors.Is(err, treasury.ErrTransactionNotFound),
		errors.Is(err, registry.ErrFundNotFound):
		return connect.CodeNotFound
	case errors.Is(err, treasury.ErrAlreadyApproved),
		errors.Is(err, treasury.ErrNoPriorApproval),
		errors.Is(err, treasury.ErrAlreadyExecuted),
		errors.Is(err, treasury.ErrApprovalRequired):
		return connect.CodeFailedPrecondition
	case errors.Is(err, treasury.ErrTransferFailed):
		return connect.CodeAborted
	case errors.Is(err, treasury.ErrInvalidConfig),
		errors.Is(err, treasury.ErrInvalidAmount),
		errors.Is(err, treasury.ErrInvalidAddress),
		errors.Is(err, ledger.ErrUnknownAsset):
		return connect.CodeInvalidArgument
	default:
		return connect.CodeInternal
	}
}
