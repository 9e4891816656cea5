package service

import (
	"errors"
	"fmt"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/boardfund/internal/ledger"
	"github.com/mmynk/boardfund/internal/registry"
	"github.com/mmynk/boardfund/internal/treasury"
)

func TestCodeOf(t *testing.T) {
	tests := []struct {
		err  error
		want connect.Code
	}{
		{treasury.ErrUnauthorized, connect.CodePermissionDenied},
		{treasury.ErrTransactionNotFound, connect.CodeNotFound},
		{fmt.Errorf("%w: abc", registry.ErrFundNotFound), connect.CodeNotFound},
		{treasury.ErrAlreadyApproved, connect.CodeFailedPrecondition},
		{treasury.ErrNoPriorApproval, connect.CodeFailedPrecondition},
		{treasury.ErrAlreadyExecuted, connect.CodeFailedPrecondition},
		{treasury.ErrApprovalRequired, connect.CodeFailedPrecondition},
		{fmt.Errorf("%w: %w", treasury.ErrTransferFailed, ledger.ErrInvalidAmount), connect.CodeAborted},
		{fmt.Errorf("%w: threshold", treasury.ErrInvalidConfig), connect.CodeInvalidArgument},
		{ledger.ErrInvalidAmount, connect.CodeInvalidArgument},
		{treasury.ErrInvalidAddress, connect.CodeInvalidArgument},
		{fmt.Errorf("%w: %q", ledger.ErrUnknownAsset, "XYZ"), connect.CodeInvalidArgument},
		{fmt.Errorf("%w: %w", treasury.ErrJournal, errors.New("disk full")), connect.CodeInternal},
		{errors.New("disk full"), connect.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			if got := codeOf(tt.err); got != tt.want {
				t.Errorf("codeOf(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestConnectErrorKeepsExistingCode(t *testing.T) {
	in := connect.NewError(connect.CodeUnauthenticated, errors.New("who are you"))
	if got := connect.CodeOf(connectError(in)); got != connect.CodeUnauthenticated {
		t.Errorf("expected CodeUnauthenticated, got %v", got)
	}
}
