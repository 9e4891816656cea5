package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/boardfund/internal/ledger"
	"github.com/mmynk/boardfund/internal/middleware"
	"github.com/mmynk/boardfund/internal/models"
	"github.com/mmynk/boardfund/pkg/fundapi"
)

var _ fundapi.LedgerServiceHandler = (*LedgerService)(nil)

// LedgerService implements the Connect LedgerService: the allowance and
// balance calls a depositor needs before DepositFunds.
type LedgerService struct {
	ledgers ledger.Directory
}

// NewLedgerService creates a LedgerService over the given assets.
func NewLedgerService(ledgers ledger.Directory) *LedgerService {
	return &LedgerService{ledgers: ledgers}
}

// Approve sets how much the spender may pull from the caller.
func (s *LedgerService) Approve(ctx context.Context, req *connect.Request[fundapi.ApproveRequest]) (*connect.Response[fundapi.ApproveResponse], error) {
	caller := middleware.GetCaller(ctx)
	slog.Info("Approve request received",
		"asset", req.Msg.Asset,
		"owner", caller,
		"spender", req.Msg.Spender,
		"amount", req.Msg.Amount,
	)

	l, err := s.ledgers.Ledger(req.Msg.Asset)
	if err != nil {
		return nil, connectError(err)
	}
	amount, err := parseAmount(req.Msg.Amount)
	if err != nil {
		return nil, err
	}

	if err := l.Approve(ctx, caller, models.Address(req.Msg.Spender), amount); err != nil {
		slog.Error("Approve failed", "asset", req.Msg.Asset, "owner", caller, "error", err)
		return nil, connectError(err)
	}

	return connect.NewResponse(&fundapi.ApproveResponse{}), nil
}

// BalanceOf returns the balance an account holds.
func (s *LedgerService) BalanceOf(ctx context.Context, req *connect.Request[fundapi.BalanceOfRequest]) (*connect.Response[fundapi.BalanceOfResponse], error) {
	l, err := s.ledgers.Ledger(req.Msg.Asset)
	if err != nil {
		return nil, connectError(err)
	}

	balance, err := l.BalanceOf(ctx, models.Address(req.Msg.Account))
	if err != nil {
		return nil, connectError(err)
	}

	return connect.NewResponse(&fundapi.BalanceOfResponse{Balance: balance.String()}), nil
}
