// Package service implements the boardfund Connect services on top of the
// fund registry.
package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/boardfund/internal/middleware"
	"github.com/mmynk/boardfund/internal/models"
	"github.com/mmynk/boardfund/internal/registry"
	"github.com/mmynk/boardfund/internal/treasury"
	"github.com/mmynk/boardfund/pkg/fundapi"
)

var _ fundapi.FundServiceHandler = (*FundService)(nil)

// FundService implements the Connect FundService.
type FundService struct {
	registry *registry.Registry
}

// NewFundService creates a FundService serving the funds of reg.
func NewFundService(reg *registry.Registry) *FundService {
	return &FundService{registry: reg}
}

// CreateFund deploys a fund owned by the caller.
func (s *FundService) CreateFund(ctx context.Context, req *connect.Request[fundapi.CreateFundRequest]) (*connect.Response[fundapi.CreateFundResponse], error) {
	caller := middleware.GetCaller(ctx)
	slog.Info("CreateFund request received",
		"owner", caller,
		"members_count", len(req.Msg.Members),
		"asset", req.Msg.Asset,
	)

	var opts []registry.FundOption
	if req.Msg.Threshold != 0 {
		opts = append(opts, registry.WithThreshold(req.Msg.Threshold))
	}
	if req.Msg.MemberSubmission {
		opts = append(opts, registry.WithMemberSubmission())
	}

	acct, err := s.registry.CreateFundManager(ctx, caller, toAddresses(req.Msg.Members), req.Msg.Asset, opts...)
	if err != nil {
		slog.Error("CreateFund failed", "owner", caller, "error", err)
		return nil, connectError(err)
	}

	return connect.NewResponse(&fundapi.CreateFundResponse{
		Fund: toAPIFund(acct.Fund()),
	}), nil
}

// ListFunds returns every deployed fund in creation order.
func (s *FundService) ListFunds(ctx context.Context, req *connect.Request[fundapi.ListFundsRequest]) (*connect.Response[fundapi.ListFundsResponse], error) {
	deployed := s.registry.GetDeployedFunds()

	funds := make([]*fundapi.Fund, len(deployed))
	for i, acct := range deployed {
		funds[i] = toAPIFund(acct.Fund())
	}

	slog.Info("ListFunds successful", "count", len(funds))

	return connect.NewResponse(&fundapi.ListFundsResponse{Funds: funds}), nil
}

// GetFund returns one fund with its transaction count and balance.
func (s *FundService) GetFund(ctx context.Context, req *connect.Request[fundapi.GetFundRequest]) (*connect.Response[fundapi.GetFundResponse], error) {
	acct, err := s.registry.FundManager(req.Msg.FundId)
	if err != nil {
		return nil, connectError(err)
	}

	balance, err := acct.Balance(ctx)
	if err != nil {
		slog.Error("GetFund failed - could not read balance", "fund_id", acct.ID(), "error", err)
		return nil, connectError(err)
	}

	return connect.NewResponse(&fundapi.GetFundResponse{
		Fund:             toAPIFund(acct.Fund()),
		TransactionCount: acct.CountTransactions(),
		Balance:          balance.String(),
	}), nil
}

// DepositFunds pulls the requested amount from the caller into the fund.
func (s *FundService) DepositFunds(ctx context.Context, req *connect.Request[fundapi.DepositFundsRequest]) (*connect.Response[fundapi.DepositFundsResponse], error) {
	caller := middleware.GetCaller(ctx)
	slog.Info("DepositFunds request received",
		"fund_id", req.Msg.FundId,
		"caller", caller,
		"amount", req.Msg.Amount,
	)

	acct, err := s.registry.FundManager(req.Msg.FundId)
	if err != nil {
		return nil, connectError(err)
	}
	amount, err := parseAmount(req.Msg.Amount)
	if err != nil {
		return nil, err
	}

	if err := acct.DepositFunds(ctx, caller, amount); err != nil {
		slog.Warn("DepositFunds rejected", "fund_id", acct.ID(), "caller", caller, "error", err)
		return nil, connectError(err)
	}

	balance, err := acct.Balance(ctx)
	if err != nil {
		return nil, connectError(err)
	}

	return connect.NewResponse(&fundapi.DepositFundsResponse{Balance: balance.String()}), nil
}

// AddTransaction opens a fund-release request.
func (s *FundService) AddTransaction(ctx context.Context, req *connect.Request[fundapi.AddTransactionRequest]) (*connect.Response[fundapi.AddTransactionResponse], error) {
	caller := middleware.GetCaller(ctx)
	slog.Info("AddTransaction request received",
		"fund_id", req.Msg.FundId,
		"caller", caller,
		"target", req.Msg.Target,
		"amount", req.Msg.Amount,
	)

	acct, err := s.registry.FundManager(req.Msg.FundId)
	if err != nil {
		return nil, connectError(err)
	}
	amount, err := parseAmount(req.Msg.Amount)
	if err != nil {
		return nil, err
	}

	id, err := acct.AddTransaction(ctx, caller, models.Address(req.Msg.Target), amount, req.Msg.Payload)
	if err != nil {
		slog.Warn("AddTransaction rejected", "fund_id", acct.ID(), "caller", caller, "error", err)
		return nil, connectError(err)
	}

	slog.Info("Transaction submitted", "fund_id", acct.ID(), "transaction_id", id)

	return connect.NewResponse(&fundapi.AddTransactionResponse{TransactionId: id}), nil
}

// ApproveTransaction records the caller's approval.
func (s *FundService) ApproveTransaction(ctx context.Context, req *connect.Request[fundapi.ApproveTransactionRequest]) (*connect.Response[fundapi.ApproveTransactionResponse], error) {
	tx, err := s.vote(ctx, "ApproveTransaction", req.Msg.FundId, req.Msg.TransactionId, (*treasury.Account).Approve)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&fundapi.ApproveTransactionResponse{Transaction: tx}), nil
}

// RetractApproval withdraws the caller's earlier approval.
func (s *FundService) RetractApproval(ctx context.Context, req *connect.Request[fundapi.RetractApprovalRequest]) (*connect.Response[fundapi.RetractApprovalResponse], error) {
	tx, err := s.vote(ctx, "RetractApproval", req.Msg.FundId, req.Msg.TransactionId, (*treasury.Account).Retract)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&fundapi.RetractApprovalResponse{Transaction: tx}), nil
}

// RunTransaction releases an approved transaction's funds.
func (s *FundService) RunTransaction(ctx context.Context, req *connect.Request[fundapi.RunTransactionRequest]) (*connect.Response[fundapi.RunTransactionResponse], error) {
	tx, err := s.vote(ctx, "RunTransaction", req.Msg.FundId, req.Msg.TransactionId, (*treasury.Account).Run)
	if err != nil {
		return nil, err
	}

	slog.Info("Transaction executed",
		"fund_id", tx.FundId,
		"transaction_id", tx.Id,
		"target", tx.Target,
		"amount", tx.Amount,
	)

	return connect.NewResponse(&fundapi.RunTransactionResponse{Transaction: tx}), nil
}

// FetchTransaction returns one transaction.
func (s *FundService) FetchTransaction(ctx context.Context, req *connect.Request[fundapi.FetchTransactionRequest]) (*connect.Response[fundapi.FetchTransactionResponse], error) {
	acct, err := s.registry.FundManager(req.Msg.FundId)
	if err != nil {
		return nil, connectError(err)
	}

	tx, err := acct.FetchTransaction(req.Msg.TransactionId)
	if err != nil {
		return nil, connectError(err)
	}

	return connect.NewResponse(&fundapi.FetchTransactionResponse{Transaction: toAPITransaction(tx)}), nil
}

// ListTransactions returns every transaction of a fund in ID order.
func (s *FundService) ListTransactions(ctx context.Context, req *connect.Request[fundapi.ListTransactionsRequest]) (*connect.Response[fundapi.ListTransactionsResponse], error) {
	acct, err := s.registry.FundManager(req.Msg.FundId)
	if err != nil {
		return nil, connectError(err)
	}

	txs := acct.Transactions()
	out := make([]*fundapi.Transaction, len(txs))
	for i, tx := range txs {
		out[i] = toAPITransaction(tx)
	}

	return connect.NewResponse(&fundapi.ListTransactionsResponse{Transactions: out}), nil
}

// GetApprovalStatus lists each board member's vote on a transaction.
func (s *FundService) GetApprovalStatus(ctx context.Context, req *connect.Request[fundapi.GetApprovalStatusRequest]) (*connect.Response[fundapi.GetApprovalStatusResponse], error) {
	acct, err := s.registry.FundManager(req.Msg.FundId)
	if err != nil {
		return nil, connectError(err)
	}

	status, err := acct.ApprovalStatus(req.Msg.TransactionId)
	if err != nil {
		return nil, connectError(err)
	}

	approvals := make([]*fundapi.MemberApproval, len(status.Votes))
	for i, v := range status.Votes {
		approvals[i] = &fundapi.MemberApproval{Member: v.Member.String(), Approved: v.Approved}
	}

	return connect.NewResponse(&fundapi.GetApprovalStatusResponse{
		Approvals:     approvals,
		ApprovalCount: status.Count,
		Threshold:     status.Threshold,
	}), nil
}

// GetBalance returns the fund's ledger balance.
func (s *FundService) GetBalance(ctx context.Context, req *connect.Request[fundapi.GetBalanceRequest]) (*connect.Response[fundapi.GetBalanceResponse], error) {
	acct, err := s.registry.FundManager(req.Msg.FundId)
	if err != nil {
		return nil, connectError(err)
	}

	balance, err := acct.Balance(ctx)
	if err != nil {
		return nil, connectError(err)
	}

	return connect.NewResponse(&fundapi.GetBalanceResponse{Balance: balance.String()}), nil
}

// vote applies op as the caller to transaction id and returns the record
// op committed.
func (s *FundService) vote(ctx context.Context, name, fundID string, id uint64,
	op func(*treasury.Account, context.Context, models.Address, uint64) (models.Transaction, error),
) (*fundapi.Transaction, error) {
	caller := middleware.GetCaller(ctx)
	slog.Info(name+" request received",
		"fund_id", fundID,
		"transaction_id", id,
		"caller", caller,
	)

	acct, err := s.registry.FundManager(fundID)
	if err != nil {
		return nil, connectError(err)
	}

	tx, err := op(acct, ctx, caller, id)
	if err != nil {
		slog.Warn(name+" rejected",
			"fund_id", fundID,
			"transaction_id", id,
			"caller", caller,
			"error", err,
		)
		return nil, connectError(err)
	}
	return toAPITransaction(tx), nil
}
