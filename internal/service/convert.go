package service

import (
	"fmt"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/boardfund/internal/models"
	"github.com/mmynk/boardfund/internal/treasury"
	"github.com/mmynk/boardfund/pkg/fundapi"
)

func toAPIFund(f models.Fund) *fundapi.Fund {
	members := make([]string, len(f.Members))
	for i, m := range f.Members {
		members[i] = m.String()
	}
	return &fundapi.Fund{
		Id:               f.ID,
		Address:          f.Address().String(),
		Owner:            f.Owner.String(),
		Members:          members,
		Threshold:        f.Threshold,
		MemberSubmission: f.MemberSubmission,
		Asset:            f.Asset,
		CreatedAt:        f.CreatedAt,
	}
}

func toAPITransaction(tx models.Transaction) *fundapi.Transaction {
	return &fundapi.Transaction{
		Id:            tx.ID,
		FundId:        tx.FundID,
		Submitter:     tx.Submitter.String(),
		Target:        tx.Target.String(),
		Amount:        tx.Amount.String(),
		Payload:       tx.Payload,
		Executed:      tx.Executed,
		Approvals:     tx.Approvals,
		ApprovalCount: tx.ApprovalCount,
		CreatedAt:     tx.CreatedAt,
		ExecutedAt:    tx.ExecutedAt,
	}
}

func toAddresses(in []string) []models.Address {
	out := make([]models.Address, len(in))
	for i, s := range in {
		out[i] = models.Address(s)
	}
	return out
}

// parseAmount reads a decimal string. Negative amounts are left to the
// treasury and the ledger, which reject them with their own errors.
func parseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, connect.NewError(connect.CodeInvalidArgument,
			fmt.Errorf("%w: %q", treasury.ErrInvalidAmount, s))
	}
	return amount, nil
}
