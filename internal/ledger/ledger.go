// Package ledger defines the narrow fungible-asset capability a treasury
// depends on, and an in-memory implementation of it.
package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/boardfund/internal/models"
)

var (
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrInsufficientAllowance = errors.New("insufficient allowance")
	ErrInvalidAmount         = errors.New("amount must not be negative")
	ErrUnknownAsset          = errors.New("unknown asset")
)

// Ledger is the accounting system for one fungible asset.
// A call that returns an error must leave every balance and allowance
// untouched; a call that returns nil is final.
type Ledger interface {
	// BalanceOf returns the balance held by account. Unknown accounts hold zero.
	BalanceOf(ctx context.Context, account models.Address) (decimal.Decimal, error)

	// Approve sets the amount spender may pull from owner with TransferFrom.
	Approve(ctx context.Context, owner, spender models.Address, amount decimal.Decimal) error

	// TransferFrom moves amount from one account to another, consuming
	// allowance that from granted to spender.
	TransferFrom(ctx context.Context, spender, from, to models.Address, amount decimal.Decimal) error

	// Transfer moves amount from one account to another.
	Transfer(ctx context.Context, from, to models.Address, amount decimal.Decimal) error
}

// Settler is a Ledger that stores the record authorizing a transfer in the
// same atomic step as the transfer.
type Settler interface {
	Ledger

	// Settle moves tx.Amount from from to tx.Target and stores tx.
	// Either both take effect or neither does.
	Settle(ctx context.Context, from models.Address, tx *models.Transaction) error
}

// Directory resolves an asset name to its ledger.
type Directory interface {
	Ledger(asset string) (Ledger, error)
}

// Assets is a fixed Directory backed by a map.
type Assets map[string]Ledger

// Ledger returns the ledger registered for asset.
func (a Assets) Ledger(asset string) (Ledger, error) {
	l, ok := a[asset]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAsset, asset)
	}
	return l, nil
}

func checkAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}
