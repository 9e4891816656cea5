package models

import "github.com/shopspring/decimal"

// Transaction is a request to release funds from a treasury.
// It is distinct from a ledger transfer: a Transaction moves funds only
// once the board has approved it and someone runs it.
type Transaction struct {
	// ID is the sequential index of the transaction within its fund,
	// starting at 0. IDs are never reused.
	ID uint64

	// FundID is the fund this transaction belongs to.
	FundID string

	// Submitter is the account that opened the request.
	Submitter Address

	// Target receives Amount when the transaction runs.
	Target Address

	// Amount is the quantity of the fund's asset to release.
	Amount decimal.Decimal

	// Payload is opaque metadata carried with the request for audit.
	// It is never interpreted.
	Payload []byte

	// Executed is set once the transfer to Target succeeded.
	Executed bool

	// Approvals holds one flag per board member, in member order.
	Approvals []bool

	// ApprovalCount is the number of true flags in Approvals.
	ApprovalCount int

	// CreatedAt is the Unix timestamp when the request was submitted.
	CreatedAt int64

	// ExecutedAt is the Unix timestamp of execution, or 0.
	ExecutedAt int64
}
