package models

// Address identifies a party to a treasury: a board member, a depositor,
// a recipient or the treasury itself.
type Address string

// String returns the address as a plain string.
func (a Address) String() string {
	return string(a)
}

// Fund describes one board-controlled treasury.
type Fund struct {
	// ID is the unique identifier for the fund (UUID format).
	// It doubles as the treasury's own account on the ledger.
	ID string

	// Owner is the account that created the fund. It is the privileged
	// submitter of fund-release requests.
	Owner Address

	// Members is the ordered board. A member's position in this slice is
	// the index of its approval flag on every transaction.
	Members []Address

	// Threshold is the number of approvals a transaction needs before it
	// can run. Zero means unanimous.
	Threshold int

	// MemberSubmission allows board members, not just the owner, to
	// submit transactions.
	MemberSubmission bool

	// Asset names the ledger the fund holds its balance on.
	Asset string

	// CreatedAt is the Unix timestamp when the fund was created.
	CreatedAt int64
}

// Address returns the ledger account of the fund.
func (f Fund) Address() Address {
	return Address(f.ID)
}
