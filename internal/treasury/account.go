// Package treasury implements the board-controlled treasury: a fixed board
// approves fund-release requests and each approved request runs at most once.
//
// All operations on an Account are serialized. A call either applies every
// effect or returns an error and leaves the account exactly as it was.
package treasury

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/boardfund/internal/ledger"
	"github.com/mmynk/boardfund/internal/models"
)

// Option configures an Account.
type Option func(*Account)

// WithObserver registers o to receive every committed event.
func WithObserver(o Observer) Option {
	return func(a *Account) {
		a.observers = append(a.observers, o)
	}
}

// Journal durably stores transaction records.
type Journal interface {
	SaveTransaction(ctx context.Context, tx *models.Transaction) error
}

// WithJournal makes every transaction change durable before it is applied.
// A change the journal rejects fails with ErrJournal and is not applied.
// The ledger must be a ledger.Settler so that running a transaction moves
// the funds and stores the executed record in one step.
func WithJournal(j Journal) Option {
	return func(a *Account) {
		a.journal = j
	}
}

// WithClock overrides the time source used for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(a *Account) {
		a.now = now
	}
}

type record struct {
	submitter  models.Address
	target     models.Address
	amount     decimal.Decimal
	payload    []byte
	executed   bool
	approvals  approvals
	createdAt  int64
	executedAt int64
}

// MemberApproval reports whether one board member approved a transaction.
type MemberApproval struct {
	Member   models.Address
	Approved bool
}

// Tally is the board's vote on one transaction.
type Tally struct {
	Votes     []MemberApproval
	Count     int
	Threshold int
	Executed  bool
}

// Account is one treasury.
type Account struct {
	mu        sync.Mutex
	fund      models.Fund
	ledger    ledger.Ledger
	index     map[models.Address]int
	records   []*record
	journal   Journal
	settler   ledger.Settler
	observers []Observer
	now       func() time.Time
}

// New builds a treasury for fund, holding its balance on l.
// A zero fund.Threshold means every member must approve.
func New(fund models.Fund, l ledger.Ledger, opts ...Option) (*Account, error) {
	if l == nil {
		return nil, configError("ledger required")
	}
	if fund.ID == "" {
		return nil, configError("fund id required")
	}
	if fund.Owner == "" {
		return nil, configError("owner required")
	}
	if len(fund.Members) == 0 {
		return nil, configError("at least one board member required")
	}

	members := make([]models.Address, len(fund.Members))
	index := make(map[models.Address]int, len(fund.Members))
	for i, m := range fund.Members {
		if m == "" {
			return nil, configError("board member %d has an empty address", i)
		}
		if _, dup := index[m]; dup {
			return nil, configError("duplicate board member %s", m)
		}
		index[m] = i
		members[i] = m
	}
	fund.Members = members

	if fund.Threshold == 0 {
		fund.Threshold = len(members)
	}
	if fund.Threshold < 1 || fund.Threshold > len(members) {
		return nil, configError("threshold %d outside 1..%d", fund.Threshold, len(members))
	}

	a := &Account{
		fund:   fund,
		ledger: l,
		index:  index,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.journal != nil {
		s, ok := l.(ledger.Settler)
		if !ok {
			return nil, configError("journaled treasury needs a ledger that settles transactions")
		}
		a.settler = s
	}
	return a, nil
}

// Restore rebuilds a treasury from its persisted transaction log.
func Restore(fund models.Fund, l ledger.Ledger, txs []models.Transaction, opts ...Option) (*Account, error) {
	a, err := New(fund, l, opts...)
	if err != nil {
		return nil, err
	}

	for i, tx := range txs {
		if tx.ID != uint64(i) {
			return nil, configError("transaction %d stored at position %d", tx.ID, i)
		}
		if len(tx.Approvals) != len(a.fund.Members) {
			return nil, configError("transaction %d has %d approval flags for %d members",
				tx.ID, len(tx.Approvals), len(a.fund.Members))
		}

		rec := &record{
			submitter:  tx.Submitter,
			target:     tx.Target,
			amount:     tx.Amount,
			payload:    append([]byte(nil), tx.Payload...),
			executed:   tx.Executed,
			approvals:  newApprovals(len(a.fund.Members)),
			createdAt:  tx.CreatedAt,
			executedAt: tx.ExecutedAt,
		}
		for member, ok := range tx.Approvals {
			if ok {
				rec.approvals.grant(member)
			}
		}
		if rec.approvals.count != tx.ApprovalCount {
			return nil, configError("transaction %d approval count %d does not match %d flags",
				tx.ID, tx.ApprovalCount, rec.approvals.count)
		}
		a.records = append(a.records, rec)
	}
	return a, nil
}

// ID returns the fund ID.
func (a *Account) ID() string {
	return a.fund.ID
}

// Address returns the treasury's own ledger account.
func (a *Account) Address() models.Address {
	return a.fund.Address()
}

// Fund returns the description the treasury was built from, with the
// threshold resolved.
func (a *Account) Fund() models.Fund {
	f := a.fund
	f.Members = a.ListBoardMembers()
	return f
}

// Threshold returns the number of approvals a transaction needs.
func (a *Account) Threshold() int {
	return a.fund.Threshold
}

// ListBoardMembers returns the board in member order.
func (a *Account) ListBoardMembers() []models.Address {
	out := make([]models.Address, len(a.fund.Members))
	copy(out, a.fund.Members)
	return out
}

// IsMember reports whether addr sits on the board.
func (a *Account) IsMember(addr models.Address) bool {
	_, ok := a.index[addr]
	return ok
}

// CanSubmit reports whether addr may open fund-release requests.
func (a *Account) CanSubmit(addr models.Address) bool {
	if addr == "" {
		return false
	}
	if addr == a.fund.Owner {
		return true
	}
	return a.fund.MemberSubmission && a.IsMember(addr)
}

// Balance returns what the ledger holds for the treasury.
func (a *Account) Balance(ctx context.Context) (decimal.Decimal, error) {
	return a.ledger.BalanceOf(ctx, a.Address())
}

// DepositFunds pulls amount from caller into the treasury. The caller must
// have approved the treasury's address as spender on the ledger.
func (a *Account) DepositFunds(ctx context.Context, caller models.Address, amount decimal.Decimal) error {
	if caller == "" {
		return ErrInvalidAddress
	}
	if amount.IsNegative() {
		return ErrInvalidAmount
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.ledger.TransferFrom(ctx, a.Address(), caller, a.Address(), amount); err != nil {
		return transferError(err)
	}

	a.emit(ctx, Event{Kind: Deposited, Actor: caller, Amount: amount})
	return nil
}

// AddTransaction opens a request to send amount to target and returns its ID.
func (a *Account) AddTransaction(ctx context.Context, caller, target models.Address, amount decimal.Decimal, payload []byte) (uint64, error) {
	if !a.CanSubmit(caller) {
		return 0, ErrUnauthorized
	}
	if target == "" {
		return 0, ErrInvalidAddress
	}
	if amount.IsNegative() {
		return 0, ErrInvalidAmount
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	id := uint64(len(a.records))
	rec := &record{
		submitter: caller,
		target:    target,
		amount:    amount,
		payload:   append([]byte(nil), payload...),
		approvals: newApprovals(len(a.fund.Members)),
		createdAt: a.now().Unix(),
	}
	snap := a.snapshot(id, rec)
	if err := a.save(ctx, snap); err != nil {
		return 0, err
	}
	a.records = append(a.records, rec)

	a.emit(ctx, Event{Kind: TransactionSubmitted, Actor: caller, Amount: amount, Transaction: snap})
	return id, nil
}

// ApproveTransaction records caller's approval of transaction id.
func (a *Account) ApproveTransaction(ctx context.Context, caller models.Address, id uint64) error {
	_, err := a.Approve(ctx, caller, id)
	return err
}

// Approve records caller's approval of transaction id and returns the
// transaction as it stands afterwards.
func (a *Account) Approve(ctx context.Context, caller models.Address, id uint64) (models.Transaction, error) {
	return a.vote(ctx, caller, id, ApprovalGranted, (*approvals).grant)
}

// RetractApproval withdraws caller's earlier approval of transaction id.
func (a *Account) RetractApproval(ctx context.Context, caller models.Address, id uint64) error {
	_, err := a.Retract(ctx, caller, id)
	return err
}

// Retract withdraws caller's earlier approval of transaction id and returns
// the transaction as it stands afterwards.
func (a *Account) Retract(ctx context.Context, caller models.Address, id uint64) (models.Transaction, error) {
	return a.vote(ctx, caller, id, ApprovalRetracted, (*approvals).retract)
}

func (a *Account) vote(ctx context.Context, caller models.Address, id uint64, kind EventKind, op func(*approvals, int) error) (models.Transaction, error) {
	member, ok := a.index[caller]
	if !ok {
		return models.Transaction{}, ErrUnauthorized
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	rec, err := a.pending(id)
	if err != nil {
		return models.Transaction{}, err
	}
	next := *rec
	next.approvals = rec.approvals.clone()
	if err := op(&next.approvals, member); err != nil {
		return models.Transaction{}, err
	}
	snap := a.snapshot(id, &next)
	if err := a.save(ctx, snap); err != nil {
		return models.Transaction{}, err
	}
	*rec = next

	a.emit(ctx, Event{Kind: kind, Actor: caller, Amount: rec.amount, Transaction: snap})
	return snap, nil
}

// RunTransaction sends an approved transaction's amount to its target.
// Anyone may call it. The transaction is marked executed only after the
// ledger accepted the transfer.
func (a *Account) RunTransaction(ctx context.Context, caller models.Address, id uint64) error {
	_, err := a.Run(ctx, caller, id)
	return err
}

// Run is RunTransaction returning the executed transaction.
func (a *Account) Run(ctx context.Context, caller models.Address, id uint64) (models.Transaction, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	rec, err := a.pending(id)
	if err != nil {
		return models.Transaction{}, err
	}
	if rec.approvals.count < a.fund.Threshold {
		return models.Transaction{}, ErrApprovalRequired
	}

	next := *rec
	next.approvals = rec.approvals.clone()
	next.executed = true
	next.executedAt = a.now().Unix()
	snap := a.snapshot(id, &next)
	if err := a.settle(ctx, snap); err != nil {
		return models.Transaction{}, transferError(err)
	}
	*rec = next

	a.emit(ctx, Event{Kind: TransactionExecuted, Actor: caller, Amount: rec.amount, Transaction: snap})
	return snap, nil
}

// FetchTransaction returns a snapshot of transaction id.
func (a *Account) FetchTransaction(id uint64) (models.Transaction, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	rec, err := a.lookup(id)
	if err != nil {
		return models.Transaction{}, err
	}
	return a.snapshot(id, rec), nil
}

// CountTransactions returns how many transactions were ever submitted.
func (a *Account) CountTransactions() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	return uint64(len(a.records))
}

// Transactions returns snapshots of every transaction in ID order.
func (a *Account) Transactions() []models.Transaction {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]models.Transaction, len(a.records))
	for i, rec := range a.records {
		out[i] = a.snapshot(uint64(i), rec)
	}
	return out
}

// ApprovalStatus lists every board member with their vote on transaction id.
func (a *Account) ApprovalStatus(id uint64) (Tally, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	rec, err := a.lookup(id)
	if err != nil {
		return Tally{}, err
	}

	votes := make([]MemberApproval, len(a.fund.Members))
	for i, m := range a.fund.Members {
		votes[i] = MemberApproval{Member: m, Approved: rec.approvals.has(i)}
	}
	return Tally{
		Votes:     votes,
		Count:     rec.approvals.count,
		Threshold: a.fund.Threshold,
		Executed:  rec.executed,
	}, nil
}

func (a *Account) lookup(id uint64) (*record, error) {
	if id >= uint64(len(a.records)) {
		return nil, ErrTransactionNotFound
	}
	return a.records[id], nil
}

// pending returns a record that may still change.
func (a *Account) pending(id uint64) (*record, error) {
	rec, err := a.lookup(id)
	if err != nil {
		return nil, err
	}
	if rec.executed {
		return nil, ErrAlreadyExecuted
	}
	return rec, nil
}

func (a *Account) snapshot(id uint64, rec *record) models.Transaction {
	return models.Transaction{
		ID:            id,
		FundID:        a.fund.ID,
		Submitter:     rec.submitter,
		Target:        rec.target,
		Amount:        rec.amount,
		Payload:       append([]byte(nil), rec.payload...),
		Executed:      rec.executed,
		Approvals:     rec.approvals.snapshot(),
		ApprovalCount: rec.approvals.count,
		CreatedAt:     rec.createdAt,
		ExecutedAt:    rec.executedAt,
	}
}

// save stores tx in the journal, if there is one.
func (a *Account) save(ctx context.Context, tx models.Transaction) error {
	if a.journal == nil {
		return nil
	}
	if err := a.journal.SaveTransaction(ctx, &tx); err != nil {
		return journalError(err)
	}
	return nil
}

// settle pays out tx. A journaled account stores the executed record
// together with the transfer.
func (a *Account) settle(ctx context.Context, tx models.Transaction) error {
	if a.settler != nil {
		return a.settler.Settle(ctx, a.Address(), &tx)
	}
	return a.ledger.Transfer(ctx, a.Address(), tx.Target, tx.Amount)
}

func (a *Account) emit(ctx context.Context, ev Event) {
	ev.FundID = a.fund.ID
	for _, o := range a.observers {
		o.Observe(ctx, ev)
	}
}
