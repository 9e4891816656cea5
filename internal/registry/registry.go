// Package registry creates treasuries and keeps the list of every treasury
// it created.
package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/boardfund/internal/ledger"
	"github.com/mmynk/boardfund/internal/models"
	"github.com/mmynk/boardfund/internal/storage"
	"github.com/mmynk/boardfund/internal/treasury"
)

var ErrFundNotFound = errors.New("fund not found")

// FundOption customizes a fund at creation.
type FundOption func(*models.Fund)

// WithThreshold requires n approvals instead of a unanimous board.
func WithThreshold(n int) FundOption {
	return func(f *models.Fund) {
		f.Threshold = n
	}
}

// WithMemberSubmission lets board members submit transactions.
func WithMemberSubmission() FundOption {
	return func(f *models.Fund) {
		f.MemberSubmission = true
	}
}

// Registry is the append-only list of deployed treasuries.
type Registry struct {
	mu        sync.RWMutex
	funds     []*treasury.Account
	byID      map[string]*treasury.Account
	store     storage.Store
	ledgers   ledger.Directory
	observers []treasury.Observer
}

// New creates a registry that resolves assets through ledgers and
// persists funds to store. Every ledger must be a ledger.Settler.
// observers are attached to every treasury.
func New(store storage.Store, ledgers ledger.Directory, observers ...treasury.Observer) *Registry {
	return &Registry{
		byID:      make(map[string]*treasury.Account),
		store:     store,
		ledgers:   ledgers,
		observers: observers,
	}
}

// CreateFundManager deploys a treasury for members holding asset.
// Nothing is recorded if the treasury cannot be built or persisted.
func (r *Registry) CreateFundManager(ctx context.Context, owner models.Address, members []models.Address, asset string, opts ...FundOption) (*treasury.Account, error) {
	fund := models.Fund{
		ID:        uuid.New().String(),
		Owner:     owner,
		Members:   members,
		Asset:     asset,
		CreatedAt: time.Now().Unix(),
	}
	for _, opt := range opts {
		opt(&fund)
	}

	l, err := r.ledgers.Ledger(asset)
	if err != nil {
		return nil, err
	}
	acct, err := treasury.New(fund, l, r.accountOptions()...)
	if err != nil {
		return nil, err
	}

	// Persist the resolved fund so the stored threshold is never zero.
	resolved := acct.Fund()
	if err := r.store.CreateFund(ctx, &resolved); err != nil {
		return nil, fmt.Errorf("failed to persist fund: %w", err)
	}

	r.mu.Lock()
	r.funds = append(r.funds, acct)
	r.byID[acct.ID()] = acct
	r.mu.Unlock()

	slog.Info("Fund deployed",
		"fund_id", acct.ID(),
		"owner", owner,
		"members_count", len(members),
		"threshold", acct.Threshold(),
		"asset", asset,
	)
	return acct, nil
}

// GetDeployedFunds returns every treasury in creation order.
func (r *Registry) GetDeployedFunds() []*treasury.Account {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*treasury.Account, len(r.funds))
	copy(out, r.funds)
	return out
}

// FundManager returns the treasury with the given fund ID.
func (r *Registry) FundManager(id string) (*treasury.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	acct, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFundNotFound, id)
	}
	return acct, nil
}

// Load rebuilds every persisted treasury. It is meant to run once, on an
// empty registry, before the registry is shared.
func (r *Registry) Load(ctx context.Context) error {
	funds, err := r.store.ListFunds(ctx)
	if err != nil {
		return fmt.Errorf("failed to list funds: %w", err)
	}

	for _, fund := range funds {
		stored, err := r.store.ListTransactions(ctx, fund.ID)
		if err != nil {
			return fmt.Errorf("failed to list transactions of fund %s: %w", fund.ID, err)
		}
		txs := make([]models.Transaction, len(stored))
		for i, tx := range stored {
			txs[i] = *tx
		}

		l, err := r.ledgers.Ledger(fund.Asset)
		if err != nil {
			return fmt.Errorf("fund %s: %w", fund.ID, err)
		}
		acct, err := treasury.Restore(*fund, l, txs, r.accountOptions()...)
		if err != nil {
			return fmt.Errorf("failed to restore fund %s: %w", fund.ID, err)
		}

		r.mu.Lock()
		r.funds = append(r.funds, acct)
		r.byID[acct.ID()] = acct
		r.mu.Unlock()
	}

	slog.Info("Funds restored", "count", len(funds))
	return nil
}

// accountOptions journals every treasury to the store, so a change is
// stored before it is applied and a payout is stored with its transfer.
func (r *Registry) accountOptions() []treasury.Option {
	opts := []treasury.Option{treasury.WithJournal(r.store)}
	for _, o := range r.observers {
		opts = append(opts, treasury.WithObserver(o))
	}
	return opts
}
