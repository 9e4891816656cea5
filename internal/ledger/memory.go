package ledger

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/mmynk/boardfund/internal/models"
)

// Ensure Memory implements Ledger
var _ Ledger = (*Memory)(nil)

type allowanceKey struct {
	owner   models.Address
	spender models.Address
}

// Memory is a Ledger held entirely in process memory.
type Memory struct {
	mu         sync.Mutex
	balances   map[models.Address]decimal.Decimal
	allowances map[allowanceKey]decimal.Decimal
}

// NewMemory creates an empty in-memory ledger.
func NewMemory() *Memory {
	return &Memory{
		balances:   make(map[models.Address]decimal.Decimal),
		allowances: make(map[allowanceKey]decimal.Decimal),
	}
}

// Mint credits amount to account out of thin air.
func (m *Memory) Mint(account models.Address, amount decimal.Decimal) error {
	if err := checkAmount(amount); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.balances[account] = m.balances[account].Add(amount)
	return nil
}

// BalanceOf returns the balance held by account.
func (m *Memory) BalanceOf(_ context.Context, account models.Address) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.balances[account], nil
}

// Allowance returns what spender may still pull from owner.
func (m *Memory) Allowance(owner, spender models.Address) decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.allowances[allowanceKey{owner, spender}]
}

// Approve sets the allowance of spender over owner's balance.
func (m *Memory) Approve(_ context.Context, owner, spender models.Address, amount decimal.Decimal) error {
	if err := checkAmount(amount); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.allowances[allowanceKey{owner, spender}] = amount
	return nil
}

// TransferFrom moves amount from -> to on behalf of spender.
func (m *Memory) TransferFrom(_ context.Context, spender, from, to models.Address, amount decimal.Decimal) error {
	if err := checkAmount(amount); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := allowanceKey{from, spender}
	allowance := m.allowances[key]
	if allowance.LessThan(amount) {
		return ErrInsufficientAllowance
	}
	if err := m.move(from, to, amount); err != nil {
		return err
	}
	m.allowances[key] = allowance.Sub(amount)
	return nil
}

// Transfer moves amount from -> to.
func (m *Memory) Transfer(_ context.Context, from, to models.Address, amount decimal.Decimal) error {
	if err := checkAmount(amount); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	return m.move(from, to, amount)
}

// move must be called with m.mu held.
func (m *Memory) move(from, to models.Address, amount decimal.Decimal) error {
	balance := m.balances[from]
	if balance.LessThan(amount) {
		return ErrInsufficientBalance
	}
	m.balances[from] = balance.Sub(amount)
	m.balances[to] = m.balances[to].Add(amount)
	return nil
}
