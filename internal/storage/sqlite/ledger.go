package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/boardfund/internal/ledger"
	"github.com/mmynk/boardfund/internal/models"
)

var (
	_ ledger.Settler   = (*Ledger)(nil)
	_ ledger.Directory = (*SQLiteStore)(nil)
)

// Ledger is the balance sheet of one asset kept in the store's database.
// Every mutating call runs in a single SQL transaction.
type Ledger struct {
	db    *sql.DB
	asset string
}

// CreateAsset registers an asset so a ledger can be opened for it.
// Registering an existing asset is a no-op.
func (s *SQLiteStore) CreateAsset(ctx context.Context, asset string) error {
	if asset == "" {
		return fmt.Errorf("asset name required")
	}
	_, err := s.db.ExecContext(ctx, "INSERT INTO assets (name) VALUES (?) ON CONFLICT (name) DO NOTHING", asset)
	if err != nil {
		return fmt.Errorf("failed to create asset: %w", err)
	}
	return nil
}

// Ledger returns the ledger of a registered asset.
func (s *SQLiteStore) Ledger(asset string) (ledger.Ledger, error) {
	return s.AssetLedger(context.Background(), asset)
}

// AssetLedger is Ledger with an explicit context.
func (s *SQLiteStore) AssetLedger(ctx context.Context, asset string) (*Ledger, error) {
	var name string
	err := s.db.QueryRowContext(ctx, "SELECT name FROM assets WHERE name = ?", asset).Scan(&name)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %q", ledger.ErrUnknownAsset, asset)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up asset: %w", err)
	}
	return &Ledger{db: s.db, asset: name}, nil
}

// Mint credits amount to account.
func (l *Ledger) Mint(ctx context.Context, account models.Address, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ledger.ErrInvalidAmount
	}
	return l.inTx(ctx, func(tx *sql.Tx) error {
		bal, err := l.balance(ctx, tx, account)
		if err != nil {
			return err
		}
		return l.setBalance(ctx, tx, account, bal.Add(amount))
	})
}

// BalanceOf returns the balance of account. Unknown accounts hold zero.
func (l *Ledger) BalanceOf(ctx context.Context, account models.Address) (decimal.Decimal, error) {
	return l.balance(ctx, l.db, account)
}

// Allowance returns what spender may still pull from owner.
func (l *Ledger) Allowance(ctx context.Context, owner, spender models.Address) (decimal.Decimal, error) {
	return l.allowance(ctx, l.db, owner, spender)
}

// Approve sets the allowance of spender over owner's balance.
func (l *Ledger) Approve(ctx context.Context, owner, spender models.Address, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ledger.ErrInvalidAmount
	}
	return l.inTx(ctx, func(tx *sql.Tx) error {
		return l.setAllowance(ctx, tx, owner, spender, amount)
	})
}

// TransferFrom moves amount from -> to, consuming spender's allowance.
func (l *Ledger) TransferFrom(ctx context.Context, spender, from, to models.Address, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ledger.ErrInvalidAmount
	}
	return l.inTx(ctx, func(tx *sql.Tx) error {
		allowance, err := l.allowance(ctx, tx, from, spender)
		if err != nil {
			return err
		}
		if allowance.LessThan(amount) {
			return ledger.ErrInsufficientAllowance
		}
		if err := l.move(ctx, tx, from, to, amount); err != nil {
			return err
		}
		return l.setAllowance(ctx, tx, from, spender, allowance.Sub(amount))
	})
}

// Transfer moves amount from -> to.
func (l *Ledger) Transfer(ctx context.Context, from, to models.Address, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ledger.ErrInvalidAmount
	}
	return l.inTx(ctx, func(tx *sql.Tx) error {
		return l.move(ctx, tx, from, to, amount)
	})
}

// Settle pays out a board-approved transaction and stores its record in the
// same SQL transaction, so a stored record is executed exactly when the
// payout happened.
func (l *Ledger) Settle(ctx context.Context, from models.Address, t *models.Transaction) error {
	if t.Amount.IsNegative() {
		return ledger.ErrInvalidAmount
	}
	return l.inTx(ctx, func(tx *sql.Tx) error {
		if err := l.move(ctx, tx, from, t.Target, t.Amount); err != nil {
			return err
		}
		return saveTransaction(ctx, tx, t)
	})
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (l *Ledger) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (l *Ledger) move(ctx context.Context, tx *sql.Tx, from, to models.Address, amount decimal.Decimal) error {
	fromBal, err := l.balance(ctx, tx, from)
	if err != nil {
		return err
	}
	if fromBal.LessThan(amount) {
		return ledger.ErrInsufficientBalance
	}
	if err := l.setBalance(ctx, tx, from, fromBal.Sub(amount)); err != nil {
		return err
	}

	// Read after the debit so a self-transfer nets to zero.
	toBal, err := l.balance(ctx, tx, to)
	if err != nil {
		return err
	}
	return l.setBalance(ctx, tx, to, toBal.Add(amount))
}

func (l *Ledger) balance(ctx context.Context, q querier, account models.Address) (decimal.Decimal, error) {
	var amount string
	err := q.QueryRowContext(ctx,
		"SELECT amount FROM balances WHERE asset = ? AND account = ?",
		l.asset, string(account),
	).Scan(&amount)
	if err == sql.ErrNoRows {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get balance: %w", err)
	}
	return parseAmount(amount)
}

func (l *Ledger) setBalance(ctx context.Context, tx *sql.Tx, account models.Address, amount decimal.Decimal) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO balances (asset, account, amount) VALUES (?, ?, ?)
		 ON CONFLICT (asset, account) DO UPDATE SET amount = excluded.amount`,
		l.asset, string(account), amount.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to set balance: %w", err)
	}
	return nil
}

func (l *Ledger) allowance(ctx context.Context, q querier, owner, spender models.Address) (decimal.Decimal, error) {
	var amount string
	err := q.QueryRowContext(ctx,
		"SELECT amount FROM allowances WHERE asset = ? AND owner = ? AND spender = ?",
		l.asset, string(owner), string(spender),
	).Scan(&amount)
	if err == sql.ErrNoRows {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get allowance: %w", err)
	}
	return parseAmount(amount)
}

func (l *Ledger) setAllowance(ctx context.Context, tx *sql.Tx, owner, spender models.Address, amount decimal.Decimal) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO allowances (asset, owner, spender, amount) VALUES (?, ?, ?, ?)
		 ON CONFLICT (asset, owner, spender) DO UPDATE SET amount = excluded.amount`,
		l.asset, string(owner), string(spender), amount.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to set allowance: %w", err)
	}
	return nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("malformed stored amount %q: %w", s, err)
	}
	return d, nil
}
