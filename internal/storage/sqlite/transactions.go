package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/boardfund/internal/models"
)

// SaveTransaction upserts a transaction and replaces its approval set.
func (s *SQLiteStore) SaveTransaction(ctx context.Context, t *models.Transaction) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := saveTransaction(ctx, tx, t); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func saveTransaction(ctx context.Context, tx *sql.Tx, t *models.Transaction) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO transactions (fund_id, id, submitter, target, amount, payload, executed, approval_count, created_at, executed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (fund_id, id) DO UPDATE SET
		     executed = excluded.executed,
		     approval_count = excluded.approval_count,
		     executed_at = excluded.executed_at`,
		t.FundID, int64(t.ID), string(t.Submitter), string(t.Target), t.Amount.String(), t.Payload,
		t.Executed, t.ApprovalCount, t.CreatedAt, t.ExecutedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save transaction: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"DELETE FROM transaction_approvals WHERE fund_id = ? AND tx_id = ?",
		t.FundID, int64(t.ID),
	)
	if err != nil {
		return fmt.Errorf("failed to clear approvals: %w", err)
	}

	for position, approved := range t.Approvals {
		if !approved {
			continue
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO transaction_approvals (fund_id, tx_id, position) VALUES (?, ?, ?)",
			t.FundID, int64(t.ID), position,
		)
		if err != nil {
			return fmt.Errorf("failed to insert approval: %w", err)
		}
	}
	return nil
}

// ListTransactions returns a fund's transactions in ID order with their
// approval flags laid out in board order.
func (s *SQLiteStore) ListTransactions(ctx context.Context, fundID string) ([]*models.Transaction, error) {
	members, err := s.members(ctx, fundID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, submitter, target, amount, payload, executed, approval_count, created_at, executed_at
		 FROM transactions WHERE fund_id = ? ORDER BY id`,
		fundID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	var txs []*models.Transaction
	for rows.Next() {
		t := &models.Transaction{FundID: fundID, Approvals: make([]bool, len(members))}
		var id int64
		var submitter, target, amount string
		if err := rows.Scan(&id, &submitter, &target, &amount, &t.Payload, &t.Executed,
			&t.ApprovalCount, &t.CreatedAt, &t.ExecutedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		t.ID = uint64(id)
		t.Submitter = models.Address(submitter)
		t.Target = models.Address(target)
		if t.Amount, err = decimal.NewFromString(amount); err != nil {
			rows.Close()
			return nil, fmt.Errorf("transaction %d has malformed amount %q: %w", id, amount, err)
		}
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	rows.Close()

	approvalRows, err := s.db.QueryContext(ctx,
		"SELECT tx_id, position FROM transaction_approvals WHERE fund_id = ?",
		fundID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get approvals: %w", err)
	}
	defer approvalRows.Close()

	byID := make(map[uint64]*models.Transaction, len(txs))
	for _, t := range txs {
		byID[t.ID] = t
	}
	for approvalRows.Next() {
		var txID int64
		var position int
		if err := approvalRows.Scan(&txID, &position); err != nil {
			return nil, fmt.Errorf("failed to scan approval: %w", err)
		}
		t, ok := byID[uint64(txID)]
		if !ok || position < 0 || position >= len(t.Approvals) {
			return nil, fmt.Errorf("approval for transaction %d at position %d has no matching record", txID, position)
		}
		t.Approvals[position] = true
	}
	if err := approvalRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate approvals: %w", err)
	}

	return txs, nil
}
