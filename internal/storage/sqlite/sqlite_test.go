package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/boardfund/internal/ledger"
	"github.com/mmynk/boardfund/internal/models"
	"github.com/mmynk/boardfund/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	// Create temp directory for test database
	tempDir, err := os.MkdirTemp("", "boardfund-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	board := []models.Address{"carol", "alice", "bob"}

	t.Run("CreateFund sets CreatedAt", func(t *testing.T) {
		fund := &models.Fund{ID: "fund-a", Owner: "owner", Members: board, Threshold: 2, Asset: "BTK"}
		if err := store.CreateFund(ctx, fund); err != nil {
			t.Fatalf("CreateFund failed: %v", err)
		}
		if fund.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}
	})

	t.Run("GetFund keeps board order", func(t *testing.T) {
		fund, err := store.GetFund(ctx, "fund-a")
		if err != nil {
			t.Fatalf("GetFund failed: %v", err)
		}
		if fund.Owner != "owner" || fund.Threshold != 2 || fund.Asset != "BTK" {
			t.Errorf("Unexpected fund: %+v", fund)
		}
		if len(fund.Members) != len(board) {
			t.Fatalf("Members count mismatch: got %d, want %d", len(fund.Members), len(board))
		}
		for i := range board {
			if fund.Members[i] != board[i] {
				t.Errorf("Member %d: got %s, want %s", i, fund.Members[i], board[i])
			}
		}
	})

	t.Run("GetFund returns ErrNotFound", func(t *testing.T) {
		_, err := store.GetFund(ctx, "nonexistent-id")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("CreateFund rejects duplicate members", func(t *testing.T) {
		fund := &models.Fund{ID: "fund-dup", Owner: "owner", Members: []models.Address{"x", "x"}, Asset: "BTK"}
		if err := store.CreateFund(ctx, fund); err == nil {
			t.Error("Expected error for duplicate board member")
		}
		if _, err := store.GetFund(ctx, "fund-dup"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected rolled back fund, got %v", err)
		}
	})

	t.Run("ListFunds in creation order", func(t *testing.T) {
		second := &models.Fund{ID: "fund-b", Owner: "owner", Members: []models.Address{"dave"}, Asset: "BTK", MemberSubmission: true}
		if err := store.CreateFund(ctx, second); err != nil {
			t.Fatalf("CreateFund failed: %v", err)
		}

		funds, err := store.ListFunds(ctx)
		if err != nil {
			t.Fatalf("ListFunds failed: %v", err)
		}
		if len(funds) != 2 {
			t.Fatalf("Expected 2 funds, got %d", len(funds))
		}
		if funds[0].ID != "fund-a" || funds[1].ID != "fund-b" {
			t.Errorf("Unexpected order: %s, %s", funds[0].ID, funds[1].ID)
		}
		if !funds[1].MemberSubmission {
			t.Error("Expected MemberSubmission to round-trip")
		}
		if len(funds[0].Members) != 3 {
			t.Errorf("Expected 3 members on fund-a, got %d", len(funds[0].Members))
		}
	})

	t.Run("SaveTransaction upserts", func(t *testing.T) {
		tx := &models.Transaction{
			ID:            0,
			FundID:        "fund-a",
			Submitter:     "owner",
			Target:        "recipient",
			Amount:        decimal.RequireFromString("50000000000000000000"),
			Payload:       []byte("invoice-7"),
			Approvals:     []bool{false, true, false},
			ApprovalCount: 1,
			CreatedAt:     1700000000,
		}
		if err := store.SaveTransaction(ctx, tx); err != nil {
			t.Fatalf("SaveTransaction failed: %v", err)
		}

		tx.Approvals = []bool{true, false, true}
		tx.ApprovalCount = 2
		tx.Executed = true
		tx.ExecutedAt = 1700000100
		if err := store.SaveTransaction(ctx, tx); err != nil {
			t.Fatalf("SaveTransaction update failed: %v", err)
		}

		txs, err := store.ListTransactions(ctx, "fund-a")
		if err != nil {
			t.Fatalf("ListTransactions failed: %v", err)
		}
		if len(txs) != 1 {
			t.Fatalf("Expected 1 transaction, got %d", len(txs))
		}
		got := txs[0]
		if !got.Amount.Equal(tx.Amount) {
			t.Errorf("Amount mismatch: got %s, want %s", got.Amount, tx.Amount)
		}
		if string(got.Payload) != "invoice-7" {
			t.Errorf("Payload mismatch: got %q", got.Payload)
		}
		if !got.Executed || got.ExecutedAt != 1700000100 || got.ApprovalCount != 2 {
			t.Errorf("Update not applied: %+v", got)
		}
		want := []bool{true, false, true}
		for i := range want {
			if got.Approvals[i] != want[i] {
				t.Errorf("Approval %d: got %v, want %v", i, got.Approvals[i], want[i])
			}
		}
	})

	t.Run("ListTransactions in id order", func(t *testing.T) {
		for _, id := range []uint64{2, 1} {
			tx := &models.Transaction{
				ID: id, FundID: "fund-a", Submitter: "owner", Target: "r",
				Amount: decimal.NewFromInt(1), Approvals: make([]bool, 3), CreatedAt: 1,
			}
			if err := store.SaveTransaction(ctx, tx); err != nil {
				t.Fatalf("SaveTransaction failed: %v", err)
			}
		}

		txs, err := store.ListTransactions(ctx, "fund-a")
		if err != nil {
			t.Fatalf("ListTransactions failed: %v", err)
		}
		for i, tx := range txs {
			if tx.ID != uint64(i) {
				t.Errorf("Position %d holds id %d", i, tx.ID)
			}
		}
	})

	t.Run("SaveTransaction requires a fund", func(t *testing.T) {
		tx := &models.Transaction{FundID: "missing", Target: "r", Amount: decimal.Zero}
		if err := store.SaveTransaction(ctx, tx); err == nil {
			t.Error("Expected foreign key error")
		}
	})
}

func TestLedger(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Ledger("BTK"); !errors.Is(err, ledger.ErrUnknownAsset) {
		t.Fatalf("Expected ErrUnknownAsset before CreateAsset, got %v", err)
	}
	if err := store.CreateAsset(ctx, "BTK"); err != nil {
		t.Fatalf("CreateAsset failed: %v", err)
	}
	if err := store.CreateAsset(ctx, "BTK"); err != nil {
		t.Fatalf("CreateAsset should be idempotent: %v", err)
	}

	l, err := store.AssetLedger(ctx, "BTK")
	if err != nil {
		t.Fatalf("AssetLedger failed: %v", err)
	}

	hundred := decimal.NewFromInt(100)
	if err := l.Mint(ctx, "owner", hundred); err != nil {
		t.Fatalf("Mint failed: %v", err)
	}

	t.Run("TransferFrom needs allowance", func(t *testing.T) {
		err := l.TransferFrom(ctx, "fund", "owner", "fund", decimal.NewFromInt(10))
		if !errors.Is(err, ledger.ErrInsufficientAllowance) {
			t.Fatalf("Expected ErrInsufficientAllowance, got %v", err)
		}
	})

	t.Run("TransferFrom consumes allowance", func(t *testing.T) {
		if err := l.Approve(ctx, "owner", "fund", decimal.NewFromInt(60)); err != nil {
			t.Fatalf("Approve failed: %v", err)
		}
		if err := l.TransferFrom(ctx, "fund", "owner", "fund", decimal.NewFromInt(40)); err != nil {
			t.Fatalf("TransferFrom failed: %v", err)
		}

		assertBalance(t, l, "owner", 60)
		assertBalance(t, l, "fund", 40)

		left, err := l.Allowance(ctx, "owner", "fund")
		if err != nil {
			t.Fatalf("Allowance failed: %v", err)
		}
		if !left.Equal(decimal.NewFromInt(20)) {
			t.Errorf("Allowance: got %s, want 20", left)
		}
	})

	t.Run("failed Transfer leaves balances", func(t *testing.T) {
		err := l.Transfer(ctx, "fund", "recipient", decimal.NewFromInt(41))
		if !errors.Is(err, ledger.ErrInsufficientBalance) {
			t.Fatalf("Expected ErrInsufficientBalance, got %v", err)
		}
		assertBalance(t, l, "fund", 40)
		assertBalance(t, l, "recipient", 0)
	})

	t.Run("self transfer nets to zero", func(t *testing.T) {
		if err := l.Transfer(ctx, "fund", "fund", decimal.NewFromInt(40)); err != nil {
			t.Fatalf("Transfer failed: %v", err)
		}
		assertBalance(t, l, "fund", 40)
	})

	t.Run("assets are isolated", func(t *testing.T) {
		if err := store.CreateAsset(ctx, "XYZ"); err != nil {
			t.Fatalf("CreateAsset failed: %v", err)
		}
		other, err := store.AssetLedger(ctx, "XYZ")
		if err != nil {
			t.Fatalf("AssetLedger failed: %v", err)
		}
		assertBalance(t, other, "owner", 0)
	})
}

func assertBalance(t *testing.T, l *Ledger, account models.Address, want int64) {
	t.Helper()
	got, err := l.BalanceOf(context.Background(), account)
	if err != nil {
		t.Fatalf("BalanceOf(%s) failed: %v", account, err)
	}
	if !got.Equal(decimal.NewFromInt(want)) {
		t.Errorf("BalanceOf(%s): got %s, want %d", account, got, want)
	}
}

func TestSettle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	fund := &models.Fund{ID: "fund-s", Owner: "owner", Members: []models.Address{"alice"}, Threshold: 1, Asset: "BTK"}
	if err := store.CreateFund(ctx, fund); err != nil {
		t.Fatalf("CreateFund failed: %v", err)
	}
	if err := store.CreateAsset(ctx, "BTK"); err != nil {
		t.Fatalf("CreateAsset failed: %v", err)
	}
	l, err := store.AssetLedger(ctx, "BTK")
	if err != nil {
		t.Fatalf("AssetLedger failed: %v", err)
	}
	if err := l.Mint(ctx, fund.Address(), decimal.NewFromInt(100)); err != nil {
		t.Fatalf("Mint failed: %v", err)
	}

	pending := &models.Transaction{
		ID:            0,
		FundID:        fund.ID,
		Submitter:     "owner",
		Target:        "recipient",
		Amount:        decimal.NewFromInt(50),
		Approvals:     []bool{true},
		ApprovalCount: 1,
		CreatedAt:     1700000000,
	}
	if err := store.SaveTransaction(ctx, pending); err != nil {
		t.Fatalf("SaveTransaction failed: %v", err)
	}
	executed := *pending
	executed.Executed = true
	executed.ExecutedAt = 1700000100

	storedExecuted := func() bool {
		t.Helper()
		txs, err := store.ListTransactions(ctx, fund.ID)
		if err != nil {
			t.Fatalf("ListTransactions failed: %v", err)
		}
		if len(txs) != 1 {
			t.Fatalf("Expected 1 transaction, got %d", len(txs))
		}
		return txs[0].Executed
	}

	t.Run("record write failure rolls back the payout", func(t *testing.T) {
		_, err := store.db.ExecContext(ctx, `CREATE TRIGGER reject_executed BEFORE UPDATE ON transactions
			WHEN NEW.executed = 1 BEGIN SELECT RAISE(ABORT, 'disk I/O error'); END`)
		if err != nil {
			t.Fatalf("Failed to create trigger: %v", err)
		}
		if err := l.Settle(ctx, fund.Address(), &executed); err == nil {
			t.Fatal("Expected Settle to fail")
		}
		assertBalance(t, l, fund.Address(), 100)
		assertBalance(t, l, "recipient", 0)
		if storedExecuted() {
			t.Error("Expected stored record to stay pending")
		}
		if _, err := store.db.ExecContext(ctx, "DROP TRIGGER reject_executed"); err != nil {
			t.Fatalf("Failed to drop trigger: %v", err)
		}
	})

	t.Run("insufficient balance stores nothing", func(t *testing.T) {
		tooMuch := executed
		tooMuch.Amount = decimal.NewFromInt(101)
		err := l.Settle(ctx, fund.Address(), &tooMuch)
		if !errors.Is(err, ledger.ErrInsufficientBalance) {
			t.Fatalf("Expected ErrInsufficientBalance, got %v", err)
		}
		if storedExecuted() {
			t.Error("Expected stored record to stay pending")
		}
	})

	t.Run("pays out and stores the executed record", func(t *testing.T) {
		if err := l.Settle(ctx, fund.Address(), &executed); err != nil {
			t.Fatalf("Settle failed: %v", err)
		}
		assertBalance(t, l, fund.Address(), 50)
		assertBalance(t, l, "recipient", 50)
		if !storedExecuted() {
			t.Error("Expected stored record to be executed")
		}
	})
}
