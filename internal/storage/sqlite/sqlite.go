// Package sqlite provides a SQLite-backed implementation of the storage.Store
// interface and of the fungible-asset ledger.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/boardfund/internal/models"
	"github.com/mmynk/boardfund/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database with pure Go driver
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows one writer; a single connection keeps ledger
	// read-modify-write transactions from failing with SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Run migrations
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateFund persists a new fund and its board.
func (s *SQLiteStore) CreateFund(ctx context.Context, fund *models.Fund) error {
	if fund.ID == "" {
		return fmt.Errorf("fund id required")
	}
	if fund.CreatedAt == 0 {
		fund.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO funds (id, owner, threshold, member_submission, asset, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		fund.ID, string(fund.Owner), fund.Threshold, fund.MemberSubmission, fund.Asset, fund.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert fund: %w", err)
	}

	for i, member := range fund.Members {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO fund_members (fund_id, position, address) VALUES (?, ?, ?)",
			fund.ID, i, string(member),
		)
		if err != nil {
			return fmt.Errorf("failed to insert board member: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetFund retrieves a fund by ID, including its board.
func (s *SQLiteStore) GetFund(ctx context.Context, fundID string) (*models.Fund, error) {
	fund := &models.Fund{}
	var owner string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, owner, threshold, member_submission, asset, created_at FROM funds WHERE id = ?",
		fundID,
	).Scan(&fund.ID, &owner, &fund.Threshold, &fund.MemberSubmission, &fund.Asset, &fund.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("fund %s: %w", fundID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get fund: %w", err)
	}
	fund.Owner = models.Address(owner)

	members, err := s.members(ctx, fundID)
	if err != nil {
		return nil, err
	}
	fund.Members = members

	return fund, nil
}

// ListFunds returns every fund in creation order.
func (s *SQLiteStore) ListFunds(ctx context.Context) ([]*models.Fund, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, owner, threshold, member_submission, asset, created_at FROM funds ORDER BY seq",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list funds: %w", err)
	}

	var funds []*models.Fund
	for rows.Next() {
		fund := &models.Fund{}
		var owner string
		if err := rows.Scan(&fund.ID, &owner, &fund.Threshold, &fund.MemberSubmission, &fund.Asset, &fund.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan fund: %w", err)
		}
		fund.Owner = models.Address(owner)
		funds = append(funds, fund)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to iterate funds: %w", err)
	}
	rows.Close()

	// Members are loaded after the fund rows are closed: the store runs on a
	// single connection.
	for _, fund := range funds {
		members, err := s.members(ctx, fund.ID)
		if err != nil {
			return nil, err
		}
		fund.Members = members
	}

	return funds, nil
}

func (s *SQLiteStore) members(ctx context.Context, fundID string) ([]models.Address, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT address FROM fund_members WHERE fund_id = ? ORDER BY position",
		fundID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get board members: %w", err)
	}
	defer rows.Close()

	var members []models.Address
	for rows.Next() {
		var addr string
		if err := rows.Scan(&addr); err != nil {
			return nil, fmt.Errorf("failed to scan board member: %w", err)
		}
		members = append(members, models.Address(addr))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate board members: %w", err)
	}

	return members, nil
}
