// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/boardfund/internal/models"
)

// ErrNotFound is returned when a requested fund does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the interface for fund persistence.
// The treasury core stays the source of truth while a process runs; the
// store lets a restarted process rebuild every treasury.
type Store interface {
	// CreateFund persists a new fund and its ordered board.
	CreateFund(ctx context.Context, fund *models.Fund) error

	// GetFund retrieves a fund by its ID.
	GetFund(ctx context.Context, fundID string) (*models.Fund, error)

	// ListFunds returns every fund in creation order.
	ListFunds(ctx context.Context) ([]*models.Fund, error)

	// SaveTransaction inserts or replaces the stored copy of a transaction.
	SaveTransaction(ctx context.Context, tx *models.Transaction) error

	// ListTransactions returns a fund's transactions in ID order.
	ListTransactions(ctx context.Context, fundID string) ([]*models.Transaction, error)

	// Close releases any resources held by the store.
	Close() error
}
