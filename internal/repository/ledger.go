package repository

import (
	"context"

	"github.com/strayline/casevault/internal/domain"
)

// Ledger defines the interface for balance and transaction persistence
type Ledger interface {
	// GetBalance returns the current balance row for a user.
	GetBalance(ctx context.Context, userID string) (*domain.PlayerBalance, error)

	// CompareAndSetBalance writes the new amount only if the stored amount
	// still equals expected. Returns false when another writer got there
	// first; the caller re-reads and retries or surfaces the conflict.
	CompareAndSetBalance(ctx context.Context, userID string, expected, updated float64) (bool, error)

	// AppendTransaction adds one audit row. Callers treat failures as
	// best-effort: the balance change it describes is already committed.
	AppendTransaction(ctx context.Context, record *domain.TransactionRecord) error
}
