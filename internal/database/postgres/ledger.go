package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/strayline/casevault/internal/domain"
)

// LedgerRepository implements the ledger repository for PostgreSQL
type LedgerRepository struct {
	db *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository
func NewLedgerRepository(db *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// GetBalance retrieves the current balance row for a user
func (r *LedgerRepository) GetBalance(ctx context.Context, userID string) (*domain.PlayerBalance, error) {
	const query = `SELECT user_id, amount FROM balances WHERE user_id = $1`

	balance := &domain.PlayerBalance{}
	err := r.db.QueryRow(ctx, query, userID).Scan(&balance.UserID, &balance.Amount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", errMsgQueryBalance, err)
	}
	return balance, nil
}

// CompareAndSetBalance writes the new amount only when the stored amount
// still equals expected. Zero rows affected means a concurrent writer won.
func (r *LedgerRepository) CompareAndSetBalance(ctx context.Context, userID string, expected, updated float64) (bool, error) {
	const query = `
		UPDATE balances
		SET amount = $3, updated_at = now()
		WHERE user_id = $1 AND amount = $2`

	tag, err := r.db.Exec(ctx, query, userID, expected, updated)
	if err != nil {
		return false, fmt.Errorf("%s: %w", errMsgUpdateBalance, err)
	}
	return tag.RowsAffected() == 1, nil
}

// AppendTransaction inserts one audit row into the balance ledger
func (r *LedgerRepository) AppendTransaction(ctx context.Context, record *domain.TransactionRecord) error {
	const query = `
		INSERT INTO balance_transactions (id, user_id, delta, reason, balance_after, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(ctx, query,
		record.ID, record.UserID, record.Delta, record.Reason, record.BalanceAfter, record.CreatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", errMsgInsertTransaction, err)
	}
	return nil
}
