package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/strayline/casevault/internal/domain"
	"github.com/strayline/casevault/internal/repository"
)

// InventoryRepository implements the inventory repository for PostgreSQL
type InventoryRepository struct {
	db *pgxpool.Pool
}

// NewInventoryRepository creates a new InventoryRepository
func NewInventoryRepository(db *pgxpool.Pool) *InventoryRepository {
	return &InventoryRepository{db: db}
}

// CountForUser returns how many inventory entries the user currently holds
func (r *InventoryRepository) CountForUser(ctx context.Context, userID string) (int, error) {
	const query = `SELECT COUNT(*) FROM inventory_entries WHERE user_id = $1`

	var count int
	if err := r.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", errMsgCountInventory, err)
	}
	return count, nil
}

// AddEntries inserts all entries in one transaction so the batch lands whole
// or not at all
func (r *InventoryRepository) AddEntries(ctx context.Context, entries []domain.InventoryEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", errMsgBeginTx, err)
	}
	defer repository.SafeRollback(ctx, tx)

	const query = `
		INSERT INTO inventory_entries (id, user_id, item_name, rarity, value, case_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	for _, entry := range entries {
		_, err := tx.Exec(ctx, query,
			entry.ID, entry.UserID, entry.ItemName, entry.Rarity,
			entry.Value, entry.CaseName, entry.CreatedAt)
		if err != nil {
			return fmt.Errorf("%s: %w", errMsgInsertInventory, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", errMsgCommitTx, err)
	}
	return nil
}
