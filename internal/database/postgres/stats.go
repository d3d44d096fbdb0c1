package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/strayline/casevault/internal/domain"
	"github.com/strayline/casevault/internal/repository"
)

// StatsRepository implements the stats repository for PostgreSQL
type StatsRepository struct {
	db *pgxpool.Pool
}

// NewStatsRepository creates a new StatsRepository
func NewStatsRepository(db *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{db: db}
}

const insertDropQuery = `
	INSERT INTO drop_history (user_id, case_id, item_name, rarity, value, created_at)
	VALUES ($1, $2, $3, $4, $5, $6)`

// RecordDrops inserts a batch of history rows in one transaction
func (r *StatsRepository) RecordDrops(ctx context.Context, records []domain.DropRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", errMsgBeginTx, err)
	}
	defer repository.SafeRollback(ctx, tx)

	for _, record := range records {
		_, err := tx.Exec(ctx, insertDropQuery,
			record.UserID, record.CaseID, record.ItemName, record.Rarity,
			record.Value, record.CreatedAt)
		if err != nil {
			return fmt.Errorf("%s: %w", errMsgInsertDropHistory, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", errMsgCommitTx, err)
	}
	return nil
}

// RecordDrop inserts a single history row
func (r *StatsRepository) RecordDrop(ctx context.Context, record domain.DropRecord) error {
	_, err := r.db.Exec(ctx, insertDropQuery,
		record.UserID, record.CaseID, record.ItemName, record.Rarity,
		record.Value, record.CreatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", errMsgInsertDropHistory, err)
	}
	return nil
}

// UpdateBestDropIfHigher raises the best-drop high-water mark for a user.
// The WHERE guard keeps the update monotonic under concurrent openings.
func (r *StatsRepository) UpdateBestDropIfHigher(ctx context.Context, userID, itemName string, value float64) (bool, error) {
	const query = `
		INSERT INTO user_stats (user_id, best_drop_item, best_drop_value)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET best_drop_item = EXCLUDED.best_drop_item,
		    best_drop_value = EXCLUDED.best_drop_value
		WHERE user_stats.best_drop_value < EXCLUDED.best_drop_value`

	tag, err := r.db.Exec(ctx, query, userID, itemName, value)
	if err != nil {
		return false, fmt.Errorf("%s: %w", errMsgUpdateBestDrop, err)
	}
	return tag.RowsAffected() == 1, nil
}
