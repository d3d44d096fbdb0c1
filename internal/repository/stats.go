package repository

import (
	"context"

	"github.com/strayline/casevault/internal/domain"
)

// Stats defines the interface for drop history and high-water stats
type Stats interface {
	// RecordDrops inserts a batch of history rows in one transaction.
	RecordDrops(ctx context.Context, records []domain.DropRecord) error

	// RecordDrop inserts a single history row, used as the per-row
	// fallback when a batch insert fails.
	RecordDrop(ctx context.Context, record domain.DropRecord) error

	// UpdateBestDropIfHigher raises the user's best-drop high-water mark.
	// Returns true when the value beat the stored one.
	UpdateBestDropIfHigher(ctx context.Context, userID, itemName string, value float64) (bool, error)
}
