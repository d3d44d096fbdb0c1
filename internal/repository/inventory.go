package repository

import (
	"context"

	"github.com/strayline/casevault/internal/domain"
)

// Inventory defines the interface for inventory persistence
type Inventory interface {
	// CountForUser returns how many entries the user currently holds.
	CountForUser(ctx context.Context, userID string) (int, error)

	// AddEntries inserts all entries in one transaction. Either every
	// entry lands or none do; a partial batch would corrupt the capacity
	// accounting.
	AddEntries(ctx context.Context, entries []domain.InventoryEntry) error
}
