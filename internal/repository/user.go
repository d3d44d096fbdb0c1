package repository

import (
	"context"

	"github.com/strayline/casevault/internal/domain"
)

// User defines the interface for user persistence
type User interface {
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	HasUnlockPass(ctx context.Context, userID string, pass domain.UnlockPass) (bool, error)
	GrantUnlockPass(ctx context.Context, userID string, pass domain.UnlockPass) error

	// UpdateDiscountLevelIfMatches persists the new discount level only if
	// the stored level still equals expected, guarding concurrent upgrades
	// the same way balance writes are guarded.
	UpdateDiscountLevelIfMatches(ctx context.Context, userID string, expected, updated int) (bool, error)
}
