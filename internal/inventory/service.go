package inventory

import (
	"context"

	"github.com/strayline/casevault/internal/domain"
	"github.com/strayline/casevault/internal/repository"
)

// Service guards inventory capacity and persists won entries.
type Service interface {
	// CheckCapacity fails with CapacityError when adding `additional`
	// entries would push the user past max. It runs before any money
	// moves so a full inventory never costs anything.
	CheckCapacity(ctx context.Context, userID string, additional, max int) (*domain.CapacityStatus, error)

	// AddEntries persists a batch of won entries atomically.
	AddEntries(ctx context.Context, entries []domain.InventoryEntry) error

	CountForUser(ctx context.Context, userID string) (int, error)
}

type service struct {
	repo       repository.Inventory
	defaultCap int
}

// NewService creates a new inventory service. defaultCap applies to users
// whose profile carries no explicit cap; zero falls back to the built-in
// default.
func NewService(repo repository.Inventory, defaultCap int) Service {
	if defaultCap <= 0 {
		defaultCap = domain.DefaultInventoryCapacity
	}
	return &service{repo: repo, defaultCap: defaultCap}
}

func (s *service) CheckCapacity(ctx context.Context, userID string, additional, max int) (*domain.CapacityStatus, error) {
	if max <= 0 {
		max = s.defaultCap
	}

	current, err := s.repo.CountForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if current+additional > max {
		return nil, &domain.CapacityError{Current: current, Max: max, Requested: additional}
	}
	return &domain.CapacityStatus{Current: current, Max: max}, nil
}

func (s *service) AddEntries(ctx context.Context, entries []domain.InventoryEntry) error {
	return s.repo.AddEntries(ctx, entries)
}

func (s *service) CountForUser(ctx context.Context, userID string) (int, error) {
	return s.repo.CountForUser(ctx, userID)
}
