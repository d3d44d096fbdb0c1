package discount

import (
	"context"
	"fmt"
	"math"

	"github.com/strayline/casevault/internal/domain"
	"github.com/strayline/casevault/internal/ledger"
	"github.com/strayline/casevault/internal/logger"
	"github.com/strayline/casevault/internal/repository"
)

// UpgradeResult is the outcome of a successful discount upgrade. The wire
// shape is the handler's DiscountUpgradeResponse; this struct never
// serializes directly.
type UpgradeResult struct {
	NewLevel   int
	NewBalance float64
	NextCost   float64
}

// Service raises a user's permanent case discount one level at a time.
type Service interface {
	Upgrade(ctx context.Context, userID string) (*UpgradeResult, error)
}

type service struct {
	users  repository.User
	ledger ledger.Service
}

// NewService creates a new discount service
func NewService(users repository.User, ledgerSvc ledger.Service) Service {
	return &service{users: users, ledger: ledgerSvc}
}

// UpgradeCost returns the price of moving from level to level+1. The curve
// is exponential so late levels are a long-term money sink.
func UpgradeCost(level int) float64 {
	return math.Round(domain.DiscountUpgradeBaseCost * math.Pow(domain.DiscountUpgradeGrowth, float64(level)))
}

// Upgrade debits the upgrade cost and persists the new level. A persistence
// failure after the debit triggers a compensating refund, same pattern as a
// failed opening.
func (s *service) Upgrade(ctx context.Context, userID string) (*UpgradeResult, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.DiscountLevel >= domain.MaxDiscountLevel {
		return nil, domain.ErrMaxDiscountLevel
	}

	cost := UpgradeCost(user.DiscountLevel)
	newBalance, err := s.ledger.Debit(ctx, userID, cost, domain.ReasonDiscountUpgrade)
	if err != nil {
		return nil, err
	}

	newLevel := user.DiscountLevel + 1
	ok, err := s.users.UpdateDiscountLevelIfMatches(ctx, userID, user.DiscountLevel, newLevel)
	if err == nil && !ok {
		err = domain.ErrConcurrentModification
	}
	if err != nil {
		return nil, s.refund(ctx, userID, cost, err)
	}

	result := &UpgradeResult{
		NewLevel:   newLevel,
		NewBalance: newBalance,
	}
	if newLevel < domain.MaxDiscountLevel {
		result.NextCost = UpgradeCost(newLevel)
	}

	logger.FromContext(ctx).Info("Discount upgraded",
		"user_id", userID, "new_level", newLevel, "cost", cost)
	return result, nil
}

// refund credits back the debited cost after a failed level persist. The
// returned error reports whether the money made it back.
func (s *service) refund(ctx context.Context, userID string, cost float64, cause error) error {
	if _, refundErr := s.ledger.Credit(ctx, userID, cost, domain.ReasonDiscountRefund); refundErr != nil {
		logger.FromContext(ctx).Error("Discount refund failed, manual reconciliation required",
			"user_id", userID, "amount", cost, "cause", cause, "refund_error", refundErr)
		return &domain.RewardPersistError{Amount: cost, Refunded: false, Cause: cause}
	}

	logger.FromContext(ctx).Warn("Discount upgrade rolled back",
		"user_id", userID, "amount", cost, "cause", cause)
	return fmt.Errorf("discount level persist failed, %0.2f refunded: %w", cost, cause)
}
