package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/strayline/casevault/internal/domain"
	"github.com/strayline/casevault/internal/logger"
	"github.com/strayline/casevault/internal/repository"
	"github.com/strayline/casevault/internal/utils"
)

// CommissionApplier forwards a share of each spend to the referral upline.
// Implementations must be safe for concurrent use.
type CommissionApplier interface {
	ApplyCommission(ctx context.Context, spenderID string, amount float64) error
}

// Service is the single gateway for balance mutations. Every write goes
// through one equality-guarded update; there is no in-process locking.
type Service interface {
	GetBalance(ctx context.Context, userID string) (float64, error)

	// Debit subtracts amount from the user's balance and returns the new
	// balance. Fails with InsufficientFundsError when the balance cannot
	// cover the amount and ErrConcurrentModification when another writer
	// changed the balance between read and write.
	Debit(ctx context.Context, userID string, amount float64, reason string) (float64, error)

	// Credit adds amount to the user's balance. It cannot fail on funds
	// but can still lose the write race.
	Credit(ctx context.Context, userID string, amount float64, reason string) (float64, error)
}

type service struct {
	repo       repository.Ledger
	commission CommissionApplier
}

// NewService creates a new ledger service. commission may be nil when no
// referral program is configured.
func NewService(repo repository.Ledger, commission CommissionApplier) Service {
	return &service{repo: repo, commission: commission}
}

func (s *service) GetBalance(ctx context.Context, userID string) (float64, error) {
	balance, err := s.repo.GetBalance(ctx, userID)
	if err != nil {
		return 0, err
	}
	return balance.Amount, nil
}

func (s *service) Debit(ctx context.Context, userID string, amount float64, reason string) (float64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("%w: debit amount must be positive", domain.ErrInvalidInput)
	}

	balance, err := s.repo.GetBalance(ctx, userID)
	if err != nil {
		return 0, err
	}
	if balance.Amount < amount {
		return 0, &domain.InsufficientFundsError{Balance: balance.Amount, Required: amount}
	}

	newBalance := utils.Round2(balance.Amount - amount)
	ok, err := s.repo.CompareAndSetBalance(ctx, userID, balance.Amount, newBalance)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, domain.ErrConcurrentModification
	}

	s.appendRecord(ctx, userID, -amount, reason, newBalance)

	if s.commission != nil {
		if err := s.commission.ApplyCommission(ctx, userID, amount); err != nil {
			// The spend already committed; commission is owed, not blocking.
			logger.FromContext(ctx).Warn("Failed to apply referral commission",
				"user_id", userID, "amount", amount, "error", err)
		}
	}

	return newBalance, nil
}

func (s *service) Credit(ctx context.Context, userID string, amount float64, reason string) (float64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("%w: credit amount must be positive", domain.ErrInvalidInput)
	}

	balance, err := s.repo.GetBalance(ctx, userID)
	if err != nil {
		return 0, err
	}

	newBalance := utils.Round2(balance.Amount + amount)
	ok, err := s.repo.CompareAndSetBalance(ctx, userID, balance.Amount, newBalance)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, domain.ErrConcurrentModification
	}

	s.appendRecord(ctx, userID, amount, reason, newBalance)
	return newBalance, nil
}

// appendRecord writes the audit row for a committed balance change. The
// write is best-effort: the balance change stands even when the row is lost.
func (s *service) appendRecord(ctx context.Context, userID string, delta float64, reason string, balanceAfter float64) {
	record := &domain.TransactionRecord{
		ID:           uuid.NewString(),
		UserID:       userID,
		Delta:        delta,
		Reason:       reason,
		BalanceAfter: balanceAfter,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.AppendTransaction(ctx, record); err != nil {
		logger.FromContext(ctx).Warn("Failed to append transaction record",
			"user_id", userID, "delta", delta, "reason", reason, "error", err)
	}
}
