package discount

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/strayline/casevault/internal/domain"
)

// MockUserRepo is a mock of repository.User
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) HasUnlockPass(ctx context.Context, userID string, pass domain.UnlockPass) (bool, error) {
	args := m.Called(ctx, userID, pass)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepo) GrantUnlockPass(ctx context.Context, userID string, pass domain.UnlockPass) error {
	args := m.Called(ctx, userID, pass)
	return args.Error(0)
}

func (m *MockUserRepo) UpdateDiscountLevelIfMatches(ctx context.Context, userID string, expected, updated int) (bool, error) {
	args := m.Called(ctx, userID, expected, updated)
	return args.Bool(0), args.Error(1)
}

// MockLedger is a mock of ledger.Service
type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) GetBalance(ctx context.Context, userID string) (float64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockLedger) Debit(ctx context.Context, userID string, amount float64, reason string) (float64, error) {
	args := m.Called(ctx, userID, amount, reason)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockLedger) Credit(ctx context.Context, userID string, amount float64, reason string) (float64, error) {
	args := m.Called(ctx, userID, amount, reason)
	return args.Get(0).(float64), args.Error(1)
}

func TestUpgradeCost(t *testing.T) {
	assert.Equal(t, 100.0, UpgradeCost(0))
	assert.Equal(t, 138.0, UpgradeCost(1))
	assert.Equal(t, 190.0, UpgradeCost(2)) // 190.44 rounds down
	assert.Greater(t, UpgradeCost(39), 30000.0)
}

func TestUpgrade(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path debits then persists the level", func(t *testing.T) {
		users := new(MockUserRepo)
		ledgerSvc := new(MockLedger)
		svc := NewService(users, ledgerSvc)

		users.On("GetUserByID", ctx, "user-1").Return(&domain.User{ID: "user-1", DiscountLevel: 2}, nil)
		ledgerSvc.On("Debit", ctx, "user-1", 190.0, domain.ReasonDiscountUpgrade).Return(809.5, nil)
		users.On("UpdateDiscountLevelIfMatches", ctx, "user-1", 2, 3).Return(true, nil)

		result, err := svc.Upgrade(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, 3, result.NewLevel)
		assert.Equal(t, 809.5, result.NewBalance)
		assert.Equal(t, UpgradeCost(3), result.NextCost)
	})

	t.Run("level cap", func(t *testing.T) {
		users := new(MockUserRepo)
		ledgerSvc := new(MockLedger)
		svc := NewService(users, ledgerSvc)

		users.On("GetUserByID", ctx, "user-1").Return(&domain.User{ID: "user-1", DiscountLevel: domain.MaxDiscountLevel}, nil)

		_, err := svc.Upgrade(ctx, "user-1")
		assert.ErrorIs(t, err, domain.ErrMaxDiscountLevel)
		ledgerSvc.AssertNotCalled(t, "Debit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("final level reports no next cost", func(t *testing.T) {
		users := new(MockUserRepo)
		ledgerSvc := new(MockLedger)
		svc := NewService(users, ledgerSvc)

		lastLevel := domain.MaxDiscountLevel - 1
		users.On("GetUserByID", ctx, "user-1").Return(&domain.User{ID: "user-1", DiscountLevel: lastLevel}, nil)
		ledgerSvc.On("Debit", ctx, "user-1", UpgradeCost(lastLevel), domain.ReasonDiscountUpgrade).Return(100.0, nil)
		users.On("UpdateDiscountLevelIfMatches", ctx, "user-1", lastLevel, domain.MaxDiscountLevel).Return(true, nil)

		result, err := svc.Upgrade(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, domain.MaxDiscountLevel, result.NewLevel)
		assert.Zero(t, result.NextCost)
	})

	t.Run("debit failure aborts with no level change", func(t *testing.T) {
		users := new(MockUserRepo)
		ledgerSvc := new(MockLedger)
		svc := NewService(users, ledgerSvc)

		users.On("GetUserByID", ctx, "user-1").Return(&domain.User{ID: "user-1", DiscountLevel: 0}, nil)
		ledgerSvc.On("Debit", ctx, "user-1", 100.0, domain.ReasonDiscountUpgrade).
			Return(0.0, &domain.InsufficientFundsError{Balance: 50, Required: 100})

		_, err := svc.Upgrade(ctx, "user-1")
		assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
		users.AssertNotCalled(t, "UpdateDiscountLevelIfMatches", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("persist failure refunds the debit", func(t *testing.T) {
		users := new(MockUserRepo)
		ledgerSvc := new(MockLedger)
		svc := NewService(users, ledgerSvc)

		users.On("GetUserByID", ctx, "user-1").Return(&domain.User{ID: "user-1", DiscountLevel: 0}, nil)
		ledgerSvc.On("Debit", ctx, "user-1", 100.0, domain.ReasonDiscountUpgrade).Return(900.0, nil)
		users.On("UpdateDiscountLevelIfMatches", ctx, "user-1", 0, 1).Return(false, errors.New("db down"))
		ledgerSvc.On("Credit", ctx, "user-1", 100.0, domain.ReasonDiscountRefund).Return(1000.0, nil)

		_, err := svc.Upgrade(ctx, "user-1")
		require.Error(t, err)
		ledgerSvc.AssertExpectations(t)
	})

	t.Run("lost level race refunds and surfaces the conflict", func(t *testing.T) {
		users := new(MockUserRepo)
		ledgerSvc := new(MockLedger)
		svc := NewService(users, ledgerSvc)

		users.On("GetUserByID", ctx, "user-1").Return(&domain.User{ID: "user-1", DiscountLevel: 0}, nil)
		ledgerSvc.On("Debit", ctx, "user-1", 100.0, domain.ReasonDiscountUpgrade).Return(900.0, nil)
		users.On("UpdateDiscountLevelIfMatches", ctx, "user-1", 0, 1).Return(false, nil)
		ledgerSvc.On("Credit", ctx, "user-1", 100.0, domain.ReasonDiscountRefund).Return(1000.0, nil)

		_, err := svc.Upgrade(ctx, "user-1")
		assert.ErrorIs(t, err, domain.ErrConcurrentModification)
	})

	t.Run("failed refund flags reconciliation", func(t *testing.T) {
		users := new(MockUserRepo)
		ledgerSvc := new(MockLedger)
		svc := NewService(users, ledgerSvc)

		users.On("GetUserByID", ctx, "user-1").Return(&domain.User{ID: "user-1", DiscountLevel: 0}, nil)
		ledgerSvc.On("Debit", ctx, "user-1", 100.0, domain.ReasonDiscountUpgrade).Return(900.0, nil)
		users.On("UpdateDiscountLevelIfMatches", ctx, "user-1", 0, 1).Return(false, errors.New("db down"))
		ledgerSvc.On("Credit", ctx, "user-1", 100.0, domain.ReasonDiscountRefund).Return(0.0, errors.New("still down"))

		_, err := svc.Upgrade(ctx, "user-1")
		var persistErr *domain.RewardPersistError
		require.ErrorAs(t, err, &persistErr)
		assert.False(t, persistErr.Refunded)
		assert.Equal(t, 100.0, persistErr.Amount)
	})
}
