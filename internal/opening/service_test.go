package opening

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/strayline/casevault/internal/catalog"
	"github.com/strayline/casevault/internal/domain"
	"github.com/strayline/casevault/internal/event"
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

// MockInventory is a mock of inventory.Service
type MockInventory struct {
	mock.Mock
}

func (m *MockInventory) CheckCapacity(ctx context.Context, userID string, additional, max int) (*domain.CapacityStatus, error) {
	args := m.Called(ctx, userID, additional, max)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CapacityStatus), args.Error(1)
}

func (m *MockInventory) AddEntries(ctx context.Context, entries []domain.InventoryEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockInventory) CountForUser(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

// MockStats is a mock of StatsRecorder
type MockStats struct {
	mock.Mock
}

func (m *MockStats) RecordDrops(ctx context.Context, userID, caseID string, winners []domain.RewardItem) error {
	args := m.Called(ctx, userID, caseID, winners)
	return args.Error(0)
}

func (m *MockStats) UpdateBestDrop(ctx context.Context, userID string, winners []domain.RewardItem) error {
	args := m.Called(ctx, userID, winners)
	return args.Error(0)
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Load("")
	require.NoError(t, err)
	return cat
}

type saga struct {
	users     *MockUserRepo
	ledgerSvc *MockLedger
	inv       *MockInventory
	stats     *MockStats
	bus       *event.MemoryBus
	svc       Service
}

func newSaga(t *testing.T) *saga {
	s := &saga{
		users:     new(MockUserRepo),
		ledgerSvc: new(MockLedger),
		inv:       new(MockInventory),
		stats:     new(MockStats),
		bus:       event.NewMemoryBus(),
	}
	s.svc = NewService(testCatalog(t), s.users, s.ledgerSvc, s.inv, s.stats, s.bus)
	return s
}

// drain waits for the saga's background follow-ups to finish.
func (s *saga) drain(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.svc.Shutdown(ctx))
}

func TestOpenCost(t *testing.T) {
	assert.Equal(t, 5.00, OpenCost(5.00, 1, 0))
	assert.Equal(t, 10.00, OpenCost(5.00, 2, 0))
	assert.Equal(t, 4.50, OpenCost(5.00, 1, 10))
	// Max discount is 40%; higher stored levels clamp.
	assert.Equal(t, 60.00, OpenCost(25.00, 4, 40))
	assert.Equal(t, 3.00, OpenCost(5.00, 1, 99))
	assert.Equal(t, 5.00, OpenCost(5.00, 1, -3))
}

func TestOpenHappyPath(t *testing.T) {
	s := newSaga(t)
	ctx := context.Background()

	s.users.On("GetUserByID", ctx, "user-1").
		Return(&domain.User{ID: "user-1", Username: "tester", InventoryCap: 200}, nil)
	s.inv.On("CheckCapacity", ctx, "user-1", 1, 200).
		Return(&domain.CapacityStatus{Current: 10, Max: 200}, nil)
	s.ledgerSvc.On("Debit", ctx, "user-1", 5.00, domain.ReasonCaseOpening).Return(5.00, nil)
	s.inv.On("AddEntries", mock.Anything, mock.MatchedBy(func(entries []domain.InventoryEntry) bool {
		return len(entries) == 1 && entries[0].UserID == "user-1" && entries[0].CaseName == "Vault Case"
	})).Return(nil)
	s.stats.On("RecordDrops", mock.Anything, "user-1", "vault", mock.Anything).Return(nil)
	s.stats.On("UpdateBestDrop", mock.Anything, "user-1", mock.Anything).Return(nil)

	result, err := s.svc.Open(ctx, domain.OpeningRequest{UserID: "user-1", CaseID: "vault", Quantity: 1})
	require.NoError(t, err)
	s.drain(t)

	assert.NotEmpty(t, result.Seed)
	require.Len(t, result.Slots, 1)
	assert.Len(t, result.Slots[0].Items, domain.SlotSequenceLength)
	assert.GreaterOrEqual(t, result.Slots[0].WinnerIndex, domain.WinnerIndexMin)
	assert.Less(t, result.Slots[0].WinnerIndex, domain.WinnerIndexMax)
	require.Len(t, result.Winners, 1)
	assert.Equal(t, result.Slots[0].Winner, result.Winners[0])
	assert.Equal(t, 5.00, result.TotalCost)
	assert.Equal(t, result.Winners[0].Value, result.TotalValue)
	assert.InDelta(t, result.TotalValue-5.00, result.NetProfit, 0.005)
	assert.Equal(t, 5.00, result.NewBalance)
	assert.True(t, result.InventoryUpdated)

	s.users.AssertExpectations(t)
	s.ledgerSvc.AssertExpectations(t)
	s.inv.AssertExpectations(t)
	s.stats.AssertExpectations(t)
}

func TestOpenValidation(t *testing.T) {
	ctx := context.Background()

	t.Run("quantity out of range", func(t *testing.T) {
		s := newSaga(t)
		for _, q := range []int{0, -1, 5, 100} {
			_, err := s.svc.Open(ctx, domain.OpeningRequest{UserID: "user-1", CaseID: "vault", Quantity: q})
			assert.ErrorIs(t, err, domain.ErrInvalidQuantity, "quantity %d", q)
		}
		s.ledgerSvc.AssertNotCalled(t, "Debit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown case", func(t *testing.T) {
		s := newSaga(t)
		_, err := s.svc.Open(ctx, domain.OpeningRequest{UserID: "user-1", CaseID: "nope", Quantity: 1})
		assert.ErrorIs(t, err, domain.ErrCaseNotFound)
	})

	t.Run("multi-open without pass has zero side effects", func(t *testing.T) {
		s := newSaga(t)
		s.users.On("HasUnlockPass", ctx, "user-1", domain.PassTripleOpen).Return(false, nil)

		_, err := s.svc.Open(ctx, domain.OpeningRequest{UserID: "user-1", CaseID: "vault", Quantity: 3})
		require.ErrorIs(t, err, domain.ErrPassRequired)

		var passErr *domain.PassRequiredError
		require.ErrorAs(t, err, &passErr)
		assert.Equal(t, domain.PassTripleOpen, passErr.RequiredPass)
		assert.Equal(t, 3, passErr.Quantity)

		s.users.AssertNotCalled(t, "GetUserByID", mock.Anything, mock.Anything)
		s.ledgerSvc.AssertNotCalled(t, "Debit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("multi-open with pass proceeds", func(t *testing.T) {
		s := newSaga(t)
		s.users.On("HasUnlockPass", ctx, "user-1", domain.PassDoubleOpen).Return(true, nil)
		s.users.On("GetUserByID", ctx, "user-1").
			Return(&domain.User{ID: "user-1", InventoryCap: 200}, nil)
		s.inv.On("CheckCapacity", ctx, "user-1", 2, 200).
			Return(&domain.CapacityStatus{Current: 0, Max: 200}, nil)
		s.ledgerSvc.On("Debit", ctx, "user-1", 10.00, domain.ReasonCaseOpening).Return(0.00, nil)
		s.inv.On("AddEntries", mock.Anything, mock.Anything).Return(nil)
		s.stats.On("RecordDrops", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		s.stats.On("UpdateBestDrop", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		result, err := s.svc.Open(ctx, domain.OpeningRequest{UserID: "user-1", CaseID: "vault", Quantity: 2})
		require.NoError(t, err)
		s.drain(t)
		assert.Len(t, result.Slots, 2)
		assert.Len(t, result.Winners, 2)
	})
}

func TestOpenCapacityBeforeDebit(t *testing.T) {
	s := newSaga(t)
	ctx := context.Background()

	s.users.On("GetUserByID", ctx, "user-1").
		Return(&domain.User{ID: "user-1", InventoryCap: 200}, nil)
	s.inv.On("CheckCapacity", ctx, "user-1", 1, 200).
		Return(nil, &domain.CapacityError{Current: 200, Max: 200, Requested: 1})

	_, err := s.svc.Open(ctx, domain.OpeningRequest{UserID: "user-1", CaseID: "vault", Quantity: 1})
	require.ErrorIs(t, err, domain.ErrInventoryFull)
	s.ledgerSvc.AssertNotCalled(t, "Debit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOpenInsufficientFunds(t *testing.T) {
	s := newSaga(t)
	ctx := context.Background()

	s.users.On("GetUserByID", ctx, "user-1").
		Return(&domain.User{ID: "user-1", InventoryCap: 200}, nil)
	s.inv.On("CheckCapacity", ctx, "user-1", 1, 200).
		Return(&domain.CapacityStatus{Current: 0, Max: 200}, nil)
	s.ledgerSvc.On("Debit", ctx, "user-1", 5.00, domain.ReasonCaseOpening).
		Return(0.0, &domain.InsufficientFundsError{Balance: 2.00, Required: 5.00})

	_, err := s.svc.Open(ctx, domain.OpeningRequest{UserID: "user-1", CaseID: "vault", Quantity: 1})
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)
	s.inv.AssertNotCalled(t, "AddEntries", mock.Anything, mock.Anything)
	s.ledgerSvc.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOpenDiscountApplied(t *testing.T) {
	s := newSaga(t)
	ctx := context.Background()

	// Level 40 on a quad open of the $25.00 case: 100 * 0.6 = 60.
	s.users.On("HasUnlockPass", ctx, "user-1", domain.PassQuadOpen).Return(true, nil)
	s.users.On("GetUserByID", ctx, "user-1").
		Return(&domain.User{ID: "user-1", InventoryCap: 200, DiscountLevel: 40}, nil)
	s.inv.On("CheckCapacity", ctx, "user-1", 4, 200).
		Return(&domain.CapacityStatus{Current: 0, Max: 200}, nil)
	s.ledgerSvc.On("Debit", ctx, "user-1", 60.00, domain.ReasonCaseOpening).Return(40.00, nil)
	s.inv.On("AddEntries", mock.Anything, mock.Anything).Return(nil)
	s.stats.On("RecordDrops", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	s.stats.On("UpdateBestDrop", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	result, err := s.svc.Open(ctx, domain.OpeningRequest{UserID: "user-1", CaseID: "royal", Quantity: 4})
	require.NoError(t, err)
	s.drain(t)
	assert.Equal(t, 60.00, result.TotalCost)
}

func TestOpenPersistFailureRefunds(t *testing.T) {
	ctx := context.Background()

	t.Run("refund lands", func(t *testing.T) {
		s := newSaga(t)
		var refunds []event.Event
		s.bus.Subscribe(event.RefundIssued, func(ctx context.Context, e event.Event) error {
			refunds = append(refunds, e)
			return nil
		})

		s.users.On("GetUserByID", ctx, "user-1").
			Return(&domain.User{ID: "user-1", InventoryCap: 200}, nil)
		s.inv.On("CheckCapacity", ctx, "user-1", 1, 200).
			Return(&domain.CapacityStatus{Current: 0, Max: 200}, nil)
		s.ledgerSvc.On("Debit", ctx, "user-1", 5.00, domain.ReasonCaseOpening).Return(5.00, nil)
		s.inv.On("AddEntries", mock.Anything, mock.Anything).Return(errors.New("insert failed"))
		s.ledgerSvc.On("Credit", mock.Anything, "user-1", 5.00, domain.ReasonInventoryRefund).Return(10.00, nil)

		_, err := s.svc.Open(ctx, domain.OpeningRequest{UserID: "user-1", CaseID: "vault", Quantity: 1})
		var persistErr *domain.RewardPersistError
		require.ErrorAs(t, err, &persistErr)
		assert.True(t, persistErr.Refunded)
		assert.Equal(t, 5.00, persistErr.Amount)

		require.Len(t, refunds, 1)
		payload, decodeErr := event.DecodePayload[event.RefundIssuedPayloadV1](refunds[0].Payload)
		require.NoError(t, decodeErr)
		assert.True(t, payload.Refunded)
	})

	t.Run("refund retried through a lost write race", func(t *testing.T) {
		s := newSaga(t)

		s.users.On("GetUserByID", ctx, "user-1").
			Return(&domain.User{ID: "user-1", InventoryCap: 200}, nil)
		s.inv.On("CheckCapacity", ctx, "user-1", 1, 200).
			Return(&domain.CapacityStatus{Current: 0, Max: 200}, nil)
		s.ledgerSvc.On("Debit", ctx, "user-1", 5.00, domain.ReasonCaseOpening).Return(5.00, nil)
		s.inv.On("AddEntries", mock.Anything, mock.Anything).Return(errors.New("insert failed"))
		s.ledgerSvc.On("Credit", mock.Anything, "user-1", 5.00, domain.ReasonInventoryRefund).
			Return(0.0, domain.ErrConcurrentModification).Once()
		s.ledgerSvc.On("Credit", mock.Anything, "user-1", 5.00, domain.ReasonInventoryRefund).
			Return(10.00, nil).Once()

		_, err := s.svc.Open(ctx, domain.OpeningRequest{UserID: "user-1", CaseID: "vault", Quantity: 1})
		var persistErr *domain.RewardPersistError
		require.ErrorAs(t, err, &persistErr)
		assert.True(t, persistErr.Refunded)
		s.ledgerSvc.AssertExpectations(t)
	})

	t.Run("failed refund flags reconciliation", func(t *testing.T) {
		s := newSaga(t)
		var refunds []event.Event
		s.bus.Subscribe(event.RefundIssued, func(ctx context.Context, e event.Event) error {
			refunds = append(refunds, e)
			return nil
		})

		s.users.On("GetUserByID", ctx, "user-1").
			Return(&domain.User{ID: "user-1", InventoryCap: 200}, nil)
		s.inv.On("CheckCapacity", ctx, "user-1", 1, 200).
			Return(&domain.CapacityStatus{Current: 0, Max: 200}, nil)
		s.ledgerSvc.On("Debit", ctx, "user-1", 5.00, domain.ReasonCaseOpening).Return(5.00, nil)
		s.inv.On("AddEntries", mock.Anything, mock.Anything).Return(errors.New("insert failed"))
		s.ledgerSvc.On("Credit", mock.Anything, "user-1", 5.00, domain.ReasonInventoryRefund).
			Return(0.0, errors.New("ledger down"))

		_, err := s.svc.Open(ctx, domain.OpeningRequest{UserID: "user-1", CaseID: "vault", Quantity: 1})
		var persistErr *domain.RewardPersistError
		require.ErrorAs(t, err, &persistErr)
		assert.False(t, persistErr.Refunded)

		require.Len(t, refunds, 1)
		payload, decodeErr := event.DecodePayload[event.RefundIssuedPayloadV1](refunds[0].Payload)
		require.NoError(t, decodeErr)
		assert.False(t, payload.Refunded)
	})
}

func TestOpenPublishesCompletionEvent(t *testing.T) {
	s := newSaga(t)
	ctx := context.Background()

	var completed []event.Event
	s.bus.Subscribe(event.OpeningCompleted, func(ctx context.Context, e event.Event) error {
		completed = append(completed, e)
		return nil
	})

	s.users.On("GetUserByID", ctx, "user-1").
		Return(&domain.User{ID: "user-1", InventoryCap: 200}, nil)
	s.inv.On("CheckCapacity", ctx, "user-1", 1, 200).
		Return(&domain.CapacityStatus{Current: 0, Max: 200}, nil)
	s.ledgerSvc.On("Debit", ctx, "user-1", 5.00, domain.ReasonCaseOpening).Return(5.00, nil)
	s.inv.On("AddEntries", mock.Anything, mock.Anything).Return(nil)
	s.stats.On("RecordDrops", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	s.stats.On("UpdateBestDrop", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	_, err := s.svc.Open(ctx, domain.OpeningRequest{UserID: "user-1", CaseID: "vault", Quantity: 1})
	require.NoError(t, err)
	s.drain(t)

	require.Len(t, completed, 1)
	payload, decodeErr := event.DecodePayload[event.OpeningCompletedPayloadV1](completed[0].Payload)
	require.NoError(t, decodeErr)
	assert.Equal(t, "vault", payload.CaseID)
	assert.Equal(t, 1, payload.Quantity)
	assert.Equal(t, 5.00, payload.TotalCost)
}

func TestPreviewReproducesOpening(t *testing.T) {
	s := newSaga(t)
	ctx := context.Background()

	s.users.On("GetUserByID", ctx, "user-1").
		Return(&domain.User{ID: "user-1", InventoryCap: 200}, nil)
	s.inv.On("CheckCapacity", ctx, "user-1", 1, 200).
		Return(&domain.CapacityStatus{Current: 0, Max: 200}, nil)
	s.ledgerSvc.On("Debit", ctx, "user-1", 5.00, domain.ReasonCaseOpening).Return(5.00, nil)
	s.inv.On("AddEntries", mock.Anything, mock.Anything).Return(nil)
	s.stats.On("RecordDrops", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	s.stats.On("UpdateBestDrop", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	opened, err := s.svc.Open(ctx, domain.OpeningRequest{UserID: "user-1", CaseID: "vault", Quantity: 1})
	require.NoError(t, err)
	s.drain(t)

	preview, err := s.svc.Preview(ctx, "vault", opened.Seed)
	require.NoError(t, err)
	assert.Equal(t, opened.Slots[0], preview.Slots[0], "same seed must replay the same reveal")

	fresh, err := s.svc.Preview(ctx, "vault", "")
	require.NoError(t, err)
	assert.NotEmpty(t, fresh.Seed)
	assert.NotEqual(t, opened.Seed, fresh.Seed)
}

func TestPreviewUnknownCase(t *testing.T) {
	s := newSaga(t)
	_, err := s.svc.Preview(context.Background(), "nope", "")
	assert.ErrorIs(t, err, domain.ErrCaseNotFound)
}
