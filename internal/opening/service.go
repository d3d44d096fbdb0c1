package opening

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/strayline/casevault/internal/catalog"
	"github.com/strayline/casevault/internal/domain"
	"github.com/strayline/casevault/internal/event"
	"github.com/strayline/casevault/internal/inventory"
	"github.com/strayline/casevault/internal/ledger"
	"github.com/strayline/casevault/internal/logger"
	"github.com/strayline/casevault/internal/probability"
	"github.com/strayline/casevault/internal/repository"
	"github.com/strayline/casevault/internal/reveal"
	"github.com/strayline/casevault/internal/utils"
)

// Service runs the opening saga: validate, snapshot, guard capacity, debit,
// generate, persist, then best-effort follow-ups. Once the debit lands the
// saga always runs to a terminal state; a failed delivery is compensated
// with a refund, never rolled back.
type Service interface {
	Open(ctx context.Context, req domain.OpeningRequest) (*domain.OpeningResult, error)

	// Preview rebuilds the reveal data for a case without touching money
	// or inventory. With an empty seed a fresh one is generated; with a
	// known seed the output reproduces an earlier opening bit-for-bit.
	Preview(ctx context.Context, caseID, seed string) (*domain.OpeningResult, error)

	// Shutdown waits for in-flight background follow-ups to drain.
	Shutdown(ctx context.Context) error
}

type service struct {
	catalog   *catalog.Catalog
	users     repository.User
	ledger    ledger.Service
	inventory inventory.Service
	stats     StatsRecorder
	bus       event.Bus

	poolCache *expirable.LRU[string, []probability.PoolEntry]
	wg        sync.WaitGroup
}

// StatsRecorder is the slice of the stats service the saga needs for its
// best-effort follow-ups.
type StatsRecorder interface {
	RecordDrops(ctx context.Context, userID, caseID string, winners []domain.RewardItem) error
	UpdateBestDrop(ctx context.Context, userID string, winners []domain.RewardItem) error
}

// NewService creates a new opening service. bus and stats may be nil; the
// saga then skips the corresponding follow-ups.
func NewService(cat *catalog.Catalog, users repository.User, ledgerSvc ledger.Service, inv inventory.Service, stats StatsRecorder, bus event.Bus) Service {
	return &service{
		catalog:   cat,
		users:     users,
		ledger:    ledgerSvc,
		inventory: inv,
		stats:     stats,
		bus:       bus,
		poolCache: expirable.NewLRU[string, []probability.PoolEntry](poolCacheSize, nil, poolCacheTTL),
	}
}

// OpenCost is the discounted price of opening quantity cases.
func OpenCost(price float64, quantity, discountLevel int) float64 {
	discount := utils.ClampInt(discountLevel, 0, domain.MaxDiscountLevel)
	return utils.Round2(price * float64(quantity) * (1 - float64(discount)/100))
}

func (s *service) Open(ctx context.Context, req domain.OpeningRequest) (*domain.OpeningResult, error) {
	log := logger.FromContext(ctx)

	// Stage 1: validate without side effects.
	if req.Quantity < domain.MinOpenQuantity || req.Quantity > domain.MaxOpenQuantity {
		return nil, domain.ErrInvalidQuantity
	}
	c, err := s.catalog.GetCase(req.CaseID)
	if err != nil {
		return nil, err
	}

	pass, required, _ := domain.RequiredPassForQuantity(req.Quantity)
	if required {
		held, err := s.users.HasUnlockPass(ctx, req.UserID, pass)
		if err != nil {
			return nil, err
		}
		if !held {
			return nil, &domain.PassRequiredError{RequiredPass: pass, Quantity: req.Quantity}
		}
	}

	// Stage 2: snapshot authoritative state; client values are never used.
	user, err := s.users.GetUserByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	// Stage 3: capacity before any money moves.
	if _, err := s.inventory.CheckCapacity(ctx, req.UserID, req.Quantity, user.InventoryCap); err != nil {
		log.Info("Opening rejected", "state", domain.SagaRejectedBeforeDebit,
			"user_id", req.UserID, "case_id", req.CaseID, "error", err)
		return nil, err
	}

	log.Debug("Opening validated", "state", domain.SagaValidated,
		"user_id", req.UserID, "case_id", req.CaseID, "quantity", req.Quantity)

	// Stages 4-5: discounted cost, then the one guarded debit.
	cost := OpenCost(c.Price, req.Quantity, user.DiscountLevel)
	newBalance, err := s.ledger.Debit(ctx, req.UserID, cost, domain.ReasonCaseOpening)
	if err != nil {
		return nil, err
	}

	// Money has moved: detach from the request context so a client
	// disconnect cannot strand the debit between stages.
	dctx := context.Background()
	if reqID, ok := logger.RequestIDFromContext(ctx); ok {
		dctx = logger.WithRequestID(dctx, reqID)
	}
	log = logger.FromContext(dctx)
	log.Info("Opening debited", "state", domain.SagaDebited,
		"user_id", req.UserID, "case_id", req.CaseID, "cost", cost)

	// Stage 6: deterministic expansion from a fresh master seed.
	seed, err := reveal.NewMasterSeed(req.UserID, req.CaseID)
	if err != nil {
		return nil, s.compensate(dctx, req.UserID, cost, err)
	}

	pool := s.poolFor(c)
	slots := make([]domain.RewardSlot, req.Quantity)
	winners := make([]domain.RewardItem, req.Quantity)
	totalValue := 0.0
	for i := range slots {
		slots[i] = reveal.BuildSlot(c, pool, seed, i)
		winners[i] = slots[i].Winner
		totalValue += winners[i].Value
	}
	totalValue = utils.Round2(totalValue)

	log.Debug("Opening rewards generated", "state", domain.SagaRewardsGenerated,
		"user_id", req.UserID, "seed", seed, "total_value", totalValue)

	// Stage 7: deliver. Failure here triggers the compensating refund.
	if err := s.inventory.AddEntries(dctx, s.buildEntries(req.UserID, c, winners)); err != nil {
		return nil, s.compensate(dctx, req.UserID, cost, err)
	}

	log.Debug("Opening inventory persisted", "state", domain.SagaInventoryPersisted,
		"user_id", req.UserID, "entries", len(winners))

	// Stage 8: best-effort follow-ups, tracked for shutdown draining.
	s.wg.Add(3)
	go s.recordHistory(dctx, req, winners)
	go s.recordBestDrop(dctx, req.UserID, winners)
	go s.publishEvents(dctx, req, winners, cost, totalValue)

	log.Info("Opening completed", "state", domain.SagaCompleted,
		"user_id", req.UserID, "case_id", req.CaseID, "quantity", req.Quantity,
		"cost", cost, "total_value", totalValue, "new_balance", newBalance)

	return &domain.OpeningResult{
		Seed:             seed,
		Slots:            slots,
		Winners:          winners,
		TotalValue:       totalValue,
		TotalCost:        cost,
		NetProfit:        utils.Round2(totalValue - cost),
		NewBalance:       newBalance,
		InventoryUpdated: true,
	}, nil
}

func (s *service) Preview(ctx context.Context, caseID, seed string) (*domain.OpeningResult, error) {
	c, err := s.catalog.GetCase(caseID)
	if err != nil {
		return nil, err
	}

	if seed == "" {
		seed, err = reveal.NewMasterSeed("preview", caseID)
		if err != nil {
			return nil, err
		}
	}

	slot := reveal.BuildSlot(c, s.poolFor(c), seed, 0)
	return &domain.OpeningResult{
		Seed:       seed,
		Slots:      []domain.RewardSlot{slot},
		Winners:    []domain.RewardItem{slot.Winner},
		TotalValue: slot.Winner.Value,
	}, nil
}

func (s *service) Shutdown(ctx context.Context) error {
	logger.FromContext(ctx).Info("Opening service shutting down, waiting for background tasks...")
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// poolFor returns the cumulative probability pool for a case, cached per
// case ID.
func (s *service) poolFor(c *domain.Case) []probability.PoolEntry {
	if pool, ok := s.poolCache.Get(c.ID); ok {
		return pool
	}
	pool := probability.BuildPool(c, s.catalog.Rarities())
	s.poolCache.Add(c.ID, pool)
	return pool
}

func (s *service) buildEntries(userID string, c *domain.Case, winners []domain.RewardItem) []domain.InventoryEntry {
	now := time.Now().UTC()
	entries := make([]domain.InventoryEntry, len(winners))
	for i, winner := range winners {
		entries[i] = domain.InventoryEntry{
			ID:        uuid.NewString(),
			UserID:    userID,
			ItemName:  winner.Name,
			Rarity:    winner.Rarity,
			Value:     winner.Value,
			CaseName:  c.Name,
			CreatedAt: now,
		}
	}
	return entries
}

// compensate refunds a debit whose rewards could not be delivered. The
// credit is retried on lost write races only; any terminal failure is an
// incident needing manual reconciliation.
func (s *service) compensate(ctx context.Context, userID string, cost float64, cause error) error {
	log := logger.FromContext(ctx)

	var refundErr error
	for attempt := 1; attempt <= refundAttempts; attempt++ {
		_, refundErr = s.ledger.Credit(ctx, userID, cost, domain.ReasonInventoryRefund)
		if refundErr == nil || !errors.Is(refundErr, domain.ErrConcurrentModification) {
			break
		}
	}

	refunded := refundErr == nil
	if refunded {
		log.Warn("Opening compensated", "state", domain.SagaDebitedAndRefunded,
			"user_id", userID, "amount", cost, "cause", cause)
	} else {
		log.Error("Opening refund failed, manual reconciliation required",
			"state", domain.SagaDebitedRefundFailed,
			"user_id", userID, "amount", cost, "cause", cause, "refund_error", refundErr)
	}

	if s.bus != nil {
		if err := s.bus.Publish(ctx, event.NewRefundIssuedEvent(userID, cost, domain.ReasonInventoryRefund, refunded)); err != nil {
			log.Warn("Failed to publish refund event", "user_id", userID, "error", err)
		}
	}

	return &domain.RewardPersistError{Amount: cost, Refunded: refunded, Cause: cause}
}

func (s *service) recordHistory(ctx context.Context, req domain.OpeningRequest, winners []domain.RewardItem) {
	defer s.wg.Done()

	if s.stats == nil {
		return
	}
	if err := s.stats.RecordDrops(ctx, req.UserID, req.CaseID, winners); err != nil {
		logger.FromContext(ctx).Warn("Failed to record drop history",
			"user_id", req.UserID, "error", err)
	}
}

func (s *service) recordBestDrop(ctx context.Context, userID string, winners []domain.RewardItem) {
	defer s.wg.Done()

	if s.stats == nil {
		return
	}
	if err := s.stats.UpdateBestDrop(ctx, userID, winners); err != nil {
		logger.FromContext(ctx).Warn("Failed to update best drop",
			"user_id", userID, "error", err)
	}
}

// publishEvents emits the completion event plus one rare-drop event per
// winner from the top rarity tiers.
func (s *service) publishEvents(ctx context.Context, req domain.OpeningRequest, winners []domain.RewardItem, cost, totalValue float64) {
	defer s.wg.Done()

	if s.bus == nil {
		return
	}
	log := logger.FromContext(ctx)

	evt := event.NewOpeningCompletedEvent(req.UserID, req.CaseID, req.Quantity,
		cost, totalValue, utils.Round2(totalValue-cost))
	if err := s.bus.Publish(ctx, evt); err != nil {
		log.Warn("Failed to publish opening event", "user_id", req.UserID, "error", err)
	}

	rareFloor := len(s.catalog.Rarities()) - rareTierCount
	for _, winner := range winners {
		if winner.RarityIndex < rareFloor {
			continue
		}
		rare := event.NewRareDropEvent(req.UserID, req.CaseID, winner.Name, winner.Rarity, winner.Value)
		if err := s.bus.Publish(ctx, rare); err != nil {
			log.Warn("Failed to publish rare drop event",
				"user_id", req.UserID, "item", winner.Name, "error", err)
		}
	}
}
