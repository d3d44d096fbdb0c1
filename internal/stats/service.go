package stats

import (
	"context"
	"errors"
	"time"

	"github.com/strayline/casevault/internal/domain"
	"github.com/strayline/casevault/internal/logger"
	"github.com/strayline/casevault/internal/repository"
)

// Service records drop history and the per-user best-drop high-water mark.
// Both writes are best-effort from the caller's point of view: an opening
// never fails because a stats row was lost.
type Service interface {
	RecordDrops(ctx context.Context, userID, caseID string, winners []domain.RewardItem) error
	UpdateBestDrop(ctx context.Context, userID string, winners []domain.RewardItem) error
}

type service struct {
	repo repository.Stats
}

// NewService creates a new stats service
func NewService(repo repository.Stats) Service {
	return &service{repo: repo}
}

// RecordDrops writes one history row per winner. The batch insert is tried
// first; when it fails each row is retried individually so one bad row does
// not lose the whole opening's history.
func (s *service) RecordDrops(ctx context.Context, userID, caseID string, winners []domain.RewardItem) error {
	if len(winners) == 0 {
		return nil
	}

	now := time.Now().UTC()
	records := make([]domain.DropRecord, len(winners))
	for i, winner := range winners {
		records[i] = domain.DropRecord{
			UserID:    userID,
			CaseID:    caseID,
			ItemName:  winner.Name,
			Rarity:    winner.Rarity,
			Value:     winner.Value,
			CreatedAt: now,
		}
	}

	if err := s.repo.RecordDrops(ctx, records); err != nil {
		logger.FromContext(ctx).Warn("Batch drop history insert failed, retrying per row",
			"user_id", userID, "rows", len(records), "error", err)
		return s.recordPerRow(ctx, userID, records)
	}
	return nil
}

func (s *service) recordPerRow(ctx context.Context, userID string, records []domain.DropRecord) error {
	var failures []error
	for _, record := range records {
		if err := s.repo.RecordDrop(ctx, record); err != nil {
			logger.FromContext(ctx).Warn("Drop history row lost",
				"user_id", userID, "item", record.ItemName, "error", err)
			failures = append(failures, err)
		}
	}
	return errors.Join(failures...)
}

// UpdateBestDrop raises the user's high-water mark to the most valuable
// winner of this opening, if it beats the stored one.
func (s *service) UpdateBestDrop(ctx context.Context, userID string, winners []domain.RewardItem) error {
	if len(winners) == 0 {
		return nil
	}

	best := winners[0]
	for _, winner := range winners[1:] {
		if winner.Value > best.Value {
			best = winner
		}
	}

	raised, err := s.repo.UpdateBestDropIfHigher(ctx, userID, best.Name, best.Value)
	if err != nil {
		return err
	}
	if raised {
		logger.FromContext(ctx).Info("New best drop",
			"user_id", userID, "item", best.Name, "value", best.Value)
	}
	return nil
}
