package probability

import (
	"github.com/strayline/casevault/internal/domain"
	"github.com/strayline/casevault/internal/utils"
)

// PoolEntry is one item of a case's normalized weighted pool. Cumulative is
// the running weight on a 0-100 scale; entries are ordered so the cumulative
// values are non-decreasing and the final entry is exactly 100.
type PoolEntry struct {
	Item       domain.ItemDefinition
	Rarity     domain.Rarity
	RarityIdx  int
	Cumulative float64
}

// BuildPool builds the normalized cumulative-weight table for a case.
//
// Only rarity tiers actually present in the case's item list take part:
// their base weights are re-summed and rescaled to total 100, then each
// tier's share is split evenly across the items of that tier. The last
// entry's cumulative weight is forced to exactly 100 so accumulated
// floating-point error can never leave an unreachable gap at the top.
func BuildPool(c *domain.Case, rarities []domain.Rarity) []PoolEntry {
	itemsByTier := make(map[int][]domain.ItemDefinition)
	for _, item := range c.Items {
		if item.RarityIndex < 0 || item.RarityIndex >= len(rarities) {
			continue
		}
		itemsByTier[item.RarityIndex] = append(itemsByTier[item.RarityIndex], item)
	}

	var presentWeight float64
	for idx := range rarities {
		if len(itemsByTier[idx]) > 0 {
			presentWeight += rarities[idx].Chance
		}
	}
	if presentWeight <= 0 {
		return nil
	}

	var pool []PoolEntry
	var cumulative float64
	for idx, rarity := range rarities {
		items := itemsByTier[idx]
		if len(items) == 0 {
			continue
		}
		tierShare := rarity.Chance / presentWeight * 100
		itemShare := tierShare / float64(len(items))
		for _, item := range items {
			cumulative += itemShare
			pool = append(pool, PoolEntry{
				Item:       item,
				Rarity:     rarity,
				RarityIdx:  idx,
				Cumulative: cumulative,
			})
		}
	}

	// Force the top of the table regardless of rounding drift.
	pool[len(pool)-1].Cumulative = 100
	return pool
}

// Draw picks the pool entry for a unit draw u in [0,1): the first entry
// whose cumulative weight reaches u*100, falling back to the last entry.
func Draw(pool []PoolEntry, u float64) PoolEntry {
	target := u * 100
	for _, entry := range pool {
		if entry.Cumulative >= target {
			return entry
		}
	}
	return pool[len(pool)-1]
}

// RollValue computes the reward value of an item for an independent unit
// draw u in [0,1), rounded to 2 decimals.
func RollValue(item domain.ItemDefinition, u float64) float64 {
	return utils.Round2(item.MinValue + u*(item.MaxValue-item.MinValue))
}

// FallbackItem is returned when a case has no items in any present rarity
// tier: a deterministic stand-in rather than a failed opening.
func FallbackItem(c *domain.Case) domain.RewardItem {
	value := utils.Round2(c.Price / 2)
	return domain.RewardItem{
		Name:   c.Name + " Voucher",
		Rarity: "Common",
		Value:  value,
	}
}

// Reward converts a drawn pool entry and its value roll into a RewardItem.
func Reward(entry PoolEntry, u float64) domain.RewardItem {
	return domain.RewardItem{
		Name:        entry.Item.Name,
		Icon:        entry.Item.Icon,
		Rarity:      entry.Rarity.Name,
		RarityIndex: entry.RarityIdx,
		Value:       RollValue(entry.Item, u),
	}
}
