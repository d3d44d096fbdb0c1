package reveal

import (
	"github.com/strayline/casevault/internal/domain"
	"github.com/strayline/casevault/internal/probability"
)

// BuildSlot expands the master seed into the full reveal data for one slot:
// a 96-item sequence plus the winner position in [20,76).
//
// Every position, winner included, is drawn through the identical
// probability and value formula; the winner is simply the item standing at
// the winner index. Given the same master seed and slot the output is
// bit-for-bit reproducible.
func BuildSlot(c *domain.Case, pool []probability.PoolEntry, masterSeed string, slot int) domain.RewardSlot {
	items := make([]domain.RewardItem, domain.SlotSequenceLength)

	if len(pool) == 0 {
		// Case with no items in any present tier: deterministic fallback.
		fallback := probability.FallbackItem(c)
		for i := range items {
			items[i] = fallback
		}
	} else {
		for i := range items {
			draw := unit(subSeed(masterSeed, slot, i))
			value := unit(subSeed(masterSeed, slot, i) + valueSeedSuffix)
			items[i] = probability.Reward(probability.Draw(pool, draw), value)
		}
	}

	winnerIndex := winnerPosition(masterSeed, slot)

	return domain.RewardSlot{
		Items:       items,
		WinnerIndex: winnerIndex,
		Winner:      items[winnerIndex],
	}
}

// winnerPosition picks the winner index uniformly over [20,76) from one
// dedicated sub-seed.
func winnerPosition(masterSeed string, slot int) int {
	u := unit(subSeed(masterSeed, slot, winnerSeedIndex))
	span := domain.WinnerIndexMax - domain.WinnerIndexMin
	idx := domain.WinnerIndexMin + int(u*float64(span))
	if idx >= domain.WinnerIndexMax { // unreachable unless u rounds to 1.0
		idx = domain.WinnerIndexMax - 1
	}
	return idx
}
