package opening

import "time"

const (
	// poolCacheSize / poolCacheTTL bound the per-case probability pool cache
	poolCacheSize = 64
	poolCacheTTL  = 5 * time.Minute

	// refundAttempts bounds the compensating-credit retries after a failed
	// inventory persist; each retry only re-runs on a lost write race
	refundAttempts = 3

	// rareTierCount marks how many of the highest rarity tiers fire a
	// rare-drop event
	rareTierCount = 2
)
