package reveal

import (
	crand "crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"sync/atomic"
	"time"
)

// nonce makes two seeds requested in the same nanosecond still distinct.
var nonce atomic.Uint64

// NewMasterSeed produces the unpredictable master seed for one opening
// request. It mixes secure random entropy with a process nonce and the
// request context (user, case, timestamp) and digests the result.
//
// The seed is unguessable in advance but deliberately NOT a provably-fair
// commitment: everything derived from it is reproducible once the seed is
// known, which is what the preview call relies on.
func NewMasterSeed(userID, caseID string) (string, error) {
	entropy := make([]byte, masterEntropyBytes)
	if _, err := crand.Read(entropy); err != nil {
		return "", fmt.Errorf("failed to gather seed entropy: %w", err)
	}

	material := fmt.Sprintf("%x:%d:%s:%s:%d",
		entropy, nonce.Add(1), userID, caseID, time.Now().UnixNano())

	sum := sha256.Sum256([]byte(material))
	return hex.EncodeToString(sum[:]), nil
}

// subSeed derives the deterministic per-position seed string.
func subSeed(master string, slot, index int) string {
	return fmt.Sprintf("%s:%d:%d", master, slot, index)
}

// unit maps a seed string deterministically onto [0,1).
//
// The top 53 bits of the SHA-256 digest become the float mantissa, so the
// result is uniform and exactly representable. Deterministic by design;
// the unpredictability lives entirely in the master seed.
func unit(seed string) float64 {
	sum := sha256.Sum256([]byte(seed))
	v := binary.BigEndian.Uint64(sum[:8])
	return float64(v>>unitDiscardBits) / float64(uint64(1)<<unitMantissaBits)
}
