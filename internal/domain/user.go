package domain

// User holds the profile fields the reward engine needs downstream. Auth and
// profile management live outside this service; rows are read authoritative
// from storage, never trusted from the client.
type User struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Level         int    `json:"level"`
	AvatarURL     string `json:"avatar_url,omitempty"`
	InventoryCap  int    `json:"inventory_cap"`
	DiscountLevel int    `json:"discount_level"`
}

// PlayerBalance is a user's current balance in 2-decimal currency units.
// The amount itself doubles as the optimistic-concurrency token: writes are
// equality-guarded on the value read.
type PlayerBalance struct {
	UserID string  `json:"user_id"`
	Amount float64 `json:"amount"`
}

// UnlockPass gates simultaneous multi-case openings.
type UnlockPass string

const (
	PassDoubleOpen UnlockPass = "double_open"
	PassTripleOpen UnlockPass = "triple_open"
	PassQuadOpen   UnlockPass = "quad_open"
)

// RequiredPassForQuantity maps an opening quantity to the pass that gates it.
// Quantity 1 needs no pass; ok is false for quantities outside [1,4].
func RequiredPassForQuantity(quantity int) (pass UnlockPass, required bool, ok bool) {
	switch quantity {
	case 1:
		return "", false, true
	case 2:
		return PassDoubleOpen, true, true
	case 3:
		return PassTripleOpen, true, true
	case 4:
		return PassQuadOpen, true, true
	default:
		return "", false, false
	}
}
