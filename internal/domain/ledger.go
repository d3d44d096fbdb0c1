package domain

import "time"

// TransactionRecord is one append-only audit row of the balance ledger.
// Writing it is best-effort: a failed append never rolls back the balance
// change it describes.
type TransactionRecord struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Delta        float64   `json:"delta"`
	Reason       string    `json:"reason"`
	BalanceAfter float64   `json:"balance_after"`
	CreatedAt    time.Time `json:"created_at"`
}
