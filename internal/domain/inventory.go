package domain

import "time"

// InventoryEntry is one won item in a user's inventory. Entries are created
// on successful saga completion and never mutated by this service.
type InventoryEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ItemName  string    `json:"item_name"`
	Rarity    string    `json:"rarity"`
	Value     float64   `json:"value"`
	CaseName  string    `json:"case_name"`
	CreatedAt time.Time `json:"created_at"`
}

// CapacityStatus reports inventory usage after a successful capacity check.
type CapacityStatus struct {
	Current int `json:"current"`
	Max     int `json:"max"`
}

// DropRecord is one append-only row of the drop history, written best-effort
// after an opening completes.
type DropRecord struct {
	UserID    string    `json:"user_id"`
	CaseID    string    `json:"case_id"`
	ItemName  string    `json:"item_name"`
	Rarity    string    `json:"rarity"`
	Value     float64   `json:"value"`
	CreatedAt time.Time `json:"created_at"`
}
