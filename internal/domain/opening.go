package domain

// OpeningRequest is the ephemeral, per-call input to the opening saga.
// Discount level and balance are re-fetched from storage during the
// snapshot stage; client-supplied values are never trusted.
type OpeningRequest struct {
	UserID   string
	CaseID   string
	Quantity int
}

// RewardItem is one drawn item with its rolled value.
type RewardItem struct {
	Name        string  `json:"name"`
	Icon        string  `json:"icon,omitempty"`
	Rarity      string  `json:"rarity"`
	RarityIndex int     `json:"rarityIndex"`
	Value       float64 `json:"value"`
}

// RewardSlot is the full reveal data for one opened case: a 96-item visual
// sequence, the winner's position inside it, and the winner itself. The
// winner is drawn with the same formula as every other position; only the
// revealed index differs.
type RewardSlot struct {
	Items       []RewardItem `json:"items"`
	WinnerIndex int          `json:"winnerIndex"`
	Winner      RewardItem   `json:"winner"`
}

// OpeningResult is the successful response of the opening saga.
type OpeningResult struct {
	Seed             string       `json:"seed"`
	Slots            []RewardSlot `json:"slots"`
	Winners          []RewardItem `json:"winners"`
	TotalValue       float64      `json:"totalValue"`
	TotalCost        float64      `json:"totalCost"`
	NetProfit        float64      `json:"netProfit"`
	NewBalance       float64      `json:"newBalance"`
	InventoryUpdated bool         `json:"inventoryUpdated"`
}

// SagaState tracks how far an opening progressed; terminal failure states
// distinguish "nothing happened" from "money moved".
type SagaState string

const (
	SagaValidated          SagaState = "validated"
	SagaDebited            SagaState = "debited"
	SagaRewardsGenerated   SagaState = "rewards_generated"
	SagaInventoryPersisted SagaState = "inventory_persisted"
	SagaCompleted          SagaState = "completed"

	SagaRejectedBeforeDebit SagaState = "rejected_before_debit"
	SagaDebitedAndRefunded  SagaState = "debited_and_refunded"
	// SagaDebitedRefundFailed is the most severe terminal state: the debit
	// landed, delivery failed, and the compensating refund failed too.
	SagaDebitedRefundFailed SagaState = "debited_refund_failed"
)
