package domain

// Opening limits
const (
	// MinOpenQuantity is the minimum number of cases per opening request
	MinOpenQuantity = 1

	// MaxOpenQuantity is the maximum number of cases per opening request
	MaxOpenQuantity = 4

	// SlotSequenceLength is the number of items in one reveal sequence
	SlotSequenceLength = 96

	// WinnerIndexMin is the inclusive lower bound of the winner position
	WinnerIndexMin = 20

	// WinnerIndexMax is the exclusive upper bound of the winner position.
	// The [20,76) window leaves head and tail room for the decelerating
	// reveal animation on the client.
	WinnerIndexMax = 76
)

// Discount upgrade
const (
	// MaxDiscountLevel caps the discount upgrade; level maps 1:1 to percent off
	MaxDiscountLevel = 40

	// DiscountUpgradeBaseCost is the cost of the first discount level
	DiscountUpgradeBaseCost = 100.0

	// DiscountUpgradeGrowth is the per-level exponential cost multiplier
	DiscountUpgradeGrowth = 1.38
)

// Inventory
const (
	// DefaultInventoryCapacity is the slot cap applied when the user profile
	// does not carry an explicit override
	DefaultInventoryCapacity = 200
)

// Ledger reasons recorded on the audit trail
const (
	ReasonCaseOpening      = "case opening"
	ReasonInventoryRefund  = "inventory failure"
	ReasonDiscountUpgrade  = "discount upgrade"
	ReasonDiscountRefund   = "discount upgrade failure"
)
