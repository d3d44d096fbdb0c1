package domain

// Rarity is one tier of the global, ordered drop-weight classes. Chance is
// the base weight before per-case rescaling; Color is cosmetic.
type Rarity struct {
	Name   string  `json:"name"`
	Chance float64 `json:"chance"`
	Color  string  `json:"color"`
}

// ItemDefinition describes one item a case can drop. The reward value is
// rolled inside [MinValue, MaxValue]; RarityIndex points into the global
// rarity set.
type ItemDefinition struct {
	Name        string  `json:"name"`
	Icon        string  `json:"icon"`
	MinValue    float64 `json:"min_value"`
	MaxValue    float64 `json:"max_value"`
	RarityIndex int     `json:"rarity_index"`
}

// Case is a purchasable loot box with a fixed weighted item pool.
type Case struct {
	ID    string           `json:"id"`
	Name  string           `json:"name"`
	Price float64          `json:"price"`
	Items []ItemDefinition `json:"items"`
}
