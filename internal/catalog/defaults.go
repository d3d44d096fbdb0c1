package catalog

import "github.com/strayline/casevault/internal/domain"

// Built-in catalog used when no JSON config is provided. Mirrors
// configs/catalog.json so a bare checkout still serves openings.

func defaultRarities() []domain.Rarity {
	return []domain.Rarity{
		{Name: "Common", Chance: 55, Color: "#b0c3d9"},
		{Name: "Uncommon", Chance: 25, Color: "#5e98d9"},
		{Name: "Rare", Chance: 12, Color: "#4b69ff"},
		{Name: "Epic", Chance: 5.5, Color: "#8847ff"},
		{Name: "Legendary", Chance: 2, Color: "#d32ce6"},
		{Name: "Mythic", Chance: 0.5, Color: "#eb4b4b"},
	}
}

func defaultCases() []domain.Case {
	return []domain.Case{
		{
			ID:    "starter",
			Name:  "Starter Case",
			Price: 2.50,
			Items: []domain.ItemDefinition{
				{Name: "Rusty Gear", Icon: "rusty_gear.png", MinValue: 0.25, MaxValue: 1.50, RarityIndex: 0},
				{Name: "Tin Whistle", Icon: "tin_whistle.png", MinValue: 0.40, MaxValue: 2.00, RarityIndex: 0},
				{Name: "Brass Compass", Icon: "brass_compass.png", MinValue: 1.00, MaxValue: 4.00, RarityIndex: 1},
				{Name: "Silver Locket", Icon: "silver_locket.png", MinValue: 2.50, MaxValue: 8.00, RarityIndex: 2},
				{Name: "Gilded Chalice", Icon: "gilded_chalice.png", MinValue: 6.00, MaxValue: 20.00, RarityIndex: 3},
			},
		},
		{
			ID:    "vault",
			Name:  "Vault Case",
			Price: 5.00,
			Items: []domain.ItemDefinition{
				{Name: "Iron Ingot", Icon: "iron_ingot.png", MinValue: 0.50, MaxValue: 3.00, RarityIndex: 0},
				{Name: "Copper Coil", Icon: "copper_coil.png", MinValue: 0.75, MaxValue: 3.50, RarityIndex: 0},
				{Name: "Jade Figurine", Icon: "jade_figurine.png", MinValue: 2.00, MaxValue: 9.00, RarityIndex: 1},
				{Name: "Amber Prism", Icon: "amber_prism.png", MinValue: 4.00, MaxValue: 15.00, RarityIndex: 2},
				{Name: "Obsidian Blade", Icon: "obsidian_blade.png", MinValue: 10.00, MaxValue: 35.00, RarityIndex: 3},
				{Name: "Phoenix Feather", Icon: "phoenix_feather.png", MinValue: 25.00, MaxValue: 90.00, RarityIndex: 4},
			},
		},
		{
			ID:    "royal",
			Name:  "Royal Case",
			Price: 25.00,
			Items: []domain.ItemDefinition{
				{Name: "Court Signet", Icon: "court_signet.png", MinValue: 3.00, MaxValue: 14.00, RarityIndex: 0},
				{Name: "Velvet Crown", Icon: "velvet_crown.png", MinValue: 8.00, MaxValue: 30.00, RarityIndex: 1},
				{Name: "Sapphire Orb", Icon: "sapphire_orb.png", MinValue: 15.00, MaxValue: 60.00, RarityIndex: 2},
				{Name: "Dragon Scepter", Icon: "dragon_scepter.png", MinValue: 40.00, MaxValue: 150.00, RarityIndex: 3},
				{Name: "Sunforged Crown", Icon: "sunforged_crown.png", MinValue: 90.00, MaxValue: 400.00, RarityIndex: 4},
				{Name: "Eternity Shard", Icon: "eternity_shard.png", MinValue: 250.00, MaxValue: 1200.00, RarityIndex: 5},
			},
		},
	}
}
