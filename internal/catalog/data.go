package catalog

// defaultProducts is the boutique's product list in display order.
// IDs double as one-based display positions.
var defaultProducts = []Product{
	{
		ID:          1,
		Name:        "Roasted Coffee 70% Cocoa",
		UnitPrice:   5.00,
		Description: "Dark chocolate bar with roasted Ivorian coffee.",
		Aliases:     []string{"roasted coffee", "coffee bar", "coffee", "cafe torrefie", "café torréfié"},
	},
	{
		ID:          2,
		Name:        "Roasted Cocoa 70% Bar",
		UnitPrice:   5.00,
		Description: "Dark chocolate bar with crunchy roasted cocoa.",
		Aliases:     []string{"roasted cocoa", "cocoa bar", "cacao torrefie", "cacao torréfié"},
	},
	{
		ID:          3,
		Name:        "Ginger Chocolate Bar",
		UnitPrice:   5.50,
		Description: "Dark chocolate bar infused with ginger.",
		Aliases:     []string{"ginger chocolate", "ginger bar", "ginger", "gingembre"},
	},
	{
		ID:          4,
		Name:        "Cocoa Nibs Bar",
		UnitPrice:   5.50,
		Description: "Dark chocolate bar studded with cocoa nibs.",
		Aliases:     []string{"cocoa nibs bar", "nibs bar", "barre de nibs"},
	},
	{
		ID:          5,
		Name:        "Cocoa Butter",
		UnitPrice:   12.00,
		Description: "Pure pressed cocoa butter, 250g jar.",
		Aliases:     []string{"cocoa butter", "butter", "beurre de cacao", "beurre"},
	},
	{
		ID:          6,
		Name:        "Cashews in Dark Chocolate",
		UnitPrice:   7.50,
		Description: "Roasted cashews coated in 70% chocolate.",
		Aliases:     []string{"cashews in dark chocolate", "cashews", "cashew", "noix de cajou", "cajou"},
	},
	{
		ID:          7,
		Name:        "Roasted Nibs (Pouch)",
		UnitPrice:   6.00,
		Description: "Roasted cocoa nibs, 200g resealable pouch.",
		Aliases:     []string{"roasted nibs", "nibs pouch", "cocoa nibs", "nibs de cacao"},
	},
	{
		ID:          8,
		Name:        "Cocoa Beans",
		UnitPrice:   9.00,
		Description: "Whole fermented and dried cocoa beans, 500g.",
		Aliases:     []string{"cocoa beans", "beans", "grains de cacao", "grains"},
	},
	{
		ID:          9,
		Name:        "Cocoa Powder",
		UnitPrice:   8.00,
		Description: "Natural unsweetened cocoa powder, 250g.",
		Aliases:     []string{"cocoa powder", "powder", "poudre de cacao", "poudre"},
	},
}

// defaultOverrides pins ambiguous single-word queries to a specific SKU.
// "nibs" alone could mean the bar or the pouch; the boutique sells far more
// pouches, so it wins. TODO: confirm the "nibs" mapping with the boutique
// before adding more entries here.
var defaultOverrides = map[string]int{
	"nibs": 7,
}
