package catalog

import "strings"

// Product is an immutable catalog entry. Prices collapse the boutique's
// displayed ranges to one representative value per SKU.
type Product struct {
	ID          int
	Name        string
	UnitPrice   float64
	Description string
	// Aliases are normalized strings used for free-text matching.
	Aliases []string
}

// Catalog holds the product list plus the matching machinery. Loaded once at
// startup and shared read-only across requests.
type Catalog struct {
	products []Product
	// overrides maps ambiguous single-word queries to a specific SKU.
	// Kept as an explicit table rather than folded into the general
	// matching rules; entries here need product-owner sign-off.
	overrides map[string]int
	matcher   Matcher
}

// New builds a catalog over the given products. Product IDs are expected to
// be 1..len(products) in display order; positional selection relies on that.
func New(products []Product, overrides map[string]int, m Matcher) *Catalog {
	if m == nil {
		m = CharOverlapMatcher{Threshold: defaultSimilarityThreshold}
	}
	return &Catalog{products: products, overrides: overrides, matcher: m}
}

// Default returns the Luster Chocolate catalog.
func Default() *Catalog {
	return New(defaultProducts, defaultOverrides, nil)
}

// Size reports the number of products.
func (c *Catalog) Size() int { return len(c.products) }

// Products returns the catalog in display order.
func (c *Catalog) Products() []Product { return c.products }

// LookupByID returns the product with the given id.
func (c *Catalog) LookupByID(id int) (Product, bool) {
	for _, p := range c.products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// ByIndex returns the product at zero-based display position i.
func (c *Catalog) ByIndex(i int) (Product, bool) {
	if i < 0 || i >= len(c.products) {
		return Product{}, false
	}
	return c.products[i], true
}

// LookupByText resolves a normalized text segment to a product together with
// a confidence in (0,1]. Resolution order, most to least specific:
// disambiguation override, exact alias, substring alias, similarity score.
func (c *Catalog) LookupByText(segment string) (Product, float64, bool) {
	segment = strings.TrimSpace(segment)
	if segment == "" {
		return Product{}, 0, false
	}

	if id, ok := c.overrides[segment]; ok {
		if p, ok := c.LookupByID(id); ok {
			return p, 1.0, true
		}
	}

	for _, p := range c.products {
		for _, a := range p.Aliases {
			if segment == a {
				return p, 1.0, true
			}
		}
	}

	for _, p := range c.products {
		for _, a := range p.Aliases {
			if strings.Contains(segment, a) || strings.Contains(a, segment) {
				return p, 0.9, true
			}
		}
	}

	// Similarity pass: highest score wins, first catalog entry breaks ties.
	var best Product
	bestScore := 0.0
	found := false
	for _, p := range c.products {
		for _, a := range p.Aliases {
			score := c.matcher.Score(segment, a)
			if score > bestScore {
				best, bestScore, found = p, score, true
			}
		}
	}
	if found && c.matcher.Accept(bestScore) {
		return best, bestScore, true
	}
	return Product{}, 0, false
}
