// Package parser turns loosely structured order text ("3 cocoa butter, 6
// roasted nibs, done") into catalog selections. Extraction is best effort:
// segments that resolve to nothing are dropped rather than rejected, so a
// typo in one item never blocks the rest of the message.
package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/lusterchocolate/orderbot/internal/catalog"
)

// MaxQuantity is the largest per-line quantity accepted from free text.
// Larger numbers are far more likely to be dial codes or street numbers
// than a genuine order, so the segment is treated as unparseable.
const MaxQuantity = 20

var (
	qtyRe = regexp.MustCompile(`^(\d+)\s+(.+)$`)

	checkoutKeywords = map[string]struct{}{
		"done": {}, "checkout": {}, "buy": {}, "finish": {}, "complete": {}, "pay": {},
	}
)

// Item is one resolved selection.
type Item struct {
	Product  catalog.Product
	Quantity int
}

// Result is the net effect of parsing one message.
type Result struct {
	Items             []Item
	CheckoutRequested bool
	// Dropped counts segments that resolved to nothing. Surfaced as a
	// metric only; the user just sees that nothing was added.
	Dropped int
}

// Normalize lowercases, maps -/_ to space, strips remaining punctuation and
// collapses runs of whitespace. Letters with diacritics survive.
func Normalize(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '-' || r == '_':
			b.WriteRune(' ')
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			b.WriteRune(' ')
		case isWordRune(r):
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func isWordRune(r rune) bool {
	return r == ' ' ||
		(r >= '0' && r <= '9') ||
		(r >= 'a' && r <= 'z') ||
		r > 127 // accented letters and the like
}

// QuantityProduct matches a normalized "<quantity> <product>" segment and
// returns the quantity and the product query. Quantities outside
// [1, MaxQuantity] do not match.
func QuantityProduct(segment string) (int, string, bool) {
	m := qtyRe.FindStringSubmatch(segment)
	if m == nil {
		return 0, "", false
	}
	qty, err := strconv.Atoi(m[1])
	if err != nil || qty < 1 || qty > MaxQuantity {
		return 0, "", false
	}
	return qty, m[2], true
}

// ParseOrder splits raw text on commas and resolves each segment to a
// quantity plus product, a checkout keyword, or nothing.
func ParseOrder(cat *catalog.Catalog, raw string) Result {
	var res Result
	for _, seg := range strings.Split(raw, ",") {
		seg = Normalize(seg)
		if seg == "" {
			continue
		}

		if _, ok := checkoutKeywords[seg]; ok {
			res.CheckoutRequested = true
			continue
		}

		if qtyRe.MatchString(seg) {
			qty, rest, ok := QuantityProduct(seg)
			if !ok {
				res.Dropped++
				continue
			}
			if p, _, ok := cat.LookupByText(rest); ok {
				res.Items = append(res.Items, Item{Product: p, Quantity: qty})
			} else {
				res.Dropped++
			}
			continue
		}

		// Bare number selects by catalog position.
		if n, err := strconv.Atoi(seg); err == nil {
			if p, ok := cat.ByIndex(n - 1); ok {
				res.Items = append(res.Items, Item{Product: p, Quantity: 1})
			} else {
				res.Dropped++
			}
			continue
		}

		if p, _, ok := cat.LookupByText(seg); ok {
			res.Items = append(res.Items, Item{Product: p, Quantity: 1})
		} else {
			res.Dropped++
		}
	}
	return res
}
