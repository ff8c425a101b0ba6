// Package cart implements the shopping-cart engine as pure functions over a
// slice of lines. Callers own the slice; nothing here holds state.
package cart

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/lusterchocolate/orderbot/internal/catalog"
)

// Line is one (product, quantity) pair. A cart holds at most one Line per
// product; repeated adds bump the quantity instead.
type Line struct {
	ProductID int `dynamodbav:"product_id" json:"product_id"`
	Quantity  int `dynamodbav:"quantity" json:"quantity"`
}

// ErrIndexOutOfRange is returned by RemoveLine for an invalid position.
var ErrIndexOutOfRange = errors.New("cart index out of range")

// AddLines merges adds into a copy of lines and returns the updated cart
// plus a short human-readable summary of what was added, for message
// composition. The input slice is left untouched.
func AddLines(lines []Line, adds []Line, cat *catalog.Catalog) ([]Line, string) {
	out := make([]Line, len(lines))
	copy(out, lines)

	var added []string
	for _, a := range adds {
		if a.Quantity < 1 {
			continue
		}
		merged := false
		for i := range out {
			if out[i].ProductID == a.ProductID {
				out[i].Quantity += a.Quantity
				merged = true
				break
			}
		}
		if !merged {
			out = append(out, Line{ProductID: a.ProductID, Quantity: a.Quantity})
		}
		if p, ok := cat.LookupByID(a.ProductID); ok {
			added = append(added, fmt.Sprintf("%d x %s", a.Quantity, p.Name))
		}
	}
	return out, strings.Join(added, ", ")
}

// RemoveLine removes the line at the given one-based position and returns
// the shortened cart together with the removed line.
func RemoveLine(lines []Line, oneBased int) ([]Line, Line, error) {
	if oneBased < 1 || oneBased > len(lines) {
		return lines, Line{}, ErrIndexOutOfRange
	}
	removed := lines[oneBased-1]
	out := make([]Line, 0, len(lines)-1)
	out = append(out, lines[:oneBased-1]...)
	out = append(out, lines[oneBased:]...)
	return out, removed, nil
}

// Total sums unit price times quantity over the cart, rounded to cents.
func Total(lines []Line, cat *catalog.Catalog) float64 {
	var sum float64
	for _, l := range lines {
		if p, ok := cat.LookupByID(l.ProductID); ok {
			sum += p.UnitPrice * float64(l.Quantity)
		}
	}
	return Round2(sum)
}

// Clear returns an empty cart.
func Clear() []Line { return nil }

// Display renders a numbered listing with per-line subtotals and the total.
func Display(lines []Line, cat *catalog.Catalog) string {
	if len(lines) == 0 {
		return "Your cart is empty."
	}
	var b strings.Builder
	b.WriteString("🛒 Your cart:\n")
	for i, l := range lines {
		p, ok := cat.LookupByID(l.ProductID)
		if !ok {
			continue
		}
		sub := Round2(p.UnitPrice * float64(l.Quantity))
		fmt.Fprintf(&b, "%d. %d x %s — $%.2f\n", i+1, l.Quantity, p.Name, sub)
	}
	fmt.Fprintf(&b, "Total: $%.2f", Total(lines, cat))
	return b.String()
}

// Round2 rounds to two decimals (currency minor units).
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
