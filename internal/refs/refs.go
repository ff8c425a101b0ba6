// Package refs generates the opaque tokens stamped on payments and orders.
// Uniqueness is probabilistic (UUID-derived); collisions are not checked.
package refs

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// PaymentRef returns an 8-character uppercase token for a payment attempt.
func PaymentRef() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(raw[:8])
}

// OrderRef returns a human-readable order token: a minute-resolution UTC
// timestamp plus a short random suffix, so refs sort by creation time.
func OrderRef(now time.Time) string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "ORD-" + now.UTC().Format("200601021504") + "-" + strings.ToUpper(raw[:4])
}
