package store

import (
	"time"

	"github.com/lusterchocolate/orderbot/internal/cart"
)

// Order statuses walked by the fulfillment worker.
const (
	OrderConfirmed      = "CONFIRMED"
	OrderPreparing      = "PREPARING"
	OrderOutForDelivery = "OUT_FOR_DELIVERY"
)

// Payment statuses
const (
	PaymentPending   = "PENDING"
	PaymentConfirmed = "CONFIRMED"
)

// Payment methods
const (
	MethodOrangeMoney    = "orange_money"
	MethodWave           = "wave"
	MethodCashOnDelivery = "cash_on_delivery"
)

// MessageRecord is one entry in a session's inbound-message audit trail.
type MessageRecord struct {
	Text string    `dynamodbav:"text"`
	At   time.Time `dynamodbav:"at"`
}

// Session is the per-identity conversational state, one document per phone
// number. Never deleted; a reset keyword re-initializes it in place.
type Session struct {
	Identity    string          `dynamodbav:"identity"` // PK
	Status      string          `dynamodbav:"status"`
	Cart        []cart.Line     `dynamodbav:"cart,omitempty"`
	BrowseIndex int             `dynamodbav:"browse_index"`
	Address     string          `dynamodbav:"address,omitempty"`
	PaymentRef  string          `dynamodbav:"payment_ref,omitempty"`
	OrderRef    string          `dynamodbav:"order_ref,omitempty"`
	Messages    []MessageRecord `dynamodbav:"messages,omitempty"`
	// Version guards the read-modify-write cycle: Put only succeeds if the
	// stored version still matches the one that was read.
	Version   int64     `dynamodbav:"version"`
	CreatedAt time.Time `dynamodbav:"created_at"`
	UpdatedAt time.Time `dynamodbav:"updated_at"`
}

// NewSession returns a fresh session at the main menu.
func NewSession(identity string, now time.Time) *Session {
	return &Session{
		Identity:  identity,
		Status:    "main",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// OrderLine is a frozen cart line with the name and price resolved at
// checkout time.
type OrderLine struct {
	Name      string  `dynamodbav:"name"`
	Quantity  int     `dynamodbav:"quantity"`
	UnitPrice float64 `dynamodbav:"unit_price"`
	Subtotal  float64 `dynamodbav:"subtotal"`
}

// Order is the item stored in the orders table. Immutable after creation
// except for the fulfillment status walked by the worker.
type Order struct {
	OrderRef      string      `dynamodbav:"order_ref"` // PK
	Identity      string      `dynamodbav:"identity"`
	Lines         []OrderLine `dynamodbav:"lines"`
	Address       string      `dynamodbav:"address"`
	Total         float64     `dynamodbav:"total"`
	PaymentMethod string      `dynamodbav:"payment_method"`
	Status        string      `dynamodbav:"status"`
	CreatedAt     time.Time   `dynamodbav:"created_at"`
	UpdatedAt     time.Time   `dynamodbav:"updated_at"`
	Attempts      int         `dynamodbav:"attempts,omitempty"`
}

// Payment is one provider-mediated payment attempt. OrderRef is filled in by
// the confirmation transaction, so a replayed confirmation can recover the
// order it already produced.
type Payment struct {
	PaymentRef       string    `dynamodbav:"payment_ref"` // PK
	Identity         string    `dynamodbav:"identity"`
	Amount           float64   `dynamodbav:"amount"`
	Method           string    `dynamodbav:"method"`
	Status           string    `dynamodbav:"status"`
	TransactionToken string    `dynamodbav:"transaction_token,omitempty"`
	OrderRef         string    `dynamodbav:"order_ref,omitempty"`
	CreatedAt        time.Time `dynamodbav:"created_at"`
	UpdatedAt        time.Time `dynamodbav:"updated_at"`
}
