// Package dialogue drives the ordering conversation: per-identity session
// status, global keyword overrides, and the per-state handlers that turn
// inbound text into cart changes, orders, and outbound messages.
package dialogue

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/lusterchocolate/orderbot/internal/cart"
	"github.com/lusterchocolate/orderbot/internal/catalog"
	"github.com/lusterchocolate/orderbot/internal/parser"
	"github.com/lusterchocolate/orderbot/internal/refs"
	"github.com/lusterchocolate/orderbot/internal/store"
)

// Reply is one outbound message instruction for the transport layer.
type Reply struct {
	Text     string
	MediaURL string
}

// SessionStore is the session persistence the engine needs.
type SessionStore interface {
	Get(ctx context.Context, identity string) (*store.Session, error)
	Put(ctx context.Context, sess *store.Session) error
}

// OrderStore persists finalized orders.
type OrderStore interface {
	Append(ctx context.Context, order store.Order) error
	ConfirmPaymentAndCreate(ctx context.Context, paymentRef, transactionToken string, order store.Order) error
}

// PaymentStore persists payment attempts.
type PaymentStore interface {
	Append(ctx context.Context, p store.Payment) error
	Get(ctx context.Context, paymentRef string) (*store.Payment, error)
}

// EventPublisher notifies downstream consumers of confirmed orders.
// Optional; publishing is best effort (the order is already persisted).
type EventPublisher interface {
	PublishOrderConfirmed(ctx context.Context, orderRef, identity string) error
}

// MetricsEmitter counts business events. Optional.
type MetricsEmitter interface {
	Count(ctx context.Context, name string, value float64)
}

// Metric names emitted by the engine.
const (
	MetricOrdersPlaced      = "OrdersPlaced"
	MetricPaymentsConfirmed = "PaymentsConfirmed"
	MetricParseMisses       = "ParseMisses"
)

// Config wires an Engine.
type Config struct {
	Catalog      *catalog.Catalog
	Sessions     SessionStore
	Orders       OrderStore
	Payments     PaymentStore
	Events       EventPublisher
	Metrics      MetricsEmitter
	MenuMediaURL string
}

// Engine is the dialogue state machine. Safe for concurrent use: all
// per-user state lives in the session documents.
type Engine struct {
	catalog      *catalog.Catalog
	sessions     SessionStore
	orders       OrderStore
	payments     PaymentStore
	events       EventPublisher
	metrics      MetricsEmitter
	menuMediaURL string

	nowFunc       func() time.Time
	newPaymentRef func() string
	newOrderRef   func(time.Time) string
}

// NewEngine builds an Engine from cfg. Catalog, Sessions, Orders and
// Payments are required; Events and Metrics may be nil.
func NewEngine(cfg Config) *Engine {
	mediaURL := cfg.MenuMediaURL
	if mediaURL == "" {
		mediaURL = defaultMenuMediaURL
	}
	return &Engine{
		catalog:       cfg.Catalog,
		sessions:      cfg.Sessions,
		orders:        cfg.Orders,
		payments:      cfg.Payments,
		events:        cfg.Events,
		metrics:       cfg.Metrics,
		menuMediaURL:  mediaURL,
		nowFunc:       time.Now,
		newPaymentRef: refs.PaymentRef,
		newOrderRef:   refs.OrderRef,
	}
}

var resetKeywords = map[string]struct{}{
	"hi": {}, "hello": {}, "menu": {}, "start": {}, "reset": {},
}

// HandleMessage processes one inbound message and returns the outbound
// replies. User-input problems never surface as errors, only as corrective
// replies; an error here means a store failure the transport should retry.
func (e *Engine) HandleMessage(ctx context.Context, identity, body string) ([]Reply, error) {
	now := e.nowFunc()
	txt := textFor(DetectLang(body))

	sess, err := e.sessions.Get(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var replies []Reply
	if sess == nil {
		// First contact: greet with the main menu.
		sess = store.NewSession(identity, now)
		replies = e.menuReplies(txt)
	} else {
		replies, err = e.route(ctx, sess, body, txt, now)
		if err != nil {
			return nil, err
		}
	}

	sess.Messages = append(sess.Messages, store.MessageRecord{Text: body, At: now})
	if err := e.sessions.Put(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return replies, nil
}

// route applies the global overrides, then dispatches to the handler for
// the session's current status.
func (e *Engine) route(ctx context.Context, sess *store.Session, body string, txt textSet, now time.Time) ([]Reply, error) {
	norm := parser.Normalize(body)
	tokens := strings.Fields(norm)

	if hasAnyToken(tokens, resetKeywords) {
		sess.Status = string(StatusMain)
		sess.Cart = cart.Clear()
		sess.BrowseIndex = 0
		return e.menuReplies(txt), nil
	}

	if hasToken(tokens, "cart") || hasToken(tokens, "panier") {
		return e.showCart(sess, txt)
	}

	// Bare "<quantity> <product>" adds to the cart from any state without
	// moving the machine. Only a single-segment message qualifies; a
	// comma-separated list goes to the state handler, so the same text adds
	// the same lines it would in ordering. The ordering handler parses
	// richer input itself.
	st := currentStatus(sess)
	if st != StatusOrdering && !strings.Contains(body, ",") {
		if qty, query, ok := parser.QuantityProduct(norm); ok {
			if p, _, found := e.catalog.LookupByText(query); found {
				var added string
				sess.Cart, added = cart.AddLines(sess.Cart, []cart.Line{{ProductID: p.ID, Quantity: qty}}, e.catalog)
				return []Reply{{Text: fmt.Sprintf(txt.AddedFmt, added)}}, nil
			}
		}
	}

	switch st {
	case StatusMain:
		return e.handleMain(sess, norm, txt)
	case StatusOrdering:
		return e.handleOrdering(ctx, sess, body, norm, txt)
	case StatusAskMore, StatusCartView, StatusCartManagement:
		return e.handleCartCommands(sess, norm, txt)
	case StatusCartEmpty:
		return e.handleCartEmpty(sess, norm, txt)
	case StatusCheckout:
		return e.handleCheckout(sess, body, txt)
	case StatusPayment:
		return e.handlePayment(ctx, sess, norm, txt, now)
	case StatusAwaitingOrange:
		return e.handleAwaitingPayment(ctx, sess, body, txt, now, store.MethodOrangeMoney)
	case StatusAwaitingWave:
		return e.handleAwaitingPayment(ctx, sess, body, txt, now, store.MethodWave)
	case StatusOrdered:
		return e.handleOrdered(sess, norm, txt)
	}
	// Unreachable: currentStatus falls back to main for unknown values.
	return e.menuReplies(txt), nil
}

// currentStatus reads the session status, falling back to main if a stored
// value is no longer a known state.
func currentStatus(sess *store.Session) Status {
	st := Status(sess.Status)
	if !st.Valid() {
		return StatusMain
	}
	return st
}

func (e *Engine) transition(sess *store.Session, to Status) error {
	next, err := setStatus(currentStatus(sess), to)
	if err != nil {
		return err
	}
	sess.Status = string(next)
	return nil
}

// showCart implements the global cart keyword: jump to cart management, or
// to the empty-cart prompt when there is nothing to show.
func (e *Engine) showCart(sess *store.Session, txt textSet) ([]Reply, error) {
	if len(sess.Cart) == 0 {
		if err := e.transition(sess, StatusCartEmpty); err != nil {
			return nil, err
		}
		return []Reply{{Text: txt.EmptyCartView}}, nil
	}
	if err := e.transition(sess, StatusCartManagement); err != nil {
		return nil, err
	}
	return []Reply{
		{Text: cart.Display(sess.Cart, e.catalog)},
		{Text: txt.CartOptions},
	}, nil
}

func (e *Engine) menuReplies(txt textSet) []Reply {
	return []Reply{{Text: txt.MainMenu, MediaURL: e.menuMediaURL}}
}

// orderList renders the numbered product list.
func (e *Engine) orderList(txt textSet) string {
	var b strings.Builder
	b.WriteString(txt.OrderListHeader)
	b.WriteString("\n\n")
	for i, p := range e.catalog.Products() {
		fmt.Fprintf(&b, "%d. %s — $%.2f\n", i+1, p.Name, p.UnitPrice)
	}
	b.WriteString("\n")
	b.WriteString(txt.OrderListFooter)
	return b.String()
}

func (e *Engine) count(ctx context.Context, name string, value float64) {
	if e.metrics != nil && value > 0 {
		e.metrics.Count(ctx, name, value)
	}
}

func (e *Engine) publishOrder(ctx context.Context, orderRef, identity string) {
	if e.events == nil {
		return
	}
	if err := e.events.PublishOrderConfirmed(ctx, orderRef, identity); err != nil {
		// The order is already persisted; fulfillment catches up later.
		log.Printf("publish order %s: %v", orderRef, err)
	}
}

func hasToken(tokens []string, want string) bool {
	for _, t := range tokens {
		if t == want {
			return true
		}
	}
	return false
}

func hasAnyToken(tokens []string, set map[string]struct{}) bool {
	for _, t := range tokens {
		if _, ok := set[t]; ok {
			return true
		}
	}
	return false
}
