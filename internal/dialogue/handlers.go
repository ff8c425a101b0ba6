package dialogue

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lusterchocolate/orderbot/internal/cart"
	"github.com/lusterchocolate/orderbot/internal/parser"
	"github.com/lusterchocolate/orderbot/internal/store"
)

// minTransactionTokenLen is the only validation applied to claimed
// payment transaction IDs. The token is not verified with the provider;
// reconciliation happens out of band against the payment reference.
const minTransactionTokenLen = 6

func (e *Engine) handleMain(sess *store.Session, norm string, txt textSet) ([]Reply, error) {
	opt, err := strconv.Atoi(norm)
	if err != nil {
		return append([]Reply{{Text: txt.Invalid}}, e.menuReplies(txt)...), nil
	}

	switch opt {
	case 1:
		return []Reply{{Text: txt.Contact}}, nil
	case 2:
		if err := e.transition(sess, StatusOrdering); err != nil {
			return nil, err
		}
		return []Reply{
			{Text: txt.OrderingMode},
			{Text: e.orderList(txt)},
		}, nil
	case 3:
		return []Reply{{Text: txt.Hours}}, nil
	case 4:
		return []Reply{{Text: txt.Address}}, nil
	case 5:
		if len(sess.Cart) == 0 {
			if err := e.transition(sess, StatusCartEmpty); err != nil {
				return nil, err
			}
			return []Reply{{Text: txt.EmptyCartView}}, nil
		}
		if err := e.transition(sess, StatusCartView); err != nil {
			return nil, err
		}
		return []Reply{
			{Text: cart.Display(sess.Cart, e.catalog)},
			{Text: txt.CartOptions},
		}, nil
	default:
		return append([]Reply{{Text: txt.Invalid}}, e.menuReplies(txt)...), nil
	}
}

func (e *Engine) handleOrdering(ctx context.Context, sess *store.Session, body, norm string, txt textSet) ([]Reply, error) {
	if norm == "back" {
		if err := e.transition(sess, StatusMain); err != nil {
			return nil, err
		}
		return e.menuReplies(txt), nil
	}

	res := parser.ParseOrder(e.catalog, body)
	e.count(ctx, MetricParseMisses, float64(res.Dropped))

	var replies []Reply
	if len(res.Items) > 0 {
		adds := make([]cart.Line, 0, len(res.Items))
		for _, it := range res.Items {
			adds = append(adds, cart.Line{ProductID: it.Product.ID, Quantity: it.Quantity})
		}
		var added string
		sess.Cart, added = cart.AddLines(sess.Cart, adds, e.catalog)
		replies = append(replies, Reply{Text: fmt.Sprintf(txt.AddedFmt, added)})
	}

	if res.CheckoutRequested {
		if len(sess.Cart) == 0 {
			replies = append(replies, Reply{Text: txt.EmptyCartRedirect}, Reply{Text: e.orderList(txt)})
			return replies, nil
		}
		if err := e.transition(sess, StatusCheckout); err != nil {
			return nil, err
		}
		replies = append(replies,
			Reply{Text: fmt.Sprintf(txt.TotalFmt, cart.Total(sess.Cart, e.catalog))},
			Reply{Text: txt.AskAddress},
		)
		return replies, nil
	}

	if len(res.Items) == 0 {
		// Nothing usable in the message; stay put and nudge.
		return []Reply{{Text: txt.NotUnderstood}}, nil
	}

	if err := e.transition(sess, StatusAskMore); err != nil {
		return nil, err
	}
	replies = append(replies, Reply{Text: txt.AskMore})
	return replies, nil
}

// handleCartCommands serves ask_more, cart_view and cart_management, which
// share one command vocabulary.
func (e *Engine) handleCartCommands(sess *store.Session, norm string, txt textSet) ([]Reply, error) {
	switch norm {
	case "1", "yes", "oui", "continue", "more":
		if err := e.transition(sess, StatusOrdering); err != nil {
			return nil, err
		}
		return []Reply{{Text: e.orderList(txt)}}, nil
	case "2", "no", "non", "checkout", "done", "pay", "buy", "finish", "complete":
		return e.toCheckout(sess, txt)
	case "clear":
		sess.Cart = cart.Clear()
		if err := e.transition(sess, StatusMain); err != nil {
			return nil, err
		}
		return append([]Reply{{Text: txt.Cleared}}, e.menuReplies(txt)...), nil
	case "back":
		if err := e.transition(sess, StatusMain); err != nil {
			return nil, err
		}
		return e.menuReplies(txt), nil
	case "remove":
		return []Reply{{Text: txt.RemoveUsage}}, nil
	}

	if idxStr, ok := strings.CutPrefix(norm, "remove "); ok {
		idx, err := strconv.Atoi(strings.TrimSpace(idxStr))
		if err != nil {
			return []Reply{{Text: txt.RemoveUsage}}, nil
		}
		updated, removed, err := cart.RemoveLine(sess.Cart, idx)
		if err != nil {
			return []Reply{{Text: txt.InvalidIndex}}, nil
		}
		sess.Cart = updated
		name := ""
		if p, ok := e.catalog.LookupByID(removed.ProductID); ok {
			name = p.Name
		}
		replies := []Reply{{Text: fmt.Sprintf(txt.RemovedFmt, name)}}
		if len(sess.Cart) == 0 {
			if err := e.transition(sess, StatusCartEmpty); err != nil {
				return nil, err
			}
			return append(replies, Reply{Text: txt.EmptyCartView}), nil
		}
		return append(replies, Reply{Text: cart.Display(sess.Cart, e.catalog)}), nil
	}

	return []Reply{{Text: txt.Invalid}}, nil
}

// toCheckout gates checkout on a non-empty cart.
func (e *Engine) toCheckout(sess *store.Session, txt textSet) ([]Reply, error) {
	if len(sess.Cart) == 0 {
		if err := e.transition(sess, StatusOrdering); err != nil {
			return nil, err
		}
		return []Reply{{Text: txt.EmptyCartRedirect}, {Text: e.orderList(txt)}}, nil
	}
	if err := e.transition(sess, StatusCheckout); err != nil {
		return nil, err
	}
	return []Reply{
		{Text: fmt.Sprintf(txt.TotalFmt, cart.Total(sess.Cart, e.catalog))},
		{Text: txt.AskAddress},
	}, nil
}

func (e *Engine) handleCartEmpty(sess *store.Session, norm string, txt textSet) ([]Reply, error) {
	switch norm {
	case "1", "browse", "order", "yes", "oui":
		if err := e.transition(sess, StatusOrdering); err != nil {
			return nil, err
		}
		return []Reply{{Text: e.orderList(txt)}}, nil
	case "2", "back", "no", "non":
		if err := e.transition(sess, StatusMain); err != nil {
			return nil, err
		}
		return e.menuReplies(txt), nil
	default:
		return []Reply{{Text: txt.EmptyCartView}}, nil
	}
}

// handleCheckout treats the whole message as the delivery address.
func (e *Engine) handleCheckout(sess *store.Session, body string, txt textSet) ([]Reply, error) {
	address := strings.TrimSpace(body)
	if address == "" {
		return []Reply{{Text: txt.AskAddress}}, nil
	}
	sess.Address = address
	if err := e.transition(sess, StatusPayment); err != nil {
		return nil, err
	}
	return []Reply{
		{Text: fmt.Sprintf(txt.TotalFmt, cart.Total(sess.Cart, e.catalog))},
		{Text: txt.PaymentMenu},
	}, nil
}

func (e *Engine) handlePayment(ctx context.Context, sess *store.Session, norm string, txt textSet, now time.Time) ([]Reply, error) {
	if len(sess.Cart) == 0 {
		if err := e.transition(sess, StatusOrdering); err != nil {
			return nil, err
		}
		return []Reply{{Text: txt.EmptyCartRedirect}, {Text: e.orderList(txt)}}, nil
	}

	total := cart.Total(sess.Cart, e.catalog)
	switch norm {
	case "1", "2":
		method := store.MethodOrangeMoney
		next := StatusAwaitingOrange
		instructions := txt.OrangeFmt
		if norm == "2" {
			method = store.MethodWave
			next = StatusAwaitingWave
			instructions = txt.WaveFmt
		}

		ref := e.newPaymentRef()
		payment := store.Payment{
			PaymentRef: ref,
			Identity:   sess.Identity,
			Amount:     total,
			Method:     method,
			Status:     store.PaymentPending,
			CreatedAt:  now,
		}
		if err := e.payments.Append(ctx, payment); err != nil {
			return nil, fmt.Errorf("create payment: %w", err)
		}
		sess.PaymentRef = ref
		if err := e.transition(sess, next); err != nil {
			return nil, err
		}
		return []Reply{{Text: fmt.Sprintf(instructions, total, ref)}}, nil

	case "3":
		order := e.buildOrder(sess, store.MethodCashOnDelivery, now)
		if err := e.orders.Append(ctx, order); err != nil {
			return nil, fmt.Errorf("create order: %w", err)
		}
		return e.finishOrder(ctx, sess, order, txt)

	default:
		return []Reply{{Text: txt.InvalidPayment}}, nil
	}
}

func (e *Engine) handleAwaitingPayment(ctx context.Context, sess *store.Session, body string, txt textSet, now time.Time, method string) ([]Reply, error) {
	token := strings.TrimSpace(body)
	if len(token) < minTransactionTokenLen {
		return []Reply{{Text: txt.ShortToken}}, nil
	}

	order := e.buildOrder(sess, method, now)
	err := e.orders.ConfirmPaymentAndCreate(ctx, sess.PaymentRef, token, order)
	if errors.Is(err, store.ErrStatusMismatch) {
		// The payment left PENDING before this attempt. Re-read it: only a
		// CONFIRMED record is a duplicate confirmation to close out; anything
		// else means the transaction lost for another reason and the
		// transport should retry.
		p, perr := e.payments.Get(ctx, sess.PaymentRef)
		if perr != nil {
			return nil, fmt.Errorf("verify payment %s: %w", sess.PaymentRef, perr)
		}
		if p == nil || p.Status != store.PaymentConfirmed {
			return nil, fmt.Errorf("confirm payment %s: %w", sess.PaymentRef, err)
		}
		sess.OrderRef = p.OrderRef
		sess.PaymentRef = ""
		sess.Cart = cart.Clear()
		if terr := e.transition(sess, StatusOrdered); terr != nil {
			return nil, terr
		}
		return []Reply{{Text: txt.PaymentReceived}, {Text: txt.NextSteps}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("confirm payment: %w", err)
	}
	e.count(ctx, MetricPaymentsConfirmed, 1)

	replies, err := e.finishOrder(ctx, sess, order, txt)
	if err != nil {
		return nil, err
	}
	return append([]Reply{{Text: txt.PaymentReceived}}, replies...), nil
}

// buildOrder freezes the cart into an order snapshot.
func (e *Engine) buildOrder(sess *store.Session, method string, now time.Time) store.Order {
	lines := make([]store.OrderLine, 0, len(sess.Cart))
	for _, l := range sess.Cart {
		p, ok := e.catalog.LookupByID(l.ProductID)
		if !ok {
			continue
		}
		lines = append(lines, store.OrderLine{
			Name:      p.Name,
			Quantity:  l.Quantity,
			UnitPrice: p.UnitPrice,
			Subtotal:  cart.Round2(p.UnitPrice * float64(l.Quantity)),
		})
	}
	return store.Order{
		OrderRef:      e.newOrderRef(now),
		Identity:      sess.Identity,
		Lines:         lines,
		Address:       sess.Address,
		Total:         cart.Total(sess.Cart, e.catalog),
		PaymentMethod: method,
		Status:        store.OrderConfirmed,
		CreatedAt:     now,
	}
}

// finishOrder records the order on the session, clears the cart and emits
// the confirmation replies.
func (e *Engine) finishOrder(ctx context.Context, sess *store.Session, order store.Order, txt textSet) ([]Reply, error) {
	e.count(ctx, MetricOrdersPlaced, 1)
	e.publishOrder(ctx, order.OrderRef, sess.Identity)

	sess.OrderRef = order.OrderRef
	sess.PaymentRef = ""
	sess.Cart = cart.Clear()
	if err := e.transition(sess, StatusOrdered); err != nil {
		return nil, err
	}
	return []Reply{
		{Text: fmt.Sprintf(txt.ThankYouFmt, order.OrderRef)},
		{Text: txt.NextSteps},
	}, nil
}

func (e *Engine) handleOrdered(sess *store.Session, norm string, txt textSet) ([]Reply, error) {
	switch norm {
	case "1":
		if err := e.transition(sess, StatusOrdering); err != nil {
			return nil, err
		}
		return []Reply{
			{Text: txt.OrderingMode},
			{Text: e.orderList(txt)},
		}, nil
	case "2":
		if err := e.transition(sess, StatusMain); err != nil {
			return nil, err
		}
		return []Reply{{Text: txt.Contact}}, nil
	case "3":
		if err := e.transition(sess, StatusMain); err != nil {
			return nil, err
		}
		return []Reply{{Text: txt.Hours}, {Text: txt.Address}}, nil
	case "4":
		if err := e.transition(sess, StatusMain); err != nil {
			return nil, err
		}
		return e.menuReplies(txt), nil
	default:
		return []Reply{{Text: txt.NextSteps}}, nil
	}
}
