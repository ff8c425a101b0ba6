package dialogue

import "fmt"

// Status enumerates the conversation phases. The zero states of the flow are
// main (initial) and ordered (loops back into main or ordering); there is no
// terminal state.
type Status string

const (
	StatusMain           Status = "main"
	StatusOrdering       Status = "ordering"
	StatusAskMore        Status = "ask_more"
	StatusCartView       Status = "cart_view"
	StatusCartManagement Status = "cart_management"
	StatusCartEmpty      Status = "cart_empty"
	StatusCheckout       Status = "checkout"
	StatusPayment        Status = "payment"
	StatusAwaitingOrange Status = "awaiting_orange_payment"
	StatusAwaitingWave   Status = "awaiting_wave_payment"
	StatusOrdered        Status = "ordered"
)

// transitions is the closed table of legal forward moves. Three targets are
// reachable from anywhere and handled in canTransition: main (reset), and
// the two cart-view states (global "cart" keyword). Staying in place is
// always legal; invalid input never advances the machine.
var transitions = map[Status][]Status{
	StatusMain:           {StatusOrdering, StatusCartView},
	StatusOrdering:       {StatusAskMore, StatusCheckout},
	StatusAskMore:        {StatusOrdering, StatusCheckout},
	StatusCartView:       {StatusOrdering, StatusCheckout},
	StatusCartManagement: {StatusOrdering, StatusCheckout},
	StatusCartEmpty:      {StatusOrdering},
	StatusCheckout:       {StatusPayment},
	StatusPayment:        {StatusAwaitingOrange, StatusAwaitingWave, StatusOrdered, StatusOrdering},
	StatusAwaitingOrange: {StatusOrdered},
	StatusAwaitingWave:   {StatusOrdered},
	StatusOrdered:        {StatusOrdering},
}

var validStatuses = map[Status]struct{}{
	StatusMain: {}, StatusOrdering: {}, StatusAskMore: {},
	StatusCartView: {}, StatusCartManagement: {}, StatusCartEmpty: {},
	StatusCheckout: {}, StatusPayment: {},
	StatusAwaitingOrange: {}, StatusAwaitingWave: {}, StatusOrdered: {},
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	_, ok := validStatuses[s]
	return ok
}

func canTransition(from, to Status) bool {
	if to == from {
		return true
	}
	// globally reachable targets
	switch to {
	case StatusMain, StatusCartManagement, StatusCartEmpty:
		return true
	}
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// setStatus validates and applies a transition. An illegal move is a bug in
// a handler, not user error, so it surfaces as an internal error.
func setStatus(current Status, to Status) (Status, error) {
	if !canTransition(current, to) {
		return current, fmt.Errorf("illegal transition %s -> %s", current, to)
	}
	return to, nil
}
