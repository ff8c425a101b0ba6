package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-lambda-go/events"

	"github.com/lusterchocolate/orderbot/internal/aws"
	"github.com/lusterchocolate/orderbot/internal/store"
)

// Processor consumes order-confirmed events and walks each order through
// fulfillment: CONFIRMED -> PREPARING -> OUT_FOR_DELIVERY.
type Processor struct {
	orderStore *store.OrderStore
	metrics    *aws.Metrics
}

// NewProcessor creates a worker processor with AWS clients injected.
func NewProcessor(clients *aws.AWSClients, ordersTable, paymentsTable, metricsNamespace string) *Processor {
	p := &Processor{
		orderStore: store.NewOrderStore(clients.DynamoDB, ordersTable, paymentsTable),
	}
	if metricsNamespace != "" {
		p.metrics = aws.NewMetrics(clients.CloudWatch, metricsNamespace)
	}
	return p
}

// Handle receives an SQS batch event and processes each message.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) error {
	for _, rec := range ev.Records {
		if err := p.processMessage(ctx, rec); err != nil {
			// Return error: Lambda will retry. If failed too many times, message goes to DLQ.
			log.Printf("worker error: %v", err)
			return err
		}
	}
	return nil
}

func (p *Processor) processMessage(ctx context.Context, rec events.SQSMessage) error {
	var msg WorkerMessage
	if err := json.Unmarshal([]byte(rec.Body), &msg); err != nil {
		return fmt.Errorf("invalid message body: %w", err)
	}

	log.Printf("[worker] received order=%s identity=%s", msg.OrderRef, msg.Identity)

	order, err := p.orderStore.Get(ctx, msg.OrderRef)
	if err != nil {
		return fmt.Errorf("failed to fetch order: %w", err)
	}
	if order == nil {
		// Should never happen — DLQ if it does
		return fmt.Errorf("order not found: %s", msg.OrderRef)
	}

	if err := p.orderStore.IncrementAttempts(ctx, msg.OrderRef); err != nil {
		return fmt.Errorf("failed to record attempt: %w", err)
	}

	// CONFIRMED -> PREPARING (idempotent against duplicate deliveries)
	err = p.orderStore.UpdateStatus(ctx, msg.OrderRef, store.OrderConfirmed, store.OrderPreparing)
	if err == store.ErrStatusMismatch {
		o2, _ := p.orderStore.Get(ctx, msg.OrderRef)
		switch {
		case o2 == nil:
			return fmt.Errorf("order disappeared: %s", msg.OrderRef)
		case o2.Status == store.OrderOutForDelivery:
			log.Printf("[worker] already dispatched order=%s", msg.OrderRef)
			return nil
		case o2.Status == store.OrderPreparing:
			log.Printf("[worker] duplicate event for order=%s", msg.OrderRef)
			return nil
		default:
			return fmt.Errorf("unexpected status for order=%s: %s", msg.OrderRef, o2.Status)
		}
	}
	if err != nil {
		return fmt.Errorf("failed to update status to PREPARING: %w", err)
	}

	// Hand the order to the boutique's preparation flow. Stubbed until the
	// kitchen display integration lands.
	log.Printf("[worker] preparing order=%s", msg.OrderRef)
	time.Sleep(200 * time.Millisecond)

	err = p.orderStore.UpdateStatus(ctx, msg.OrderRef, store.OrderPreparing, store.OrderOutForDelivery)
	if err != nil {
		return fmt.Errorf("failed to update status to OUT_FOR_DELIVERY: %w", err)
	}

	if p.metrics != nil {
		p.metrics.Count(ctx, "OrdersFulfilled", 1)
	}

	log.Printf("[worker] dispatched order=%s", msg.OrderRef)
	return nil
}
