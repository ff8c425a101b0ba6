package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/lusterchocolate/orderbot/internal/aws"
)

// ErrStatusMismatch indicates a conditional status transition failed
// because the stored status was not the expected one.
var ErrStatusMismatch = errors.New("status mismatch/conditional failed")

// OrderStore encapsulates operations on the orders table. It also knows the
// payments table so payment confirmation and order creation can share one
// transaction.
type OrderStore struct {
	client        aws.DynamoDBAPI
	tableName     string
	paymentsTable string
	nowFunc       func() time.Time
}

// NewOrderStore creates a new OrderStore.
func NewOrderStore(client aws.DynamoDBAPI, tableName, paymentsTable string) *OrderStore {
	return &OrderStore{
		client:        client,
		tableName:     tableName,
		paymentsTable: paymentsTable,
		nowFunc:       time.Now,
	}
}

// Append persists a finalized order. order.OrderRef must be set by the
// caller; a duplicate ref is rejected rather than overwritten.
func (s *OrderStore) Append(ctx context.Context, order Order) error {
	now := s.nowFunc()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = now

	item, err := attributevalue.MarshalMap(order)
	if err != nil {
		return fmt.Errorf("marshal order: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                item,
		ConditionExpression: awsString("attribute_not_exists(order_ref)"),
	})
	if err != nil {
		return fmt.Errorf("put order: %w", err)
	}
	return nil
}

// ConfirmPaymentAndCreate atomically flips a pending payment to CONFIRMED
// (recording the claimed transaction token) and creates the order, via a
// single TransactWriteItems call. If the payment is no longer PENDING the
// whole transaction is canceled and ErrStatusMismatch is returned.
func (s *OrderStore) ConfirmPaymentAndCreate(ctx context.Context, paymentRef, transactionToken string, order Order) error {
	now := s.nowFunc()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = now

	orderMap, err := attributevalue.MarshalMap(order)
	if err != nil {
		return fmt.Errorf("marshal order: %w", err)
	}

	transactItems := []types.TransactWriteItem{
		{
			Update: &types.Update{
				TableName: &s.paymentsTable,
				Key: map[string]types.AttributeValue{
					"payment_ref": &types.AttributeValueMemberS{Value: paymentRef},
				},
				UpdateExpression:         awsString("SET #s = :confirmed, transaction_token = :tok, order_ref = :oref, updated_at = :ua"),
				ExpressionAttributeNames: map[string]string{"#s": "status"},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":confirmed": &types.AttributeValueMemberS{Value: PaymentConfirmed},
					":tok":       &types.AttributeValueMemberS{Value: transactionToken},
					":oref":      &types.AttributeValueMemberS{Value: order.OrderRef},
					":ua":        &types.AttributeValueMemberS{Value: now.Format(time.RFC3339)},
					":pending":   &types.AttributeValueMemberS{Value: PaymentPending},
				},
				ConditionExpression: awsString("#s = :pending"),
			},
		},
		{
			Put: &types.Put{
				TableName:           &s.tableName,
				Item:                orderMap,
				ConditionExpression: awsString("attribute_not_exists(order_ref)"),
			},
		},
	}

	_, err = s.client.TransactWriteItems(ctx, &dyn.TransactWriteItemsInput{
		TransactItems: transactItems,
	})
	if err != nil {
		var tce *types.TransactionCanceledException
		if errors.As(err, &tce) {
			// Only the payment-update condition failing means the payment
			// already left PENDING. Any other cancellation (transaction
			// conflict, throttling, duplicate order ref) is retriable.
			if paymentConditionFailed(tce) {
				return ErrStatusMismatch
			}
			return fmt.Errorf("transact write canceled: %w", err)
		}
		return fmt.Errorf("transact write: %w", err)
	}
	return nil
}

// paymentConditionFailed reports whether the first transact item (the
// payment Update) was canceled by its condition check.
func paymentConditionFailed(tce *types.TransactionCanceledException) bool {
	if len(tce.CancellationReasons) == 0 {
		return false
	}
	code := tce.CancellationReasons[0].Code
	return code != nil && *code == "ConditionalCheckFailed"
}

// Get fetches an order by order_ref. Returns (nil, nil) if not found.
func (s *OrderStore) Get(ctx context.Context, orderRef string) (*Order, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"order_ref": &types.AttributeValueMemberS{Value: orderRef},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var o Order
	if err := attributevalue.UnmarshalMap(out.Item, &o); err != nil {
		return nil, fmt.Errorf("unmarshal order: %w", err)
	}
	return &o, nil
}

// UpdateStatus conditionally moves the order from expectedStatus to
// newStatus. Returns ErrStatusMismatch if the stored status differs.
func (s *OrderStore) UpdateStatus(ctx context.Context, orderRef, expectedStatus, newStatus string) error {
	now := s.nowFunc()
	input := &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"order_ref": &types.AttributeValueMemberS{Value: orderRef},
		},
		UpdateExpression:         awsString("SET #s = :new, updated_at = :ua"),
		ExpressionAttributeNames: map[string]string{"#s": "status"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":new":      &types.AttributeValueMemberS{Value: newStatus},
			":ua":       &types.AttributeValueMemberS{Value: now.Format(time.RFC3339)},
			":expected": &types.AttributeValueMemberS{Value: expectedStatus},
		},
		ConditionExpression: awsString("#s = :expected"),
	}

	if _, err := s.client.UpdateItem(ctx, input); err != nil {
		var cc *types.ConditionalCheckFailedException
		if errors.As(err, &cc) {
			return ErrStatusMismatch
		}
		return fmt.Errorf("update order: %w", err)
	}
	return nil
}

// IncrementAttempts increases the attempts counter by 1 (worker retries).
func (s *OrderStore) IncrementAttempts(ctx context.Context, orderRef string) error {
	now := s.nowFunc()
	input := &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"order_ref": &types.AttributeValueMemberS{Value: orderRef},
		},
		UpdateExpression: awsString("SET attempts = if_not_exists(attempts, :zero) + :inc, updated_at = :ua"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":zero": &types.AttributeValueMemberN{Value: "0"},
			":inc":  &types.AttributeValueMemberN{Value: "1"},
			":ua":   &types.AttributeValueMemberS{Value: now.Format(time.RFC3339)},
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	}
	if _, err := s.client.UpdateItem(ctx, input); err != nil {
		return fmt.Errorf("increment attempts: %w", err)
	}
	return nil
}
