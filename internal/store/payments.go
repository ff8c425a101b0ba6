package store

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/lusterchocolate/orderbot/internal/aws"
)

// PaymentStore encapsulates operations on the payments table.
type PaymentStore struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewPaymentStore creates a new PaymentStore.
func NewPaymentStore(client aws.DynamoDBAPI, tableName string) *PaymentStore {
	return &PaymentStore{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// Append persists a new pending payment attempt.
func (s *PaymentStore) Append(ctx context.Context, p Payment) error {
	now := s.nowFunc()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return fmt.Errorf("marshal payment: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                item,
		ConditionExpression: awsString("attribute_not_exists(payment_ref)"),
	})
	if err != nil {
		return fmt.Errorf("put payment: %w", err)
	}
	return nil
}

// Get fetches a payment by payment_ref. Returns (nil, nil) if not found.
func (s *PaymentStore) Get(ctx context.Context, paymentRef string) (*Payment, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"payment_ref": &types.AttributeValueMemberS{Value: paymentRef},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get payment: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var p Payment
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return nil, fmt.Errorf("unmarshal payment: %w", err)
	}
	return &p, nil
}

