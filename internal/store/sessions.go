package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/lusterchocolate/orderbot/internal/aws"
)

// ErrVersionConflict indicates a concurrent writer updated the session
// between this request's read and write. The caller can re-read and retry.
var ErrVersionConflict = errors.New("session version conflict")

// SessionStore encapsulates operations on the sessions table.
type SessionStore struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewSessionStore creates a new SessionStore.
func NewSessionStore(client aws.DynamoDBAPI, tableName string) *SessionStore {
	return &SessionStore{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// Get fetches a session by identity. Returns (nil, nil) if not found.
func (s *SessionStore) Get(ctx context.Context, identity string) (*Session, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"identity": &types.AttributeValueMemberS{Value: identity},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var sess Session
	if err := attributevalue.UnmarshalMap(out.Item, &sess); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &sess, nil
}

// Put writes the session back, guarded by an optimistic version check: the
// write only lands if no other request wrote since sess was read. On
// success sess.Version is advanced to the stored value.
func (s *SessionStore) Put(ctx context.Context, sess *Session) error {
	expected := sess.Version
	sess.Version = expected + 1
	sess.UpdatedAt = s.nowFunc()

	item, err := attributevalue.MarshalMap(sess)
	if err != nil {
		sess.Version = expected
		return fmt.Errorf("marshal session: %w", err)
	}

	input := &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                item,
		ConditionExpression: awsString("attribute_not_exists(identity) OR version = :expected"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":expected": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", expected)},
		},
	}

	if _, err := s.client.PutItem(ctx, input); err != nil {
		sess.Version = expected
		var ae smithy.APIError
		if errors.As(err, &ae) && ae.ErrorCode() == "ConditionalCheckFailedException" {
			return ErrVersionConflict
		}
		var cc *types.ConditionalCheckFailedException
		if errors.As(err, &cc) {
			return ErrVersionConflict
		}
		return fmt.Errorf("put session: %w", err)
	}
	return nil
}

func awsString(s string) *string { return &s }
