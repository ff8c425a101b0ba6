package store

import (
	"context"
	"errors"
	"strings"
	"sync"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// mockDynamo is a minimal in-memory DynamoDB good enough for the store
// tests. It understands the handful of condition expressions the stores
// actually issue. Items live in nested maps: table -> pk -> item.
type mockDynamo struct {
	mu     sync.Mutex
	tables map[string]map[string]map[string]types.AttributeValue
}

func newMockDynamo() *mockDynamo {
	return &mockDynamo{
		tables: map[string]map[string]map[string]types.AttributeValue{},
	}
}

func (m *mockDynamo) ensureTable(tbl string) {
	if _, ok := m.tables[tbl]; !ok {
		m.tables[tbl] = map[string]map[string]types.AttributeValue{}
	}
}

// keyAttrs maps test table names to their primary-key attribute. Items carry
// identity alongside their own key, so the table decides which attribute wins.
var keyAttrs = map[string]string{
	"sessions": "identity",
	"orders":   "order_ref",
	"payments": "payment_ref",
}

// pkOf finds the primary-key value for a table in an item or key map.
func pkOf(table string, attrs map[string]types.AttributeValue) (string, error) {
	name, ok := keyAttrs[table]
	if !ok {
		return "", errors.New("unknown table: " + table)
	}
	v, ok := attrs[name]
	if !ok {
		return "", errors.New("missing key attribute: " + name)
	}
	return v.(*types.AttributeValueMemberS).Value, nil
}

func (m *mockDynamo) checkPutCondition(table, pk string, params *dyn.PutItemInput) error {
	cond := *params.ConditionExpression
	existing, exists := m.tables[table][pk]

	if strings.HasPrefix(cond, "attribute_not_exists") && !strings.Contains(cond, "OR") {
		if exists {
			return &types.ConditionalCheckFailedException{}
		}
		return nil
	}

	// "attribute_not_exists(identity) OR version = :expected"
	if strings.Contains(cond, "version = :expected") {
		if !exists {
			return nil
		}
		expected := params.ExpressionAttributeValues[":expected"].(*types.AttributeValueMemberN).Value
		stored, ok := existing["version"].(*types.AttributeValueMemberN)
		if !ok || stored.Value != expected {
			return &types.ConditionalCheckFailedException{}
		}
		return nil
	}

	return errors.New("unsupported condition: " + cond)
}

func (m *mockDynamo) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	table := *params.TableName
	m.ensureTable(table)

	pk, err := pkOf(table, params.Item)
	if err != nil {
		return nil, err
	}
	if params.ConditionExpression != nil {
		if err := m.checkPutCondition(table, pk, params); err != nil {
			return nil, err
		}
	}
	m.tables[table][pk] = params.Item
	return &dyn.PutItemOutput{}, nil
}

func (m *mockDynamo) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	table := *params.TableName
	m.ensureTable(table)

	pk, err := pkOf(table, params.Key)
	if err != nil {
		return nil, err
	}
	item, ok := m.tables[table][pk]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: item}, nil
}

// applyStatusUpdate naively applies the status/token update expressions the
// stores issue, honoring a "#s = :x" condition if present.
func applyStatusUpdate(item map[string]types.AttributeValue, cond *string,
	values map[string]types.AttributeValue) error {

	if cond != nil {
		// conditions are of the form "#s = :expected" / "#s = :pending"
		parts := strings.Split(*cond, "= ")
		ref := strings.TrimSpace(parts[len(parts)-1])
		want := values[ref].(*types.AttributeValueMemberS).Value
		curr, ok := item["status"].(*types.AttributeValueMemberS)
		if !ok || curr.Value != want {
			return &types.ConditionalCheckFailedException{}
		}
	}
	if v, ok := values[":new"]; ok {
		item["status"] = v
	}
	if v, ok := values[":confirmed"]; ok {
		item["status"] = v
	}
	if v, ok := values[":tok"]; ok {
		item["transaction_token"] = v
	}
	if v, ok := values[":oref"]; ok {
		item["order_ref"] = v
	}
	if v, ok := values[":ua"]; ok {
		item["updated_at"] = v
	}
	return nil
}

func (m *mockDynamo) UpdateItem(ctx context.Context, params *dyn.UpdateItemInput, optFns ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	table := *params.TableName
	m.ensureTable(table)

	pk, err := pkOf(table, params.Key)
	if err != nil {
		return nil, err
	}
	item, exists := m.tables[table][pk]
	if !exists {
		return nil, &types.ConditionalCheckFailedException{}
	}

	if strings.Contains(*params.UpdateExpression, "attempts") {
		curr := 0
		if v, ok := item["attempts"].(*types.AttributeValueMemberN); ok {
			curr = atoiOrZero(v.Value)
		}
		item["attempts"] = &types.AttributeValueMemberN{Value: itoa(curr + 1)}
		m.tables[table][pk] = item
		return &dyn.UpdateItemOutput{Attributes: item}, nil
	}

	if err := applyStatusUpdate(item, params.ConditionExpression, params.ExpressionAttributeValues); err != nil {
		return nil, err
	}
	m.tables[table][pk] = item
	return &dyn.UpdateItemOutput{Attributes: item}, nil
}

func reasonCode(s string) types.CancellationReason {
	return types.CancellationReason{Code: &s}
}

// canceled builds the exception DynamoDB raises when transact item i fails
// its condition: one reason per item, "None" for the untouched ones.
func canceled(total, failed int) *types.TransactionCanceledException {
	reasons := make([]types.CancellationReason, total)
	for i := range reasons {
		if i == failed {
			reasons[i] = reasonCode("ConditionalCheckFailed")
		} else {
			reasons[i] = reasonCode("None")
		}
	}
	return &types.TransactionCanceledException{CancellationReasons: reasons}
}

func (m *mockDynamo) TransactWriteItems(ctx context.Context, params *dyn.TransactWriteItemsInput, optFns ...func(*dyn.Options)) (*dyn.TransactWriteItemsOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// First pass: verify every condition before touching anything.
	for i, it := range params.TransactItems {
		if u := it.Update; u != nil {
			table := *u.TableName
			m.ensureTable(table)
			pk, err := pkOf(table, u.Key)
			if err != nil {
				return nil, err
			}
			item, exists := m.tables[table][pk]
			if !exists {
				return nil, canceled(len(params.TransactItems), i)
			}
			scratch := map[string]types.AttributeValue{}
			for k, v := range item {
				scratch[k] = v
			}
			if err := applyStatusUpdate(scratch, u.ConditionExpression, u.ExpressionAttributeValues); err != nil {
				return nil, canceled(len(params.TransactItems), i)
			}
		}
		if p := it.Put; p != nil {
			table := *p.TableName
			m.ensureTable(table)
			pk, err := pkOf(table, p.Item)
			if err != nil {
				return nil, err
			}
			if p.ConditionExpression != nil && strings.HasPrefix(*p.ConditionExpression, "attribute_not_exists") {
				if _, exists := m.tables[table][pk]; exists {
					return nil, canceled(len(params.TransactItems), i)
				}
			}
		}
	}

	// Second pass: apply.
	for _, it := range params.TransactItems {
		if u := it.Update; u != nil {
			table := *u.TableName
			pk, _ := pkOf(table, u.Key)
			item := m.tables[table][pk]
			_ = applyStatusUpdate(item, u.ConditionExpression, u.ExpressionAttributeValues)
			m.tables[table][pk] = item
		}
		if p := it.Put; p != nil {
			table := *p.TableName
			pk, _ := pkOf(table, p.Item)
			m.tables[table][pk] = p.Item
		}
	}
	return &dyn.TransactWriteItemsOutput{}, nil
}

func atoiOrZero(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var b []byte
	for n > 0 {
		b = append([]byte{byte('0' + n%10)}, b...)
		n /= 10
	}
	return string(b)
}
