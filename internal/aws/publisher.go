package aws

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// OrderEvent is the message the webhook publishes when an order is
// finalized, consumed by the fulfillment worker.
type OrderEvent struct {
	OrderRef string `json:"order_ref"`
	Identity string `json:"identity"`
}

// Publisher wraps an SQS client and a queue URL.
type Publisher struct {
	SQS      SQSAPI
	QueueURL string
}

// NewPublisher returns a Publisher bound to a queue URL.
func NewPublisher(sqsClient SQSAPI, queueURL string) *Publisher {
	return &Publisher{
		SQS:      sqsClient,
		QueueURL: queueURL,
	}
}

// PublishOrderConfirmed enqueues an order-confirmed event. The order ref and
// identity travel both in the body and as message attributes so consumers
// can filter without parsing the body.
func (p *Publisher) PublishOrderConfirmed(ctx context.Context, orderRef, identity string) error {
	ev := OrderEvent{OrderRef: orderRef, Identity: identity}
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}
	bodyStr := string(body)

	input := &sqs.SendMessageInput{
		QueueUrl:    &p.QueueURL,
		MessageBody: &bodyStr,
		MessageAttributes: map[string]sqstypes.MessageAttributeValue{
			"order_ref": {
				DataType:    awsString("String"),
				StringValue: &ev.OrderRef,
			},
			"identity": {
				DataType:    awsString("String"),
				StringValue: &ev.Identity,
			},
		},
	}

	_, err = p.SQS.SendMessage(ctx, input)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// awsString helper
func awsString(s string) *string { return &s }
