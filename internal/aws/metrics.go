package aws

import (
	"context"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// Metrics publishes counters to CloudWatch. Submission is fire-and-forget:
// a metrics failure must never fail the user's message.
type Metrics struct {
	client    CloudWatchAPI
	namespace string
	nowFunc   func() time.Time
}

// NewMetrics returns a Metrics publisher under the given namespace.
func NewMetrics(client CloudWatchAPI, namespace string) *Metrics {
	return &Metrics{client: client, namespace: namespace, nowFunc: time.Now}
}

// Count submits a count metric.
func (m *Metrics) Count(ctx context.Context, name string, value float64) {
	now := m.nowFunc()
	input := &cloudwatch.PutMetricDataInput{
		Namespace: &m.namespace,
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: &name,
				Value:      &value,
				Timestamp:  &now,
				Unit:       cwtypes.StandardUnitCount,
			},
		},
	}
	if _, err := m.client.PutMetricData(ctx, input); err != nil {
		log.Printf("put metric %s: %v", name, err)
	}
}
