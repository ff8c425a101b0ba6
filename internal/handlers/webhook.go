package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lusterchocolate/orderbot/internal/aws"
	"github.com/lusterchocolate/orderbot/internal/catalog"
	"github.com/lusterchocolate/orderbot/internal/dialogue"
	"github.com/lusterchocolate/orderbot/internal/store"
	"github.com/lusterchocolate/orderbot/internal/validation"
)

// HandlerConfig groups dependencies for the webhook handler.
type HandlerConfig struct {
	DynamoDBClient   aws.DynamoDBAPI
	SQSClient        aws.SQSAPI
	CloudWatchClient aws.CloudWatchAPI
	SessionsTable    string
	OrdersTable      string
	PaymentsTable    string
	QueueURL         string
	MetricsNamespace string
	MenuMediaURL     string
}

// RegisterWebhookRoutes registers the Twilio messaging webhook.
func RegisterWebhookRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()

	engineCfg := dialogue.Config{
		Catalog:      catalog.Default(),
		Sessions:     store.NewSessionStore(cfg.DynamoDBClient, cfg.SessionsTable),
		Orders:       store.NewOrderStore(cfg.DynamoDBClient, cfg.OrdersTable, cfg.PaymentsTable),
		Payments:     store.NewPaymentStore(cfg.DynamoDBClient, cfg.PaymentsTable),
		MenuMediaURL: cfg.MenuMediaURL,
	}
	if cfg.SQSClient != nil && cfg.QueueURL != "" {
		engineCfg.Events = aws.NewPublisher(cfg.SQSClient, cfg.QueueURL)
	}
	if cfg.CloudWatchClient != nil && cfg.MetricsNamespace != "" {
		engineCfg.Metrics = aws.NewMetrics(cfg.CloudWatchClient, cfg.MetricsNamespace)
	}
	engine := dialogue.NewEngine(engineCfg)

	r.POST("/webhook", func(c *gin.Context) {
		ctx := c.Request.Context()

		var msg validation.InboundMessage
		if err := validation.BindAndValidate(c, &msg, v); err != nil {
			// BindAndValidate already wrote a 400
			return
		}

		identity := strings.TrimPrefix(msg.From, "whatsapp:")

		replies, err := engine.HandleMessage(ctx, identity, msg.Body)
		if err != nil {
			// Store failure: surface a 500 so Twilio retries the webhook
			// rather than the user's cart update getting lost.
			log.Printf("handle message from %s: %v", identity, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "message_handling_failed"})
			return
		}

		WriteTwiML(c, replies)
	})
}
