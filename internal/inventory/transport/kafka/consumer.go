package kafka

import (
	"context"
	"encoding/json"

	"github.com/IBM/sarama"
	"github.com/rathinadev/gocommerce/internal/inventory/domain"
	"github.com/rathinadev/gocommerce/internal/inventory/service"
	"github.com/rathinadev/gocommerce/pkg/kafka"
	"github.com/rathinadev/gocommerce/pkg/mylogger"
	"go.uber.org/zap"
)

const (
	orderEventsTopic = "order_events"
	consumerGroupID  = "inventory-service-group"
)

type Consumer struct {
	service service.InventoryService
	logger  *zap.Logger
}

func NewConsumer(service service.InventoryService, logger *zap.Logger) *Consumer {
	return &Consumer{
		service: service,
		logger:  logger,
	}
}

func (c *Consumer) Start(ctx context.Context, brokers []string) {
	consumerGroup := kafka.NewConsumerGroup(
		brokers,
		consumerGroupID,
		[]string{orderEventsTopic},
		c.processMessage,
		c.logger,
	)

	consumerGroup.Run(ctx)
}

// processMessage never returns an error for handled event types: the
// message is acknowledged whether or not every line item applied, so a
// decrement failure does not trigger redelivery.
func (c *Consumer) processMessage(ctx context.Context, msg *sarama.ConsumerMessage) error {
	mylogger.Info(
		ctx,
		c.logger,
		"Processing message",
		zap.String("topic", msg.Topic),
	)

	type EventWrapper struct {
		Event   string          `json:"event"`
		Payload json.RawMessage `json:"payload"`
	}

	var wrapper EventWrapper
	if err := json.Unmarshal(msg.Value, &wrapper); err != nil {
		mylogger.Error(ctx, c.logger, "Error unmarshalling wrapper", zap.Error(err))
		return nil
	}

	switch wrapper.Event {
	case "OrderCreated":
		var event domain.OrderCreatedEvent
		if err := json.Unmarshal(wrapper.Payload, &event); err != nil {
			mylogger.Error(ctx, c.logger, "Error unmarshalling event structure", zap.Error(err))
			return nil
		}

		if err := c.service.ApplyOrderCreated(ctx, &event); err != nil {
			mylogger.Error(ctx, c.logger, "Error applying order created", zap.Error(err))
		}
	default:
		mylogger.Warn(ctx, c.logger, "Ignored event type", zap.String("event_type", wrapper.Event))
	}

	return nil
}
