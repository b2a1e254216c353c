package tests

import (
	"context"
	"time"

	"github.com/rathinadev/gocommerce/internal/inventory/domain"
	transportKafka "github.com/rathinadev/gocommerce/internal/inventory/transport/kafka"
	"github.com/rathinadev/gocommerce/pkg/kafka"
	"go.uber.org/zap"
)

// End to end through the broker: a published OrderCreated event reaches
// the consumer group and lands as a stock decrement.
func (s *IntegrationTestSuite) TestReconciler_AppliesPublishedEvent() {
	id := s.seedProduct("Widget", 10, 20)

	consumerCtx, cancel := context.WithCancel(s.Ctx)
	defer cancel()

	consumer := transportKafka.NewConsumer(s.InventoryService, zap.NewNop())
	go consumer.Start(consumerCtx, s.KafkaBrokers)

	producer, err := kafka.NewProducer(s.KafkaBrokers)
	s.Require().NoError(err)
	defer producer.Close()

	envelope := map[string]any{
		"event": "OrderCreated",
		"payload": domain.OrderCreatedEvent{
			EventID: "it-1",
			OrderID: 1,
			Items:   []domain.OrderItem{{ProductID: id, Quantity: 2}},
		},
	}

	s.Require().NoError(producer.ProduceMessage(s.Ctx, "order_events", envelope))

	s.Require().Eventually(func() bool {
		return s.productQuantity(id) == 18
	}, 30*time.Second, 250*time.Millisecond)
}

// An event naming an unknown product is still acknowledged; it must not
// wedge the partition for events behind it.
func (s *IntegrationTestSuite) TestReconciler_BadEventDoesNotBlockNext() {
	id := s.seedProduct("Widget", 10, 20)

	consumerCtx, cancel := context.WithCancel(s.Ctx)
	defer cancel()

	consumer := transportKafka.NewConsumer(s.InventoryService, zap.NewNop())
	go consumer.Start(consumerCtx, s.KafkaBrokers)

	producer, err := kafka.NewProducer(s.KafkaBrokers)
	s.Require().NoError(err)
	defer producer.Close()

	bad := map[string]any{
		"event": "OrderCreated",
		"payload": domain.OrderCreatedEvent{
			EventID: "it-bad",
			OrderID: 2,
			Items:   []domain.OrderItem{{ProductID: 999999, Quantity: 1}},
		},
	}
	good := map[string]any{
		"event": "OrderCreated",
		"payload": domain.OrderCreatedEvent{
			EventID: "it-good",
			OrderID: 3,
			Items:   []domain.OrderItem{{ProductID: id, Quantity: 3}},
		},
	}

	s.Require().NoError(producer.ProduceMessage(s.Ctx, "order_events", bad))
	s.Require().NoError(producer.ProduceMessage(s.Ctx, "order_events", good))

	s.Require().Eventually(func() bool {
		return s.productQuantity(id) == 17
	}, 30*time.Second, 250*time.Millisecond)
}
