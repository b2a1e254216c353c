package tests

import (
	"encoding/json"
	"time"

	"github.com/IBM/sarama"
	"github.com/rathinadev/gocommerce/internal/order/domain"
)

func (s *IntegrationTestSuite) TestCreateOrder_PersistsPendingRow() {
	order, err := s.OrderService.CreateOrder(s.Ctx, 42, []domain.OrderItem{
		{ProductID: 1, Quantity: 2},
		{ProductID: 2, Quantity: 1},
	})
	s.Require().NoError(err)
	s.Require().NotZero(order.ID)
	s.Require().InDelta(22.5, order.TotalPrice, 1e-9)

	var (
		status     string
		totalPrice float64
		itemsJSON  []byte
	)
	err = s.DbPool.QueryRow(
		s.Ctx,
		`SELECT status, total_price, items FROM orders WHERE id = $1`,
		order.ID,
	).Scan(&status, &totalPrice, &itemsJSON)
	s.Require().NoError(err)

	s.Require().Equal("PENDING", status)
	s.Require().InDelta(22.5, totalPrice, 1e-9)

	var items []domain.OrderItem
	s.Require().NoError(json.Unmarshal(itemsJSON, &items))
	s.Require().Len(items, 2)
	s.Require().Equal(int64(1), items[0].ProductID)
	s.Require().Equal(int64(2), items[0].Quantity)
}

func (s *IntegrationTestSuite) TestCreateOrder_GetByIDRoundTrip() {
	created, err := s.OrderService.CreateOrder(s.Ctx, 7, []domain.OrderItem{
		{ProductID: 1, Quantity: 1},
	})
	s.Require().NoError(err)

	fetched, err := s.OrderRepo.GetByID(s.Ctx, created.ID)
	s.Require().NoError(err)

	s.Require().Equal(created.ID, fetched.ID)
	s.Require().Equal(int64(7), fetched.UserID)
	s.Require().Equal(domain.OrderStatusPending, fetched.Status)
	s.Require().Equal(created.Items, fetched.Items)
}

func (s *IntegrationTestSuite) TestCreateOrder_InsufficientStockWritesNothing() {
	order, err := s.OrderService.CreateOrder(s.Ctx, 42, []domain.OrderItem{
		{ProductID: 2, Quantity: 10},
	})
	s.Require().ErrorIs(err, domain.ErrInsufficientStock)
	s.Require().Nil(order)

	var count int
	s.Require().NoError(
		s.DbPool.QueryRow(s.Ctx, `SELECT COUNT(*) FROM orders`).Scan(&count),
	)
	s.Require().Zero(count)
}

// The published event must carry a value copy of the order lines, not a
// reference resolved at consume time.
func (s *IntegrationTestSuite) TestCreateOrder_PublishesSnapshotEvent() {
	consumer, err := sarama.NewConsumer(s.KafkaBrokers, sarama.NewConfig())
	s.Require().NoError(err)
	defer consumer.Close()

	partitionConsumer, err := consumer.ConsumePartition("order_events", 0, sarama.OffsetNewest)
	s.Require().NoError(err)
	defer partitionConsumer.Close()

	order, err := s.OrderService.CreateOrder(s.Ctx, 42, []domain.OrderItem{
		{ProductID: 1, Quantity: 2},
	})
	s.Require().NoError(err)

	select {
	case msg := <-partitionConsumer.Messages():
		var envelope struct {
			Event   string                  `json:"event"`
			Payload domain.OrderCreatedEvent `json:"payload"`
		}
		s.Require().NoError(json.Unmarshal(msg.Value, &envelope))

		s.Require().Equal("OrderCreated", envelope.Event)
		s.Require().Equal(order.ID, envelope.Payload.OrderID)
		s.Require().NotEmpty(envelope.Payload.EventID)
		s.Require().Equal(order.Items, envelope.Payload.Items)
	case <-time.After(15 * time.Second):
		s.FailNow("no event published to order_events")
	}
}
