package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rathinadev/gocommerce/internal/order/client"
	"github.com/rathinadev/gocommerce/internal/order/domain"
	"github.com/rathinadev/gocommerce/internal/order/repository"
	"github.com/rathinadev/gocommerce/pkg/mylogger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const orderEventsTopic = "order_events"

type OrderService interface {
	CreateOrder(ctx context.Context, userID int64, items []domain.OrderItem) (*domain.Order, error)
}

type EventProducer interface {
	ProduceMessage(ctx context.Context, topic string, message interface{}) error
}

type orderService struct {
	orderRepo repository.OrderRepository
	inventory client.InventoryClient
	producer  EventProducer
	logger    *zap.Logger
	tracer    trace.Tracer
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	inventory client.InventoryClient,
	producer EventProducer,
	logger *zap.Logger,
) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		inventory: inventory,
		producer:  producer,
		logger:    logger,
		tracer:    otel.Tracer("order_service"),
	}
}

// CreateOrder validates every line item against the inventory service,
// persists the order as PENDING, and then publishes one OrderCreated
// event. Validation failures abort the whole order before anything is
// written. A publish failure after the commit is logged and swallowed:
// the order stands, inventory catches up when the channel recovers or
// not at all.
func (s *orderService) CreateOrder(ctx context.Context, userID int64, items []domain.OrderItem) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.CreateOrder")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("user_id", userID),
		attribute.Int("items_count", len(items)),
	)

	var totalPrice float64
	for _, item := range items {
		product, err := s.inventory.GetProduct(ctx, item.ProductID)
		if err != nil {
			span.RecordError(err)

			if errors.Is(err, domain.ErrProductNotFound) {
				mylogger.Warn(
					ctx,
					s.logger,
					"Ordered product not found",
					zap.Int64("product_id", item.ProductID),
				)

				return nil, err
			}

			mylogger.Warn(
				ctx,
				s.logger,
				"Inventory lookup failed",
				zap.Int64("product_id", item.ProductID),
				zap.Error(err),
			)

			return nil, err
		}

		if product.Quantity < item.Quantity {
			mylogger.Warn(
				ctx,
				s.logger,
				"Not enough stock at validation time",
				zap.Int64("product_id", item.ProductID),
				zap.Int64("requested", item.Quantity),
				zap.Int64("available", product.Quantity),
			)

			return nil, fmt.Errorf("%w: product %d", domain.ErrInsufficientStock, item.ProductID)
		}

		// Prices observed now are final: they are not re-checked when the
		// decrement is applied later.
		totalPrice += product.Price * float64(item.Quantity)
	}

	order := &domain.Order{
		UserID:     userID,
		Status:     domain.OrderStatusPending,
		TotalPrice: totalPrice,
		Items:      items,
	}

	if err := s.orderRepo.CreateOrder(ctx, order); err != nil {
		span.RecordError(err)

		mylogger.Error(
			ctx,
			s.logger,
			"Failed to create order",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)

		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.publishOrderCreated(ctx, order)

	return order, nil
}

func (s *orderService) publishOrderCreated(ctx context.Context, order *domain.Order) {
	envelope := map[string]any{
		"event": "OrderCreated",
		"payload": domain.OrderCreatedEvent{
			EventID: uuid.NewString(),
			OrderID: order.ID,
			Items:   order.Items,
		},
	}

	if err := s.producer.ProduceMessage(ctx, orderEventsTopic, envelope); err != nil {
		mylogger.Error(
			ctx,
			s.logger,
			"Failed to publish order created event",
			zap.Int64("order_id", order.ID),
			zap.Error(err),
		)

		return
	}

	mylogger.Info(
		ctx,
		s.logger,
		"Order created event published",
		zap.Int64("order_id", order.ID),
	)
}
