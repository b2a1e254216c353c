package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rathinadev/gocommerce/internal/inventory/domain"
	"github.com/rathinadev/gocommerce/internal/inventory/repository"
	"github.com/rathinadev/gocommerce/pkg/mylogger"
	"go.uber.org/zap"
)

type InventoryService interface {
	Create(ctx context.Context, product *domain.Product) (int64, error)
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	ApplyOrderCreated(ctx context.Context, event *domain.OrderCreatedEvent) error
}

type inventoryService struct {
	productRepo repository.ProductRepository
	logger      *zap.Logger
}

func NewInventoryService(productRepo repository.ProductRepository, logger *zap.Logger) InventoryService {
	return &inventoryService{
		productRepo: productRepo,
		logger:      logger,
	}
}

func (s *inventoryService) Create(ctx context.Context, product *domain.Product) (int64, error) {
	id, err := s.productRepo.Create(ctx, product)
	if err != nil {
		mylogger.Error(ctx, s.logger, "create product failed", zap.Error(err))
		return 0, fmt.Errorf("error creating product: %w", err)
	}

	return id, nil
}

func (s *inventoryService) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	res, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			mylogger.Warn(ctx, s.logger, "product not found", zap.Int64("product_id", id))
			return nil, err
		}

		mylogger.Error(ctx, s.logger, "error getting product", zap.Error(err))
		return nil, err
	}

	return res, nil
}

// ApplyOrderCreated decrements stock for every line item of the event. A
// failed item is logged and the remaining items are still applied; already
// applied decrements are not rolled back and no compensating event is
// emitted. The caller always acknowledges the message afterwards.
func (s *inventoryService) ApplyOrderCreated(ctx context.Context, event *domain.OrderCreatedEvent) error {
	for _, item := range event.Items {
		err := s.productRepo.DecreaseStock(ctx, item.ProductID, item.Quantity)
		if err == nil {
			continue
		}

		switch {
		case errors.Is(err, repository.ErrInsufficientStock):
			mylogger.Error(
				ctx,
				s.logger,
				"Not enough stock for ordered item",
				zap.Int64("order_id", event.OrderID),
				zap.Int64("product_id", item.ProductID),
				zap.Int64("quantity", item.Quantity),
			)
		case errors.Is(err, repository.ErrProductNotFound):
			mylogger.Error(
				ctx,
				s.logger,
				"Ordered product does not exist",
				zap.Int64("order_id", event.OrderID),
				zap.Int64("product_id", item.ProductID),
			)
		default:
			mylogger.Error(
				ctx,
				s.logger,
				"Failed to decrement stock",
				zap.Int64("order_id", event.OrderID),
				zap.Int64("product_id", item.ProductID),
				zap.Error(err),
			)
		}
	}

	mylogger.Info(
		ctx,
		s.logger,
		"Inventory update processed",
		zap.Int64("order_id", event.OrderID),
		zap.Int("items", len(event.Items)),
	)

	return nil
}
