package tests

import (
	"sync"
	"sync/atomic"

	"github.com/rathinadev/gocommerce/internal/inventory/domain"
	"github.com/rathinadev/gocommerce/internal/inventory/repository"
)

func (s *IntegrationTestSuite) TestDecreaseStock_Success() {
	id := s.seedProduct("Widget", 10, 20)

	err := s.ProductRepo.DecreaseStock(s.Ctx, id, 2)
	s.Require().NoError(err)

	s.Require().Equal(int64(18), s.productQuantity(id))
}

func (s *IntegrationTestSuite) TestDecreaseStock_Insufficient() {
	id := s.seedProduct("Widget", 10, 1)

	err := s.ProductRepo.DecreaseStock(s.Ctx, id, 5)
	s.Require().ErrorIs(err, repository.ErrInsufficientStock)

	s.Require().Equal(int64(1), s.productQuantity(id))
}

func (s *IntegrationTestSuite) TestDecreaseStock_MissingProduct() {
	err := s.ProductRepo.DecreaseStock(s.Ctx, 999999, 1)
	s.Require().ErrorIs(err, repository.ErrProductNotFound)
}

// Ten concurrent single-unit decrements against a stock of five: exactly
// five must succeed and the stock must land on zero, never below.
func (s *IntegrationTestSuite) TestDecreaseStock_ConcurrentNeverNegative() {
	id := s.seedProduct("Widget", 10, 5)

	var (
		wg        sync.WaitGroup
		succeeded atomic.Int64
	)

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			if err := s.ProductRepo.DecreaseStock(s.Ctx, id, 1); err == nil {
				succeeded.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Require().Equal(int64(5), succeeded.Load())
	s.Require().Equal(int64(0), s.productQuantity(id))
}

// The same event applied twice decrements twice: delivery is at least
// once and nothing deduplicates by event id.
func (s *IntegrationTestSuite) TestApplyOrderCreated_RedeliveryDecrementsTwice() {
	id := s.seedProduct("Widget", 10, 20)

	event := &domain.OrderCreatedEvent{
		EventID: "dup-1",
		OrderID: 1,
		Items:   []domain.OrderItem{{ProductID: id, Quantity: 2}},
	}

	s.Require().NoError(s.InventoryService.ApplyOrderCreated(s.Ctx, event))
	s.Require().NoError(s.InventoryService.ApplyOrderCreated(s.Ctx, event))

	s.Require().Equal(int64(16), s.productQuantity(id))
}

func (s *IntegrationTestSuite) TestApplyOrderCreated_PartialEventStillApplies() {
	scarce := s.seedProduct("Scarce", 10, 1)
	plenty := s.seedProduct("Plenty", 10, 10)

	event := &domain.OrderCreatedEvent{
		OrderID: 2,
		Items: []domain.OrderItem{
			{ProductID: scarce, Quantity: 5},
			{ProductID: plenty, Quantity: 4},
		},
	}

	s.Require().NoError(s.InventoryService.ApplyOrderCreated(s.Ctx, event))

	s.Require().Equal(int64(1), s.productQuantity(scarce))
	s.Require().Equal(int64(6), s.productQuantity(plenty))
}
