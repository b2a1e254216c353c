package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rathinadev/gocommerce/internal/inventory/domain"
)

// cachedInventoryService is a read-through cache in front of product reads.
// Stock mutations invalidate the cached entry so lookups never serve a
// quantity older than the cache TTL after a decrement.
type cachedInventoryService struct {
	next        InventoryService
	redisClient *redis.Client
	cacheTTL    time.Duration
}

func NewCachedInventoryService(next InventoryService, redisClient *redis.Client) InventoryService {
	return &cachedInventoryService{
		next:        next,
		redisClient: redisClient,
		cacheTTL:    time.Minute * 10,
	}
}

func (s *cachedInventoryService) Create(ctx context.Context, product *domain.Product) (int64, error) {
	return s.next.Create(ctx, product)
}

func (s *cachedInventoryService) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	key := productKey(id)

	val, err := s.redisClient.Get(ctx, key).Result()
	if err == nil {
		var product domain.Product
		if err := json.Unmarshal([]byte(val), &product); err == nil {
			return &product, nil
		}
	}

	product, err := s.next.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(product); err == nil {
		s.redisClient.Set(ctx, key, data, s.cacheTTL)
	}

	return product, nil
}

func (s *cachedInventoryService) ApplyOrderCreated(ctx context.Context, event *domain.OrderCreatedEvent) error {
	err := s.next.ApplyOrderCreated(ctx, event)

	for _, item := range event.Items {
		s.redisClient.Del(ctx, productKey(item.ProductID))
	}

	return err
}

func productKey(id int64) string {
	return fmt.Sprintf("product:%d", id)
}
