package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rathinadev/gocommerce/internal/order/domain"
	"github.com/rathinadev/gocommerce/pkg/mylogger"
	"github.com/rathinadev/gocommerce/pkg/utils"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// Product is the inventory service's read model for one product, as
// returned by its GET endpoint.
type Product struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int64   `json:"quantity"`
}

type InventoryClient interface {
	GetProduct(ctx context.Context, productID int64) (*Product, error)
}

type inventoryClient struct {
	baseURL    string
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker
	logger     *zap.Logger
}

// NewInventoryClient builds an HTTP client for the inventory service.
// Every call is bounded by timeout; an expired deadline is reported the
// same way as any other transport failure.
func NewInventoryClient(baseURL string, timeout time.Duration, logger *zap.Logger) InventoryClient {
	return &inventoryClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		cb:     utils.NewBreaker("InventoryService", logger),
		logger: logger,
	}
}

// lookupResult separates "the upstream answered" from what it answered:
// a 404 is a successful round trip and must not count against the breaker.
type lookupResult struct {
	product  *Product
	notFound bool
}

func (c *inventoryClient) GetProduct(ctx context.Context, productID int64) (*Product, error) {
	res, err := utils.ExecuteWithBreaker(c.cb, func() (*lookupResult, error) {
		return c.getProduct(ctx, productID)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			mylogger.Warn(ctx, c.logger, "Inventory circuit breaker open")
			return nil, domain.ErrUpstreamUnavailable
		}

		return nil, err
	}

	if res.notFound {
		return nil, fmt.Errorf("%w: product %d", domain.ErrProductNotFound, productID)
	}

	return res.product, nil
}

func (c *inventoryClient) getProduct(ctx context.Context, productID int64) (*lookupResult, error) {
	url := fmt.Sprintf("%s/products/%d", c.baseURL, productID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build inventory request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		mylogger.Warn(
			ctx,
			c.logger,
			"Inventory lookup failed",
			zap.Int64("product_id", productID),
			zap.Error(err),
		)

		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var product Product
		if err := json.NewDecoder(resp.Body).Decode(&product); err != nil {
			return nil, fmt.Errorf("%w: decoding response: %v", domain.ErrUpstreamUnavailable, err)
		}

		return &lookupResult{product: &product}, nil
	case http.StatusNotFound:
		return &lookupResult{notFound: true}, nil
	default:
		mylogger.Warn(
			ctx,
			c.logger,
			"Inventory lookup returned unexpected status",
			zap.Int64("product_id", productID),
			zap.Int("status", resp.StatusCode),
		)

		return nil, fmt.Errorf("%w: status %d", domain.ErrUpstreamUnavailable, resp.StatusCode)
	}
}
