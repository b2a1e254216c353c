package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rathinadev/gocommerce/internal/order/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGetProduct_OK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/1", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":1,"name":"Widget","price":10.5,"quantity":7}`))
	}))
	defer server.Close()

	c := NewInventoryClient(server.URL, time.Second, zap.NewNop())

	product, err := c.GetProduct(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, int64(1), product.ID)
	assert.Equal(t, "Widget", product.Name)
	assert.InDelta(t, 10.5, product.Price, 1e-9)
	assert.Equal(t, int64(7), product.Quantity)
}

func TestGetProduct_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := NewInventoryClient(server.URL, time.Second, zap.NewNop())

	product, err := c.GetProduct(context.Background(), 42)
	require.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.Nil(t, product)
}

// Repeated not-found lookups are successful round trips, not upstream
// faults: they must never trip the breaker, and lookups for products that
// do exist keep working alongside them.
func TestGetProduct_NotFoundDoesNotTripBreaker(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/products/1" {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":1,"name":"Widget","price":10,"quantity":5}`))
			return
		}

		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := NewInventoryClient(server.URL, time.Second, zap.NewNop())

	for i := 0; i < 10; i++ {
		_, err := c.GetProduct(context.Background(), 404)
		require.ErrorIs(t, err, domain.ErrProductNotFound)
	}

	product, err := c.GetProduct(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), product.ID)
}

func TestGetProduct_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewInventoryClient(server.URL, time.Second, zap.NewNop())

	product, err := c.GetProduct(context.Background(), 1)
	require.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
	assert.Nil(t, product)
}

func TestGetProduct_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	c := NewInventoryClient(server.URL, 50*time.Millisecond, zap.NewNop())

	product, err := c.GetProduct(context.Background(), 1)
	require.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
	assert.Nil(t, product)
}

func TestGetProduct_ConnectionRefused(t *testing.T) {
	// Grab a port that nothing is listening on.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	c := NewInventoryClient(url, time.Second, zap.NewNop())

	product, err := c.GetProduct(context.Background(), 1)
	require.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
	assert.Nil(t, product)
}
