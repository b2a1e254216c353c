package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rathinadev/gocommerce/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(tokens *token.Manager) *fiber.App {
	app := fiber.New()
	app.Get("/protected", NewAuthMiddleware(tokens), func(c *fiber.Ctx) error {
		userID, _ := c.Locals("userId").(int64)
		return c.SendString(fmt.Sprintf("user:%d", userID))
	})

	return app
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	tokens := token.NewManager("test-secret", time.Minute)
	app := newTestApp(tokens)

	accessToken, err := tokens.Generate(42)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	tokens := token.NewManager("test-secret", time.Minute)
	app := newTestApp(tokens)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	tokens := token.NewManager("test-secret", time.Minute)
	app := newTestApp(tokens)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_BadSignature(t *testing.T) {
	tokens := token.NewManager("test-secret", time.Minute)
	other := token.NewManager("other-secret", time.Minute)
	app := newTestApp(tokens)

	forged, err := other.Generate(42)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+forged)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
