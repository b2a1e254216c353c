package gateway

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rathinadev/gocommerce/internal/gateway/handler"
	"github.com/rathinadev/gocommerce/internal/gateway/middleware"
	"github.com/rathinadev/gocommerce/pkg/token"
)

type Upstreams struct {
	User      *handler.UpstreamProxy
	Inventory *handler.UpstreamProxy
	Order     *handler.UpstreamProxy
}

func RegisterRoutes(app *fiber.App, up *Upstreams, tokens *token.Manager) {
	authRequired := middleware.NewAuthMiddleware(tokens)

	app.Post("/register", up.User.Forward)
	app.Post("/token", up.User.Forward)

	// Product reads are public; writes require an authenticated caller.
	app.Post("/products", authRequired, up.Inventory.Forward)
	app.Get("/products/:id", up.Inventory.Forward)

	app.Post("/orders", authRequired, up.Order.ForwardWithUser)
}
