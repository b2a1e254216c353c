package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/proxy"
	"github.com/rathinadev/gocommerce/pkg/mylogger"
	"github.com/rathinadev/gocommerce/pkg/utils"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const userIDHeader = "X-User-Id"

// UpstreamProxy forwards a request to one backing service behind a
// circuit breaker.
type UpstreamProxy struct {
	baseURL string
	cb      *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

func NewUpstreamProxy(name, baseURL string, logger *zap.Logger) *UpstreamProxy {
	return &UpstreamProxy{
		baseURL: strings.TrimRight(baseURL, "/"),
		cb:      utils.NewBreaker(name, logger),
		logger:  logger,
	}
}

func (p *UpstreamProxy) Forward(c *fiber.Ctx) error {
	url := p.baseURL + c.OriginalURL()

	_, err := p.cb.Execute(func() (interface{}, error) {
		return nil, proxy.Do(c, url)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			mylogger.Warn(c.UserContext(), p.logger, "Circuit breaker open", zap.String("url", url))

			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "service temporarily unavailable",
			})
		}

		mylogger.Warn(
			c.UserContext(),
			p.logger,
			"Proxy request failed",
			zap.String("url", url),
			zap.Error(err),
		)

		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "upstream request failed",
		})
	}

	return nil
}

// ForwardWithUser injects the authenticated caller's id as a trusted
// header before forwarding. Requires the auth middleware to have run.
func (p *UpstreamProxy) ForwardWithUser(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(int64)
	if !ok || userID == 0 {
		mylogger.Warn(c.UserContext(), p.logger, "user id missing after auth middleware")

		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized: missed user"})
	}

	c.Request().Header.Set(userIDHeader, strconv.FormatInt(userID, 10))
	return p.Forward(c)
}
