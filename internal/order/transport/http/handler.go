package http

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rathinadev/gocommerce/internal/order/domain"
	"github.com/rathinadev/gocommerce/internal/order/service"
	"github.com/rathinadev/gocommerce/pkg/mylogger"
	"github.com/rathinadev/gocommerce/pkg/utils"
	"go.uber.org/zap"
)

// UserIDHeader carries the caller identity resolved by the gateway. The
// order service trusts it; credential validation happens upstream.
const UserIDHeader = "X-User-Id"

type OrderHandler struct {
	service  service.OrderService
	validate *validator.Validate
	logger   *zap.Logger
}

func NewOrderHandler(service service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

type OrderItemInput struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int64 `json:"quantity" validate:"required,gt=0"`
}

// Items may be empty: an order with no lines is valid, totals zero, and
// still lands as PENDING. Only a missing items field is rejected.
type CreateOrderInput struct {
	Items []OrderItemInput `json:"items" validate:"required,dive"`
}

func (h *OrderHandler) Create(c *fiber.Ctx) error {
	userID, err := strconv.ParseInt(c.Get(UserIDHeader), 10, 64)
	if err != nil || userID <= 0 {
		mylogger.Warn(c.UserContext(), h.logger, "missing or invalid user id header")

		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "missing user identity",
		})
	}

	input := new(CreateOrderInput)
	if err := c.BodyParser(input); err != nil {
		h.logger.Warn("failed to parse body in create order", zap.Error(err))

		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "error parsing body",
		})
	}

	if err := h.validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": utils.FormatValidationError(err),
		})
	}

	items := make([]domain.OrderItem, 0, len(input.Items))
	for _, item := range input.Items {
		items = append(items, domain.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	order, err := h.service.CreateOrder(c.UserContext(), userID, items)
	if err != nil {
		status := mapErrorStatus(err)

		mylogger.Warn(
			c.UserContext(),
			h.logger,
			"create order failed",
			zap.Int("http_status", status),
			zap.Error(err),
		)

		return c.Status(status).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	mylogger.Info(
		c.UserContext(),
		h.logger,
		"order created",
		zap.Int64("order_id", order.ID),
		zap.Float64("total_price", order.TotalPrice),
	)

	return c.Status(fiber.StatusCreated).JSON(order)
}

func mapErrorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusInternalServerError
	}
}

func RegisterRoutes(app *fiber.App, h *OrderHandler) {
	app.Post("/orders", h.Create)
}
