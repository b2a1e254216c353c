package http

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rathinadev/gocommerce/internal/inventory/domain"
	"github.com/rathinadev/gocommerce/internal/inventory/repository"
	"github.com/rathinadev/gocommerce/internal/inventory/service"
	"github.com/rathinadev/gocommerce/pkg/mylogger"
	"github.com/rathinadev/gocommerce/pkg/utils"
	"go.uber.org/zap"
)

type ProductHandler struct {
	service  service.InventoryService
	validate *validator.Validate
	logger   *zap.Logger
}

func NewProductHandler(service service.InventoryService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

type CreateProductInput struct {
	Name     string  `json:"name" validate:"required,min=1,max=100"`
	Price    float64 `json:"price" validate:"required,gt=0"`
	Quantity int64   `json:"quantity" validate:"gte=0"`
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	input := new(CreateProductInput)

	if err := c.BodyParser(input); err != nil {
		h.logger.Warn("failed to parse body in create product", zap.Error(err))

		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "error parsing body",
		})
	}

	if err := h.validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": utils.FormatValidationError(err),
		})
	}

	product := &domain.Product{
		Name:     input.Name,
		Price:    input.Price,
		Quantity: input.Quantity,
	}

	id, err := h.service.Create(c.UserContext(), product)
	if err != nil {
		mylogger.Error(c.UserContext(), h.logger, "create product failed", zap.Error(err))

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to create product",
		})
	}

	mylogger.Info(
		c.UserContext(),
		h.logger,
		"product created",
		zap.Int64("product_id", id),
	)

	return c.Status(fiber.StatusCreated).JSON(product)
}

func (h *ProductHandler) FindByID(c *fiber.Ctx) error {
	idStr := c.Params("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		mylogger.Warn(
			c.UserContext(),
			h.logger,
			"invalid product id",
			zap.String("id", idStr),
		)

		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Id is invalid",
		})
	}

	product, err := h.service.FindByID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Product not found",
			})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to get product",
		})
	}

	return c.JSON(product)
}

func RegisterRoutes(app *fiber.App, h *ProductHandler) {
	app.Post("/products", h.Create)
	app.Get("/products/:id", h.FindByID)
}
