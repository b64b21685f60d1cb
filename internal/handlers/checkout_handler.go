package handlers

import (
	"errors"
	"fmt"
	"log"

	"boutique/internal/models"
	"boutique/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

// CheckoutHandler handles HTTP requests for checkout and order lookup.
type CheckoutHandler struct {
	store           *session.Store
	checkoutService *services.CheckoutService
	orderService    *services.OrderService
	validate        *validator.Validate
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(store *session.Store, checkoutService *services.CheckoutService, orderService *services.OrderService) *CheckoutHandler {
	return &CheckoutHandler{
		store:           store,
		checkoutService: checkoutService,
		orderService:    orderService,
		validate:        validator.New(),
	}
}

// RegisterRoutes registers the checkout and order routes with the Fiber app.
func (h *CheckoutHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/checkout", h.HandleCheckout)

	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Get("/:number", h.HandleGetOrderByNumber)
	orderRoutes.Put("/:number/items/:itemID", h.HandleUpdateLineItem)
	orderRoutes.Delete("/:number/items/:itemID", h.HandleRemoveLineItem)
}

// HandleCheckout materializes the session bag into a persisted order and
// clears the bag on success.
func (h *CheckoutHandler) HandleCheckout(c *fiber.Ctx) error {
	var details services.CheckoutDetails
	if err := c.BodyParser(&details); err != nil {
		log.Printf("Error parsing checkout request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(details); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationMessages(err),
		})
	}

	sess, bag, err := loadBag(h.store, c)
	if err != nil {
		log.Printf("Error loading bag: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not load bag",
			"error":   err.Error(),
		})
	}

	order, err := h.checkoutService.Checkout(bag, details)
	if err != nil {
		log.Printf("Error during checkout: %v", err)
		switch {
		case errors.Is(err, models.ErrEmptyBag):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "There's nothing in your bag at the moment",
			})
		case errors.Is(err, models.ErrStaleBagEntry):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "Your bag contains an item that is no longer available",
				"error":   err.Error(),
			})
		case errors.Is(err, models.ErrInvalidQuantity):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Your bag contains an invalid quantity",
				"error":   err.Error(),
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Could not complete checkout",
				"error":   err.Error(),
			})
		}
	}

	// The order is committed; a session hiccup must not fail the checkout.
	if err := clearBag(sess); err != nil {
		log.Printf("Error clearing bag after checkout of order %s: %v", order.OrderNumber, err)
	}

	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleGetOrders retrieves all orders.
func (h *CheckoutHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := h.orderService.GetAllOrders()
	if err != nil {
		log.Printf("Error getting all orders: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve orders",
			"error":   err.Error(),
		})
	}
	return c.JSON(orders)
}

// HandleGetOrderByNumber retrieves an order with its line items by its
// order number.
func (h *CheckoutHandler) HandleGetOrderByNumber(c *fiber.Ctx) error {
	orderNumber := c.Params("number")
	order, err := h.orderService.GetOrderByNumber(orderNumber)
	if err != nil {
		log.Printf("Error getting order %s: %v", orderNumber, err)
		if errors.Is(err, models.ErrOrderNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Order %s not found", orderNumber),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve order",
			"error":   err.Error(),
		})
	}
	return c.JSON(order)
}

// HandleUpdateLineItem changes a line item's quantity and returns the
// order with its reconciled totals.
func (h *CheckoutHandler) HandleUpdateLineItem(c *fiber.Ctx) error {
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing line item update body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	order, err := h.orderService.UpdateLineItemQuantity(c.Params("number"), c.Params("itemID"), req.Quantity)
	if err != nil {
		return h.lineItemError(c, err)
	}
	return c.JSON(order)
}

// HandleRemoveLineItem deletes a line item and returns the order with
// its reconciled totals.
func (h *CheckoutHandler) HandleRemoveLineItem(c *fiber.Ctx) error {
	order, err := h.orderService.RemoveLineItem(c.Params("number"), c.Params("itemID"))
	if err != nil {
		return h.lineItemError(c, err)
	}
	return c.JSON(order)
}

// lineItemError maps line-item operation errors to HTTP responses.
func (h *CheckoutHandler) lineItemError(c *fiber.Ctx, err error) error {
	log.Printf("Error modifying line item: %v", err)
	switch {
	case errors.Is(err, models.ErrOrderNotFound), errors.Is(err, models.ErrLineItemNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Order or line item not found",
			"error":   err.Error(),
		})
	case errors.Is(err, models.ErrInvalidQuantity):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Quantity must be between 1 and 99",
			"error":   err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not modify line item",
			"error":   err.Error(),
		})
	}
}
