package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"boutique/internal/models"
	"boutique/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

// bagSessionKey is the fixed session key the bag lives under.
const bagSessionKey = "bag"

// BagHandler handles HTTP requests for the session shopping bag.
type BagHandler struct {
	store          *session.Store
	bagService     *services.BagService
	pricingService *services.PricingService
}

// NewBagHandler creates a new BagHandler.
func NewBagHandler(store *session.Store, bagService *services.BagService, pricingService *services.PricingService) *BagHandler {
	return &BagHandler{
		store:          store,
		bagService:     bagService,
		pricingService: pricingService,
	}
}

// RegisterRoutes registers the bag routes with the Fiber app.
func (h *BagHandler) RegisterRoutes(router fiber.Router) {
	bagRoutes := router.Group("/bag")
	bagRoutes.Get("/", h.HandleGetBag)
	bagRoutes.Post("/items/:id", h.HandleAddToBag)
	bagRoutes.Put("/items/:id", h.HandleUpdateBag)
	bagRoutes.Delete("/items/:id", h.HandleRemoveFromBag)
}

// bagItemRequest is the body for add/update operations.
type bagItemRequest struct {
	Quantity int    `json:"quantity"`
	Size     string `json:"size"`
}

// loadBag returns the session and the bag stored in it. A missing or
// unreadable bag starts empty.
func loadBag(store *session.Store, c *fiber.Ctx) (*session.Session, models.Bag, error) {
	sess, err := store.Get(c)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open session: %w", err)
	}
	bag := make(models.Bag)
	if raw, ok := sess.Get(bagSessionKey).(string); ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &bag); err != nil {
			log.Printf("Discarding unreadable session bag: %v", err)
			bag = make(models.Bag)
		}
	}
	return sess, bag, nil
}

// saveBag writes the bag back to the session.
func saveBag(sess *session.Session, bag models.Bag) error {
	data, err := json.Marshal(bag)
	if err != nil {
		return fmt.Errorf("failed to encode bag: %w", err)
	}
	sess.Set(bagSessionKey, string(data))
	if err := sess.Save(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// clearBag removes the bag from the session (used after checkout).
func clearBag(sess *session.Session) error {
	sess.Delete(bagSessionKey)
	if err := sess.Save(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// HandleGetBag prices the current bag and returns its line items and totals.
func (h *BagHandler) HandleGetBag(c *fiber.Ctx) error {
	_, bag, err := loadBag(h.store, c)
	if err != nil {
		log.Printf("Error loading bag: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not load bag",
			"error":   err.Error(),
		})
	}

	items, totals, err := h.pricingService.PriceBag(bag)
	if err != nil {
		log.Printf("Error pricing bag: %v", err)
		if errors.Is(err, models.ErrStaleBagEntry) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "Your bag contains an item that is no longer available",
				"error":   err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not price bag",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"items":  items,
		"totals": totals,
	})
}

// HandleAddToBag adds a quantity of the specified product to the bag.
// A missing or non-positive quantity defaults to 1 via clamping.
func (h *BagHandler) HandleAddToBag(c *fiber.Ctx) error {
	var req bagItemRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing add-to-bag request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
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

	message, err := h.bagService.AddToBag(bag, c.Params("id"), req.Size, req.Quantity)
	if err != nil {
		return h.bagError(c, "add to", err)
	}
	if err := saveBag(sess, bag); err != nil {
		log.Printf("Error saving bag: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not save bag",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": message,
	})
}

// HandleUpdateBag sets the quantity for the specified product in the
// bag. Quantity 0 removes the entry.
func (h *BagHandler) HandleUpdateBag(c *fiber.Ctx) error {
	var req bagItemRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing update-bag request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
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

	message, err := h.bagService.UpdateBag(bag, c.Params("id"), req.Size, req.Quantity)
	if err != nil {
		return h.bagError(c, "update", err)
	}
	if err := saveBag(sess, bag); err != nil {
		log.Printf("Error saving bag: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not save bag",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": message,
	})
}

// HandleRemoveFromBag removes a product (or one of its sizes, via the
// size query parameter) from the bag.
func (h *BagHandler) HandleRemoveFromBag(c *fiber.Ctx) error {
	sess, bag, err := loadBag(h.store, c)
	if err != nil {
		log.Printf("Error loading bag: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not load bag",
			"error":   err.Error(),
		})
	}

	message, err := h.bagService.RemoveFromBag(bag, c.Params("id"), c.Query("size"))
	if err != nil {
		return h.bagError(c, "remove from", err)
	}
	if err := saveBag(sess, bag); err != nil {
		log.Printf("Error saving bag: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not save bag",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": message,
	})
}

// bagError maps bag mutation errors to HTTP responses.
func (h *BagHandler) bagError(c *fiber.Ctx, verb string, err error) error {
	log.Printf("Error trying to %s bag: %v", verb, err)
	switch {
	case errors.Is(err, models.ErrProductNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "That product does not exist",
			"error":   err.Error(),
		})
	case errors.Is(err, models.ErrNotInBag):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "That item is not in your bag",
			"error":   err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": fmt.Sprintf("Could not %s bag", verb),
			"error":   err.Error(),
		})
	}
}
