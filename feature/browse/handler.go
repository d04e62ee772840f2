package browse

import (
	"errors"

	"gamedb/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for browsing the catalog.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the browse routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/systems", h.HandleListSystems)
	app.Get("/systems/:id/titles", h.HandleListTitles)
	app.Get("/titles/:id", h.HandleGetTitle)
}

// HandleListSystems lists every system with its title count.
func (h *Handler) HandleListSystems(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	systems, err := h.service.ListSystems()
	if err != nil {
		l.Error("Listing systems failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"systems": systems})
}

// HandleListTitles lists one page of a system's titles. Supports q, limit
// and offset query parameters.
func (h *Handler) HandleListTitles(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid system id"})
	}

	page, err := h.service.ListTitles(
		uint(id),
		c.Query("q"),
		c.QueryInt("limit"),
		c.QueryInt("offset"),
	)
	if errors.Is(err, ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "system not found"})
	}
	if err != nil {
		l.Error("Listing titles failed", zap.Int("system_id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(page)
}

// HandleGetTitle returns one title with its releases, roms and media.
func (h *Handler) HandleGetTitle(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid title id"})
	}

	detail, err := h.service.GetTitle(uint(id))
	if errors.Is(err, ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "title not found"})
	}
	if err != nil {
		l.Error("Loading title failed", zap.Int("title_id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(detail)
}
