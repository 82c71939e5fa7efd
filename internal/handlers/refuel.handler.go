package handlers

import (
	"fleetdesk/internal/app"
	"fleetdesk/internal/logger"
	. "fleetdesk/internal/models"
	"fleetdesk/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type RefuelHandler struct {
	Handler
	refuelService *services.RefuelService
}

func NewRefuelHandler(app app.App, router fiber.Router) *RefuelHandler {
	log := logger.New("handlers").File("refuel_handler")
	return &RefuelHandler{
		refuelService: app.Services.Refuel,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *RefuelHandler) Register() {
	refuels := h.router.Group("/refuels")

	refuels.Post("/", h.createRefuel)
	refuels.Put("/:id", h.updateRefuel)
	refuels.Delete("/:id", h.deleteRefuel)

	h.router.Get("/vehicles/:id/refuels", h.getVehicleRefuels)
}

func (h *RefuelHandler) createRefuel(c *fiber.Ctx) error {
	log := h.log.Function("createRefuel")

	var refuel RefuelRecord
	if err := c.BodyParser(&refuel); err != nil {
		log.Warn("failed to parse refuel payload", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}

	created, err := h.refuelService.Create(c.UserContext(), &refuel)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"refuel": created})
}

func (h *RefuelHandler) updateRefuel(c *fiber.Ctx) error {
	log := h.log.Function("updateRefuel")

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid refuel id"})
	}

	var refuel RefuelRecord
	if err := c.BodyParser(&refuel); err != nil {
		log.Warn("failed to parse refuel payload", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	refuel.ID = id

	updated, err := h.refuelService.Update(c.UserContext(), &refuel)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"refuel": updated})
}

func (h *RefuelHandler) deleteRefuel(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid refuel id"})
	}

	if err := h.refuelService.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *RefuelHandler) getVehicleRefuels(c *fiber.Ctx) error {
	vehicleID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid vehicle id"})
	}

	refuels, err := h.refuelService.GetByVehicle(c.UserContext(), vehicleID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"refuels": refuels})
}
