package handlers

import (
	"fleetdesk/internal/app"
	"fleetdesk/internal/logger"
	. "fleetdesk/internal/models"
	"fleetdesk/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type MaintenanceHandler struct {
	Handler
	maintenanceService *services.MaintenanceService
}

func NewMaintenanceHandler(app app.App, router fiber.Router) *MaintenanceHandler {
	log := logger.New("handlers").File("maintenance_handler")
	return &MaintenanceHandler{
		maintenanceService: app.Services.Maintenance,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *MaintenanceHandler) Register() {
	maintenance := h.router.Group("/maintenance")

	maintenance.Post("/", h.createMaintenance)
	maintenance.Put("/:id", h.updateMaintenance)
	maintenance.Delete("/:id", h.deleteMaintenance)

	h.router.Get("/vehicles/:id/maintenance", h.getVehicleMaintenance)
}

func (h *MaintenanceHandler) createMaintenance(c *fiber.Ctx) error {
	log := h.log.Function("createMaintenance")

	var record MaintenanceRecord
	if err := c.BodyParser(&record); err != nil {
		log.Warn("failed to parse maintenance payload", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}

	created, err := h.maintenanceService.Create(c.UserContext(), &record)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"maintenance": created})
}

func (h *MaintenanceHandler) updateMaintenance(c *fiber.Ctx) error {
	log := h.log.Function("updateMaintenance")

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid maintenance id"})
	}

	var record MaintenanceRecord
	if err := c.BodyParser(&record); err != nil {
		log.Warn("failed to parse maintenance payload", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	record.ID = id

	updated, err := h.maintenanceService.Update(c.UserContext(), &record)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"maintenance": updated})
}

func (h *MaintenanceHandler) deleteMaintenance(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid maintenance id"})
	}

	if err := h.maintenanceService.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *MaintenanceHandler) getVehicleMaintenance(c *fiber.Ctx) error {
	vehicleID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid vehicle id"})
	}

	records, err := h.maintenanceService.GetByVehicle(c.UserContext(), vehicleID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"maintenance": records})
}
