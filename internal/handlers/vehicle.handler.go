package handlers

import (
	"time"

	"fleetdesk/internal/app"
	"fleetdesk/internal/logger"
	. "fleetdesk/internal/models"
	"fleetdesk/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type VehicleHandler struct {
	Handler
	vehicleService    *services.VehicleService
	assignmentService *services.AssignmentLifecycleService
	guardService      *services.AvailabilityGuardService
	app               app.App
}

func NewVehicleHandler(app app.App, router fiber.Router) *VehicleHandler {
	log := logger.New("handlers").File("vehicle_handler")
	return &VehicleHandler{
		vehicleService:    app.Services.Vehicle,
		assignmentService: app.Services.AssignmentLifecycle,
		guardService:      app.Services.AvailabilityGuard,
		app:               app,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *VehicleHandler) Register() {
	vehicles := h.router.Group("/vehicles")

	vehicles.Get("/", h.getVehicles)
	vehicles.Post("/", h.createVehicle)
	vehicles.Get("/:id", h.getVehicle)
	vehicles.Put("/:id", h.updateVehicle)
	vehicles.Post("/:id/mileage", h.recordMileage)
	vehicles.Put("/:id/auto-tasks", h.setAutoTasks)
	vehicles.Get("/:id/assignment", h.getActiveAssignment)
	vehicles.Get("/:id/assignability", h.checkAssignability)
}

func (h *VehicleHandler) getVehicles(c *fiber.Ctx) error {
	vehicles, err := h.vehicleService.GetAll(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"vehicles": vehicles})
}

func (h *VehicleHandler) getVehicle(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid vehicle id"})
	}

	vehicle, err := h.vehicleService.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"vehicle": vehicle})
}

func (h *VehicleHandler) createVehicle(c *fiber.Ctx) error {
	log := h.log.Function("createVehicle")

	var vehicle Vehicle
	if err := c.BodyParser(&vehicle); err != nil {
		log.Warn("failed to parse vehicle payload", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}

	created, err := h.vehicleService.Create(c.UserContext(), &vehicle)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"vehicle": created})
}

func (h *VehicleHandler) updateVehicle(c *fiber.Ctx) error {
	log := h.log.Function("updateVehicle")

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid vehicle id"})
	}

	var vehicle Vehicle
	if err := c.BodyParser(&vehicle); err != nil {
		log.Warn("failed to parse vehicle payload", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	vehicle.ID = id

	updated, err := h.vehicleService.Update(c.UserContext(), &vehicle)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"vehicle": updated})
}

type recordMileageRequest struct {
	Mileage    *int       `json:"mileage"`
	ObservedAt *time.Time `json:"observedAt"`
}

func (h *VehicleHandler) recordMileage(c *fiber.Ctx) error {
	log := h.log.Function("recordMileage")

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid vehicle id"})
	}

	var req recordMileageRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("failed to parse mileage payload", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}

	observedAt := time.Now()
	if req.ObservedAt != nil {
		observedAt = *req.ObservedAt
	}

	entry, err := h.vehicleService.RecordMileage(c.UserContext(), id, req.Mileage, observedAt)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"entry": entry})
}

type setAutoTasksRequest struct {
	TaskTypeIDs []uuid.UUID `json:"taskTypeIds"`
}

func (h *VehicleHandler) setAutoTasks(c *fiber.Ctx) error {
	log := h.log.Function("setAutoTasks")

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid vehicle id"})
	}

	var req setAutoTasksRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("failed to parse auto tasks payload", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}

	if err := h.vehicleService.SetAutoTasks(c.UserContext(), id, req.TaskTypeIDs); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *VehicleHandler) getActiveAssignment(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid vehicle id"})
	}

	assignment, err := h.assignmentService.FindActiveByVehicle(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"assignment": assignment})
}

// checkAssignability exposes the guard so the UI can explain up front why a
// vehicle cannot be assigned.
func (h *VehicleHandler) checkAssignability(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid vehicle id"})
	}

	ctx := c.UserContext()
	vehicle, err := h.vehicleService.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}

	err = h.guardService.ValidateVehicleCanBeAssigned(ctx, h.app.Database.SQLWithContext(ctx), vehicle)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"assignable": true})
}
