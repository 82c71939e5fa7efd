package handlers

import (
	"fleetdesk/internal/app"
	"fleetdesk/internal/logger"
	. "fleetdesk/internal/models"
	"fleetdesk/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AssignmentHandler struct {
	Handler
	assignmentService *services.AssignmentLifecycleService
}

func NewAssignmentHandler(app app.App, router fiber.Router) *AssignmentHandler {
	log := logger.New("handlers").File("assignment_handler")
	return &AssignmentHandler{
		assignmentService: app.Services.AssignmentLifecycle,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *AssignmentHandler) Register() {
	assignments := h.router.Group("/assignments")

	assignments.Post("/", h.createAssignment)
	assignments.Put("/:id", h.updateAssignment)
	assignments.Delete("/:id", h.deleteAssignment)
	assignments.Post("/release-expired", h.releaseExpired)
}

func (h *AssignmentHandler) createAssignment(c *fiber.Ctx) error {
	log := h.log.Function("createAssignment")

	var assignment Assignment
	if err := c.BodyParser(&assignment); err != nil {
		log.Warn("failed to parse assignment payload", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}

	created, err := h.assignmentService.Create(c.UserContext(), &assignment)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"assignment": created})
}

func (h *AssignmentHandler) updateAssignment(c *fiber.Ctx) error {
	log := h.log.Function("updateAssignment")

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid assignment id"})
	}

	var payload Assignment
	if err := c.BodyParser(&payload); err != nil {
		log.Warn("failed to parse assignment payload", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}

	updated, err := h.assignmentService.Update(c.UserContext(), id, &payload)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"assignment": updated})
}

func (h *AssignmentHandler) deleteAssignment(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid assignment id"})
	}

	if err := h.assignmentService.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// releaseExpired lets operators run the nightly release on demand.
func (h *AssignmentHandler) releaseExpired(c *fiber.Ctx) error {
	released, err := h.assignmentService.ReleaseExpired(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"released": released})
}
