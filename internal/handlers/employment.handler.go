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

type EmploymentHandler struct {
	Handler
	employmentService *services.EmploymentService
}

func NewEmploymentHandler(app app.App, router fiber.Router) *EmploymentHandler {
	log := logger.New("handlers").File("employment_handler")
	return &EmploymentHandler{
		employmentService: app.Services.Employment,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *EmploymentHandler) Register() {
	employments := h.router.Group("/employments")

	employments.Get("/", h.getEmployments)
	employments.Post("/", h.createEmployment)
	employments.Get("/:id", h.getEmployment)
	employments.Post("/:id/terminate", h.terminateEmployment)
}

func (h *EmploymentHandler) getEmployments(c *fiber.Ctx) error {
	employments, err := h.employmentService.GetAll(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"employments": employments})
}

func (h *EmploymentHandler) getEmployment(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid employment id"})
	}

	employment, err := h.employmentService.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"employment": employment})
}

func (h *EmploymentHandler) createEmployment(c *fiber.Ctx) error {
	log := h.log.Function("createEmployment")

	var employment Employment
	if err := c.BodyParser(&employment); err != nil {
		log.Warn("failed to parse employment payload", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}

	created, err := h.employmentService.Create(c.UserContext(), &employment)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"employment": created})
}

type terminateEmploymentRequest struct {
	TerminationDate *time.Time `json:"terminationDate"`
}

func (h *EmploymentHandler) terminateEmployment(c *fiber.Ctx) error {
	log := h.log.Function("terminateEmployment")

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid employment id"})
	}

	var req terminateEmploymentRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("failed to parse termination payload", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}

	terminationDate := time.Now()
	if req.TerminationDate != nil {
		terminationDate = *req.TerminationDate
	}

	employment, err := h.employmentService.Terminate(c.UserContext(), id, terminationDate)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"employment": employment})
}
