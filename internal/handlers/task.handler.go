package handlers

import (
	"context"
	"time"

	"fleetdesk/internal/app"
	"fleetdesk/internal/logger"
	. "fleetdesk/internal/models"
	"fleetdesk/internal/repositories"
	"fleetdesk/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskHandler struct {
	Handler
	taskScheduler *services.TaskSchedulerService
	transaction   *services.TransactionService
	locks         *services.VehicleLockService
	taskTypeRepo  repositories.TaskTypeRepository
	app           app.App
}

func NewTaskHandler(app app.App, router fiber.Router) *TaskHandler {
	log := logger.New("handlers").File("task_handler")
	return &TaskHandler{
		taskScheduler: app.Services.TaskScheduler,
		transaction:   app.Services.Transaction,
		locks:         app.Services.VehicleLocks,
		taskTypeRepo:  app.Repos.TaskType,
		app:           app,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *TaskHandler) Register() {
	tasks := h.router.Group("/tasks")
	tasks.Post("/", h.createTask)
	tasks.Post("/:id/close", h.closeTask)
	tasks.Delete("/:id", h.deleteTask)

	taskTypes := h.router.Group("/task-types")
	taskTypes.Get("/", h.getTaskTypes)
	taskTypes.Post("/", h.createTaskType)

	h.router.Get("/vehicles/:id/tasks", h.getVehicleTasks)
}

func (h *TaskHandler) getVehicleTasks(c *fiber.Ctx) error {
	vehicleID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid vehicle id"})
	}

	ctx := c.UserContext()
	tasks, err := h.taskScheduler.GetOpenTasks(ctx, h.app.Database.SQLWithContext(ctx), vehicleID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"tasks": tasks})
}

func (h *TaskHandler) createTask(c *fiber.Ctx) error {
	log := h.log.Function("createTask")

	var task VehicleTask
	if err := c.BodyParser(&task); err != nil {
		log.Warn("failed to parse task payload", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	if task.VehicleID == uuid.Nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "vehicleId is required"})
	}

	unlock := h.locks.Lock(task.VehicleID)
	defer unlock()

	err := h.transaction.Execute(c.UserContext(), func(ctx context.Context, tx *gorm.DB) error {
		_, err := h.taskScheduler.CreateManualTask(ctx, tx, &task)
		return err
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"task": &task})
}

type closeTaskRequest struct {
	ExecutedAt *time.Time `json:"executedAt"`
}

func (h *TaskHandler) closeTask(c *fiber.Ctx) error {
	log := h.log.Function("closeTask")

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid task id"})
	}

	var req closeTaskRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("failed to parse close payload", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}

	executedAt := time.Now()
	if req.ExecutedAt != nil {
		executedAt = *req.ExecutedAt
	}

	var closed *VehicleTask
	err = h.transaction.Execute(c.UserContext(), func(ctx context.Context, tx *gorm.DB) error {
		var err error
		closed, err = h.taskScheduler.CloseTask(ctx, tx, id, executedAt)
		return err
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"task": closed})
}

func (h *TaskHandler) deleteTask(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid task id"})
	}

	err = h.transaction.Execute(c.UserContext(), func(ctx context.Context, tx *gorm.DB) error {
		return h.taskScheduler.DeleteTask(ctx, tx, id)
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *TaskHandler) getTaskTypes(c *fiber.Ctx) error {
	ctx := c.UserContext()
	taskTypes, err := h.taskTypeRepo.GetAll(ctx, h.app.Database.SQLWithContext(ctx))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"taskTypes": taskTypes})
}

func (h *TaskHandler) createTaskType(c *fiber.Ctx) error {
	log := h.log.Function("createTaskType")

	var taskType TaskType
	if err := c.BodyParser(&taskType); err != nil {
		log.Warn("failed to parse task type payload", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}

	err := h.transaction.Execute(c.UserContext(), func(ctx context.Context, tx *gorm.DB) error {
		return h.taskTypeRepo.Create(ctx, tx, &taskType)
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"taskType": &taskType})
}
