package handlers

import (
	"fleetdesk/internal/app"
	"fleetdesk/internal/apperrors"
	"fleetdesk/internal/handlers/middleware"
	"fleetdesk/internal/logger"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	middleware middleware.Middleware
	log        logger.Logger
	router     fiber.Router
}

func Router(router fiber.Router, app *app.App) (err error) {
	router.Use(app.Middleware.TraceID())

	api := router.Group("/api")
	HealthHandler(api, app.Config)
	NewVehicleHandler(*app, api).Register()
	NewEmploymentHandler(*app, api).Register()
	NewAssignmentHandler(*app, api).Register()
	NewBookingHandler(*app, api).Register()
	NewRefuelHandler(*app, api).Register()
	NewMaintenanceHandler(*app, api).Register()
	NewTaskHandler(*app, api).Register()

	return nil
}

// respondError maps domain failures onto HTTP statuses: validation and
// mileage regression are caller-correctable 400s, missing records are 404s,
// everything else is a 500.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case apperrors.IsValidation(err):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "validation failed",
			"reasons": apperrors.ValidationReasons(err),
		})
	case apperrors.IsMileageRegression(err):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	case apperrors.IsNotFound(err):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}
}
