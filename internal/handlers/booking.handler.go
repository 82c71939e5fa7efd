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

type BookingHandler struct {
	Handler
	bookingService *services.BookingLifecycleService
}

func NewBookingHandler(app app.App, router fiber.Router) *BookingHandler {
	log := logger.New("handlers").File("booking_handler")
	return &BookingHandler{
		bookingService: app.Services.BookingLifecycle,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *BookingHandler) Register() {
	bookings := h.router.Group("/bookings")

	bookings.Post("/", h.createBooking)
	bookings.Put("/:id", h.updateBooking)
	bookings.Delete("/:id", h.deleteBooking)
	bookings.Get("/counts/active", h.countActive)
	bookings.Get("/counts/day", h.countForDay)
	bookings.Get("/upcoming", h.getUpcoming)
}

func (h *BookingHandler) createBooking(c *fiber.Ctx) error {
	log := h.log.Function("createBooking")

	var booking VehicleBooking
	if err := c.BodyParser(&booking); err != nil {
		log.Warn("failed to parse booking payload", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}

	created, err := h.bookingService.Create(c.UserContext(), &booking)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"booking": created})
}

func (h *BookingHandler) updateBooking(c *fiber.Ctx) error {
	log := h.log.Function("updateBooking")

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid booking id"})
	}

	var payload VehicleBooking
	if err := c.BodyParser(&payload); err != nil {
		log.Warn("failed to parse booking payload", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}

	updated, err := h.bookingService.Update(c.UserContext(), id, &payload)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"booking": updated})
}

func (h *BookingHandler) deleteBooking(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid booking id"})
	}

	if err := h.bookingService.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *BookingHandler) countActive(c *fiber.Ctx) error {
	count, err := h.bookingService.CountActiveNow(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"count": count})
}

func (h *BookingHandler) countForDay(c *fiber.Ctx) error {
	day := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid date, expected YYYY-MM-DD"})
		}
		day = parsed
	}

	count, err := h.bookingService.CountForDay(c.UserContext(), day)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"count": count})
}

func (h *BookingHandler) getUpcoming(c *fiber.Ctx) error {
	days := c.QueryInt("days", 7)
	if days <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "days must be positive"})
	}

	bookings, err := h.bookingService.GetUpcoming(c.UserContext(), days)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"bookings": bookings})
}
