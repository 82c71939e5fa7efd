package jobs

import (
	"context"

	"fleetdesk/internal/events"
	"fleetdesk/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

// bookingReminderLookaheadDays is how far ahead the reminder looks for
// upcoming bookings.
const bookingReminderLookaheadDays = 1

// BookingReminderJob announces bookings starting within the next day so
// dispatchers can prepare the vehicles.
type BookingReminderJob struct {
	bookings *services.BookingLifecycleService
	eventBus *events.EventBus
	log      logger.Logger
	schedule services.Schedule
}

func NewBookingReminderJob(
	bookings *services.BookingLifecycleService,
	eventBus *events.EventBus,
	schedule services.Schedule,
) *BookingReminderJob {
	log := logger.New("bookingReminderJob")
	log.Info("Creating new booking reminder job", "schedule", schedule)

	return &BookingReminderJob{
		bookings: bookings,
		eventBus: eventBus,
		log:      log,
		schedule: schedule,
	}
}

func (j *BookingReminderJob) Name() string {
	return "BookingReminder"
}

func (j *BookingReminderJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	upcoming, err := j.bookings.GetUpcoming(ctx, bookingReminderLookaheadDays)
	if err != nil {
		return log.Err("failed to load upcoming bookings", err)
	}
	if len(upcoming) == 0 {
		return nil
	}

	for _, booking := range upcoming {
		vehicleID := booking.VehicleID
		err := j.eventBus.Publish(events.FLEET_CHANNEL, events.Event{
			Type:      events.BOOKING_CREATED,
			VehicleID: &vehicleID,
			Data: map[string]any{
				"bookingId": booking.ID.String(),
				"startsAt":  booking.StartsAt,
				"reminder":  true,
			},
		})
		if err != nil {
			log.Er("failed to publish booking reminder", err, "bookingID", booking.ID)
		}
	}

	log.Info("Booking reminders published", "count", len(upcoming))
	return nil
}

func (j *BookingReminderJob) Schedule() services.Schedule {
	return j.schedule
}
