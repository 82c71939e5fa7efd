package jobs

import (
	"fleetdesk/config"
	"fleetdesk/internal/events"
	"fleetdesk/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

// Import schedule constants
const (
	Daily        = services.Daily
	Hourly       = services.Hourly
	DailyMorning = services.DailyMorning
)

func RegisterAllJobs(
	schedulerService *services.SchedulerService,
	config config.Config,
	services services.Service,
	eventBus *events.EventBus,
) error {
	log := logger.New("jobs").Function("RegisterAllJobs")
	log.Info("Registering jobs")

	assignmentReleaseJob := NewAssignmentReleaseJob(
		services.AssignmentLifecycle,
		Daily,
	)
	if err := schedulerService.AddJob(assignmentReleaseJob); err != nil {
		return log.Err("failed to register assignment release job", err)
	}
	log.Info("Registered assignment release job", "schedule", "daily")

	bookingReminderJob := NewBookingReminderJob(
		services.BookingLifecycle,
		eventBus,
		DailyMorning,
	)
	if err := schedulerService.AddJob(bookingReminderJob); err != nil {
		return log.Err("failed to register booking reminder job", err)
	}
	log.Info("Registered booking reminder job", "schedule", "daily morning")

	return nil
}
