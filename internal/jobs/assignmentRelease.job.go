package jobs

import (
	"context"

	"fleetdesk/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

// AssignmentReleaseJob returns every expired assignment each morning so
// vehicles come back into service before the workday.
type AssignmentReleaseJob struct {
	lifecycle *services.AssignmentLifecycleService
	log       logger.Logger
	schedule  services.Schedule
}

func NewAssignmentReleaseJob(
	lifecycle *services.AssignmentLifecycleService,
	schedule services.Schedule,
) *AssignmentReleaseJob {
	log := logger.New("assignmentReleaseJob")
	log.Info("Creating new assignment release job", "schedule", schedule)

	return &AssignmentReleaseJob{
		lifecycle: lifecycle,
		log:       log,
		schedule:  schedule,
	}
}

func (j *AssignmentReleaseJob) Name() string {
	return "AssignmentRelease"
}

func (j *AssignmentReleaseJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	log.Info("Starting expired assignment release")

	released, err := j.lifecycle.ReleaseExpired(ctx)
	if err != nil {
		return log.Err("expired assignment release failed", err)
	}

	log.Info("Expired assignment release completed", "released", released)
	return nil
}

func (j *AssignmentReleaseJob) Schedule() services.Schedule {
	return j.schedule
}
