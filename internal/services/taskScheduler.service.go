package services

import (
	"context"
	"time"

	"fleetdesk/internal/apperrors"
	"fleetdesk/internal/events"
	"fleetdesk/internal/logger"
	. "fleetdesk/internal/models"
	"fleetdesk/internal/repositories"
	"fleetdesk/internal/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaskSchedulerService keeps exactly one OPEN task per (vehicle, auto task
// type), computing due dates and mileages per task-type family and rolling
// tasks forward when maintenance is recorded.
type TaskSchedulerService struct {
	taskRepo     repositories.VehicleTaskRepository
	taskTypeRepo repositories.TaskTypeRepository
	vehicleRepo  repositories.VehicleRepository
	eventBus     *events.EventBus
	log          logger.Logger
	now          func() time.Time
}

func NewTaskSchedulerService(repos repositories.Repository, eventBus *events.EventBus) *TaskSchedulerService {
	return &TaskSchedulerService{
		taskRepo:     repos.VehicleTask,
		taskTypeRepo: repos.TaskType,
		vehicleRepo:  repos.Vehicle,
		eventBus:     eventBus,
		log:          logger.New("TaskSchedulerService"),
		now:          time.Now,
	}
}

// DueSchedule is a computed due date/mileage pair; either side may be nil.
type DueSchedule struct {
	DueDate    *time.Time
	DueMileage *int
}

// ComputeDueSchedule applies the per-family due rules from a reference
// point. The reference is the vehicle's anchor date on first scheduling and
// the maintenance date on every recurrence.
func ComputeDueSchedule(taskType *TaskType, reference time.Time, currentMileage *int) DueSchedule {
	current := 0
	if currentMileage != nil {
		current = *currentMileage
	}

	switch taskType.Code {
	case TaskTypeCodeOrdinaryService:
		months := 12
		if taskType.MonthsInterval != nil {
			months = *taskType.MonthsInterval
		}
		km := DefaultServiceKmInterval
		if taskType.KmInterval != nil {
			km = *taskType.KmInterval
		}
		dueDate := utils.AddMonths(reference, months)
		dueMileage := current + km
		return DueSchedule{DueDate: &dueDate, DueMileage: &dueMileage}

	case TaskTypeCodeLegalRevision:
		dueDate := utils.AddYears(reference, LegalRevisionYears)
		return DueSchedule{DueDate: &dueDate}

	case TaskTypeCodeSummerTyres:
		dueDate := utils.NextOccurrence(reference, time.April, 15)
		return DueSchedule{DueDate: &dueDate}

	case TaskTypeCodeWinterTyres:
		dueDate := utils.NextOccurrence(reference, time.November, 15)
		return DueSchedule{DueDate: &dueDate}

	default:
		var schedule DueSchedule
		if taskType.MonthsInterval != nil {
			dueDate := utils.AddMonths(reference, *taskType.MonthsInterval)
			schedule.DueDate = &dueDate
		}
		if taskType.KmInterval != nil {
			dueMileage := current + *taskType.KmInterval
			schedule.DueMileage = &dueMileage
		}
		return schedule
	}
}

// EnsureTasksExist creates an OPEN task for every auto task type the vehicle
// does not already carry one for. Idempotent.
func (s *TaskSchedulerService) EnsureTasksExist(
	ctx context.Context,
	tx *gorm.DB,
	vehicle *Vehicle,
) error {
	log := s.log.Function("EnsureTasksExist")

	autoTypes, err := s.taskTypeRepo.GetAutoTypes(ctx, tx)
	if err != nil {
		return err
	}

	reference := vehicle.ReferenceDate(s.now())

	created := 0
	for _, taskType := range autoTypes {
		existing, err := s.taskRepo.GetOpenByVehicleAndType(ctx, tx, vehicle.ID, taskType.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}

		schedule := ComputeDueSchedule(taskType, reference, vehicle.CurrentMileage)
		task := &VehicleTask{
			VehicleID:  vehicle.ID,
			TaskTypeID: taskType.ID,
			DueDate:    schedule.DueDate,
			DueMileage: schedule.DueMileage,
			Status:     TaskStatusOpen,
		}
		if err := s.taskRepo.Create(ctx, tx, task); err != nil {
			return err
		}
		created++
	}

	if created > 0 {
		log.Info("Auto tasks created", "vehicleID", vehicle.ID, "count", created)
	}
	return nil
}

// UpdateAfterMaintenance closes the open task matching the maintenance
// record's task type and creates the recomputed successor, anchored on the
// maintenance date and mileage rather than the original reference. A record
// without a task type, or for a non-auto type, changes nothing.
func (s *TaskSchedulerService) UpdateAfterMaintenance(
	ctx context.Context,
	tx *gorm.DB,
	record *MaintenanceRecord,
) error {
	log := s.log.Function("UpdateAfterMaintenance")

	if record.TaskTypeID == nil {
		return nil
	}

	taskType, err := s.taskTypeRepo.GetByID(ctx, tx, *record.TaskTypeID)
	if err != nil {
		return err
	}
	if !taskType.Auto {
		return nil
	}

	openTask, err := s.taskRepo.GetOpenByVehicleAndType(ctx, tx, record.VehicleID, taskType.ID)
	if err != nil {
		return err
	}
	if openTask == nil {
		return nil
	}

	executedAt := record.PerformedAt
	openTask.Status = TaskStatusClosed
	openTask.Executed = true
	openTask.ExecutedAt = &executedAt
	if err := s.taskRepo.Update(ctx, tx, openTask); err != nil {
		return err
	}

	anchorMileage := record.Mileage
	if anchorMileage == nil {
		vehicle, err := s.vehicleRepo.GetByID(ctx, tx, record.VehicleID)
		if err != nil {
			return err
		}
		anchorMileage = vehicle.CurrentMileage
	}

	schedule := ComputeDueSchedule(taskType, record.PerformedAt, anchorMileage)
	successor := &VehicleTask{
		VehicleID:  record.VehicleID,
		TaskTypeID: taskType.ID,
		DueDate:    schedule.DueDate,
		DueMileage: schedule.DueMileage,
		Status:     TaskStatusOpen,
	}
	if err := s.taskRepo.Create(ctx, tx, successor); err != nil {
		return err
	}

	log.Info("Task rolled forward after maintenance",
		"vehicleID", record.VehicleID,
		"taskType", taskType.Code,
		"closedTaskID", openTask.ID,
		"successorTaskID", successor.ID,
	)
	s.publishRolledForward(taskType, openTask, successor)
	return nil
}

func (s *TaskSchedulerService) publishRolledForward(
	taskType *TaskType,
	closed, successor *VehicleTask,
) {
	if s.eventBus == nil {
		return
	}
	vehicleID := successor.VehicleID
	err := s.eventBus.Publish(events.VEHICLE_CHANNEL, events.Event{
		Type:      events.TASK_ROLLED_FORWARD,
		VehicleID: &vehicleID,
		Data: map[string]any{
			"taskType":        taskType.Code,
			"closedTaskId":    closed.ID.String(),
			"successorTaskId": successor.ID.String(),
		},
	})
	if err != nil {
		s.log.Warn("failed to publish task event", "vehicleID", vehicleID)
	}
}

// CreateManualTask opens a task outside the auto reconciliation, still
// honoring the one-open-task-per-type rule.
func (s *TaskSchedulerService) CreateManualTask(
	ctx context.Context,
	tx *gorm.DB,
	task *VehicleTask,
) (*VehicleTask, error) {
	existing, err := s.taskRepo.GetOpenByVehicleAndType(ctx, tx, task.VehicleID, task.TaskTypeID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.NewValidationError([]string{
			"vehicle already has an open task of this type",
		})
	}

	task.Status = TaskStatusOpen
	task.Executed = false
	task.ExecutedAt = nil
	if err := s.taskRepo.Create(ctx, tx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// CloseTask marks a task executed without creating a successor. Rollover
// with a successor only happens through maintenance recording.
func (s *TaskSchedulerService) CloseTask(
	ctx context.Context,
	tx *gorm.DB,
	taskID uuid.UUID,
	executedAt time.Time,
) (*VehicleTask, error) {
	task, err := s.taskRepo.GetByID(ctx, tx, taskID)
	if err != nil {
		return nil, err
	}
	if task.Status == TaskStatusClosed {
		return nil, apperrors.NewValidationError([]string{"task is already closed"})
	}

	task.Status = TaskStatusClosed
	task.Executed = true
	task.ExecutedAt = &executedAt
	if err := s.taskRepo.Update(ctx, tx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// DeleteTask removes a task outright.
func (s *TaskSchedulerService) DeleteTask(ctx context.Context, tx *gorm.DB, taskID uuid.UUID) error {
	return s.taskRepo.Delete(ctx, tx, taskID)
}

// GetOpenTasks lists the vehicle's open tasks ordered by due date.
func (s *TaskSchedulerService) GetOpenTasks(
	ctx context.Context,
	tx *gorm.DB,
	vehicleID uuid.UUID,
) ([]*VehicleTask, error) {
	return s.taskRepo.GetOpenByVehicle(ctx, tx, vehicleID)
}

// UpdateAutoTasks reconciles the vehicle's OPEN auto tasks to exactly the
// enabled set: missing ones are created, disabled ones deleted. Idempotent.
func (s *TaskSchedulerService) UpdateAutoTasks(
	ctx context.Context,
	tx *gorm.DB,
	vehicle *Vehicle,
	enabledTaskTypeIDs []uuid.UUID,
) error {
	log := s.log.Function("UpdateAutoTasks")

	enabled := make(map[uuid.UUID]bool, len(enabledTaskTypeIDs))
	for _, id := range enabledTaskTypeIDs {
		enabled[id] = true
	}

	autoTypes, err := s.taskTypeRepo.GetAutoTypes(ctx, tx)
	if err != nil {
		return err
	}
	autoTypeIDs := make(map[uuid.UUID]*TaskType, len(autoTypes))
	for _, taskType := range autoTypes {
		autoTypeIDs[taskType.ID] = taskType
	}

	openTasks, err := s.taskRepo.GetOpenByVehicle(ctx, tx, vehicle.ID)
	if err != nil {
		return err
	}

	reference := vehicle.ReferenceDate(s.now())

	open := make(map[uuid.UUID]bool, len(openTasks))
	for _, task := range openTasks {
		open[task.TaskTypeID] = true

		// only auto tasks are reconciled; manual tasks stay untouched
		if _, isAuto := autoTypeIDs[task.TaskTypeID]; !isAuto {
			continue
		}
		if !enabled[task.TaskTypeID] {
			if err := s.taskRepo.Delete(ctx, tx, task.ID); err != nil {
				return err
			}
			log.Info("Auto task disabled", "vehicleID", vehicle.ID, "taskTypeID", task.TaskTypeID)
		}
	}

	for _, id := range enabledTaskTypeIDs {
		taskType, isAuto := autoTypeIDs[id]
		if !isAuto || open[id] {
			continue
		}

		schedule := ComputeDueSchedule(taskType, reference, vehicle.CurrentMileage)
		task := &VehicleTask{
			VehicleID:  vehicle.ID,
			TaskTypeID: taskType.ID,
			DueDate:    schedule.DueDate,
			DueMileage: schedule.DueMileage,
			Status:     TaskStatusOpen,
		}
		if err := s.taskRepo.Create(ctx, tx, task); err != nil {
			return err
		}
		log.Info("Auto task enabled", "vehicleID", vehicle.ID, "taskType", taskType.Code)
	}

	return nil
}
