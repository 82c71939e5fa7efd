package repositories

import (
	"context"
	"errors"

	"fleetdesk/internal/apperrors"
	"fleetdesk/internal/logger"
	. "fleetdesk/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VehicleTaskRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*VehicleTask, error)
	GetByVehicle(ctx context.Context, tx *gorm.DB, vehicleID uuid.UUID) ([]*VehicleTask, error)
	GetOpenByVehicle(ctx context.Context, tx *gorm.DB, vehicleID uuid.UUID) ([]*VehicleTask, error)
	// GetOpenByVehicleAndType returns nil when no open task exists.
	GetOpenByVehicleAndType(
		ctx context.Context,
		tx *gorm.DB,
		vehicleID uuid.UUID,
		taskTypeID uuid.UUID,
	) (*VehicleTask, error)
	Create(ctx context.Context, tx *gorm.DB, task *VehicleTask) error
	Update(ctx context.Context, tx *gorm.DB, task *VehicleTask) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type vehicleTaskRepository struct{}

func NewVehicleTaskRepository() VehicleTaskRepository {
	return &vehicleTaskRepository{}
}

func (r *vehicleTaskRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*VehicleTask, error) {
	log := logger.NewWithContext(ctx, "vehicleTaskRepository").Function("GetByID")

	var task VehicleTask
	if err := tx.WithContext(ctx).
		Preload("TaskType").
		First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("vehicle task", id.String())
		}
		return nil, log.Err("failed to get vehicle task", err, "taskID", id)
	}

	return &task, nil
}

func (r *vehicleTaskRepository) GetByVehicle(
	ctx context.Context,
	tx *gorm.DB,
	vehicleID uuid.UUID,
) ([]*VehicleTask, error) {
	log := logger.NewWithContext(ctx, "vehicleTaskRepository").Function("GetByVehicle")

	var tasks []*VehicleTask
	if err := tx.WithContext(ctx).
		Preload("TaskType").
		Where("vehicle_id = ?", vehicleID).
		Order("created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, log.Err("failed to get vehicle tasks", err, "vehicleID", vehicleID)
	}

	return tasks, nil
}

func (r *vehicleTaskRepository) GetOpenByVehicle(
	ctx context.Context,
	tx *gorm.DB,
	vehicleID uuid.UUID,
) ([]*VehicleTask, error) {
	log := logger.NewWithContext(ctx, "vehicleTaskRepository").Function("GetOpenByVehicle")

	var tasks []*VehicleTask
	if err := tx.WithContext(ctx).
		Preload("TaskType").
		Where("vehicle_id = ? AND status = ?", vehicleID, TaskStatusOpen).
		Order("due_date ASC NULLS LAST").
		Find(&tasks).Error; err != nil {
		return nil, log.Err("failed to get open vehicle tasks", err, "vehicleID", vehicleID)
	}

	return tasks, nil
}

func (r *vehicleTaskRepository) GetOpenByVehicleAndType(
	ctx context.Context,
	tx *gorm.DB,
	vehicleID uuid.UUID,
	taskTypeID uuid.UUID,
) (*VehicleTask, error) {
	log := logger.NewWithContext(ctx, "vehicleTaskRepository").Function("GetOpenByVehicleAndType")

	var task VehicleTask
	err := tx.WithContext(ctx).
		Where("vehicle_id = ? AND task_type_id = ? AND status = ?",
			vehicleID, taskTypeID, TaskStatusOpen).
		First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, log.Err("failed to get open task", err,
			"vehicleID", vehicleID, "taskTypeID", taskTypeID)
	}

	return &task, nil
}

func (r *vehicleTaskRepository) Create(ctx context.Context, tx *gorm.DB, task *VehicleTask) error {
	log := logger.NewWithContext(ctx, "vehicleTaskRepository").Function("Create")

	if err := tx.WithContext(ctx).Create(task).Error; err != nil {
		return log.Err("failed to create vehicle task", err,
			"vehicleID", task.VehicleID, "taskTypeID", task.TaskTypeID)
	}

	return nil
}

func (r *vehicleTaskRepository) Update(ctx context.Context, tx *gorm.DB, task *VehicleTask) error {
	log := logger.NewWithContext(ctx, "vehicleTaskRepository").Function("Update")

	if err := tx.WithContext(ctx).Save(task).Error; err != nil {
		return log.Err("failed to update vehicle task", err, "taskID", task.ID)
	}

	return nil
}

func (r *vehicleTaskRepository) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	log := logger.NewWithContext(ctx, "vehicleTaskRepository").Function("Delete")

	result := tx.WithContext(ctx).Delete(&VehicleTask{}, "id = ?", id)
	if result.Error != nil {
		return log.Err("failed to delete vehicle task", result.Error, "taskID", id)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFound("vehicle task", id.String())
	}

	return nil
}
