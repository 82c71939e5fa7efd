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

type TaskTypeRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*TaskType, error)
	GetByCode(ctx context.Context, tx *gorm.DB, code string) (*TaskType, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]*TaskType, error)
	GetAutoTypes(ctx context.Context, tx *gorm.DB) ([]*TaskType, error)
	Create(ctx context.Context, tx *gorm.DB, taskType *TaskType) error
	Update(ctx context.Context, tx *gorm.DB, taskType *TaskType) error
}

type taskTypeRepository struct{}

func NewTaskTypeRepository() TaskTypeRepository {
	return &taskTypeRepository{}
}

func (r *taskTypeRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*TaskType, error) {
	log := logger.NewWithContext(ctx, "taskTypeRepository").Function("GetByID")

	var taskType TaskType
	if err := tx.WithContext(ctx).First(&taskType, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("task type", id.String())
		}
		return nil, log.Err("failed to get task type", err, "taskTypeID", id)
	}

	return &taskType, nil
}

func (r *taskTypeRepository) GetByCode(
	ctx context.Context,
	tx *gorm.DB,
	code string,
) (*TaskType, error) {
	log := logger.NewWithContext(ctx, "taskTypeRepository").Function("GetByCode")

	var taskType TaskType
	if err := tx.WithContext(ctx).First(&taskType, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("task type", code)
		}
		return nil, log.Err("failed to get task type by code", err, "code", code)
	}

	return &taskType, nil
}

func (r *taskTypeRepository) GetAll(ctx context.Context, tx *gorm.DB) ([]*TaskType, error) {
	log := logger.NewWithContext(ctx, "taskTypeRepository").Function("GetAll")

	var taskTypes []*TaskType
	if err := tx.WithContext(ctx).
		Order("code ASC").
		Find(&taskTypes).Error; err != nil {
		return nil, log.Err("failed to get task types", err)
	}

	return taskTypes, nil
}

func (r *taskTypeRepository) GetAutoTypes(ctx context.Context, tx *gorm.DB) ([]*TaskType, error) {
	log := logger.NewWithContext(ctx, "taskTypeRepository").Function("GetAutoTypes")

	var taskTypes []*TaskType
	if err := tx.WithContext(ctx).
		Where("auto = ?", true).
		Order("code ASC").
		Find(&taskTypes).Error; err != nil {
		return nil, log.Err("failed to get auto task types", err)
	}

	return taskTypes, nil
}

func (r *taskTypeRepository) Create(ctx context.Context, tx *gorm.DB, taskType *TaskType) error {
	log := logger.NewWithContext(ctx, "taskTypeRepository").Function("Create")

	if err := tx.WithContext(ctx).Create(taskType).Error; err != nil {
		return log.Err("failed to create task type", err, "code", taskType.Code)
	}

	return nil
}

func (r *taskTypeRepository) Update(ctx context.Context, tx *gorm.DB, taskType *TaskType) error {
	log := logger.NewWithContext(ctx, "taskTypeRepository").Function("Update")

	if err := tx.WithContext(ctx).Save(taskType).Error; err != nil {
		return log.Err("failed to update task type", err, "taskTypeID", taskType.ID)
	}

	return nil
}
