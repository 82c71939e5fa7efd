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

type EmploymentRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Employment, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]*Employment, error)
	Create(ctx context.Context, tx *gorm.DB, employment *Employment) error
	Update(ctx context.Context, tx *gorm.DB, employment *Employment) error
}

type employmentRepository struct{}

func NewEmploymentRepository() EmploymentRepository {
	return &employmentRepository{}
}

func (r *employmentRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*Employment, error) {
	log := logger.NewWithContext(ctx, "employmentRepository").Function("GetByID")

	var employment Employment
	if err := tx.WithContext(ctx).First(&employment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("employment", id.String())
		}
		return nil, log.Err("failed to get employment", err, "employmentID", id)
	}

	return &employment, nil
}

func (r *employmentRepository) GetAll(ctx context.Context, tx *gorm.DB) ([]*Employment, error) {
	log := logger.NewWithContext(ctx, "employmentRepository").Function("GetAll")

	var employments []*Employment
	if err := tx.WithContext(ctx).
		Order("last_name ASC, first_name ASC").
		Find(&employments).Error; err != nil {
		return nil, log.Err("failed to get employments", err)
	}

	return employments, nil
}

func (r *employmentRepository) Create(
	ctx context.Context,
	tx *gorm.DB,
	employment *Employment,
) error {
	log := logger.NewWithContext(ctx, "employmentRepository").Function("Create")

	if err := tx.WithContext(ctx).Create(employment).Error; err != nil {
		return log.Err("failed to create employment", err)
	}

	return nil
}

func (r *employmentRepository) Update(
	ctx context.Context,
	tx *gorm.DB,
	employment *Employment,
) error {
	log := logger.NewWithContext(ctx, "employmentRepository").Function("Update")

	if err := tx.WithContext(ctx).Save(employment).Error; err != nil {
		return log.Err("failed to update employment", err, "employmentID", employment.ID)
	}

	return nil
}
