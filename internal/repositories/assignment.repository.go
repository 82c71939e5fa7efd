package repositories

import (
	"context"
	"errors"
	"time"

	"fleetdesk/internal/apperrors"
	"fleetdesk/internal/logger"
	. "fleetdesk/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AssignmentRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Assignment, error)
	GetByVehicle(ctx context.Context, tx *gorm.DB, vehicleID uuid.UUID) ([]*Assignment, error)
	// GetActiveByVehicle returns assignments with status ASSIGNED whose end
	// date is null or not before the given instant.
	GetActiveByVehicle(
		ctx context.Context,
		tx *gorm.DB,
		vehicleID uuid.UUID,
		at time.Time,
	) ([]*Assignment, error)
	GetActiveByEmployment(
		ctx context.Context,
		tx *gorm.DB,
		employmentID uuid.UUID,
		at time.Time,
	) ([]*Assignment, error)
	// GetExpired returns assignments still ASSIGNED whose end date is before
	// the given instant.
	GetExpired(ctx context.Context, tx *gorm.DB, at time.Time) ([]*Assignment, error)
	Create(ctx context.Context, tx *gorm.DB, assignment *Assignment) error
	Update(ctx context.Context, tx *gorm.DB, assignment *Assignment) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type assignmentRepository struct{}

func NewAssignmentRepository() AssignmentRepository {
	return &assignmentRepository{}
}

func (r *assignmentRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*Assignment, error) {
	log := logger.NewWithContext(ctx, "assignmentRepository").Function("GetByID")

	var assignment Assignment
	if err := tx.WithContext(ctx).First(&assignment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("assignment", id.String())
		}
		return nil, log.Err("failed to get assignment", err, "assignmentID", id)
	}

	return &assignment, nil
}

func (r *assignmentRepository) GetByVehicle(
	ctx context.Context,
	tx *gorm.DB,
	vehicleID uuid.UUID,
) ([]*Assignment, error) {
	log := logger.NewWithContext(ctx, "assignmentRepository").Function("GetByVehicle")

	var assignments []*Assignment
	if err := tx.WithContext(ctx).
		Where("vehicle_id = ?", vehicleID).
		Order("start_date DESC").
		Find(&assignments).Error; err != nil {
		return nil, log.Err("failed to get assignments", err, "vehicleID", vehicleID)
	}

	return assignments, nil
}

func (r *assignmentRepository) GetActiveByVehicle(
	ctx context.Context,
	tx *gorm.DB,
	vehicleID uuid.UUID,
	at time.Time,
) ([]*Assignment, error) {
	log := logger.NewWithContext(ctx, "assignmentRepository").Function("GetActiveByVehicle")

	var assignments []*Assignment
	if err := tx.WithContext(ctx).
		Where("vehicle_id = ? AND status = ? AND (end_date IS NULL OR end_date >= ?)",
			vehicleID, AssignmentStatusAssigned, at).
		Order("start_date ASC").
		Find(&assignments).Error; err != nil {
		return nil, log.Err("failed to get active assignments", err, "vehicleID", vehicleID)
	}

	return assignments, nil
}

func (r *assignmentRepository) GetActiveByEmployment(
	ctx context.Context,
	tx *gorm.DB,
	employmentID uuid.UUID,
	at time.Time,
) ([]*Assignment, error) {
	log := logger.NewWithContext(ctx, "assignmentRepository").Function("GetActiveByEmployment")

	var assignments []*Assignment
	if err := tx.WithContext(ctx).
		Where("employment_id = ? AND status = ? AND (end_date IS NULL OR end_date >= ?)",
			employmentID, AssignmentStatusAssigned, at).
		Order("start_date ASC").
		Find(&assignments).Error; err != nil {
		return nil, log.Err("failed to get active assignments", err,
			"employmentID", employmentID)
	}

	return assignments, nil
}

func (r *assignmentRepository) GetExpired(
	ctx context.Context,
	tx *gorm.DB,
	at time.Time,
) ([]*Assignment, error) {
	log := logger.NewWithContext(ctx, "assignmentRepository").Function("GetExpired")

	var assignments []*Assignment
	if err := tx.WithContext(ctx).
		Where("status = ? AND end_date IS NOT NULL AND end_date < ?",
			AssignmentStatusAssigned, at).
		Find(&assignments).Error; err != nil {
		return nil, log.Err("failed to get expired assignments", err)
	}

	return assignments, nil
}

func (r *assignmentRepository) Create(
	ctx context.Context,
	tx *gorm.DB,
	assignment *Assignment,
) error {
	log := logger.NewWithContext(ctx, "assignmentRepository").Function("Create")

	if err := tx.WithContext(ctx).Create(assignment).Error; err != nil {
		return log.Err("failed to create assignment", err,
			"vehicleID", assignment.VehicleID, "employmentID", assignment.EmploymentID)
	}

	log.Info("Assignment created", "assignmentID", assignment.ID)
	return nil
}

func (r *assignmentRepository) Update(
	ctx context.Context,
	tx *gorm.DB,
	assignment *Assignment,
) error {
	log := logger.NewWithContext(ctx, "assignmentRepository").Function("Update")

	if err := tx.WithContext(ctx).Save(assignment).Error; err != nil {
		return log.Err("failed to update assignment", err, "assignmentID", assignment.ID)
	}

	return nil
}

func (r *assignmentRepository) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	log := logger.NewWithContext(ctx, "assignmentRepository").Function("Delete")

	result := tx.WithContext(ctx).Delete(&Assignment{}, "id = ?", id)
	if result.Error != nil {
		return log.Err("failed to delete assignment", result.Error, "assignmentID", id)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFound("assignment", id.String())
	}

	return nil
}
