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

type RefuelRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*RefuelRecord, error)
	GetByVehicle(ctx context.Context, tx *gorm.DB, vehicleID uuid.UUID) ([]*RefuelRecord, error)
	Create(ctx context.Context, tx *gorm.DB, refuel *RefuelRecord) error
	Update(ctx context.Context, tx *gorm.DB, refuel *RefuelRecord) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type refuelRepository struct{}

func NewRefuelRepository() RefuelRepository {
	return &refuelRepository{}
}

func (r *refuelRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*RefuelRecord, error) {
	log := logger.NewWithContext(ctx, "refuelRepository").Function("GetByID")

	var refuel RefuelRecord
	if err := tx.WithContext(ctx).First(&refuel, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("refuel record", id.String())
		}
		return nil, log.Err("failed to get refuel record", err, "refuelID", id)
	}

	return &refuel, nil
}

func (r *refuelRepository) GetByVehicle(
	ctx context.Context,
	tx *gorm.DB,
	vehicleID uuid.UUID,
) ([]*RefuelRecord, error) {
	log := logger.NewWithContext(ctx, "refuelRepository").Function("GetByVehicle")

	var refuels []*RefuelRecord
	if err := tx.WithContext(ctx).
		Where("vehicle_id = ?", vehicleID).
		Order("refueled_at DESC").
		Find(&refuels).Error; err != nil {
		return nil, log.Err("failed to get refuel records", err, "vehicleID", vehicleID)
	}

	return refuels, nil
}

func (r *refuelRepository) Create(ctx context.Context, tx *gorm.DB, refuel *RefuelRecord) error {
	log := logger.NewWithContext(ctx, "refuelRepository").Function("Create")

	if err := tx.WithContext(ctx).Create(refuel).Error; err != nil {
		return log.Err("failed to create refuel record", err, "vehicleID", refuel.VehicleID)
	}

	return nil
}

func (r *refuelRepository) Update(ctx context.Context, tx *gorm.DB, refuel *RefuelRecord) error {
	log := logger.NewWithContext(ctx, "refuelRepository").Function("Update")

	if err := tx.WithContext(ctx).Save(refuel).Error; err != nil {
		return log.Err("failed to update refuel record", err, "refuelID", refuel.ID)
	}

	return nil
}

func (r *refuelRepository) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	log := logger.NewWithContext(ctx, "refuelRepository").Function("Delete")

	result := tx.WithContext(ctx).Delete(&RefuelRecord{}, "id = ?", id)
	if result.Error != nil {
		return log.Err("failed to delete refuel record", result.Error, "refuelID", id)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFound("refuel record", id.String())
	}

	return nil
}
