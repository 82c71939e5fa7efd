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

type MaintenanceRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*MaintenanceRecord, error)
	GetByVehicle(ctx context.Context, tx *gorm.DB, vehicleID uuid.UUID) ([]*MaintenanceRecord, error)
	Create(ctx context.Context, tx *gorm.DB, record *MaintenanceRecord) error
	Update(ctx context.Context, tx *gorm.DB, record *MaintenanceRecord) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type maintenanceRepository struct{}

func NewMaintenanceRepository() MaintenanceRepository {
	return &maintenanceRepository{}
}

func (r *maintenanceRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*MaintenanceRecord, error) {
	log := logger.NewWithContext(ctx, "maintenanceRepository").Function("GetByID")

	var record MaintenanceRecord
	if err := tx.WithContext(ctx).
		Preload("TaskType").
		First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("maintenance record", id.String())
		}
		return nil, log.Err("failed to get maintenance record", err, "recordID", id)
	}

	return &record, nil
}

func (r *maintenanceRepository) GetByVehicle(
	ctx context.Context,
	tx *gorm.DB,
	vehicleID uuid.UUID,
) ([]*MaintenanceRecord, error) {
	log := logger.NewWithContext(ctx, "maintenanceRepository").Function("GetByVehicle")

	var records []*MaintenanceRecord
	if err := tx.WithContext(ctx).
		Preload("TaskType").
		Where("vehicle_id = ?", vehicleID).
		Order("performed_at DESC").
		Find(&records).Error; err != nil {
		return nil, log.Err("failed to get maintenance records", err, "vehicleID", vehicleID)
	}

	return records, nil
}

func (r *maintenanceRepository) Create(
	ctx context.Context,
	tx *gorm.DB,
	record *MaintenanceRecord,
) error {
	log := logger.NewWithContext(ctx, "maintenanceRepository").Function("Create")

	if err := tx.WithContext(ctx).Create(record).Error; err != nil {
		return log.Err("failed to create maintenance record", err, "vehicleID", record.VehicleID)
	}

	return nil
}

func (r *maintenanceRepository) Update(
	ctx context.Context,
	tx *gorm.DB,
	record *MaintenanceRecord,
) error {
	log := logger.NewWithContext(ctx, "maintenanceRepository").Function("Update")

	if err := tx.WithContext(ctx).Save(record).Error; err != nil {
		return log.Err("failed to update maintenance record", err, "recordID", record.ID)
	}

	return nil
}

func (r *maintenanceRepository) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	log := logger.NewWithContext(ctx, "maintenanceRepository").Function("Delete")

	result := tx.WithContext(ctx).Delete(&MaintenanceRecord{}, "id = ?", id)
	if result.Error != nil {
		return log.Err("failed to delete maintenance record", result.Error, "recordID", id)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFound("maintenance record", id.String())
	}

	return nil
}
