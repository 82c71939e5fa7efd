package repositories

import (
	"context"
	"errors"
	"time"

	"fleetdesk/internal/logger"
	. "fleetdesk/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MileageEntryRepository interface {
	// GetBySource returns nil when no entry exists for (source, sourceID).
	GetBySource(
		ctx context.Context,
		tx *gorm.DB,
		source MileageSource,
		sourceID uuid.UUID,
	) (*MileageEntry, error)
	GetByVehicle(ctx context.Context, tx *gorm.DB, vehicleID uuid.UUID) ([]*MileageEntry, error)
	// GetLatest returns the latest entry by (observed_at, id), nil when the
	// ledger is empty for the vehicle.
	GetLatest(ctx context.Context, tx *gorm.DB, vehicleID uuid.UUID) (*MileageEntry, error)
	// GetLatestBefore returns the latest entry strictly before the given
	// date, nil when none exists.
	GetLatestBefore(
		ctx context.Context,
		tx *gorm.DB,
		vehicleID uuid.UUID,
		before time.Time,
	) (*MileageEntry, error)
	// GetEarliestAfter returns the earliest entry strictly after the given
	// date, nil when none exists.
	GetEarliestAfter(
		ctx context.Context,
		tx *gorm.DB,
		vehicleID uuid.UUID,
		after time.Time,
	) (*MileageEntry, error)
	Create(ctx context.Context, tx *gorm.DB, entry *MileageEntry) error
	Update(ctx context.Context, tx *gorm.DB, entry *MileageEntry) error
	Delete(ctx context.Context, tx *gorm.DB, entry *MileageEntry) error
}

type mileageEntryRepository struct{}

func NewMileageEntryRepository() MileageEntryRepository {
	return &mileageEntryRepository{}
}

func (r *mileageEntryRepository) GetBySource(
	ctx context.Context,
	tx *gorm.DB,
	source MileageSource,
	sourceID uuid.UUID,
) (*MileageEntry, error) {
	log := logger.NewWithContext(ctx, "mileageEntryRepository").Function("GetBySource")

	var entry MileageEntry
	err := tx.WithContext(ctx).
		Where("source = ? AND source_id = ?", source, sourceID).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, log.Err("failed to get mileage entry by source", err,
			"source", source, "sourceID", sourceID)
	}

	return &entry, nil
}

func (r *mileageEntryRepository) GetByVehicle(
	ctx context.Context,
	tx *gorm.DB,
	vehicleID uuid.UUID,
) ([]*MileageEntry, error) {
	log := logger.NewWithContext(ctx, "mileageEntryRepository").Function("GetByVehicle")

	var entries []*MileageEntry
	if err := tx.WithContext(ctx).
		Where("vehicle_id = ?", vehicleID).
		Order("observed_at ASC, id ASC").
		Find(&entries).Error; err != nil {
		return nil, log.Err("failed to get mileage entries", err, "vehicleID", vehicleID)
	}

	return entries, nil
}

func (r *mileageEntryRepository) GetLatest(
	ctx context.Context,
	tx *gorm.DB,
	vehicleID uuid.UUID,
) (*MileageEntry, error) {
	log := logger.NewWithContext(ctx, "mileageEntryRepository").Function("GetLatest")

	var entry MileageEntry
	err := tx.WithContext(ctx).
		Where("vehicle_id = ?", vehicleID).
		Order("observed_at DESC, id DESC").
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, log.Err("failed to get latest mileage entry", err, "vehicleID", vehicleID)
	}

	return &entry, nil
}

func (r *mileageEntryRepository) GetLatestBefore(
	ctx context.Context,
	tx *gorm.DB,
	vehicleID uuid.UUID,
	before time.Time,
) (*MileageEntry, error) {
	log := logger.NewWithContext(ctx, "mileageEntryRepository").Function("GetLatestBefore")

	var entry MileageEntry
	err := tx.WithContext(ctx).
		Where("vehicle_id = ? AND observed_at < ?", vehicleID, before).
		Order("observed_at DESC, id DESC").
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, log.Err("failed to get preceding mileage entry", err,
			"vehicleID", vehicleID, "before", before)
	}

	return &entry, nil
}

func (r *mileageEntryRepository) GetEarliestAfter(
	ctx context.Context,
	tx *gorm.DB,
	vehicleID uuid.UUID,
	after time.Time,
) (*MileageEntry, error) {
	log := logger.NewWithContext(ctx, "mileageEntryRepository").Function("GetEarliestAfter")

	var entry MileageEntry
	err := tx.WithContext(ctx).
		Where("vehicle_id = ? AND observed_at > ?", vehicleID, after).
		Order("observed_at ASC, id ASC").
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, log.Err("failed to get following mileage entry", err,
			"vehicleID", vehicleID, "after", after)
	}

	return &entry, nil
}

func (r *mileageEntryRepository) Create(ctx context.Context, tx *gorm.DB, entry *MileageEntry) error {
	log := logger.NewWithContext(ctx, "mileageEntryRepository").Function("Create")

	if err := tx.WithContext(ctx).Create(entry).Error; err != nil {
		return log.Err("failed to create mileage entry", err,
			"vehicleID", entry.VehicleID, "source", entry.Source)
	}

	return nil
}

func (r *mileageEntryRepository) Update(ctx context.Context, tx *gorm.DB, entry *MileageEntry) error {
	log := logger.NewWithContext(ctx, "mileageEntryRepository").Function("Update")

	if err := tx.WithContext(ctx).Save(entry).Error; err != nil {
		return log.Err("failed to update mileage entry", err, "entryID", entry.ID)
	}

	return nil
}

func (r *mileageEntryRepository) Delete(ctx context.Context, tx *gorm.DB, entry *MileageEntry) error {
	log := logger.NewWithContext(ctx, "mileageEntryRepository").Function("Delete")

	if err := tx.WithContext(ctx).Unscoped().Delete(entry).Error; err != nil {
		return log.Err("failed to delete mileage entry", err, "entryID", entry.ID)
	}

	return nil
}
