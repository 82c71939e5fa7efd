package repositories

import (
	"context"
	"errors"
	"time"

	"fleetdesk/internal/apperrors"
	"fleetdesk/internal/database"
	"fleetdesk/internal/logger"
	. "fleetdesk/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	VEHICLE_CACHE_PREFIX = "vehicle"
	VEHICLE_CACHE_EXPIRY = 1 * time.Hour
)

type VehicleRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Vehicle, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]*Vehicle, error)
	Create(ctx context.Context, tx *gorm.DB, vehicle *Vehicle) error
	Update(ctx context.Context, tx *gorm.DB, vehicle *Vehicle) error
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status VehicleStatus) error
	UpdateCurrentMileage(ctx context.Context, tx *gorm.DB, id uuid.UUID, mileage *int) error

	ClearCache(ctx context.Context, id uuid.UUID)
}

type vehicleRepository struct {
	cache database.CacheClient
}

func NewVehicleRepository(cache database.CacheClient) VehicleRepository {
	return &vehicleRepository{
		cache: cache,
	}
}

func (r *vehicleRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*Vehicle, error) {
	log := logger.NewWithContext(ctx, "vehicleRepository").Function("GetByID")

	// Transactional reads validate against current state and must not
	// consume or populate the cache with uncommitted rows.
	useCache := !database.InTransaction(tx)

	if useCache {
		var cached Vehicle
		found, err := database.NewCacheBuilder(r.cache, id).
			WithContext(ctx).
			WithHash(VEHICLE_CACHE_PREFIX).
			Get(&cached)
		if err != nil {
			log.Warn("failed to get vehicle from cache", "vehicleID", id, "error", err)
		}
		if found {
			return &cached, nil
		}
	}

	var vehicle Vehicle
	if err := tx.WithContext(ctx).First(&vehicle, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("vehicle", id.String())
		}
		return nil, log.Err("failed to get vehicle", err, "vehicleID", id)
	}

	if useCache {
		err := database.NewCacheBuilder(r.cache, id).
			WithContext(ctx).
			WithHash(VEHICLE_CACHE_PREFIX).
			WithStruct(vehicle).
			WithTTL(VEHICLE_CACHE_EXPIRY).
			Set()
		if err != nil {
			log.Warn("failed to set vehicle in cache", "vehicleID", id, "error", err)
		}
	}

	return &vehicle, nil
}

func (r *vehicleRepository) GetAll(ctx context.Context, tx *gorm.DB) ([]*Vehicle, error) {
	log := logger.NewWithContext(ctx, "vehicleRepository").Function("GetAll")

	var vehicles []*Vehicle
	if err := tx.WithContext(ctx).
		Order("plate ASC").
		Find(&vehicles).Error; err != nil {
		return nil, log.Err("failed to get vehicles", err)
	}

	return vehicles, nil
}

func (r *vehicleRepository) Create(ctx context.Context, tx *gorm.DB, vehicle *Vehicle) error {
	log := logger.NewWithContext(ctx, "vehicleRepository").Function("Create")

	if err := tx.WithContext(ctx).Create(vehicle).Error; err != nil {
		return log.Err("failed to create vehicle", err, "plate", vehicle.Plate)
	}

	log.Info("Vehicle created", "vehicleID", vehicle.ID, "plate", vehicle.Plate)
	return nil
}

func (r *vehicleRepository) Update(ctx context.Context, tx *gorm.DB, vehicle *Vehicle) error {
	log := logger.NewWithContext(ctx, "vehicleRepository").Function("Update")

	if err := tx.WithContext(ctx).Save(vehicle).Error; err != nil {
		return log.Err("failed to update vehicle", err, "vehicleID", vehicle.ID)
	}

	r.ClearCache(ctx, vehicle.ID)
	return nil
}

func (r *vehicleRepository) UpdateStatus(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	status VehicleStatus,
) error {
	log := logger.NewWithContext(ctx, "vehicleRepository").Function("UpdateStatus")

	result := tx.WithContext(ctx).
		Model(&Vehicle{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return log.Err("failed to update vehicle status", result.Error, "vehicleID", id)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFound("vehicle", id.String())
	}

	r.ClearCache(ctx, id)
	log.Info("Vehicle status updated", "vehicleID", id, "status", status)
	return nil
}

func (r *vehicleRepository) UpdateCurrentMileage(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	mileage *int,
) error {
	log := logger.NewWithContext(ctx, "vehicleRepository").Function("UpdateCurrentMileage")

	result := tx.WithContext(ctx).
		Model(&Vehicle{}).
		Where("id = ?", id).
		Update("current_mileage", mileage)
	if result.Error != nil {
		return log.Err("failed to update vehicle mileage", result.Error, "vehicleID", id)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFound("vehicle", id.String())
	}

	r.ClearCache(ctx, id)
	return nil
}

func (r *vehicleRepository) ClearCache(ctx context.Context, id uuid.UUID) {
	log := logger.NewWithContext(ctx, "vehicleRepository").Function("ClearCache")

	err := database.NewCacheBuilder(r.cache, id).
		WithContext(ctx).
		WithHash(VEHICLE_CACHE_PREFIX).
		Delete()
	if err != nil {
		log.Warn("failed to clear vehicle cache", "vehicleID", id, "error", err)
	}
}
