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
	VEHICLE_BOOKINGS_CACHE_PREFIX = "vehicle_bookings"
	VEHICLE_BOOKINGS_CACHE_EXPIRY = 15 * time.Minute
)

type BookingRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*VehicleBooking, error)
	// GetByVehicle returns all non-cancelled bookings for the vehicle.
	GetByVehicle(ctx context.Context, tx *gorm.DB, vehicleID uuid.UUID) ([]*VehicleBooking, error)
	CountActiveAt(ctx context.Context, tx *gorm.DB, at time.Time) (int64, error)
	CountForDay(ctx context.Context, tx *gorm.DB, day time.Time) (int64, error)
	GetStartingWithin(ctx context.Context, tx *gorm.DB, from time.Time, days int) ([]*VehicleBooking, error)
	Create(ctx context.Context, tx *gorm.DB, booking *VehicleBooking) error
	Update(ctx context.Context, tx *gorm.DB, booking *VehicleBooking) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type bookingRepository struct {
	cache database.CacheClient
}

func NewBookingRepository(cache database.CacheClient) BookingRepository {
	return &bookingRepository{
		cache: cache,
	}
}

func (r *bookingRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*VehicleBooking, error) {
	log := logger.NewWithContext(ctx, "bookingRepository").Function("GetByID")

	var booking VehicleBooking
	if err := tx.WithContext(ctx).First(&booking, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("booking", id.String())
		}
		return nil, log.Err("failed to get booking", err, "bookingID", id)
	}

	return &booking, nil
}

func (r *bookingRepository) GetByVehicle(
	ctx context.Context,
	tx *gorm.DB,
	vehicleID uuid.UUID,
) ([]*VehicleBooking, error) {
	log := logger.NewWithContext(ctx, "bookingRepository").Function("GetByVehicle")

	// Overlap validation runs inside the vehicle's locked transaction and
	// must read current state, never a cached snapshot.
	useCache := !database.InTransaction(tx)

	if useCache {
		var cached []*VehicleBooking
		found, err := database.NewCacheBuilder(r.cache, vehicleID).
			WithContext(ctx).
			WithHash(VEHICLE_BOOKINGS_CACHE_PREFIX).
			Get(&cached)
		if err != nil {
			log.Warn("failed to get bookings from cache", "vehicleID", vehicleID, "error", err)
		}
		if found {
			return cached, nil
		}
	}

	var bookings []*VehicleBooking
	if err := tx.WithContext(ctx).
		Where("vehicle_id = ? AND status <> ?", vehicleID, BookingStatusCancelled).
		Order("starts_at ASC").
		Find(&bookings).Error; err != nil {
		return nil, log.Err("failed to get bookings", err, "vehicleID", vehicleID)
	}

	if useCache {
		err := database.NewCacheBuilder(r.cache, vehicleID).
			WithContext(ctx).
			WithHash(VEHICLE_BOOKINGS_CACHE_PREFIX).
			WithStruct(bookings).
			WithTTL(VEHICLE_BOOKINGS_CACHE_EXPIRY).
			Set()
		if err != nil {
			log.Warn("failed to set bookings in cache", "vehicleID", vehicleID, "error", err)
		}
	}

	return bookings, nil
}

func (r *bookingRepository) CountActiveAt(
	ctx context.Context,
	tx *gorm.DB,
	at time.Time,
) (int64, error) {
	log := logger.NewWithContext(ctx, "bookingRepository").Function("CountActiveAt")

	var count int64
	if err := tx.WithContext(ctx).
		Model(&VehicleBooking{}).
		Where("status <> ? AND starts_at <= ? AND ends_at > ?",
			BookingStatusCancelled, at, at).
		Count(&count).Error; err != nil {
		return 0, log.Err("failed to count active bookings", err)
	}

	return count, nil
}

func (r *bookingRepository) CountForDay(
	ctx context.Context,
	tx *gorm.DB,
	day time.Time,
) (int64, error) {
	log := logger.NewWithContext(ctx, "bookingRepository").Function("CountForDay")

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var count int64
	if err := tx.WithContext(ctx).
		Model(&VehicleBooking{}).
		Where("status <> ? AND starts_at < ? AND ends_at > ?",
			BookingStatusCancelled, dayEnd, dayStart).
		Count(&count).Error; err != nil {
		return 0, log.Err("failed to count bookings for day", err, "day", dayStart)
	}

	return count, nil
}

func (r *bookingRepository) GetStartingWithin(
	ctx context.Context,
	tx *gorm.DB,
	from time.Time,
	days int,
) ([]*VehicleBooking, error) {
	log := logger.NewWithContext(ctx, "bookingRepository").Function("GetStartingWithin")

	until := from.AddDate(0, 0, days)

	var bookings []*VehicleBooking
	if err := tx.WithContext(ctx).
		Where("status <> ? AND starts_at >= ? AND starts_at < ?",
			BookingStatusCancelled, from, until).
		Order("starts_at ASC").
		Find(&bookings).Error; err != nil {
		return nil, log.Err("failed to get upcoming bookings", err, "days", days)
	}

	return bookings, nil
}

func (r *bookingRepository) Create(ctx context.Context, tx *gorm.DB, booking *VehicleBooking) error {
	log := logger.NewWithContext(ctx, "bookingRepository").Function("Create")

	if err := tx.WithContext(ctx).Create(booking).Error; err != nil {
		return log.Err("failed to create booking", err, "vehicleID", booking.VehicleID)
	}

	r.clearVehicleBookingsCache(ctx, booking.VehicleID)
	return nil
}

func (r *bookingRepository) Update(ctx context.Context, tx *gorm.DB, booking *VehicleBooking) error {
	log := logger.NewWithContext(ctx, "bookingRepository").Function("Update")

	if err := tx.WithContext(ctx).Save(booking).Error; err != nil {
		return log.Err("failed to update booking", err, "bookingID", booking.ID)
	}

	r.clearVehicleBookingsCache(ctx, booking.VehicleID)
	return nil
}

func (r *bookingRepository) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	log := logger.NewWithContext(ctx, "bookingRepository").Function("Delete")

	booking, err := r.GetByID(ctx, tx, id)
	if err != nil {
		return err
	}

	if err := tx.WithContext(ctx).Delete(&VehicleBooking{}, "id = ?", id).Error; err != nil {
		return log.Err("failed to delete booking", err, "bookingID", id)
	}

	r.clearVehicleBookingsCache(ctx, booking.VehicleID)
	return nil
}

func (r *bookingRepository) clearVehicleBookingsCache(ctx context.Context, vehicleID uuid.UUID) {
	log := logger.NewWithContext(ctx, "bookingRepository").Function("clearVehicleBookingsCache")

	err := database.NewCacheBuilder(r.cache, vehicleID).
		WithContext(ctx).
		WithHash(VEHICLE_BOOKINGS_CACHE_PREFIX).
		Delete()
	if err != nil {
		log.Warn("failed to clear bookings cache", "vehicleID", vehicleID, "error", err)
	}
}
