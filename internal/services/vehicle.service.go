package services

import (
	"context"
	"time"

	"fleetdesk/internal/database"
	"fleetdesk/internal/logger"
	. "fleetdesk/internal/models"
	"fleetdesk/internal/repositories"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VehicleService handles vehicle onboarding and direct mileage updates.
// Onboarding seeds the open task set for every auto task type.
type VehicleService struct {
	db          database.DB
	transaction *TransactionService
	locks       *VehicleLockService
	ledger      *MileageLedgerService
	scheduler   *TaskSchedulerService
	vehicleRepo repositories.VehicleRepository
	log         logger.Logger
	now         func() time.Time
}

func NewVehicleService(
	db database.DB,
	repos repositories.Repository,
	transaction *TransactionService,
	locks *VehicleLockService,
	ledger *MileageLedgerService,
	scheduler *TaskSchedulerService,
) *VehicleService {
	return &VehicleService{
		db:          db,
		transaction: transaction,
		locks:       locks,
		ledger:      ledger,
		scheduler:   scheduler,
		vehicleRepo: repos.Vehicle,
		log:         logger.New("VehicleService"),
		now:         time.Now,
	}
}

// Create onboards a vehicle: persists it, seeds the mileage ledger when an
// initial reading is given, and creates the open auto tasks.
func (s *VehicleService) Create(ctx context.Context, vehicle *Vehicle) (*Vehicle, error) {
	log := s.log.Function("Create")

	err := s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if err := s.vehicleRepo.Create(ctx, tx, vehicle); err != nil {
			return err
		}

		if vehicle.CurrentMileage != nil && *vehicle.CurrentMileage > 0 {
			_, err := s.ledger.RecordMileage(
				ctx, tx,
				vehicle.ID,
				vehicle.CurrentMileage,
				MileageSourceVehicle,
				vehicle.ID,
				s.now(),
			)
			if err != nil {
				return err
			}
		}

		return s.scheduler.EnsureTasksExist(ctx, tx, vehicle)
	})
	if err != nil {
		return nil, err
	}

	log.Info("Vehicle onboarded", "vehicleID", vehicle.ID, "plate", vehicle.Plate)
	return vehicle, nil
}

// Update merges the payload's master data onto the stored vehicle and
// records a ledger entry when the payload carries a new mileage reading.
// Status and CurrentMileage in the payload are ignored: status belongs to
// the assignment lifecycle, the mileage cache to the ledger.
func (s *VehicleService) Update(ctx context.Context, vehicle *Vehicle) (*Vehicle, error) {
	log := s.log.Function("Update")

	unlock := s.locks.Lock(vehicle.ID)
	defer unlock()

	var updated *Vehicle
	err := s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		existing, err := s.vehicleRepo.GetByID(ctx, tx, vehicle.ID)
		if err != nil {
			return err
		}

		mileageChanged := vehicle.CurrentMileage != nil &&
			(existing.CurrentMileage == nil || *existing.CurrentMileage != *vehicle.CurrentMileage)

		existing.ApplyUpdate(vehicle)
		if err := s.vehicleRepo.Update(ctx, tx, existing); err != nil {
			return err
		}

		if mileageChanged {
			if err := s.ledger.UpdateMileage(
				ctx, tx,
				MileageSourceVehicle,
				existing.ID,
				existing.ID,
				vehicle.CurrentMileage,
				s.now(),
			); err != nil {
				return err
			}
			current, err := s.ledger.CurrentMileage(ctx, tx, existing.ID)
			if err != nil {
				return err
			}
			existing.CurrentMileage = current
		}

		updated = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("Vehicle updated", "vehicleID", updated.ID)
	return updated, nil
}

// RecordMileage records a direct odometer reading for the vehicle.
func (s *VehicleService) RecordMileage(
	ctx context.Context,
	vehicleID uuid.UUID,
	mileage *int,
	observedAt time.Time,
) (*MileageEntry, error) {
	unlock := s.locks.Lock(vehicleID)
	defer unlock()

	var entry *MileageEntry
	err := s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		entry, err = s.ledger.RecordMileage(
			ctx, tx,
			vehicleID,
			mileage,
			MileageSourceVehicle,
			uuid.New(),
			observedAt,
		)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// SetAutoTasks reconciles the vehicle's open auto tasks to the enabled set.
func (s *VehicleService) SetAutoTasks(
	ctx context.Context,
	vehicleID uuid.UUID,
	enabledTaskTypeIDs []uuid.UUID,
) error {
	unlock := s.locks.Lock(vehicleID)
	defer unlock()

	return s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		vehicle, err := s.vehicleRepo.GetByID(ctx, tx, vehicleID)
		if err != nil {
			return err
		}
		return s.scheduler.UpdateAutoTasks(ctx, tx, vehicle, enabledTaskTypeIDs)
	})
}

// GetByID loads a vehicle.
func (s *VehicleService) GetByID(ctx context.Context, id uuid.UUID) (*Vehicle, error) {
	return s.vehicleRepo.GetByID(ctx, s.db.SQLWithContext(ctx), id)
}

// GetAll lists the fleet.
func (s *VehicleService) GetAll(ctx context.Context) ([]*Vehicle, error) {
	return s.vehicleRepo.GetAll(ctx, s.db.SQLWithContext(ctx))
}
