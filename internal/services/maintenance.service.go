package services

import (
	"context"

	"fleetdesk/internal/database"
	"fleetdesk/internal/logger"
	. "fleetdesk/internal/models"
	"fleetdesk/internal/repositories"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaintenanceService records maintenance visits. A visit rolls the matching
// open task forward and its odometer reading lands in the mileage ledger,
// all in one transaction under the vehicle lock.
type MaintenanceService struct {
	db              database.DB
	transaction     *TransactionService
	locks           *VehicleLockService
	ledger          *MileageLedgerService
	scheduler       *TaskSchedulerService
	maintenanceRepo repositories.MaintenanceRepository
	log             logger.Logger
}

func NewMaintenanceService(
	db database.DB,
	repos repositories.Repository,
	transaction *TransactionService,
	locks *VehicleLockService,
	ledger *MileageLedgerService,
	scheduler *TaskSchedulerService,
) *MaintenanceService {
	return &MaintenanceService{
		db:              db,
		transaction:     transaction,
		locks:           locks,
		ledger:          ledger,
		scheduler:       scheduler,
		maintenanceRepo: repos.Maintenance,
		log:             logger.New("MaintenanceService"),
	}
}

// Create persists the record, records its mileage entry and rolls the
// matching open task forward.
func (s *MaintenanceService) Create(
	ctx context.Context,
	record *MaintenanceRecord,
) (*MaintenanceRecord, error) {
	log := s.log.Function("Create")

	unlock := s.locks.Lock(record.VehicleID)
	defer unlock()

	err := s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if err := s.maintenanceRepo.Create(ctx, tx, record); err != nil {
			return err
		}

		_, err := s.ledger.RecordMileage(
			ctx, tx,
			record.VehicleID,
			record.Mileage,
			MileageSourceMaintenance,
			record.ID,
			record.PerformedAt,
		)
		if err != nil {
			return err
		}

		return s.scheduler.UpdateAfterMaintenance(ctx, tx, record)
	})
	if err != nil {
		return nil, err
	}

	log.Info("Maintenance recorded",
		"maintenanceID", record.ID,
		"vehicleID", record.VehicleID,
	)
	return record, nil
}

// Update rewrites the record and its ledger entry. Task rollover is not
// replayed; the successor created on first recording stays authoritative.
func (s *MaintenanceService) Update(
	ctx context.Context,
	record *MaintenanceRecord,
) (*MaintenanceRecord, error) {
	log := s.log.Function("Update")

	unlock := s.locks.Lock(record.VehicleID)
	defer unlock()

	err := s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if err := s.maintenanceRepo.Update(ctx, tx, record); err != nil {
			return err
		}
		return s.ledger.UpdateMileage(
			ctx, tx,
			MileageSourceMaintenance,
			record.ID,
			record.VehicleID,
			record.Mileage,
			record.PerformedAt,
		)
	})
	if err != nil {
		return nil, err
	}

	log.Info("Maintenance updated", "maintenanceID", record.ID)
	return record, nil
}

// Delete removes the record and its ledger entry.
func (s *MaintenanceService) Delete(ctx context.Context, id uuid.UUID) error {
	log := s.log.Function("Delete")

	record, err := s.maintenanceRepo.GetByID(ctx, s.db.SQLWithContext(ctx), id)
	if err != nil {
		return err
	}

	unlock := s.locks.Lock(record.VehicleID)
	defer unlock()

	err = s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if err := s.maintenanceRepo.Delete(ctx, tx, id); err != nil {
			return err
		}
		return s.ledger.RemoveMileage(ctx, tx, MileageSourceMaintenance, id)
	})
	if err != nil {
		return err
	}

	log.Info("Maintenance deleted", "maintenanceID", id, "vehicleID", record.VehicleID)
	return nil
}

// GetByVehicle lists the vehicle's maintenance history.
func (s *MaintenanceService) GetByVehicle(
	ctx context.Context,
	vehicleID uuid.UUID,
) ([]*MaintenanceRecord, error) {
	return s.maintenanceRepo.GetByVehicle(ctx, s.db.SQLWithContext(ctx), vehicleID)
}
