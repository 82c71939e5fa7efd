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

// RefuelService records fuel stops and feeds their odometer readings into
// the mileage ledger. A refuel without a reading carries the last known
// mileage forward rather than being rejected.
type RefuelService struct {
	db          database.DB
	transaction *TransactionService
	locks       *VehicleLockService
	guard       *AvailabilityGuardService
	ledger      *MileageLedgerService
	refuelRepo  repositories.RefuelRepository
	log         logger.Logger
}

func NewRefuelService(
	db database.DB,
	repos repositories.Repository,
	transaction *TransactionService,
	locks *VehicleLockService,
	guard *AvailabilityGuardService,
	ledger *MileageLedgerService,
) *RefuelService {
	return &RefuelService{
		db:          db,
		transaction: transaction,
		locks:       locks,
		guard:       guard,
		ledger:      ledger,
		refuelRepo:  repos.Refuel,
		log:         logger.New("RefuelService"),
	}
}

// Create validates and persists the refuel, then records its mileage entry.
func (s *RefuelService) Create(ctx context.Context, refuel *RefuelRecord) (*RefuelRecord, error) {
	log := s.log.Function("Create")

	if err := s.guard.ValidateRefuel(refuel); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(refuel.VehicleID)
	defer unlock()

	err := s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if err := s.refuelRepo.Create(ctx, tx, refuel); err != nil {
			return err
		}
		_, err := s.ledger.RecordMileage(
			ctx, tx,
			refuel.VehicleID,
			refuel.Mileage,
			MileageSourceRefuel,
			refuel.ID,
			refuel.RefueledAt,
		)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info("Refuel recorded", "refuelID", refuel.ID, "vehicleID", refuel.VehicleID)
	return refuel, nil
}

// Update rewrites the refuel and its ledger entry. Clearing the mileage
// removes the entry.
func (s *RefuelService) Update(ctx context.Context, refuel *RefuelRecord) (*RefuelRecord, error) {
	log := s.log.Function("Update")

	if err := s.guard.ValidateRefuel(refuel); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(refuel.VehicleID)
	defer unlock()

	err := s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if err := s.refuelRepo.Update(ctx, tx, refuel); err != nil {
			return err
		}
		return s.ledger.UpdateMileage(
			ctx, tx,
			MileageSourceRefuel,
			refuel.ID,
			refuel.VehicleID,
			refuel.Mileage,
			refuel.RefueledAt,
		)
	})
	if err != nil {
		return nil, err
	}

	log.Info("Refuel updated", "refuelID", refuel.ID)
	return refuel, nil
}

// Delete removes the refuel and its ledger entry.
func (s *RefuelService) Delete(ctx context.Context, id uuid.UUID) error {
	log := s.log.Function("Delete")

	refuel, err := s.refuelRepo.GetByID(ctx, s.db.SQLWithContext(ctx), id)
	if err != nil {
		return err
	}

	unlock := s.locks.Lock(refuel.VehicleID)
	defer unlock()

	err = s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if err := s.refuelRepo.Delete(ctx, tx, id); err != nil {
			return err
		}
		return s.ledger.RemoveMileage(ctx, tx, MileageSourceRefuel, id)
	})
	if err != nil {
		return err
	}

	log.Info("Refuel deleted", "refuelID", id, "vehicleID", refuel.VehicleID)
	return nil
}

// GetByVehicle lists the vehicle's refuels.
func (s *RefuelService) GetByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]*RefuelRecord, error) {
	return s.refuelRepo.GetByVehicle(ctx, s.db.SQLWithContext(ctx), vehicleID)
}
