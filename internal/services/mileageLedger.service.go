package services

import (
	"context"
	"time"

	"fleetdesk/internal/apperrors"
	"fleetdesk/internal/events"
	"fleetdesk/internal/logger"
	. "fleetdesk/internal/models"
	"fleetdesk/internal/repositories"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MileageLedgerService owns the append-only mileage ledger. Every mileage
// observation from vehicle updates, refuels and maintenance visits passes
// through here, keeping per-vehicle readings non-decreasing over time and
// the vehicle's cached current mileage equal to the latest entry.
//
// All methods expect to run inside the caller's transaction with the
// vehicle's lock held.
type MileageLedgerService struct {
	mileageRepo repositories.MileageEntryRepository
	vehicleRepo repositories.VehicleRepository
	eventBus    *events.EventBus
	log         logger.Logger
}

func NewMileageLedgerService(repos repositories.Repository, eventBus *events.EventBus) *MileageLedgerService {
	return &MileageLedgerService{
		mileageRepo: repos.Mileage,
		vehicleRepo: repos.Vehicle,
		eventBus:    eventBus,
		log:         logger.New("MileageLedgerService"),
	}
}

// RecordMileage appends or upserts the observation for (source, sourceID).
// A nil or zero mileage carries the latest reading before the observation
// date forward; a value below that reading fails with a regression error.
func (s *MileageLedgerService) RecordMileage(
	ctx context.Context,
	tx *gorm.DB,
	vehicleID uuid.UUID,
	mileage *int,
	source MileageSource,
	sourceID uuid.UUID,
	observedAt time.Time,
) (*MileageEntry, error) {
	log := s.log.Function("RecordMileage")

	resolved, err := s.resolveMileage(ctx, tx, vehicleID, mileage, observedAt)
	if err != nil {
		return nil, err
	}

	existing, err := s.mileageRepo.GetBySource(ctx, tx, source, sourceID)
	if err != nil {
		return nil, err
	}

	var entry *MileageEntry
	if existing != nil {
		existing.Mileage = resolved
		existing.ObservedAt = observedAt
		existing.VehicleID = vehicleID
		if err := s.mileageRepo.Update(ctx, tx, existing); err != nil {
			return nil, err
		}
		entry = existing
	} else {
		entry = &MileageEntry{
			VehicleID:  vehicleID,
			Mileage:    resolved,
			ObservedAt: observedAt,
			Source:     source,
			SourceID:   sourceID,
		}
		if err := s.mileageRepo.Create(ctx, tx, entry); err != nil {
			return nil, err
		}
	}

	if err := s.recomputeCurrentMileage(ctx, tx, vehicleID); err != nil {
		return nil, err
	}

	log.Info("Mileage recorded",
		"vehicleID", vehicleID, "mileage", resolved, "source", source)
	s.publishRecorded(entry)
	return entry, nil
}

func (s *MileageLedgerService) publishRecorded(entry *MileageEntry) {
	if s.eventBus == nil || entry == nil {
		return
	}
	vehicleID := entry.VehicleID
	err := s.eventBus.Publish(events.VEHICLE_CHANNEL, events.Event{
		Type:      events.MILEAGE_RECORDED,
		VehicleID: &vehicleID,
		Data: map[string]any{
			"mileage":    entry.Mileage,
			"source":     string(entry.Source),
			"observedAt": entry.ObservedAt,
		},
	})
	if err != nil {
		s.log.Warn("failed to publish mileage event", "vehicleID", vehicleID)
	}
}

// UpdateMileage revalidates and rewrites the entry identified by
// (source, sourceID). A nil mileage deletes the entry instead.
func (s *MileageLedgerService) UpdateMileage(
	ctx context.Context,
	tx *gorm.DB,
	source MileageSource,
	sourceID uuid.UUID,
	vehicleID uuid.UUID,
	mileage *int,
	observedAt time.Time,
) error {
	if mileage == nil {
		return s.RemoveMileage(ctx, tx, source, sourceID)
	}

	_, err := s.RecordMileage(ctx, tx, vehicleID, mileage, source, sourceID, observedAt)
	return err
}

// RemoveMileage deletes the entry for (source, sourceID) and recomputes the
// vehicle's cached current mileage from the remaining entries. Removing an
// entry that does not exist is a no-op.
func (s *MileageLedgerService) RemoveMileage(
	ctx context.Context,
	tx *gorm.DB,
	source MileageSource,
	sourceID uuid.UUID,
) error {
	log := s.log.Function("RemoveMileage")

	entry, err := s.mileageRepo.GetBySource(ctx, tx, source, sourceID)
	if err != nil {
		return err
	}
	if entry == nil {
		return nil
	}

	if err := s.mileageRepo.Delete(ctx, tx, entry); err != nil {
		return err
	}

	if err := s.recomputeCurrentMileage(ctx, tx, entry.VehicleID); err != nil {
		return err
	}

	log.Info("Mileage entry removed",
		"vehicleID", entry.VehicleID, "source", source, "sourceID", sourceID)
	return nil
}

// CurrentMileage returns the cached reading recomputed from the ledger, nil
// when the ledger is empty.
func (s *MileageLedgerService) CurrentMileage(
	ctx context.Context,
	tx *gorm.DB,
	vehicleID uuid.UUID,
) (*int, error) {
	latest, err := s.mileageRepo.GetLatest(ctx, tx, vehicleID)
	if err != nil {
		return nil, err
	}
	if latest == nil {
		return nil, nil
	}
	mileage := latest.Mileage
	return &mileage, nil
}

// resolveMileage substitutes the carry-forward value and enforces the
// monotonicity invariant against the neighbors of the observation date.
func (s *MileageLedgerService) resolveMileage(
	ctx context.Context,
	tx *gorm.DB,
	vehicleID uuid.UUID,
	mileage *int,
	observedAt time.Time,
) (int, error) {
	predecessor, err := s.mileageRepo.GetLatestBefore(ctx, tx, vehicleID, observedAt)
	if err != nil {
		return 0, err
	}
	successor, err := s.mileageRepo.GetEarliestAfter(ctx, tx, vehicleID, observedAt)
	if err != nil {
		return 0, err
	}

	resolved := ResolveMileageValue(mileage, predecessor)

	if err := ValidateMileageBounds(vehicleID, resolved, predecessor, successor); err != nil {
		return 0, err
	}

	return resolved, nil
}

// ValidateMileageBounds checks the resolved reading against both ledger
// neighbors of its observation date: it may not fall below the entry before
// it, and a backdated reading may not exceed the entry after it. Either
// violation would leave the date-ordered ledger decreasing.
func ValidateMileageBounds(
	vehicleID uuid.UUID,
	resolved int,
	predecessor, successor *MileageEntry,
) error {
	if predecessor != nil && resolved < predecessor.Mileage {
		previous := predecessor.Mileage
		return &apperrors.MileageRegressionError{
			VehicleID: vehicleID.String(),
			Mileage:   resolved,
			Previous:  &previous,
		}
	}
	if successor != nil && resolved > successor.Mileage {
		next := successor.Mileage
		return &apperrors.MileageRegressionError{
			VehicleID: vehicleID.String(),
			Mileage:   resolved,
			Next:      &next,
		}
	}
	return nil
}

// ResolveMileageValue is the carry-forward rule: a nil or zero requested
// value takes the preceding entry's mileage (zero when the ledger has no
// earlier entry).
func ResolveMileageValue(requested *int, predecessor *MileageEntry) int {
	if requested == nil || *requested == 0 {
		if predecessor == nil {
			return 0
		}
		return predecessor.Mileage
	}
	return *requested
}

func (s *MileageLedgerService) recomputeCurrentMileage(
	ctx context.Context,
	tx *gorm.DB,
	vehicleID uuid.UUID,
) error {
	latest, err := s.mileageRepo.GetLatest(ctx, tx, vehicleID)
	if err != nil {
		return err
	}

	if latest == nil {
		return s.vehicleRepo.UpdateCurrentMileage(ctx, tx, vehicleID, nil)
	}

	mileage := latest.Mileage
	return s.vehicleRepo.UpdateCurrentMileage(ctx, tx, vehicleID, &mileage)
}
