package services

import (
	"context"
	"fmt"
	"time"

	"fleetdesk/internal/apperrors"
	"fleetdesk/internal/database"
	"fleetdesk/internal/events"
	"fleetdesk/internal/logger"
	. "fleetdesk/internal/models"
	"fleetdesk/internal/repositories"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AssignmentLifecycleService orchestrates assignment creation, update and
// closure. It is the only writer of vehicle status: a vehicle is ASSIGNED
// exactly while it carries an active assignment and IN_SERVICE otherwise.
// All writes run inside one transaction with the vehicle lock held.
type AssignmentLifecycleService struct {
	db             database.DB
	transaction    *TransactionService
	locks          *VehicleLockService
	guard          *AvailabilityGuardService
	assignmentRepo repositories.AssignmentRepository
	vehicleRepo    repositories.VehicleRepository
	employmentRepo repositories.EmploymentRepository
	eventBus       *events.EventBus
	log            logger.Logger
	now            func() time.Time
}

func NewAssignmentLifecycleService(
	db database.DB,
	repos repositories.Repository,
	transaction *TransactionService,
	locks *VehicleLockService,
	guard *AvailabilityGuardService,
	eventBus *events.EventBus,
) *AssignmentLifecycleService {
	return &AssignmentLifecycleService{
		db:             db,
		transaction:    transaction,
		locks:          locks,
		guard:          guard,
		assignmentRepo: repos.Assignment,
		vehicleRepo:    repos.Vehicle,
		employmentRepo: repos.Employment,
		eventBus:       eventBus,
		log:            logger.New("AssignmentLifecycleService"),
		now:            time.Now,
	}
}

// DeriveVehicleStatus gives the vehicle status implied by the assignment at
// the given instant.
func DeriveVehicleStatus(assignment *Assignment, at time.Time) VehicleStatus {
	if assignment.IsActiveAt(at) {
		return VehicleStatusAssigned
	}
	return VehicleStatusInService
}

// combineValidation merges validation reasons from several checks into one
// aggregated error. Any non-validation error short-circuits.
func combineValidation(errs ...error) error {
	var reasons []string
	for _, err := range errs {
		if err == nil {
			continue
		}
		if !apperrors.IsValidation(err) {
			return err
		}
		reasons = append(reasons, apperrors.ValidationReasons(err)...)
	}
	return apperrors.NewValidationError(reasons)
}

// Create validates the vehicle, employment and dates together, defaults the
// status to ASSIGNED, persists the assignment and applies the derived
// vehicle status.
func (s *AssignmentLifecycleService) Create(
	ctx context.Context,
	assignment *Assignment,
) (*Assignment, error) {
	log := s.log.Function("Create")

	unlock := s.locks.Lock(assignment.VehicleID)
	defer unlock()

	err := s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		vehicle, err := s.vehicleRepo.GetByID(ctx, tx, assignment.VehicleID)
		if err != nil {
			return err
		}
		employment, err := s.employmentRepo.GetByID(ctx, tx, assignment.EmploymentID)
		if err != nil {
			return err
		}

		if err := combineValidation(
			s.guard.ValidateVehicleCanBeAssigned(ctx, tx, vehicle),
			s.guard.ValidateEmploymentCanReceiveAssignment(ctx, tx, employment),
			s.guard.ValidateAssignmentDates(&assignment.StartDate, assignment.EndDate),
		); err != nil {
			return err
		}

		if assignment.Status == "" {
			assignment.Status = AssignmentStatusAssigned
		}
		if err := s.assignmentRepo.Create(ctx, tx, assignment); err != nil {
			return err
		}

		return s.applyVehicleStatus(ctx, tx, vehicle, DeriveVehicleStatus(assignment, s.now()))
	})
	if err != nil {
		return nil, err
	}

	log.Info("Assignment created",
		"assignmentID", assignment.ID,
		"vehicleID", assignment.VehicleID,
		"employmentID", assignment.EmploymentID,
	)
	s.publish(events.ASSIGNMENT_CREATED, assignment)
	return assignment, nil
}

// Update applies the payload to an existing assignment. Vehicle and
// employment checks rerun only when the reference changes, so an assignment
// does not block its own update. A vehicle change reverts the previous
// vehicle to IN_SERVICE before the new vehicle's status is derived.
func (s *AssignmentLifecycleService) Update(
	ctx context.Context,
	id uuid.UUID,
	payload *Assignment,
) (*Assignment, error) {
	log := s.log.Function("Update")

	var updated *Assignment
	err := func() error {
		// Peek at the stored vehicle outside the transaction so both
		// vehicles can be locked up front when the assignment moves.
		existing, err := s.assignmentRepo.GetByID(ctx, s.db.SQLWithContext(ctx), id)
		if err != nil {
			return err
		}

		normalizeAssignmentPayload(existing, payload)

		var unlock func()
		if payload.VehicleID != existing.VehicleID {
			unlock = s.locks.LockPair(existing.VehicleID, payload.VehicleID)
		} else {
			unlock = s.locks.Lock(existing.VehicleID)
		}
		defer unlock()

		return s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
			existing, err := s.assignmentRepo.GetByID(ctx, tx, id)
			if err != nil {
				return err
			}

			if !CanTransitionAssignment(existing.Status, payload.Status) {
				return apperrors.NewValidationError([]string{
					fmt.Sprintf("assignment cannot change status from %s to %s",
						existing.Status, payload.Status),
				})
			}

			vehicle, err := s.vehicleRepo.GetByID(ctx, tx, payload.VehicleID)
			if err != nil {
				return err
			}

			var checks []error
			if payload.VehicleID != existing.VehicleID {
				checks = append(checks, s.guard.ValidateVehicleCanBeAssigned(ctx, tx, vehicle))
			}
			if payload.EmploymentID != existing.EmploymentID {
				employment, err := s.employmentRepo.GetByID(ctx, tx, payload.EmploymentID)
				if err != nil {
					return err
				}
				checks = append(checks, s.guard.ValidateEmploymentCanReceiveAssignment(ctx, tx, employment))
			}
			checks = append(checks, s.guard.ValidateAssignmentDates(&payload.StartDate, payload.EndDate))
			if err := combineValidation(checks...); err != nil {
				return err
			}

			if payload.VehicleID != existing.VehicleID {
				if err := s.vehicleRepo.UpdateStatus(ctx, tx, existing.VehicleID, VehicleStatusInService); err != nil {
					return err
				}
			}

			existing.VehicleID = payload.VehicleID
			existing.EmploymentID = payload.EmploymentID
			existing.StartDate = payload.StartDate
			existing.EndDate = payload.EndDate
			existing.Status = payload.Status
			existing.ProjectRef = payload.ProjectRef
			if err := s.assignmentRepo.Update(ctx, tx, existing); err != nil {
				return err
			}

			updated = existing
			return s.applyVehicleStatus(ctx, tx, vehicle, DeriveVehicleStatus(existing, s.now()))
		})
	}()
	if err != nil {
		return nil, err
	}

	log.Info("Assignment updated", "assignmentID", id)
	s.publish(events.ASSIGNMENT_UPDATED, updated)
	return updated, nil
}

// normalizeAssignmentPayload fills update fields a PUT caller may omit from
// the stored assignment, so an omitted field means unchanged rather than a
// reset to the zero value. A nil EndDate stays nil: it is the open-ended
// marker, not an omission.
func normalizeAssignmentPayload(existing, payload *Assignment) {
	if payload.Status == "" {
		payload.Status = existing.Status
	}
	if payload.VehicleID == uuid.Nil {
		payload.VehicleID = existing.VehicleID
	}
	if payload.EmploymentID == uuid.Nil {
		payload.EmploymentID = existing.EmploymentID
	}
	if payload.StartDate.IsZero() {
		payload.StartDate = existing.StartDate
	}
}

// Delete removes the assignment and recomputes the vehicle's status from
// its remaining active assignments.
func (s *AssignmentLifecycleService) Delete(ctx context.Context, id uuid.UUID) error {
	log := s.log.Function("Delete")

	existing, err := s.assignmentRepo.GetByID(ctx, s.db.SQLWithContext(ctx), id)
	if err != nil {
		return err
	}

	unlock := s.locks.Lock(existing.VehicleID)
	defer unlock()

	err = s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if err := s.assignmentRepo.Delete(ctx, tx, id); err != nil {
			return err
		}
		return s.recomputeVehicleStatus(ctx, tx, existing.VehicleID)
	})
	if err != nil {
		return err
	}

	log.Info("Assignment deleted", "assignmentID", id, "vehicleID", existing.VehicleID)
	return nil
}

// ReleaseExpired transitions every ASSIGNED assignment whose end date has
// passed to RETURNED and recomputes each vehicle's status. Returns the
// number of released assignments. Run daily by the scheduler.
func (s *AssignmentLifecycleService) ReleaseExpired(ctx context.Context) (int, error) {
	log := s.log.Function("ReleaseExpired")
	now := s.now()

	expired, err := s.assignmentRepo.GetExpired(ctx, s.db.SQLWithContext(ctx), now)
	if err != nil {
		return 0, err
	}
	if len(expired) == 0 {
		return 0, nil
	}

	released := 0
	for _, assignment := range expired {
		err := func() error {
			unlock := s.locks.Lock(assignment.VehicleID)
			defer unlock()

			return s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
				// Reload under the lock; another writer may have closed it.
				current, err := s.assignmentRepo.GetByID(ctx, tx, assignment.ID)
				if err != nil {
					if apperrors.IsNotFound(err) {
						return nil
					}
					return err
				}
				if current.Status != AssignmentStatusAssigned {
					return nil
				}

				if err := current.Transition(AssignmentStatusReturned, now); err != nil {
					return err
				}
				if err := s.assignmentRepo.Update(ctx, tx, current); err != nil {
					return err
				}
				if err := s.recomputeVehicleStatus(ctx, tx, current.VehicleID); err != nil {
					return err
				}

				released++
				s.publish(events.ASSIGNMENT_RELEASED, current)
				return nil
			})
		}()
		if err != nil {
			log.Er("failed to release expired assignment", err, "assignmentID", assignment.ID)
		}
	}

	log.Info("Expired assignments released", "count", released, "candidates", len(expired))
	return released, nil
}

// FindActiveByVehicle returns the vehicle's active assignment, or nil when
// it has none.
func (s *AssignmentLifecycleService) FindActiveByVehicle(
	ctx context.Context,
	vehicleID uuid.UUID,
) (*Assignment, error) {
	active, err := s.assignmentRepo.GetActiveByVehicle(ctx, s.db.SQLWithContext(ctx), vehicleID, s.now())
	if err != nil {
		return nil, err
	}
	if len(active) == 0 {
		return nil, nil
	}
	return active[0], nil
}

func (s *AssignmentLifecycleService) applyVehicleStatus(
	ctx context.Context,
	tx *gorm.DB,
	vehicle *Vehicle,
	status VehicleStatus,
) error {
	if vehicle.Status == status {
		return nil
	}
	if err := s.vehicleRepo.UpdateStatus(ctx, tx, vehicle.ID, status); err != nil {
		return err
	}
	if s.eventBus != nil {
		if err := s.eventBus.PublishVehicleStatusChange(vehicle.ID, string(vehicle.Status), string(status)); err != nil {
			s.log.Warn("failed to publish vehicle status change", "vehicleID", vehicle.ID)
		}
	}
	return nil
}

func (s *AssignmentLifecycleService) recomputeVehicleStatus(
	ctx context.Context,
	tx *gorm.DB,
	vehicleID uuid.UUID,
) error {
	vehicle, err := s.vehicleRepo.GetByID(ctx, tx, vehicleID)
	if err != nil {
		return err
	}
	// Only the assignment-managed statuses flip here. A vehicle parked in
	// the workshop or decommissioned keeps its status.
	if vehicle.Status != VehicleStatusAssigned && vehicle.Status != VehicleStatusInService {
		return nil
	}

	active, err := s.assignmentRepo.GetActiveByVehicle(ctx, tx, vehicleID, s.now())
	if err != nil {
		return err
	}

	status := VehicleStatusInService
	if len(active) > 0 {
		status = VehicleStatusAssigned
	}
	return s.applyVehicleStatus(ctx, tx, vehicle, status)
}

func (s *AssignmentLifecycleService) publish(eventType events.MessageType, assignment *Assignment) {
	if s.eventBus == nil || assignment == nil {
		return
	}
	vehicleID := assignment.VehicleID
	err := s.eventBus.Publish(events.FLEET_CHANNEL, events.Event{
		Type:      eventType,
		VehicleID: &vehicleID,
		Data: map[string]any{
			"assignmentId": assignment.ID.String(),
			"employmentId": assignment.EmploymentID.String(),
			"status":       string(assignment.Status),
		},
	})
	if err != nil {
		s.log.Warn("failed to publish assignment event", "assignmentID", assignment.ID)
	}
}
