package services

import (
	"context"
	"fmt"
	"time"

	"fleetdesk/internal/apperrors"
	"fleetdesk/internal/logger"
	. "fleetdesk/internal/models"
	"fleetdesk/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AvailabilityGuardService answers "may this change happen" questions for
// assignments, bookings, refuels and terminations. Every check collects all
// violated rules and reports them together in one ValidationError.
type AvailabilityGuardService struct {
	assignmentRepo repositories.AssignmentRepository
	bookingRepo    repositories.BookingRepository
	log            logger.Logger
	now            func() time.Time
}

func NewAvailabilityGuardService(repos repositories.Repository) *AvailabilityGuardService {
	return &AvailabilityGuardService{
		assignmentRepo: repos.Assignment,
		bookingRepo:    repos.Booking,
		log:            logger.New("AvailabilityGuardService"),
		now:            time.Now,
	}
}

// IntervalsOverlap tests two half-open intervals [s1,e1) and [s2,e2).
// Touching boundaries do not overlap.
func IntervalsOverlap(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && e1.After(s2)
}

// AssignmentOverlaps reports whether the assignment's time span shares any
// instant with [start,end). An open-ended assignment blocks everything from
// its start onward.
func AssignmentOverlaps(assignment *Assignment, start, end time.Time) bool {
	if assignment.EndDate == nil {
		return assignment.StartDate.Before(end)
	}
	return IntervalsOverlap(assignment.StartDate, *assignment.EndDate, start, end)
}

// VehicleAssignReasons evaluates the assignability rules for a vehicle given
// whether it already holds an active assignment. Pure so the rule set is
// testable in isolation.
func VehicleAssignReasons(vehicle *Vehicle, hasActiveAssignment bool, now time.Time) []string {
	var reasons []string
	if vehicle.Status != VehicleStatusInService {
		reasons = append(reasons,
			fmt.Sprintf("vehicle %s is not in service (status %s)", vehicle.Plate, vehicle.Status))
	}
	if hasActiveAssignment {
		reasons = append(reasons,
			fmt.Sprintf("vehicle %s already has an active assignment", vehicle.Plate))
	}
	if vehicle.InsuranceExpiry != nil && vehicle.InsuranceExpiry.Before(now) {
		reasons = append(reasons,
			fmt.Sprintf("vehicle %s insurance expired on %s", vehicle.Plate, vehicle.InsuranceExpiry.Format("2006-01-02")))
	}
	if vehicle.RoadTaxExpiry != nil && vehicle.RoadTaxExpiry.Before(now) {
		reasons = append(reasons,
			fmt.Sprintf("vehicle %s road tax expired on %s", vehicle.Plate, vehicle.RoadTaxExpiry.Format("2006-01-02")))
	}
	return reasons
}

// EmploymentAssignReasons evaluates whether the employment may receive a new
// assignment given whether it already holds an active one.
func EmploymentAssignReasons(employment *Employment, hasActiveAssignment bool) []string {
	var reasons []string
	if employment.Status != EmploymentStatusActive {
		reasons = append(reasons,
			fmt.Sprintf("employment %s %s is not active (status %s)",
				employment.FirstName, employment.LastName, employment.Status))
	}
	if hasActiveAssignment {
		reasons = append(reasons,
			fmt.Sprintf("employment %s %s already has an active assignment",
				employment.FirstName, employment.LastName))
	}
	return reasons
}

// AssignmentDateReasons validates a start/end pair. End may be open.
func AssignmentDateReasons(start, end *time.Time) []string {
	var reasons []string
	if start == nil {
		reasons = append(reasons, "start date is required")
	}
	if start != nil && end != nil && end.Before(*start) {
		reasons = append(reasons, "end date must not be before start date")
	}
	return reasons
}

// ValidateVehicleCanBeAssigned returns a ValidationError listing every rule
// that blocks assigning the vehicle, or nil when it is assignable.
func (s *AvailabilityGuardService) ValidateVehicleCanBeAssigned(
	ctx context.Context,
	tx *gorm.DB,
	vehicle *Vehicle,
) error {
	now := s.now()
	active, err := s.assignmentRepo.GetActiveByVehicle(ctx, tx, vehicle.ID, now)
	if err != nil {
		return err
	}
	return apperrors.NewValidationError(VehicleAssignReasons(vehicle, len(active) > 0, now))
}

// ValidateEmploymentCanReceiveAssignment returns a ValidationError listing
// every rule that blocks the employment, or nil.
func (s *AvailabilityGuardService) ValidateEmploymentCanReceiveAssignment(
	ctx context.Context,
	tx *gorm.DB,
	employment *Employment,
) error {
	active, err := s.assignmentRepo.GetActiveByEmployment(ctx, tx, employment.ID, s.now())
	if err != nil {
		return err
	}
	return apperrors.NewValidationError(EmploymentAssignReasons(employment, len(active) > 0))
}

// ValidateAssignmentDates checks the start/end pair in isolation.
func (s *AvailabilityGuardService) ValidateAssignmentDates(start, end *time.Time) error {
	return apperrors.NewValidationError(AssignmentDateReasons(start, end))
}

// ValidateBooking checks that [start,end) on the vehicle collides with
// neither an active assignment nor another non-cancelled booking. When
// updating, excludeBookingID skips the booking's own row.
func (s *AvailabilityGuardService) ValidateBooking(
	ctx context.Context,
	tx *gorm.DB,
	vehicle *Vehicle,
	start time.Time,
	end time.Time,
	excludeBookingID *uuid.UUID,
) error {
	log := s.log.Function("ValidateBooking")

	var reasons []string
	if !end.After(start) {
		reasons = append(reasons, "booking end must be after booking start")
	}
	if vehicle.Status != VehicleStatusInService {
		reasons = append(reasons,
			fmt.Sprintf("vehicle %s is not in service (status %s)", vehicle.Plate, vehicle.Status))
	}

	assignments, err := s.assignmentRepo.GetActiveByVehicle(ctx, tx, vehicle.ID, s.now())
	if err != nil {
		return err
	}
	for _, assignment := range assignments {
		if AssignmentOverlaps(assignment, start, end) {
			reasons = append(reasons,
				fmt.Sprintf("requested interval overlaps an active assignment starting %s",
					assignment.StartDate.Format("2006-01-02")))
			break
		}
	}

	bookings, err := s.bookingRepo.GetByVehicle(ctx, tx, vehicle.ID)
	if err != nil {
		return err
	}
	for _, booking := range bookings {
		if excludeBookingID != nil && booking.ID == *excludeBookingID {
			continue
		}
		if IntervalsOverlap(booking.StartsAt, booking.EndsAt, start, end) {
			reasons = append(reasons,
				fmt.Sprintf("requested interval overlaps booking %s", booking.ID))
			break
		}
	}

	if len(reasons) > 0 {
		log.Debug("Booking rejected", "vehicleID", vehicle.ID, "reasons", reasons)
	}
	return apperrors.NewValidationError(reasons)
}

// RefuelReasons validates a refuel record's own fields.
func RefuelReasons(refuel *RefuelRecord, now time.Time) []string {
	var reasons []string
	if refuel.VehicleID == uuid.Nil {
		reasons = append(reasons, "refuel must reference a vehicle")
	}
	if refuel.RefueledAt.IsZero() {
		reasons = append(reasons, "refuel date is required")
	} else if refuel.RefueledAt.After(now) {
		reasons = append(reasons, "refuel date must not be in the future")
	}
	if !refuel.Liters.GreaterThan(decimal.Zero) {
		reasons = append(reasons, "refueled liters must be positive")
	}
	if refuel.Cost != nil && refuel.Cost.IsNegative() {
		reasons = append(reasons, "refuel cost must not be negative")
	}
	if refuel.Mileage != nil && *refuel.Mileage < 0 {
		reasons = append(reasons, "refuel mileage must not be negative")
	}
	return reasons
}

// ValidateRefuel checks the record's fields. Mileage regression against the
// ledger is rejected separately when the entry is recorded.
func (s *AvailabilityGuardService) ValidateRefuel(refuel *RefuelRecord) error {
	return apperrors.NewValidationError(RefuelReasons(refuel, s.now()))
}

// ValidateEmploymentTermination rejects terminating an employment that is
// already terminated or still holds an active assignment at the termination
// date. The assigned vehicle has to be returned first.
func (s *AvailabilityGuardService) ValidateEmploymentTermination(
	ctx context.Context,
	tx *gorm.DB,
	employment *Employment,
	terminationDate time.Time,
) error {
	var reasons []string
	if employment.Status == EmploymentStatusTerminated {
		reasons = append(reasons,
			fmt.Sprintf("employment %s %s is already terminated",
				employment.FirstName, employment.LastName))
	}
	if terminationDate.IsZero() {
		reasons = append(reasons, "termination date is required")
	} else {
		active, err := s.assignmentRepo.GetActiveByEmployment(ctx, tx, employment.ID, terminationDate)
		if err != nil {
			return err
		}
		if len(active) > 0 {
			reasons = append(reasons,
				fmt.Sprintf("employment %s %s still has an active assignment, return the vehicle first",
					employment.FirstName, employment.LastName))
		}
	}
	return apperrors.NewValidationError(reasons)
}
