package services

import (
	"context"
	"time"

	"fleetdesk/internal/database"
	"fleetdesk/internal/events"
	"fleetdesk/internal/logger"
	. "fleetdesk/internal/models"
	"fleetdesk/internal/repositories"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BookingLifecycleService manages time-bounded reservations. Bookings only
// participate in overlap checking; vehicle status is never touched here.
type BookingLifecycleService struct {
	db          database.DB
	transaction *TransactionService
	locks       *VehicleLockService
	guard       *AvailabilityGuardService
	bookingRepo repositories.BookingRepository
	vehicleRepo repositories.VehicleRepository
	eventBus    *events.EventBus
	log         logger.Logger
	now         func() time.Time
}

func NewBookingLifecycleService(
	db database.DB,
	repos repositories.Repository,
	transaction *TransactionService,
	locks *VehicleLockService,
	guard *AvailabilityGuardService,
	eventBus *events.EventBus,
) *BookingLifecycleService {
	return &BookingLifecycleService{
		db:          db,
		transaction: transaction,
		locks:       locks,
		guard:       guard,
		bookingRepo: repos.Booking,
		vehicleRepo: repos.Vehicle,
		eventBus:    eventBus,
		log:         logger.New("BookingLifecycleService"),
		now:         time.Now,
	}
}

// Create validates the requested interval against active assignments and
// other bookings, then persists the booking.
func (s *BookingLifecycleService) Create(
	ctx context.Context,
	booking *VehicleBooking,
) (*VehicleBooking, error) {
	log := s.log.Function("Create")

	unlock := s.locks.Lock(booking.VehicleID)
	defer unlock()

	err := s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		vehicle, err := s.vehicleRepo.GetByID(ctx, tx, booking.VehicleID)
		if err != nil {
			return err
		}
		if err := s.guard.ValidateBooking(ctx, tx, vehicle, booking.StartsAt, booking.EndsAt, nil); err != nil {
			return err
		}
		if booking.Status == "" {
			booking.Status = BookingStatusPlanned
		}
		return s.bookingRepo.Create(ctx, tx, booking)
	})
	if err != nil {
		return nil, err
	}

	log.Info("Booking created", "bookingID", booking.ID, "vehicleID", booking.VehicleID)
	s.publish(events.BOOKING_CREATED, booking)
	return booking, nil
}

// Update revalidates the interval with the booking itself excluded from the
// overlap check.
func (s *BookingLifecycleService) Update(
	ctx context.Context,
	id uuid.UUID,
	payload *VehicleBooking,
) (*VehicleBooking, error) {
	log := s.log.Function("Update")

	unlock := s.locks.Lock(payload.VehicleID)
	defer unlock()

	var updated *VehicleBooking
	err := s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		existing, err := s.bookingRepo.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}
		vehicle, err := s.vehicleRepo.GetByID(ctx, tx, payload.VehicleID)
		if err != nil {
			return err
		}

		// A cancelled booking no longer occupies its slot, so skip the
		// overlap check when the update cancels it.
		if payload.Status != BookingStatusCancelled {
			if err := s.guard.ValidateBooking(ctx, tx, vehicle, payload.StartsAt, payload.EndsAt, &id); err != nil {
				return err
			}
		}

		existing.VehicleID = payload.VehicleID
		existing.StartsAt = payload.StartsAt
		existing.EndsAt = payload.EndsAt
		existing.Purpose = payload.Purpose
		if payload.Status != "" {
			existing.Status = payload.Status
		}
		if err := s.bookingRepo.Update(ctx, tx, existing); err != nil {
			return err
		}

		updated = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("Booking updated", "bookingID", id)
	s.publish(events.BOOKING_UPDATED, updated)
	return updated, nil
}

// Delete removes the booking unconditionally.
func (s *BookingLifecycleService) Delete(ctx context.Context, id uuid.UUID) error {
	log := s.log.Function("Delete")

	booking, err := s.bookingRepo.GetByID(ctx, s.db.SQLWithContext(ctx), id)
	if err != nil {
		return err
	}

	unlock := s.locks.Lock(booking.VehicleID)
	defer unlock()

	err = s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return s.bookingRepo.Delete(ctx, tx, id)
	})
	if err != nil {
		return err
	}

	log.Info("Booking deleted", "bookingID", id, "vehicleID", booking.VehicleID)
	s.publish(events.BOOKING_DELETED, booking)
	return nil
}

// CountActiveNow counts non-cancelled bookings covering the current instant.
func (s *BookingLifecycleService) CountActiveNow(ctx context.Context) (int64, error) {
	return s.bookingRepo.CountActiveAt(ctx, s.db.SQLWithContext(ctx), s.now())
}

// CountForDay counts non-cancelled bookings touching the given calendar day.
func (s *BookingLifecycleService) CountForDay(ctx context.Context, day time.Time) (int64, error) {
	return s.bookingRepo.CountForDay(ctx, s.db.SQLWithContext(ctx), day)
}

// GetUpcoming returns non-cancelled bookings starting within the next N days.
func (s *BookingLifecycleService) GetUpcoming(ctx context.Context, days int) ([]*VehicleBooking, error) {
	return s.bookingRepo.GetStartingWithin(ctx, s.db.SQLWithContext(ctx), s.now(), days)
}

// GetByVehicle returns the vehicle's non-cancelled bookings.
func (s *BookingLifecycleService) GetByVehicle(
	ctx context.Context,
	vehicleID uuid.UUID,
) ([]*VehicleBooking, error) {
	return s.bookingRepo.GetByVehicle(ctx, s.db.SQLWithContext(ctx), vehicleID)
}

func (s *BookingLifecycleService) publish(eventType events.MessageType, booking *VehicleBooking) {
	if s.eventBus == nil || booking == nil {
		return
	}
	vehicleID := booking.VehicleID
	err := s.eventBus.Publish(events.FLEET_CHANNEL, events.Event{
		Type:      eventType,
		VehicleID: &vehicleID,
		Data: map[string]any{
			"bookingId": booking.ID.String(),
			"startsAt":  booking.StartsAt,
			"endsAt":    booking.EndsAt,
			"status":    string(booking.Status),
		},
	})
	if err != nil {
		s.log.Warn("failed to publish booking event", "bookingID", booking.ID)
	}
}
