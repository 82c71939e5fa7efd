package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingStatusPlanned   BookingStatus = "PLANNED"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// VehicleBooking is a short-lived, time-bounded reservation. It never mutates
// vehicle status; it only participates in overlap checking.
type VehicleBooking struct {
	BaseUUIDModel
	VehicleID uuid.UUID     `gorm:"type:uuid;not null;index:idx_vehicle_bookings_vehicle" json:"vehicleId" validate:"required"`
	StartsAt  time.Time     `gorm:"type:timestamp;not null;index:idx_vehicle_bookings_starts_at" json:"startsAt" validate:"required"`
	EndsAt    time.Time     `gorm:"type:timestamp;not null"                                json:"endsAt" validate:"required"`
	Status    BookingStatus `gorm:"type:text;not null;default:'PLANNED';index:idx_vehicle_bookings_status" json:"status"`
	Purpose   *string       `gorm:"type:text"                                              json:"purpose,omitempty"`

	Vehicle *Vehicle `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
}

func (b *VehicleBooking) IsCancelled() bool {
	return b.Status == BookingStatusCancelled
}

// IsActiveAt reports whether a non-cancelled booking covers the instant,
// half-open on the end.
func (b *VehicleBooking) IsActiveAt(at time.Time) bool {
	if b.IsCancelled() {
		return false
	}
	return !b.StartsAt.After(at) && b.EndsAt.After(at)
}

func (b *VehicleBooking) BeforeCreate(tx *gorm.DB) (err error) {
	if b.VehicleID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	if b.StartsAt.IsZero() || b.EndsAt.IsZero() {
		return gorm.ErrInvalidValue
	}
	if b.Status == "" {
		b.Status = BookingStatusPlanned
	}
	return nil
}
