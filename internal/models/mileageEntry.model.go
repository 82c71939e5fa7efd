package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MileageSource string

const (
	MileageSourceVehicle     MileageSource = "VEHICLE"
	MileageSourceRefuel      MileageSource = "REFUEL"
	MileageSourceMaintenance MileageSource = "MAINTENANCE"
)

// MileageEntry is one observation in the per-vehicle mileage ledger. One
// entry exists per originating record, keyed by (source, source_id); for a
// fixed vehicle, entries ordered by observation date carry non-decreasing
// mileage.
type MileageEntry struct {
	BaseUUIDModel
	VehicleID  uuid.UUID     `gorm:"type:uuid;not null;index:idx_mileage_entries_vehicle" json:"vehicleId" validate:"required"`
	Mileage    int           `gorm:"type:integer;not null"                                json:"mileage"`
	ObservedAt time.Time     `gorm:"type:timestamp;not null;index:idx_mileage_entries_observed_at" json:"observedAt" validate:"required"`
	Source     MileageSource `gorm:"type:text;not null;uniqueIndex:idx_mileage_entries_source" json:"source" validate:"required"`
	SourceID   uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_mileage_entries_source" json:"sourceId" validate:"required"`

	Vehicle *Vehicle `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
}

func (m *MileageEntry) BeforeCreate(tx *gorm.DB) (err error) {
	if m.VehicleID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	if m.Source == "" || m.SourceID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	if m.ObservedAt.IsZero() {
		m.ObservedAt = time.Now()
	}
	return nil
}
