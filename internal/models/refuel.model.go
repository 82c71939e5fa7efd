package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RefuelRecord feeds the mileage ledger with source REFUEL. A nil or zero
// mileage carries the last known reading forward.
type RefuelRecord struct {
	BaseUUIDModel
	VehicleID  uuid.UUID        `gorm:"type:uuid;not null;index:idx_refuel_records_vehicle" json:"vehicleId" validate:"required"`
	RefueledAt time.Time        `gorm:"type:timestamp;not null"                             json:"refueledAt" validate:"required"`
	Liters     decimal.Decimal  `gorm:"type:decimal(8,2);not null"                          json:"liters"`
	Cost       *decimal.Decimal `gorm:"type:decimal(10,2)"                                  json:"cost,omitempty"`
	Mileage    *int             `gorm:"type:integer"                                        json:"mileage,omitempty"`
	Station    *string          `gorm:"type:text"                                           json:"station,omitempty"`

	Vehicle *Vehicle `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
}

func (r *RefuelRecord) BeforeCreate(tx *gorm.DB) (err error) {
	if r.VehicleID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	if r.RefueledAt.IsZero() {
		r.RefueledAt = time.Now()
	}
	return nil
}
