package models

import (
	"time"

	"gorm.io/gorm"
)

type VehicleStatus string

const (
	VehicleStatusInService        VehicleStatus = "IN_SERVICE"
	VehicleStatusAssigned         VehicleStatus = "ASSIGNED"
	VehicleStatusUnderMaintenance VehicleStatus = "UNDER_MAINTENANCE"
	VehicleStatusOutOfService     VehicleStatus = "OUT_OF_SERVICE"
)

// Vehicle status is mutated only through the assignment lifecycle;
// CurrentMileage is a cache derived from the mileage ledger.
type Vehicle struct {
	BaseUUIDModel
	Plate             string        `gorm:"type:text;not null;uniqueIndex:idx_vehicles_plate" json:"plate" validate:"required"`
	VIN               *string       `gorm:"type:text"                                         json:"vin,omitempty"`
	Make              string        `gorm:"type:text"                                         json:"make"`
	Model             string        `gorm:"type:text"                                         json:"model"`
	Status            VehicleStatus `gorm:"type:text;not null;default:'IN_SERVICE';index:idx_vehicles_status" json:"status"`
	CurrentMileage    *int          `gorm:"type:integer"                                      json:"currentMileage,omitempty"`
	ContractStartDate *time.Time    `gorm:"type:date"                                         json:"contractStartDate,omitempty"`
	RegistrationDate  *time.Time    `gorm:"type:date"                                         json:"registrationDate,omitempty"`
	InsuranceExpiry   *time.Time    `gorm:"type:date"                                         json:"insuranceExpiry,omitempty"`
	RoadTaxExpiry     *time.Time    `gorm:"type:date"                                         json:"roadTaxExpiry,omitempty"`
	Notes             *string       `gorm:"type:text"                                         json:"notes,omitempty"`
}

// ReferenceDate is the anchor for initial task scheduling: contract start,
// else registration date, else now.
func (v *Vehicle) ReferenceDate(now time.Time) time.Time {
	if v.ContractStartDate != nil {
		return *v.ContractStartDate
	}
	if v.RegistrationDate != nil {
		return *v.RegistrationDate
	}
	return now
}

// ApplyUpdate copies the caller-editable master data from payload onto v.
// Status and CurrentMileage are derived state owned by the assignment
// lifecycle and the mileage ledger, so they are never taken from a payload.
func (v *Vehicle) ApplyUpdate(payload *Vehicle) {
	if payload.Plate != "" {
		v.Plate = payload.Plate
	}
	v.VIN = payload.VIN
	v.Make = payload.Make
	v.Model = payload.Model
	v.ContractStartDate = payload.ContractStartDate
	v.RegistrationDate = payload.RegistrationDate
	v.InsuranceExpiry = payload.InsuranceExpiry
	v.RoadTaxExpiry = payload.RoadTaxExpiry
	v.Notes = payload.Notes
}

func (v *Vehicle) BeforeCreate(tx *gorm.DB) (err error) {
	if v.Plate == "" {
		return gorm.ErrInvalidValue
	}
	if v.Status == "" {
		v.Status = VehicleStatusInService
	}
	return nil
}

func (v *Vehicle) BeforeUpdate(tx *gorm.DB) (err error) {
	if v.Plate == "" {
		return gorm.ErrInvalidValue
	}
	return nil
}
