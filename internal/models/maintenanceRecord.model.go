package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MaintenanceRecord documents one completed maintenance visit. It feeds the
// mileage ledger with source MAINTENANCE and, when it names a task type,
// closes the matching open task and anchors its successor.
type MaintenanceRecord struct {
	BaseUUIDModel
	VehicleID   uuid.UUID        `gorm:"type:uuid;not null;index:idx_maintenance_records_vehicle" json:"vehicleId" validate:"required"`
	TaskTypeID  *uuid.UUID       `gorm:"type:uuid;index:idx_maintenance_records_task_type"        json:"taskTypeId,omitempty"`
	PerformedAt time.Time        `gorm:"type:timestamp;not null;index:idx_maintenance_records_performed_at" json:"performedAt" validate:"required"`
	Mileage     *int             `gorm:"type:integer"                                             json:"mileage,omitempty"`
	Cost        *decimal.Decimal `gorm:"type:decimal(10,2)"                                       json:"cost,omitempty"`
	SupplierRef *string          `gorm:"type:text"                                                json:"supplierRef,omitempty"`
	Notes       *string          `gorm:"type:text"                                                json:"notes,omitempty"`

	Vehicle  *Vehicle  `gorm:"foreignKey:VehicleID"  json:"vehicle,omitempty"`
	TaskType *TaskType `gorm:"foreignKey:TaskTypeID" json:"taskType,omitempty"`
}

func (m *MaintenanceRecord) BeforeCreate(tx *gorm.DB) (err error) {
	if m.VehicleID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	if m.PerformedAt.IsZero() {
		m.PerformedAt = time.Now()
	}
	return nil
}

func (m *MaintenanceRecord) BeforeUpdate(tx *gorm.DB) (err error) {
	if m.VehicleID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	return nil
}
