package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusOpen   TaskStatus = "OPEN"
	TaskStatusClosed TaskStatus = "CLOSED"
)

// VehicleTask is one scheduled maintenance obligation. At most one OPEN task
// exists per (vehicle, task type); recording a matching maintenance closes
// it and creates the recomputed successor.
type VehicleTask struct {
	BaseUUIDModel
	VehicleID  uuid.UUID  `gorm:"type:uuid;not null;index:idx_vehicle_tasks_vehicle" json:"vehicleId" validate:"required"`
	TaskTypeID uuid.UUID  `gorm:"type:uuid;not null;index:idx_vehicle_tasks_type"    json:"taskTypeId" validate:"required"`
	DueDate    *time.Time `gorm:"type:date"                                          json:"dueDate,omitempty"`
	DueMileage *int       `gorm:"type:integer"                                       json:"dueMileage,omitempty"`
	Status     TaskStatus `gorm:"type:text;not null;default:'OPEN';index:idx_vehicle_tasks_status" json:"status"`
	Executed   bool       `gorm:"type:bool;default:false;not null"                   json:"executed"`
	ExecutedAt *time.Time `gorm:"type:timestamp"                                     json:"executedAt,omitempty"`

	Vehicle  *Vehicle  `gorm:"foreignKey:VehicleID"  json:"vehicle,omitempty"`
	TaskType *TaskType `gorm:"foreignKey:TaskTypeID" json:"taskType,omitempty"`
}

func (t *VehicleTask) BeforeCreate(tx *gorm.DB) (err error) {
	if t.VehicleID == uuid.Nil || t.TaskTypeID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	if t.Status == "" {
		t.Status = TaskStatusOpen
	}
	return nil
}
