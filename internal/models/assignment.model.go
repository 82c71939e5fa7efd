package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AssignmentStatus string

const (
	AssignmentStatusOpen     AssignmentStatus = "OPEN"
	AssignmentStatusBooked   AssignmentStatus = "BOOKED"
	AssignmentStatusAssigned AssignmentStatus = "ASSIGNED"
	AssignmentStatusReturned AssignmentStatus = "RETURNED"
	AssignmentStatusClosed   AssignmentStatus = "CLOSED"
)

// assignmentTransitions is the directed graph of allowed status changes.
// RETURNED and CLOSED are terminal.
var assignmentTransitions = map[AssignmentStatus][]AssignmentStatus{
	AssignmentStatusOpen:     {AssignmentStatusAssigned, AssignmentStatusClosed},
	AssignmentStatusBooked:   {AssignmentStatusAssigned, AssignmentStatusClosed},
	AssignmentStatusAssigned: {AssignmentStatusReturned, AssignmentStatusClosed},
	AssignmentStatusReturned: {},
	AssignmentStatusClosed:   {},
}

// CanTransitionAssignment reports whether from -> to is an allowed status
// change. Same-status writes are allowed.
func CanTransitionAssignment(from, to AssignmentStatus) bool {
	if from == to {
		return true
	}
	allowed, ok := assignmentTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// Assignment links an employment to a vehicle for a time span. An active
// assignment is the only thing that marks a vehicle occupied for scheduling.
type Assignment struct {
	BaseUUIDModel
	EmploymentID uuid.UUID        `gorm:"type:uuid;not null;index:idx_assignments_employment" json:"employmentId" validate:"required"`
	VehicleID    uuid.UUID        `gorm:"type:uuid;not null;index:idx_assignments_vehicle"    json:"vehicleId" validate:"required"`
	StartDate    time.Time        `gorm:"type:timestamp;not null"                             json:"startDate" validate:"required"`
	EndDate      *time.Time       `gorm:"type:timestamp"                                      json:"endDate,omitempty"`
	Status       AssignmentStatus `gorm:"type:text;not null;default:'ASSIGNED';index:idx_assignments_status" json:"status"`
	ProjectRef   *string          `gorm:"type:text"                                           json:"projectRef,omitempty"`

	Employment *Employment `gorm:"foreignKey:EmploymentID" json:"employment,omitempty"`
	Vehicle    *Vehicle    `gorm:"foreignKey:VehicleID"    json:"vehicle,omitempty"`
}

// IsActiveAt reports whether the assignment occupies its vehicle at the
// given instant: status ASSIGNED with no end date or an end date not before
// the instant.
func (a *Assignment) IsActiveAt(at time.Time) bool {
	if a.Status != AssignmentStatusAssigned {
		return false
	}
	return a.EndDate == nil || !a.EndDate.Before(at)
}

// Transition applies a status change, keeping the end date in step when the
// assignment ends.
func (a *Assignment) Transition(to AssignmentStatus, now time.Time) error {
	if !CanTransitionAssignment(a.Status, to) {
		return fmt.Errorf("invalid assignment status transition: %s -> %s", a.Status, to)
	}
	a.Status = to

	if (to == AssignmentStatusReturned || to == AssignmentStatusClosed) && a.EndDate == nil {
		t := now
		a.EndDate = &t
	}
	return nil
}

func (a *Assignment) BeforeCreate(tx *gorm.DB) (err error) {
	if a.EmploymentID == uuid.Nil || a.VehicleID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	if a.StartDate.IsZero() {
		return gorm.ErrInvalidValue
	}
	if a.Status == "" {
		a.Status = AssignmentStatusAssigned
	}
	return nil
}
