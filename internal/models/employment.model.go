package models

import (
	"time"

	"gorm.io/gorm"
)

type EmploymentStatus string

const (
	EmploymentStatusActive     EmploymentStatus = "ACTIVE"
	EmploymentStatusTerminated EmploymentStatus = "TERMINATED"
)

type Employment struct {
	BaseUUIDModel
	FirstName       string           `gorm:"type:text;not null" json:"firstName" validate:"required"`
	LastName        string           `gorm:"type:text;not null" json:"lastName" validate:"required"`
	Status          EmploymentStatus `gorm:"type:text;not null;default:'ACTIVE';index:idx_employments_status" json:"status"`
	StartDate       *time.Time       `gorm:"type:date"          json:"startDate,omitempty"`
	TerminationDate *time.Time       `gorm:"type:date"          json:"terminationDate,omitempty"`
}

func (e *Employment) BeforeCreate(tx *gorm.DB) (err error) {
	if e.FirstName == "" || e.LastName == "" {
		return gorm.ErrInvalidValue
	}
	if e.Status == "" {
		e.Status = EmploymentStatusActive
	}
	return nil
}
