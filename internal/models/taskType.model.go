package models

import (
	"gorm.io/gorm"
)

// Well-known task type codes. Codes are free-form for supplier-specific
// work, but these four drive the scheduling families.
const (
	TaskTypeCodeOrdinaryService = "ORDINARY_SERVICE"
	TaskTypeCodeLegalRevision   = "LEGAL_REVISION"
	TaskTypeCodeSummerTyres     = "SUMMER_TYRES"
	TaskTypeCodeWinterTyres     = "WINTER_TYRES"
)

// DefaultServiceKmInterval is used for the ordinary service family when the
// catalog entry has no kilometer interval of its own.
const DefaultServiceKmInterval = 20000

// LegalRevisionYears is the fixed recurrence of the legal revision family.
const LegalRevisionYears = 4

// TaskType is a catalog entry. Auto types get an open task on every vehicle
// automatically.
type TaskType struct {
	BaseUUIDModel
	Code           string `gorm:"type:text;not null;uniqueIndex:idx_task_types_code" json:"code" validate:"required"`
	Name           string `gorm:"type:text;not null"                                 json:"name"`
	DueByDate      bool   `gorm:"type:bool;default:false;not null"                   json:"dueByDate"`
	DueByMileage   bool   `gorm:"type:bool;default:false;not null"                   json:"dueByMileage"`
	MonthsInterval *int   `gorm:"type:integer"                                       json:"monthsInterval,omitempty"`
	KmInterval     *int   `gorm:"type:integer"                                       json:"kmInterval,omitempty"`
	Auto           bool   `gorm:"type:bool;default:false;not null;index:idx_task_types_auto" json:"auto"`
}

func (t *TaskType) BeforeCreate(tx *gorm.DB) (err error) {
	if t.Code == "" {
		return gorm.ErrInvalidValue
	}
	if t.Name == "" {
		t.Name = t.Code
	}
	return nil
}
