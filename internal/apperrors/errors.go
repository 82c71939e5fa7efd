// Package apperrors holds the domain error kinds surfaced by the fleet core.
// None of these are retryable: they are deterministic results of the current
// state and input.
package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError aggregates every violated rule for one operation so the
// caller can present a complete correction list instead of fixing rules one
// at a time.
type ValidationError struct {
	Reasons []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Reasons, "; ")
}

// NewValidationError returns nil when no reasons are given, so callers can
// collect rules and return the result directly.
func NewValidationError(reasons []string) error {
	if len(reasons) == 0 {
		return nil
	}
	return &ValidationError{Reasons: reasons}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ValidationReasons returns the aggregated reasons when err is a
// ValidationError, else nil.
func ValidationReasons(err error) []string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Reasons
	}
	return nil
}

// MileageRegressionError rejects a mileage observation that would make the
// vehicle's date-ordered ledger decrease: a value below the reading before
// it, or above the reading after it. Exactly one of Previous/Next is set.
type MileageRegressionError struct {
	VehicleID string
	Mileage   int
	Previous  *int
	Next      *int
}

func (e *MileageRegressionError) Error() string {
	if e.Next != nil {
		return fmt.Sprintf(
			"mileage regression for vehicle %s: %d km is higher than the later reading %d km",
			e.VehicleID, e.Mileage, *e.Next,
		)
	}
	previous := 0
	if e.Previous != nil {
		previous = *e.Previous
	}
	return fmt.Sprintf(
		"mileage regression for vehicle %s: %d km is lower than previous reading %d km",
		e.VehicleID, e.Mileage, previous,
	)
}

func IsMileageRegression(err error) bool {
	var mre *MileageRegressionError
	return errors.As(err, &mre)
}

// NotFoundError reports a missing referenced record.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

func NewNotFound(entity string, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

func IsNotFound(err error) bool {
	var nfe *NotFoundError
	return errors.As(err, &nfe)
}
