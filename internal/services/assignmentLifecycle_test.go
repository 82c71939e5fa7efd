package services

import (
	"testing"
	"time"

	. "fleetdesk/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeAssignmentPayload(t *testing.T) {
	vehicleID := uuid.New()
	employmentID := uuid.New()
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	existing := &Assignment{
		VehicleID:    vehicleID,
		EmploymentID: employmentID,
		StartDate:    start,
		Status:       AssignmentStatusAssigned,
	}

	t.Run("omitted fields keep stored values", func(t *testing.T) {
		payload := &Assignment{}

		normalizeAssignmentPayload(existing, payload)

		assert.Equal(t, AssignmentStatusAssigned, payload.Status)
		assert.Equal(t, vehicleID, payload.VehicleID)
		assert.Equal(t, employmentID, payload.EmploymentID)
		assert.Equal(t, start, payload.StartDate)
		assert.True(t, CanTransitionAssignment(existing.Status, payload.Status))
	})

	t.Run("provided fields win", func(t *testing.T) {
		otherVehicle := uuid.New()
		payload := &Assignment{
			VehicleID: otherVehicle,
			Status:    AssignmentStatusReturned,
		}

		normalizeAssignmentPayload(existing, payload)

		assert.Equal(t, AssignmentStatusReturned, payload.Status)
		assert.Equal(t, otherVehicle, payload.VehicleID)
		assert.Equal(t, employmentID, payload.EmploymentID)
	})

	t.Run("nil end date stays open ended", func(t *testing.T) {
		end := start.AddDate(0, 6, 0)
		bounded := &Assignment{
			VehicleID:    vehicleID,
			EmploymentID: employmentID,
			StartDate:    start,
			EndDate:      &end,
			Status:       AssignmentStatusAssigned,
		}
		payload := &Assignment{}

		normalizeAssignmentPayload(bounded, payload)

		assert.Nil(t, payload.EndDate)
	})
}
