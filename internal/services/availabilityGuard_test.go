package services

import (
	"testing"
	"time"

	"fleetdesk/internal/apperrors"
	. "fleetdesk/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntervalsOverlap(t *testing.T) {
	day := date(2024, time.January, 10)
	at := func(hour int) time.Time { return day.Add(time.Duration(hour) * time.Hour) }

	tests := []struct {
		name     string
		s1, e1   time.Time
		s2, e2   time.Time
		overlaps bool
	}{
		{
			name: "partial overlap",
			s1:   at(9), e1: at(17),
			s2: at(16), e2: at(18),
			overlaps: true,
		},
		{
			name: "touching boundaries do not overlap",
			s1:   at(9), e1: at(17),
			s2: at(17), e2: at(18),
			overlaps: false,
		},
		{
			name: "disjoint",
			s1:   at(9), e1: at(12),
			s2: at(13), e2: at(15),
			overlaps: false,
		},
		{
			name: "containment",
			s1:   at(9), e1: at(18),
			s2: at(10), e2: at(11),
			overlaps: true,
		},
		{
			name: "identical intervals",
			s1:   at(9), e1: at(17),
			s2: at(9), e2: at(17),
			overlaps: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.overlaps, IntervalsOverlap(tt.s1, tt.e1, tt.s2, tt.e2))
			// Overlap is symmetric.
			assert.Equal(t, tt.overlaps, IntervalsOverlap(tt.s2, tt.e2, tt.s1, tt.e1))
		})
	}
}

func TestAssignmentOverlaps(t *testing.T) {
	start := date(2024, time.March, 1)

	t.Run("open ended blocks everything after its start", func(t *testing.T) {
		assignment := &Assignment{StartDate: start, Status: AssignmentStatusAssigned}

		assert.True(t, AssignmentOverlaps(assignment, date(2024, time.June, 1), date(2024, time.June, 2)))
		assert.True(t, AssignmentOverlaps(assignment, date(2030, time.January, 1), date(2030, time.January, 2)))
		assert.False(t, AssignmentOverlaps(assignment, date(2024, time.February, 1), date(2024, time.March, 1)),
			"interval ending at the assignment start does not overlap")
	})

	t.Run("bounded assignment uses half open overlap", func(t *testing.T) {
		end := date(2024, time.April, 1)
		assignment := &Assignment{StartDate: start, EndDate: &end, Status: AssignmentStatusAssigned}

		assert.True(t, AssignmentOverlaps(assignment, date(2024, time.March, 15), date(2024, time.March, 16)))
		assert.False(t, AssignmentOverlaps(assignment, end, end.AddDate(0, 0, 1)))
	})
}

func TestVehicleAssignReasons(t *testing.T) {
	now := date(2024, time.June, 1)

	t.Run("assignable vehicle has no reasons", func(t *testing.T) {
		vehicle := &Vehicle{Plate: "AB123CD", Status: VehicleStatusInService}
		assert.Empty(t, VehicleAssignReasons(vehicle, false, now))
	})

	t.Run("all violations reported together", func(t *testing.T) {
		insurance := date(2024, time.January, 1)
		roadTax := date(2024, time.February, 1)
		vehicle := &Vehicle{
			Plate:           "AB123CD",
			Status:          VehicleStatusUnderMaintenance,
			InsuranceExpiry: &insurance,
			RoadTaxExpiry:   &roadTax,
		}

		reasons := VehicleAssignReasons(vehicle, true, now)

		require.Len(t, reasons, 4)
		assert.Contains(t, reasons[0], "not in service")
		assert.Contains(t, reasons[1], "active assignment")
		assert.Contains(t, reasons[2], "insurance expired")
		assert.Contains(t, reasons[3], "road tax expired")
	})

	t.Run("future expiries do not block", func(t *testing.T) {
		insurance := date(2025, time.January, 1)
		vehicle := &Vehicle{
			Plate:           "AB123CD",
			Status:          VehicleStatusInService,
			InsuranceExpiry: &insurance,
		}
		assert.Empty(t, VehicleAssignReasons(vehicle, false, now))
	})
}

func TestEmploymentAssignReasons(t *testing.T) {
	employment := &Employment{FirstName: "Dana", LastName: "Rossi", Status: EmploymentStatusActive}

	assert.Empty(t, EmploymentAssignReasons(employment, false))

	reasons := EmploymentAssignReasons(employment, true)
	require.Len(t, reasons, 1)
	assert.Contains(t, reasons[0], "active assignment")

	employment.Status = EmploymentStatusTerminated
	reasons = EmploymentAssignReasons(employment, true)
	require.Len(t, reasons, 2)
	assert.Contains(t, reasons[0], "not active")
}

func TestAssignmentDateReasons(t *testing.T) {
	start := date(2024, time.January, 1)
	end := date(2024, time.June, 1)
	before := date(2023, time.December, 31)

	assert.Empty(t, AssignmentDateReasons(&start, &end))
	assert.Empty(t, AssignmentDateReasons(&start, nil), "open end is valid")

	reasons := AssignmentDateReasons(nil, &end)
	require.Len(t, reasons, 1)
	assert.Contains(t, reasons[0], "start date is required")

	reasons = AssignmentDateReasons(&start, &before)
	require.Len(t, reasons, 1)
	assert.Contains(t, reasons[0], "before start")
}

func TestRefuelReasons(t *testing.T) {
	now := date(2024, time.June, 1)

	t.Run("valid refuel", func(t *testing.T) {
		refuel := &RefuelRecord{
			VehicleID:  uuid.New(),
			RefueledAt: date(2024, time.May, 30),
			Liters:     decimal.NewFromInt(42),
			Mileage:    intPtr(15000),
		}
		assert.Empty(t, RefuelReasons(refuel, now))
	})

	t.Run("unset mileage is allowed", func(t *testing.T) {
		refuel := &RefuelRecord{
			VehicleID:  uuid.New(),
			RefueledAt: date(2024, time.May, 30),
			Liters:     decimal.NewFromInt(42),
		}
		assert.Empty(t, RefuelReasons(refuel, now))
	})

	t.Run("violations aggregate", func(t *testing.T) {
		negative := decimal.NewFromInt(-5)
		refuel := &RefuelRecord{
			RefueledAt: date(2024, time.June, 15),
			Liters:     decimal.Zero,
			Cost:       &negative,
			Mileage:    intPtr(-1),
		}

		reasons := RefuelReasons(refuel, now)

		require.Len(t, reasons, 5)
		assert.Contains(t, reasons[0], "reference a vehicle")
		assert.Contains(t, reasons[1], "future")
		assert.Contains(t, reasons[2], "liters")
		assert.Contains(t, reasons[3], "cost")
		assert.Contains(t, reasons[4], "mileage")
	})
}

func TestCombineValidation(t *testing.T) {
	t.Run("nil errors combine to nil", func(t *testing.T) {
		assert.NoError(t, combineValidation(nil, nil))
	})

	t.Run("validation reasons merge", func(t *testing.T) {
		err := combineValidation(
			nil,
			apperrors.NewValidationError([]string{"first"}),
			apperrors.NewValidationError([]string{"second", "third"}),
		)

		require.Error(t, err)
		require.True(t, apperrors.IsValidation(err))
		assert.Equal(t, []string{"first", "second", "third"}, apperrors.ValidationReasons(err))
	})
}
