package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionAssignment(t *testing.T) {
	testCases := []struct {
		from    AssignmentStatus
		to      AssignmentStatus
		allowed bool
	}{
		{AssignmentStatusOpen, AssignmentStatusAssigned, true},
		{AssignmentStatusBooked, AssignmentStatusAssigned, true},
		{AssignmentStatusAssigned, AssignmentStatusReturned, true},
		{AssignmentStatusAssigned, AssignmentStatusClosed, true},
		{AssignmentStatusReturned, AssignmentStatusAssigned, false},
		{AssignmentStatusClosed, AssignmentStatusAssigned, false},
		{AssignmentStatusReturned, AssignmentStatusClosed, false},
		{AssignmentStatusOpen, AssignmentStatusReturned, false},
		{AssignmentStatusAssigned, AssignmentStatusAssigned, true},
	}

	for _, tc := range testCases {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			assert.Equal(t, tc.allowed, CanTransitionAssignment(tc.from, tc.to))
		})
	}
}

func TestAssignmentTransitionSetsEndDate(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	assignment := &Assignment{Status: AssignmentStatusAssigned}

	err := assignment.Transition(AssignmentStatusReturned, now)

	assert.NoError(t, err)
	assert.Equal(t, AssignmentStatusReturned, assignment.Status)
	if assert.NotNil(t, assignment.EndDate) {
		assert.Equal(t, now, *assignment.EndDate)
	}
}

func TestAssignmentTransitionKeepsExistingEndDate(t *testing.T) {
	end := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)
	assignment := &Assignment{Status: AssignmentStatusAssigned, EndDate: &end}

	err := assignment.Transition(AssignmentStatusReturned, end.AddDate(0, 0, 5))

	assert.NoError(t, err)
	assert.Equal(t, end, *assignment.EndDate)
}

func TestAssignmentTransitionRejectsTerminal(t *testing.T) {
	assignment := &Assignment{Status: AssignmentStatusReturned}

	err := assignment.Transition(AssignmentStatusAssigned, time.Now())

	assert.Error(t, err)
	assert.Equal(t, AssignmentStatusReturned, assignment.Status)
}

func TestAssignmentIsActiveAt(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -10)
	future := now.AddDate(0, 0, 10)

	t.Run("open ended assignment is active", func(t *testing.T) {
		a := &Assignment{Status: AssignmentStatusAssigned, StartDate: past}
		assert.True(t, a.IsActiveAt(now))
	})

	t.Run("end date in future is active", func(t *testing.T) {
		a := &Assignment{Status: AssignmentStatusAssigned, StartDate: past, EndDate: &future}
		assert.True(t, a.IsActiveAt(now))
	})

	t.Run("end date in past is not active", func(t *testing.T) {
		a := &Assignment{Status: AssignmentStatusAssigned, StartDate: past.AddDate(0, -1, 0), EndDate: &past}
		assert.False(t, a.IsActiveAt(now))
	})

	t.Run("returned assignment is never active", func(t *testing.T) {
		a := &Assignment{Status: AssignmentStatusReturned, StartDate: past}
		assert.False(t, a.IsActiveAt(now))
	})

	t.Run("end date exactly now is still active", func(t *testing.T) {
		a := &Assignment{Status: AssignmentStatusAssigned, StartDate: past, EndDate: &now}
		assert.True(t, a.IsActiveAt(now))
	})
}

func TestBookingIsActiveAt(t *testing.T) {
	start := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 10, 17, 0, 0, 0, time.UTC)

	booking := &VehicleBooking{StartsAt: start, EndsAt: end, Status: BookingStatusPlanned}

	assert.True(t, booking.IsActiveAt(start))
	assert.True(t, booking.IsActiveAt(start.Add(4*time.Hour)))
	assert.False(t, booking.IsActiveAt(end), "half-open interval excludes the end instant")
	assert.False(t, booking.IsActiveAt(start.Add(-time.Minute)))

	booking.Status = BookingStatusCancelled
	assert.False(t, booking.IsActiveAt(start.Add(time.Hour)))
}
