package services

import (
	"testing"
	"time"

	"fleetdesk/internal/apperrors"
	. "fleetdesk/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestResolveMileageValue(t *testing.T) {
	predecessor := &MileageEntry{Mileage: 15000}

	tests := []struct {
		name        string
		requested   *int
		predecessor *MileageEntry
		expected    int
	}{
		{
			name:        "explicit value wins",
			requested:   intPtr(15500),
			predecessor: predecessor,
			expected:    15500,
		},
		{
			name:        "nil carries predecessor forward",
			requested:   nil,
			predecessor: predecessor,
			expected:    15000,
		},
		{
			name:        "zero is treated as unset and carries forward",
			requested:   intPtr(0),
			predecessor: predecessor,
			expected:    15000,
		},
		{
			name:        "nil without predecessor resolves to zero",
			requested:   nil,
			predecessor: nil,
			expected:    0,
		},
		{
			name:        "zero without predecessor resolves to zero",
			requested:   intPtr(0),
			predecessor: nil,
			expected:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveMileageValue(tt.requested, tt.predecessor))
		})
	}
}

func TestValidateMileageBounds(t *testing.T) {
	vehicleID := uuid.New()
	january1 := &MileageEntry{
		Mileage:    10000,
		ObservedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	january31 := &MileageEntry{
		Mileage:    15000,
		ObservedAt: time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name        string
		resolved    int
		predecessor *MileageEntry
		successor   *MileageEntry
		wantErr     bool
	}{
		{
			name:        "value between neighbors is accepted",
			resolved:    12000,
			predecessor: january1,
			successor:   january31,
			wantErr:     false,
		},
		{
			name:        "value below predecessor is rejected",
			resolved:    9000,
			predecessor: january1,
			successor:   january31,
			wantErr:     true,
		},
		{
			name:        "backdated value above successor is rejected",
			resolved:    20000,
			predecessor: january1,
			successor:   january31,
			wantErr:     true,
		},
		{
			name:      "value above successor with no predecessor is rejected",
			resolved:  20000,
			successor: january31,
			wantErr:   true,
		},
		{
			name:        "latest entry has no successor bound",
			resolved:    20000,
			predecessor: january31,
			wantErr:     false,
		},
		{
			name:     "empty ledger accepts any value",
			resolved: 5000,
			wantErr:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMileageBounds(vehicleID, tt.resolved, tt.predecessor, tt.successor)
			if tt.wantErr {
				assert.True(t, apperrors.IsMileageRegression(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDeriveVehicleStatus(t *testing.T) {
	now := time.Now()
	end := now.Add(24 * time.Hour)
	past := now.Add(-24 * time.Hour)

	tests := []struct {
		name       string
		assignment *Assignment
		expected   VehicleStatus
	}{
		{
			name:       "open ended assigned occupies the vehicle",
			assignment: &Assignment{Status: AssignmentStatusAssigned},
			expected:   VehicleStatusAssigned,
		},
		{
			name:       "future end date occupies the vehicle",
			assignment: &Assignment{Status: AssignmentStatusAssigned, EndDate: &end},
			expected:   VehicleStatusAssigned,
		},
		{
			name:       "expired assignment frees the vehicle",
			assignment: &Assignment{Status: AssignmentStatusAssigned, EndDate: &past},
			expected:   VehicleStatusInService,
		},
		{
			name:       "returned assignment frees the vehicle",
			assignment: &Assignment{Status: AssignmentStatusReturned},
			expected:   VehicleStatusInService,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DeriveVehicleStatus(tt.assignment, now))
		})
	}
}
