package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVehicleApplyUpdate(t *testing.T) {
	mileage := 15000
	created := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	contract := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	existing := Vehicle{
		Plate:          "AB-123-CD",
		Make:           "Renault",
		Model:          "Kangoo",
		Status:         VehicleStatusAssigned,
		CurrentMileage: &mileage,
	}
	existing.CreatedAt = created

	payloadMileage := 0
	payload := Vehicle{
		Plate:             "EF-456-GH",
		Make:              "Peugeot",
		Model:             "Partner",
		Status:            VehicleStatusOutOfService,
		CurrentMileage:    &payloadMileage,
		ContractStartDate: &contract,
	}

	existing.ApplyUpdate(&payload)

	assert.Equal(t, "EF-456-GH", existing.Plate)
	assert.Equal(t, "Peugeot", existing.Make)
	assert.Equal(t, "Partner", existing.Model)
	assert.Equal(t, &contract, existing.ContractStartDate)

	// Derived state never comes from a payload.
	assert.Equal(t, VehicleStatusAssigned, existing.Status)
	require.NotNil(t, existing.CurrentMileage)
	assert.Equal(t, 15000, *existing.CurrentMileage)
	assert.Equal(t, created, existing.CreatedAt)
}

func TestVehicleApplyUpdateKeepsPlateWhenOmitted(t *testing.T) {
	existing := Vehicle{Plate: "AB-123-CD", Status: VehicleStatusInService}

	existing.ApplyUpdate(&Vehicle{Make: "Renault"})

	assert.Equal(t, "AB-123-CD", existing.Plate)
	assert.Equal(t, "Renault", existing.Make)
}
