package seed

import (
	"time"

	"fleetdesk/config"
	. "fleetdesk/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Seed loads a small development fleet: a couple of vehicles with mileage
// history, an employment with an open assignment and one booking.
func Seed(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("Seed")

	if config.Environment == "production" {
		return log.ErrMsg("refusing to seed a production database")
	}

	contractStart := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)
	insurance := time.Date(2027, time.June, 30, 0, 0, 0, 0, time.UTC)

	vehicles := []*Vehicle{
		{
			Plate:             "FD001AA",
			Status:            VehicleStatusInService,
			ContractStartDate: &contractStart,
			InsuranceExpiry:   &insurance,
		},
		{
			Plate:             "FD002BB",
			Status:            VehicleStatusInService,
			ContractStartDate: &contractStart,
			InsuranceExpiry:   &insurance,
		},
	}
	for _, vehicle := range vehicles {
		if err := db.Create(vehicle).Error; err != nil {
			return log.Err("failed to seed vehicle", err, "plate", vehicle.Plate)
		}
	}

	startDate := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	employment := &Employment{
		FirstName: "Dana",
		LastName:  "Rossi",
		Status:    EmploymentStatusActive,
		StartDate: &startDate,
	}
	if err := db.Create(employment).Error; err != nil {
		return log.Err("failed to seed employment", err)
	}

	assignment := &Assignment{
		EmploymentID: employment.ID,
		VehicleID:    vehicles[0].ID,
		StartDate:    startDate,
		Status:       AssignmentStatusAssigned,
	}
	if err := db.Create(assignment).Error; err != nil {
		return log.Err("failed to seed assignment", err)
	}
	if err := db.Model(vehicles[0]).Update("status", VehicleStatusAssigned).Error; err != nil {
		return log.Err("failed to mark seeded vehicle assigned", err)
	}

	liters := decimal.NewFromFloat(41.5)
	refuel := &RefuelRecord{
		VehicleID:  vehicles[0].ID,
		RefueledAt: startDate.AddDate(0, 1, 0),
		Liters:     liters,
		Mileage:    intPtr(15000),
	}
	if err := db.Create(refuel).Error; err != nil {
		return log.Err("failed to seed refuel", err)
	}

	entry := &MileageEntry{
		VehicleID:  vehicles[0].ID,
		Mileage:    15000,
		Source:     MileageSourceRefuel,
		SourceID:   refuel.ID,
		ObservedAt: refuel.RefueledAt,
	}
	if err := db.Create(entry).Error; err != nil {
		return log.Err("failed to seed mileage entry", err)
	}
	if err := db.Model(vehicles[0]).Update("current_mileage", entry.Mileage).Error; err != nil {
		return log.Err("failed to update seeded mileage", err)
	}

	booking := &VehicleBooking{
		VehicleID: vehicles[1].ID,
		StartsAt:  time.Now().AddDate(0, 0, 7),
		EndsAt:    time.Now().AddDate(0, 0, 8),
		Status:    BookingStatusPlanned,
	}
	if err := db.Create(booking).Error; err != nil {
		return log.Err("failed to seed booking", err)
	}

	log.Info("Seed complete",
		"vehicles", len(vehicles),
		"assignments", 1,
		"bookings", 1,
	)
	return nil
}

func intPtr(v int) *int { return &v }
