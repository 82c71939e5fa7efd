package repositories

import (
	"fleetdesk/internal/database"
)

type Repository struct {
	Vehicle     VehicleRepository
	Employment  EmploymentRepository
	TaskType    TaskTypeRepository
	VehicleTask VehicleTaskRepository
	Mileage     MileageEntryRepository
	Assignment  AssignmentRepository
	Booking     BookingRepository
	Refuel      RefuelRepository
	Maintenance MaintenanceRepository
}

func New(db database.DB) Repository {
	return Repository{
		Vehicle:     NewVehicleRepository(db.Cache.Fleet), // vehicle snapshots are cached
		Employment:  NewEmploymentRepository(),
		TaskType:    NewTaskTypeRepository(),
		VehicleTask: NewVehicleTaskRepository(),
		Mileage:     NewMileageEntryRepository(),
		Assignment:  NewAssignmentRepository(),
		Booking:     NewBookingRepository(db.Cache.Fleet),
		Refuel:      NewRefuelRepository(),
		Maintenance: NewMaintenanceRepository(),
	}
}
