package services

import (
	"fleetdesk/config"
	"fleetdesk/internal/database"
	"fleetdesk/internal/events"
	"fleetdesk/internal/repositories"
)

type Service struct {
	Transaction         *TransactionService
	Scheduler           *SchedulerService
	VehicleLocks        *VehicleLockService
	MileageLedger       *MileageLedgerService
	TaskScheduler       *TaskSchedulerService
	AvailabilityGuard   *AvailabilityGuardService
	AssignmentLifecycle *AssignmentLifecycleService
	BookingLifecycle    *BookingLifecycleService
	Vehicle             *VehicleService
	Employment          *EmploymentService
	Refuel              *RefuelService
	Maintenance         *MaintenanceService
}

func New(db database.DB, config config.Config, eventBus *events.EventBus) (Service, error) {
	transactionService := NewTransactionService(db)
	repos := repositories.New(db)

	schedulerService := NewSchedulerService()
	vehicleLockService := NewVehicleLockService()
	mileageLedgerService := NewMileageLedgerService(repos, eventBus)
	taskSchedulerService := NewTaskSchedulerService(repos, eventBus)
	availabilityGuardService := NewAvailabilityGuardService(repos)
	assignmentLifecycleService := NewAssignmentLifecycleService(
		db,
		repos,
		transactionService,
		vehicleLockService,
		availabilityGuardService,
		eventBus,
	)
	bookingLifecycleService := NewBookingLifecycleService(
		db,
		repos,
		transactionService,
		vehicleLockService,
		availabilityGuardService,
		eventBus,
	)
	vehicleService := NewVehicleService(
		db,
		repos,
		transactionService,
		vehicleLockService,
		mileageLedgerService,
		taskSchedulerService,
	)
	employmentService := NewEmploymentService(db, repos, transactionService, availabilityGuardService)
	refuelService := NewRefuelService(
		db,
		repos,
		transactionService,
		vehicleLockService,
		availabilityGuardService,
		mileageLedgerService,
	)
	maintenanceService := NewMaintenanceService(
		db,
		repos,
		transactionService,
		vehicleLockService,
		mileageLedgerService,
		taskSchedulerService,
	)

	return Service{
		Transaction:         transactionService,
		Scheduler:           schedulerService,
		VehicleLocks:        vehicleLockService,
		MileageLedger:       mileageLedgerService,
		TaskScheduler:       taskSchedulerService,
		AvailabilityGuard:   availabilityGuardService,
		AssignmentLifecycle: assignmentLifecycleService,
		BookingLifecycle:    bookingLifecycleService,
		Vehicle:             vehicleService,
		Employment:          employmentService,
		Refuel:              refuelService,
		Maintenance:         maintenanceService,
	}, nil
}
