package initialize

import (
	"fleetdesk/config"
	. "fleetdesk/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

func InitializeTables(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("InitializeTables")
	log.Info("Initializing essential production data")

	if err := initializeTaskTypes(db, log); err != nil {
		return log.Err("failed to initialize task types", err)
	}

	log.Info("Table initialization complete")
	return nil
}

func intPtr(v int) *int { return &v }

// getTaskTypesData returns the catalog every deployment starts with. The
// four auto types drive the scheduling families; codes are stable and used
// for family selection.
func getTaskTypesData() []TaskType {
	return []TaskType{
		{
			Code:           TaskTypeCodeOrdinaryService,
			Name:           "Ordinary service",
			DueByDate:      true,
			DueByMileage:   true,
			MonthsInterval: intPtr(12),
			KmInterval:     intPtr(DefaultServiceKmInterval),
			Auto:           true,
		},
		{
			Code:         TaskTypeCodeLegalRevision,
			Name:         "Legal revision",
			DueByDate:    true,
			DueByMileage: false,
			Auto:         true,
		},
		{
			Code:         TaskTypeCodeSummerTyres,
			Name:         "Summer tyre change",
			DueByDate:    true,
			DueByMileage: false,
			Auto:         true,
		},
		{
			Code:         TaskTypeCodeWinterTyres,
			Name:         "Winter tyre change",
			DueByDate:    true,
			DueByMileage: false,
			Auto:         true,
		},
	}
}

func initializeTaskTypes(db *gorm.DB, log logger.Logger) error {
	log.Info("Initializing task type catalog")

	taskTypes := getTaskTypesData()

	for _, taskType := range taskTypes {
		var existing TaskType
		if err := db.First(&existing, "code = ?", taskType.Code).Error; err == nil {
			log.Debug("Task type already exists", "code", taskType.Code)
			continue
		}
		log.Info("Initializing task type", "code", taskType.Code)
		if err := db.Create(&taskType).Error; err != nil {
			return log.Err("failed to create task type", err, "code", taskType.Code)
		}
	}

	log.Info("Task type catalog initialized", "count", len(taskTypes))
	return nil
}
