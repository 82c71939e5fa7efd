package services

import (
	"testing"
	"time"

	. "fleetdesk/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestComputeDueSchedule_OrdinaryService(t *testing.T) {
	taskType := &TaskType{
		Code:           TaskTypeCodeOrdinaryService,
		MonthsInterval: intPtr(12),
		KmInterval:     intPtr(20000),
	}

	schedule := ComputeDueSchedule(taskType, date(2023, time.January, 1), intPtr(0))

	require.NotNil(t, schedule.DueDate)
	require.NotNil(t, schedule.DueMileage)
	assert.Equal(t, date(2024, time.January, 1), *schedule.DueDate)
	assert.Equal(t, 20000, *schedule.DueMileage)
}

func TestComputeDueSchedule_OrdinaryServiceDefaults(t *testing.T) {
	// No intervals on the catalog entry falls back to 12 months and the
	// default kilometer interval.
	taskType := &TaskType{Code: TaskTypeCodeOrdinaryService}

	schedule := ComputeDueSchedule(taskType, date(2023, time.June, 15), intPtr(48500))

	require.NotNil(t, schedule.DueDate)
	require.NotNil(t, schedule.DueMileage)
	assert.Equal(t, date(2024, time.June, 15), *schedule.DueDate)
	assert.Equal(t, 48500+DefaultServiceKmInterval, *schedule.DueMileage)
}

func TestComputeDueSchedule_OrdinaryServiceNilMileage(t *testing.T) {
	taskType := &TaskType{Code: TaskTypeCodeOrdinaryService, KmInterval: intPtr(15000)}

	schedule := ComputeDueSchedule(taskType, date(2023, time.January, 1), nil)

	require.NotNil(t, schedule.DueMileage)
	assert.Equal(t, 15000, *schedule.DueMileage)
}

func TestComputeDueSchedule_LegalRevision(t *testing.T) {
	taskType := &TaskType{Code: TaskTypeCodeLegalRevision}

	schedule := ComputeDueSchedule(taskType, date(2023, time.March, 10), intPtr(50000))

	require.NotNil(t, schedule.DueDate)
	assert.Equal(t, date(2027, time.March, 10), *schedule.DueDate)
	assert.Nil(t, schedule.DueMileage, "legal revision has no mileage component")
}

func TestComputeDueSchedule_Seasonal(t *testing.T) {
	tests := []struct {
		name      string
		code      string
		reference time.Time
		expected  time.Time
	}{
		{
			name:      "summer tyres before April 15 stays this year",
			code:      TaskTypeCodeSummerTyres,
			reference: date(2024, time.February, 1),
			expected:  date(2024, time.April, 15),
		},
		{
			name:      "summer tyres after April 15 rolls to next year",
			code:      TaskTypeCodeSummerTyres,
			reference: date(2024, time.June, 1),
			expected:  date(2025, time.April, 15),
		},
		{
			name:      "summer tyres exactly on April 15 stays",
			code:      TaskTypeCodeSummerTyres,
			reference: date(2024, time.April, 15),
			expected:  date(2024, time.April, 15),
		},
		{
			name:      "winter tyres before November 15 stays this year",
			code:      TaskTypeCodeWinterTyres,
			reference: date(2024, time.September, 1),
			expected:  date(2024, time.November, 15),
		},
		{
			name:      "winter tyres in December rolls to next year",
			code:      TaskTypeCodeWinterTyres,
			reference: date(2024, time.December, 1),
			expected:  date(2025, time.November, 15),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schedule := ComputeDueSchedule(&TaskType{Code: tt.code}, tt.reference, nil)

			require.NotNil(t, schedule.DueDate)
			assert.Equal(t, tt.expected, *schedule.DueDate)
			assert.Nil(t, schedule.DueMileage)
		})
	}
}

func TestComputeDueSchedule_Generic(t *testing.T) {
	t.Run("both intervals set", func(t *testing.T) {
		taskType := &TaskType{
			Code:           "BRAKE_INSPECTION",
			MonthsInterval: intPtr(6),
			KmInterval:     intPtr(10000),
		}

		schedule := ComputeDueSchedule(taskType, date(2024, time.January, 31), intPtr(30000))

		require.NotNil(t, schedule.DueDate)
		require.NotNil(t, schedule.DueMileage)
		assert.Equal(t, date(2024, time.July, 31), *schedule.DueDate)
		assert.Equal(t, 40000, *schedule.DueMileage)
	})

	t.Run("no intervals yields no due components", func(t *testing.T) {
		schedule := ComputeDueSchedule(&TaskType{Code: "AD_HOC"}, date(2024, time.January, 1), intPtr(1000))

		assert.Nil(t, schedule.DueDate)
		assert.Nil(t, schedule.DueMileage)
	})

	t.Run("month arithmetic clamps to end of month", func(t *testing.T) {
		taskType := &TaskType{Code: "FILTER_CHANGE", MonthsInterval: intPtr(1)}

		schedule := ComputeDueSchedule(taskType, date(2024, time.January, 31), nil)

		require.NotNil(t, schedule.DueDate)
		assert.Equal(t, date(2024, time.February, 29), *schedule.DueDate)
	})
}
