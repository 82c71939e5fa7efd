package database

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func openMockGorm(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

func TestInTransaction(t *testing.T) {
	db, mock := openMockGorm(t)

	assert.False(t, InTransaction(nil))
	assert.False(t, InTransaction(db))
	assert.False(t, InTransaction(db.WithContext(context.Background())))

	mock.ExpectBegin()
	tx := db.Begin()
	require.NoError(t, tx.Error)

	assert.True(t, InTransaction(tx))
	assert.True(t, InTransaction(tx.WithContext(context.Background())))

	mock.ExpectRollback()
	tx.Rollback()

	assert.NoError(t, mock.ExpectationsWereMet())
}
