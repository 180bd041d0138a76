package controllers

import (
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/estatepilot/estatepilot/app/models"
	"github.com/estatepilot/estatepilot/app/repository"
)

var (
	testDBOnce sync.Once
	testDB     *gorm.DB
	testDBErr  error
)

// setupTestFactory backs the global repository factory with an in-memory
// database. The factory is process-wide, so all handler tests share it.
func setupTestFactory(t *testing.T) *gorm.DB {
	t.Helper()
	testDBOnce.Do(func() {
		testDB, testDBErr = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Silent),
			TranslateError: true,
		})
		if testDBErr != nil {
			return
		}

		// Every pooled connection gets its own :memory: database; keep one.
		sqlDB, err := testDB.DB()
		if err != nil {
			testDBErr = err
			return
		}
		sqlDB.SetMaxOpenConns(1)

		testDBErr = testDB.AutoMigrate(
			&models.User{},
			&models.Subscription{},
			&models.Buyer{},
			&models.ContactRequest{},
			&models.Campaign{},
			&models.SyncMapping{},
			&models.TrackingEvent{},
		)
		if testDBErr != nil {
			return
		}
		repository.InitializeFactory(testDB)
	})
	require.NoError(t, testDBErr)
	return testDB
}
