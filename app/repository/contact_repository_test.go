package repository

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/estatepilot/estatepilot/app/models"
	"github.com/estatepilot/estatepilot/internal/pkg/entitlements"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// Every pooled connection gets its own :memory: database; keep one.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Buyer{}, &models.ContactRequest{}))
	return db
}

func seedBuyer(t *testing.T, db *gorm.DB, uuid string) *models.Buyer {
	t.Helper()
	buyer := &models.Buyer{UUID: uuid, Name: "Ayesha Rahman", HasEmail: true}
	require.NoError(t, db.Create(buyer).Error)
	return buyer
}

func reloadBuyer(t *testing.T, db *gorm.DB, id uint) *models.Buyer {
	t.Helper()
	var buyer models.Buyer
	require.NoError(t, db.First(&buyer, id).Error)
	return &buyer
}

func TestRequestIntroductionQuotaRejectsWithoutWrite(t *testing.T) {
	db := newTestDB(t)
	repo := NewContactRepository(db)
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	quota := 2

	first := seedBuyer(t, db, "buyer-1")
	second := seedBuyer(t, db, "buyer-2")
	third := seedBuyer(t, db, "buyer-3")

	_, err := repo.RequestIntroduction(1, first.ID, "email", "", quota, now)
	require.NoError(t, err)
	_, err = repo.RequestIntroduction(1, second.ID, "email", "", quota, now)
	require.NoError(t, err)

	// At quota: the rejection writes nothing and repeats identically.
	for i := 0; i < 2; i++ {
		_, err = repo.RequestIntroduction(1, third.ID, "email", "", quota, now)
		assert.ErrorIs(t, err, ErrQuotaExceeded)
	}

	used, err := repo.CountForUserMonth(1, models.ContactMonthKey(now))
	require.NoError(t, err)
	assert.EqualValues(t, 2, used)
	assert.Equal(t, 0, reloadBuyer(t, db, third.ID).ContactsCount, "rejected request must not take a buyer slot")

	// The quota is per accounting month.
	_, err = repo.RequestIntroduction(1, third.ID, "email", "", quota, now.AddDate(0, 1, 0))
	require.NoError(t, err)
}

func TestRequestIntroductionBuyerCapOrderIndependent(t *testing.T) {
	db := newTestDB(t)
	repo := NewContactRepository(db)
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	buyer := seedBuyer(t, db, "buyer-cap")

	for user := uint(1); user <= uint(models.MaxBuyerContacts); user++ {
		_, err := repo.RequestIntroduction(user, buyer.ID, "email", "", 30, now)
		require.NoError(t, err)
	}

	// Every further distinct user is rejected, regardless of order.
	for _, user := range []uint{5, 6} {
		_, err := repo.RequestIntroduction(user, buyer.ID, "email", "", 30, now)
		assert.ErrorIs(t, err, ErrBuyerCapReached)
	}

	assert.Equal(t, models.MaxBuyerContacts, reloadBuyer(t, db, buyer.ID).ContactsCount)

	var rows int64
	require.NoError(t, db.Model(&models.ContactRequest{}).Where("buyer_id = ?", buyer.ID).Count(&rows).Error)
	assert.EqualValues(t, models.MaxBuyerContacts, rows, "rejected users must not leave contact rows")
}

func TestRequestIntroductionRepeatConsumesNothing(t *testing.T) {
	db := newTestDB(t)
	repo := NewContactRepository(db)
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	quota := 2

	first := seedBuyer(t, db, "buyer-1")
	second := seedBuyer(t, db, "buyer-2")

	_, err := repo.RequestIntroduction(1, first.ID, "email", "", quota, now)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err = repo.RequestIntroduction(1, first.ID, "whatsapp", "", quota, now)
		assert.ErrorIs(t, err, ErrAlreadyContacted)
	}

	assert.Equal(t, 1, reloadBuyer(t, db, first.ID).ContactsCount, "repeat must not consume a buyer slot")

	// The repeats consumed no quota: the second-to-last unit is still free.
	_, err = repo.RequestIntroduction(1, second.ID, "email", "", quota, now)
	require.NoError(t, err)
}

func TestRequestIntroductionUnlimitedQuotaSkipsMonthlyCheck(t *testing.T) {
	db := newTestDB(t)
	repo := NewContactRepository(db)
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

	for i, uuid := range []string{"buyer-1", "buyer-2", "buyer-3"} {
		buyer := seedBuyer(t, db, uuid)
		_, err := repo.RequestIntroduction(1, buyer.ID, "email", "", entitlements.UnlimitedQuota, now)
		require.NoError(t, err, "contact %d", i+1)
	}
}
