package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/estatepilot/estatepilot/app/models"
	"github.com/estatepilot/estatepilot/internal/pkg/entitlements"
)

var (
	// ErrQuotaExceeded is returned when a user has used up their monthly
	// contact quota. No contact record is written.
	ErrQuotaExceeded = errors.New("monthly contact quota exceeded")
	// ErrBuyerCapReached is returned when the buyer already has the maximum
	// number of distinct contacts. No contact record is written.
	ErrBuyerCapReached = errors.New("buyer contact cap reached")
	// ErrAlreadyContacted is returned when the user already requested an
	// introduction to this buyer. Repeating the call yields the same error
	// and consumes no quota.
	ErrAlreadyContacted = errors.New("buyer already contacted by this user")
)

// contactRepository implements the ContactRepository interface
type contactRepository struct {
	db *gorm.DB
}

// NewContactRepository creates a new contact repository instance
func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

// RequestIntroduction records an introduction request. All checks and the
// buyer-cap increment run in one transaction; the cap itself is a single
// conditional UPDATE so two concurrent requests cannot both take the last
// slot. Rejections happen before any write.
func (r *contactRepository) RequestIntroduction(userID, buyerID uint, channel, note string, quota int, now time.Time) (*models.ContactRequest, error) {
	contact := &models.ContactRequest{
		UserID:   userID,
		BuyerID:  buyerID,
		Channel:  channel,
		Note:     note,
		MonthKey: models.ContactMonthKey(now),
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		// The cap counts distinct users; a repeat request from the same user
		// is rejected without consuming a slot.
		var repeat int64
		if err := tx.Model(&models.ContactRequest{}).
			Where("user_id = ? AND buyer_id = ?", userID, buyerID).
			Count(&repeat).Error; err != nil {
			return err
		}
		if repeat > 0 {
			return ErrAlreadyContacted
		}

		if quota != entitlements.UnlimitedQuota {
			var used int64
			if err := tx.Model(&models.ContactRequest{}).
				Where("user_id = ? AND month_key = ?", userID, contact.MonthKey).
				Count(&used).Error; err != nil {
				return err
			}
			if used >= int64(quota) {
				return ErrQuotaExceeded
			}
		}

		res := tx.Model(&models.Buyer{}).
			Where("id = ? AND contacts_count < ?", buyerID, models.MaxBuyerContacts).
			UpdateColumn("contacts_count", gorm.Expr("contacts_count + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrBuyerCapReached
		}

		return tx.Create(contact).Error
	})
	if err != nil {
		return nil, err
	}
	return contact, nil
}

// CountForUserMonth returns how many introductions the user requested in
// the given accounting month.
func (r *contactRepository) CountForUserMonth(userID uint, monthKey string) (int64, error) {
	var count int64
	err := r.db.Model(&models.ContactRequest{}).
		Where("user_id = ? AND month_key = ?", userID, monthKey).
		Count(&count).Error
	return count, err
}

// ListByUser retrieves a paginated list of the user's introduction requests
func (r *contactRepository) ListByUser(userID uint, offset, limit int) ([]models.ContactRequest, error) {
	var contacts []models.ContactRequest
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").Offset(offset).Limit(limit).
		Find(&contacts).Error
	return contacts, err
}
