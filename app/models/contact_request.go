package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	CONTACT_CHANNEL_EMAIL    = "email"
	CONTACT_CHANNEL_PHONE    = "phone"
	CONTACT_CHANNEL_WHATSAPP = "whatsapp"
)

// ContactRequest records that a platform user requested an introduction to
// a buyer via a given channel. Each row counts toward the user's monthly
// contact quota and the buyer's contact cap.
type ContactRequest struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;index;uniqueIndex:ux_contact_requests_user_buyer,priority:1" json:"user_id"`
	BuyerID   uint           `gorm:"not null;index;uniqueIndex:ux_contact_requests_user_buyer,priority:2" json:"buyer_id"`
	Channel   string         `gorm:"type:varchar(20);not null" json:"channel"`
	Note      string         `gorm:"type:text" json:"note"`
	MonthKey  string         `gorm:"type:char(7);not null;index" json:"month_key"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// ContactMonthKey returns the quota accounting key ("2025-07") for a time.
func ContactMonthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// IsValidContactChannel reports whether the channel is one of the known
// introduction channels.
func IsValidContactChannel(channel string) bool {
	switch channel {
	case CONTACT_CHANNEL_EMAIL, CONTACT_CHANNEL_PHONE, CONTACT_CHANNEL_WHATSAPP:
		return true
	default:
		return false
	}
}
