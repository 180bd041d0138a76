package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

const (
	TIMELINE_28_DAYS  = "within_28_days"
	TIMELINE_0_3_MON  = "0_3_months"
	TIMELINE_3_6_MON  = "3_6_months"
	TIMELINE_FLEXIBLE = "flexible"

	PAYMENT_CASH     = "cash"
	PAYMENT_MORTGAGE = "mortgage"

	PURPOSE_INVESTMENT   = "investment"
	PURPOSE_PRIMARY_HOME = "primary_home"
	PURPOSE_FOR_CHILD    = "for_child"
	PURPOSE_HOLIDAY_HOME = "holiday_home"
)

// MaxBuyerContacts caps how many distinct platform users may request an
// introduction to the same buyer.
const MaxBuyerContacts = 4

// Buyer is a prospective property purchaser captured by an external lead
// source. Score and priority are derived on read and never persisted.
type Buyer struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	UUID             string         `gorm:"type:varchar(36);uniqueIndex" json:"uuid"`
	Name             string         `gorm:"type:varchar(150)" json:"name" validate:"required,min=2,max=150"`
	Location         string         `gorm:"type:varchar(200)" json:"location" validate:"max=200"`
	BudgetBucket     string         `gorm:"type:varchar(50)" json:"budget_bucket"`
	Bedrooms         string         `gorm:"type:varchar(20)" json:"bedrooms"`
	Timeline         string         `gorm:"type:varchar(50)" json:"timeline"`
	PaymentMethod    string         `gorm:"type:varchar(20)" json:"payment_method"`
	Purpose          string         `gorm:"type:varchar(30)" json:"purpose"`
	HasEmail         bool           `gorm:"default:false" json:"has_email"`
	HasPhone         bool           `gorm:"default:false" json:"has_phone"`
	HasWhatsApp      bool           `gorm:"default:false" json:"has_whatsapp"`
	ContactsCount    int            `gorm:"default:0" json:"contacts_count"`
	EngagementEvents int64          `gorm:"default:0" json:"engagement_events"`
	Source           string         `gorm:"type:varchar(50);default:''" json:"source"`
	CreatedAt        time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

func (b *Buyer) Validate() error {
	v := validator.New()

	return v.Struct(b)
}

// CanBeContacted reports whether the buyer has a free contact slot left.
// The authoritative check is the conditional update in the repository; this
// is only a cheap pre-check for read paths.
func (b *Buyer) CanBeContacted() bool {
	return b.ContactsCount < MaxBuyerContacts
}

// HasChannel reports whether the buyer can be reached on the given channel.
func (b *Buyer) HasChannel(channel string) bool {
	switch channel {
	case CONTACT_CHANNEL_EMAIL:
		return b.HasEmail
	case CONTACT_CHANNEL_PHONE:
		return b.HasPhone
	case CONTACT_CHANNEL_WHATSAPP:
		return b.HasWhatsApp
	default:
		return false
	}
}
