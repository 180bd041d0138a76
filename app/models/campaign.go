package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

const (
	CAMPAIGN_STATUS_DRAFT  = "draft"
	CAMPAIGN_STATUS_ACTIVE = "active"
	CAMPAIGN_STATUS_PAUSED = "paused"
	CAMPAIGN_STATUS_ENDED  = "ended"

	OBJECTIVE_LEAD_GENERATION = "lead_generation"
	OBJECTIVE_BRAND_AWARENESS = "brand_awareness"
	OBJECTIVE_CONVERSIONS     = "conversions"
)

// Campaign is a marketing campaign owned by a platform user. Campaigns are
// synced to the external CRM and provide context for AI recommendations.
type Campaign struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UUID        string         `gorm:"type:varchar(36);uniqueIndex" json:"uuid"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	Name        string         `gorm:"type:varchar(200)" json:"name" validate:"required,min=2,max=200"`
	Objective   string         `gorm:"type:varchar(50);default:'lead_generation'" json:"objective" validate:"oneof=lead_generation brand_awareness conversions"`
	Budget      float64        `gorm:"default:0" json:"budget" validate:"gte=0,lte=10000000"`
	DailyCap    float64        `gorm:"default:0" json:"daily_cap" validate:"gte=0"`
	TargetArea  string         `gorm:"type:varchar(200)" json:"target_area" validate:"max=200"`
	Status      string         `gorm:"type:varchar(20);default:'draft'" json:"status" validate:"oneof=draft active paused ended"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Campaign) Validate() error {
	v := validator.New()

	return v.Struct(c)
}
