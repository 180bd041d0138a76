package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/estatepilot/estatepilot/app/models"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByAPIKeyHash(hash string) (*models.User, error)
	Update(user *models.User) error
	Delete(id uint) error
	List(offset, limit int) ([]models.User, error)
	Count() (int64, error)
	GetActiveTier(userID uint) (string, error)
}

// BuyerRepository defines the interface for buyer-related database operations
type BuyerRepository interface {
	Create(buyer *models.Buyer) error
	GetByID(id uint) (*models.Buyer, error)
	GetByUUID(uuid string) (*models.Buyer, error)
	Update(buyer *models.Buyer) error
	Delete(id uint) error
	List(offset, limit int) ([]models.Buyer, error)
	Count() (int64, error)
}

// ContactRepository handles introduction requests and their quota/cap
// accounting.
type ContactRepository interface {
	RequestIntroduction(userID, buyerID uint, channel, note string, quota int, now time.Time) (*models.ContactRequest, error)
	CountForUserMonth(userID uint, monthKey string) (int64, error)
	ListByUser(userID uint, offset, limit int) ([]models.ContactRequest, error)
}

// CampaignRepository defines the interface for campaign operations
type CampaignRepository interface {
	Create(campaign *models.Campaign) error
	GetByID(id uint) (*models.Campaign, error)
	GetByUUID(uuid string) (*models.Campaign, error)
	GetByUserID(userID uint) ([]models.Campaign, error)
	Update(campaign *models.Campaign) error
	Delete(id uint) error
	List(offset, limit int) ([]models.Campaign, error)
}

// SyncMappingRepository manages the sidecar table linking local rows to
// external CRM records.
type SyncMappingRepository interface {
	GetByLocal(localTable string, localID uint) (*models.SyncMapping, error)
	GetByRemote(remoteTable, remoteID string) (*models.SyncMapping, error)
	Upsert(mapping *models.SyncMapping) error
	TouchSyncedAt(id uint, at time.Time) error
}

// TrackingEventRepository persists ingested tracking events
type TrackingEventRepository interface {
	Create(event *models.TrackingEvent) error
	List(source string, offset, limit int) ([]models.TrackingEvent, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	User        UserRepository
	Buyer       BuyerRepository
	Contact     ContactRepository
	Campaign    CampaignRepository
	SyncMapping SyncMappingRepository
	Tracking    TrackingEventRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:        NewUserRepository(db),
		Buyer:       NewBuyerRepository(db),
		Contact:     NewContactRepository(db),
		Campaign:    NewCampaignRepository(db),
		SyncMapping: NewSyncMappingRepository(db),
		Tracking:    NewTrackingEventRepository(db),
	}
}
