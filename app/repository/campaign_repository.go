package repository

import (
	"gorm.io/gorm"

	"github.com/estatepilot/estatepilot/app/models"
)

// campaignRepository implements the CampaignRepository interface
type campaignRepository struct {
	db *gorm.DB
}

// NewCampaignRepository creates a new campaign repository instance
func NewCampaignRepository(db *gorm.DB) CampaignRepository {
	return &campaignRepository{db: db}
}

// Create creates a new campaign in the database
func (r *campaignRepository) Create(campaign *models.Campaign) error {
	return r.db.Create(campaign).Error
}

// GetByID retrieves a campaign by its ID
func (r *campaignRepository) GetByID(id uint) (*models.Campaign, error) {
	var campaign models.Campaign
	err := r.db.First(&campaign, id).Error
	if err != nil {
		return nil, err
	}
	return &campaign, nil
}

// GetByUUID retrieves a campaign by its public UUID
func (r *campaignRepository) GetByUUID(uuid string) (*models.Campaign, error) {
	var campaign models.Campaign
	err := r.db.Where("uuid = ?", uuid).First(&campaign).Error
	if err != nil {
		return nil, err
	}
	return &campaign, nil
}

// GetByUserID retrieves all campaigns for a user
func (r *campaignRepository) GetByUserID(userID uint) ([]models.Campaign, error) {
	var campaigns []models.Campaign
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&campaigns).Error
	return campaigns, err
}

// Update updates an existing campaign in the database
func (r *campaignRepository) Update(campaign *models.Campaign) error {
	return r.db.Save(campaign).Error
}

// Delete soft deletes a campaign by its ID
func (r *campaignRepository) Delete(id uint) error {
	return r.db.Delete(&models.Campaign{}, id).Error
}

// List retrieves a paginated list of campaigns
func (r *campaignRepository) List(offset, limit int) ([]models.Campaign, error) {
	var campaigns []models.Campaign
	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&campaigns).Error
	return campaigns, err
}
