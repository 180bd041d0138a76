package repository

import (
	"gorm.io/gorm"

	"github.com/estatepilot/estatepilot/app/models"
)

// buyerRepository implements the BuyerRepository interface
type buyerRepository struct {
	db *gorm.DB
}

// NewBuyerRepository creates a new buyer repository instance
func NewBuyerRepository(db *gorm.DB) BuyerRepository {
	return &buyerRepository{db: db}
}

// Create creates a new buyer in the database
func (r *buyerRepository) Create(buyer *models.Buyer) error {
	return r.db.Create(buyer).Error
}

// GetByID retrieves a buyer by their ID
func (r *buyerRepository) GetByID(id uint) (*models.Buyer, error) {
	var buyer models.Buyer
	err := r.db.First(&buyer, id).Error
	if err != nil {
		return nil, err
	}
	return &buyer, nil
}

// GetByUUID retrieves a buyer by their public UUID
func (r *buyerRepository) GetByUUID(uuid string) (*models.Buyer, error) {
	var buyer models.Buyer
	err := r.db.Where("uuid = ?", uuid).First(&buyer).Error
	if err != nil {
		return nil, err
	}
	return &buyer, nil
}

// Update updates an existing buyer in the database
func (r *buyerRepository) Update(buyer *models.Buyer) error {
	return r.db.Save(buyer).Error
}

// Delete soft deletes a buyer by their ID
func (r *buyerRepository) Delete(id uint) error {
	return r.db.Delete(&models.Buyer{}, id).Error
}

// List retrieves a paginated list of buyers, newest first
func (r *buyerRepository) List(offset, limit int) ([]models.Buyer, error) {
	var buyers []models.Buyer
	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&buyers).Error
	return buyers, err
}

// Count returns the total number of buyers
func (r *buyerRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Buyer{}).Count(&count).Error
	return count, err
}
