package repository

import (
	"gorm.io/gorm"

	"github.com/estatepilot/estatepilot/app/models"
)

// trackingEventRepository implements the TrackingEventRepository interface
type trackingEventRepository struct {
	db *gorm.DB
}

// NewTrackingEventRepository creates a new tracking event repository instance
func NewTrackingEventRepository(db *gorm.DB) TrackingEventRepository {
	return &trackingEventRepository{db: db}
}

// Create persists a tracking event
func (r *trackingEventRepository) Create(event *models.TrackingEvent) error {
	return r.db.Create(event).Error
}

// List retrieves a paginated list of events, newest first, optionally
// filtered by source
func (r *trackingEventRepository) List(source string, offset, limit int) ([]models.TrackingEvent, error) {
	var events []models.TrackingEvent
	query := r.db.Order("created_at DESC").Offset(offset).Limit(limit)
	if source != "" {
		query = query.Where("source = ?", source)
	}
	err := query.Find(&events).Error
	return events, err
}
