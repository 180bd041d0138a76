package repository

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/estatepilot/estatepilot/app/models"
)

// syncMappingRepository implements the SyncMappingRepository interface
type syncMappingRepository struct {
	db *gorm.DB
}

// NewSyncMappingRepository creates a new sync mapping repository instance
func NewSyncMappingRepository(db *gorm.DB) SyncMappingRepository {
	return &syncMappingRepository{db: db}
}

// GetByLocal retrieves the mapping for a local row, if any
func (r *syncMappingRepository) GetByLocal(localTable string, localID uint) (*models.SyncMapping, error) {
	var mapping models.SyncMapping
	err := r.db.Where("local_table = ? AND local_id = ?", localTable, localID).First(&mapping).Error
	if err != nil {
		return nil, err
	}
	return &mapping, nil
}

// GetByRemote retrieves the mapping for an external record, if any
func (r *syncMappingRepository) GetByRemote(remoteTable, remoteID string) (*models.SyncMapping, error) {
	var mapping models.SyncMapping
	err := r.db.Where("remote_table = ? AND remote_id = ?", remoteTable, remoteID).First(&mapping).Error
	if err != nil {
		return nil, err
	}
	return &mapping, nil
}

// Upsert inserts the mapping or refreshes an existing row for the same
// (local_table, local_id) pair.
func (r *syncMappingRepository) Upsert(mapping *models.SyncMapping) error {
	if err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "local_table"},
			{Name: "local_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"remote_table",
			"remote_id",
			"last_synced_at",
			"updated_at",
		}),
	}).Create(mapping).Error; err != nil {
		return err
	}

	return r.db.Where("local_table = ? AND local_id = ?", mapping.LocalTable, mapping.LocalID).
		First(mapping).Error
}

// TouchSyncedAt refreshes the mapping's sync timestamp
func (r *syncMappingRepository) TouchSyncedAt(id uint, at time.Time) error {
	return r.db.Model(&models.SyncMapping{}).
		Where("id = ?", id).
		Update("last_synced_at", at).Error
}
