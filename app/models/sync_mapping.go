package models

import "time"

// SyncMapping links a local row to its record in the external CRM base.
// At most one mapping exists per (local_table, local_id); absence of a row
// means the record has never been synced.
type SyncMapping struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	LocalTable   string    `gorm:"type:varchar(100);not null;uniqueIndex:ux_sync_mappings_local,priority:1" json:"local_table"`
	LocalID      uint      `gorm:"not null;uniqueIndex:ux_sync_mappings_local,priority:2" json:"local_id"`
	RemoteTable  string    `gorm:"type:varchar(100);not null;index:idx_sync_mappings_remote,priority:1" json:"remote_table"`
	RemoteID     string    `gorm:"type:varchar(100);not null;index:idx_sync_mappings_remote,priority:2" json:"remote_id"`
	LastSyncedAt time.Time `gorm:"type:timestamp" json:"last_synced_at"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
