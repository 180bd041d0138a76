package airtable

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/estatepilot/estatepilot/app/models"
	"github.com/estatepilot/estatepilot/app/repository"
)

// ErrLocalRecordNotFound is returned by Push when the local row is missing.
var ErrLocalRecordNotFound = errors.New("sync: local record not found")

// ErrUnknownTable is returned for tables outside the sync allow-list.
var ErrUnknownTable = errors.New("sync: unknown table")

// TableResult counts per-record outcomes of a batch operation.
type TableResult struct {
	Success int `json:"success"`
	Errors  int `json:"errors"`
}

// Result aggregates per-table outcomes of a pull or full sync.
type Result map[string]*TableResult

// Syncer copies records between the local database and the external CRM
// base. It is a best-effort batch job: records are processed independently,
// a failure on one record never stops the next, there are no retries and no
// rollback, and concurrent edits on both sides resolve last-write-wins.
type Syncer struct {
	db       *gorm.DB
	client   *Client
	mappings repository.SyncMappingRepository
}

// NewSyncer creates a sync adapter.
func NewSyncer(db *gorm.DB, client *Client, mappings repository.SyncMappingRepository) *Syncer {
	return &Syncer{db: db, client: client, mappings: mappings}
}

// NewSyncerFromEnv creates a sync adapter with an env-configured client and
// the shared repository factory.
func NewSyncerFromEnv(db *gorm.DB) *Syncer {
	return NewSyncer(db, NewClientFromEnv(), repository.GetGlobalFactory().GetSyncMappingRepository())
}

// Push copies one local row to the CRM. An existing mapping means update,
// a missing mapping means create plus a new mapping row.
func (s *Syncer) Push(ctx context.Context, localTable string, localID uint) (*Record, error) {
	if !IsSyncedTable(localTable) {
		return nil, ErrUnknownTable
	}

	var row map[string]interface{}
	err := s.db.Table(localTable).Where("id = ?", localID).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLocalRecordNotFound
		}
		return nil, err
	}

	fields := ToRemoteFields(localTable, row)
	remoteTable := RemoteTableFor(localTable)

	mapping, err := s.mappings.GetByLocal(localTable, localID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	now := time.Now()
	if mapping != nil {
		record, err := s.client.UpdateRecord(ctx, remoteTable, mapping.RemoteID, fields)
		if err != nil {
			return nil, err
		}
		if err := s.mappings.TouchSyncedAt(mapping.ID, now); err != nil {
			return nil, err
		}
		return record, nil
	}

	record, err := s.client.CreateRecord(ctx, remoteTable, fields)
	if err != nil {
		return nil, err
	}
	err = s.mappings.Upsert(&models.SyncMapping{
		LocalTable:   localTable,
		LocalID:      localID,
		RemoteTable:  remoteTable,
		RemoteID:     record.ID,
		LastSyncedAt: now,
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// Pull copies all CRM records of one table into the local database. Mapped
// records update their local row, unmapped records insert a new row plus a
// mapping. Each record is processed independently.
func (s *Syncer) Pull(ctx context.Context, localTable string) (*TableResult, error) {
	if !IsSyncedTable(localTable) {
		return nil, ErrUnknownTable
	}

	remoteTable := RemoteTableFor(localTable)
	records, err := s.client.ListRecords(ctx, remoteTable)
	if err != nil {
		return nil, err
	}

	result := &TableResult{}
	now := time.Now()
	for _, record := range records {
		if err := s.pullRecord(localTable, remoteTable, record, now); err != nil {
			result.Errors++
			continue
		}
		result.Success++
	}
	return result, nil
}

func (s *Syncer) pullRecord(localTable, remoteTable string, record Record, now time.Time) error {
	columns := ToLocalColumns(localTable, record.Fields)
	if len(columns) == 0 {
		return fmt.Errorf("sync: record %s has no translatable fields", record.ID)
	}

	mapping, err := s.mappings.GetByRemote(remoteTable, record.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if mapping != nil {
		if err := s.db.Table(localTable).Where("id = ?", mapping.LocalID).Updates(columns).Error; err != nil {
			return err
		}
		return s.mappings.TouchSyncedAt(mapping.ID, now)
	}

	// New remote record: insert a local row and remember the linkage.
	if v, ok := columns["uuid"].(string); !ok || strings.TrimSpace(v) == "" {
		columns["uuid"] = uuid.NewString()
	}
	if err := s.db.Table(localTable).Create(&columns).Error; err != nil {
		return err
	}

	var ids []uint
	if err := s.db.Table(localTable).Where("uuid = ?", columns["uuid"]).Limit(1).Pluck("id", &ids).Error; err != nil {
		return err
	}
	if len(ids) == 0 {
		return fmt.Errorf("sync: inserted row for record %s not found", record.ID)
	}
	return s.mappings.Upsert(&models.SyncMapping{
		LocalTable:   localTable,
		LocalID:      ids[0],
		RemoteTable:  remoteTable,
		RemoteID:     record.ID,
		LastSyncedAt: now,
	})
}

// PullAll pulls every synced table and reports per-table counts.
func (s *Syncer) PullAll(ctx context.Context) (Result, error) {
	result := Result{}
	for _, table := range SyncedTables() {
		tr, err := s.Pull(ctx, table)
		if err != nil {
			// Table-level failures (client/config errors) count as one error
			// so the aggregate still reports every table.
			result[table] = &TableResult{Errors: 1}
			continue
		}
		result[table] = tr
	}
	return result, nil
}

// FullSync pushes every local row of every synced table, then pulls the
// remote state back. Per-record isolation applies throughout.
func (s *Syncer) FullSync(ctx context.Context) (Result, error) {
	result := Result{}
	for _, table := range SyncedTables() {
		tr := &TableResult{}
		var ids []uint
		if err := s.db.Table(table).Where("deleted_at IS NULL").Pluck("id", &ids).Error; err != nil {
			tr.Errors++
			result[table] = tr
			continue
		}
		for _, id := range ids {
			if _, err := s.Push(ctx, table, id); err != nil {
				tr.Errors++
				continue
			}
			tr.Success++
		}
		result[table] = tr
	}

	pulled, err := s.PullAll(ctx)
	if err != nil {
		return result, err
	}
	for table, tr := range pulled {
		if existing, ok := result[table]; ok {
			existing.Success += tr.Success
			existing.Errors += tr.Errors
		} else {
			result[table] = tr
		}
	}
	return result, nil
}
