package jobqueue

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2/log"

	"github.com/estatepilot/estatepilot/internal/pkg/airtable"
	"github.com/estatepilot/estatepilot/internal/pkg/database"
)

// newSyncer builds the CRM syncer for job processing. Overridable in tests.
var newSyncer = func() *airtable.Syncer {
	return airtable.NewSyncerFromEnv(database.GetDB())
}

// processCRMPushJob pushes a single local record to the CRM.
func (q *Queue) processCRMPushJob(ctx context.Context, job *Job) error {
	payload, err := CRMPushJobPayloadFromMap(job.Payload)
	if err != nil {
		return fmt.Errorf("invalid crm_push payload: %w", err)
	}
	if !airtable.IsSyncedTable(payload.Table) {
		return fmt.Errorf("table %q is not synced", payload.Table)
	}
	if payload.LocalID == 0 {
		return fmt.Errorf("crm_push payload missing local_id")
	}

	record, err := newSyncer().Push(ctx, payload.Table, payload.LocalID)
	if err != nil {
		return err
	}
	log.Infof("[JobQueue] Pushed %s/%d to CRM record %s", payload.Table, payload.LocalID, record.ID)
	return nil
}

// processCRMPullJob pulls one CRM table into the local store.
func (q *Queue) processCRMPullJob(ctx context.Context, job *Job) error {
	payload, err := CRMPullJobPayloadFromMap(job.Payload)
	if err != nil {
		return fmt.Errorf("invalid crm_pull payload: %w", err)
	}
	if !airtable.IsSyncedTable(payload.Table) {
		return fmt.Errorf("table %q is not synced", payload.Table)
	}

	result, err := newSyncer().Pull(ctx, payload.Table)
	if err != nil {
		return err
	}
	log.Infof("[JobQueue] Pulled %s from CRM: %d ok, %d failed", payload.Table, result.Success, result.Errors)
	return nil
}

// processCRMFullSyncJob runs a push-then-pull pass over every synced table.
// Per-record failures are reported, not fatal: the next scheduled run picks
// them up again.
func (q *Queue) processCRMFullSyncJob(ctx context.Context, job *Job) error {
	results, err := newSyncer().FullSync(ctx)
	if err != nil {
		return err
	}
	for table, result := range results {
		if result.Errors > 0 {
			log.Warnf("[JobQueue] Full sync %s: %d ok, %d failed", table, result.Success, result.Errors)
		} else {
			log.Infof("[JobQueue] Full sync %s: %d ok", table, result.Success)
		}
	}
	return nil
}
