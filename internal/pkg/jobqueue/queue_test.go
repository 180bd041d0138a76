package jobqueue

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/estatepilot/estatepilot/internal/pkg/cache"
)

func newTestQueue(t *testing.T) *Queue {
	t.Helper()
	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	return NewQueue(1)
}

func TestEnqueueAndDequeue(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()

	payload := CRMPushJobPayload{Table: "buyers", LocalID: 42}
	enqueued, err := q.EnqueueJob(JobTypeCRMPush, payload.ToMap())
	if err != nil {
		t.Fatalf("EnqueueJob: %v", err)
	}
	if enqueued.Status != JobStatusPending {
		t.Fatalf("expected pending status, got %s", enqueued.Status)
	}
	if enqueued.MaxRetries != CRMJobMaxRetries {
		t.Fatalf("expected max retries %d, got %d", CRMJobMaxRetries, enqueued.MaxRetries)
	}

	size, err := q.GetQueueSize(ctx)
	if err != nil || size != 1 {
		t.Fatalf("expected queue size 1, got %d (err %v)", size, err)
	}

	job, err := q.dequeueJob(ctx)
	if err != nil {
		t.Fatalf("dequeueJob: %v", err)
	}
	if job.ID != enqueued.ID {
		t.Fatalf("dequeued wrong job: %s != %s", job.ID, enqueued.ID)
	}
	if job.Type != JobTypeCRMPush {
		t.Fatalf("unexpected job type %s", job.Type)
	}

	// Dequeue moves the job to the processing list
	processing, err := q.GetProcessingSize(ctx)
	if err != nil || processing != 1 {
		t.Fatalf("expected processing size 1, got %d (err %v)", processing, err)
	}

	parsed, err := CRMPushJobPayloadFromMap(job.Payload)
	if err != nil {
		t.Fatalf("payload from map: %v", err)
	}
	if parsed.Table != "buyers" || parsed.LocalID != 42 {
		t.Fatalf("payload round trip mismatch: %+v", parsed)
	}
}

func TestGetJobAndStats(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()

	enqueued, err := q.EnqueueJob(JobTypeCRMFullSync, map[string]interface{}{})
	if err != nil {
		t.Fatalf("EnqueueJob: %v", err)
	}

	loaded, err := q.GetJob(ctx, enqueued.ID)
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if loaded.Type != JobTypeCRMFullSync {
		t.Fatalf("unexpected job type %s", loaded.Type)
	}

	stats, err := q.GetJobStats(ctx)
	if err != nil {
		t.Fatalf("GetJobStats: %v", err)
	}
	if stats[JobStatusPending] != 1 {
		t.Fatalf("expected 1 pending job in stats, got %d", stats[JobStatusPending])
	}
}

func TestCRMJobsAreSingleAttempt(t *testing.T) {
	job := &Job{Status: JobStatusPending, MaxRetries: CRMJobMaxRetries}

	job.MarkAsProcessing()
	if job.Status != JobStatusProcessing || job.ProcessedAt == nil {
		t.Fatalf("MarkAsProcessing did not update job: %+v", job)
	}

	job.MarkAsFailed("upstream down")
	if job.Status != JobStatusFailed || job.RetryCount != 1 {
		t.Fatalf("MarkAsFailed did not update job: %+v", job)
	}
	if job.IsRetryable() {
		t.Fatalf("CRM jobs must not retry; the next scheduled run is the retry")
	}
}

func TestMarkAsCompletedClearsError(t *testing.T) {
	job := &Job{Status: JobStatusProcessing, ErrorMsg: "transient"}
	job.MarkAsCompleted()
	if job.Status != JobStatusCompleted || job.ErrorMsg != "" || job.CompletedAt == nil {
		t.Fatalf("MarkAsCompleted did not update job: %+v", job)
	}
}
