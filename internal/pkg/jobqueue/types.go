package jobqueue

import (
	"encoding/json"
	"time"
)

// JobType defines the type of job
type JobType string

const (
	JobTypeCRMPush     JobType = "crm_push"
	JobTypeCRMPull     JobType = "crm_pull"
	JobTypeCRMFullSync JobType = "crm_full_sync"
)

// JobStatus defines the status of a job
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
	JobStatusRetrying   JobStatus = "retrying"
)

// Job represents a background job
type Job struct {
	ID          string                 `json:"id"`
	Type        JobType                `json:"type"`
	Status      JobStatus              `json:"status"`
	Payload     map[string]interface{} `json:"payload"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
	ProcessedAt *time.Time             `json:"processed_at,omitempty"`
	CompletedAt *time.Time             `json:"completed_at,omitempty"`
	ErrorMsg    string                 `json:"error_msg,omitempty"`
	RetryCount  int                    `json:"retry_count"`
	MaxRetries  int                    `json:"max_retries"`
}

// CRMPushJobPayload contains the payload for a single-record CRM push
type CRMPushJobPayload struct {
	Table   string `json:"table"`
	LocalID uint   `json:"local_id"`
}

// ToMap converts the payload to a map for storage
func (p CRMPushJobPayload) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"table":    p.Table,
		"local_id": p.LocalID,
	}
}

// CRMPushJobPayloadFromMap creates a payload from a map
func CRMPushJobPayloadFromMap(data map[string]interface{}) (*CRMPushJobPayload, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var payload CRMPushJobPayload
	err = json.Unmarshal(jsonData, &payload)
	return &payload, err
}

// CRMPullJobPayload contains the payload for pulling one table from the CRM
type CRMPullJobPayload struct {
	Table string `json:"table"`
}

// ToMap converts the payload to a map for storage
func (p CRMPullJobPayload) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"table": p.Table,
	}
}

// CRMPullJobPayloadFromMap creates a payload from a map
func CRMPullJobPayloadFromMap(data map[string]interface{}) (*CRMPullJobPayload, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var payload CRMPullJobPayload
	err = json.Unmarshal(jsonData, &payload)
	return &payload, err
}

// IsRetryable checks if the job can be retried
func (j *Job) IsRetryable() bool {
	return j.Status == JobStatusFailed && j.RetryCount < j.MaxRetries
}

// MarkAsProcessing updates the job status to processing
func (j *Job) MarkAsProcessing() {
	now := time.Now()
	j.Status = JobStatusProcessing
	j.UpdatedAt = now
	j.ProcessedAt = &now
}

// MarkAsCompleted updates the job status to completed
func (j *Job) MarkAsCompleted() {
	now := time.Now()
	j.Status = JobStatusCompleted
	j.UpdatedAt = now
	j.CompletedAt = &now
	j.ErrorMsg = ""
}

// MarkAsFailed updates the job status to failed
func (j *Job) MarkAsFailed(errorMsg string) {
	j.Status = JobStatusFailed
	j.UpdatedAt = time.Now()
	j.ErrorMsg = errorMsg
	j.RetryCount++
}

// MarkAsRetrying updates the job status to retrying
func (j *Job) MarkAsRetrying() {
	j.Status = JobStatusRetrying
	j.UpdatedAt = time.Now()
}
