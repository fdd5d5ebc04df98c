// Package store implements durable job storage and the dispatch
// protocol: the Job table and the one operation that makes the
// scheduler correct, atomic claim.
package store

import (
	"time"

	"github.com/joseph-ayodele/ocr-service/constants"
)

// Job is the sole persisted entity.
type Job struct {
	ID              string
	Status          constants.JobStatus
	DocumentType    string
	Email           string
	CallbackWebhook *string
	FileData        []byte
	FileName        string
	MimeType        string
	OCRResult       *string
	ErrorMessage    *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	ProcessedAt     *time.Time
}

// CreateFields are the caller-supplied fields of a new job; the store
// assigns ID, Status=PENDING, CreatedAt, UpdatedAt.
type CreateFields struct {
	DocumentType    string
	Email           string
	CallbackWebhook *string
	FileData        []byte
	FileName        string
	MimeType        string
}

// IsStuck reports whether a PROCESSING job's updatedAt predates now by
// more than threshold.
func (j Job) IsStuck(now time.Time, threshold time.Duration) bool {
	return j.Status == constants.JobStatusProcessing && now.Sub(j.UpdatedAt) > threshold
}
