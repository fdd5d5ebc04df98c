package store

import (
	"context"
	"time"

	"github.com/joseph-ayodele/ocr-service/constants"
)

// StuckJob is the projection returned by the stuck-job query: enough
// to render in the admin stats view without shipping file bytes.
type StuckJob struct {
	ID        string
	FileName  string
	UpdatedAt time.Time
	StuckFor  time.Duration
}

// StatusCounts is the per-status tally for the admin stats view.
type StatusCounts map[constants.JobStatus]int64

// Store is the durable job table plus the dispatch primitive.
// All methods are safe for concurrent use by competing
// scheduler/worker processes.
type Store interface {
	CreateJob(ctx context.Context, fields CreateFields) (*Job, error)
	GetJob(ctx context.Context, id string) (*Job, error)
	ListJobs(ctx context.Context, status constants.JobStatus, limit, offset int) ([]*Job, int, error)
	CountByStatus(ctx context.Context) (StatusCounts, error)

	// ClaimOldestPending atomically selects the oldest PENDING row by
	// createdAt, transitions it to PROCESSING, and returns it. Returns
	// (nil, nil) when no PENDING row exists. At-most-one caller may
	// obtain a given row across concurrent callers.
	ClaimOldestPending(ctx context.Context) (*Job, error)

	// Finalize writes the terminal fields in one transaction. status
	// must be COMPLETED or FAILED.
	Finalize(ctx context.Context, id string, status constants.JobStatus, result, errMsg *string, now time.Time) error

	// ResetToPending is the admin reset: clears
	// errorMessage/processedAt and sets status=PENDING.
	ResetToPending(ctx context.Context, id string) (*Job, error)

	// SetStatus implements the admin PATCH's general status
	// transition, including FAILED with an explicit errorMessage.
	SetStatus(ctx context.Context, id string, status constants.JobStatus, errMsg *string, now time.Time) (*Job, error)

	// DeleteJob forbids deleting a PROCESSING row unless force=true.
	DeleteJob(ctx context.Context, id string, force bool) error

	// StuckJobs lists PROCESSING rows whose updatedAt predates now by
	// more than threshold. Read-only.
	StuckJobs(ctx context.Context, now time.Time, threshold time.Duration) ([]StuckJob, error)

	// AvgProcessingTime averages processedAt-createdAt over the last n
	// COMPLETED jobs.
	AvgProcessingTime(ctx context.Context, n int) (time.Duration, error)

	// CountLastHour counts jobs created within the last hour.
	CountLastHour(ctx context.Context, now time.Time) (int64, error)
}

// ErrDeleteForbidden is returned by DeleteJob when a PROCESSING row is
// deleted without force=true.
var ErrDeleteForbidden = errDeleteForbidden{}

type errDeleteForbidden struct{}

func (errDeleteForbidden) Error() string {
	return "cannot delete a PROCESSING job without force=true"
}
