package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/ocr-service/constants"
)

// Memory is an in-process Store used by package tests that exercise
// the scheduler/worker against the full Store interface without a
// database.
type Memory struct {
	mu   sync.Mutex
	jobs map[string]*Job
}

func NewMemory() *Memory {
	return &Memory{jobs: make(map[string]*Job)}
}

func cloneJob(j *Job) *Job {
	cp := *j
	return &cp
}

func (m *Memory) CreateJob(ctx context.Context, fields CreateFields) (*Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	j := &Job{
		ID:              uuid.NewString(),
		Status:          constants.JobStatusPending,
		DocumentType:    fields.DocumentType,
		Email:           fields.Email,
		CallbackWebhook: fields.CallbackWebhook,
		FileData:        fields.FileData,
		FileName:        fields.FileName,
		MimeType:        fields.MimeType,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	m.jobs[j.ID] = j
	return cloneJob(j), nil
}

func (m *Memory) GetJob(ctx context.Context, id string) (*Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[id]
	if !ok {
		return nil, nil
	}
	return cloneJob(j), nil
}

func (m *Memory) ListJobs(ctx context.Context, status constants.JobStatus, limit, offset int) ([]*Job, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []*Job
	for _, j := range m.jobs {
		if status == "" || j.Status == status {
			all = append(all, j)
		}
	}
	sort.Slice(all, func(i, k int) bool { return all[i].CreatedAt.After(all[k].CreatedAt) })
	total := len(all)
	if offset > len(all) {
		offset = len(all)
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	out := make([]*Job, len(all))
	for i, j := range all {
		out[i] = cloneJob(j)
	}
	return out, total, nil
}

func (m *Memory) CountByStatus(ctx context.Context) (StatusCounts, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := StatusCounts{}
	for _, j := range m.jobs {
		counts[j.Status]++
	}
	return counts, nil
}

func (m *Memory) ClaimOldestPending(ctx context.Context) (*Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var oldest *Job
	for _, j := range m.jobs {
		if j.Status != constants.JobStatusPending {
			continue
		}
		if oldest == nil || j.CreatedAt.Before(oldest.CreatedAt) {
			oldest = j
		}
	}
	if oldest == nil {
		return nil, nil
	}
	oldest.Status = constants.JobStatusProcessing
	oldest.UpdatedAt = time.Now().UTC()
	return cloneJob(oldest), nil
}

func (m *Memory) Finalize(ctx context.Context, id string, status constants.JobStatus, result, errMsg *string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[id]
	if !ok {
		return nil // tolerate a job deleted mid-flight
	}
	j.Status = status
	j.OCRResult = result
	j.ErrorMessage = errMsg
	j.ProcessedAt = &now
	j.UpdatedAt = now
	return nil
}

func (m *Memory) ResetToPending(ctx context.Context, id string) (*Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[id]
	if !ok {
		return nil, nil
	}
	j.Status = constants.JobStatusPending
	j.ErrorMessage = nil
	j.ProcessedAt = nil
	j.UpdatedAt = time.Now().UTC()
	return cloneJob(j), nil
}

// SetStatus implements the admin PATCH's general status transition.
// A FAILED transition carrying errMsg also stamps processedAt; other
// transitions leave processedAt untouched.
func (m *Memory) SetStatus(ctx context.Context, id string, status constants.JobStatus, errMsg *string, now time.Time) (*Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[id]
	if !ok {
		return nil, nil
	}
	j.Status = status
	j.ErrorMessage = errMsg
	j.UpdatedAt = now
	if status == constants.JobStatusFailed && errMsg != nil {
		j.ProcessedAt = &now
	}
	return cloneJob(j), nil
}

func (m *Memory) DeleteJob(ctx context.Context, id string, force bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[id]
	if !ok {
		return nil
	}
	if !force && j.Status == constants.JobStatusProcessing {
		return ErrDeleteForbidden
	}
	delete(m.jobs, id)
	return nil
}

func (m *Memory) StuckJobs(ctx context.Context, now time.Time, threshold time.Duration) ([]StuckJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []StuckJob
	for _, j := range m.jobs {
		if j.IsStuck(now, threshold) {
			out = append(out, StuckJob{ID: j.ID, FileName: j.FileName, UpdatedAt: j.UpdatedAt, StuckFor: now.Sub(j.UpdatedAt)})
		}
	}
	return out, nil
}

func (m *Memory) AvgProcessingTime(ctx context.Context, n int) (time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var completed []*Job
	for _, j := range m.jobs {
		if j.Status == constants.JobStatusCompleted && j.ProcessedAt != nil {
			completed = append(completed, j)
		}
	}
	sort.Slice(completed, func(i, k int) bool { return completed[i].ProcessedAt.After(*completed[k].ProcessedAt) })
	if len(completed) > n {
		completed = completed[:n]
	}
	if len(completed) == 0 {
		return 0, nil
	}
	var total time.Duration
	for _, j := range completed {
		total += j.ProcessedAt.Sub(j.CreatedAt)
	}
	return total / time.Duration(len(completed)), nil
}

func (m *Memory) CountLastHour(ctx context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, j := range m.jobs {
		if j.CreatedAt.After(now.Add(-time.Hour)) {
			n++
		}
	}
	return n, nil
}

var _ Store = (*Memory)(nil)
var _ Store = (*Postgres)(nil)
