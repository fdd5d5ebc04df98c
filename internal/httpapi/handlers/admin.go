package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/joseph-ayodele/ocr-service/constants"
	"github.com/joseph-ayodele/ocr-service/internal/store"
)

// AdminStats implements GET /api/admin/stats: counts per status,
// last-hour volume, the stuck-job list, and average processing time
// over the last 100 completed jobs.
func (h *Handler) AdminStats(c *gin.Context) {
	ctx := c.Request.Context()
	now := time.Now().UTC()

	counts, err := h.Store.CountByStatus(ctx)
	if err != nil {
		h.internalError(c, "count by status", err)
		return
	}
	lastHour, err := h.Store.CountLastHour(ctx, now)
	if err != nil {
		h.internalError(c, "count last hour", err)
		return
	}
	stuck, err := h.Store.StuckJobs(ctx, now, h.StuckAfter)
	if err != nil {
		h.internalError(c, "stuck jobs", err)
		return
	}
	avgProcessing, err := h.Store.AvgProcessingTime(ctx, 100)
	if err != nil {
		h.internalError(c, "avg processing time", err)
		return
	}

	stuckOut := make([]gin.H, 0, len(stuck))
	for _, s := range stuck {
		stuckOut = append(stuckOut, gin.H{
			"id":        s.ID,
			"fileName":  s.FileName,
			"updatedAt": s.UpdatedAt,
			"stuckFor":  s.StuckFor.String(),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"counts": gin.H{
			"pending":    counts[constants.JobStatusPending],
			"processing": counts[constants.JobStatusProcessing],
			"completed":  counts[constants.JobStatusCompleted],
			"failed":     counts[constants.JobStatusFailed],
		},
		"lastHourCount":       lastHour,
		"stuckJobs":           stuckOut,
		"avgProcessingTimeMs": avgProcessing.Milliseconds(),
	})
}

// AdminListJobs implements GET /api/admin/jobs?status=&limit=&offset=:
// a newest-first page with per-job derived fields.
func (h *Handler) AdminListJobs(c *gin.Context) {
	ctx := c.Request.Context()
	status := constants.JobStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status filter"})
		return
	}
	limit := queryInt(c, "limit", 20)
	offset := queryInt(c, "offset", 0)

	jobs, total, err := h.Store.ListJobs(ctx, status, limit, offset)
	if err != nil {
		h.internalError(c, "list jobs", err)
		return
	}

	now := time.Now().UTC()
	out := make([]gin.H, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, jobSummary(j, now, h.StuckAfter))
	}

	c.JSON(http.StatusOK, gin.H{
		"jobs":    out,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
		"hasMore": offset+len(jobs) < total,
	})
}

// AdminGetJob implements GET /api/admin/jobs/{id}: a single job,
// including the byte size of the stored file but never the bytes
// themselves.
func (h *Handler) AdminGetJob(c *gin.Context) {
	id := c.Param("id")
	job, err := h.Store.GetJob(c.Request.Context(), id)
	if err != nil {
		h.internalError(c, "get job", err)
		return
	}
	if job == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}

	resp := gin.H{
		"id":              job.ID,
		"status":          job.Status,
		"documentType":    job.DocumentType,
		"email":           job.Email,
		"callbackWebhook": job.CallbackWebhook,
		"fileName":        job.FileName,
		"mimeType":        job.MimeType,
		"fileSizeBytes":   len(job.FileData),
		"createdAt":       job.CreatedAt,
		"updatedAt":       job.UpdatedAt,
	}
	if job.OCRResult != nil {
		resp["ocrResult"] = *job.OCRResult
	}
	if job.ErrorMessage != nil {
		resp["errorMessage"] = *job.ErrorMessage
	}
	if job.ProcessedAt != nil {
		resp["processedAt"] = *job.ProcessedAt
	}
	c.JSON(http.StatusOK, resp)
}

// AdminDeleteJob implements DELETE /api/admin/jobs/{id}?force=,
// rejecting deletion of a PROCESSING row unless force=true.
func (h *Handler) AdminDeleteJob(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	force, _ := strconv.ParseBool(c.Query("force"))

	job, err := h.Store.GetJob(ctx, id)
	if err != nil {
		h.internalError(c, "get job", err)
		return
	}
	if job == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}

	if err := h.Store.DeleteJob(ctx, id, force); err != nil {
		if err == store.ErrDeleteForbidden {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cannot delete a job that is PROCESSING without force=true"})
			return
		}
		h.internalError(c, "delete job", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "job deleted", "id": id})
}

type patchJobRequest struct {
	Status       string  `json:"status"`
	ErrorMessage *string `json:"errorMessage"`
}

// AdminPatchJob implements PATCH /api/admin/jobs/{id}: the
// administrative override of job status. status=PENDING is the
// stuck-job reset (clears errorMessage/processedAt); status=FAILED
// with errorMessage stamps processedAt=now.
func (h *Handler) AdminPatchJob(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	var req patchJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	status := constants.JobStatus(req.Status)
	if !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	var job *store.Job
	var err error
	switch status {
	case constants.JobStatusPending:
		job, err = h.Store.ResetToPending(ctx, id)
	default:
		now := time.Now().UTC()
		job, err = h.Store.SetStatus(ctx, id, status, req.ErrorMessage, now)
	}
	if err != nil {
		h.internalError(c, "patch job", err)
		return
	}
	if job == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"job": jobSummary(job, time.Now().UTC(), h.StuckAfter)})
}

func jobSummary(j *store.Job, now time.Time, stuckAfter time.Duration) gin.H {
	out := gin.H{
		"id":           j.ID,
		"status":       j.Status,
		"documentType": j.DocumentType,
		"email":        j.Email,
		"fileName":     j.FileName,
		"createdAt":    j.CreatedAt,
		"updatedAt":    j.UpdatedAt,
		"isStuck":      j.IsStuck(now, stuckAfter),
		"age":          now.Sub(j.CreatedAt).String(),
	}
	if j.ProcessedAt != nil {
		out["processingTime"] = j.ProcessedAt.Sub(j.CreatedAt).String()
		out["processedAt"] = *j.ProcessedAt
	}
	if j.ErrorMessage != nil {
		out["errorMessage"] = *j.ErrorMessage
	}
	return out
}

func queryInt(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}

func (h *Handler) internalError(c *gin.Context, op string, err error) {
	h.Logger.Error(op+" failed", "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
