package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/joseph-ayodele/ocr-service/internal/common"
)

// Status implements GET /api/status/{id}: the client-facing
// poller's sole read. A poll may observe PENDING, PROCESSING,
// COMPLETED, or FAILED and nothing else.
func (h *Handler) Status(c *gin.Context) {
	id := c.Param("id")
	if !common.IsCanonicalUUID(id) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a canonical UUID"})
		return
	}

	job, err := h.Store.GetJob(c.Request.Context(), id)
	if err != nil {
		h.Logger.Error("get job failed", "job_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if job == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}

	resp := gin.H{
		"id":           job.ID,
		"status":       job.Status,
		"documentType": job.DocumentType,
		"email":        job.Email,
		"createdAt":    job.CreatedAt,
		"updatedAt":    job.UpdatedAt,
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
