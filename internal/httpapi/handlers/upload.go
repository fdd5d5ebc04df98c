package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/joseph-ayodele/ocr-service/internal/common"
	"github.com/joseph-ayodele/ocr-service/internal/store"
	"github.com/joseph-ayodele/ocr-service/internal/validator"
)

type uploadResponse struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

type validationDetail struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func respondValidationFailed(c *gin.Context, details []validationDetail) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": details})
}

// Upload implements POST /api/upload: multipart file + metadata in,
// a PENDING job id out. Field-level checks run first, then the
// byte-level file gate; the first failure wins and the job is never
// created.
func (h *Handler) Upload(c *gin.Context) {
	documentType := c.PostForm("documentType")
	email := c.PostForm("email")
	callback := c.PostForm("callbackWebhook")

	v := common.NewValidator()
	v.Field("documentType", documentType, common.Required)
	v.Field("email", email, common.Required, common.Email)
	if v.HasErrors() {
		respondValidationFailed(c, toDetails(v.Errors()))
		return
	}

	if callback != "" {
		if err := validator.ValidateWebhookURL(callback); err != nil {
			respondValidationFailed(c, []validationDetail{{Path: "callbackWebhook", Message: appErrMessage(err)}})
			return
		}
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondValidationFailed(c, []validationDetail{{Path: "file", Message: "is required"}})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read uploaded file"})
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read uploaded file"})
		return
	}

	outcome, err := validator.Validate(data, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		respondValidationFailed(c, []validationDetail{{Path: "file", Message: appErrMessage(err)}})
		return
	}
	for _, w := range outcome.Warnings {
		h.Logger.Warn("upload validation warning", "file_name", fileHeader.Filename, "warning", w)
	}

	var cbPtr *string
	if callback != "" {
		cbPtr = &callback
	}

	job, err := h.Store.CreateJob(c.Request.Context(), store.CreateFields{
		DocumentType:    documentType,
		Email:           email,
		CallbackWebhook: cbPtr,
		FileData:        outcome.Sanitized,
		FileName:        fileHeader.Filename,
		MimeType:        outcome.DetectedMime,
	})
	if err != nil {
		h.Logger.Error("create job failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusCreated, uploadResponse{
		ID:      job.ID,
		Status:  string(job.Status),
		Message: "File uploaded successfully, processing has started",
	})
}

func toDetails(errs []common.ValidationError) []validationDetail {
	out := make([]validationDetail, 0, len(errs))
	for _, e := range errs {
		out = append(out, validationDetail{Path: e.Field, Message: e.Message})
	}
	return out
}

// appErrMessage prefers an AppError's human-readable Message over
// its wrapped Error() chain for the surfaced response text.
func appErrMessage(err error) string {
	var ae *common.AppError
	if errors.As(err, &ae) {
		return ae.Message
	}
	return err.Error()
}
