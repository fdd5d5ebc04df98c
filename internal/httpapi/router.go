// Package httpapi assembles the gin router for the HTTP surface.
// Routes and status codes are contractual; everything else about the
// framing is this adapter's concern, kept out of the core packages.
package httpapi

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/joseph-ayodele/ocr-service/internal/httpapi/handlers"
	"github.com/joseph-ayodele/ocr-service/internal/httpapi/middleware"
)

// NewRouter builds the engine with the shared middleware stack and
// every route registered against h.
func NewRouter(h *handlers.Handler, logger *slog.Logger) *gin.Engine {
	if logger == nil {
		logger = slog.Default()
	}
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.AccessLog(logger))

	api := r.Group("/api")
	{
		api.POST("/upload", h.Upload)
		api.GET("/status/:id", h.Status)
		api.GET("/openapi", h.OpenAPI)

		admin := api.Group("/admin")
		{
			admin.GET("/stats", h.AdminStats)
			admin.GET("/jobs", h.AdminListJobs)
			admin.GET("/jobs/:id", h.AdminGetJob)
			admin.DELETE("/jobs/:id", h.AdminDeleteJob)
			admin.PATCH("/jobs/:id", h.AdminPatchJob)
		}
	}

	return r
}
