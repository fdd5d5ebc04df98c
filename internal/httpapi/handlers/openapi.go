package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// OpenAPI implements GET /api/openapi: an OpenAPI 3 document with
// servers[0] set to the request's own origin, so a client hitting a
// staging host gets back a spec that points at staging, not a
// hardcoded production URL.
func (h *Handler) OpenAPI(c *gin.Context) {
	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	origin := scheme + "://" + c.Request.Host

	c.JSON(http.StatusOK, gin.H{
		"openapi": "3.0.3",
		"info": gin.H{
			"title":       "OCR Service API",
			"version":     "1.0.0",
			"description": "Asynchronous document OCR service: submit a file, poll for a structured result.",
		},
		"servers": []gin.H{{"url": origin}},
		"paths": gin.H{
			"/api/upload": gin.H{
				"post": gin.H{
					"summary": "Submit a file for OCR processing",
					"requestBody": gin.H{
						"required": true,
						"content": gin.H{
							"multipart/form-data": gin.H{
								"schema": gin.H{
									"type": "object",
									"properties": gin.H{
										"file":            gin.H{"type": "string", "format": "binary"},
										"documentType":    gin.H{"type": "string"},
										"email":           gin.H{"type": "string", "format": "email"},
										"callbackWebhook": gin.H{"type": "string", "format": "uri"},
									},
									"required": []string{"file", "documentType", "email"},
								},
							},
						},
					},
					"responses": gin.H{
						"201": gin.H{"description": "Job created"},
						"400": gin.H{"description": "Validation failure"},
					},
				},
			},
			"/api/status/{id}": gin.H{
				"get": gin.H{
					"summary": "Retrieve a job's current status and result",
					"parameters": []gin.H{{
						"name": "id", "in": "path", "required": true,
						"schema": gin.H{"type": "string", "format": "uuid"},
					}},
					"responses": gin.H{
						"200": gin.H{"description": "Job found"},
						"400": gin.H{"description": "Malformed id"},
						"404": gin.H{"description": "Job not found"},
					},
				},
			},
			"/api/admin/stats": gin.H{
				"get": gin.H{"summary": "Aggregate job counts and stuck-job report", "responses": gin.H{"200": gin.H{"description": "OK"}}},
			},
			"/api/admin/jobs": gin.H{
				"get": gin.H{"summary": "Paged job list", "responses": gin.H{"200": gin.H{"description": "OK"}}},
			},
			"/api/admin/jobs/{id}": gin.H{
				"get":    gin.H{"summary": "Single job detail", "responses": gin.H{"200": gin.H{"description": "OK"}, "404": gin.H{"description": "Not found"}}},
				"delete": gin.H{"summary": "Delete a job", "responses": gin.H{"200": gin.H{"description": "Deleted"}, "400": gin.H{"description": "Processing without force"}, "404": gin.H{"description": "Not found"}}},
				"patch":  gin.H{"summary": "Administrative status override", "responses": gin.H{"200": gin.H{"description": "Updated"}, "400": gin.H{"description": "Invalid status"}}},
			},
		},
	})
}
