package report

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/reportd/reportd/internal/shared/response"
)

// Handler exposes the report API.
type Handler struct {
	service *Service
	version string
}

// NewHandler creates a report handler.
func NewHandler(service *Service, version string) *Handler {
	return &Handler{
		service: service,
		version: version,
	}
}

// RegisterRoutes registers report routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.PUT("/run", h.Generate)
	r.GET("/run", h.Fetch)
	r.GET("/cache", h.CacheInfo)
	r.GET("/test", h.Test)
}

// Generate handles report generation requests.
// PUT /api/report/run
func (h *Handler) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body: "+err.Error())
		return
	}

	result, err := h.service.Generate(c.Request.Context(), &req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	if result.Async() {
		// The designer expects a plain "key:<key>" body
		c.Header("X-Report-Key", result.Key)
		c.Data(http.StatusOK, "text/plain", []byte("key:"+result.Key))
		return
	}

	if result.Format == FormatXLSX {
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", downloadName(result.Format)))
	}
	c.Data(http.StatusOK, result.Format.ContentType(), result.Payload)
}

// Fetch handles artifact downloads by key.
// GET /api/report/run?key=<key>&outputFormat=pdf|xlsx
func (h *Handler) Fetch(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		response.ErrorWithCode(c, http.StatusBadRequest, "VALIDATION_ERROR", "no report key provided")
		return
	}

	payload, format, err := h.service.Fetch(c.Request.Context(), key)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	// A requested format must match what was stored; artifacts are bytes
	// only and cannot be re-rendered here.
	if want := c.Query("outputFormat"); want != "" {
		requested, ok := ParseFormat(want)
		if !ok {
			response.ErrorWithCode(c, http.StatusBadRequest, "UNSUPPORTED_FORMAT", "unsupported output format: "+want)
			return
		}
		if requested != format {
			response.ErrorWithCode(c, http.StatusBadRequest, "VALIDATION_ERROR",
				fmt.Sprintf("artifact is %s, not %s", format, requested))
			return
		}
	}

	if format == FormatXLSX {
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", downloadName(format)))
	}
	c.Data(http.StatusOK, format.ContentType(), payload)
}

// CacheInfo handles cache diagnostics requests.
// GET /api/report/cache
func (h *Handler) CacheInfo(c *gin.Context) {
	info, err := h.service.CacheInfo(c.Request.Context())
	if err != nil {
		response.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// Test handles connectivity checks.
// GET /api/report/test
func (h *Handler) Test(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": h.version,
	})
}

// downloadName builds a timestamped download filename.
func downloadName(format OutputFormat) string {
	return fmt.Sprintf("report_%s.%s", time.Now().UTC().Format("20060102_150405"), format)
}
