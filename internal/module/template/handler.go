package template

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reportd/reportd/internal/shared/response"
)

// Handler handles HTTP requests for report templates.
type Handler struct {
	repo Repository
}

// NewHandler creates a new template handler.
func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// RegisterRoutes registers the template routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	templates := r.Group("/templates")
	{
		templates.POST("", h.Create)
		templates.GET("", h.List)
		templates.GET("/:id", h.Get)
		templates.PUT("/:id", h.Update)
		templates.DELETE("/:id", h.Delete)
	}
}

// templateRequest is the create/update payload.
type templateRequest struct {
	Name       string          `json:"name" binding:"required"`
	Definition json.RawMessage `json:"definition" binding:"required"`
	Tags       []string        `json:"tags"`
}

// Create stores a new template.
func (h *Handler) Create(c *gin.Context) {
	var req templateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	tpl := &Template{
		Name:       req.Name,
		Definition: string(req.Definition),
		Tags:       req.Tags,
	}
	if err := h.repo.Create(c.Request.Context(), tpl); err != nil {
		response.InternalError(c, "failed to create template")
		return
	}

	c.JSON(http.StatusCreated, tpl)
}

// List returns all templates.
func (h *Handler) List(c *gin.Context) {
	templates, err := h.repo.List(c.Request.Context())
	if err != nil {
		response.InternalError(c, "failed to list templates")
		return
	}
	c.JSON(http.StatusOK, gin.H{"templates": templates})
}

// Get returns one template by id.
func (h *Handler) Get(c *gin.Context) {
	tpl, err := h.repo.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrTemplateNotFound) {
			response.NotFound(c, "template not found")
			return
		}
		response.InternalError(c, "failed to get template")
		return
	}
	c.JSON(http.StatusOK, tpl)
}

// Update replaces a template's name, definition and tags.
func (h *Handler) Update(c *gin.Context) {
	var req templateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	tpl := &Template{
		ID:         c.Param("id"),
		Name:       req.Name,
		Definition: string(req.Definition),
		Tags:       req.Tags,
	}
	if err := h.repo.Update(c.Request.Context(), tpl); err != nil {
		if errors.Is(err, ErrTemplateNotFound) {
			response.NotFound(c, "template not found")
			return
		}
		response.InternalError(c, "failed to update template")
		return
	}
	c.JSON(http.StatusOK, tpl)
}

// Delete removes a template.
func (h *Handler) Delete(c *gin.Context) {
	if err := h.repo.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, ErrTemplateNotFound) {
			response.NotFound(c, "template not found")
			return
		}
		response.InternalError(c, "failed to delete template")
		return
	}
	c.Status(http.StatusNoContent)
}
