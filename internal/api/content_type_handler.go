package api

import (
	"net/http"

	"github.com/content-modeling-api/internal/models"
	"github.com/content-modeling-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ContentTypeHandler handles content type and field endpoints
type ContentTypeHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewContentTypeHandler creates a new ContentTypeHandler
func NewContentTypeHandler(services *service.Services, log zerolog.Logger) *ContentTypeHandler {
	return &ContentTypeHandler{
		services: services,
		log:      log.With().Str("handler", "content_type").Logger(),
	}
}

// List handles GET /v1/content-types
func (h *ContentTypeHandler) List(c *gin.Context) {
	types, err := h.services.ContentType.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"content_types": types})
}

// Create handles POST /v1/content-types
func (h *ContentTypeHandler) Create(c *gin.Context) {
	var req models.CreateContentTypeRequest
	if !bindJSON(c, &req) {
		return
	}

	ct, err := h.services.ContentType.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, ct)
}

// Get handles GET /v1/content-types/:id, or by slug with ?by=slug
func (h *ContentTypeHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	var (
		ct  *models.ContentType
		err error
	)
	if c.Query("by") == "slug" {
		ct, err = h.services.ContentType.GetBySlug(ctx, id)
	} else {
		ct, err = h.services.ContentType.Get(ctx, id)
	}
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, ct)
}

// Update handles PATCH /v1/content-types/:id
func (h *ContentTypeHandler) Update(c *gin.Context) {
	var req models.UpdateContentTypeRequest
	if !bindJSON(c, &req) {
		return
	}

	ct, err := h.services.ContentType.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, ct)
}

// Delete handles DELETE /v1/content-types/:id
func (h *ContentTypeHandler) Delete(c *gin.Context) {
	if err := h.services.ContentType.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddField handles POST /v1/content-types/:id/fields
func (h *ContentTypeHandler) AddField(c *gin.Context) {
	var req models.CreateContentFieldRequest
	if !bindJSON(c, &req) {
		return
	}

	field, err := h.services.Field.AddField(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, field)
}

// UpdateField handles PATCH /v1/content-types/:id/fields/:field_id
func (h *ContentTypeHandler) UpdateField(c *gin.Context) {
	var req models.UpdateContentFieldRequest
	if !bindJSON(c, &req) {
		return
	}

	field, err := h.services.Field.UpdateField(c.Request.Context(), c.Param("id"), c.Param("field_id"), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, field)
}

// DeleteField handles DELETE /v1/content-types/:id/fields/:field_id
func (h *ContentTypeHandler) DeleteField(c *gin.Context) {
	if err := h.services.Field.DeleteField(c.Request.Context(), c.Param("id"), c.Param("field_id")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
