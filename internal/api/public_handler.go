package api

import (
	"net/http"

	"github.com/content-modeling-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// PublicHandler serves rendered entries
type PublicHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewPublicHandler creates a new PublicHandler
func NewPublicHandler(services *service.Services, log zerolog.Logger) *PublicHandler {
	return &PublicHandler{
		services: services,
		log:      log.With().Str("handler", "public").Logger(),
	}
}

// List handles GET /v1/public/:type_slug
func (h *PublicHandler) List(c *gin.Context) {
	page, err := h.services.Render.ListPublished(c.Request.Context(), c.Param("type_slug"), queryInt(c, "page"), queryInt(c, "page_size"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Get handles GET /v1/public/:type_slug/:entry_slug
func (h *PublicHandler) Get(c *gin.Context) {
	entry, err := h.services.Render.GetPublished(c.Request.Context(), c.Param("type_slug"), c.Param("entry_slug"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// Preview handles GET /v1/entries/:id/preview
func (h *PublicHandler) Preview(c *gin.Context) {
	entry, err := h.services.Render.Preview(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}
