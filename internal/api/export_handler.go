package api

import (
	"github.com/content-modeling-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ExportHandler handles export endpoints
type ExportHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(services *service.Services, log zerolog.Logger) *ExportHandler {
	return &ExportHandler{
		services: services,
		log:      log.With().Str("handler", "export").Logger(),
	}
}

// StreamExport handles GET /v1/content-types/:id/export?format=...
// Streams the export directly to the response
func (h *ExportHandler) StreamExport(c *gin.Context) {
	typeID := c.Param("id")
	format := c.DefaultQuery("format", service.FormatNDJSON)

	h.log.Info().
		Str("content_type_id", typeID).
		Str("format", format).
		Msg("Starting streaming export")

	err := h.services.Export.StreamEntries(c.Request.Context(), c.Writer, typeID, format)
	if err == nil {
		return
	}
	if !c.Writer.Written() {
		respondError(c, h.log, err)
		return
	}
	// Can't return error JSON after streaming has started
	h.log.Error().Err(err).Str("content_type_id", typeID).Msg("Export failed")
}
