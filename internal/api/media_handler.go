package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/content-modeling-api/internal/config"
	"github.com/content-modeling-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// MediaHandler handles media library endpoints
type MediaHandler struct {
	services *service.Services
	cfg      *config.Config
	log      zerolog.Logger
}

// NewMediaHandler creates a new MediaHandler
func NewMediaHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *MediaHandler {
	return &MediaHandler{
		services: services,
		cfg:      cfg,
		log:      log.With().Str("handler", "media").Logger(),
	}
}

// Upload handles POST /v1/media (multipart form with "file" and optional "alt_text")
func (h *MediaHandler) Upload(c *gin.Context) {
	if limit := h.cfg.Media.MaxUploadSize; limit > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file exceeds maximum upload size"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	defer file.Close()

	in := &service.UploadInput{
		Filename: header.Filename,
		MimeType: header.Header.Get("Content-Type"),
		Size:     header.Size,
		Body:     file,
	}
	if alt := c.PostForm("alt_text"); alt != "" {
		in.AltText = &alt
	}

	m, err := h.services.Media.Upload(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// List handles GET /v1/media?page=&page_size=
func (h *MediaHandler) List(c *gin.Context) {
	page, err := h.services.Media.List(c.Request.Context(), queryInt(c, "page"), queryInt(c, "page_size"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Get handles GET /v1/media/:id
func (h *MediaHandler) Get(c *gin.Context) {
	m, err := h.services.Media.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// Download handles GET /v1/media/:id/file, streaming the stored bytes
func (h *MediaHandler) Download(c *gin.Context) {
	m, rc, err := h.services.Media.Open(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	defer rc.Close()

	c.Header("Content-Type", m.MimeType)
	c.Header("Content-Disposition", "inline; filename=\""+m.Filename+"\"")
	if m.SizeBytes > 0 {
		c.Header("Content-Length", strconv.FormatInt(m.SizeBytes, 10))
	}
	c.Status(http.StatusOK)

	if _, err := io.Copy(c.Writer, rc); err != nil {
		h.log.Error().Err(err).Str("media_id", m.ID).Msg("Download interrupted")
	}
}

// Delete handles DELETE /v1/media/:id
func (h *MediaHandler) Delete(c *gin.Context) {
	if err := h.services.Media.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
