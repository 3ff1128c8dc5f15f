package api

import (
	"net/http"

	"github.com/content-modeling-api/internal/models"
	"github.com/content-modeling-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// EntryHandler handles entry, bulk and scheduling endpoints
type EntryHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewEntryHandler creates a new EntryHandler
func NewEntryHandler(services *service.Services, log zerolog.Logger) *EntryHandler {
	return &EntryHandler{
		services: services,
		log:      log.With().Str("handler", "entry").Logger(),
	}
}

// List handles GET /v1/content-types/:id/entries?page=&page_size=&status=
func (h *EntryHandler) List(c *gin.Context) {
	req := models.ListEntriesRequest{
		Page:     queryInt(c, "page"),
		PageSize: queryInt(c, "page_size"),
		Status:   models.EntryStatus(c.Query("status")),
	}

	page, err := h.services.Entry.List(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Create handles POST /v1/content-types/:id/entries
func (h *EntryHandler) Create(c *gin.Context) {
	var req models.CreateEntryRequest
	if !bindJSON(c, &req) {
		return
	}

	entry, err := h.services.Entry.Create(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// Get handles GET /v1/entries/:id
func (h *EntryHandler) Get(c *gin.Context) {
	entry, err := h.services.Entry.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// Update handles PATCH /v1/entries/:id
func (h *EntryHandler) Update(c *gin.Context) {
	var req models.UpdateEntryRequest
	if !bindJSON(c, &req) {
		return
	}

	entry, err := h.services.Entry.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// Delete handles DELETE /v1/entries/:id
func (h *EntryHandler) Delete(c *gin.Context) {
	if err := h.services.Entry.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Bulk handles POST /v1/content-types/:id/entries/bulk.
// Actions that need confirmation answer 428 until confirmed is true.
func (h *EntryHandler) Bulk(c *gin.Context) {
	var req service.BulkRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.services.Bulk.Execute(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	status := http.StatusOK
	if result.FailedID != "" {
		status = http.StatusMultiStatus
	}
	c.JSON(status, result)
}

// BulkActions handles GET /v1/bulk-actions
func (h *EntryHandler) BulkActions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"actions": h.services.Bulk.Actions()})
}

// PublishDue handles POST /v1/scheduler/run, promoting due entries immediately
func (h *EntryHandler) PublishDue(c *gin.Context) {
	n, err := h.services.Scheduler.PublishDue(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"published": n})
}
