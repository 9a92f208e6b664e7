package handler

import (
	"net/http"
	"time"

	ledgerapp "github.com/cashdesk/backend/internal/application/ledger"
	"github.com/cashdesk/backend/internal/domain/ledger"
	"github.com/cashdesk/backend/internal/interfaces/http/dto"
	"github.com/cashdesk/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// EntryHandler handles ledger entry API endpoints. The entry kind is part
// of the route; an unknown kind segment is rejected before any binding.
type EntryHandler struct {
	BaseHandler
	service *ledgerapp.EntryService
}

// NewEntryHandler creates a new EntryHandler
func NewEntryHandler(service *ledgerapp.EntryService) *EntryHandler {
	return &EntryHandler{service: service}
}

// EntryListQuery represents filter parameters for entry list requests
type EntryListQuery struct {
	AccountID       string `form:"account_id"`
	CompanyID       string `form:"company_id"`
	From            string `form:"from"`
	To              string `form:"to"`
	IncludeInactive bool   `form:"include_inactive"`
}

func parseKind(c *gin.Context) (ledger.EntryKind, bool) {
	kind, ok := ledger.ParseEntryKind(c.Param("kind"))
	return kind, ok
}

// ListEntries returns entries of one kind, filtered by the query parameters
func (h *EntryHandler) ListEntries(c *gin.Context) {
	projectID, ok := h.requireProject(c)
	if !ok {
		return
	}

	kind, ok := parseKind(c)
	if !ok {
		h.Error(c, http.StatusBadRequest, "INVALID_KIND", "Unknown entry kind")
		return
	}

	var query EntryListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := ledgerapp.EntryListFilter{
		Kind:            kind.String(),
		IncludeInactive: query.IncludeInactive,
	}
	if query.AccountID != "" {
		id, err := uuid.Parse(query.AccountID)
		if err != nil {
			h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidID, "Invalid account ID")
			return
		}
		filter.AccountID = &id
	}
	if query.CompanyID != "" {
		id, err := uuid.Parse(query.CompanyID)
		if err != nil {
			h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidID, "Invalid company ID")
			return
		}
		filter.CompanyID = &id
	}
	if query.From != "" {
		t, err := time.Parse("2006-01-02", query.From)
		if err != nil {
			h.BadRequest(c, "from must be formatted as YYYY-MM-DD")
			return
		}
		filter.From = &t
	}
	if query.To != "" {
		t, err := time.Parse("2006-01-02", query.To)
		if err != nil {
			h.BadRequest(c, "to must be formatted as YYYY-MM-DD")
			return
		}
		// Inclusive end of day
		t = t.Add(24*time.Hour - time.Second)
		filter.To = &t
	}

	entries, err := h.service.ListEntries(c.Request.Context(), projectID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, entries)
}

// GetEntry returns a single entry by kind and ID
func (h *EntryHandler) GetEntry(c *gin.Context) {
	projectID, ok := h.requireProject(c)
	if !ok {
		return
	}

	kind, ok := parseKind(c)
	if !ok {
		h.Error(c, http.StatusBadRequest, "INVALID_KIND", "Unknown entry kind")
		return
	}

	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidID, "Invalid entry ID")
		return
	}

	entry, err := h.service.GetEntry(c.Request.Context(), projectID, kind, entryID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, entry)
}

// CreateEntry creates a new entry of the kind in the route
func (h *EntryHandler) CreateEntry(c *gin.Context) {
	projectID, ok := h.requireProject(c)
	if !ok {
		return
	}

	kind, ok := parseKind(c)
	if !ok {
		h.Error(c, http.StatusBadRequest, "INVALID_KIND", "Unknown entry kind")
		return
	}

	var req ledgerapp.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	entry, err := h.service.CreateEntry(c.Request.Context(), projectID, kind, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, entry)
}

// UpdateEntry applies a partial update to an entry
func (h *EntryHandler) UpdateEntry(c *gin.Context) {
	projectID, ok := h.requireProject(c)
	if !ok {
		return
	}

	kind, ok := parseKind(c)
	if !ok {
		h.Error(c, http.StatusBadRequest, "INVALID_KIND", "Unknown entry kind")
		return
	}

	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidID, "Invalid entry ID")
		return
	}

	var req ledgerapp.UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	entry, err := h.service.UpdateEntry(c.Request.Context(), projectID, kind, entryID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, entry)
}

// DeleteEntry soft-deletes an entry
func (h *EntryHandler) DeleteEntry(c *gin.Context) {
	projectID, ok := h.requireProject(c)
	if !ok {
		return
	}

	kind, ok := parseKind(c)
	if !ok {
		h.Error(c, http.StatusBadRequest, "INVALID_KIND", "Unknown entry kind")
		return
	}

	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidID, "Invalid entry ID")
		return
	}

	if err := h.service.DeleteEntry(c.Request.Context(), projectID, kind, entryID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, nil)
}

// RegisterRoutes registers all entry routes
func (h *EntryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	entries := rg.Group("/entries/:kind")
	{
		entries.GET("", h.ListEntries)
		entries.POST("", h.CreateEntry)
		entries.GET("/:id", h.GetEntry)
		entries.PUT("/:id", h.UpdateEntry)
		entries.DELETE("/:id", h.DeleteEntry)
	}
}
