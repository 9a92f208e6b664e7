package handler

import (
	ledgerapp "github.com/cashdesk/backend/internal/application/ledger"
	"github.com/cashdesk/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// SettingsHandler handles the per-project date-lock endpoints
type SettingsHandler struct {
	BaseHandler
	service *ledgerapp.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(service *ledgerapp.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: service}
}

// GetDateLock returns the current lock state and editable window
func (h *SettingsHandler) GetDateLock(c *gin.Context) {
	projectID, ok := h.requireProject(c)
	if !ok {
		return
	}

	resp, err := h.service.GetDateLock(c.Request.Context(), projectID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Unlock suspends the date lock until the requested instant
func (h *SettingsHandler) Unlock(c *gin.Context) {
	projectID, ok := h.requireProject(c)
	if !ok {
		return
	}

	var req ledgerapp.UnlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.service.Unlock(c.Request.Context(), projectID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Relock cancels a pending unlock
func (h *SettingsHandler) Relock(c *gin.Context) {
	projectID, ok := h.requireProject(c)
	if !ok {
		return
	}

	resp, err := h.service.Relock(c.Request.Context(), projectID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// UpdateWindow resizes the editable window
func (h *SettingsHandler) UpdateWindow(c *gin.Context) {
	projectID, ok := h.requireProject(c)
	if !ok {
		return
	}

	var req ledgerapp.UpdateWindowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.service.UpdateWindow(c.Request.Context(), projectID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// RegisterRoutes registers all settings routes
func (h *SettingsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	settings := rg.Group("/settings")
	{
		settings.GET("/date-lock", h.GetDateLock)
		settings.PUT("/date-lock", h.Unlock)
		settings.DELETE("/date-lock", h.Relock)
		settings.PUT("/date-lock/window", h.UpdateWindow)
	}
}
