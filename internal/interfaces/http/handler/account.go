package handler

import (
	"net/http"
	"time"

	ledgerapp "github.com/cashdesk/backend/internal/application/ledger"
	"github.com/cashdesk/backend/internal/application/report"
	"github.com/cashdesk/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AccountHandler handles account read endpoints and account statements
type AccountHandler struct {
	BaseHandler
	accounts       *ledgerapp.AccountService
	reconciliation *report.ReconciliationService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accounts *ledgerapp.AccountService, reconciliation *report.ReconciliationService) *AccountHandler {
	return &AccountHandler{
		accounts:       accounts,
		reconciliation: reconciliation,
	}
}

// ListAccounts returns every active account of the project
func (h *AccountHandler) ListAccounts(c *gin.Context) {
	projectID, ok := h.requireProject(c)
	if !ok {
		return
	}

	accounts, err := h.accounts.ListAccounts(c.Request.Context(), projectID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, accounts)
}

// GetAccount returns a single account by ID
func (h *AccountHandler) GetAccount(c *gin.Context) {
	projectID, ok := h.requireProject(c)
	if !ok {
		return
	}

	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidID, "Invalid account ID")
		return
	}

	account, err := h.accounts.GetAccount(c.Request.Context(), projectID, accountID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, account)
}

// GetStatement returns the account statement for a date range
func (h *AccountHandler) GetStatement(c *gin.Context) {
	projectID, ok := h.requireProject(c)
	if !ok {
		return
	}

	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidID, "Invalid account ID")
		return
	}

	start, err := time.Parse("2006-01-02", c.Query("start"))
	if err != nil {
		h.BadRequest(c, "start must be formatted as YYYY-MM-DD")
		return
	}
	end, err := time.Parse("2006-01-02", c.Query("end"))
	if err != nil {
		h.BadRequest(c, "end must be formatted as YYYY-MM-DD")
		return
	}
	if end.Before(start) {
		h.BadRequest(c, "end must not precede start")
		return
	}
	// Inclusive end of day
	end = end.Add(24*time.Hour - time.Second)

	statement, err := h.reconciliation.GetStatement(c.Request.Context(), projectID, accountID, start, end)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, statement)
}

// RegisterRoutes registers all account routes
func (h *AccountHandler) RegisterRoutes(rg *gin.RouterGroup) {
	accounts := rg.Group("/accounts")
	{
		accounts.GET("", h.ListAccounts)
		accounts.GET("/:id", h.GetAccount)
		accounts.GET("/:id/statement", h.GetStatement)
	}
}
