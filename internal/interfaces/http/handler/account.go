package handler

import (
	ledgerapp "github.com/financas/backend/internal/application/ledger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AccountHandler handles account related API endpoints
type AccountHandler struct {
	BaseHandler
	service *ledgerapp.AccountService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(service *ledgerapp.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

// RegisterRoutes registers the account routes
func (h *AccountHandler) RegisterRoutes(rg *gin.RouterGroup) {
	accounts := rg.Group("/accounts")
	accounts.POST("", h.Create)
	accounts.GET("", h.List)
	accounts.GET("/:id", h.GetByID)
	accounts.PUT("/:id", h.Update)
	accounts.DELETE("/:id", h.Archive)
	accounts.POST("/:id/recompute-balance", h.RecomputeBalance)
}

// accountListFilter narrows account listings
type accountListFilter struct {
	ActiveOnly bool `form:"active_only"`
}

// Create creates a new account
func (h *AccountHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user")
		return
	}

	var req ledgerapp.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	account, err := h.service.CreateAccount(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, account)
}

// List lists the user's accounts
func (h *AccountHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user")
		return
	}

	var filter accountListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	accounts, err := h.service.ListAccounts(c.Request.Context(), userID, filter.ActiveOnly)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, accounts)
}

// GetByID gets an account by ID
func (h *AccountHandler) GetByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user")
		return
	}

	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	account, err := h.service.GetAccountByID(c.Request.Context(), userID, accountID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, account)
}

// Update updates an account's display fields
func (h *AccountHandler) Update(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user")
		return
	}

	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	var req ledgerapp.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	account, err := h.service.UpdateAccount(c.Request.Context(), userID, accountID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, account)
}

// Archive deactivates an account while keeping its history
func (h *AccountHandler) Archive(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user")
		return
	}

	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	if err := h.service.ArchiveAccount(c.Request.Context(), userID, accountID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// RecomputeBalance rebuilds the account's running balance from its movements
func (h *AccountHandler) RecomputeBalance(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user")
		return
	}

	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	account, err := h.service.RecomputeBalance(c.Request.Context(), userID, accountID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, account)
}
