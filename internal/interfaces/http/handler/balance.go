package handler

import (
	"time"

	ledgerapp "github.com/financas/backend/internal/application/ledger"
	"github.com/gin-gonic/gin"
)

// BalanceHandler handles balance aggregation API endpoints
type BalanceHandler struct {
	BaseHandler
	service *ledgerapp.BalanceService
}

// NewBalanceHandler creates a new BalanceHandler
func NewBalanceHandler(service *ledgerapp.BalanceService) *BalanceHandler {
	return &BalanceHandler{service: service}
}

// RegisterRoutes registers the balance routes
func (h *BalanceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	balances := rg.Group("/balances")
	balances.GET("/summary", h.GetSummary)
	balances.GET("/categories", h.GetCategoryTotals)
}

type categoryTotalsRequest struct {
	From time.Time `form:"from" binding:"required"`
	To   time.Time `form:"to" binding:"required"`
}

// GetSummary computes the daily real and projected balance series for a period
func (h *BalanceHandler) GetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user")
		return
	}

	var req ledgerapp.BalanceSummaryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	summary, err := h.service.GetBalanceSummary(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// GetCategoryTotals aggregates movement values per category within a period
func (h *BalanceHandler) GetCategoryTotals(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user")
		return
	}

	var req categoryTotalsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	totals, err := h.service.GetCategoryTotals(c.Request.Context(), userID, req.From, req.To)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, totals)
}
