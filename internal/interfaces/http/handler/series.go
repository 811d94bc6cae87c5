package handler

import (
	ledgerapp "github.com/financas/backend/internal/application/ledger"
	"github.com/financas/backend/internal/domain/ledger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SeriesHandler handles recurring and installment series API endpoints
type SeriesHandler struct {
	BaseHandler
	service *ledgerapp.SeriesService
}

// NewSeriesHandler creates a new SeriesHandler
func NewSeriesHandler(service *ledgerapp.SeriesService) *SeriesHandler {
	return &SeriesHandler{service: service}
}

// RegisterRoutes registers the series routes
func (h *SeriesHandler) RegisterRoutes(rg *gin.RouterGroup) {
	series := rg.Group("/series")
	series.POST("/recurring", h.CreateRecurring)
	series.POST("/installments", h.CreateInstallments)
	series.PUT("/movements/:id", h.UpdateScoped)
	series.DELETE("/movements/:id", h.DeleteScoped)
}

// scopedDeleteRequest selects the series members affected by a delete
type scopedDeleteRequest struct {
	Scope string `form:"scope" binding:"required,oneof=ATUAL FUTUROS TODOS"`
}

// CreateRecurring creates the occurrences of a recurring series
func (h *SeriesHandler) CreateRecurring(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user")
		return
	}

	var req ledgerapp.CreateRecurringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	movements, err := h.service.CreateRecurring(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, movements)
}

// CreateInstallments creates the parcels of an installment purchase on a card
func (h *SeriesHandler) CreateInstallments(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user")
		return
	}

	var req ledgerapp.CreateInstallmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	movements, err := h.service.CreateInstallments(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, movements)
}

// UpdateScoped edits a series member and, depending on the scope, its siblings
func (h *SeriesHandler) UpdateScoped(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user")
		return
	}

	movementID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid movement ID")
		return
	}

	var req ledgerapp.ScopedUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	movements, err := h.service.UpdateScoped(c.Request.Context(), userID, movementID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, movements)
}

// DeleteScoped removes the series members selected by the scope
func (h *SeriesHandler) DeleteScoped(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user")
		return
	}

	movementID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid movement ID")
		return
	}

	var req scopedDeleteRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.service.DeleteScoped(c.Request.Context(), userID, movementID, ledger.Scope(req.Scope)); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
