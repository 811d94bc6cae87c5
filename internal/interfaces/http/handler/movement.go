package handler

import (
	ledgerapp "github.com/financas/backend/internal/application/ledger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MovementHandler handles movement related API endpoints
type MovementHandler struct {
	BaseHandler
	service *ledgerapp.MovementService
}

// NewMovementHandler creates a new MovementHandler
func NewMovementHandler(service *ledgerapp.MovementService) *MovementHandler {
	return &MovementHandler{service: service}
}

// RegisterRoutes registers the movement routes
func (h *MovementHandler) RegisterRoutes(rg *gin.RouterGroup) {
	movements := rg.Group("/movements")
	movements.POST("", h.Create)
	movements.POST("/transfers", h.CreateTransfer)
	movements.GET("", h.List)
	movements.GET("/:id", h.GetByID)
	movements.PUT("/:id", h.Update)
	movements.DELETE("/:id", h.Delete)
	movements.POST("/:id/toggle-paid", h.TogglePaid)
}

// Create creates a single account- or card-funded movement
func (h *MovementHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user")
		return
	}

	var req ledgerapp.CreateMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	movement, err := h.service.CreateMovement(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, movement)
}

// CreateTransfer creates both legs of a transfer between accounts
func (h *MovementHandler) CreateTransfer(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user")
		return
	}

	var req ledgerapp.CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	legs, err := h.service.CreateTransfer(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, legs)
}

// List lists movements within a competence period
func (h *MovementHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user")
		return
	}

	var req ledgerapp.MovementListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	movements, err := h.service.ListMovements(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, movements)
}

// GetByID gets a movement by ID
func (h *MovementHandler) GetByID(c *gin.Context) {
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

	movement, err := h.service.GetMovementByID(c.Request.Context(), userID, movementID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, movement)
}

// Update edits a single movement
func (h *MovementHandler) Update(c *gin.Context) {
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

	var req ledgerapp.UpdateMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	movement, err := h.service.UpdateMovement(c.Request.Context(), userID, movementID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, movement)
}

// Delete removes a movement. Deleting one transfer leg removes both. A
// movement on a settled invoice is only removed with override=true.
func (h *MovementHandler) Delete(c *gin.Context) {
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

	override := c.Query("override") == "true"

	if err := h.service.DeleteMovement(c.Request.Context(), userID, movementID, override); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// TogglePaid flips an account-funded movement's paid flag. Card movements are
// settled through their invoice and are rejected here.
func (h *MovementHandler) TogglePaid(c *gin.Context) {
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

	movement, err := h.service.TogglePaid(c.Request.Context(), userID, movementID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, movement)
}
