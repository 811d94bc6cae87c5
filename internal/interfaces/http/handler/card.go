package handler

import (
	ledgerapp "github.com/financas/backend/internal/application/ledger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CardHandler handles credit card related API endpoints
type CardHandler struct {
	BaseHandler
	cards    *ledgerapp.CardService
	invoices *ledgerapp.InvoiceService
}

// NewCardHandler creates a new CardHandler
func NewCardHandler(cards *ledgerapp.CardService, invoices *ledgerapp.InvoiceService) *CardHandler {
	return &CardHandler{cards: cards, invoices: invoices}
}

// RegisterRoutes registers the card routes
func (h *CardHandler) RegisterRoutes(rg *gin.RouterGroup) {
	cards := rg.Group("/cards")
	cards.POST("", h.Create)
	cards.GET("", h.List)
	cards.GET("/:id", h.GetByID)
	cards.PUT("/:id", h.Update)
	cards.DELETE("/:id", h.Archive)
	cards.GET("/:id/invoices", h.ListInvoices)
	cards.POST("/:id/reconcile-limit", h.ReconcileLimit)
}

type cardListFilter struct {
	ActiveOnly bool `form:"active_only"`
}

// Create creates a new card
func (h *CardHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user")
		return
	}

	var req ledgerapp.CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	card, err := h.cards.CreateCard(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, card)
}

// List lists the user's cards
func (h *CardHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user")
		return
	}

	var filter cardListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cards, err := h.cards.ListCards(c.Request.Context(), userID, filter.ActiveOnly)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cards)
}

// GetByID gets a card by ID
func (h *CardHandler) GetByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user")
		return
	}

	cardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid card ID")
		return
	}

	card, err := h.cards.GetCardByID(c.Request.Context(), userID, cardID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, card)
}

// Update updates a card's name and credit limit
func (h *CardHandler) Update(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user")
		return
	}

	cardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid card ID")
		return
	}

	var req ledgerapp.UpdateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	card, err := h.cards.UpdateCard(c.Request.Context(), userID, cardID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, card)
}

// Archive deactivates a card while keeping its invoices and movements
func (h *CardHandler) Archive(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user")
		return
	}

	cardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid card ID")
		return
	}

	if err := h.cards.ArchiveCard(c.Request.Context(), userID, cardID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// ListInvoices lists a card's invoices, newest reference first
func (h *CardHandler) ListInvoices(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user")
		return
	}

	cardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid card ID")
		return
	}

	invoices, err := h.invoices.ListInvoicesByCard(c.Request.Context(), userID, cardID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoices)
}

// ReconcileLimit rebuilds the card's utilization from unsettled invoice totals
func (h *CardHandler) ReconcileLimit(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user")
		return
	}

	cardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid card ID")
		return
	}

	card, err := h.cards.ReconcileLimit(c.Request.Context(), userID, cardID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, card)
}
