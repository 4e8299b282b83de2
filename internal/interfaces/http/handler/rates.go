package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shipguide/backend/internal/application/rates"
)

// RateHandler handles price quote endpoints
type RateHandler struct {
	BaseHandler
	quoteService *rates.QuoteService
}

// NewRateHandler creates a rate handler
func NewRateHandler(quoteService *rates.QuoteService) *RateHandler {
	return &RateHandler{quoteService: quoteService}
}

// RegisterRoutes registers rate routes
func (h *RateHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/rates")
	{
		group.POST("/quote", h.Quote)
	}
}

// Quote handles POST /rates/quote. The response carries the same price the
// creation pipeline would accept for identical inputs.
func (h *RateHandler) Quote(c *gin.Context) {
	var req rates.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	quote, err := h.quoteService.Quote(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quote)
}
