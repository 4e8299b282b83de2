package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shipguide/backend/internal/application/cashclose"
)

// CashCloseHandler handles cash close endpoints
type CashCloseHandler struct {
	BaseHandler
	service *cashclose.Service
}

// NewCashCloseHandler creates a cash close handler
func NewCashCloseHandler(service *cashclose.Service) *CashCloseHandler {
	return &CashCloseHandler{service: service}
}

// RegisterRoutes registers cash close routes
func (h *CashCloseHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/cash-closes")
	{
		group.POST("", h.Create)
		group.GET("/:id", h.GetByID)
		group.GET("/:id/document", h.DocumentLink)
	}
}

// Create handles POST /cash-closes. Authorization is enforced by the
// application service: only administrators may close a period.
func (h *CashCloseHandler) Create(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req cashclose.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.service.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetByID handles GET /cash-closes/:id
func (h *CashCloseHandler) GetByID(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.BadRequest(c, "Cash close ID must be numeric")
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DocumentLink handles GET /cash-closes/:id/document
func (h *CashCloseHandler) DocumentLink(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.BadRequest(c, "Cash close ID must be numeric")
		return
	}

	doc, err := h.service.DocumentLink(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, doc)
}
