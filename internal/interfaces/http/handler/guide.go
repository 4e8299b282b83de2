package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	guideapp "github.com/shipguide/backend/internal/application/guide"
	"github.com/shipguide/backend/internal/domain/guide"
	"github.com/shipguide/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// GuideHandler handles shipping guide endpoints
type GuideHandler struct {
	BaseHandler
	createService *guideapp.CreateService
	queryService  *guideapp.QueryService
	logger        *zap.Logger
}

// NewGuideHandler creates a guide handler
func NewGuideHandler(createService *guideapp.CreateService, queryService *guideapp.QueryService, logger *zap.Logger) *GuideHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GuideHandler{
		createService: createService,
		queryService:  queryService,
		logger:        logger,
	}
}

// RegisterRoutes registers guide routes
func (h *GuideHandler) RegisterRoutes(rg *gin.RouterGroup) {
	guides := rg.Group("/guides")
	{
		guides.POST("", h.Create)
		guides.GET("", h.List)
		guides.GET("/search", h.Search)
		guides.GET("/stats", h.Stats)
		guides.GET("/:id", h.GetByID)
		guides.PATCH("/:id/status", h.UpdateStatus)
		guides.GET("/:id/document", h.DocumentLink)
		guides.POST("/:id/document", h.Republish)
	}
}

// listGuidesRequest carries the list endpoint's query parameters
type listGuidesRequest struct {
	dto.ListRequest
	Status     string `form:"status"`
	OriginCity int64  `form:"origin_city_id"`
	DestCity   int64  `form:"destination_city_id"`
	CreatedBy  string `form:"created_by"`
	Search     string `form:"search"`
	DateFrom   string `form:"date_from"`
	DateTo     string `form:"date_to"`
}

// Create handles POST /guides. A 201 with a warning in the body means the
// guide committed but its document could not be published; the client should
// retry via POST /guides/:id/document.
func (h *GuideHandler) Create(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req guideapp.CreateGuideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.createService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// List handles GET /guides
func (h *GuideHandler) List(c *gin.Context) {
	var req listGuidesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}
	req.Normalize()

	filter, err := req.toFilter()
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	items, total, err := h.queryService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, items, total, req.Page, req.PageSize)
}

// Search handles GET /guides/search?q=
func (h *GuideHandler) Search(c *gin.Context) {
	items, err := h.queryService.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// Stats handles GET /guides/stats
func (h *GuideHandler) Stats(c *gin.Context) {
	stats, err := h.queryService.Stats(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// GetByID handles GET /guides/:id
func (h *GuideHandler) GetByID(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.BadRequest(c, "Guide ID must be numeric")
		return
	}

	detail, err := h.queryService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, detail)
}

// UpdateStatus handles PATCH /guides/:id/status
func (h *GuideHandler) UpdateStatus(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := pathID(c)
	if err != nil {
		h.BadRequest(c, "Guide ID must be numeric")
		return
	}

	var req guideapp.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	detail, err := h.queryService.UpdateStatus(c.Request.Context(), actor, id, req.Status)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, detail)
}

// DocumentLink handles GET /guides/:id/document
func (h *GuideHandler) DocumentLink(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.BadRequest(c, "Guide ID must be numeric")
		return
	}

	doc, err := h.queryService.DocumentLink(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, doc)
}

// Republish handles POST /guides/:id/document, re-rendering and re-uploading
// the waybill after a failed publish
func (h *GuideHandler) Republish(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.BadRequest(c, "Guide ID must be numeric")
		return
	}

	doc, err := h.queryService.Republish(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, doc)
}

func (r listGuidesRequest) toFilter() (guide.ListFilter, error) {
	filter := guide.ListFilter{
		Search: r.Search,
		Limit:  r.PageSize,
		Offset: r.Offset(),
	}

	if r.Status != "" {
		status := guide.Status(r.Status)
		if !status.IsValid() {
			return filter, &invalidFilterError{"Unknown status filter"}
		}
		filter.Status = status
	}
	if r.OriginCity > 0 {
		origin := r.OriginCity
		filter.OriginCityID = &origin
	}
	if r.DestCity > 0 {
		dest := r.DestCity
		filter.DestCityID = &dest
	}
	if r.CreatedBy != "" {
		creator, err := uuid.Parse(r.CreatedBy)
		if err != nil {
			return filter, &invalidFilterError{"created_by must be a UUID"}
		}
		filter.CreatedBy = creator
	}
	if r.DateFrom != "" {
		from, err := time.Parse("2006-01-02", r.DateFrom)
		if err != nil {
			return filter, &invalidFilterError{"date_from must be formatted as YYYY-MM-DD"}
		}
		filter.DateFrom = &from
	}
	if r.DateTo != "" {
		to, err := time.Parse("2006-01-02", r.DateTo)
		if err != nil {
			return filter, &invalidFilterError{"date_to must be formatted as YYYY-MM-DD"}
		}
		// The filter bound is exclusive, so include the named day in full.
		to = to.AddDate(0, 0, 1)
		filter.DateTo = &to
	}

	return filter, nil
}

type invalidFilterError struct {
	message string
}

func (e *invalidFilterError) Error() string {
	return e.message
}
