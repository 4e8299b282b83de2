package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shipguide/backend/internal/domain/reference"
	"github.com/shipguide/backend/internal/domain/shared"
)

// CityHandler serves the location catalog
type CityHandler struct {
	BaseHandler
	cityRepo reference.CityRepository
}

// NewCityHandler creates a city handler
func NewCityHandler(cityRepo reference.CityRepository) *CityHandler {
	return &CityHandler{cityRepo: cityRepo}
}

// RegisterRoutes registers city routes
func (h *CityHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/cities")
	{
		group.GET("", h.List)
	}
}

// List handles GET /cities
func (h *CityHandler) List(c *gin.Context) {
	cities, err := h.cityRepo.ListAll(c.Request.Context())
	if err != nil {
		h.HandleError(c, shared.ErrPersistence)
		return
	}
	h.Success(c, cities)
}
