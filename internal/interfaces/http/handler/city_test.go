package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shipguide/backend/internal/domain/reference"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newCityRouter(cities *MockCityRepository) *gin.Engine {
	router := gin.New()
	api := router.Group("/api/v1")
	NewCityHandler(cities).RegisterRoutes(api)
	return router
}

func TestCityHandlerList(t *testing.T) {
	t.Run("returns catalog", func(t *testing.T) {
		cities := new(MockCityRepository)
		cities.On("ListAll", mock.Anything).Return([]reference.City{
			{ID: 1, Name: "Bogotá", Department: "Cundinamarca", DaneCode: "11001"},
			{ID: 2, Name: "Medellín", Department: "Antioquia", DaneCode: "05001"},
		}, nil)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/v1/cities", nil)
		newCityRouter(cities).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Medellín")
		assert.Contains(t, w.Body.String(), "11001")
	})

	t.Run("storage failure maps to 500", func(t *testing.T) {
		cities := new(MockCityRepository)
		cities.On("ListAll", mock.Anything).Return(nil, errors.New("connection refused"))

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/v1/cities", nil)
		newCityRouter(cities).ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_INTERNAL")
	})
}
