package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	guideapp "github.com/shipguide/backend/internal/application/guide"
	"github.com/shipguide/backend/internal/application/rates"
	"github.com/shipguide/backend/internal/domain/pricing"
	"github.com/shipguide/backend/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRateRouter(rateRepo *MockRateRepository) *gin.Engine {
	engine := guideapp.NewPriceEngine(rateRepo, zap.NewNop())
	service := rates.NewQuoteService(engine, zap.NewNop())
	router := gin.New()
	api := router.Group("/api/v1")
	NewRateHandler(service).RegisterRoutes(api)
	return router
}

func TestRateHandlerQuote(t *testing.T) {
	t.Run("parcel quote with breakdown", func(t *testing.T) {
		rateRepo := new(MockRateRepository)
		rateRepo.On("FindByRoute", mock.Anything, int64(1), int64(2)).
			Return(&pricing.RateRecord{
				ID:           7,
				OriginCityID: 1,
				DestCityID:   2,
				Route:        "BOGOTA-MEDELLIN",
				PricePerKg:   decimal.NewFromInt(350),
				MinValue:     decimal.NewFromInt(8000),
			}, nil)
		router := newRateRouter(rateRepo)

		w := postJSON(t, router, "/api/v1/rates/quote", map[string]any{
			"service_type":        "PARCEL",
			"origin_city_id":      1,
			"destination_city_id": 2,
			"weight_kg":           "2",
		})

		assert.Equal(t, http.StatusOK, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, true, data["covered"])
		// 2 kg * 400 * 350
		assert.Equal(t, "280000", data["price"])
		assert.Equal(t, "BOGOTA-MEDELLIN", data["route"])
	})

	t.Run("messenger quote uses flat minimum", func(t *testing.T) {
		rateRepo := new(MockRateRepository)
		rateRepo.On("FindByRoute", mock.Anything, int64(1), int64(1)).
			Return(&pricing.RateRecord{
				ID:         3,
				MinValue:   decimal.NewFromInt(8000),
				PricePerKg: decimal.NewFromInt(350),
			}, nil)
		router := newRateRouter(rateRepo)

		w := postJSON(t, router, "/api/v1/rates/quote", map[string]any{
			"service_type":        "MESSENGER_FLAT",
			"origin_city_id":      1,
			"destination_city_id": 1,
			"weight_kg":           "12",
		})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "\"price\":\"8000\"")
	})

	t.Run("uncovered route reports not covered", func(t *testing.T) {
		rateRepo := new(MockRateRepository)
		rateRepo.On("FindByRoute", mock.Anything, int64(1), int64(9)).Return(nil, nil)
		router := newRateRouter(rateRepo)

		w := postJSON(t, router, "/api/v1/rates/quote", map[string]any{
			"service_type":        "PARCEL",
			"origin_city_id":      1,
			"destination_city_id": 9,
			"weight_kg":           "2",
		})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "\"covered\":false")
	})

	t.Run("missing route fields rejected", func(t *testing.T) {
		router := newRateRouter(new(MockRateRepository))

		w := postJSON(t, router, "/api/v1/rates/quote", map[string]any{
			"service_type": "PARCEL",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
