// Package rates exposes the pricing arithmetic as a standalone quote
// operation, so a caller can price a shipment before creating its guide.
package rates

import (
	"context"

	guideapp "github.com/shipguide/backend/internal/application/guide"
	"github.com/shipguide/backend/internal/domain/guide"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// QuoteRequest represents a price quote request
type QuoteRequest struct {
	ServiceType  guide.ServiceType `json:"service_type" binding:"required"`
	OriginCityID int64             `json:"origin_city_id" binding:"required,gt=0"`
	DestCityID   int64             `json:"destination_city_id" binding:"required,gt=0"`
	WeightKg     decimal.Decimal   `json:"weight_kg"`
	LengthCm     decimal.Decimal   `json:"length_cm"`
	WidthCm      decimal.Decimal   `json:"width_cm"`
	HeightCm     decimal.Decimal   `json:"height_cm"`
}

// QuoteResponse carries the computed price and its breakdown. Covered is
// false when no rate exists for the route; Price is zero in that case.
type QuoteResponse struct {
	Covered        bool              `json:"covered"`
	ServiceType    guide.ServiceType `json:"service_type"`
	Price          decimal.Decimal   `json:"price"`
	BillableWeight decimal.Decimal   `json:"billable_weight,omitempty"`
	PricePerKg     decimal.Decimal   `json:"price_per_kg,omitempty"`
	MinValue       decimal.Decimal   `json:"min_value,omitempty"`
	Route          string            `json:"route,omitempty"`
}

// QuoteService computes advisory shipment quotes with the same arithmetic
// the guide creation path uses. Its rate lookups may be served from a
// short-lived cache, so a quote issued just before a tariff change can
// differ from the price creation verifies against the current table.
type QuoteService struct {
	engine *guideapp.PriceEngine
	logger *zap.Logger
}

// NewQuoteService creates a quote service
func NewQuoteService(engine *guideapp.PriceEngine, logger *zap.Logger) *QuoteService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuoteService{engine: engine, logger: logger}
}

// Quote prices a prospective shipment
func (s *QuoteService) Quote(ctx context.Context, req QuoteRequest) (*QuoteResponse, error) {
	computed, err := s.engine.Compute(ctx, req.OriginCityID, req.DestCityID, req.ServiceType,
		req.WeightKg, req.LengthCm, req.WidthCm, req.HeightCm)
	if err != nil {
		return nil, err
	}

	resp := &QuoteResponse{
		Covered:        computed.Resolved,
		ServiceType:    req.ServiceType,
		Price:          computed.Amount,
		BillableWeight: computed.BillableWeight,
	}
	if computed.Rate != nil {
		resp.PricePerKg = computed.Rate.PricePerKg
		resp.MinValue = computed.Rate.MinValue
		resp.Route = computed.Rate.Route
	}
	return resp, nil
}
