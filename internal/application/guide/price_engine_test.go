package guide

import (
	"context"
	"errors"
	"testing"

	"github.com/shipguide/backend/internal/domain/guide"
	"github.com/shipguide/backend/internal/domain/pricing"
	"github.com/shipguide/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testRate(pricePerKg, minValue int64) *pricing.RateRecord {
	return &pricing.RateRecord{
		ID:           1,
		OriginCityID: 1,
		DestCityID:   2,
		PricePerKg:   decimal.NewFromInt(pricePerKg),
		MinValue:     decimal.NewFromInt(minValue),
	}
}

func TestPriceEngine_Compute(t *testing.T) {
	ctx := context.Background()

	t.Run("parcel dimensional weight dominates", func(t *testing.T) {
		rates := new(MockRateRepository)
		rates.On("FindByRoute", ctx, int64(1), int64(2)).Return(testRate(1000, 15000), nil)
		engine := NewPriceEngine(rates, zap.NewNop())

		// volume 10*10*10 = 1000 outweighs 2kg: 1000 * 400 * 1000
		price, err := engine.Compute(ctx, 1, 2, guide.ServiceParcel,
			decimal.NewFromInt(2), decimal.NewFromInt(10), decimal.NewFromInt(10), decimal.NewFromInt(10))
		require.NoError(t, err)
		assert.True(t, price.Resolved)
		assert.True(t, price.Amount.Equal(decimal.NewFromInt(400000000)),
			"got %s", price.Amount)
		assert.True(t, price.BillableWeight.Equal(decimal.NewFromInt(1000)))
	})

	t.Run("parcel actual weight dominates", func(t *testing.T) {
		rates := new(MockRateRepository)
		rates.On("FindByRoute", ctx, int64(1), int64(2)).Return(testRate(50, 15000), nil)
		engine := NewPriceEngine(rates, zap.NewNop())

		// 8kg beats 1*1*1: 8 * 400 * 50 = 160000
		price, err := engine.Compute(ctx, 1, 2, guide.ServiceParcel,
			decimal.NewFromInt(8), decimal.NewFromInt(1), decimal.NewFromInt(1), decimal.NewFromInt(1))
		require.NoError(t, err)
		assert.True(t, price.Amount.Equal(decimal.NewFromInt(160000)))
		assert.True(t, price.BillableWeight.Equal(decimal.NewFromInt(8)))
	})

	t.Run("messenger flat uses route minimum regardless of size", func(t *testing.T) {
		rates := new(MockRateRepository)
		rates.On("FindByRoute", ctx, int64(1), int64(2)).Return(testRate(1000, 15000), nil)
		engine := NewPriceEngine(rates, zap.NewNop())

		price, err := engine.Compute(ctx, 1, 2, guide.ServiceMessengerFlat,
			decimal.NewFromInt(500), decimal.NewFromInt(90), decimal.NewFromInt(90), decimal.NewFromInt(90))
		require.NoError(t, err)
		assert.True(t, price.Resolved)
		assert.True(t, price.Amount.Equal(decimal.NewFromInt(15000)))
	})

	t.Run("uncovered route is indeterminate, not an error", func(t *testing.T) {
		rates := new(MockRateRepository)
		rates.On("FindByRoute", ctx, int64(7), int64(8)).Return(nil, nil)
		engine := NewPriceEngine(rates, zap.NewNop())

		price, err := engine.Compute(ctx, 7, 8, guide.ServiceParcel,
			decimal.NewFromInt(2), decimal.Zero, decimal.Zero, decimal.Zero)
		require.NoError(t, err)
		assert.False(t, price.Resolved)
		assert.True(t, price.Amount.IsZero())
	})

	t.Run("rate lookup failure surfaces as persistence error", func(t *testing.T) {
		rates := new(MockRateRepository)
		rates.On("FindByRoute", ctx, int64(1), int64(2)).Return(nil, errors.New("connection reset"))
		engine := NewPriceEngine(rates, zap.NewNop())

		_, err := engine.Compute(ctx, 1, 2, guide.ServiceParcel,
			decimal.NewFromInt(2), decimal.Zero, decimal.Zero, decimal.Zero)
		require.Error(t, err)
		assert.True(t, shared.IsCode(err, shared.CodePersistence))
	})

	t.Run("unknown service type rejected before lookup", func(t *testing.T) {
		rates := new(MockRateRepository)
		engine := NewPriceEngine(rates, zap.NewNop())

		_, err := engine.Compute(ctx, 1, 2, guide.ServiceType("AIR"),
			decimal.NewFromInt(2), decimal.Zero, decimal.Zero, decimal.Zero)
		require.Error(t, err)
		assert.True(t, shared.IsCode(err, shared.CodeValidation))
		rates.AssertNotCalled(t, "FindByRoute", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestPriceEngine_Classify(t *testing.T) {
	engine := NewPriceEngine(nil, zap.NewNop())
	d := decimal.NewFromInt

	tests := []struct {
		name      string
		submitted decimal.Decimal
		computed  decimal.Decimal
		resolved  bool
		want      Classification
	}{
		{"exact match accepted", d(28000), d(28000), true, ClassificationAccepted},
		{"negative always rejected", d(-1), d(28000), true, ClassificationRejected},
		{"negative rejected even unresolved", d(-100), decimal.Zero, false, ClassificationRejected},
		{"unresolved accepts submission", d(999), decimal.Zero, false, ClassificationAccepted},
		{"zero against positive rejected", decimal.Zero, d(28000), true, ClassificationRejected},
		{"below half rejected", d(13999), d(28000), true, ClassificationRejected},
		{"exactly half requires override", d(14000), d(28000), true, ClassificationRequiresOverride},
		{"above half requires override", d(20000), d(28000), true, ClassificationRequiresOverride},
		{"above computed requires override", d(30000), d(28000), true, ClassificationRequiresOverride},
		{"sub-50 with fractional residue rejected", decimal.RequireFromString("4999.99"), d(10000), true, ClassificationRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.Classify(tt.submitted, tt.computed, tt.resolved))
		})
	}
}
