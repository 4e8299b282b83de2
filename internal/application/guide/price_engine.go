package guide

import (
	"context"

	"github.com/shipguide/backend/internal/domain/guide"
	"github.com/shipguide/backend/internal/domain/pricing"
	"github.com/shipguide/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// parcelFactor is the fixed multiplier applied to the billable weight before
// the per-kg rate. It is part of the established tariff arithmetic; existing
// rate rows are calibrated against it.
var parcelFactor = decimal.NewFromInt(400)

// discountFloor is the fraction of the computed price below which a submitted
// price is rejected outright instead of requiring an override.
var discountFloor = decimal.RequireFromString("0.5")

// Classification is the verdict on a submitted price
type Classification int

const (
	// ClassificationAccepted means the submitted price matches the computed
	// one (or no rate data exists to verify it)
	ClassificationAccepted Classification = iota
	// ClassificationRequiresOverride means the submitted price deviates and
	// may only be persisted through an authorized override
	ClassificationRequiresOverride
	// ClassificationRejected means the submitted price is invalid regardless
	// of authorization
	ClassificationRejected
)

// String returns a readable name for logging
func (c Classification) String() string {
	switch c {
	case ClassificationAccepted:
		return "ACCEPTED"
	case ClassificationRequiresOverride:
		return "REQUIRES_OVERRIDE"
	case ClassificationRejected:
		return "REJECTED"
	}
	return "UNKNOWN"
}

// ComputedPrice is the engine's output. Resolved is false when no rate covers
// the route; Amount is zero in that case and the submitted price becomes
// authoritative.
type ComputedPrice struct {
	Amount         decimal.Decimal
	Resolved       bool
	BillableWeight decimal.Decimal
	Rate           *pricing.RateRecord
}

// PriceEngine recomputes guide prices from the authoritative rate data and
// classifies submitted prices against them. It never caches rate rows; every
// computation reads current data.
type PriceEngine struct {
	rates  pricing.RateRepository
	logger *zap.Logger
}

// NewPriceEngine creates a price engine backed by the given rate repository
func NewPriceEngine(rates pricing.RateRepository, logger *zap.Logger) *PriceEngine {
	return &PriceEngine{rates: rates, logger: logger}
}

// Compute derives the authoritative price for a shipment.
//
// Messenger service is billed at the route's flat minimum value. Parcel
// service bills the billable weight, the greater of the actual weight and the
// raw product of the three dimensions, times the tariff factor times the
// route's per-kg price. An uncovered route yields Resolved=false with a nil
// error; that outcome is logged distinctly because it weakens verification.
func (e *PriceEngine) Compute(
	ctx context.Context,
	originCityID, destCityID int64,
	serviceType guide.ServiceType,
	weightKg, lengthCm, widthCm, heightCm decimal.Decimal,
) (*ComputedPrice, error) {
	if !serviceType.IsValid() {
		return nil, shared.NewDomainError(shared.CodeValidation, "Unknown service type")
	}

	rate, err := e.rates.FindByRoute(ctx, originCityID, destCityID)
	if err != nil {
		e.logger.Error("rate lookup failed",
			zap.Int64("origin_city_id", originCityID),
			zap.Int64("destination_city_id", destCityID),
			zap.Error(err))
		return nil, shared.ErrPersistence
	}
	if rate == nil {
		e.logger.Warn("no rate coverage for route, submitted price will be authoritative",
			zap.Int64("origin_city_id", originCityID),
			zap.Int64("destination_city_id", destCityID))
		return &ComputedPrice{Resolved: false}, nil
	}

	if serviceType == guide.ServiceMessengerFlat {
		return &ComputedPrice{
			Amount:   rate.MinValue,
			Resolved: true,
			Rate:     rate,
		}, nil
	}

	volume := lengthCm.Mul(widthCm).Mul(heightCm)
	billable := weightKg
	if volume.GreaterThan(billable) {
		billable = volume
	}

	return &ComputedPrice{
		Amount:         billable.Mul(parcelFactor).Mul(rate.PricePerKg),
		Resolved:       true,
		BillableWeight: billable,
		Rate:           rate,
	}, nil
}

// Classify compares a submitted price against the computed reference.
//
// A negative submission is always rejected. When the route price could not be
// resolved the submission is accepted as-is. A zero submission against a
// positive computed price and any submission below half the computed price
// are rejected; every other mismatch requires an authorized override.
func (e *PriceEngine) Classify(submitted, computed decimal.Decimal, resolved bool) Classification {
	if submitted.IsNegative() {
		return ClassificationRejected
	}
	if !resolved {
		return ClassificationAccepted
	}
	if submitted.Equal(computed) {
		return ClassificationAccepted
	}
	if submitted.IsZero() && computed.IsPositive() {
		return ClassificationRejected
	}
	if submitted.LessThan(computed.Mul(discountFloor)) {
		return ClassificationRejected
	}
	return ClassificationRequiresOverride
}
