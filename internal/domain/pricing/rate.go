// Package pricing holds the authoritative rate data the price engine reads.
// Rate records are reference data: the core never writes them. The guide
// creation path reads them uncached so the committed price reflects current
// data; advisory quotes may read through a short-lived cache.
package pricing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// RateRecord maps an origin/destination pair to its pricing parameters
type RateRecord struct {
	ID              int64           `gorm:"column:id;primaryKey"`
	OriginCityID    int64           `gorm:"column:origin_city_id"`
	DestCityID      int64           `gorm:"column:destination_city_id"`
	Route           string          `gorm:"column:route"`
	TravelFrequency string          `gorm:"column:travel_frequency"`
	MinDispatchKg   int             `gorm:"column:min_dispatch_kg"`
	PricePerKg      decimal.Decimal `gorm:"column:price_per_kg;type:numeric(12,2)"`
	MinValue        decimal.Decimal `gorm:"column:min_value;type:numeric(14,2)"`
	EffectiveDate   time.Time       `gorm:"column:effective_date"`
}

// TableName returns the database table name
func (RateRecord) TableName() string {
	return "shipping_rates"
}

// RateRepository provides read-only access to rate records. FindByRoute
// returns (nil, nil) when no rate covers the route; callers treat that as an
// indeterminate price, not an error.
type RateRepository interface {
	FindByRoute(ctx context.Context, originCityID, destCityID int64) (*RateRecord, error)
	ListAll(ctx context.Context) ([]RateRecord, error)
}
