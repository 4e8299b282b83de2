package guide

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceOverride records an authorized deviation from the computed price.
// Created once inside the guide creation transaction and never mutated; the
// existence of a row is itself the audit signal that a deviation occurred.
type PriceOverride struct {
	ID            int64           `gorm:"column:override_id;primaryKey;autoIncrement"`
	GuideID       int64           `gorm:"column:guide_id"`
	OriginalPrice decimal.Decimal `gorm:"column:original_price;type:numeric(18,2)"`
	NewPrice      decimal.Decimal `gorm:"column:new_price;type:numeric(18,2)"`
	Reason        string          `gorm:"column:reason"`
	OverriddenBy  uuid.UUID       `gorm:"column:overridden_by;type:uuid"`
	CreatedAt     time.Time       `gorm:"column:created_at"`
}

// TableName returns the database table name
func (PriceOverride) TableName() string {
	return "guide_price_overrides"
}
