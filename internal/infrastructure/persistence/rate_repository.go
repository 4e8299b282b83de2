package persistence

import (
	"context"
	"errors"

	"github.com/shipguide/backend/internal/domain/pricing"
	"gorm.io/gorm"
)

// GormRateRepository implements pricing.RateRepository using GORM
type GormRateRepository struct {
	db *gorm.DB
}

// NewGormRateRepository creates a new GormRateRepository
func NewGormRateRepository(db *gorm.DB) *GormRateRepository {
	return &GormRateRepository{db: db}
}

// FindByRoute returns the most recent rate covering the route, or (nil, nil)
// when the route has no coverage
func (r *GormRateRepository) FindByRoute(ctx context.Context, originCityID, destCityID int64) (*pricing.RateRecord, error) {
	var rate pricing.RateRecord
	err := r.db.WithContext(ctx).
		Where("origin_city_id = ? AND destination_city_id = ?", originCityID, destCityID).
		Order("effective_date DESC").
		First(&rate).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rate, nil
}

// ListAll returns every rate record ordered by route
func (r *GormRateRepository) ListAll(ctx context.Context) ([]pricing.RateRecord, error) {
	var rates []pricing.RateRecord
	if err := r.db.WithContext(ctx).
		Order("origin_city_id ASC, destination_city_id ASC").
		Find(&rates).Error; err != nil {
		return nil, err
	}
	return rates, nil
}

// Ensure GormRateRepository implements pricing.RateRepository
var _ pricing.RateRepository = (*GormRateRepository)(nil)
