package persistence

import (
	"context"
	"errors"

	"github.com/shipguide/backend/internal/domain/reference"
	"gorm.io/gorm"
)

// GormCityRepository implements reference.CityRepository using GORM
type GormCityRepository struct {
	db *gorm.DB
}

// NewGormCityRepository creates a new GormCityRepository
func NewGormCityRepository(db *gorm.DB) *GormCityRepository {
	return &GormCityRepository{db: db}
}

// FindByID returns the city, or (nil, nil) when the id is unknown
func (r *GormCityRepository) FindByID(ctx context.Context, id int64) (*reference.City, error) {
	var city reference.City
	if err := r.db.WithContext(ctx).First(&city, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &city, nil
}

// ListAll returns the full city catalog ordered by name
func (r *GormCityRepository) ListAll(ctx context.Context) ([]reference.City, error) {
	var cities []reference.City
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&cities).Error; err != nil {
		return nil, err
	}
	return cities, nil
}

// Ensure GormCityRepository implements reference.CityRepository
var _ reference.CityRepository = (*GormCityRepository)(nil)
