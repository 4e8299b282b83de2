package cache

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/shipguide/backend/internal/domain/reference"
)

// DefaultCityTTL is longer than the rate TTL since the city catalog is
// essentially static between migrations.
const DefaultCityTTL = 30 * time.Minute

const listAllCitiesKey = "cities:all"

// CachingCityRepository decorates a CityRepository with a TTL cache.
type CachingCityRepository struct {
	inner reference.CityRepository
	cache *lookupCache
	log   *zap.Logger
}

func NewCachingCityRepository(inner reference.CityRepository, ttl time.Duration, logger *zap.Logger) *CachingCityRepository {
	if ttl <= 0 {
		ttl = DefaultCityTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachingCityRepository{
		inner: inner,
		cache: newLookupCache(ttl, logger),
		log:   logger,
	}
}

func cityKey(id int64) string {
	return "city:" + strconv.FormatInt(id, 10)
}

func (r *CachingCityRepository) FindByID(ctx context.Context, id int64) (*reference.City, error) {
	key := cityKey(id)
	if v, ok := r.cache.get(key); ok {
		if v == nil {
			return nil, nil
		}
		return v.(*reference.City), nil
	}

	city, err := r.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if city == nil {
		r.cache.set(key, nil)
		return nil, nil
	}
	r.cache.set(key, city)
	return city, nil
}

func (r *CachingCityRepository) ListAll(ctx context.Context) ([]reference.City, error) {
	if v, ok := r.cache.get(listAllCitiesKey); ok {
		return v.([]reference.City), nil
	}

	cities, err := r.inner.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	r.cache.set(listAllCitiesKey, cities)
	return cities, nil
}

// Invalidate drops the cached catalog.
func (r *CachingCityRepository) Invalidate() {
	r.cache.invalidateAll()
	r.log.Debug("City cache invalidated")
}

// Close stops the background cleanup goroutine.
func (r *CachingCityRepository) Close() {
	r.cache.close()
}

var _ reference.CityRepository = (*CachingCityRepository)(nil)
