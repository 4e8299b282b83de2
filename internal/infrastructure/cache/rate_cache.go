package cache

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/shipguide/backend/internal/domain/pricing"
)

// DefaultRateTTL bounds how stale a cached rate can get. Rates are seeded
// once per tariff revision, so minutes of staleness is acceptable.
const DefaultRateTTL = 5 * time.Minute

const listAllRatesKey = "rates:all"

// CachingRateRepository decorates a RateRepository with a TTL cache.
// Uncovered routes are cached too, so repeated quotes for the same
// unserved route do not hit the database each time.
type CachingRateRepository struct {
	inner pricing.RateRepository
	cache *lookupCache
	log   *zap.Logger
}

// NewCachingRateRepository wraps inner with a lookup cache. A zero ttl
// selects DefaultRateTTL.
func NewCachingRateRepository(inner pricing.RateRepository, ttl time.Duration, logger *zap.Logger) *CachingRateRepository {
	if ttl <= 0 {
		ttl = DefaultRateTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachingRateRepository{
		inner: inner,
		cache: newLookupCache(ttl, logger),
		log:   logger,
	}
}

func routeKey(originCityID, destCityID int64) string {
	return fmt.Sprintf("rate:%d:%d", originCityID, destCityID)
}

// FindByRoute returns the cached rate for the route when present,
// otherwise loads it from the inner repository. Errors are never cached.
func (r *CachingRateRepository) FindByRoute(ctx context.Context, originCityID, destCityID int64) (*pricing.RateRecord, error) {
	key := routeKey(originCityID, destCityID)
	if v, ok := r.cache.get(key); ok {
		if v == nil {
			return nil, nil
		}
		return v.(*pricing.RateRecord), nil
	}

	rate, err := r.inner.FindByRoute(ctx, originCityID, destCityID)
	if err != nil {
		return nil, err
	}
	if rate == nil {
		r.cache.set(key, nil)
		return nil, nil
	}
	r.cache.set(key, rate)
	return rate, nil
}

// ListAll caches the full rate table under a single key.
func (r *CachingRateRepository) ListAll(ctx context.Context) ([]pricing.RateRecord, error) {
	if v, ok := r.cache.get(listAllRatesKey); ok {
		return v.([]pricing.RateRecord), nil
	}

	rates, err := r.inner.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	r.cache.set(listAllRatesKey, rates)
	return rates, nil
}

// Invalidate drops every cached rate, forcing the next lookup to reload.
func (r *CachingRateRepository) Invalidate() {
	r.cache.invalidateAll()
	r.log.Debug("Rate cache invalidated")
}

// Stats returns hit and miss counters.
func (r *CachingRateRepository) Stats() (hits, misses int64) {
	return r.cache.stats()
}

// Close stops the background cleanup goroutine.
func (r *CachingRateRepository) Close() {
	r.cache.close()
}

var _ pricing.RateRepository = (*CachingRateRepository)(nil)
