package cache

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shipguide/backend/internal/domain/pricing"
	"github.com/shipguide/backend/internal/domain/reference"
)

// countingRateRepo records how many times each method reached the database.
type countingRateRepo struct {
	rate      *pricing.RateRecord
	findCalls int
	listCalls int
}

func (r *countingRateRepo) FindByRoute(ctx context.Context, originCityID, destCityID int64) (*pricing.RateRecord, error) {
	r.findCalls++
	return r.rate, nil
}

func (r *countingRateRepo) ListAll(ctx context.Context) ([]pricing.RateRecord, error) {
	r.listCalls++
	if r.rate == nil {
		return nil, nil
	}
	return []pricing.RateRecord{*r.rate}, nil
}

func testRate() *pricing.RateRecord {
	return &pricing.RateRecord{
		ID:           1,
		OriginCityID: 1,
		DestCityID:   2,
		Route:        "BOGOTA-MEDELLIN",
		PricePerKg:   decimal.NewFromInt(400),
		MinValue:     decimal.NewFromInt(12000),
	}
}

func TestCachingRateRepositoryFindByRoute(t *testing.T) {
	inner := &countingRateRepo{rate: testRate()}
	repo := NewCachingRateRepository(inner, time.Minute, nil)
	defer repo.Close()

	ctx := context.Background()

	first, err := repo.FindByRoute(ctx, 1, 2)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, "BOGOTA-MEDELLIN", first.Route)
	assert.Equal(t, 1, inner.findCalls)

	// Second lookup is served from cache.
	second, err := repo.FindByRoute(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.findCalls)

	// A different route misses.
	_, err = repo.FindByRoute(ctx, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.findCalls)

	hits, misses := repo.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(2), misses)
}

func TestCachingRateRepositoryUncoveredRoute(t *testing.T) {
	inner := &countingRateRepo{rate: nil}
	repo := NewCachingRateRepository(inner, time.Minute, nil)
	defer repo.Close()

	ctx := context.Background()

	rate, err := repo.FindByRoute(ctx, 7, 9)
	require.NoError(t, err)
	assert.Nil(t, rate)

	// The uncovered answer is cached as well.
	rate, err = repo.FindByRoute(ctx, 7, 9)
	require.NoError(t, err)
	assert.Nil(t, rate)
	assert.Equal(t, 1, inner.findCalls)
}

func TestCachingRateRepositoryExpiry(t *testing.T) {
	inner := &countingRateRepo{rate: testRate()}
	repo := NewCachingRateRepository(inner, 10*time.Millisecond, nil)
	defer repo.Close()

	ctx := context.Background()

	_, err := repo.FindByRoute(ctx, 1, 2)
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	_, err = repo.FindByRoute(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.findCalls)
}

func TestCachingRateRepositoryInvalidate(t *testing.T) {
	inner := &countingRateRepo{rate: testRate()}
	repo := NewCachingRateRepository(inner, time.Minute, nil)
	defer repo.Close()

	ctx := context.Background()

	_, err := repo.ListAll(ctx)
	require.NoError(t, err)
	_, err = repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.listCalls)

	repo.Invalidate()

	_, err = repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.listCalls)
}

type countingCityRepo struct {
	cities    []reference.City
	findCalls int
	listCalls int
}

func (r *countingCityRepo) FindByID(ctx context.Context, id int64) (*reference.City, error) {
	r.findCalls++
	for i := range r.cities {
		if r.cities[i].ID == id {
			return &r.cities[i], nil
		}
	}
	return nil, nil
}

func (r *countingCityRepo) ListAll(ctx context.Context) ([]reference.City, error) {
	r.listCalls++
	return r.cities, nil
}

func TestCachingCityRepository(t *testing.T) {
	inner := &countingCityRepo{cities: []reference.City{
		{ID: 1, Name: "Bogotá", Department: "Cundinamarca", DaneCode: "11001"},
		{ID: 2, Name: "Medellín", Department: "Antioquia", DaneCode: "05001"},
	}}
	repo := NewCachingCityRepository(inner, time.Minute, nil)
	defer repo.Close()

	ctx := context.Background()

	city, err := repo.FindByID(ctx, 2)
	require.NoError(t, err)
	require.NotNil(t, city)
	assert.Equal(t, "Medellín", city.Name)

	city, err = repo.FindByID(ctx, 2)
	require.NoError(t, err)
	require.NotNil(t, city)
	assert.Equal(t, 1, inner.findCalls)

	// Unknown ids cache their absence.
	city, err = repo.FindByID(ctx, 99)
	require.NoError(t, err)
	assert.Nil(t, city)
	city, err = repo.FindByID(ctx, 99)
	require.NoError(t, err)
	assert.Nil(t, city)
	assert.Equal(t, 2, inner.findCalls)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	_, err = repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.listCalls)
}
