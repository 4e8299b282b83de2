package persistence

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shipguide/backend/internal/domain/cashclose"
	"github.com/shipguide/backend/internal/domain/guide"
	"github.com/shipguide/backend/internal/domain/pricing"
	"github.com/shipguide/backend/internal/domain/reference"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database with the full schema
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&reference.City{},
		&pricing.RateRecord{},
		&guide.Guide{},
		&guide.Party{},
		&guide.Package{},
		&guide.StatusHistoryEntry{},
		&guide.PriceOverride{},
		&cashclose.CashClose{},
	)
	require.NoError(t, err)

	return db
}

// seedCities inserts the two cities used across the repository tests
func seedCities(t *testing.T, db *gorm.DB) {
	t.Helper()
	cities := []reference.City{
		{ID: 1, Name: "Bogotá", Department: "Cundinamarca", DaneCode: "11001"},
		{ID: 2, Name: "Medellín", Department: "Antioquia", DaneCode: "05001"},
	}
	require.NoError(t, db.Create(&cities).Error)
}

// newTestGuide builds a minimal valid guide ready for insertion
func newTestGuide(createdBy uuid.UUID) *guide.Guide {
	return &guide.Guide{
		ServiceType:   guide.ServiceParcel,
		PaymentMethod: guide.PaymentCash,
		DeclaredValue: decimal.NewFromInt(50000),
		Price:         decimal.NewFromInt(160000),
		CurrentStatus: guide.StatusCreated,
		OriginCityID:  1,
		DestCityID:    2,
		CreatedBy:     createdBy,
	}
}
