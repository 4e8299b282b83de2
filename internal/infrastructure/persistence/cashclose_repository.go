package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/shipguide/backend/internal/domain/cashclose"
	"github.com/shipguide/backend/internal/domain/guide"
	"github.com/shipguide/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormCashCloseRepository implements cashclose.Repository using GORM
type GormCashCloseRepository struct {
	db *gorm.DB
}

// NewGormCashCloseRepository creates a new GormCashCloseRepository
func NewGormCashCloseRepository(db *gorm.DB) *GormCashCloseRepository {
	return &GormCashCloseRepository{db: db}
}

// Create inserts the cash close row and populates the allocated ID
func (r *GormCashCloseRepository) Create(ctx context.Context, cc *cashclose.CashClose) error {
	return r.db.WithContext(ctx).Create(cc).Error
}

// FindByID loads a cash close by its ID
func (r *GormCashCloseRepository) FindByID(ctx context.Context, closeID int64) (*cashclose.CashClose, error) {
	var cc cashclose.CashClose
	if err := r.db.WithContext(ctx).First(&cc, "close_id = ?", closeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &cc, nil
}

// AggregateGuides totals the guides created inside [start, end) grouped by
// payment method
func (r *GormCashCloseRepository) AggregateGuides(ctx context.Context, start, end time.Time) (*cashclose.Totals, error) {
	type methodTotal struct {
		PaymentMethod string
		Count         int64
		Total         decimal.Decimal
	}

	var rows []methodTotal
	if err := r.db.WithContext(ctx).Model(&guide.Guide{}).
		Select("payment_method, COUNT(*) AS count, COALESCE(SUM(price), 0) AS total").
		Where("created_at >= ? AND created_at < ?", start, end).
		Group("payment_method").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	totals := &cashclose.Totals{}
	for _, row := range rows {
		totals.Guides += int(row.Count)
		totals.Amount = totals.Amount.Add(row.Total)
		switch guide.PaymentMethod(row.PaymentMethod) {
		case guide.PaymentCash:
			totals.Cash = totals.Cash.Add(row.Total)
		case guide.PaymentCOD:
			totals.COD = totals.COD.Add(row.Total)
		case guide.PaymentCredit:
			totals.Credit = totals.Credit.Add(row.Total)
		}
	}
	return totals, nil
}

// SetDocument writes the published report reference back onto the close
func (r *GormCashCloseRepository) SetDocument(ctx context.Context, closeID int64, url, storageKey string) error {
	result := r.db.WithContext(ctx).Model(&cashclose.CashClose{}).
		Where("close_id = ?", closeID).
		Updates(map[string]any{
			"pdf_url":    url,
			"pdf_s3_key": storageKey,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormCashCloseRepository implements cashclose.Repository
var _ cashclose.Repository = (*GormCashCloseRepository)(nil)
