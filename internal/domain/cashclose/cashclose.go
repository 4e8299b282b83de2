// Package cashclose models the periodic cash register close. It is the
// sibling of the guide publishing pipeline: aggregate committed guides into a
// close record, render a report, publish it with a long-lived link.
package cashclose

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shipguide/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PeriodType identifies the span a close covers
type PeriodType string

const (
	PeriodDaily   PeriodType = "DAILY"
	PeriodMonthly PeriodType = "MONTHLY"
)

// IsValid checks if the period type is known
func (p PeriodType) IsValid() bool {
	return p == PeriodDaily || p == PeriodMonthly
}

// CashClose aggregates the guides created within a period
type CashClose struct {
	ID         int64      `gorm:"column:close_id;primaryKey;autoIncrement"`
	PeriodType PeriodType `gorm:"column:period_type"`
	StartDate  time.Time  `gorm:"column:start_date"`
	EndDate    time.Time  `gorm:"column:end_date"`

	TotalGuides int             `gorm:"column:total_guides"`
	TotalAmount decimal.Decimal `gorm:"column:total_amount;type:numeric(18,2)"`
	TotalCash   decimal.Decimal `gorm:"column:total_cash;type:numeric(18,2)"`
	TotalCOD    decimal.Decimal `gorm:"column:total_cod;type:numeric(18,2)"`
	TotalCredit decimal.Decimal `gorm:"column:total_credit;type:numeric(18,2)"`

	PDFURL   *string `gorm:"column:pdf_url"`
	PDFS3Key *string `gorm:"column:pdf_s3_key"`

	CreatedBy uuid.UUID `gorm:"column:created_by;type:uuid"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

// TableName returns the database table name
func (CashClose) TableName() string {
	return "cash_closes"
}

// NewCashClose builds a close for the given period window
func NewCashClose(period PeriodType, start, end time.Time, createdBy uuid.UUID) (*CashClose, error) {
	if !period.IsValid() {
		return nil, shared.NewDomainError(shared.CodeValidation, "Unknown close period type")
	}
	if !end.After(start) {
		return nil, shared.NewDomainError(shared.CodeValidation, "Close period end must be after its start")
	}
	if createdBy == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "Creator identity is required")
	}

	return &CashClose{
		PeriodType:  period,
		StartDate:   start,
		EndDate:     end,
		TotalAmount: decimal.Zero,
		TotalCash:   decimal.Zero,
		TotalCOD:    decimal.Zero,
		TotalCredit: decimal.Zero,
		CreatedBy:   createdBy,
		CreatedAt:   time.Now(),
	}, nil
}

// Number returns the human-readable close number
func (c *CashClose) Number() string {
	return fmt.Sprintf("%08d", c.ID)
}

// Totals is the per-payment-method aggregation computed from guides
type Totals struct {
	Guides int
	Amount decimal.Decimal
	Cash   decimal.Decimal
	COD    decimal.Decimal
	Credit decimal.Decimal
}

// Apply copies aggregated totals onto the close
func (c *CashClose) Apply(t Totals) {
	c.TotalGuides = t.Guides
	c.TotalAmount = t.Amount
	c.TotalCash = t.Cash
	c.TotalCOD = t.COD
	c.TotalCredit = t.Credit
}

// Repository persists cash closes and aggregates their source guides
type Repository interface {
	Create(ctx context.Context, close *CashClose) error
	FindByID(ctx context.Context, closeID int64) (*CashClose, error)
	// AggregateGuides computes the totals for guides created inside the window
	AggregateGuides(ctx context.Context, start, end time.Time) (*Totals, error)
	// SetDocument writes the published report reference back onto the close
	SetDocument(ctx context.Context, closeID int64, url, storageKey string) error
}
