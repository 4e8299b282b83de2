package guide

import (
	"github.com/shipguide/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Package describes the physical parcel attached to a guide. Its weight and
// dimensions feed the pricing computation and the rendered waybill.
type Package struct {
	ID           int64           `gorm:"column:package_id;primaryKey;autoIncrement"`
	GuideID      int64           `gorm:"column:guide_id"`
	WeightKg     decimal.Decimal `gorm:"column:weight_kg;type:numeric(10,3)"`
	Pieces       int             `gorm:"column:pieces"`
	LengthCm     decimal.Decimal `gorm:"column:length_cm;type:numeric(10,2)"`
	WidthCm      decimal.Decimal `gorm:"column:width_cm;type:numeric(10,2)"`
	HeightCm     decimal.Decimal `gorm:"column:height_cm;type:numeric(10,2)"`
	Insured      bool            `gorm:"column:insured"`
	Description  string          `gorm:"column:description"`
	SpecialNotes string          `gorm:"column:special_notes"`
}

// TableName returns the database table name
func (Package) TableName() string {
	return "packages"
}

// NewPackage validates and builds a package record. Pieces defaults to 1.
func NewPackage(weightKg decimal.Decimal, pieces int, lengthCm, widthCm, heightCm decimal.Decimal, insured bool, description, specialNotes string) (*Package, error) {
	if weightKg.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeValidation, "Package weight cannot be negative")
	}
	if lengthCm.IsNegative() || widthCm.IsNegative() || heightCm.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeValidation, "Package dimensions cannot be negative")
	}
	if pieces <= 0 {
		pieces = 1
	}

	return &Package{
		WeightKg:     weightKg,
		Pieces:       pieces,
		LengthCm:     lengthCm,
		WidthCm:      widthCm,
		HeightCm:     heightCm,
		Insured:      insured,
		Description:  description,
		SpecialNotes: specialNotes,
	}, nil
}
