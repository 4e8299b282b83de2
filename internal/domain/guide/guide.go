package guide

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shipguide/backend/internal/domain/identity"
	"github.com/shipguide/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ServiceType identifies the service class of a shipment
type ServiceType string

const (
	// ServiceMessengerFlat is same-city messenger service billed at the
	// route's flat minimum value, regardless of weight or dimensions.
	ServiceMessengerFlat ServiceType = "MESSENGER_FLAT"
	// ServiceParcel is parcel freight billed by billable weight.
	ServiceParcel ServiceType = "PARCEL"
)

// IsValid checks if the service type is known
func (s ServiceType) IsValid() bool {
	return s == ServiceMessengerFlat || s == ServiceParcel
}

// PaymentMethod identifies how the shipment is paid
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "CASH"
	PaymentCOD    PaymentMethod = "COD"
	PaymentCredit PaymentMethod = "CREDIT"
)

// IsValid checks if the payment method is known
func (p PaymentMethod) IsValid() bool {
	switch p {
	case PaymentCash, PaymentCOD, PaymentCredit:
		return true
	}
	return false
}

// Status represents a guide's lifecycle state
type Status string

const (
	StatusCreated        Status = "CREATED"
	StatusInRoute        Status = "IN_ROUTE"
	StatusInWarehouse    Status = "IN_WAREHOUSE"
	StatusOutForDelivery Status = "OUT_FOR_DELIVERY"
	StatusDelivered      Status = "DELIVERED"
)

// IsValid checks if the status is a known lifecycle state
func (s Status) IsValid() bool {
	switch s {
	case StatusCreated, StatusInRoute, StatusInWarehouse, StatusOutForDelivery, StatusDelivered:
		return true
	}
	return false
}

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}

// CanBeSetBy reports whether the actor role may move a guide into this
// status. Admins may set any status; secretaries only register warehouse
// arrival; clients never change status.
func (s Status) CanBeSetBy(role identity.Role) bool {
	switch role {
	case identity.RoleAdmin:
		return true
	case identity.RoleSecretary:
		return s == StatusInWarehouse
	}
	return false
}

// Guide is a shipment waybill, the aggregate root of this context. Parties,
// package and status history are created atomically with it and never mutated
// afterwards; the current status only moves through the history append path.
type Guide struct {
	ID            int64           `gorm:"column:guide_id;primaryKey;autoIncrement"`
	ServiceType   ServiceType     `gorm:"column:service_type"`
	PaymentMethod PaymentMethod   `gorm:"column:payment_method"`
	DeclaredValue decimal.Decimal `gorm:"column:declared_value;type:numeric(14,2)"`
	Price         decimal.Decimal `gorm:"column:price;type:numeric(18,2)"`
	CurrentStatus Status          `gorm:"column:current_status"`
	OriginCityID  int64           `gorm:"column:origin_city_id"`
	DestCityID    int64           `gorm:"column:destination_city_id"`
	PDFURL        *string         `gorm:"column:pdf_url"`
	PDFS3Key      *string         `gorm:"column:pdf_s3_key"`
	CreatedBy     uuid.UUID       `gorm:"column:created_by;type:uuid"`
	CreatedAt     time.Time       `gorm:"column:created_at"`
	UpdatedAt     time.Time       `gorm:"column:updated_at"`

	Sender   *Party              `gorm:"-"`
	Receiver *Party              `gorm:"-"`
	Package  *Package            `gorm:"-"`
	History  []StatusHistoryEntry `gorm:"-"`

	OriginCityName string `gorm:"-"`
	DestCityName   string `gorm:"-"`
}

// TableName returns the database table name
func (Guide) TableName() string {
	return "shipping_guides"
}

// NewGuide creates a guide in its initial CREATED state. The ID is allocated
// by the storage layer when the guide row is inserted.
func NewGuide(
	serviceType ServiceType,
	paymentMethod PaymentMethod,
	declaredValue, price decimal.Decimal,
	originCityID, destCityID int64,
	createdBy uuid.UUID,
) (*Guide, error) {
	if !serviceType.IsValid() {
		return nil, shared.NewDomainError(shared.CodeValidation, "Unknown service type")
	}
	if paymentMethod == "" {
		paymentMethod = PaymentCash
	}
	if !paymentMethod.IsValid() {
		return nil, shared.NewDomainError(shared.CodeValidation, "Unknown payment method")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError(shared.CodePriceIntegrity, "Price cannot be negative")
	}
	if originCityID <= 0 || destCityID <= 0 {
		return nil, shared.NewDomainError(shared.CodeValidation, "Origin and destination cities are required")
	}
	if createdBy == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "Creator identity is required")
	}

	now := time.Now()
	return &Guide{
		ServiceType:   serviceType,
		PaymentMethod: paymentMethod,
		DeclaredValue: declaredValue,
		Price:         price,
		CurrentStatus: StatusCreated,
		OriginCityID:  originCityID,
		DestCityID:    destCityID,
		CreatedBy:     createdBy,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// Number returns the human-readable guide number for the given guide ID.
// It is derived at read time, never stored as an independent counter.
func Number(guideID int64) string {
	return fmt.Sprintf("%08d", guideID)
}

// Number returns this guide's human-readable number
func (g *Guide) Number() string {
	return Number(g.ID)
}

// HasDocument reports whether a rendered document has been published for
// this guide. A guide without a document is still a valid shipment.
func (g *Guide) HasDocument() bool {
	return g.PDFS3Key != nil && *g.PDFS3Key != ""
}
