package guide

import (
	"strings"

	"github.com/shipguide/backend/internal/domain/shared"
)

// PartyRole tags a party as the sender or the receiver of a guide
type PartyRole string

const (
	RoleSender   PartyRole = "SENDER"
	RoleReceiver PartyRole = "RECEIVER"
)

// Party is the sender or receiver attached to exactly one guide. Exactly two
// parties exist per guide, created in the same transaction as the guide and
// immutable after creation; corrections create a new guide.
type Party struct {
	ID             int64     `gorm:"column:party_id;primaryKey;autoIncrement"`
	GuideID        int64     `gorm:"column:guide_id"`
	Role           PartyRole `gorm:"column:party_role"`
	FullName       string    `gorm:"column:full_name"`
	DocumentType   string    `gorm:"column:document_type"`
	DocumentNumber string    `gorm:"column:document_number"`
	Phone          string    `gorm:"column:phone"`
	Email          string    `gorm:"column:email"`
	Address        string    `gorm:"column:address"`
	CityID         int64     `gorm:"column:city_id"`

	CityName string `gorm:"-"`
}

// TableName returns the database table name
func (Party) TableName() string {
	return "guide_parties"
}

// NewParty validates and builds a party for the given role. GuideID is filled
// in by the orchestrator once the guide row has been inserted.
func NewParty(role PartyRole, fullName, documentType, documentNumber, phone, email, address string, cityID int64) (*Party, error) {
	if role != RoleSender && role != RoleReceiver {
		return nil, shared.NewDomainError(shared.CodeValidation, "Unknown party role")
	}
	if strings.TrimSpace(fullName) == "" {
		return nil, shared.NewDomainError(shared.CodeValidation, "Party name is required")
	}
	if strings.TrimSpace(documentNumber) == "" {
		return nil, shared.NewDomainError(shared.CodeValidation, "Party document number is required")
	}
	if strings.TrimSpace(address) == "" {
		return nil, shared.NewDomainError(shared.CodeValidation, "Party address is required")
	}
	if cityID <= 0 {
		return nil, shared.NewDomainError(shared.CodeValidation, "Party city is required")
	}

	return &Party{
		Role:           role,
		FullName:       fullName,
		DocumentType:   documentType,
		DocumentNumber: documentNumber,
		Phone:          phone,
		Email:          email,
		Address:        address,
		CityID:         cityID,
	}, nil
}
