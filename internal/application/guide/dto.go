package guide

import (
	"time"

	"github.com/google/uuid"
	"github.com/shipguide/backend/internal/domain/guide"
	"github.com/shopspring/decimal"
)

// ==================== Create Guide DTOs ====================

// PartyInput carries sender or receiver details on a create request
type PartyInput struct {
	FullName       string `json:"full_name" binding:"required,min=1,max=200"`
	DocumentType   string `json:"document_type" binding:"omitempty,max=10"`
	DocumentNumber string `json:"document_number" binding:"required,min=1,max=30"`
	Phone          string `json:"phone" binding:"omitempty,max=30"`
	Email          string `json:"email" binding:"omitempty,email"`
	Address        string `json:"address" binding:"required,min=1,max=300"`
	CityID         int64  `json:"city_id" binding:"required,gt=0"`
}

// PackageInput carries the physical parcel details on a create request
type PackageInput struct {
	WeightKg     decimal.Decimal `json:"weight_kg" binding:"required"`
	Pieces       int             `json:"pieces"`
	LengthCm     decimal.Decimal `json:"length_cm"`
	WidthCm      decimal.Decimal `json:"width_cm"`
	HeightCm     decimal.Decimal `json:"height_cm"`
	Insured      bool            `json:"insured"`
	Description  string          `json:"description" binding:"omitempty,max=500"`
	SpecialNotes string          `json:"special_notes" binding:"omitempty,max=500"`
}

// CreateGuideRequest represents a request to create a shipping guide. Price is
// the caller's submitted price; it is verified against the rate data before
// anything is persisted. OverrideReason is only consulted when the submitted
// price deviates from the computed one.
type CreateGuideRequest struct {
	ServiceType    guide.ServiceType   `json:"service_type" binding:"required"`
	PaymentMethod  guide.PaymentMethod `json:"payment_method"`
	OriginCityID   int64               `json:"origin_city_id" binding:"required,gt=0"`
	DestCityID     int64               `json:"destination_city_id" binding:"required,gt=0"`
	DeclaredValue  decimal.Decimal     `json:"declared_value"`
	Price          decimal.Decimal     `json:"price"`
	OverrideReason string              `json:"override_reason" binding:"omitempty,max=500"`
	Sender         PartyInput          `json:"sender" binding:"required"`
	Receiver       PartyInput          `json:"receiver" binding:"required"`
	Package        PackageInput        `json:"package" binding:"required"`
}

// UpdateStatusRequest represents a request to move a guide to a new status
type UpdateStatusRequest struct {
	Status guide.Status `json:"status" binding:"required"`
}

// ==================== Response DTOs ====================

// DocumentInfo describes a published guide document
type DocumentInfo struct {
	URL       string `json:"url"`
	S3Key     string `json:"s3_key"`
	SizeBytes int64  `json:"size_bytes,omitempty"`
	ExpiresIn int64  `json:"expires_in_seconds"`
}

// PartyResponse is the read model of a guide party
type PartyResponse struct {
	Role           guide.PartyRole `json:"role"`
	FullName       string          `json:"full_name"`
	DocumentType   string          `json:"document_type,omitempty"`
	DocumentNumber string          `json:"document_number"`
	Phone          string          `json:"phone,omitempty"`
	Email          string          `json:"email,omitempty"`
	Address        string          `json:"address"`
	CityID         int64           `json:"city_id"`
	CityName       string          `json:"city_name,omitempty"`
}

// PackageResponse is the read model of a guide package
type PackageResponse struct {
	WeightKg     decimal.Decimal `json:"weight_kg"`
	Pieces       int             `json:"pieces"`
	LengthCm     decimal.Decimal `json:"length_cm"`
	WidthCm      decimal.Decimal `json:"width_cm"`
	HeightCm     decimal.Decimal `json:"height_cm"`
	Insured      bool            `json:"insured"`
	Description  string          `json:"description,omitempty"`
	SpecialNotes string          `json:"special_notes,omitempty"`
}

// HistoryEntryResponse is one row of the guide's status audit trail
type HistoryEntryResponse struct {
	Status    guide.Status `json:"status"`
	UpdatedBy uuid.UUID    `json:"updated_by"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// GuideResponse is the list read model of a guide
type GuideResponse struct {
	ID             int64               `json:"id"`
	Number         string              `json:"number"`
	ServiceType    guide.ServiceType   `json:"service_type"`
	PaymentMethod  guide.PaymentMethod `json:"payment_method"`
	DeclaredValue  decimal.Decimal     `json:"declared_value"`
	Price          decimal.Decimal     `json:"price"`
	CurrentStatus  guide.Status        `json:"current_status"`
	OriginCityID   int64               `json:"origin_city_id"`
	DestCityID     int64               `json:"destination_city_id"`
	OriginCityName string              `json:"origin_city_name,omitempty"`
	DestCityName   string              `json:"destination_city_name,omitempty"`
	HasDocument    bool                `json:"has_document"`
	CreatedBy      uuid.UUID           `json:"created_by"`
	CreatedAt      time.Time           `json:"created_at"`
}

// GuideDetailResponse is the full read model including relations
type GuideDetailResponse struct {
	GuideResponse
	Sender   *PartyResponse         `json:"sender,omitempty"`
	Receiver *PartyResponse         `json:"receiver,omitempty"`
	Package  *PackageResponse       `json:"package,omitempty"`
	History  []HistoryEntryResponse `json:"history"`
}

// CreateGuideResponse is the creation result. Document is nil and Warning is
// set when the guide committed but its document could not be published.
type CreateGuideResponse struct {
	Guide    GuideResponse `json:"guide"`
	Document *DocumentInfo `json:"document,omitempty"`
	Warning  string        `json:"warning,omitempty"`
}

// StatsResponse mirrors the daily operational counters
type StatsResponse struct {
	TotalToday     int64            `json:"total_today"`
	TotalProcessed int64            `json:"total_processed"`
	TotalPending   int64            `json:"total_pending"`
	ByStatus       map[string]int64 `json:"by_status"`
}

// ToGuideResponse converts a guide entity to its list read model
func ToGuideResponse(g *guide.Guide) GuideResponse {
	return GuideResponse{
		ID:             g.ID,
		Number:         g.Number(),
		ServiceType:    g.ServiceType,
		PaymentMethod:  g.PaymentMethod,
		DeclaredValue:  g.DeclaredValue,
		Price:          g.Price,
		CurrentStatus:  g.CurrentStatus,
		OriginCityID:   g.OriginCityID,
		DestCityID:     g.DestCityID,
		OriginCityName: g.OriginCityName,
		DestCityName:   g.DestCityName,
		HasDocument:    g.HasDocument(),
		CreatedBy:      g.CreatedBy,
		CreatedAt:      g.CreatedAt,
	}
}

// ToGuideDetailResponse converts a guide entity with relations to its full
// read model
func ToGuideDetailResponse(g *guide.Guide) GuideDetailResponse {
	detail := GuideDetailResponse{
		GuideResponse: ToGuideResponse(g),
		History:       make([]HistoryEntryResponse, 0, len(g.History)),
	}
	if g.Sender != nil {
		detail.Sender = toPartyResponse(g.Sender)
	}
	if g.Receiver != nil {
		detail.Receiver = toPartyResponse(g.Receiver)
	}
	if g.Package != nil {
		detail.Package = &PackageResponse{
			WeightKg:     g.Package.WeightKg,
			Pieces:       g.Package.Pieces,
			LengthCm:     g.Package.LengthCm,
			WidthCm:      g.Package.WidthCm,
			HeightCm:     g.Package.HeightCm,
			Insured:      g.Package.Insured,
			Description:  g.Package.Description,
			SpecialNotes: g.Package.SpecialNotes,
		}
	}
	for _, entry := range g.History {
		detail.History = append(detail.History, HistoryEntryResponse{
			Status:    entry.Status,
			UpdatedBy: entry.UpdatedBy,
			UpdatedAt: entry.UpdatedAt,
		})
	}
	return detail
}

func toPartyResponse(p *guide.Party) *PartyResponse {
	return &PartyResponse{
		Role:           p.Role,
		FullName:       p.FullName,
		DocumentType:   p.DocumentType,
		DocumentNumber: p.DocumentNumber,
		Phone:          p.Phone,
		Email:          p.Email,
		Address:        p.Address,
		CityID:         p.CityID,
		CityName:       p.CityName,
	}
}
